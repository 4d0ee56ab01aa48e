package ports

import "github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"

// EventPublisher publishes events asynchronously. Implementations must not block.
type EventPublisher interface {
	PublishTrackEnded(event domain.TrackEndedEvent)
	PublishNowPlayingChanged(event domain.NowPlayingChangedEvent)
}
