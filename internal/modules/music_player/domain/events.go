package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason is why a track stopped occupying the engine.
type TrackEndReason string

const (
	// TrackEndCompleted means the track played to its end.
	TrackEndCompleted TrackEndReason = "completed"
	// TrackEndErrored means the engine failed to open or keep streaming the track.
	TrackEndErrored TrackEndReason = "errored"
)

// TrackEndedEvent is published when a track stops occupying the engine for a
// reason the session did not cause itself. It is the only path that advances the queue.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Encoded string // engine source of the ended track
	Reason  TrackEndReason
	Message string // engine error message, empty on completion
}

// NowPlayingChangedEvent is published whenever a session's current track changes.
// A nil Track means nothing is playing anymore.
type NowPlayingChangedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
	Track                 *Track
}
