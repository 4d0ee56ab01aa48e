package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// AudioPlayer is the playback engine bound to a guild's voice connection.
// Volume is normalized to [0, 1].
type AudioPlayer interface {
	// Play loads the track into the engine at the given volume, replacing whatever was loaded.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track, volume float64) error

	// Stop unloads the current track.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses the current playback.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume resumes the paused playback.
	Resume(ctx context.Context, guildID snowflake.ID) error

	// SetVolume changes the gain of the loaded track.
	SetVolume(ctx context.Context, guildID snowflake.ID, volume float64) error
}
