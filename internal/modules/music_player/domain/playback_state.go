package domain

import "errors"

// ErrInvalidTransition is returned when a playback state change is not allowed
// from the session's current state.
var ErrInvalidTransition = errors.New("invalid playback state transition")

// PlaybackState is the state of a session's playback engine.
type PlaybackState int

const (
	// PlaybackStateIdle means no track is loaded.
	PlaybackStateIdle PlaybackState = iota
	// PlaybackStateLoading means a track was dequeued and the engine is being primed with it.
	PlaybackStateLoading
	// PlaybackStatePlaying means the engine is streaming the current track.
	PlaybackStatePlaying
	// PlaybackStatePaused means the current track is loaded but not streaming.
	PlaybackStatePaused
)

// String returns the string representation of the state.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackStateIdle:
		return "idle"
	case PlaybackStateLoading:
		return "loading"
	case PlaybackStatePlaying:
		return "playing"
	case PlaybackStatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// HasTrack returns true for every state in which a track is loaded.
func (s PlaybackState) HasTrack() bool {
	return s != PlaybackStateIdle
}
