package domain

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

// Session is the complete music playback state owned by one guild.
// A Session is not safe for concurrent use; callers serialize access per guild.
type Session struct {
	guildID               snowflake.ID
	voiceChannelID        snowflake.ID // Voice channel the bot is connected to
	notificationChannelID snowflake.ID // Text channel for notifications
	queue                 Queue
	current               *Track
	state                 PlaybackState
	volume                float64 // normalized to [0, 1]
}

// NewSession creates an idle Session for a guild that is connected to voiceChannelID.
func NewSession(
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
	maxQueueSize int,
	volumePercent int,
) *Session {
	s := &Session{
		guildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		queue:                 NewQueue(maxQueueSize),
		state:                 PlaybackStateIdle,
	}
	s.SetVolume(volumePercent)
	return s
}

// GuildID returns the guild ID.
func (s *Session) GuildID() snowflake.ID {
	// guildID is never modified after construction
	return s.guildID
}

// VoiceChannelID returns the voice channel the bot is connected to.
func (s *Session) VoiceChannelID() snowflake.ID {
	return s.voiceChannelID
}

// SetVoiceChannelID updates the voice channel, e.g. after the bot was moved.
func (s *Session) SetVoiceChannelID(channelID snowflake.ID) {
	s.voiceChannelID = channelID
}

// NotificationChannelID returns the text channel used for notifications.
func (s *Session) NotificationChannelID() snowflake.ID {
	return s.notificationChannelID
}

// SetNotificationChannelID updates the notification channel.
func (s *Session) SetNotificationChannelID(channelID snowflake.ID) {
	s.notificationChannelID = channelID
}

// State returns the playback state.
func (s *Session) State() PlaybackState {
	return s.state
}

// IsPlaying returns true only while a track is loaded and streaming.
func (s *Session) IsPlaying() bool {
	return s.state == PlaybackStatePlaying
}

// IsIdle returns true if no track is loaded.
func (s *Session) IsIdle() bool {
	return s.state == PlaybackStateIdle
}

// CurrentTrack returns the loaded track, or nil when idle.
func (s *Session) CurrentTrack() *Track {
	return s.current
}

// Volume returns the normalized volume in [0, 1].
func (s *Session) Volume() float64 {
	return s.volume
}

// VolumePercent returns the volume as an integer percentage.
func (s *Session) VolumePercent() int {
	return int(s.volume*100 + 0.5)
}

// SetVolume clamps percent into [0, 100], stores it normalized and returns the stored value.
func (s *Session) SetVolume(percent int) float64 {
	s.volume = float64(lo.Clamp(percent, 0, 100)) / 100
	return s.volume
}

// QueueLen returns the number of pending tracks.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// IsQueueFull returns true if no further track can be enqueued.
func (s *Session) IsQueueFull() bool {
	return s.queue.IsFull()
}

// MaxQueueSize returns the pending queue bound, zero or less meaning unbounded.
func (s *Session) MaxQueueSize() int {
	return s.queue.Capacity()
}

// PendingTracks returns a copy of the pending queue.
func (s *Session) PendingTracks() []*Track {
	return s.queue.Tracks()
}

// Tracks returns the current track (if any) followed by the pending queue.
func (s *Session) Tracks() []*Track {
	pending := s.queue.Tracks()
	if s.current == nil {
		return pending
	}
	return append([]*Track{s.current}, pending...)
}

// Enqueue appends a track to the pending queue and returns its 1-based
// position in the sequence of current track followed by the queue.
func (s *Session) Enqueue(track *Track) (int, error) {
	if err := s.queue.Push(track); err != nil {
		return 0, err
	}
	position := s.queue.Len()
	if s.current != nil {
		position++
	}
	return position, nil
}

// BeginLoading dequeues the head of the queue into the current slot and moves
// to Loading. It returns nil and stays Idle if the queue is empty.
func (s *Session) BeginLoading() (*Track, error) {
	if s.state != PlaybackStateIdle {
		return nil, ErrInvalidTransition
	}
	next := s.queue.Pop()
	if next == nil {
		return nil, nil
	}
	s.current = next
	s.state = PlaybackStateLoading
	return next, nil
}

// MarkPlaying moves a Loading session to Playing once the engine accepted the track.
func (s *Session) MarkPlaying() error {
	if s.state != PlaybackStateLoading {
		return ErrInvalidTransition
	}
	s.state = PlaybackStatePlaying
	return nil
}

// Pause moves a Playing session to Paused.
func (s *Session) Pause() error {
	if s.state != PlaybackStatePlaying {
		return ErrInvalidTransition
	}
	s.state = PlaybackStatePaused
	return nil
}

// Resume moves a Paused session back to Playing.
func (s *Session) Resume() error {
	if s.state != PlaybackStatePaused {
		return ErrInvalidTransition
	}
	s.state = PlaybackStatePlaying
	return nil
}

// EndTrack drops the current track and returns to Idle. It is used for natural
// completion, engine faults, failed loads and skips alike. The ended track is returned.
func (s *Session) EndTrack() *Track {
	ended := s.current
	s.current = nil
	s.state = PlaybackStateIdle
	return ended
}

// Stop clears the pending queue and the current track and returns to Idle.
func (s *Session) Stop() {
	s.queue.Clear()
	s.current = nil
	s.state = PlaybackStateIdle
}
