package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID               snowflake.ID
	VoiceChannelID        snowflake.ID // caller has verified the requester is in this channel
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	Query                 string
	RequesterID           snowflake.ID
	RequesterName         string
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	Track    *domain.Track
	Position int // 1-based, counting the current track
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrack *domain.Track
	NextTrack    *domain.Track // nil if queue is empty
}

// VolumeOutput contains the result of the SetVolume use case.
type VolumeOutput struct {
	Percent int // stored volume after clamping
}

// Play resolves the query, enqueues the track and starts playback if the
// guild is idle. The guild's voice connection is created on first use and
// reused afterwards.
func (r *SessionRegistry) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	query := domain.NewSearchQuery(input.Query, r.config.SearchSource)
	if !query.IsValid() {
		return nil, ErrInvalidQuery
	}

	// Remember which session (if any) this request targets before suspending on the resolver.
	existing := r.repo.Get(input.GuildID)

	resolved, err := r.resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	unlock := r.locks.lock(input.GuildID)
	defer unlock()

	session := r.repo.Get(input.GuildID)
	if existing != nil && session != existing {
		slog.Info("discarded resolved track for closed session",
			"guild", input.GuildID,
			"track", resolved.Title,
		)
		return nil, ErrSessionClosed
	}

	if session != nil && session.IsQueueFull() {
		return nil, queueFull(session.MaxQueueSize())
	}

	if session == nil {
		session, err = r.connect(ctx, input)
		if err != nil {
			return nil, err
		}
	} else if input.NotificationChannelID != 0 {
		session.SetNotificationChannelID(input.NotificationChannelID)
	}

	track := resolved.WithRequester(input.RequesterID, input.RequesterName)
	position, err := session.Enqueue(track)
	if err != nil {
		return nil, queueFull(session.MaxQueueSize())
	}

	slog.Info("enqueued track",
		"guild", input.GuildID,
		"track", track.Title,
		"position", position,
		"requester", input.RequesterID,
	)

	if session.IsIdle() {
		r.cancelIdleTimer(input.GuildID)
		r.playNext(ctx, session, false)
	}

	return &PlayOutput{Track: track, Position: position}, nil
}

// connect joins the voice channel and registers a new session for the guild.
// Must be called with the guild lock held.
func (r *SessionRegistry) connect(ctx context.Context, input PlayInput) (*domain.Session, error) {
	if err := r.voice.JoinChannel(ctx, input.GuildID, input.VoiceChannelID); err != nil {
		slog.Error("failed to join voice channel",
			"guild", input.GuildID,
			"channel", input.VoiceChannelID,
			"error", err,
		)
		return nil, wrapFailure(ErrConnectFailed, err)
	}

	session := domain.NewSession(
		input.GuildID,
		input.VoiceChannelID,
		input.NotificationChannelID,
		r.config.MaxQueueSize,
		r.config.DefaultVolume,
	)
	r.repo.Save(session)

	slog.Info("created session", "guild", input.GuildID, "channel", input.VoiceChannelID)

	return session, nil
}

// Pause pauses the current track.
func (r *SessionRegistry) Pause(ctx context.Context, guildID snowflake.ID) error {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil || !session.IsPlaying() {
		return ErrNothingPlaying
	}

	if err := r.audioPlayer.Pause(ctx, guildID); err != nil {
		return wrapFailure(ErrEngineFailure, err)
	}

	return session.Pause()
}

// Resume resumes a paused track.
func (r *SessionRegistry) Resume(ctx context.Context, guildID snowflake.ID) error {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil || session.State() != domain.PlaybackStatePaused {
		return ErrNothingToResume
	}

	if err := r.audioPlayer.Resume(ctx, guildID); err != nil {
		return wrapFailure(ErrEngineFailure, err)
	}

	return session.Resume()
}

// Stop halts playback and clears the queue. The voice connection is kept.
func (r *SessionRegistry) Stop(ctx context.Context, guildID snowflake.ID) error {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil {
		return ErrNothingPlaying
	}

	hadTrack := session.State().HasTrack()
	if hadTrack {
		if err := r.audioPlayer.Stop(ctx, guildID); err != nil {
			slog.Warn("failed to stop playback", "guild", guildID, "error", err)
		}
	}

	session.Stop()
	if hadTrack {
		r.publishNowPlaying(session, nil)
	}
	r.startIdleTimer(session)

	slog.Info("stopped playback", "guild", guildID)

	return nil
}

// Skip ends the current track early and advances to the next one.
func (r *SessionRegistry) Skip(ctx context.Context, guildID snowflake.ID) (*SkipOutput, error) {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil || !session.State().HasTrack() {
		return nil, ErrNothingPlaying
	}

	skipped := session.EndTrack()

	slog.Info("skipped track", "guild", guildID, "track", skipped.Title)

	r.playNext(ctx, session, true)

	return &SkipOutput{
		SkippedTrack: skipped,
		NextTrack:    session.CurrentTrack(),
	}, nil
}

// SetVolume clamps percent into [0, 100] and stores it. The level of a loaded
// track is changed immediately.
func (r *SessionRegistry) SetVolume(
	ctx context.Context,
	guildID snowflake.ID,
	percent int,
) (*VolumeOutput, error) {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	volume := session.SetVolume(percent)
	if session.State().HasTrack() {
		if err := r.audioPlayer.SetVolume(ctx, guildID, volume); err != nil {
			slog.Warn("failed to apply volume", "guild", guildID, "error", err)
		}
	}

	return &VolumeOutput{Percent: session.VolumePercent()}, nil
}

// HandleTrackEnded advances the queue after the engine finished or failed the
// current track. Events for a track that is no longer current are ignored.
func (r *SessionRegistry) HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	unlock := r.locks.lock(event.GuildID)
	defer unlock()

	session := r.repo.Get(event.GuildID)
	if session == nil {
		slog.Debug("track ended but no session", "guild", event.GuildID)
		return
	}

	current := session.CurrentTrack()
	if current == nil || (event.Encoded != "" && current.Encoded != event.Encoded) {
		slog.Debug("ignored end of stale track", "guild", event.GuildID, "reason", event.Reason)
		return
	}

	ended := session.EndTrack()
	// A stuck track is still loaded in the engine.
	engineLoaded := event.Reason == domain.TrackEndErrored
	if engineLoaded {
		slog.Warn("track failed, advancing queue",
			"guild", event.GuildID,
			"track", ended.Title,
			"error", event.Message,
		)
	} else {
		slog.Debug("track finished", "guild", event.GuildID, "track", ended.Title)
	}

	r.playNext(ctx, session, engineLoaded)
}

// playNext loads queued tracks until the engine accepts one or the queue is
// exhausted. A track that fails to load is dropped, never retried.
// engineLoaded reports whether the engine may still hold the previous track;
// it is stopped when nothing replaces that track.
// Must be called with the guild lock held on an idle session.
func (r *SessionRegistry) playNext(ctx context.Context, session *domain.Session, engineLoaded bool) {
	guildID := session.GuildID()

	for {
		track, err := session.BeginLoading()
		if err != nil {
			slog.Error("failed to start next track", "guild", guildID, "state", session.State())
			return
		}

		if track == nil {
			if engineLoaded {
				if err := r.audioPlayer.Stop(ctx, guildID); err != nil {
					slog.Warn("failed to stop playback", "guild", guildID, "error", err)
				}
			}
			r.publishNowPlaying(session, nil)
			r.startIdleTimer(session)
			slog.Debug("queue drained", "guild", guildID)
			return
		}

		if err := r.audioPlayer.Play(ctx, guildID, track, session.Volume()); err != nil {
			slog.Warn("failed to load track, skipping",
				"guild", guildID,
				"track", track.Title,
				"error", err,
			)
			session.EndTrack()
			continue
		}

		if err := session.MarkPlaying(); err != nil {
			slog.Error("failed to mark track as playing", "guild", guildID, "error", err)
			return
		}

		slog.Info("started track", "guild", guildID, "track", track.Title)
		r.publishNowPlaying(session, track)
		return
	}
}
