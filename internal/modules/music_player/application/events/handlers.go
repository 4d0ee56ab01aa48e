package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// TrackEndedHandler reacts to the engine finishing or failing a track.
type TrackEndedHandler interface {
	HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent)
}

// consume runs handle for every event received on ch until ctx is done,
// done is closed or ch is closed.
func consume[E any](
	ctx context.Context,
	wg *sync.WaitGroup,
	done <-chan struct{},
	ch <-chan E,
	handle func(context.Context, E),
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				handle(ctx, event)
			}
		}
	}()
}

// PlaybackEventHandler advances guild queues when the engine reports the end of a track.
type PlaybackEventHandler struct {
	handler TrackEndedHandler
	bus     *Bus

	wg   sync.WaitGroup
	done chan struct{}
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(handler TrackEndedHandler, bus *Bus) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		handler: handler,
		bus:     bus,
		done:    make(chan struct{}),
	}
}

// Start begins listening for events in a background goroutine.
func (h *PlaybackEventHandler) Start(ctx context.Context) {
	consume(ctx, &h.wg, h.done, h.bus.TrackEnded(), h.handleTrackEnded)
	slog.Debug("playback event handler started")
}

// Stop stops the event handler and waits for goroutines to finish.
func (h *PlaybackEventHandler) Stop() {
	close(h.done)
	h.wg.Wait()
	slog.Debug("playback event handler stopped")
}

func (h *PlaybackEventHandler) handleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	slog.Debug("track ended, advancing queue",
		"guild", event.GuildID,
		"reason", event.Reason,
	)
	h.handler.HandleTrackEnded(ctx, event)
}

// nowPlayingMessage identifies a posted "Now Playing" message.
type nowPlayingMessage struct {
	channelID snowflake.ID
	messageID snowflake.ID
}

// NotificationEventHandler keeps one "Now Playing" message per guild in sync
// with the track that is playing.
type NotificationEventHandler struct {
	notifier         ports.NotificationSender
	userInfoProvider ports.UserInfoProvider
	bus              *Bus

	mu       sync.Mutex
	messages map[snowflake.ID]nowPlayingMessage

	wg   sync.WaitGroup
	done chan struct{}
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
// userInfoProvider may be nil.
func NewNotificationEventHandler(
	notifier ports.NotificationSender,
	userInfoProvider ports.UserInfoProvider,
	bus *Bus,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		notifier:         notifier,
		userInfoProvider: userInfoProvider,
		bus:              bus,
		messages:         make(map[snowflake.ID]nowPlayingMessage),
		done:             make(chan struct{}),
	}
}

// Start begins listening for events in a background goroutine.
func (h *NotificationEventHandler) Start(ctx context.Context) {
	consume(ctx, &h.wg, h.done, h.bus.NowPlayingChanged(), h.handleNowPlayingChanged)
	slog.Debug("notification event handler started")
}

// Stop stops the event handler and waits for goroutines to finish.
func (h *NotificationEventHandler) Stop() {
	close(h.done)
	h.wg.Wait()
	slog.Debug("notification event handler stopped")
}

func (h *NotificationEventHandler) handleNowPlayingChanged(
	_ context.Context,
	event domain.NowPlayingChangedEvent,
) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if previous, ok := h.messages[event.GuildID]; ok {
		delete(h.messages, event.GuildID)
		if err := h.notifier.DeleteMessage(previous.channelID, previous.messageID); err != nil {
			slog.Warn("failed to delete previous now playing message",
				"guild", event.GuildID,
				"message_id", previous.messageID,
				"error", err,
			)
		}
	}

	if event.Track == nil || event.NotificationChannelID == 0 {
		return
	}

	slog.Debug("sending now playing notification",
		"guild", event.GuildID,
		"track", event.Track.Title,
	)

	messageID, err := h.notifier.SendNowPlaying(
		event.NotificationChannelID,
		h.nowPlayingInfo(event.GuildID, event.Track),
	)
	if err != nil {
		slog.Error("failed to send now playing notification",
			"guild", event.GuildID,
			"error", err,
		)
		return
	}

	h.messages[event.GuildID] = nowPlayingMessage{
		channelID: event.NotificationChannelID,
		messageID: messageID,
	}
}

func (h *NotificationEventHandler) nowPlayingInfo(
	guildID snowflake.ID,
	track *domain.Track,
) *ports.NowPlayingInfo {
	info := &ports.NowPlayingInfo{
		Identifier:    track.Identifier,
		Title:         track.Title,
		Artist:        track.Artist,
		Duration:      track.DurationLabel(),
		URI:           track.URI,
		ArtworkURL:    track.ArtworkURL,
		SourceName:    track.SourceName,
		IsStream:      track.IsStream,
		RequesterID:   track.RequesterID,
		RequesterName: track.RequesterName,
		EnqueuedAt:    track.EnqueuedAt,
	}

	if h.userInfoProvider == nil || track.RequesterID == 0 {
		return info
	}

	user, err := h.userInfoProvider.GetUserInfo(guildID, track.RequesterID)
	if err != nil {
		slog.Debug("failed to look up requester", "guild", guildID, "error", err)
		return info
	}
	info.RequesterName = user.DisplayName
	info.RequesterAvatarURL = user.AvatarURL
	return info
}
