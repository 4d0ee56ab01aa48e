package events

import (
	"log/slog"
	"sync"

	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time check that Bus implements ports.EventPublisher.
var _ ports.EventPublisher = (*Bus)(nil)

// Bus provides a channel-based event bus for async event handling.
type Bus struct {
	trackEnded        chan domain.TrackEndedEvent
	nowPlayingChanged chan domain.NowPlayingChangedEvent

	closed bool
	mu     sync.RWMutex
}

// NewBus creates a new Bus with the given buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	return &Bus{
		trackEnded:        make(chan domain.TrackEndedEvent, bufferSize),
		nowPlayingChanged: make(chan domain.NowPlayingChangedEvent, bufferSize),
	}
}

// publish sends event on ch without blocking. If the buffer is full the event
// is dropped with a warning.
func publish[E any](b *Bus, ch chan E, event E, eventType string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType)
		return false
	}

	select {
	case ch <- event:
		return true
	default:
		slog.Warn("event buffer full, dropping event", "type", eventType)
		return false
	}
}

// PublishTrackEnded publishes a TrackEndedEvent.
func (b *Bus) PublishTrackEnded(event domain.TrackEndedEvent) {
	if publish(b, b.trackEnded, event, "TrackEnded") {
		slog.Debug("published event", "type", "TrackEnded", "guild", event.GuildID)
	}
}

// PublishNowPlayingChanged publishes a NowPlayingChangedEvent.
func (b *Bus) PublishNowPlayingChanged(event domain.NowPlayingChangedEvent) {
	if publish(b, b.nowPlayingChanged, event, "NowPlayingChanged") {
		slog.Debug("published event", "type", "NowPlayingChanged", "guild", event.GuildID)
	}
}

// TrackEnded returns the channel for TrackEndedEvent.
func (b *Bus) TrackEnded() <-chan domain.TrackEndedEvent {
	return b.trackEnded
}

// NowPlayingChanged returns the channel for NowPlayingChangedEvent.
func (b *Bus) NowPlayingChanged() <-chan domain.NowPlayingChangedEvent {
	return b.nowPlayingChanged
}

// Close closes all event channels.
// After calling Close, publishing will no longer send events.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.trackEnded)
	close(b.nowPlayingChanged)

	slog.Debug("event bus closed")
}
