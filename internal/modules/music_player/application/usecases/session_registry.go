package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// cleanupTimeout bounds engine and transport calls made outside of a user request.
const cleanupTimeout = 10 * time.Second

// RegistryConfig contains the tunables of a SessionRegistry.
type RegistryConfig struct {
	MaxQueueSize  int // pending tracks per guild, zero or less for unbounded
	DefaultVolume int // percent, applied to new sessions
	LeaveOnEmpty  bool
	IdleTimeout   time.Duration
	SearchSource  domain.SearchSource
}

// stopper is the part of *time.Timer the registry needs.
type stopper interface {
	Stop() bool
}

type idleTimer struct {
	timer stopper
}

// SessionRegistry owns at most one Session per guild and implements every
// playback operation on it. Operations on one guild are serialized; different
// guilds never contend. The track resolver is always called without a lock held.
type SessionRegistry struct {
	repo        domain.SessionRepository
	audioPlayer ports.AudioPlayer
	voice       ports.VoiceConnection
	resolver    ports.TrackResolver
	publisher   ports.EventPublisher
	config      RegistryConfig

	locks guildLocks

	// Guilds whose voice channel the registry left and whose disconnect
	// update has not arrived yet.
	leavingMu sync.Mutex
	leaving   map[snowflake.ID]struct{}

	timersMu   sync.Mutex
	idleTimers map[snowflake.ID]*idleTimer
	afterFunc  func(d time.Duration, f func()) stopper
}

// NewSessionRegistry creates a new SessionRegistry. publisher may be nil.
func NewSessionRegistry(
	repo domain.SessionRepository,
	audioPlayer ports.AudioPlayer,
	voice ports.VoiceConnection,
	resolver ports.TrackResolver,
	publisher ports.EventPublisher,
	config RegistryConfig,
) *SessionRegistry {
	return &SessionRegistry{
		repo:        repo,
		audioPlayer: audioPlayer,
		voice:       voice,
		resolver:    resolver,
		publisher:   publisher,
		config:      config,
		locks:       guildLocks{locks: make(map[snowflake.ID]*guildLock)},
		leaving:     make(map[snowflake.ID]struct{}),
		idleTimers:  make(map[snowflake.ID]*idleTimer),
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// StatsOutput summarizes every active session.
type StatsOutput struct {
	ActiveSessions  int
	PlayingSessions int
	TotalTracks     int // current tracks plus pending queues
}

// Stats returns counters across all guilds.
func (r *SessionRegistry) Stats() StatsOutput {
	var stats StatsOutput
	for _, session := range r.repo.All() {
		unlock := r.locks.lock(session.GuildID())
		if r.repo.Get(session.GuildID()) == session {
			stats.ActiveSessions++
			if session.IsPlaying() {
				stats.PlayingSessions++
			}
			stats.TotalTracks += len(session.Tracks())
		}
		unlock()
	}
	return stats
}

// Shutdown tears down every session. It is called once when the module stops.
func (r *SessionRegistry) Shutdown(ctx context.Context) {
	for _, session := range r.repo.All() {
		unlock := r.locks.lock(session.GuildID())
		if r.repo.Get(session.GuildID()) == session {
			r.teardown(ctx, session, true)
		}
		unlock()
	}
}

// teardown destroys a session. Transport errors are logged and the session is
// removed regardless. When expectDisconnect is set, the disconnect update the
// leave produces is remembered so it cannot tear down a later session.
// Must be called with the guild lock held.
func (r *SessionRegistry) teardown(ctx context.Context, session *domain.Session, expectDisconnect bool) {
	guildID := session.GuildID()

	r.cancelIdleTimer(guildID)
	r.repo.Delete(guildID)

	if err := r.voice.LeaveChannel(ctx, guildID); err != nil {
		slog.Warn("failed to leave voice channel", "guild", guildID, "error", err)
	} else if expectDisconnect {
		r.leavingMu.Lock()
		r.leaving[guildID] = struct{}{}
		r.leavingMu.Unlock()
	}

	if session.State().HasTrack() {
		r.publishNowPlaying(session, nil)
	}

	slog.Info("cleaned up session", "guild", guildID)
}

func (r *SessionRegistry) publishNowPlaying(session *domain.Session, track *domain.Track) {
	if r.publisher == nil {
		return
	}
	r.publisher.PublishNowPlayingChanged(domain.NowPlayingChangedEvent{
		GuildID:               session.GuildID(),
		NotificationChannelID: session.NotificationChannelID(),
		Track:                 track,
	})
}

// startIdleTimer arms the auto-leave timer for an idle session with an empty queue.
// Must be called with the guild lock held.
func (r *SessionRegistry) startIdleTimer(session *domain.Session) {
	if !r.config.LeaveOnEmpty || r.config.IdleTimeout <= 0 {
		return
	}

	guildID := session.GuildID()

	r.timersMu.Lock()
	defer r.timersMu.Unlock()

	if existing, ok := r.idleTimers[guildID]; ok {
		existing.timer.Stop()
	}

	entry := &idleTimer{}
	entry.timer = r.afterFunc(r.config.IdleTimeout, func() {
		r.onIdleTimeout(session, entry)
	})
	r.idleTimers[guildID] = entry

	slog.Debug("started idle timer", "guild", guildID, "timeout", r.config.IdleTimeout)
}

// cancelIdleTimer stops the guild's idle timer, if any.
func (r *SessionRegistry) cancelIdleTimer(guildID snowflake.ID) {
	r.timersMu.Lock()
	defer r.timersMu.Unlock()

	if existing, ok := r.idleTimers[guildID]; ok {
		existing.timer.Stop()
		delete(r.idleTimers, guildID)
	}
}

func (r *SessionRegistry) onIdleTimeout(session *domain.Session, entry *idleTimer) {
	guildID := session.GuildID()

	unlock := r.locks.lock(guildID)
	defer unlock()

	r.timersMu.Lock()
	current := r.idleTimers[guildID] == entry
	if current {
		delete(r.idleTimers, guildID)
	}
	r.timersMu.Unlock()

	if !current {
		return
	}
	if r.repo.Get(guildID) != session || !session.IsIdle() || session.QueueLen() > 0 {
		return
	}

	slog.Info("leaving voice channel after idle timeout",
		"guild", guildID,
		"timeout", r.config.IdleTimeout,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	r.teardown(ctx, session, true)
}

// consumeLeaving reports whether a disconnect was caused by the registry's own
// leave, and forgets that leave.
func (r *SessionRegistry) consumeLeaving(guildID snowflake.ID) bool {
	r.leavingMu.Lock()
	defer r.leavingMu.Unlock()

	_, ok := r.leaving[guildID]
	delete(r.leaving, guildID)
	return ok
}

// guildLocks hands out one mutex per guild. An entry lives only while some
// caller holds or waits for it.
type guildLocks struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*guildLock
}

type guildLock struct {
	mu   sync.Mutex
	refs int
}

func (l *guildLocks) lock(guildID snowflake.ID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[guildID]
	if !ok {
		entry = &guildLock{}
		l.locks[guildID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, guildID)
		}
		l.mu.Unlock()
	}
}

// len returns the number of guilds with a held or awaited lock.
func (l *guildLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
