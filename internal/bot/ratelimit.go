package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CommandLimiter limits how often each user may invoke each command.
type CommandLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	limiters  map[limiterKey]*limiterEntry
	lastPrune time.Time
	now       func() time.Time
}

type limiterKey struct {
	userID  string
	command string
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewCommandLimiter allows commands invocations per window and user.
// It returns nil when commands is zero, and a nil limiter allows everything.
func NewCommandLimiter(commands int, window time.Duration) *CommandLimiter {
	if commands <= 0 {
		return nil
	}
	return &CommandLimiter{
		limit:     rate.Every(window / time.Duration(commands)),
		burst:     commands,
		idleAfter: window,
		limiters:  make(map[limiterKey]*limiterEntry),
		now:       time.Now,
	}
}

// Allow reports whether the user may run the command now.
func (l *CommandLimiter) Allow(userID, command string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	key := limiterKey{userID: userID, command: command}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// prune drops limiters that have been idle for longer than a full window.
func (l *CommandLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < l.idleAfter {
		return
	}
	l.lastPrune = now

	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleAfter {
			delete(l.limiters, key)
		}
	}
}
