package pipeline

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/metrics"
	"github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

// SessionRegistry keeps the latest pipeline result per session id.
// Entries expire after a TTL so the registry cannot grow without
// bound. Last write for a session id wins; concurrent writers to
// different sessions do not block each other beyond the map lock.
type SessionRegistry struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	ttl     time.Duration
	clock   clockwork.Clock
	stop    chan struct{}
	stopped sync.Once
}

type sessionEntry struct {
	result  *Result
	touched time.Time
}

func NewSessionRegistry(ttl time.Duration, clock clockwork.Clock) *SessionRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	r := &SessionRegistry{
		entries: make(map[string]sessionEntry),
		ttl:     ttl,
		clock:   clock,
		stop:    make(chan struct{}),
	}

	go r.sweep()

	return r
}

func (r *SessionRegistry) Record(sessionID string, result *Result) {
	if sessionID == "" {
		return
	}

	r.mu.Lock()
	r.entries[sessionID] = sessionEntry{result: result, touched: r.clock.Now()}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	r.mu.Unlock()
}

func (r *SessionRegistry) Get(sessionID string) (*Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[sessionID]
	if !ok || r.clock.Since(entry.touched) > r.ttl {
		return nil, false
	}
	return entry.result, true
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *SessionRegistry) Close() {
	r.stopped.Do(func() { close(r.stop) })
}

func (r *SessionRegistry) sweep() {
	ticker := r.clock.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.Chan():
			r.evictExpired()
		}
	}
}

func (r *SessionRegistry) evictExpired() {
	now := r.clock.Now()

	r.mu.Lock()
	evicted := 0
	for id, entry := range r.entries {
		if now.Sub(entry.touched) > r.ttl {
			delete(r.entries, id)
			evicted++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	r.mu.Unlock()

	if evicted > 0 {
		logger.Debug("Expired sessions evicted", zap.Int("count", evicted))
	}
}
