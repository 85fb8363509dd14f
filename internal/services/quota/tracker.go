package quota

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// Maximum number of tracked keys to bound memory under abusive traffic.
const maxTrackedKeys = 10000

// Tracker is a per-key sliding-window request counter: a request is allowed
// while fewer than the limit have been recorded inside the trailing window.
type Tracker struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	logger  arbor.ILogger
	now     func() time.Time
}

// Compile-time interface assertion
var _ interfaces.QuotaTracker = (*Tracker)(nil)

// NewTracker creates a quota tracker from configuration.
func NewTracker(cfg *common.QuotaConfig, logger arbor.ILogger) *Tracker {
	return &Tracker{
		windows: make(map[string][]time.Time),
		limit:   cfg.RequestsPerWindow,
		window:  cfg.WindowDuration(),
		logger:  logger,
		now:     time.Now,
	}
}

// Allow implements interfaces.QuotaTracker.
func (t *Tracker) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	recent := t.prune(key, now)

	if len(recent) >= t.limit {
		t.windows[key] = recent
		t.logger.Debug().
			Str("key", key).
			Int("requests", len(recent)).
			Msg("Quota exceeded")
		return false
	}

	if len(t.windows) >= maxTrackedKeys {
		t.evictOldest()
	}
	t.windows[key] = append(recent, now)
	return true
}

// Remaining implements interfaces.QuotaTracker. Probing a key never adds it
// to the tracked set: only Allow may grow the map, so the maxTrackedKeys
// bound holds against arbitrary probed keys.
func (t *Tracker) Remaining(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.prune(key, t.now())
	if len(recent) == 0 {
		delete(t.windows, key)
	} else {
		t.windows[key] = recent
	}
	remaining := t.limit - len(recent)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Reset implements interfaces.QuotaTracker.
func (t *Tracker) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, key)
}

// Window implements interfaces.QuotaTracker.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// prune drops timestamps that have slid out of the window. Caller holds the
// lock.
func (t *Tracker) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-t.window)
	stamps := t.windows[key]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// evictOldest removes the key with the stalest newest-timestamp. Caller
// holds the lock.
func (t *Tracker) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, stamps := range t.windows {
		var newest time.Time
		if len(stamps) > 0 {
			newest = stamps[len(stamps)-1]
		}
		if first || newest.Before(oldestTime) {
			oldestKey = k
			oldestTime = newest
			first = false
		}
	}
	if oldestKey != "" {
		delete(t.windows, oldestKey)
	}
}
