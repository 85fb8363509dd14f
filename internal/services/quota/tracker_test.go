package quota

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
)

func testTracker(limit int, window string) (*Tracker, *time.Time) {
	tracker := NewTracker(&common.QuotaConfig{
		Enabled:           true,
		RequestsPerWindow: limit,
		Window:            window,
	}, arbor.NewLogger())

	clock := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return clock }
	return tracker, &clock
}

func TestAllowUpToLimit(t *testing.T) {
	tracker, _ := testTracker(3, "1m")

	assert.True(t, tracker.Allow("client"))
	assert.True(t, tracker.Allow("client"))
	assert.True(t, tracker.Allow("client"))
	assert.False(t, tracker.Allow("client"))
}

func TestWindowSlides(t *testing.T) {
	tracker, clock := testTracker(2, "1m")

	assert.True(t, tracker.Allow("client"))
	assert.True(t, tracker.Allow("client"))
	assert.False(t, tracker.Allow("client"))

	// Half a window later the old requests still count.
	*clock = clock.Add(30 * time.Second)
	assert.False(t, tracker.Allow("client"))

	// Once the first requests slide out, capacity returns.
	*clock = clock.Add(31 * time.Second)
	assert.True(t, tracker.Allow("client"))
}

func TestKeysAreIndependent(t *testing.T) {
	tracker, _ := testTracker(1, "1m")

	assert.True(t, tracker.Allow("alice"))
	assert.False(t, tracker.Allow("alice"))
	assert.True(t, tracker.Allow("bob"))
}

func TestRemaining(t *testing.T) {
	tracker, clock := testTracker(3, "1m")

	assert.Equal(t, 3, tracker.Remaining("client"))
	tracker.Allow("client")
	tracker.Allow("client")
	assert.Equal(t, 1, tracker.Remaining("client"))

	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 3, tracker.Remaining("client"))
}

func TestRemainingDoesNotTrackProbedKeys(t *testing.T) {
	tracker, clock := testTracker(3, "1m")

	// Probing arbitrary keys must not grow the tracked set; only Allow
	// records a key.
	for i := 0; i < 100; i++ {
		assert.Equal(t, 3, tracker.Remaining(fmt.Sprintf("probe-%d", i)))
	}
	assert.Empty(t, tracker.windows)

	// A key whose window has fully expired is dropped, not rewritten.
	tracker.Allow("client")
	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 3, tracker.Remaining("client"))
	assert.Empty(t, tracker.windows)
}

func TestReset(t *testing.T) {
	tracker, _ := testTracker(1, "1m")

	assert.True(t, tracker.Allow("client"))
	assert.False(t, tracker.Allow("client"))

	tracker.Reset("client")
	assert.True(t, tracker.Allow("client"))
}

func TestWindowDurationFallback(t *testing.T) {
	tracker, _ := testTracker(1, "not a duration")
	assert.Equal(t, time.Minute, tracker.Window())
}
