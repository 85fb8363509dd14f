package interfaces

import "time"

// QuotaTracker enforces a per-key sliding-window request quota.
type QuotaTracker interface {
	// Allow records a request for the key and reports whether it fits
	// inside the window.
	Allow(key string) bool

	// Remaining returns how many requests the key has left in the current
	// window.
	Remaining(key string) int

	// Reset clears the window for the key.
	Reset(key string)

	// Window returns the configured window length.
	Window() time.Duration
}
