package interfaces

import "context"

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// ResponseCache stores downstream responses keyed by an opaque
// (question, document IDs) pair. Entries expire after the configured TTL.
type ResponseCache interface {
	// Get returns the cached response for the key, if present and fresh.
	Get(ctx context.Context, question string, documentIDs []string) (string, bool)

	// Set stores a response under the key.
	Set(ctx context.Context, question string, documentIDs []string, response string) error

	// Invalidate removes every entry that references the document ID.
	Invalidate(ctx context.Context, documentID string) error

	// Stats returns hit/miss counters.
	Stats(ctx context.Context) (CacheStats, error)

	// Maintain sweeps expired entries and reclaims storage.
	Maintain(ctx context.Context) error

	Close() error
}
