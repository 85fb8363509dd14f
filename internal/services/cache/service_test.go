package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	badgerstore "github.com/ternarybob/lectio/internal/storage/badger"
)

func testCache(t *testing.T, ttl string) *Service {
	t.Helper()

	cfg := &common.CacheConfig{
		Enabled: true,
		Path:    t.TempDir(),
		TTL:     ttl,
	}
	logger := arbor.NewLogger()

	db, err := badgerstore.NewBadgerDB(logger, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(db, cfg, logger)
}

func TestCacheSetAndGet(t *testing.T) {
	c := testCache(t, "1h")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "what is the total", []string{"doc_a", "doc_b"}, "the total is 42"))

	response, ok := c.Get(ctx, "what is the total", []string{"doc_a", "doc_b"})
	require.True(t, ok)
	assert.Equal(t, "the total is 42", response)
}

func TestCacheKeyIgnoresDocumentOrder(t *testing.T) {
	c := testCache(t, "1h")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "summarize", []string{"doc_b", "doc_a"}, "summary"))

	response, ok := c.Get(ctx, "summarize", []string{"doc_a", "doc_b"})
	require.True(t, ok)
	assert.Equal(t, "summary", response)
}

func TestCacheMiss(t *testing.T) {
	c := testCache(t, "1h")

	_, ok := c.Get(context.Background(), "never asked", []string{"doc_x"})
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := testCache(t, "1ns")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ephemeral", []string{"doc_a"}, "gone soon"))

	_, ok := c.Get(ctx, "ephemeral", []string{"doc_a"})
	assert.False(t, ok, "entry past its TTL must read as a miss")
}

func TestCacheInvalidateByDocument(t *testing.T) {
	c := testCache(t, "1h")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "q1", []string{"doc_a", "doc_b"}, "r1"))
	require.NoError(t, c.Set(ctx, "q2", []string{"doc_c"}, "r2"))

	require.NoError(t, c.Invalidate(ctx, "doc_a"))

	_, ok := c.Get(ctx, "q1", []string{"doc_a", "doc_b"})
	assert.False(t, ok, "entries referencing the document must be gone")

	response, ok := c.Get(ctx, "q2", []string{"doc_c"})
	require.True(t, ok, "unrelated entries must survive")
	assert.Equal(t, "r2", response)
}

func TestCacheStats(t *testing.T) {
	c := testCache(t, "1h")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "q1", []string{"doc_a"}, "r1"))
	c.Get(ctx, "q1", []string{"doc_a"})
	c.Get(ctx, "q2", []string{"doc_a"})

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCacheMaintainSweepsExpired(t *testing.T) {
	c := testCache(t, "1ns")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "q1", []string{"doc_a"}, "r1"))
	require.NoError(t, c.Maintain(ctx))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Entries)
}
