package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	badgerstore "github.com/ternarybob/lectio/internal/storage/badger"
)

// Entry is one cached response row.
type Entry struct {
	Key         string    `badgerhold:"key"`
	DocumentIDs []string  `json:"document_ids"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service implements interfaces.ResponseCache on top of Badger. Keys are
// opaque digests of the question and the sorted document ID set, so
// logically identical requests hit the same entry regardless of ID order.
type Service struct {
	db     *badgerstore.BadgerDB
	logger arbor.ILogger
	ttl    time.Duration
	hits   int64
	misses int64
}

// Compile-time interface assertion
var _ interfaces.ResponseCache = (*Service)(nil)

// NewService creates a response cache backed by the given database.
func NewService(db *badgerstore.BadgerDB, cfg *common.CacheConfig, logger arbor.ILogger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		ttl:    cfg.TTLDuration(),
	}
}

// cacheKey digests the question and the sorted document IDs.
func cacheKey(question string, documentIDs []string) string {
	ids := make([]string, len(documentIDs))
	copy(ids, documentIDs)
	sort.Strings(ids)

	var sb strings.Builder
	sb.Grow(len(question) + 64)
	sb.WriteString(question)
	sb.WriteByte('|')
	sb.WriteString(strings.Join(ids, ","))

	digest := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(digest[:])
}

// Get implements interfaces.ResponseCache.
func (s *Service) Get(ctx context.Context, question string, documentIDs []string) (string, bool) {
	key := cacheKey(question, documentIDs)

	var entry Entry
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		atomic.AddInt64(&s.misses, 1)
		return "", false
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("Cache lookup failed")
		atomic.AddInt64(&s.misses, 1)
		return "", false
	}

	if time.Now().After(entry.ExpiresAt) {
		atomic.AddInt64(&s.misses, 1)
		return "", false
	}

	atomic.AddInt64(&s.hits, 1)
	return entry.Response, true
}

// Set implements interfaces.ResponseCache.
func (s *Service) Set(ctx context.Context, question string, documentIDs []string, response string) error {
	now := time.Now()
	entry := Entry{
		Key:         cacheKey(question, documentIDs),
		DocumentIDs: documentIDs,
		Response:    response,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.db.Store().Upsert(entry.Key, entry); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Invalidate removes every entry referencing the document ID.
func (s *Service) Invalidate(ctx context.Context, documentID string) error {
	err := s.db.Store().DeleteMatching(&Entry{},
		badgerhold.Where("DocumentIDs").Contains(documentID))
	if err != nil {
		return fmt.Errorf("failed to invalidate cache entries for %s: %w", documentID, err)
	}
	return nil
}

// Stats implements interfaces.ResponseCache.
func (s *Service) Stats(ctx context.Context) (interfaces.CacheStats, error) {
	count, err := s.db.Store().Count(&Entry{}, nil)
	if err != nil {
		return interfaces.CacheStats{}, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return interfaces.CacheStats{
		Entries: int64(count),
		Hits:    atomic.LoadInt64(&s.hits),
		Misses:  atomic.LoadInt64(&s.misses),
	}, nil
}

// Maintain sweeps expired entries and reclaims value-log space. Wired to
// the cron maintenance schedule.
func (s *Service) Maintain(ctx context.Context) error {
	err := s.db.Store().DeleteMatching(&Entry{},
		badgerhold.Where("ExpiresAt").Lt(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to sweep expired cache entries: %w", err)
	}

	// GC returns ErrNoRewrite when there is nothing to reclaim.
	if err := s.db.RunGC(); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		s.logger.Debug().Err(err).Msg("Badger value-log GC skipped")
	}
	return nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
