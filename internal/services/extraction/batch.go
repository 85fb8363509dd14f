package extraction

import (
	"context"
	"runtime"
	"sync"

	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// ProcessBatch fans out over a bounded worker pool. Each item's outcome is
// captured independently: Process never panics and never returns nil, so a
// failing file cannot cancel or corrupt its siblings, and there is no
// all-or-nothing abort.
func (s *Service) ProcessBatch(ctx context.Context, items []interfaces.BatchItem) []*models.ExtractionResult {
	concurrency := s.cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*models.ExtractionResult, len(items))
	slots := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()
			item := items[i]
			results[i] = s.Process(ctx, item.Data, item.MimeType, item.FileName)
		}(i)
	}
	wg.Wait()

	return results
}
