// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// BatchItem is one upload in a batch extraction request.
type BatchItem struct {
	Data     []byte
	MimeType string
	FileName string
}

// DocumentExtractor turns uploaded bytes into a linear reading-order text
// stream. Process never panics and never returns a nil result: every
// pipeline failure is converted into ExtractionResult{Success: false}.
type DocumentExtractor interface {
	// Process extracts one upload.
	Process(ctx context.Context, data []byte, mimeType, fileName string) *models.ExtractionResult

	// ProcessBatch extracts many uploads concurrently. Results are returned
	// in input order; one item's failure never cancels its siblings.
	ProcessBatch(ctx context.Context, items []BatchItem) []*models.ExtractionResult
}
