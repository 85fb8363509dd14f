package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/lectio/internal/models"
)

// imagePipeline hands the image to the external OCR collaborator and treats
// the recognized string as already-linear text. OCR admission is gated by a
// dedicated rate limiter and concurrency slot count so a batch of scans
// cannot exhaust memory. An empty OCR result degrades to a placeholder
// rather than failing the upload.
func (s *Service) imagePipeline(ctx context.Context, data []byte, fileName string, meta *models.Metadata) (string, *models.ExtractionError) {
	if s.ocr == nil {
		return "", models.NewExtractionError(models.ErrKindOCRFailure,
			"no OCR engine configured, cannot process image %s", fileName)
	}

	if err := s.ocrLimiter.Wait(ctx); err != nil {
		return "", models.WrapExtractionError(models.ErrKindOCRFailure, err,
			"OCR request for %s abandoned", fileName)
	}

	select {
	case s.ocrSlots <- struct{}{}:
	case <-ctx.Done():
		return "", models.WrapExtractionError(models.ErrKindOCRFailure, ctx.Err(),
			"OCR request for %s abandoned", fileName)
	}
	defer func() { <-s.ocrSlots }()

	text, err := s.ocr.Recognize(ctx, data)
	if err != nil {
		return "", models.WrapExtractionError(models.ErrKindOCRFailure, err,
			"OCR failed for %s", fileName)
	}

	if strings.TrimSpace(text) == "" {
		meta.Warning = "OCR produced no text, placeholder substituted"
		return fmt.Sprintf("[Image file: %s (%d bytes). OCR found no readable text.]", fileName, len(data)), nil
	}
	return text, nil
}
