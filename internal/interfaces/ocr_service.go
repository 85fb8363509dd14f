package interfaces

import "context"

// OCRService is the external OCR collaborator. Implementations are expected
// to be CPU and memory hungry; callers throttle invocations with a small
// dedicated concurrency limit.
type OCRService interface {
	// Recognize returns the raw recognized text for an image.
	Recognize(ctx context.Context, imageData []byte) (string, error)
}
