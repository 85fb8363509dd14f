// -----------------------------------------------------------------------
// Extraction Service - routes uploads to format pipelines and guarantees
// a non-throwing ExtractionResult for every call
// -----------------------------------------------------------------------

package extraction

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"golang.org/x/time/rate"
)

// Service implements interfaces.DocumentExtractor. It is stateless between
// calls: it holds only configuration, collaborators, and the OCR throttle.
type Service struct {
	cfg           common.ExtractionConfig
	logger        arbor.ILogger
	reconstructor *Reconstructor
	classifier    *Classifier

	word     interfaces.WordExtractor
	workbook interfaces.WorkbookParser
	ocr      interfaces.OCRService

	// OCR is markedly more expensive than the other pipelines, so it gets
	// its own small admission limits independent of batch concurrency.
	ocrLimiter *rate.Limiter
	ocrSlots   chan struct{}
}

// Compile-time interface assertion
var _ interfaces.DocumentExtractor = (*Service)(nil)

// NewService creates an extraction service with the default collaborators
// (built-in DOCX extractor, excelize workbook parser, no OCR engine).
func NewService(cfg common.ExtractionConfig, ocrCfg common.OCRConfig, logger arbor.ILogger) *Service {
	if ocrCfg.Concurrency < 1 {
		ocrCfg.Concurrency = 1
	}
	if ocrCfg.RequestsPerSecond <= 0 {
		ocrCfg.RequestsPerSecond = 1
	}
	return &Service{
		cfg:           cfg,
		logger:        logger,
		reconstructor: NewReconstructor(cfg.LineHeightThreshold, cfg.WordSpacingThreshold),
		classifier:    NewClassifier(cfg.ReadableRatio),
		word:          &DocxExtractor{},
		workbook:      &ExcelWorkbookParser{},
		ocrLimiter:    rate.NewLimiter(rate.Limit(ocrCfg.RequestsPerSecond), ocrCfg.Concurrency),
		ocrSlots:      make(chan struct{}, ocrCfg.Concurrency),
	}
}

// WithOCRService sets the external OCR collaborator.
func (s *Service) WithOCRService(ocr interfaces.OCRService) *Service {
	s.ocr = ocr
	return s
}

// WithWordExtractor overrides the Word raw-text collaborator.
func (s *Service) WithWordExtractor(w interfaces.WordExtractor) *Service {
	s.word = w
	return s
}

// WithWorkbookParser overrides the workbook collaborator.
func (s *Service) WithWorkbookParser(p interfaces.WorkbookParser) *Service {
	s.workbook = p
	return s
}

// Process extracts one upload into a linear text stream. It never panics:
// any failure, including a recovered panic from a decoder, becomes an
// ExtractionResult with Success false.
func (s *Service) Process(ctx context.Context, data []byte, mimeType, fileName string) (result *models.ExtractionResult) {
	start := time.Now()
	meta := models.Metadata{
		DocumentID: common.NewDocumentID(),
		FileName:   fileName,
		MimeType:   mimeType,
		FileSize:   int64(len(data)),
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("file", fileName).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Extraction pipeline panicked")
			meta.ProcessingTimeMs = time.Since(start).Milliseconds()
			result = models.FailureResult(
				models.NewExtractionError(models.ErrKindCorrupted, "unexpected decoder failure while processing %s", fileName),
				meta)
		}
	}()

	// Size guard runs before any decoder sees the buffer.
	if int64(len(data)) > s.cfg.MaxFileSizeBytes() {
		meta.ProcessingTimeMs = time.Since(start).Milliseconds()
		return models.FailureResult(
			models.NewExtractionError(models.ErrKindSizeExceeded, "File size exceeds maximum limit of %dMB", s.cfg.MaxFileSizeMB),
			meta)
	}

	desc := models.ResolveFormat(mimeType, fileName, data)
	meta.FormatType = desc.FormatType

	s.logger.Debug().
		Str("file", fileName).
		Str("mime", mimeType).
		Str("category", string(desc.Category)).
		Bool("known_format", desc.IsKnownFormat).
		Msg("Dispatching upload")

	if s.cfg.StrictFormats && !desc.IsKnownFormat {
		meta.ProcessingTimeMs = time.Since(start).Milliseconds()
		return models.FailureResult(
			models.NewExtractionError(models.ErrKindUnsupportedFormat, "unsupported format: %s (%s)", mimeType, fileName),
			meta)
	}

	var content string
	var extErr *models.ExtractionError

	switch desc.Category {
	case models.CategoryPDF:
		content, extErr = s.pdfPipeline(data, &meta)
	case models.CategoryWord:
		content, extErr = s.wordPipeline(data, desc.FormatType, &meta)
	case models.CategorySpreadsheet:
		content, extErr = s.spreadsheetPipeline(data, desc.FormatType, fileName, &meta)
	case models.CategoryImage:
		content, extErr = s.imagePipeline(ctx, data, fileName, &meta)
	case models.CategoryHTML:
		content, extErr = s.htmlPipeline(data, fileName, &meta)
	case models.CategoryMarkdown:
		content, extErr = s.markdownPipeline(data)
	default:
		content, extErr = s.genericPipeline(data, fileName, &meta)
	}

	meta.ProcessingTimeMs = time.Since(start).Milliseconds()

	if extErr != nil {
		s.logger.Warn().
			Str("file", fileName).
			Str("kind", string(extErr.Kind)).
			Err(extErr).
			Msg("Extraction failed")
		return models.FailureResult(extErr, meta)
	}

	metrics := MeasureContent(content)
	meta.WordCount = metrics.WordCount
	meta.CharacterCount = metrics.CharacterCount

	s.logger.Debug().
		Str("file", fileName).
		Int("words", meta.WordCount).
		Int("chars", meta.CharacterCount).
		Int64("elapsed_ms", meta.ProcessingTimeMs).
		Msg("Extraction complete")

	return models.SuccessResult(metrics.Trimmed, meta)
}

// genericPipeline accepts arbitrary buffers: valid UTF-8 that passes the
// readability classifier is used as-is, anything else degrades to an
// informative placeholder instead of blocking the upload.
func (s *Service) genericPipeline(data []byte, fileName string, meta *models.Metadata) (string, *models.ExtractionError) {
	if !utf8.Valid(data) {
		if s.cfg.StrictFormats {
			return "", models.NewExtractionError(models.ErrKindBinaryUnreadable, "content of %s is not valid UTF-8 text", fileName)
		}
		meta.Warning = "binary content replaced with placeholder"
		return binaryPlaceholder(fileName, int64(len(data))), nil
	}

	text := string(data)
	cls := s.classifier.Classify(text)
	if !cls.IsText {
		if s.cfg.StrictFormats {
			return "", models.NewExtractionError(models.ErrKindBinaryUnreadable,
				"content of %s is mostly unreadable (ratio %.2f)", fileName, cls.Ratio)
		}
		meta.Warning = fmt.Sprintf("content classified as binary (readable ratio %.2f), placeholder substituted", cls.Ratio)
		return binaryPlaceholder(fileName, int64(len(data))), nil
	}
	return text, nil
}

func binaryPlaceholder(fileName string, size int64) string {
	return fmt.Sprintf("[Binary file: %s (%d bytes). Content could not be interpreted as text.]", fileName, size)
}
