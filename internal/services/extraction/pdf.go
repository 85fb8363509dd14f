package extraction

import (
	"bytes"
	"errors"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ternarybob/lectio/internal/models"
)

// pdfPipeline validates the document with pdfcpu, then rebuilds per-page
// reading order from the positioned glyph runs and stitches the pages into
// one stream. A structurally valid PDF with no extractable text is an
// EmptyContent failure; that reinterpretation belongs here, not in the
// generic stitcher.
func (s *Service) pdfPipeline(data []byte, meta *models.Metadata) (string, *models.ExtractionError) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		if isEncryptedPDF(err) {
			return "", models.WrapExtractionError(models.ErrKindEncrypted, err, "PDF %s is password protected", meta.FileName)
		}
		return "", models.WrapExtractionError(models.ErrKindCorrupted, err, "PDF %s could not be parsed", meta.FileName)
	}
	meta.PageCount = pdfCtx.PageCount

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", models.WrapExtractionError(models.ErrKindCorrupted, err, "PDF %s could not be read", meta.FileName)
	}

	pageTexts := make([]string, 0, reader.NumPage())
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		pageTexts = append(pageTexts, s.extractPageText(reader, pageNr))
	}

	stitched := StitchPages(pageTexts)
	if strings.TrimSpace(stitched) == "" {
		return "", models.NewExtractionError(models.ErrKindEmptyContent,
			"no text content found in %s (may be scanned or image based)", meta.FileName)
	}
	return stitched, nil
}

// extractPageText converts one page's glyph runs into tokens and rebuilds
// reading order. A malformed page yields an empty string rather than
// failing the whole document.
func (s *Service) extractPageText(reader *lpdf.Reader, pageNr int) (text string) {
	defer func() {
		// The glyph-run reader panics on some malformed font encodings.
		if r := recover(); r != nil {
			s.logger.Warn().
				Int("page", pageNr).
				Str("panic", "recovered").
				Msg("Skipping unreadable PDF page")
			text = ""
		}
	}()

	page := reader.Page(pageNr)
	if page.V.IsNull() {
		return ""
	}

	content := page.Content()
	tokens := make([]models.Token, 0, len(content.Text))
	for _, t := range content.Text {
		tokens = append(tokens, models.Token{
			Text:   t.S,
			X:      t.X,
			Y:      t.Y,
			Width:  t.W,
			Height: t.FontSize,
			Page:   pageNr,
		})
	}
	return s.reconstructor.Reconstruct(tokens)
}

// isEncryptedPDF discriminates password protection from plain corruption.
// pdfcpu's typed password error is authoritative; the message check is a
// last resort for error paths that wrap it away. The raw buffer is never
// scanned: a corrupted file can contain the literal "/Encrypt" without
// being password protected.
func isEncryptedPDF(err error) bool {
	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
