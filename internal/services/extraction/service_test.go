package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

func testConfig() common.ExtractionConfig {
	return common.ExtractionConfig{
		MaxFileSizeMB:        50,
		LineHeightThreshold:  2.0,
		WordSpacingThreshold: 10.0,
		ReadableRatio:        0.7,
		BatchConcurrency:     4,
	}
}

func testService() *Service {
	return NewService(testConfig(), common.OCRConfig{Concurrency: 2, RequestsPerSecond: 100}, arbor.NewLogger())
}

// docxFixture builds a minimal DOCX archive in memory.
func docxFixture(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>")
		body.WriteString(p)
		body.WriteString("</w:t></w:r></w:p>")
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestProcessPlainText(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("Hello world\nsecond line"), "text/plain", "note.txt")
	require.True(t, result.Success)
	assert.Equal(t, "Hello world\nsecond line", result.Content)
	assert.Equal(t, "text", result.Metadata.FormatType)
	assert.Equal(t, 4, result.Metadata.WordCount)
	assert.Equal(t, len(result.Content), result.Metadata.CharacterCount)
	assert.Equal(t, 0, result.Metadata.PageCount)
	assert.Equal(t, 0, result.Metadata.SheetCount)
	assert.Empty(t, result.Error)
}

func TestProcessSizeExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSizeMB = 1
	s := NewService(cfg, common.OCRConfig{Concurrency: 1, RequestsPerSecond: 1}, arbor.NewLogger())

	// A decoder stub that fails the test if the size guard lets anything
	// through.
	s.WithWordExtractor(wordStubFunc(func([]byte) (string, error) {
		t.Error("decoder invoked despite size violation")
		return "", nil
	}))

	big := make([]byte, 2*1024*1024)
	result := s.Process(context.Background(), big, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "big.docx")

	require.False(t, result.Success)
	assert.Empty(t, result.Content)
	assert.Equal(t, models.ErrKindSizeExceeded, result.Kind)
	assert.Equal(t, "File size exceeds maximum limit of 1MB", result.Error)
}

func TestProcessBinaryBufferDegradesToPlaceholder(t *testing.T) {
	s := testService()

	data := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x7F}, 250)
	result := s.Process(context.Background(), data, "application/octet-stream", "blob.bin")

	require.True(t, result.Success)
	assert.NotEmpty(t, result.Metadata.Warning)
	assert.Contains(t, result.Content, "blob.bin")
	assert.Contains(t, result.Content, "1000 bytes")
}

func TestProcessStrictModeRejectsUnknown(t *testing.T) {
	cfg := testConfig()
	cfg.StrictFormats = true
	s := NewService(cfg, common.OCRConfig{Concurrency: 1, RequestsPerSecond: 1}, arbor.NewLogger())

	result := s.Process(context.Background(), []byte("anything"), "application/x-mystery", "weird.zzz")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindUnsupportedFormat, result.Kind)
}

func TestProcessUnknownMimeFallsBackToExtension(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("plain enough"), "application/x-mystery", "readme.txt")
	require.True(t, result.Success)
	assert.Equal(t, "text", result.Metadata.FormatType)
	assert.Equal(t, "plain enough", result.Content)
}

func TestProcessDocx(t *testing.T) {
	s := testService()

	data := docxFixture(t, "First paragraph", "Second paragraph")
	result := s.Process(context.Background(), data,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "report.docx")

	require.True(t, result.Success)
	assert.Equal(t, "First paragraph\nSecond paragraph", result.Content)
	assert.Equal(t, "docx", result.Metadata.FormatType)
}

func TestProcessDocxCorrupted(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("not a zip archive"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "broken.docx")

	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindWordProcessing, result.Kind)
	assert.Empty(t, result.Content)
}

func TestProcessLegacyDocRejected(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte{0xD0, 0xCF, 0x11, 0xE0}, "application/msword", "old.doc")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindWordProcessing, result.Kind)
}

func TestProcessCSV(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("name,age\nalice,30\nbob,25\n"), "text/csv", "people.csv")
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Metadata.SheetCount)
	assert.Contains(t, result.Content, "=== Sheet: people ===")
	assert.Contains(t, result.Content, "Rows: 3, Columns: 2")
	assert.Contains(t, result.Content, "alice,30")
}

func TestProcessMarkdown(t *testing.T) {
	s := testService()

	md := "# Title\n\nSome *emphasized* text.\n\n- item one\n- item two\n"
	result := s.Process(context.Background(), []byte(md), "text/markdown", "notes.md")

	require.True(t, result.Success)
	assert.Contains(t, result.Content, "Title")
	assert.Contains(t, result.Content, "emphasized")
	assert.NotContains(t, result.Content, "*")
	assert.NotContains(t, result.Content, "#")
}

func TestProcessHTML(t *testing.T) {
	s := testService()

	html := `<html><head><title>Greeting</title></head><body><h1>Hello</h1><p>Body text here.</p></body></html>`
	result := s.Process(context.Background(), []byte(html), "text/html", "page.html")

	require.True(t, result.Success)
	assert.Contains(t, result.Content, "Hello")
	assert.Contains(t, result.Content, "Body text here.")
	assert.NotContains(t, result.Content, "<p>")
}

func TestProcessImageWithoutOCR(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "scan.png")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindOCRFailure, result.Kind)
}

func TestProcessImageWithOCR(t *testing.T) {
	s := testService().WithOCRService(ocrStubFunc(func(context.Context, []byte) (string, error) {
		return "Recognized words", nil
	}))

	result := s.Process(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "scan.png")
	require.True(t, result.Success)
	assert.Equal(t, "Recognized words", result.Content)
}

func TestProcessImageEmptyOCRDegrades(t *testing.T) {
	s := testService().WithOCRService(ocrStubFunc(func(context.Context, []byte) (string, error) {
		return "   ", nil
	}))

	result := s.Process(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "blank.png")
	require.True(t, result.Success)
	assert.Contains(t, result.Content, "blank.png")
	assert.NotEmpty(t, result.Metadata.Warning)
}

func TestProcessImageOCRError(t *testing.T) {
	s := testService().WithOCRService(ocrStubFunc(func(context.Context, []byte) (string, error) {
		return "", fmt.Errorf("engine crashed")
	}))

	result := s.Process(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "scan.png")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindOCRFailure, result.Kind)
	assert.Contains(t, result.Error, "engine crashed")
}

func TestProcessNeverPanics(t *testing.T) {
	s := testService()

	// A word extractor that panics must surface as a Corrupted failure,
	// not as a panic across the API boundary.
	s.WithWordExtractor(wordStubFunc(func([]byte) (string, error) {
		panic("decoder bug")
	}))

	var result *models.ExtractionResult
	assert.NotPanics(t, func() {
		result = s.Process(context.Background(), docxFixture(t, "x"),
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "boom.docx")
	})
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, models.ErrKindCorrupted, result.Kind)
}

func TestProcessBatchIndependentOutcomes(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileSizeMB = 1
	s := NewService(cfg, common.OCRConfig{Concurrency: 1, RequestsPerSecond: 1}, arbor.NewLogger())

	items := []interfaces.BatchItem{
		{Data: []byte("first ok"), MimeType: "text/plain", FileName: "a.txt"},
		{Data: make([]byte, 2*1024*1024), MimeType: "text/plain", FileName: "huge.txt"},
		{Data: []byte("second ok"), MimeType: "text/plain", FileName: "b.txt"},
	}

	results := s.ProcessBatch(context.Background(), items)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, "first ok", results[0].Content)

	assert.False(t, results[1].Success)
	assert.Equal(t, models.ErrKindSizeExceeded, results[1].Kind)

	assert.True(t, results[2].Success)
	assert.Equal(t, "second ok", results[2].Content)
}

func TestProcessBatchEmpty(t *testing.T) {
	s := testService()
	results := s.ProcessBatch(context.Background(), nil)
	assert.Empty(t, results)
}

// wordStubFunc adapts a function to interfaces.WordExtractor.
type wordStubFunc func([]byte) (string, error)

func (f wordStubFunc) ExtractRawText(data []byte) (string, error) {
	return f(data)
}

// ocrStubFunc adapts a function to interfaces.OCRService.
type ocrStubFunc func(context.Context, []byte) (string, error)

func (f ocrStubFunc) Recognize(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}
