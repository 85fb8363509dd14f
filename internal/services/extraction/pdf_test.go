package extraction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/lectio/internal/models"
)

// pdfFixture renders one page per entry, each entry a list of lines drawn
// top to bottom.
func pdfFixture(t *testing.T, pages ...[]string) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, lines := range pages {
		doc.AddPage()
		y := 100.0
		for _, line := range lines {
			doc.Text(72, y, line)
			y += 40
		}
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestPDFSinglePage(t *testing.T) {
	s := testService()

	data := pdfFixture(t, []string{"Alpha line", "Gamma line"})
	result := s.Process(context.Background(), data, "application/pdf", "single.pdf")

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, 1, result.Metadata.PageCount)
	assert.Contains(t, result.Content, "Alpha")
	assert.Contains(t, result.Content, "Gamma")
	assert.Less(t, strings.Index(result.Content, "Alpha"), strings.Index(result.Content, "Gamma"),
		"higher line must come first")
	assert.NotContains(t, result.Content, "--- Page")
}

func TestPDFMultiPage(t *testing.T) {
	s := testService()

	data := pdfFixture(t, []string{"First page text"}, []string{"Second page text"})
	result := s.Process(context.Background(), data, "application/pdf", "multi.pdf")

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, 2, result.Metadata.PageCount)
	assert.Equal(t, 1, strings.Count(result.Content, "--- Page 1 End ---"))
	assert.NotContains(t, result.Content, "--- Page 2 End ---")
	assert.Less(t, strings.Index(result.Content, "First"), strings.Index(result.Content, "Second"))
}

func TestPDFCorrupted(t *testing.T) {
	s := testService()

	result := s.Process(context.Background(), []byte("%PDF-1.7 not really a pdf"), "application/pdf", "broken.pdf")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindCorrupted, result.Kind)
	assert.Empty(t, result.Content)
}

func TestPDFCorruptedWithEncryptLiteral(t *testing.T) {
	s := testService()

	// A broken file that happens to contain the "/Encrypt" token is still
	// corruption, not password protection.
	data := []byte("%PDF-1.7\ngarbage /Encrypt 12 0 R more garbage")
	result := s.Process(context.Background(), data, "application/pdf", "fake.pdf")

	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindCorrupted, result.Kind)
}

func TestPDFEncrypted(t *testing.T) {
	s := testService()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetProtection(fpdf.CnProtectPrint, "secret", "owner")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(72, 100, "Hidden text")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	result := s.Process(context.Background(), buf.Bytes(), "application/pdf", "locked.pdf")
	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindEncrypted, result.Kind)
}

func TestPDFNoText(t *testing.T) {
	s := testService()

	data := pdfFixture(t, []string{})
	result := s.Process(context.Background(), data, "application/pdf", "blank.pdf")

	require.False(t, result.Success)
	assert.Equal(t, models.ErrKindEmptyContent, result.Kind)
	assert.Contains(t, result.Error, "blank.pdf")
}
