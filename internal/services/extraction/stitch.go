package extraction

import (
	"fmt"
	"strings"
)

// StitchPages joins per-page texts into one document-level stream. Page n is
// followed by an explicit end-of-page separator; the last page gets none.
func StitchPages(pageTexts []string) string {
	var sb strings.Builder
	for i, text := range pageTexts {
		if i > 0 {
			sb.WriteString(fmt.Sprintf("\n\n--- Page %d End ---\n\n", i))
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// ContentMetrics are the word and character counts of trimmed content.
type ContentMetrics struct {
	Trimmed        string
	WordCount      int
	CharacterCount int
}

// MeasureContent trims the stitched text and computes its metrics. Word
// count is the number of non-empty whitespace-separated fields; character
// count is the byte length of the trimmed text, so the invariant
// CharacterCount == len(Content) holds exactly.
func MeasureContent(text string) ContentMetrics {
	trimmed := strings.TrimSpace(text)
	return ContentMetrics{
		Trimmed:        trimmed,
		WordCount:      len(strings.Fields(trimmed)),
		CharacterCount: len(trimmed),
	}
}
