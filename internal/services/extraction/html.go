package extraction

import (
	"bytes"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/lectio/internal/models"
)

// htmlPipeline converts HTML to markdown, the preferred linear form for
// downstream LLM consumption. If conversion fails or produces nothing the
// buffer falls back to the generic text path.
func (s *Service) htmlPipeline(data []byte, fileName string, meta *models.Metadata) (string, *models.ExtractionError) {
	html := string(data)

	converter := md.NewConverter("", true, nil)
	converted, err := converter.ConvertString(html)
	if err != nil || strings.TrimSpace(converted) == "" {
		if err != nil {
			s.logger.Warn().Err(err).Str("file", fileName).Msg("HTML to markdown conversion failed, using generic fallback")
		}
		return s.genericPipeline(data, fileName, meta)
	}

	// Prepend the document title when the body does not already carry it.
	if title := htmlTitle(data); title != "" && !strings.Contains(converted, title) {
		converted = title + "\n\n" + converted
	}
	return converted, nil
}

// htmlTitle returns the trimmed <title> text, or empty.
func htmlTitle(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
