package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// wordPipeline delegates raw-text extraction to the Word collaborator and
// treats an empty document as EmptyContent.
func (s *Service) wordPipeline(data []byte, formatType string, meta *models.Metadata) (string, *models.ExtractionError) {
	if formatType == "doc" {
		return "", models.NewExtractionError(models.ErrKindWordProcessing,
			"legacy .doc format is not supported for %s, convert to .docx", meta.FileName)
	}

	text, err := s.word.ExtractRawText(data)
	if err != nil {
		return "", models.WrapExtractionError(models.ErrKindWordProcessing, err,
			"failed to extract text from %s", meta.FileName)
	}
	if strings.TrimSpace(text) == "" {
		return "", models.NewExtractionError(models.ErrKindEmptyContent, "no text content found in %s", meta.FileName)
	}
	return text, nil
}

// DocxExtractor reads word/document.xml from the DOCX archive and collects
// run text, one line per paragraph.
type DocxExtractor struct{}

// Compile-time interface assertion
var _ interfaces.WordExtractor = (*DocxExtractor)(nil)

// ExtractRawText implements interfaces.WordExtractor.
func (e *DocxExtractor) ExtractRawText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return scanDocumentXML(rc)
}

// scanDocumentXML walks the WordprocessingML token stream, capturing text
// runs (w:t) and turning paragraph ends and explicit breaks into newlines.
func scanDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	var inText bool

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
