package extraction

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/lectio/internal/models"
)

// markdownPipeline parses markdown and emits its plain text, with block
// boundaries preserved as newlines. Formatting markers never survive into
// the linear stream.
func (s *Service) markdownPipeline(data []byte) (string, *models.ExtractionError) {
	return markdownToPlainText(data), nil
}

func markdownToPlainText(source []byte) string {
	parser := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	).Parser()
	doc := parser.Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := n.(type) {
		case *ast.Text:
			if entering {
				sb.Write(v.Segment.Value(source))
				if v.SoftLineBreak() || v.HardLineBreak() {
					sb.WriteByte('\n')
				}
			}
		case *ast.FencedCodeBlock:
			if entering {
				for i := 0; i < v.Lines().Len(); i++ {
					line := v.Lines().At(i)
					sb.Write(line.Value(source))
				}
			}
		case *ast.CodeBlock:
			if entering {
				for i := 0; i < v.Lines().Len(); i++ {
					line := v.Lines().At(i)
					sb.Write(line.Value(source))
				}
			}
		case *ast.Heading, *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			if !entering {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}
