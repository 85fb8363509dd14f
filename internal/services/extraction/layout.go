package extraction

import (
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/lectio/internal/models"
)

// Reconstructor rebuilds reading order from a page's unordered positioned
// tokens. PDF content streams expose absolute glyph-run positions but no
// word or line breaks; the two thresholds are the only signal available to
// recover both. Both come from configuration so every page of a document is
// linearized with the same geometry.
type Reconstructor struct {
	lineHeightThreshold  float64
	wordSpacingThreshold float64
}

// NewReconstructor creates a Reconstructor with the given thresholds.
func NewReconstructor(lineHeight, wordSpacing float64) *Reconstructor {
	return &Reconstructor{
		lineHeightThreshold:  lineHeight,
		wordSpacingThreshold: wordSpacing,
	}
}

// Reconstruct returns the reading-order text of one page. The result is a
// pure function of the token multiset: shuffling the input does not change
// the output. Each recovered line is terminated with a newline. A page with
// no usable tokens yields the empty string.
func (r *Reconstructor) Reconstruct(tokens []models.Token) string {
	kept := make([]models.Token, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	// Total deterministic order: y descending (top of page first), then x
	// ascending, then text, then size. Every field that can influence the
	// output participates as a tie-breaker; tokens equal on all of them are
	// interchangeable, so clustering and spacing are independent of input
	// order. Y alone is not a strict total order because co-linear tokens
	// sit within the line-height tolerance of each other.
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		return a.Height < b.Height
	})

	lines := r.clusterLines(kept)

	var sb strings.Builder
	for _, line := range lines {
		// Within a line, reading order is x ascending, with the same full
		// tie-breaker chain as the page-level sort.
		sort.Slice(line, func(i, j int) bool {
			a, b := line[i], line[j]
			if a.X != b.X {
				return a.X < b.X
			}
			if a.Y != b.Y {
				return a.Y > b.Y
			}
			if a.Text != b.Text {
				return a.Text < b.Text
			}
			if a.Width != b.Width {
				return a.Width < b.Width
			}
			return a.Height < b.Height
		})

		lastXEnd := math.Inf(-1)
		for i, t := range line {
			if i > 0 && t.X-lastXEnd > r.wordSpacingThreshold {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.Text)
			lastXEnd = t.X + t.Width
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// clusterLines groups y-sorted tokens into runs of co-linear tokens. A token
// joins the current line while it sits within the line-height tolerance of
// the line's anchor (its topmost token); otherwise it starts a new line.
func (r *Reconstructor) clusterLines(sorted []models.Token) [][]models.Token {
	var lines [][]models.Token
	var anchorY float64
	for _, t := range sorted {
		if len(lines) == 0 || math.Abs(anchorY-t.Y) >= r.lineHeightThreshold {
			lines = append(lines, []models.Token{t})
			anchorY = t.Y
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], t)
	}
	return lines
}
