package extraction

// Classification is the readability verdict for a decoded buffer.
type Classification struct {
	IsText bool    `json:"is_text"`
	Ratio  float64 `json:"ratio"`
}

// Classifier decides whether a decoded buffer is safely interpretable as
// text. The threshold is a tuning constant with no documented derivation;
// it lives in configuration rather than in code.
type Classifier struct {
	readableRatio float64
}

// NewClassifier creates a Classifier that accepts buffers whose readable
// ratio is at or above the given threshold.
func NewClassifier(readableRatio float64) *Classifier {
	return &Classifier{readableRatio: readableRatio}
}

// Classify computes the readable-character ratio of text. Readable means
// printable ASCII 0x20..0x7E plus newline, carriage return, and tab. The
// boundary is inclusive: ratio == threshold classifies as text, which keeps
// the predicate deterministic and total.
func (c *Classifier) Classify(text string) Classification {
	if len(text) == 0 {
		return Classification{IsText: true, Ratio: 1.0}
	}

	readable := 0
	total := 0
	for _, r := range text {
		total++
		if (r >= 0x20 && r <= 0x7E) || r == '\n' || r == '\r' || r == '\t' {
			readable++
		}
	}

	ratio := float64(readable) / float64(total)
	return Classification{
		IsText: ratio >= c.readableRatio,
		Ratio:  ratio,
	}
}
