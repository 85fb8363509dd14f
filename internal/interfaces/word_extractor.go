package interfaces

// WordExtractor is the Word-document raw-text collaborator boundary.
type WordExtractor interface {
	// ExtractRawText returns the concatenated paragraph text of a Word
	// document.
	ExtractRawText(data []byte) (string, error)
}
