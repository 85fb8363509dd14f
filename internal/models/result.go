package models

// Metadata describes one processed upload. Counts are zero when they do
// not apply to the format.
type Metadata struct {
	DocumentID       string `json:"document_id"`
	FileName         string `json:"file_name"`
	MimeType         string `json:"mime_type"`
	FileSize         int64  `json:"file_size"`
	FormatType       string `json:"format_type"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	PageCount        int    `json:"page_count,omitempty"`
	SheetCount       int    `json:"sheet_count,omitempty"`
	WordCount        int    `json:"word_count"`
	CharacterCount   int    `json:"character_count"`
	Warning          string `json:"warning,omitempty"`
}

// ExtractionResult is the single return shape for every extraction call.
// Failures are reported here, never as panics.
type ExtractionResult struct {
	Success  bool      `json:"success"`
	Content  string    `json:"content,omitempty"`
	Metadata Metadata  `json:"metadata"`
	Error    string    `json:"error,omitempty"`
	Kind     ErrorKind `json:"error_kind,omitempty"`
}

// SuccessResult wraps extracted content with its metadata.
func SuccessResult(content string, meta Metadata) *ExtractionResult {
	return &ExtractionResult{
		Success:  true,
		Content:  content,
		Metadata: meta,
	}
}

// FailureResult converts an ExtractionError into a result carrying the
// kind and message.
func FailureResult(err *ExtractionError, meta Metadata) *ExtractionResult {
	return &ExtractionResult{
		Success:  false,
		Metadata: meta,
		Error:    err.Message,
		Kind:     err.Kind,
	}
}
