package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies extraction failures so API clients can branch on a
// stable string instead of parsing messages.
type ErrorKind string

const (
	ErrKindSizeExceeded          ErrorKind = "size_exceeded"
	ErrKindUnsupportedFormat     ErrorKind = "unsupported_format"
	ErrKindEncrypted             ErrorKind = "encrypted"
	ErrKindCorrupted             ErrorKind = "corrupted"
	ErrKindBinaryUnreadable      ErrorKind = "binary_unreadable"
	ErrKindEmptyContent          ErrorKind = "empty_content"
	ErrKindOCRFailure            ErrorKind = "ocr_failure"
	ErrKindWordProcessing        ErrorKind = "word_processing_failure"
	ErrKindSpreadsheetProcessing ErrorKind = "spreadsheet_processing_failure"
)

// ExtractionError carries a kind, a human-readable message, and the
// underlying cause when one exists.
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates an ExtractionError without an underlying cause.
func NewExtractionError(kind ErrorKind, format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapExtractionError creates an ExtractionError that preserves the cause
// for errors.Is and errors.As chains.
func WrapExtractionError(kind ErrorKind, cause error, format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// KindOf returns the ErrorKind of err, or Corrupted when err is not an
// ExtractionError.
func KindOf(err error) ErrorKind {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Kind
	}
	return ErrKindCorrupted
}
