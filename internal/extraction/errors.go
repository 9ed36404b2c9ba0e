package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPDF is returned for input that is not a PDF document.
	ErrInvalidPDF = errors.New("invalid PDF document")

	// ErrDocumentTooLarge is returned when the document exceeds MaxDocumentSizeBytes.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrProcessingFailed is returned when the processor rejects or fails the document.
	ErrProcessingFailed = errors.New("document processing failed")

	// ErrNotConfigured is returned when no processor is configured.
	ErrNotConfigured = errors.New("PDF extraction is not configured")
)

// ExtractionError wraps a failure with the operation that produced it.
type ExtractionError struct {
	Op      string
	Err     error
	Details string
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error, details string) error {
	return &ExtractionError{Op: op, Err: err, Details: details}
}
