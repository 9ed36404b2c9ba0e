package billing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common billing errors
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a status change is not allowed
	// from the record's stored status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownPreference is returned for preference keys that are not registered.
	ErrUnknownPreference = errors.New("unknown preference key")

	// ErrNoAttachment is returned when a record has no stored file.
	ErrNoAttachment = errors.New("record has no attachment")
)

// ValidationError collects per-field validation failures. It is returned
// before any write happens.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError with a single field failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a failure for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// OrNil returns nil when no field failed so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
