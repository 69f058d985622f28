// Package apperr defines the error kinds surfaced by vault operations.
// Callers distinguish outcomes with errors.Is / errors.As, never by
// matching message strings.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports an unknown item id, or a file path that can no
	// longer be resolved for a known id.
	ErrNotFound = errors.New("not found")

	// ErrIndexNotReady reports a search issued before any scan populated
	// the index. This is a caller ordering bug, not a transient state.
	ErrIndexNotReady = errors.New("search index not ready")
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries every offending field from a create or update,
// not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
