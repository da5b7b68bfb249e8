package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lepinkainen/shelf/internal/book"
)

// ValidationError carries the violations of a rejected book across a
// command boundary.
type ValidationError struct {
	Violations []book.Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.PropertyPath, v.Message)
	}
	return fmt.Sprintf("validation failed with %d violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
}

// NewValidationError creates a ValidationError for the given violations
func NewValidationError(violations []book.Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// IsValidationError reports whether err is a ValidationError (even when wrapped).
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
