package errors

import (
	"errors"
	"fmt"
)

// DuplicateISBNError is returned when a store already holds a book with the same ISBN
type DuplicateISBNError struct {
	ISBN string
}

func (e *DuplicateISBNError) Error() string {
	return fmt.Sprintf("a book with ISBN %s already exists", e.ISBN)
}

// NewDuplicateISBNError creates a new DuplicateISBNError for isbn
func NewDuplicateISBNError(isbn string) *DuplicateISBNError {
	return &DuplicateISBNError{ISBN: isbn}
}

// IsDuplicateISBNError checks if error is a DuplicateISBNError
func IsDuplicateISBNError(err error) bool {
	var dupErr *DuplicateISBNError
	return errors.As(err, &dupErr)
}
