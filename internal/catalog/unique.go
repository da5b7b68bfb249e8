// Package catalog holds the cross-record rules for a collection of books.
//
// Uniqueness of ISBNs needs a view of other records, so it lives here
// rather than in the single-record validator of package book. A check runs
// against one or more Index implementations: an in-memory SeenSet for a
// batch being processed, and a persistent store for previously saved books.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/shelf/internal/book"
	"github.com/lepinkainen/shelf/internal/isbn"
)

// MessageISBNTaken is reported when an ISBN is already in use.
const MessageISBNTaken = "This value is already used."

// Index reports whether an ISBN is already taken. Implementations receive
// normalized ISBNs.
type Index interface {
	Contains(ctx context.Context, isbn string) (bool, error)
}

// SeenSet is an in-memory Index of ISBNs. The zero value is not usable;
// create one with NewSeenSet.
type SeenSet struct {
	seen map[string]struct{}
}

// NewSeenSet returns an empty SeenSet.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Add records value and reports whether it was new.
func (s *SeenSet) Add(value string) bool {
	key := isbn.Normalize(value)
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains implements Index.
func (s *SeenSet) Contains(_ context.Context, value string) (bool, error) {
	_, ok := s.seen[isbn.Normalize(value)]
	return ok, nil
}

// Len returns the number of distinct ISBNs recorded.
func (s *SeenSet) Len() int {
	return len(s.seen)
}

// UniqueISBN returns a violation when b's ISBN is already present in any
// of the indexes. Books without an ISBN are left to the single-record
// validator and yield no violation.
func UniqueISBN(ctx context.Context, b *book.Book, indexes ...Index) (*book.Violation, error) {
	value, ok := b.ISBN()
	if !ok || strings.TrimSpace(value) == "" {
		return nil, nil
	}

	key := isbn.Normalize(value)
	for _, idx := range indexes {
		taken, err := idx.Contains(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to check ISBN %s: %w", key, err)
		}
		if taken {
			return &book.Violation{
				PropertyPath: book.FieldISBN,
				Message:      MessageISBNTaken,
			}, nil
		}
	}

	return nil, nil
}
