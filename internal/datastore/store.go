package datastore

import (
	"context"

	"github.com/lepinkainen/shelf/internal/book"
)

// Store defines the interface for persisting books
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// Migrate creates the books table if it doesn't exist
	Migrate() error

	// Insert saves a new book and assigns its generated id
	Insert(ctx context.Context, b *book.Book) error

	// FindByISBN returns the stored book with the given ISBN
	FindByISBN(ctx context.Context, isbn string) (*book.Book, error)

	// List returns all stored books ordered by id
	List(ctx context.Context) ([]*book.Book, error)

	// Contains reports whether a book with the given ISBN is stored
	Contains(ctx context.Context, isbn string) (bool, error)

	// Close closes the connection to the data store
	Close() error
}
