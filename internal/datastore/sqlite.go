package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/shelf/internal/book"
	shelferrors "github.com/lepinkainen/shelf/internal/errors"
	"github.com/lepinkainen/shelf/internal/isbn"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when no stored book matches a lookup
	ErrNotFound = errors.New("book not found")
	// ErrAlreadyPersisted is returned when inserting a book that already has an id
	ErrAlreadyPersisted = errors.New("book already has an id")
)

// BooksSchema defines the books table. ISBNs are stored normalized so the
// UNIQUE constraint catches hyphenated duplicates.
const BooksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	isbn TEXT NOT NULL UNIQUE,
	author TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements the Store interface for local SQLite storage
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore instance
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Open connects to dbPath and ensures the schema exists.
func Open(dbPath string) (*SQLiteStore, error) {
	store := NewSQLiteStore(dbPath)
	if err := store.Connect(); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Connect opens a connection to the SQLite database
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

// Migrate creates the books table if it doesn't exist
func (s *SQLiteStore) Migrate() error {
	if _, err := s.db.Exec(BooksSchema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Insert saves b and assigns the generated id to it. The caller is
// expected to have validated b; Insert only enforces ISBN uniqueness.
func (s *SQLiteStore) Insert(ctx context.Context, b *book.Book) error {
	if _, ok := b.ID(); ok {
		return ErrAlreadyPersisted
	}

	title, _ := b.Title()
	author, _ := b.Author()
	rawISBN, _ := b.ISBN()
	canonical := isbn.Normalize(rawISBN)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback if we don't commit - ignore errors as they're expected if transaction was committed
		_ = tx.Rollback()
	}()

	var existing int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM books WHERE isbn = ?", canonical).Scan(&existing)
	switch {
	case err == nil:
		return shelferrors.NewDuplicateISBNError(canonical)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check ISBN: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO books (title, isbn, author) VALUES (?, ?, ?)",
		title, canonical, author,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return shelferrors.NewDuplicateISBNError(canonical)
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read generated id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := b.AssignID(id); err != nil {
		return err
	}

	slog.Debug("Stored book", "id", id, "isbn", canonical)
	return nil
}

// FindByISBN returns the stored book with the given ISBN, or ErrNotFound
func (s *SQLiteStore) FindByISBN(ctx context.Context, value string) (*book.Book, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, isbn, author FROM books WHERE isbn = ?",
		isbn.Normalize(value),
	)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	return b, nil
}

// List returns all stored books ordered by id
func (s *SQLiteStore) List(ctx context.Context) ([]*book.Book, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, isbn, author FROM books ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []*book.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	return books, rows.Err()
}

// Contains reports whether a book with the given ISBN is stored. It lets
// the store act as a uniqueness index.
func (s *SQLiteStore) Contains(ctx context.Context, value string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM books WHERE isbn = ?)",
		isbn.Normalize(value),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ISBN: %w", err)
	}
	return exists == 1, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*book.Book, error) {
	var (
		id                  int64
		title, code, author string
	)
	if err := row.Scan(&id, &title, &code, &author); err != nil {
		return nil, err
	}

	b := book.New().SetTitle(title).SetISBN(code).SetAuthor(author)
	if err := b.AssignID(id); err != nil {
		return nil, err
	}
	return b, nil
}
