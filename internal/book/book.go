// Package book defines the Book record and the field-level validation
// rules applied to it before it is handed to a store.
package book

import (
	"encoding/json"
	"errors"
)

// ErrIDAssigned is returned when a persistence layer tries to assign an id
// to a Book that already has one.
var ErrIDAssigned = errors.New("book id already assigned")

// Book is an in-memory book record. Every field starts out absent.
// Setters never validate; use Validate for that.
type Book struct {
	id     *int64
	title  *string
	isbn   *string
	author *string
}

// New returns an empty Book.
func New() *Book {
	return &Book{}
}

// ID returns the id assigned by the persistence layer, if any.
func (b *Book) ID() (int64, bool) {
	return deref(b.id)
}

// AssignID records the id generated by a store. It fails if the Book
// already carries an id.
func (b *Book) AssignID(id int64) error {
	if b.id != nil {
		return ErrIDAssigned
	}
	b.id = &id
	return nil
}

// SetTitle overwrites the title.
func (b *Book) SetTitle(title string) *Book {
	b.title = &title
	return b
}

// Title returns the title, if set.
func (b *Book) Title() (string, bool) {
	return deref(b.title)
}

// SetISBN overwrites the ISBN.
func (b *Book) SetISBN(isbn string) *Book {
	b.isbn = &isbn
	return b
}

// ISBN returns the ISBN, if set.
func (b *Book) ISBN() (string, bool) {
	return deref(b.isbn)
}

// SetAuthor overwrites the author.
func (b *Book) SetAuthor(author string) *Book {
	b.author = &author
	return b
}

// Author returns the author, if set.
func (b *Book) Author() (string, bool) {
	return deref(b.author)
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

type bookJSON struct {
	ID     *int64  `json:"id,omitempty"`
	Title  *string `json:"title"`
	ISBN   *string `json:"isbn"`
	Author *string `json:"author"`
}

// MarshalJSON encodes absent fields as null and omits an unassigned id.
func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookJSON{
		ID:     b.id,
		Title:  b.title,
		ISBN:   b.isbn,
		Author: b.author,
	})
}

// UnmarshalJSON restores all fields, including a previously assigned id.
func (b *Book) UnmarshalJSON(data []byte) error {
	var raw bookJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.id = raw.ID
	b.title = raw.Title
	b.isbn = raw.ISBN
	b.author = raw.Author
	return nil
}
