package obsidian

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/shelf/internal/book"
	"github.com/lepinkainen/shelf/internal/fileutil"
	"github.com/lepinkainen/shelf/internal/isbn"
)

// DefaultTag is added to every exported book note.
const DefaultTag = "book"

// NoteFromBook builds a note whose frontmatter reads back into the same
// book. Absent fields are left out.
func NoteFromBook(b *book.Book, tags ...string) *Note {
	fm := NewFrontmatter()

	title, hasTitle := b.Title()
	author, hasAuthor := b.Author()

	if hasTitle {
		fm.Set("title", title)
	}
	if hasAuthor {
		fm.Set("author", author)
	}
	if code, ok := b.ISBN(); ok {
		fm.Set("isbn13", isbn.Normalize(code))
	}
	if id, ok := b.ID(); ok {
		fm.Set("shelf_id", id)
	}
	fm.Set("tags", NewTagSet(append([]string{DefaultTag}, tags...)...).GetSorted())

	var body strings.Builder
	if hasTitle && title != "" {
		fmt.Fprintf(&body, "# %s\n", title)
	}
	if hasAuthor && author != "" {
		fmt.Fprintf(&body, "\nby %s\n", author)
	}

	return &Note{Frontmatter: fm, Body: body.String()}
}

// NoteFilename returns the file name for b: the title, or the ISBN for
// untitled books.
func NoteFilename(b *book.Book) string {
	name, _ := b.Title()
	if strings.TrimSpace(name) == "" {
		code, _ := b.ISBN()
		name = isbn.Normalize(code)
	}
	if name == "" {
		name = "untitled"
	}
	return fileutil.SanitizeFilename(name) + ".md"
}

// ExportResult counts the notes of one export run.
type ExportResult struct {
	Written int
	Skipped int
}

// ExportBooks writes one note per book into dir. A title shared by several
// books gets the ISBN appended for all but the first. Existing notes are
// kept unless overwrite is set.
func ExportBooks(dir string, books []*book.Book, tags []string, overwrite bool) (ExportResult, error) {
	var result ExportResult
	used := make(map[string]bool, len(books))

	for _, b := range books {
		name := NoteFilename(b)
		if used[name] {
			code, _ := b.ISBN()
			name = strings.TrimSuffix(name, ".md") + " (" + isbn.Normalize(code) + ").md"
		}
		used[name] = true

		written, err := writeBookNote(filepath.Join(dir, name), b, tags, overwrite)
		if err != nil {
			return result, err
		}
		if written {
			result.Written++
		} else {
			result.Skipped++
		}
	}

	slog.Info("Exported notes", "dir", dir, "written", result.Written, "skipped", result.Skipped)
	return result, nil
}

func writeBookNote(path string, b *book.Book, tags []string, overwrite bool) (bool, error) {
	content, err := NoteFromBook(b, tags...).Build()
	if err != nil {
		return false, err
	}

	written, err := fileutil.WriteFileWithOverwrite(path, content, 0644, overwrite)
	if err != nil {
		return false, fmt.Errorf("failed to write note %s: %w", path, err)
	}
	if !written {
		slog.Info("Note already exists, skipping", "filename", path)
	}
	return written, nil
}
