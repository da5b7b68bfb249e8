// Package report renders validation results and catalog listings for the
// terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/shelf/internal/book"
)

// Options controls rendering.
type Options struct {
	DisableColor bool
}

type styles struct {
	ok      lipgloss.Style
	fail    lipgloss.Style
	field   lipgloss.Style
	id      lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
}

func newStyles(opts Options) styles {
	if opts.DisableColor {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}

	return styles{
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		field:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		id:      lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		title:   lipgloss.NewStyle().Foreground(lipgloss.Color("254")).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Underline(true),
	}
}

// Violations writes one line per violation, or a success line when there
// are none.
func Violations(w io.Writer, violations []book.Violation, opts Options) error {
	s := newStyles(opts)

	if len(violations) == 0 {
		_, err := fmt.Fprintln(w, s.ok.Render("✓ valid"))
		return err
	}

	for _, v := range violations {
		line := fmt.Sprintf("%s %s %s",
			s.fail.Render("✗"),
			s.field.Render(v.PropertyPath+":"),
			v.Message,
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Books writes a listing of books with aligned columns.
func Books(w io.Writer, books []*book.Book, opts Options) error {
	s := newStyles(opts)

	if len(books) == 0 {
		_, err := fmt.Fprintln(w, s.muted.Render("No books."))
		return err
	}

	rows := make([][4]string, 0, len(books))
	widths := [4]int{}
	for _, b := range books {
		r := bookRow(b)
		for i, cell := range r {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
		rows = append(rows, r)
	}

	for _, r := range rows {
		cells := []string{
			s.id.Render(pad(r[0], widths[0])),
			s.title.Render(pad(r[1], widths[1])),
			pad(r[2], widths[2]),
			s.muted.Render(r[3]),
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func bookRow(b *book.Book) [4]string {
	id := "-"
	if v, ok := b.ID(); ok {
		id = fmt.Sprintf("#%d", v)
	}
	title, _ := b.Title()
	author, _ := b.Author()
	code, _ := b.ISBN()
	return [4]string{id, title, author, code}
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-len([]rune(s)))
}

// ImportSummary writes the totals of an import run.
func ImportSummary(w io.Writer, total, added, rejected int, opts Options) error {
	s := newStyles(opts)

	line := fmt.Sprintf("%s %s, %s",
		s.heading.Render("Import:"),
		s.ok.Render(fmt.Sprintf("%d of %d added", added, total)),
		rejectedStyle(s, rejected).Render(fmt.Sprintf("%d rejected", rejected)),
	)
	_, err := fmt.Fprintln(w, line)
	return err
}

func rejectedStyle(s styles, rejected int) lipgloss.Style {
	if rejected > 0 {
		return s.fail
	}
	return s.muted
}

// Rejection writes the violations of one rejected import row.
func Rejection(w io.Writer, line int, b *book.Book, violations []book.Violation, opts Options) error {
	s := newStyles(opts)

	title, _ := b.Title()
	if title == "" {
		title = "(untitled)"
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", s.muted.Render(fmt.Sprintf("line %d:", line)), s.title.Render(title)); err != nil {
		return err
	}

	for _, v := range violations {
		if _, err := fmt.Fprintf(w, "  %s %s %s\n", s.fail.Render("✗"), s.field.Render(v.PropertyPath+":"), v.Message); err != nil {
			return err
		}
	}
	return nil
}
