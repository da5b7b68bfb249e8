// Package importer loads books from a CSV export into the catalog.
//
// Every row is validated and checked for ISBN uniqueness against rows
// accepted earlier in the same file and against the store. Accepted rows
// are inserted; the rest are reported with their violations.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/shelf/internal/book"
	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/csvutil"
	shelferrors "github.com/lepinkainen/shelf/internal/errors"
	"github.com/lepinkainen/shelf/internal/fileutil"
)

// Column aliases, matched case-insensitively. A Goodreads export matches
// these unchanged.
var (
	titleColumns  = []string{"title"}
	isbnColumns   = []string{"isbn13", "isbn"}
	authorColumns = []string{"author", "authors"}
)

// Store is the part of the catalog database the importer needs.
type Store interface {
	catalog.Index
	Insert(ctx context.Context, b *book.Book) error
}

// Params holds the options for one import run.
type Params struct {
	CSVPath    string
	WriteJSON  bool
	JSONOutput string
	DryRun     bool
}

// Rejection is a row that was not imported.
type Rejection struct {
	Line       int              `json:"line"`
	Book       *book.Book       `json:"book"`
	Violations []book.Violation `json:"violations"`
}

// Result summarizes an import run.
type Result struct {
	Total    int          `json:"total"`
	Added    []*book.Book `json:"added"`
	Rejected []Rejection  `json:"rejected"`
}

type row struct {
	line int
	book *book.Book
}

// processCSV is a function variable so tests can inject fixtures.
var processCSV = csvutil.ProcessCSV[row]

// ParseRecord maps a CSV record to a Book. Columns missing from the header
// leave the field absent; present but empty columns set it to "".
func ParseRecord(r csvutil.Record) (*book.Book, error) {
	b := book.New()

	if r.Has(titleColumns...) {
		b.SetTitle(r.Get(titleColumns...))
	}
	if r.Has(isbnColumns...) {
		b.SetISBN(firstISBN(r))
	}
	if r.Has(authorColumns...) {
		b.SetAuthor(r.Get(authorColumns...))
	}

	return b, nil
}

func firstISBN(r csvutil.Record) string {
	for _, column := range isbnColumns {
		if value := sanitizeISBNValue(r.Get(column)); value != "" {
			return value
		}
	}
	return ""
}

// sanitizeISBNValue strips the ="..." quoting spreadsheet exports use to
// keep leading zeros.
func sanitizeISBNValue(value string) string {
	trimmed := strings.TrimSuffix(value, "\"")
	trimmed = strings.TrimPrefix(trimmed, "=\"")
	return strings.TrimSpace(trimmed)
}

func parseRow(r csvutil.Record) (row, error) {
	b, err := ParseRecord(r)
	if err != nil {
		return row{}, err
	}
	return row{line: r.Line, book: b}, nil
}

// Import reads params.CSVPath and imports its rows into store.
func Import(ctx context.Context, store Store, params Params) (*Result, error) {
	rows, err := processCSV(params.CSVPath, parseRow, csvutil.ProcessorOptions{SkipInvalid: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", params.CSVPath, err)
	}

	slog.Info("Importing books", "file", params.CSVPath, "rows", len(rows), "dry_run", params.DryRun)

	result := &Result{
		Total:    len(rows),
		Added:    []*book.Book{},
		Rejected: []Rejection{},
	}
	seen := catalog.NewSeenSet()

	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		violations, err := checkRow(ctx, r.book, seen, store)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}

		if len(violations) == 0 && !params.DryRun {
			if err := store.Insert(ctx, r.book); err != nil {
				if !shelferrors.IsDuplicateISBNError(err) {
					return nil, fmt.Errorf("line %d: %w", r.line, err)
				}
				violations = append(violations, book.Violation{
					PropertyPath: book.FieldISBN,
					Message:      catalog.MessageISBNTaken,
				})
			}
		}

		if len(violations) > 0 {
			slog.Warn("Rejected book", "line", r.line, "violations", len(violations))
			result.Rejected = append(result.Rejected, Rejection{Line: r.line, Book: r.book, Violations: violations})
		} else {
			if code, ok := r.book.ISBN(); ok {
				seen.Add(code)
			}
			result.Added = append(result.Added, r.book)
		}

		logBookProgress(i+1, len(rows))
	}

	slog.Info("Import finished", "total", result.Total, "added", len(result.Added), "rejected", len(result.Rejected))

	if params.WriteJSON {
		if _, err := fileutil.WriteJSONFile(result, params.JSONOutput, config.OverwriteFiles); err != nil {
			return nil, fmt.Errorf("failed to write import report: %w", err)
		}
	}

	return result, nil
}

// checkRow validates b and, when its ISBN is well-formed, checks that the
// ISBN is not taken.
func checkRow(ctx context.Context, b *book.Book, seen *catalog.SeenSet, store Store) ([]book.Violation, error) {
	violations := book.Validate(b)
	for _, v := range violations {
		if v.PropertyPath == book.FieldISBN {
			return violations, nil
		}
	}

	indexes := []catalog.Index{seen}
	if store != nil {
		indexes = append(indexes, store)
	}

	taken, err := catalog.UniqueISBN(ctx, b, indexes...)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		violations = append(violations, *taken)
	}
	return violations, nil
}

func logBookProgress(processed, total int) {
	if processed == 0 || processed%10 != 0 {
		return
	}

	percentage := "0%"
	if total > 0 {
		percentage = fmt.Sprintf("%.1f%%", float64(processed)/float64(total)*100)
	}

	slog.Info("Processing books",
		"processed", processed,
		"total", total,
		"progress", percentage,
	)
}
