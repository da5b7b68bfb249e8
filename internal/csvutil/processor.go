package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// FieldsPerRecord sets the expected number of fields per record.
	// If 0, it's set to the number of fields in the header.
	FieldsPerRecord int

	// SkipInvalid controls whether to skip invalid records or return an error.
	SkipInvalid bool
}

// Record is a single CSV row with values addressable by header name.
type Record struct {
	// Line is the 1-based line number of the row in the source file.
	Line   int
	fields map[string]string
}

// NewRecord builds a Record from a header and a row of the same length.
// Header names are matched case-insensitively and with surrounding
// whitespace ignored.
func NewRecord(line int, header, row []string) Record {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		key := normalizeHeader(name)
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = row[i]
	}
	return Record{Line: line, fields: fields}
}

// Get returns the first non-empty value among the given column names.
func (r Record) Get(names ...string) string {
	for _, name := range names {
		if value := strings.TrimSpace(r.fields[normalizeHeader(name)]); value != "" {
			return value
		}
	}
	return ""
}

// Has reports whether any of the given columns exists in the header.
func (r Record) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := r.fields[normalizeHeader(name)]; ok {
			return true
		}
	}
	return false
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

// ProcessCSV reads a CSV file and parses each record into type T.
// The first row is the header. The parser function converts a Record into
// the target type. Returns a slice of parsed items or an error.
func ProcessCSV[T any](filename string, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	// File existence check
	if fi, err := csvFile.Stat(); err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("CSV file is empty or cannot be read")
	}

	reader := csv.NewReader(csvFile)
	if opts.FieldsPerRecord > 0 {
		reader.FieldsPerRecord = opts.FieldsPerRecord
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var items []T

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Error reading record", "error", err)
			continue
		}

		line, _ := reader.FieldPos(0)
		item, err := parser(NewRecord(line, header, row))
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid record", "line", line, "error", err)
				continue
			}
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}

		items = append(items, item)
	}

	return items, nil
}
