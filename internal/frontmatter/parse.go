package frontmatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lepinkainen/shelf/internal/book"
	"gopkg.in/yaml.v3"
)

// ParsedNote represents a parsed markdown note with YAML frontmatter.
type ParsedNote struct {
	// Frontmatter is the raw YAML frontmatter as a map
	Frontmatter map[string]any
	// Body is the content after the frontmatter
	Body string
}

const delimiter = "---"

// ParseMarkdown parses markdown content with YAML frontmatter.
// The frontmatter is enclosed by lines holding only "---".
// Returns the parsed frontmatter and body, or an error if the format is invalid.
func ParseMarkdown(content []byte) (*ParsedNote, error) {
	trimmed := bytes.TrimSpace(content)
	first, rest, _ := bytes.Cut(trimmed, []byte("\n"))
	if !isDelimiter(first) {
		return nil, fmt.Errorf("invalid markdown format: missing opening frontmatter delimiter")
	}

	header, body, ok := cutAtDelimiter(rest)
	if !ok {
		return nil, fmt.Errorf("invalid markdown format: missing closing frontmatter delimiter")
	}

	fm, err := parseYAML(header)
	if err != nil {
		return nil, err
	}

	return &ParsedNote{
		Frontmatter: fm,
		Body:        strings.TrimSpace(string(body)),
	}, nil
}

// cutAtDelimiter splits content around the first delimiter line.
func cutAtDelimiter(content []byte) (before, after []byte, found bool) {
	offset := 0
	for {
		line := content[offset:]
		next := len(content)
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
			next = offset + end + 1
		}

		if isDelimiter(line) {
			return content[:offset], content[next:], true
		}
		if end < 0 {
			return nil, nil, false
		}
		offset = next
	}
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == delimiter
}

// ParseFile reads a markdown note or a bare .yaml/.yml file.
func ParseFile(path string) (*ParsedNote, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		fm, err := parseYAML(content)
		if err != nil {
			return nil, err
		}
		return &ParsedNote{Frontmatter: fm}, nil
	default:
		return ParseMarkdown(content)
	}
}

func parseYAML(content []byte) (map[string]any, error) {
	var fm map[string]any
	if err := yaml.Unmarshal(content, &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, nil
}

// StringFromAny extracts a string from any scalar type.
// Numbers are formatted without exponent so ISBNs written unquoted survive.
// Returns empty string for other types.
func StringFromAny(val any) string {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// GetString retrieves a string value from frontmatter by key.
// Returns empty string if key doesn't exist or value is not a scalar.
func (p *ParsedNote) GetString(key string) string {
	val, ok := p.Frontmatter[key]
	if !ok {
		return ""
	}
	return StringFromAny(val)
}

// lookup returns the value of the first key present in the frontmatter.
func (p *ParsedNote) lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		if _, ok := p.Frontmatter[key]; ok {
			return p.GetString(key), true
		}
	}
	return "", false
}

// BookFromNote maps frontmatter fields to a Book. Keys missing from the
// note leave the field absent.
func BookFromNote(note *ParsedNote) *book.Book {
	b := book.New()

	if title, ok := note.lookup("title"); ok {
		b.SetTitle(title)
	}
	if isbn, ok := note.lookupISBN(); ok {
		b.SetISBN(isbn)
	}
	if author, ok := note.firstAuthor(); ok {
		b.SetAuthor(author)
	}

	return b
}

func (p *ParsedNote) lookupISBN() (string, bool) {
	found := false
	for _, key := range []string{"isbn13", "isbn"} {
		if _, ok := p.Frontmatter[key]; !ok {
			continue
		}
		found = true
		if value := p.GetString(key); value != "" {
			return value, true
		}
	}
	return "", found
}

// firstAuthor prefers "author" and falls back to the first entry of
// "authors", which may be a list or a comma-separated string.
func (p *ParsedNote) firstAuthor() (string, bool) {
	if author, ok := p.lookup("author"); ok {
		return author, true
	}

	val, ok := p.Frontmatter["authors"]
	if !ok {
		return "", false
	}

	switch v := val.(type) {
	case []any:
		for _, item := range v {
			if s := StringFromAny(item); s != "" {
				return s, true
			}
		}
		return "", true
	default:
		first, _, _ := strings.Cut(StringFromAny(v), ",")
		return strings.TrimSpace(first), true
	}
}
