package frontmatter

import (
	"testing"

	"github.com/lepinkainen/shelf/internal/testutil"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(*testing.T, *ParsedNote)
	}{
		{
			name: "valid frontmatter",
			content: `---
title: The Hobbit
isbn13: "9780547928227"
author: J.R.R. Tolkien
---
Body content here`,
			wantErr: false,
			check: func(t *testing.T, note *ParsedNote) {
				if note.GetString("title") != "The Hobbit" {
					t.Errorf("expected title 'The Hobbit', got %q", note.GetString("title"))
				}
				if note.GetString("isbn13") != "9780547928227" {
					t.Errorf("expected isbn13 '9780547928227', got %q", note.GetString("isbn13"))
				}
				if note.Body != "Body content here" {
					t.Errorf("expected body 'Body content here', got %q", note.Body)
				}
			},
		},
		{
			name: "empty frontmatter",
			content: `---
---
Body only`,
			wantErr: false,
			check: func(t *testing.T, note *ParsedNote) {
				if len(note.Frontmatter) != 0 {
					t.Errorf("expected empty frontmatter, got %v", note.Frontmatter)
				}
			},
		},
		{
			name:    "dashes inside values",
			content: "---\ntitle: Foo---Bar\nauthor: A --- B\n---\n---\nBody after a rule",
			wantErr: false,
			check: func(t *testing.T, note *ParsedNote) {
				if note.GetString("title") != "Foo---Bar" {
					t.Errorf("expected title 'Foo---Bar', got %q", note.GetString("title"))
				}
				if note.GetString("author") != "A --- B" {
					t.Errorf("expected author 'A --- B', got %q", note.GetString("author"))
				}
				if note.Body != "---\nBody after a rule" {
					t.Errorf("unexpected body %q", note.Body)
				}
			},
		},
		{
			name:    "windows line endings",
			content: "---\r\ntitle: Dune\r\n---\r\nBody",
			wantErr: false,
			check: func(t *testing.T, note *ParsedNote) {
				if note.GetString("title") != "Dune" {
					t.Errorf("expected title 'Dune', got %q", note.GetString("title"))
				}
			},
		},
		{
			name:    "missing opening delimiter",
			content: "title: Test\n---\nBody",
			wantErr: true,
		},
		{
			name:    "missing closing delimiter",
			content: "---\ntitle: Test\nBody",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "---\ntitle: [unclosed\n---\nBody",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := ParseMarkdown([]byte(tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMarkdown() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, note)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	env := testutil.NewTestEnv(t)

	env.WriteFileString("hobbit.md", "---\ntitle: The Hobbit\n---\nNotes")
	env.WriteFileString("dune.yaml", "title: Dune\nisbn: 9780441013593\n")
	env.WriteFileString("broken.md", "no frontmatter here")

	note, err := ParseFile(env.Path("hobbit.md"))
	if err != nil {
		t.Fatalf("ParseFile(md) error = %v", err)
	}
	if note.GetString("title") != "The Hobbit" || note.Body != "Notes" {
		t.Errorf("unexpected note %+v", note)
	}

	note, err = ParseFile(env.Path("dune.yaml"))
	if err != nil {
		t.Fatalf("ParseFile(yaml) error = %v", err)
	}
	if note.GetString("isbn") != "9780441013593" {
		t.Errorf("expected unquoted isbn to survive, got %q", note.GetString("isbn"))
	}

	if _, err := ParseFile(env.Path("broken.md")); err == nil {
		t.Error("expected error for markdown without frontmatter")
	}
	if _, err := ParseFile(env.Path("missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStringFromAny(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "  hello  ", "hello"},
		{"int", 42, "42"},
		{"int64", int64(9780547928227), "9780547928227"},
		{"uint64", uint64(9780547928227), "9780547928227"},
		{"float64", 9780547928227.0, "9780547928227"},
		{"nil", nil, ""},
		{"list", []any{"a"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringFromAny(tt.input); got != tt.expected {
				t.Errorf("StringFromAny(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBookFromNote(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantTitle  string
		wantISBN   string
		wantAuthor string
		absent     []string
	}{
		{
			name:       "all fields",
			content:    "---\ntitle: The Hobbit\nisbn: 978-0-547-92822-7\nauthor: J.R.R. Tolkien\n---\n",
			wantTitle:  "The Hobbit",
			wantISBN:   "978-0-547-92822-7",
			wantAuthor: "J.R.R. Tolkien",
		},
		{
			name:       "isbn13 preferred over isbn",
			content:    "---\ntitle: Dune\nisbn13: 9780441013593\nisbn: 0441013597\nauthor: Frank Herbert\n---\n",
			wantTitle:  "Dune",
			wantISBN:   "9780441013593",
			wantAuthor: "Frank Herbert",
		},
		{
			name:       "authors list",
			content:    "---\ntitle: Good Omens\nisbn13: \"9780060853983\"\nauthors:\n  - Terry Pratchett\n  - Neil Gaiman\n---\n",
			wantTitle:  "Good Omens",
			wantISBN:   "9780060853983",
			wantAuthor: "Terry Pratchett",
		},
		{
			name:       "authors comma string",
			content:    "---\ntitle: Good Omens\nauthors: Terry Pratchett, Neil Gaiman\n---\n",
			wantTitle:  "Good Omens",
			wantAuthor: "Terry Pratchett",
			absent:     []string{"isbn"},
		},
		{
			name:    "nothing set",
			content: "---\ntags: [books]\n---\n",
			absent:  []string{"title", "isbn", "author"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := ParseMarkdown([]byte(tt.content))
			if err != nil {
				t.Fatalf("ParseMarkdown() error = %v", err)
			}

			b := BookFromNote(note)
			fields := map[string]func() (string, bool){
				"title":  b.Title,
				"isbn":   b.ISBN,
				"author": b.Author,
			}
			want := map[string]string{
				"title":  tt.wantTitle,
				"isbn":   tt.wantISBN,
				"author": tt.wantAuthor,
			}

			absent := map[string]bool{}
			for _, name := range tt.absent {
				absent[name] = true
			}

			for name, get := range fields {
				got, ok := get()
				if absent[name] {
					if ok {
						t.Errorf("%s: expected absent, got %q", name, got)
					}
					continue
				}
				if !ok || got != want[name] {
					t.Errorf("%s = %q (set=%v), want %q", name, got, ok, want[name])
				}
			}
		})
	}
}
