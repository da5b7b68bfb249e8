package fileutil

import (
	"testing"

	"github.com/lepinkainen/shelf/internal/testutil"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The Hobbit", "The Hobbit"},
		{"Dune: Messiah", "Dune - Messiah"},
		{"AC/DC", "AC-DC"},
		{`back\slash`, "back-slash"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWriteFileWithOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("notes", "book.md")

	written, err := WriteFileWithOverwrite(path, []byte("first"), 0644, false)
	if err != nil || !written {
		t.Fatalf("expected first write to succeed, written=%v err=%v", written, err)
	}

	written, err = WriteFileWithOverwrite(path, []byte("second"), 0644, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Error("expected existing file to be skipped")
	}
	if got := env.ReadFileString("notes/book.md"); got != "first" {
		t.Errorf("file content = %q, want %q", got, "first")
	}

	written, err = WriteFileWithOverwrite(path, []byte("third"), 0644, true)
	if err != nil || !written {
		t.Fatalf("expected overwrite, written=%v err=%v", written, err)
	}
	if got := env.ReadFileString("notes/book.md"); got != "third" {
		t.Errorf("file content = %q, want %q", got, "third")
	}
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("present.txt", "x")
	env.MkdirAll("dir")

	if !FileExists(env.Path("present.txt")) {
		t.Error("expected file to exist")
	}
	if FileExists(env.Path("dir")) {
		t.Error("directories are not files")
	}
	if FileExists(env.Path("missing.txt")) {
		t.Error("expected missing file to not exist")
	}
}
