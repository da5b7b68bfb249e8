package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/shelf/internal/book"
	"github.com/lepinkainen/shelf/internal/testutil"
)

func sampleBooks() []*book.Book {
	return []*book.Book{
		book.New().SetTitle("The Hobbit").SetISBN("9780547928227").SetAuthor("J.R.R. Tolkien"),
		book.New().SetTitle("Untitled"),
	}
}

func TestWriteJSONFile_NewFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "books.json")

	written, err := WriteJSONFile(sampleBooks(), filePath, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}
	if !FileExists(filePath) {
		t.Fatal("Expected file to exist")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	var result []*book.Book
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 books, got %d", len(result))
	}
	if title, _ := result[0].Title(); title != "The Hobbit" {
		t.Errorf("Expected first title to be 'The Hobbit', got %q", title)
	}
	if _, ok := result[1].ISBN(); ok {
		t.Error("Expected second book to have no ISBN")
	}
}

func TestWriteJSONFile_OverwriteFalse(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "report.json")

	_, _ = WriteJSONFile(map[string]int{"total": 99}, filePath, true)

	written, err := WriteJSONFile(map[string]int{"total": 1}, filePath, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if written {
		t.Error("Expected file not to be written")
	}

	data, _ := os.ReadFile(filePath)
	var result map[string]int
	_ = json.Unmarshal(data, &result)
	if result["total"] != 99 {
		t.Errorf("Expected file to remain unchanged, got %+v", result)
	}
}

func TestWriteJSONFile_OverwriteTrue(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "report.json")

	_, _ = WriteJSONFile(map[string]int{"total": 99}, filePath, true)

	written, err := WriteJSONFile(map[string]int{"total": 1}, filePath, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}

	data, _ := os.ReadFile(filePath)
	var result map[string]int
	_ = json.Unmarshal(data, &result)
	if result["total"] != 1 {
		t.Errorf("Expected file to be overwritten, got %+v", result)
	}
}

func TestWriteJSONFile_CreateDirectory(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "json", "nested", "report.json")

	written, err := WriteJSONFile(sampleBooks(), filePath, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}
	if !FileExists(filePath) {
		t.Error("Expected file to exist")
	}
}

func TestWriteJSONFile_InvalidData(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "test.json")

	written, err := WriteJSONFile(make(chan int), filePath, true)
	if err == nil {
		t.Fatal("Expected error for invalid data")
	}
	if written {
		t.Error("Expected file not to be written")
	}
	if FileExists(filePath) {
		t.Error("Expected file not to exist")
	}
}

func TestFileExists_Directory(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.MkdirAll("dir")

	if FileExists(env.Path("dir")) {
		t.Error("Expected directory not to count as a file")
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer

	violations := []book.Violation{{PropertyPath: "isbn", Message: book.MessageISBN13}}
	if err := EncodeJSON(&buf, violations); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded []book.Violation
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].PropertyPath != "isbn" {
		t.Errorf("Unexpected decoded violations: %+v", decoded)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		t.Error("Expected trailing newline")
	}
}
