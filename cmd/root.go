package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/shelf/internal/book"
	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/cmdutil"
	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/datastore"
	shelferrors "github.com/lepinkainen/shelf/internal/errors"
	"github.com/lepinkainen/shelf/internal/fileutil"
	"github.com/lepinkainen/shelf/internal/frontmatter"
	"github.com/lepinkainen/shelf/internal/importer"
	"github.com/lepinkainen/shelf/internal/obsidian"
	"github.com/lepinkainen/shelf/internal/report"
	"github.com/spf13/viper"
)

// bookStore is the subset of the catalog database the commands use.
type bookStore interface {
	importer.Store
	List(ctx context.Context) ([]*book.Book, error)
	Close() error
}

var (
	stdout    io.Writer = os.Stdout
	openStore           = func(path string) (bookStore, error) { return datastore.Open(path) }
	runImport           = importer.Import
)

// CLI represents the complete command structure for the shelf application
type CLI struct {
	// Global flags
	DBFile    string `help:"Path to the catalog SQLite database (defaults to ./shelf.db)"`
	Overwrite bool   `help:"Overwrite existing JSON reports and notes"`
	NoColor   bool   `help:"Disable colored output"`

	Validate ValidateCmd `cmd:"" help:"Validate a book without storing it"`
	Add      AddCmd      `cmd:"" help:"Validate a book and add it to the catalog"`
	List     ListCmd     `cmd:"" help:"List books in the catalog"`
	Import   ImportCmd   `cmd:"" help:"Import books from a CSV export"`
	Export   ExportCmd   `cmd:"" help:"Write catalog books as Obsidian markdown notes"`
}

// BookFlags are the fields of a book given on the command line. Flags
// override values read from the note file.
type BookFlags struct {
	Title  string `help:"Book title"`
	ISBN   string `name:"isbn" help:"ISBN-13, hyphens allowed"`
	Author string `help:"Book author"`
	File   string `short:"f" help:"Markdown note or YAML file to read book fields from" type:"existingfile"`
}

// ValidateCmd represents the validate command
type ValidateCmd struct {
	BookFlags `embed:""`
	Unique    bool `help:"Also check that the ISBN is not already in the catalog"`
	JSON      bool `help:"Print the result as JSON"`
}

// AddCmd represents the add command
type AddCmd struct {
	BookFlags `embed:""`
}

// ListCmd represents the list command
type ListCmd struct {
	JSON bool `help:"Print books as JSON"`
}

// ImportCmd represents the import command
type ImportCmd struct {
	Input      string `short:"f" help:"Path to CSV file with title, isbn and author columns"`
	DryRun     bool   `help:"Validate rows without storing them"`
	JSON       bool   `help:"Write the import report to JSON"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/import.json)"`
}

// ExportCmd represents the export command
type ExportCmd struct {
	Output string   `short:"o" help:"Subdirectory under markdown output directory for book notes (defaults to books)"`
	Tags   []string `help:"Extra tags to add to every note"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("shelf"),
		kong.Description("A tool to validate and catalog books."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// Enable environment variable support, e.g. SHELF_DBFILE
	viper.SetEnvPrefix("shelf")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	if cli.DBFile != "" {
		viper.Set("dbfile", cli.DBFile)
		config.SetDBFile(cli.DBFile)
	}
	if cli.Overwrite {
		config.SetOverwriteFiles(true)
	}
	if cli.NoColor {
		config.SetDisableColor(true)
	}
}

func reportOptions() report.Options {
	return report.Options{DisableColor: config.DisableColor}
}

func dbPath() string {
	if config.DBFile == "" {
		return config.DefaultDBFile
	}
	return config.DBFile
}

// buildBook reads the note file if one is given and applies non-empty flags
// on top of it.
func (f BookFlags) buildBook() (*book.Book, error) {
	b := book.New()
	if f.File != "" {
		note, err := frontmatter.ParseFile(f.File)
		if err != nil {
			return nil, err
		}
		b = frontmatter.BookFromNote(note)
	}

	if f.Title != "" {
		b.SetTitle(f.Title)
	}
	if f.ISBN != "" {
		b.SetISBN(f.ISBN)
	}
	if f.Author != "" {
		b.SetAuthor(f.Author)
	}
	return b, nil
}

func hasISBNViolation(violations []book.Violation) bool {
	for _, v := range violations {
		if v.PropertyPath == book.FieldISBN {
			return true
		}
	}
	return false
}

// checkUnique appends a uniqueness violation when the ISBN is already stored.
func checkUnique(ctx context.Context, b *book.Book, store catalog.Index, violations []book.Violation) ([]book.Violation, error) {
	if hasISBNViolation(violations) {
		return violations, nil
	}

	taken, err := catalog.UniqueISBN(ctx, b, store)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		violations = append(violations, *taken)
	}
	return violations, nil
}

type validateResult struct {
	Book       *book.Book       `json:"book"`
	Valid      bool             `json:"valid"`
	Violations []book.Violation `json:"violations"`
}

// Run methods for each command

func (v *ValidateCmd) Run() error {
	ctx := context.Background()

	b, err := v.buildBook()
	if err != nil {
		return err
	}

	violations := book.Validate(b)

	// A missing database holds no books
	if v.Unique && fileutil.FileExists(dbPath()) {
		store, err := openStore(dbPath())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if violations, err = checkUnique(ctx, b, store, violations); err != nil {
			return err
		}
	}

	if v.JSON {
		if violations == nil {
			violations = []book.Violation{}
		}
		if err := fileutil.EncodeJSON(stdout, validateResult{Book: b, Valid: len(violations) == 0, Violations: violations}); err != nil {
			return err
		}
	} else if err := report.Violations(stdout, violations, reportOptions()); err != nil {
		return err
	}

	if len(violations) > 0 {
		return shelferrors.NewValidationError(violations)
	}
	return nil
}

func (a *AddCmd) Run() error {
	ctx := context.Background()

	b, err := a.buildBook()
	if err != nil {
		return err
	}

	store, err := openStore(dbPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	violations, err := checkUnique(ctx, b, store, book.Validate(b))
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		if err := report.Violations(stdout, violations, reportOptions()); err != nil {
			return err
		}
		return shelferrors.NewValidationError(violations)
	}

	if err := store.Insert(ctx, b); err != nil {
		return err
	}

	id, _ := b.ID()
	title, _ := b.Title()
	slog.Info("Added book", "id", id, "title", title)
	_, err = fmt.Fprintf(stdout, "Added #%d %s\n", id, title)
	return err
}

func (l *ListCmd) Run() error {
	store, err := openStore(dbPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if l.JSON {
		if books == nil {
			books = []*book.Book{}
		}
		return fileutil.EncodeJSON(stdout, books)
	}
	return report.Books(stdout, books, reportOptions())
}

func (i *ImportCmd) Run() error {
	// Read from config if value not provided via flag
	input := i.Input
	if input == "" {
		input = viper.GetString("import.csvfile")
	}

	// Check if required value is still missing
	if input == "" {
		return fmt.Errorf("input CSV file is required (provide via --input flag or import.csvfile in config)")
	}
	if !fileutil.FileExists(input) {
		return fmt.Errorf("input CSV file not found: %s", input)
	}

	out := &cmdutil.BaseCommandConfig{
		ConfigKey:  "import",
		JSONOutput: i.JSONOutput,
		WriteJSON:  i.JSON,
	}
	if err := cmdutil.SetupJSONOutput(out); err != nil {
		return err
	}

	store, err := openStore(dbPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := runImport(context.Background(), store, importer.Params{
		CSVPath:    input,
		WriteJSON:  out.WriteJSON,
		JSONOutput: out.JSONOutput,
		DryRun:     i.DryRun,
	})
	if err != nil {
		return err
	}

	opts := reportOptions()
	for _, r := range result.Rejected {
		if err := report.Rejection(stdout, r.Line, r.Book, r.Violations, opts); err != nil {
			return err
		}
	}
	return report.ImportSummary(stdout, result.Total, len(result.Added), len(result.Rejected), opts)
}

func (e *ExportCmd) Run() error {
	out := &cmdutil.BaseCommandConfig{
		OutputDir: e.Output,
		ConfigKey: "books",
	}
	if err := cmdutil.SetupOutputDir(out); err != nil {
		return err
	}

	store, err := openStore(dbPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.List(context.Background())
	if err != nil {
		return err
	}

	result, err := obsidian.ExportBooks(out.OutputDir, books, e.Tags, config.OverwriteFiles)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "Exported %d notes to %s, %d skipped\n", result.Written, out.OutputDir, result.Skipped)
	return err
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
