package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseCommandConfig holds common configuration for commands that write
// files
type BaseCommandConfig struct {
	OutputDir  string
	ConfigKey  string
	JSONOutput string
	WriteJSON  bool
}

// SetupOutputDir resolves the markdown output directory and creates it.
// The directory is OutputDir, else <ConfigKey>.output from config, else
// ConfigKey, joined under markdownoutputdir.
func SetupOutputDir(cfg *BaseCommandConfig) error {
	// If flag wasn't provided, try to get value from config
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = viper.GetString(cfg.ConfigKey + ".output")
	}
	if outputDir == "" {
		outputDir = cfg.ConfigKey
	}

	baseDir := viper.GetString("markdownoutputdir")
	if baseDir == "" {
		baseDir = "markdown"
	}
	cfg.OutputDir = filepath.Clean(filepath.Join(baseDir, outputDir))

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// SetupJSONOutput resolves the JSON report path and creates its directory.
// Without an explicit path the report goes to <jsonoutputdir>/<ConfigKey>.json.
func SetupJSONOutput(cfg *BaseCommandConfig) error {
	if !cfg.WriteJSON {
		return nil
	}

	// If JSON output is enabled but no path specified, use default in json directory
	if cfg.JSONOutput == "" {
		// Get the base JSON directory from config or use default
		jsonBaseDir := viper.GetString("jsonoutputdir")
		if jsonBaseDir == "" {
			jsonBaseDir = "json"
		}
		cfg.JSONOutput = filepath.Clean(filepath.Join(jsonBaseDir, cfg.ConfigKey+".json"))
	}

	jsonDir := filepath.Dir(cfg.JSONOutput)
	if err := os.MkdirAll(jsonDir, 0755); err != nil {
		return fmt.Errorf("failed to create JSON output directory: %w", err)
	}

	return nil
}
