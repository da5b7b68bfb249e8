package testutil

import (
	"testing"

	"github.com/lepinkainen/shelf/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DBFile         string
	OverwriteFiles bool
	DisableColor   bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DBFile:         config.DBFile,
		OverwriteFiles: config.OverwriteFiles,
		DisableColor:   config.DisableColor,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DBFile = state.DBFile
	config.OverwriteFiles = state.OverwriteFiles
	config.DisableColor = state.DisableColor
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetupTestDB points the catalog database at a file inside env, disables
// colored output and returns the database path. Config is restored when
// the test completes.
func SetupTestDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	ResetConfig(t)

	dbPath := env.Path("shelf.db")
	config.DBFile = dbPath
	config.DisableColor = true
	viper.Set("dbfile", dbPath)

	return dbPath
}
