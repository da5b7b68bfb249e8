package config

import (
	"github.com/spf13/viper"
)

// DefaultDBFile is the catalog database used when nothing else is configured.
const DefaultDBFile = "./shelf.db"

// Global configuration variables
var (
	// DBFile is the path to the SQLite catalog database
	DBFile string
	// OverwriteFiles controls whether existing report and note files should be overwritten
	OverwriteFiles bool
	// DisableColor turns off styled terminal output
	DisableColor bool
)

// SetDefaults registers the default values with viper
func SetDefaults() {
	viper.SetDefault("dbfile", DefaultDBFile)
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("NoColor", false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	// Get values from viper
	DBFile = viper.GetString("dbfile")
	OverwriteFiles = viper.GetBool("OverwriteFiles")
	DisableColor = viper.GetBool("NoColor")
}

// SetDBFile sets the catalog database path
func SetDBFile(path string) {
	DBFile = path
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetDisableColor sets the DisableColor flag
func SetDisableColor(disable bool) {
	DisableColor = disable
}
