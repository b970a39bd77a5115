package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"noten/internal/document"
	"noten/internal/geom"
)

// StructuredConfig is the top-level configuration container.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env tag lookups (caarlos0/env).
//   - env: environment variable name, after the global NOTEN_ prefix.
type StructuredConfig struct {
	// Storage controls where boards are saved and found.
	Storage Storage `envPrefix:"STORAGE_"`

	// UI holds terminal UI behaviour.
	UI UI `envPrefix:"UI_"`

	// Log holds the log file settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: NOTEN_CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// Storage holds file locations.
type Storage struct {
	// SaveDirectory is prepended to relative file names. Empty means the
	// working directory. A leading "~" is expanded.
	// Env: NOTEN_STORAGE_SAVE_DIRECTORY
	SaveDirectory string `env:"SAVE_DIRECTORY"`

	// DefaultFilename is offered when saving a new board.
	// Env: NOTEN_STORAGE_DEFAULT_FILENAME
	DefaultFilename string `env:"DEFAULT_FILENAME"`

	// OpenPattern is the doublestar glob listing files in the open dialog.
	// Env: NOTEN_STORAGE_OPEN_PATTERN
	OpenPattern string `env:"OPEN_PATTERN"`
}

// UI holds terminal UI settings.
type UI struct {
	// StartMenu shows the start menu when no file is given.
	// Env: NOTEN_UI_START_MENU
	StartMenu *bool `env:"START_MENU"`

	// Confirmations asks before quitting or opening over unsaved changes and
	// before overwriting files. Clearing the board always asks.
	// Env: NOTEN_UI_CONFIRMATIONS
	Confirmations *bool `env:"CONFIRMATIONS"`

	// WatchFiles reports changes made to the open file by other programs.
	// Env: NOTEN_UI_WATCH_FILES
	WatchFiles *bool `env:"WATCH_FILES"`

	// DefaultColor is the fill of notes created from the keyboard.
	// Env: NOTEN_UI_DEFAULT_COLOR
	DefaultColor string `env:"DEFAULT_COLOR"`

	// Zoom is the initial viewport zoom.
	// Env: NOTEN_UI_ZOOM
	Zoom float64 `env:"ZOOM"`
}

// Log holds logging settings.
type Log struct {
	// Path is the log file. Env: NOTEN_LOG_PATH
	Path string `env:"PATH"`

	// Level is a zerolog level name. Env: NOTEN_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Defaults returns the built-in configuration.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DefaultFilename: document.DefaultFilename,
			OpenPattern:     "*.json",
		},
		UI: UI{
			StartMenu:     boolPtr(true),
			Confirmations: boolPtr(true),
			WatchFiles:    boolPtr(true),
			DefaultColor:  geom.DefaultColor,
			Zoom:          geom.DefaultZoom,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load builds, merges and validates the configuration. fs may be nil when
// there are no command-line flags.
func Load(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(fs).
		withJSON().
		build()
}

// StartMenuEnabled reports the effective StartMenu setting.
func (c *StructuredConfig) StartMenuEnabled() bool { return boolValue(c.UI.StartMenu, true) }

// ConfirmationsEnabled reports the effective Confirmations setting.
func (c *StructuredConfig) ConfirmationsEnabled() bool { return boolValue(c.UI.Confirmations, true) }

// WatchEnabled reports the effective WatchFiles setting.
func (c *StructuredConfig) WatchEnabled() bool { return boolValue(c.UI.WatchFiles, true) }

// SavePath resolves filename against SaveDirectory. Absolute names are kept.
func (c *StructuredConfig) SavePath(filename string) string {
	if c.Storage.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(c.Storage.SaveDirectory, filename)
}

// SaveDir is the directory the open dialog lists.
func (c *StructuredConfig) SaveDir() string {
	if c.Storage.SaveDirectory == "" {
		return "."
	}
	return c.Storage.SaveDirectory
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func boolPtr(v bool) *bool { return &v }

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
