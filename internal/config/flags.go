package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig        = "config"
	FlagSaveDir       = "save-dir"
	FlagFilename      = "filename"
	FlagOpenPattern   = "open-pattern"
	FlagStartMenu     = "start-menu"
	FlagConfirmations = "confirm"
	FlagWatch         = "watch"
	FlagColor         = "color"
	FlagZoom          = "zoom"
	FlagLogFile       = "log-file"
	FlagLogLevel      = "log-level"
)

// RegisterFlags adds the configuration flags to fs.
//
// Flags:
//
//	-c/--config      JSON config file path
//	--save-dir       directory for relative file names
//	--filename       default file name for new boards
//	--open-pattern   glob listed by the open dialog
//	--start-menu     show the start menu
//	--confirm        ask before destructive actions
//	--watch          watch the open file for outside changes
//	--color          default note color
//	--zoom           initial zoom
//	--log-file       log file path
//	--log-level      log level (debug, info, warn, error)
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON config file path")
	fs.String(FlagSaveDir, "", "Directory for relative file names")
	fs.String(FlagFilename, "", "Default file name for new boards")
	fs.String(FlagOpenPattern, "", "Glob listed by the open dialog")
	fs.Bool(FlagStartMenu, true, "Show the start menu")
	fs.Bool(FlagConfirmations, true, "Ask before destructive actions")
	fs.Bool(FlagWatch, true, "Watch the open file for outside changes")
	fs.String(FlagColor, "", "Default note color (#RGB or #RRGGBB)")
	fs.Float64(FlagZoom, 0, "Initial zoom")
	fs.String(FlagLogFile, "", "Log file path")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
}

// parseFlags reads the flags that were set explicitly. Flags left at their
// defaults do not override other sources.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	if fs == nil {
		return cfg, nil
	}

	var err error
	str := func(name string, dst *string) {
		if err != nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetString(name)
	}
	boolean := func(name string, dst **bool) {
		if err != nil || !fs.Changed(name) {
			return
		}
		var v bool
		v, err = fs.GetBool(name)
		*dst = &v
	}

	str(FlagConfig, &cfg.JSONFilePath)
	str(FlagSaveDir, &cfg.Storage.SaveDirectory)
	str(FlagFilename, &cfg.Storage.DefaultFilename)
	str(FlagOpenPattern, &cfg.Storage.OpenPattern)
	boolean(FlagStartMenu, &cfg.UI.StartMenu)
	boolean(FlagConfirmations, &cfg.UI.Confirmations)
	boolean(FlagWatch, &cfg.UI.WatchFiles)
	str(FlagColor, &cfg.UI.DefaultColor)
	str(FlagLogFile, &cfg.Log.Path)
	str(FlagLogLevel, &cfg.Log.Level)
	if err == nil && fs.Changed(FlagZoom) {
		cfg.UI.Zoom, err = fs.GetFloat64(FlagZoom)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}
	return cfg, nil
}
