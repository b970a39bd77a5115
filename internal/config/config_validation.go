package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"noten/internal/geom"
)

// validate checks the merged configuration and normalizes the fields that
// have a canonical form (color, home-relative directories).
func (c *StructuredConfig) validate() error {
	name := c.Storage.DefaultFilename
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if !doublestar.ValidatePattern(c.Storage.OpenPattern) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, c.Storage.OpenPattern)
	}
	hex, err := geom.NormalizeHex(c.UI.DefaultColor)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.UI.DefaultColor)
	}
	c.UI.DefaultColor = hex
	if c.UI.Zoom < geom.MinZoom || c.UI.Zoom > geom.MaxZoom {
		return fmt.Errorf("%w: %v (allowed %v..%v)", ErrInvalidZoom, c.UI.Zoom, geom.MinZoom, geom.MaxZoom)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	c.Storage.SaveDirectory = expandHome(c.Storage.SaveDirectory)
	c.Log.Path = expandHome(c.Log.Path)
	return nil
}

// LogLevel is the parsed log level.
func (c *StructuredConfig) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
