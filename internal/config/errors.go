package config

import "errors"

// Validation errors returned by [StructuredConfig.validate].
var (
	// ErrInvalidFilename indicates an empty default filename or one that
	// contains a path separator.
	ErrInvalidFilename = errors.New("invalid default filename")
	// ErrInvalidPattern indicates an open pattern doublestar cannot parse.
	ErrInvalidPattern = errors.New("invalid open pattern")
	// ErrInvalidColor indicates a default color that is not #RGB or #RRGGBB.
	ErrInvalidColor = errors.New("invalid default color")
	// ErrInvalidZoom indicates a zoom outside the supported range.
	ErrInvalidZoom = errors.New("invalid zoom")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")
)
