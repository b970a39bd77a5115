// Package logger wraps zerolog for noten.
//
// The terminal UI owns stdout, so the application logger writes JSON lines to
// a file. Logger embeds zerolog.Logger, which keeps the whole zerolog API
// (Debug, Info, Warn, Error, ...) available on *Logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New builds a logger for the given role writing to w.
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// holding the fully-qualified function name.
func New(role string, w io.Writer) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()
	return &Logger{l}
}

// NewFileLogger opens (or creates) path in append mode and logs there.
// When the file cannot be opened the logger discards output, since writing
// to stdout would corrupt the terminal UI. The returned closer releases the
// file.
func NewFileLogger(role, path string, level zerolog.Level) (*Logger, io.Closer) {
	zerolog.SetGlobalLevel(level)
	if path == "" {
		return Nop(), io.NopCloser(nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Nop(), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Nop(), io.NopCloser(nil)
	}
	return New(role, f), f
}

// DefaultPath is the log file used when none is configured.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "noten", "noten.log")
}

// Nop returns a *Logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger tagged with a "component" field.
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}
