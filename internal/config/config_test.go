package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noten/internal/geom"
)

// isolate points HOME at an empty directory so a developer's own
// ~/.notenrc.json never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return home
}

func writeJSON(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "noten.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "noten-data.json", cfg.Storage.DefaultFilename)
	assert.Equal(t, "*.json", cfg.Storage.OpenPattern)
	assert.True(t, cfg.StartMenuEnabled())
	assert.True(t, cfg.ConfirmationsEnabled())
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, geom.DefaultColor, cfg.UI.DefaultColor)
	assert.Equal(t, geom.DefaultZoom, cfg.UI.Zoom)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ".", cfg.SaveDir())
}

func TestLoad_Priority(t *testing.T) {
	home := isolate(t)
	path := writeJSON(t, home, `{
  "storage": {"save_directory": "/boards", "default_filename": "from-json.json", "open_pattern": "**/*.json"},
  "ui": {"confirmations": false, "zoom": 1.5, "default_color": "#abc"},
  "log": {"level": "debug"}
}`)
	t.Setenv("NOTEN_CONFIG", path)
	t.Setenv("NOTEN_STORAGE_DEFAULT_FILENAME", "from-env.json")
	t.Setenv("NOTEN_UI_ZOOM", "3")

	cfg, err := Load(newFlags(t, "--zoom", "0.5", "--start-menu=false"))
	require.NoError(t, err)

	assert.Equal(t, "/boards", cfg.Storage.SaveDirectory, "json over defaults")
	assert.Equal(t, "**/*.json", cfg.Storage.OpenPattern)
	assert.Equal(t, "from-env.json", cfg.Storage.DefaultFilename, "env over json")
	assert.Equal(t, 0.5, cfg.UI.Zoom, "flags over env")
	assert.False(t, cfg.ConfirmationsEnabled(), "explicit false overrides default true")
	assert.False(t, cfg.StartMenuEnabled())
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, "#AABBCC", cfg.UI.DefaultColor)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/boards/x.json", cfg.SavePath("x.json"))
	assert.Equal(t, "/abs/x.json", cfg.SavePath("/abs/x.json"))
}

func TestLoad_HomeJSONPickedUp(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, DefaultJSONName), []byte(`{"ui": {"watch_files": false}}`), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.False(t, cfg.WatchEnabled())
	assert.Equal(t, filepath.Join(home, DefaultJSONName), cfg.JSONFilePath)
}

func TestLoad_ConfigFlag(t *testing.T) {
	home := isolate(t)
	path := writeJSON(t, home, `{"storage": {"save_directory": "~/notes"}}`)

	cfg, err := Load(newFlags(t, "-c", path))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), cfg.Storage.SaveDirectory)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		err  error
	}{
		{name: "filename with slash", args: []string{"--filename", "a/b.json"}, err: ErrInvalidFilename},
		{name: "blank filename", env: map[string]string{"NOTEN_STORAGE_DEFAULT_FILENAME": "  "}, err: ErrInvalidFilename},
		{name: "pattern", args: []string{"--open-pattern", "[x"}, err: ErrInvalidPattern},
		{name: "color", args: []string{"--color", "yellowish"}, err: ErrInvalidColor},
		{name: "zoom too large", args: []string{"--zoom", "9"}, err: ErrInvalidZoom},
		{name: "zoom too small", env: map[string]string{"NOTEN_UI_ZOOM": "0.1"}, err: ErrInvalidZoom},
		{name: "log level", args: []string{"--log-level", "loud"}, err: ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(newFlags(t, tt.args...))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad_BadSources(t *testing.T) {
	home := isolate(t)

	t.Setenv("NOTEN_UI_ZOOM", "wide")
	_, err := Load(nil)
	assert.Error(t, err)

	t.Setenv("NOTEN_UI_ZOOM", "")
	os.Unsetenv("NOTEN_UI_ZOOM")
	_, err = Load(newFlags(t, "--config", filepath.Join(home, "missing.json")))
	assert.Error(t, err)

	path := writeJSON(t, home, `{"ui": `)
	_, err = Load(newFlags(t, "--config", path))
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = "warn"
	assert.Equal(t, "warn", cfg.LogLevel().String())
	cfg.Log.Level = "nonsense"
	assert.Equal(t, "info", cfg.LogLevel().String())
}
