package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultJSONName is looked up in the home directory when no config file is
// named explicitly.
const DefaultJSONName = ".notenrc.json"

// StructuredJSONConfig is the on-disk form of the configuration.
type StructuredJSONConfig struct {
	Storage struct {
		SaveDirectory   string `json:"save_directory"`
		DefaultFilename string `json:"default_filename"`
		OpenPattern     string `json:"open_pattern"`
	} `json:"storage,omitempty"`

	UI struct {
		StartMenu     *bool   `json:"start_menu"`
		Confirmations *bool   `json:"confirmations"`
		WatchFiles    *bool   `json:"watch_files"`
		DefaultColor  string  `json:"default_color"`
		Zoom          float64 `json:"zoom"`
	} `json:"ui,omitempty"`

	Log struct {
		Path  string `json:"path"`
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(path string) (*StructuredConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer f.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(f).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Storage: Storage{
			SaveDirectory:   jsonCfg.Storage.SaveDirectory,
			DefaultFilename: jsonCfg.Storage.DefaultFilename,
			OpenPattern:     jsonCfg.Storage.OpenPattern,
		},
		UI: UI{
			StartMenu:     jsonCfg.UI.StartMenu,
			Confirmations: jsonCfg.UI.Confirmations,
			WatchFiles:    jsonCfg.UI.WatchFiles,
			DefaultColor:  jsonCfg.UI.DefaultColor,
			Zoom:          jsonCfg.UI.Zoom,
		},
		Log: Log{
			Path:  jsonCfg.Log.Path,
			Level: jsonCfg.Log.Level,
		},
	}, nil
}

// defaultJSONPath returns ~/.notenrc.json if that file exists.
func defaultJSONPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, DefaultJSONName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}
