package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultPath is the prefs file, relative to the process working directory.
const DefaultPath = "config/engine.json"

// Prefs are viewer-only settings that persist across runs (overlays, grid, last window size).
// The piano setup itself lives in the YAML config.
type Prefs struct {
	ShowFPS      bool `json:"show_fps"`
	ShowMemAlloc bool `json:"show_memalloc"`
	ShowKeys     bool `json:"show_keys"`
	GridVisible  bool `json:"grid_visible"`
	WindowWidth  int  `json:"window_width,omitempty"`
	WindowHeight int  `json:"window_height,omitempty"`
}

// Default returns default prefs (overlays off, grid off, window size from config).
func Default() Prefs {
	return Prefs{}
}

// Load reads prefs from path. If the file is missing or invalid, returns Default() and does
// not create a file.
func Load(path string) Prefs {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Default()
	}
	return p
}

// Save writes prefs to path, creating the directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WindowSize returns the remembered window size, or the fallback when none was saved.
func (p Prefs) WindowSize(fallbackW, fallbackH int) (int, int) {
	if p.WindowWidth > 0 && p.WindowHeight > 0 {
		return p.WindowWidth, p.WindowHeight
	}
	return fallbackW, fallbackH
}
