// Package stylestore persists the global style set, named style presets,
// and application config as flat JSON files. Writes are last-writer-wins;
// a mutex serializes them within one process as a hardening measure.
package stylestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/inanna-press/inanna"
)

// File names under the data directory.
const (
	stylesFile  = "styles.json"
	presetsFile = "presets.json"
	configFile  = "config.json"
)

// Config holds the app-level settings the operator edits.
type Config struct {
	GoogleFontsAPIKey string `json:"google_fonts_api_key"`
}

// Store reads and writes style data under one directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// LoadStyles returns the saved global style set, resolved against the
// hardcoded defaults. A missing or corrupt file yields the defaults.
func (s *Store) LoadStyles() inanna.Style {
	var style inanna.Style
	if err := s.readJSON(stylesFile, &style); err != nil {
		return inanna.DefaultStyle()
	}
	return inanna.ResolveStyle(style, inanna.DefaultStyle())
}

// SaveStyles overwrites the global style set.
func (s *Store) SaveStyles(style inanna.Style) error {
	return s.writeJSON(stylesFile, style)
}

// LoadPresets returns the named style presets, sorted by name. A missing
// file yields an empty collection.
func (s *Store) LoadPresets() []inanna.StylePreset {
	var presets []inanna.StylePreset
	if err := s.readJSON(presetsFile, &presets); err != nil {
		return nil
	}
	inanna.SortPresets(presets)
	return presets
}

// SavePreset stores a named preset, replacing any preset with the same name.
func (s *Store) SavePreset(preset inanna.StylePreset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}

	presets := s.LoadPresets()
	replaced := false
	for i := range presets {
		if presets[i].Name == preset.Name {
			presets[i] = preset
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, preset)
	}
	inanna.SortPresets(presets)
	return s.writeJSON(presetsFile, presets)
}

// DeletePreset removes a preset by name; deleting an absent preset is a no-op.
func (s *Store) DeletePreset(name string) error {
	presets := s.LoadPresets()
	kept := presets[:0]
	for _, p := range presets {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	return s.writeJSON(presetsFile, kept)
}

// LoadConfig returns the saved app config; missing or corrupt files yield
// the zero config.
func (s *Store) LoadConfig() Config {
	var cfg Config
	if err := s.readJSON(configFile, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// SaveConfig overwrites the app config.
func (s *Store) SaveConfig(cfg Config) error {
	return s.writeJSON(configFile, cfg)
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 -- fixed file names
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Store) writeJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
