package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/inanna-press/inanna/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds all configuration for the server binary.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
}

// ServerConfig defines how the HTTP server listens.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // listen address (default ":8080")
	BaseURL string `yaml:"baseURL"` // public URL prefix for resource links (optional)
}

// DataConfig defines where application state lives on disk.
type DataConfig struct {
	Dir          string `yaml:"dir"`          // app root: data/ and resources live below it (default ".")
	ResourcesDir string `yaml:"resourcesDir"` // upload dir relative to Dir (default "recursos")
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Data:   DataConfig{Dir: ".", ResourcesDir: "recursos"},
	}
}

// SaveConfig writes the configuration as YAML, so an effective config can
// be captured to a file and loaded back with LoadConfig.
func SaveConfig(path string, cfg *Config) error {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "."
	}
	if cfg.Data.ResourcesDir == "" {
		cfg.Data.ResourcesDir = "recursos"
	}
	return cfg, nil
}
