// Package config loads tool configuration from a TOML file with defaults
// overlaid only by keys the file actually defines.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds tool-wide settings.
type Config struct {
	// Database is the SQLite database path.
	Database string

	// BatchSize is the ingestion batch size (lines per step).
	BatchSize int

	// AutosaveSeconds is the interactive-mode autosave interval.
	// 0 disables the periodic tick; state is still saved on each mutation.
	AutosaveSeconds int
}

// fileConfig maps config.toml keys onto Config fields.
type fileConfig struct {
	Database        string `toml:"database"`
	BatchSize       int    `toml:"batch_size"`
	AutosaveSeconds int    `toml:"autosave_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:        "aggcheck.db",
		BatchSize:       1000,
		AutosaveSeconds: 30,
	}
}

// Load reads a TOML config file and overlays it on the defaults.
// Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("database") {
		cfg.Database = strings.TrimSpace(raw.Database)
	}
	if meta.IsDefined("batch_size") {
		cfg.BatchSize = raw.BatchSize
	}
	if meta.IsDefined("autosave_seconds") {
		cfg.AutosaveSeconds = raw.AutosaveSeconds
	}

	return cfg, cfg.Validate()
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database path must not be empty")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("config: batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.AutosaveSeconds < 0 {
		return fmt.Errorf("config: autosave_seconds must not be negative, got %d", c.AutosaveSeconds)
	}
	return nil
}
