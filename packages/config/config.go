// Package config loads the slate configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the slate configuration
type Config struct {
	Verbosity string `yaml:"verbosity,omitempty"`  // debug, info, warning, error, critical
	NoColor   *bool  `yaml:"no_color,omitempty"`
	Width     int    `yaml:"width,omitempty"`      // separator width
	Output    string `yaml:"output,omitempty"`     // console, junit, tap
	HistoryDB string `yaml:"history_db,omitempty"` // path to the history database
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".slate.yaml",
	".slate.yml",
	"slate.yaml",
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Verbosity: "warning",
		Output:    "console",
		HistoryDB: ".slate-history.db",
	}
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	if c.NoColor == nil {
		return false
	}
	return *c.NoColor
}

// LoadConfig loads configuration from the specified path or searches for
// config files in the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Verbosity != "" {
		result.Verbosity = other.Verbosity
	}
	if other.Width > 0 {
		result.Width = other.Width
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}
