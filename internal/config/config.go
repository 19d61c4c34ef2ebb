// Package config loads optimizer settings from an optional YAML file and
// merges CLI flag overrides on top.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable settings.
type Config struct {
	// Workers is the number of texture groups processed concurrently.
	Workers int `yaml:"workers"`

	// MinAtlasSize is the smallest atlas side length tried, MaxAtlasSize
	// the hard ceiling for either side. Both power-of-two aligned.
	MinAtlasSize int `yaml:"min_atlas_size"`
	MaxAtlasSize int `yaml:"max_atlas_size"`

	// DryRun runs selection, deduplication and packing without writing.
	DryRun bool `yaml:"dry_run"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Workers  int
	LogLevel string
	LogFile  string
	DryRun   bool
}

// Load reads a YAML config file. Fields not set in the file keep their
// zero values until Resolve fills defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flag overrides and fills remaining defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogFile != "" {
		c.LogFile = flags.LogFile
	}
	if flags.DryRun {
		c.DryRun = true
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MinAtlasSize <= 0 {
		c.MinAtlasSize = 16
	}
	if c.MaxAtlasSize <= 0 {
		c.MaxAtlasSize = 16384
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
