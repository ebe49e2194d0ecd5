// Package config loads settings for the kaleido command.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/metaphox/kaleido/render"
)

// Config holds the complete command configuration.
type Config struct {
	// Format is the tree output format: "dump" or "yaml".
	Format string `toml:"format" yaml:"format"`
	// Program parses every construct in a file instead of just the first.
	Program bool `toml:"program" yaml:"program"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string      `toml:"log_level" yaml:"log_level"`
	Watch    WatchConfig `toml:"watch" yaml:"watch"`
}

// WatchConfig controls `dump --watch`.
type WatchConfig struct {
	// Debounce collapses bursts of write events into one re-parse.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration for text config values like "150ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:   "dump",
		Program:  true,
		LogLevel: "warn",
		Watch:    WatchConfig{Debounce: Duration{100 * time.Millisecond}},
	}
}

// Load reads path over the defaults. The decoder is chosen by extension:
// .toml, or .yaml/.yml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("config: watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Level converts LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}
