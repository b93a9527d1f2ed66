// Package config loads mazeastar settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration. Zero values are replaced by Default.
type Config struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Log          LogConfig     `yaml:"log"`
	Server       ServerConfig  `yaml:"server"`
	Render       RenderConfig  `yaml:"render"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RenderConfig struct {
	CellSize int  `yaml:"cell_size"`
	Color    bool `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		PollInterval: 50 * time.Millisecond,
		Log:          LogConfig{Level: "info", Format: "text"},
		Server:       ServerConfig{Addr: ":8080"},
		Render:       RenderConfig{CellSize: 8, Color: true},
	}
}

// Load reads path over the defaults. An empty path, or a path that does not
// exist, yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the CLI cannot honour.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.Render.CellSize <= 0 {
		return fmt.Errorf("render.cell_size must be positive, got %d", c.Render.CellSize)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
