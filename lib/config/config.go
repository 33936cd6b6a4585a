// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the client configuration file. The file is
// optional; every field has a usable default so a bare install works
// against a local backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "BLOG_CONFIG"

// Duration wraps time.Duration with YAML support for values like
// "30s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the client configuration.
type Config struct {
	// BaseURL is the root of the backend, without the /api prefix.
	BaseURL string `yaml:"baseUrl"`

	// RequestTimeout bounds each HTTP request.
	RequestTimeout Duration `yaml:"requestTimeout"`

	// SessionFile is where the session cookies persist between runs.
	SessionFile string `yaml:"sessionFile"`

	// Color controls ANSI output: "auto", "always", or "never".
	Color string `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		RequestTimeout: Duration(15 * time.Second),
		SessionFile:    defaultSessionFile(),
		Color:          "auto",
	}
}

// Load reads the configuration from path. An empty path falls back to
// $BLOG_CONFIG, then to the default location. A missing file is not
// an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = defaultConfigFile()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("config: baseUrl must not be empty")
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always, or never, got %q", cfg.Color)
	}
	return nil
}

func defaultConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "01blog", "config.yaml")
	}
	return ""
}

func defaultSessionFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "01blog", "session.json")
	}
	return ""
}
