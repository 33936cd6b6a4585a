// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout.Std() != 15*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout.Std())
	}
	if cfg.Color != "auto" {
		t.Errorf("Color = %q", cfg.Color)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
baseUrl: https://blog.example.com
requestTimeout: 45s
color: never
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://blog.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout.Std() != 45*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout.Std())
	}
	if cfg.Color != "never" {
		t.Errorf("Color = %q", cfg.Color)
	}
	// Unset fields keep their defaults.
	if cfg.SessionFile == "" {
		t.Error("SessionFile default lost")
	}
}

func TestLoadHonorsEnvVariable(t *testing.T) {
	path := writeFile(t, "baseUrl: https://env.example.com\n")
	t.Setenv(EnvConfigPath, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	if _, err := Load(writeFile(t, "baseUrl: \"\"\n")); err == nil {
		t.Error("empty baseUrl accepted")
	}
	if _, err := Load(writeFile(t, "color: sometimes\n")); err == nil {
		t.Error("bad color mode accepted")
	}
	if _, err := Load(writeFile(t, "requestTimeout: fast\n")); err == nil {
		t.Error("bad duration accepted")
	}
}
