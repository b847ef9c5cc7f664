package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sszb.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig empty path error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if cfg.Preset != "mainnet" {
		t.Errorf("Preset = %q, want mainnet", cfg.Preset)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", cfg.Verbosity)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `# sszb settings
preset = "minimal"
hex = true
metrics = true

[log]
verbosity = 4
format = "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Preset != "minimal" {
		t.Errorf("Preset = %q, want minimal", cfg.Preset)
	}
	if !cfg.Hex || !cfg.Metrics || cfg.Snappy {
		t.Errorf("Hex/Metrics/Snappy = %v/%v/%v", cfg.Hex, cfg.Metrics, cfg.Snappy)
	}
	if cfg.Verbosity != 4 {
		t.Errorf("Verbosity = %d, want 4", cfg.Verbosity)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/sszb.conf")
	if !errors.Is(err, ErrConfigFileNotFound) {
		t.Errorf("expected ErrConfigFileNotFound, got %v", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed section", "[unclosed_section\n"},
		{"missing equals", "preset mainnet\n"},
		{"unknown key", "datadir = /tmp\n"},
		{"bad bool", "hex = maybe\n"},
		{"bad verbosity", "[log]\nverbosity = loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv("SSZB_PRESET", "minimal")
	t.Setenv("SSZB_SNAPPY", "true")
	t.Setenv("SSZB_VERBOSITY", "not-a-number")

	cfg := DefaultConfig()
	ApplyEnvironment(&cfg)
	if cfg.Preset != "minimal" {
		t.Errorf("Preset = %q, want minimal", cfg.Preset)
	}
	if !cfg.Snappy {
		t.Error("Snappy should be set from the environment")
	}
	// Malformed values are ignored.
	if cfg.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", cfg.Verbosity)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"minimal preset", func(c *Config) { c.Preset = "minimal" }, true},
		{"unknown preset", func(c *Config) { c.Preset = "gnosis" }, false},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"verbosity too high", func(c *Config) { c.Verbosity = 6 }, false},
		{"verbosity negative", func(c *Config) { c.Verbosity = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := ValidateConfig(&cfg)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("want ErrInvalidConfig, got %v", err)
			}
		})
	}
	if err := ValidateConfig(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("nil config: want ErrInvalidConfig, got %v", err)
	}
}
