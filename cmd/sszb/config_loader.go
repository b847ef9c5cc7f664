package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/eth2030/sszb/log"
	"github.com/eth2030/sszb/types"
)

// Configuration errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Config holds the settings shared by every sszb command. Values are
// resolved in order: defaults, config file, SSZB_* environment, flags.
type Config struct {
	Preset    string
	Verbosity int
	LogFormat string
	Metrics   bool

	// Hex reads and writes SSZ payloads as 0x-prefixed hex instead of raw
	// bytes.
	Hex bool
	// Snappy forces snappy block decompression of inputs. Files ending in
	// .ssz_snappy are decompressed regardless.
	Snappy bool

	// ConfigFile is the path of the loaded config file, if any.
	ConfigFile string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Preset:    types.Mainnet.Name,
		Verbosity: 2,
		LogFormat: "auto",
	}
}

// LoadConfig reads a config file of "key = value" lines on top of the
// defaults. Blank lines and lines starting with '#' are ignored; string
// values may be quoted. An optional [log] section holds the log keys. An
// empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := parseConfig(&cfg, data); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.ConfigFile = path
	return cfg, nil
}

func parseConfig(cfg *Config, data []byte) error {
	section := ""
	for lineNum, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			end := strings.Index(line, "]")
			if end < 0 {
				return fmt.Errorf("line %d: unclosed section header", lineNum+1)
			}
			section = strings.TrimSpace(line[1:end])
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("line %d: expected key = value", lineNum+1)
		}
		key = strings.TrimSpace(key)
		if section != "" {
			key = section + "." + key
		}
		if err := applyConfigValue(cfg, key, unquote(strings.TrimSpace(val))); err != nil {
			return fmt.Errorf("line %d: %w", lineNum+1, err)
		}
	}
	return nil
}

// applyConfigValue sets one dotted key. File keys and environment variables
// share it.
func applyConfigValue(cfg *Config, key, val string) error {
	switch key {
	case "preset":
		cfg.Preset = val
	case "metrics":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid metrics: %w", err)
		}
		cfg.Metrics = b
	case "hex":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}
		cfg.Hex = b
	case "snappy":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid snappy: %w", err)
		}
		cfg.Snappy = b
	case "verbosity", "log.verbosity":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid verbosity: %w", err)
		}
		cfg.Verbosity = n
	case "log.format":
		cfg.LogFormat = val
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// envKeys maps SSZB_* environment variables to config keys.
var envKeys = []struct{ env, key string }{
	{"SSZB_PRESET", "preset"},
	{"SSZB_VERBOSITY", "verbosity"},
	{"SSZB_LOG_FORMAT", "log.format"},
	{"SSZB_METRICS", "metrics"},
	{"SSZB_HEX", "hex"},
	{"SSZB_SNAPPY", "snappy"},
}

// ApplyEnvironment overrides cfg from SSZB_* variables. Malformed values
// are logged and ignored.
func ApplyEnvironment(cfg *Config) {
	for _, e := range envKeys {
		v, ok := os.LookupEnv(e.env)
		if !ok || v == "" {
			continue
		}
		if err := applyConfigValue(cfg, e.key, v); err != nil {
			log.Warn("ignoring environment variable", "name", e.env, "err", err)
		}
	}
}

// ValidateConfig checks cfg and returns the first problem found.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if _, err := types.PresetByName(cfg.Preset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseFormat(cfg.LogFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Verbosity < 0 || cfg.Verbosity > 5 {
		return fmt.Errorf("%w: verbosity %d out of range 0-5", ErrInvalidConfig, cfg.Verbosity)
	}
	return nil
}
