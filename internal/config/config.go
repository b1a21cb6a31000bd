// Package config loads the stanio CLI configuration from a YAML file.
// Every setting is explicit; no environment variables are consulted.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultMaxInputBytes = 50 * 1024 * 1024

// Config holds all stanio settings.
type Config struct {
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MaxInputBytes caps how much of an input file a command will read.
	MaxInputBytes int64 `yaml:"max_input_bytes"`

	// Check holds defaults for the check command.
	Check CheckConfig `yaml:"check"`
}

// CheckConfig configures run-output validation.
type CheckConfig struct {
	// Sampling expects the adaptation/metric section in scanned files.
	Sampling bool `yaml:"sampling"`

	// Optimizing expects exactly one draw row.
	Optimizing bool `yaml:"optimizing"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel:      "info",
		MaxInputBytes: defaultMaxInputBytes,
		Check:         CheckConfig{Sampling: true},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; an empty path skips loading entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = defaultMaxInputBytes
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
