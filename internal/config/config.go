// Package config holds the persisted defaults for both tools. Settings live
// in ~/.intention/config.yaml; flags beat environment variables, which beat
// the file, which beats the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all intention tool configuration.
type Config struct {
	// Repeater defaults
	Repeater RepeaterConfig `yaml:"repeater"`

	// Broadcaster defaults
	Broadcast BroadcastConfig `yaml:"broadcast"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// RepeaterConfig carries the repeater's flag defaults.
type RepeaterConfig struct {
	MemoryGB   float64 `yaml:"memory_gb"`
	Hashing    string  `yaml:"hashing"`  // y/n, empty means prompt
	Compress   string  `yaml:"compress"` // y/n, empty means prompt
	Color      string  `yaml:"color"`
	Suffix     string  `yaml:"suffix"` // HZ or EXP
	Timer      string  `yaml:"timer"`  // EXACT or INEXACT
	Amplify    uint64  `yaml:"amplify"`
	RestEvery  int     `yaml:"rest_every"`
	RestFor    int     `yaml:"rest_for"`
	BoostLevel int     `yaml:"boost_level"`
}

// BroadcastConfig carries the broadcaster's flag defaults.
type BroadcastConfig struct {
	Addr    string `yaml:"addr"`
	Port    int    `yaml:"port"`
	DelayMS int    `yaml:"delay_ms"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"` // no log files are written when false
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"` // nil means all categories
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Repeater: RepeaterConfig{
			MemoryGB: 1.0,
			Color:    "WHITE",
			Suffix:   "HZ",
			Timer:    "EXACT",
			Amplify:  1,
		},
		Broadcast: BroadcastConfig{
			Addr: "255.255.255.255",
			Port: 11111,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// StateDir returns the per-user state directory (~/.intention), creating it
// if needed.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".intention")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the config file path under the state dir.
func DefaultPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INTENTION_COLOR"); v != "" {
		c.Repeater.Color = v
	}
	if v := os.Getenv("INTENTION_SUFFIX"); v != "" {
		c.Repeater.Suffix = v
	}
	if v := os.Getenv("INTENTION_TIMER"); v != "" {
		c.Repeater.Timer = v
	}
	if v := os.Getenv("INTENTION_IMEM"); v != "" {
		if gb, err := strconv.ParseFloat(v, 64); err == nil && gb >= 0 {
			c.Repeater.MemoryGB = gb
		}
	}
	if v := os.Getenv("INTENTION_BROADCAST_ADDR"); v != "" {
		c.Broadcast.Addr = v
	}
	if v := os.Getenv("INTENTION_BROADCAST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			c.Broadcast.Port = port
		}
	}
	if v := os.Getenv("INTENTION_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = debug
		}
	}
}

// Validate checks the enum-ish fields.
func (c *Config) Validate() error {
	switch c.Repeater.Suffix {
	case "", "HZ", "EXP":
	default:
		return fmt.Errorf("repeater.suffix %q: want HZ or EXP", c.Repeater.Suffix)
	}
	switch c.Repeater.Timer {
	case "", "EXACT", "INEXACT":
	default:
		return fmt.Errorf("repeater.timer %q: want EXACT or INEXACT", c.Repeater.Timer)
	}
	if c.Broadcast.Port <= 0 || c.Broadcast.Port > 65535 {
		return fmt.Errorf("broadcast.port %d out of range", c.Broadcast.Port)
	}
	if c.Repeater.BoostLevel < 0 || c.Repeater.BoostLevel > 100 {
		return fmt.Errorf("repeater.boost_level %d: want 0-100", c.Repeater.BoostLevel)
	}
	return nil
}
