package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ScanRoot        string `json:"scan_root"`
	Pattern         string `json:"pattern"`
	Device          string `json:"device"`
	PeriodFrames    int    `json:"period_frames"`
	BufferLatencyUS int    `json:"buffer_latency_us"`
	HistorySize     int    `json:"history_size"`
	MaxInput        int    `json:"max_input"`
	Prompt          string `json:"prompt"`
	KeyBindings     KeyMap `json:"key_bindings"`
	ScanWorkers     int    `json:"scan_workers"`
	DataDir         string `json:"data_dir"`
	LogLevel        string `json:"log_level"`
	LogFile         string `json:"log_file"`
}

// KeyMap defines the keys checked during playback
type KeyMap struct {
	Pause string `json:"pause"`
	Skip  string `json:"skip"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		ScanRoot:        "/home",
		Pattern:         "*.wav",
		Device:          "default",
		PeriodFrames:    64,
		BufferLatencyUS: 500000,
		HistorySize:     100,
		MaxInput:        100,
		Prompt:          ">",
		ScanWorkers:     4,
		DataDir:         "./data",
		LogLevel:        "info",
		KeyBindings: KeyMap{
			Pause: "p",
			Skip:  "n",
		},
	}
}

// LoadConfig reads configuration from file on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists.
// Environment overrides are applied after the file and never saved.
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Save default config if file didn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadEnv loads variables from .env files into the environment.
// Missing files are ignored; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JUKEBOX_DEVICE"); v != "" {
		c.Device = v
	}
	if v := os.Getenv("JUKEBOX_SCAN_ROOT"); v != "" {
		c.ScanRoot = v
	}
	if v := os.Getenv("JUKEBOX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks values the rest of the program relies on
func (c *Config) Validate() error {
	switch {
	case c.PeriodFrames <= 0:
		return fmt.Errorf("invalid config: period_frames must be positive, got %d", c.PeriodFrames)
	case c.HistorySize <= 0:
		return fmt.Errorf("invalid config: history_size must be positive, got %d", c.HistorySize)
	case c.MaxInput <= 0:
		return fmt.Errorf("invalid config: max_input must be positive, got %d", c.MaxInput)
	}
	for name, k := range map[string]string{"pause": c.KeyBindings.Pause, "skip": c.KeyBindings.Skip} {
		if utf8.RuneCountInString(k) != 1 {
			return fmt.Errorf("invalid config: %s key must be a single character, got %q", name, k)
		}
	}
	if c.KeyBindings.Pause == c.KeyBindings.Skip {
		return fmt.Errorf("invalid config: pause and skip share the key %q", c.KeyBindings.Pause)
	}
	return nil
}

// BufferLatency returns buffer_latency_us as a duration
func (c *Config) BufferLatency() time.Duration {
	return time.Duration(c.BufferLatencyUS) * time.Microsecond
}

// PauseKey returns the pause binding as a rune
func (c *Config) PauseKey() rune {
	r, _ := utf8.DecodeRuneInString(c.KeyBindings.Pause)
	return r
}

// SkipKey returns the skip binding as a rune
func (c *Config) SkipKey() rune {
	r, _ := utf8.DecodeRuneInString(c.KeyBindings.Skip)
	return r
}

// LogPath returns where the log is written
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "jukebox.log")
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv("JUKEBOX_CONFIG"); path != "" {
		return path
	}

	// Use XDG config directory if available
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "wavejukebox", "config.json")
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "wavejukebox", "config.json")
}
