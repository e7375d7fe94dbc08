package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetDefaultConfig(t *testing.T) {
	c := GetDefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if c.PeriodFrames != 64 || c.HistorySize != 100 || c.MaxInput != 100 {
		t.Errorf("defaults = %+v", c)
	}
	if c.BufferLatency() != 500*time.Millisecond {
		t.Errorf("BufferLatency() = %v", c.BufferLatency())
	}
	if c.PauseKey() != 'p' || c.SkipKey() != 'n' {
		t.Errorf("keys = %q %q", c.PauseKey(), c.SkipKey())
	}
	if c.LogPath() != filepath.Join("./data", "jukebox.log") {
		t.Errorf("LogPath() = %q", c.LogPath())
	}
}

func TestLoadConfig_MergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"scan_root": "/music", "key_bindings": {"pause": "x", "skip": "n"}}`), 0644)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if c.ScanRoot != "/music" || c.KeyBindings.Pause != "x" {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.Pattern != "*.wav" || c.PeriodFrames != 64 {
		t.Errorf("defaults lost: %+v", c)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{"), 0644)

	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("LoadConfig(bad json) error = %v", err)
	}

	c, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || c.Device != "default" {
		t.Errorf("LoadConfig(missing) = %+v, %v", c, err)
	}
}

func TestLoadOrCreate(t *testing.T) {
	t.Setenv("JUKEBOX_DEVICE", "")
	t.Setenv("JUKEBOX_SCAN_ROOT", "")
	t.Setenv("JUKEBOX_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	if _, err := LoadOrCreate(path); err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	saved, _ := LoadConfig(path)
	saved.Device = "null"
	if err := SaveConfig(saved, path); err != nil {
		t.Fatal(err)
	}
	c, err := LoadOrCreate(path)
	if err != nil || c.Device != "null" {
		t.Errorf("LoadOrCreate() = %+v, %v", c, err)
	}
}

func TestLoadOrCreate_EnvOverrides(t *testing.T) {
	t.Setenv("JUKEBOX_DEVICE", "wav:/tmp/out.wav")
	t.Setenv("JUKEBOX_SCAN_ROOT", "/srv/audio")
	t.Setenv("JUKEBOX_LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "config.json")

	c, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if c.Device != "wav:/tmp/out.wav" || c.ScanRoot != "/srv/audio" || c.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", c)
	}

	// Overrides are not persisted.
	saved, _ := LoadConfig(path)
	if saved.Device != "default" {
		t.Errorf("saved device = %q, want default", saved.Device)
	}
}

func TestLoadOrCreate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"period_frames": 0}`), 0644)

	if _, err := LoadOrCreate(path); err == nil {
		t.Error("LoadOrCreate() accepted period_frames 0")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"period", func(c *Config) { c.PeriodFrames = -1 }},
		{"history", func(c *Config) { c.HistorySize = 0 }},
		{"input", func(c *Config) { c.MaxInput = 0 }},
		{"same keys", func(c *Config) { c.KeyBindings.Skip = "p" }},
		{"long key", func(c *Config) { c.KeyBindings.Pause = "pp" }},
		{"empty key", func(c *Config) { c.KeyBindings.Skip = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := GetDefaultConfig()
			tt.modify(c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("JUKEBOX_CONFIG", "/etc/jukebox.json")
	if got := GetConfigPath(); got != "/etc/jukebox.json" {
		t.Errorf("GetConfigPath() = %q", got)
	}

	t.Setenv("JUKEBOX_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := GetConfigPath(); got != filepath.Join("/xdg", "wavejukebox", "config.json") {
		t.Errorf("GetConfigPath() = %q", got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	os.WriteFile(env, []byte("JUKEBOX_TEST_VALUE=from-file\n"), 0644)
	t.Setenv("JUKEBOX_TEST_VALUE", "")
	os.Unsetenv("JUKEBOX_TEST_VALUE")

	if err := LoadEnv(env, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv("JUKEBOX_TEST_VALUE"); got != "from-file" {
		t.Errorf("JUKEBOX_TEST_VALUE = %q", got)
	}
}
