// Package config loads the swipetoast TOML configuration and watches it
// for changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the swipetoast configuration file.
type Config struct {
	Toast Toast      `toml:"toast"`
	Demo  DemoConfig `toml:"demo"`
}

// DemoConfig holds settings for the terminal demo host.
type DemoConfig struct {
	Messages    []string `toml:"messages"`     // Cycled when opening demo toasts
	DBus        bool     `toml:"dbus"`         // Serve org.freedesktop.Notifications
	MetricsAddr string   `toml:"metrics_addr"` // Empty = no metrics endpoint
	LogFile     string   `toml:"log_file"`     // Empty = discard logs while the TUI runs

	MetricsNamespace string    `toml:"metrics_namespace,omitempty"` // Empty = "swipetoast"
	MetricsBuckets   []float64 `toml:"metrics_buckets,omitempty"`   // Lifetime buckets in seconds
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toast: DefaultToast(),
		Demo: DemoConfig{
			Messages: []string{
				"Saved",
				"Swipe me sideways to dismiss",
				"Connection restored",
				"3 new messages",
			},
		},
	}
}

// ConfigPath returns $XDG_CONFIG_HOME/swipetoast/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset. It is empty when no home
// directory can be found.
func ConfigPath() string {
	dir := configHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "swipetoast", "config.toml")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return ""
}

// LoadConfig reads the file at path (or ConfigPath when empty) over the
// defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := DefaultConfig()

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as TOML to path (or ConfigPath when empty).
// The file is replaced by rename so a watcher never sees a partial write.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Marshal returns the configuration encoded as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
