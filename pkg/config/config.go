// Package config handles loading and saving gmctl configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/gmctl/config.yaml
//   - State:  ~/.local/state/gmctl/ (run archive)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

// WorkerConfig describes how to reach the crawl worker.
type WorkerConfig struct {
	Host string `yaml:"host,omitempty"` // default 127.0.0.1
	Port int    `yaml:"port,omitempty"` // default 8000

	// TunnelHosts are host suffixes recognized as public tunnels; a
	// matching host upgrades the transport to its encrypted variant.
	TunnelHosts []string `yaml:"tunnel_hosts,omitempty"`
}

// UIConfig holds interface preferences.
type UIConfig struct {
	Headless    bool   `yaml:"headless,omitempty"`     // worker display-mode default
	ExportDir   string `yaml:"export_dir,omitempty"`   // where export files land
	ShowPreview *bool  `yaml:"show_preview,omitempty"` // live-preview pane visible
}

// Config is the top-level configuration for gmctl.
type Config struct {
	Worker  WorkerConfig    `yaml:"worker,omitempty"`
	UI      UIConfig        `yaml:"ui,omitempty"`
	Columns map[string]bool `yaml:"columns,omitempty"` // export column mask
}

// DefaultTunnelHosts are the public-tunnel host suffixes recognized out
// of the box.
func DefaultTunnelHosts() []string {
	return []string{".ngrok-free.app", ".ngrok.io", ".ngrok.app"}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Worker: WorkerConfig{
			Host:        "127.0.0.1",
			Port:        8000,
			TunnelHosts: DefaultTunnelHosts(),
		},
		UI: UIConfig{
			ExportDir: ".",
		},
		Columns: model.DefaultColumnMask(),
	}
}

// Mask returns the configured column mask, fully populated: columns the
// file never mentions stay at their default (visible).
func (c Config) Mask() model.ColumnMask {
	mask := model.DefaultColumnMask()
	for col, on := range c.Columns {
		if _, known := mask[col]; known {
			mask[col] = on
		}
	}
	return mask
}

// SetMask stores a column mask back into the config.
func (c *Config) SetMask(mask model.ColumnMask) {
	c.Columns = mask.Clone()
}

// ShowPreview reports whether the live-preview pane is enabled
// (default true).
func (c Config) ShowPreview() bool {
	if c.UI.ShowPreview == nil {
		return true
	}
	return *c.UI.ShowPreview
}

// ConfigDir returns the XDG config directory for gmctl.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gmctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gmctl")
}

// StateDir returns the XDG state directory for gmctl.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "gmctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "gmctl")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ArchivePath returns the full path to the run archive database.
func ArchivePath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "runs.sqlite3")
}

// Load reads the config file from the XDG config directory. Returns
// DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Returns DefaultConfig if
// the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if strings.TrimSpace(cfg.Worker.Host) == "" {
		cfg.Worker.Host = "127.0.0.1"
	}
	if cfg.Worker.Port == 0 {
		cfg.Worker.Port = 8000
	}
	if len(cfg.Worker.TunnelHosts) == 0 {
		cfg.Worker.TunnelHosts = DefaultTunnelHosts()
	}
	if cfg.UI.ExportDir == "" {
		cfg.UI.ExportDir = "."
	}
	cfg.UI.ExportDir = expandHome(cfg.UI.ExportDir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
