// Package config handles loading and saving corkboard configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/corkboard/config.yaml
//   - Data:    ~/.local/share/corkboard/ (board stores)
//   - State:   ~/.local/state/corkboard/ (view state cache)
//
// The Config object is the board-wide ambient state (blob rendering,
// highlight mode, card scale). It is owned by the caller and passed into
// the engine; engine components read it per frame or per interaction and
// never mutate it behind the owner's back.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RenderConfig holds renderer toggles.
type RenderConfig struct {
	BlobsEnabled bool    `yaml:"blobs_enabled"`
	PixelUnit    float64 `yaml:"pixel_unit,omitempty"` // rasterization block size in board units
	CardScale    float64 `yaml:"card_scale,omitempty"` // global entity size multiplier (0.5-2.0)
}

// HighlightConfig holds attention-tracking settings.
type HighlightConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SyncConfig controls the persistence syncer.
type SyncConfig struct {
	DebounceMS int    `yaml:"debounce_ms,omitempty"`
	Scope      string `yaml:"scope,omitempty"` // view-scope key, default "all"
}

// LayoutConfig controls the optional layout service.
type LayoutConfig struct {
	ServiceURL string `yaml:"service_url,omitempty"`
	TimeoutMS  int    `yaml:"timeout_ms,omitempty"`
}

// Config is the top-level configuration for corkboard.
type Config struct {
	Render    RenderConfig    `yaml:"render,omitempty"`
	Highlight HighlightConfig `yaml:"highlight,omitempty"`
	Sync      SyncConfig      `yaml:"sync,omitempty"`
	Layout    LayoutConfig    `yaml:"layout,omitempty"`
	StorePath string          `yaml:"store_path,omitempty"` // SQLite store location
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			BlobsEnabled: true,
			PixelUnit:    4,
			CardScale:    1,
		},
		Sync: SyncConfig{
			DebounceMS: 400,
			Scope:      "all",
		},
		Layout: LayoutConfig{
			TimeoutMS: 2000,
		},
	}
}

// ConfigDir returns the XDG config directory for corkboard.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "corkboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "corkboard")
}

// DataDir returns the XDG data directory for corkboard.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "corkboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "corkboard")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
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

	cfg.normalize()
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

// normalize clamps loaded values into their valid ranges and fills blanks
// so a hand-edited config can't feed the engine degenerate numbers.
func (c *Config) normalize() {
	if c.Render.PixelUnit <= 0 {
		c.Render.PixelUnit = 4
	}
	if c.Render.CardScale < 0.5 || c.Render.CardScale > 2.0 {
		c.Render.CardScale = 1
	}
	if c.Sync.DebounceMS <= 0 {
		c.Sync.DebounceMS = 400
	}
	if strings.TrimSpace(c.Sync.Scope) == "" {
		c.Sync.Scope = "all"
	}
	if c.Layout.TimeoutMS <= 0 {
		c.Layout.TimeoutMS = 2000
	}
	c.StorePath = expandHome(c.StorePath)
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
