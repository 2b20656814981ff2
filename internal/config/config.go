package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is missing or leaves fields unset.
const (
	DefaultDesktops    = 4
	DefaultPopupSizePx = 60
	DefaultPopupMs     = 1000
	DefaultCellSizePx  = 32
	DefaultBottomPx    = 50
)

// Popup configures the identify overlay.
type Popup struct {
	DurationMs int `yaml:"duration_ms"`
	Size       int `yaml:"size"`
}

// Pager configures the persistent pager toolbar.
type Pager struct {
	CellSize     int `yaml:"cell_size"`
	BottomMargin int `yaml:"bottom_margin"`
}

// Config is the user configuration.
type Config struct {
	// DefaultDesktops is the desktop count used when no state file exists yet.
	DefaultDesktops int    `yaml:"default_desktops"`
	StateFile       string `yaml:"state_file"`
	Popup           Popup  `yaml:"popup"`
	Pager           Pager  `yaml:"pager"`
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "vdesk", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultDesktops: DefaultDesktops,
		Popup:           Popup{DurationMs: DefaultPopupMs, Size: DefaultPopupSizePx},
		Pager:           Pager{CellSize: DefaultCellSizePx, BottomMargin: DefaultBottomPx},
	}
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults; a malformed file is an error so a typo does not
// silently reset the user's settings.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.clamp()
	return cfg, nil
}

// StatePath resolves the state file location, honoring the state_file
// override.
func (c *Config) StatePath() (string, error) {
	if c.StateFile != "" {
		return c.StateFile, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "vdesk", "state.json"), nil
}

// clamp replaces nonsense values with defaults rather than failing: a bad
// number in the config should never make the tool unusable.
func (c *Config) clamp() {
	if c.DefaultDesktops < 1 {
		c.DefaultDesktops = DefaultDesktops
	}
	if c.Popup.DurationMs <= 0 {
		c.Popup.DurationMs = DefaultPopupMs
	}
	if c.Popup.Size < 20 {
		c.Popup.Size = DefaultPopupSizePx
	}
	if c.Pager.CellSize < 16 {
		c.Pager.CellSize = DefaultCellSizePx
	}
	if c.Pager.BottomMargin < 0 {
		c.Pager.BottomMargin = DefaultBottomPx
	}
}
