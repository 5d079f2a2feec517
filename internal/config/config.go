// Package config loads the YAML table configuration shared by the
// cardtable hosts.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/cardtable.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full table configuration.
type Config struct {
	Window      Window      `yaml:"window"`
	Interaction Interaction `yaml:"interaction"`
	Audio       Audio       `yaml:"audio"`
	Journal     Journal     `yaml:"journal"`
	Debug       bool        `yaml:"debug"`
}

// Window sizes the graphical host.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
}

// Interaction tunes the manager.
type Interaction struct {
	ClickThresholdMS int     `yaml:"click_threshold_ms"`
	ClickOnDrop      bool    `yaml:"click_on_drop"`
	RotateDragged    bool    `yaml:"rotate_dragged"`
	MaxTiltDegrees   float64 `yaml:"max_tilt_degrees"`
}

// ClickThreshold returns the click threshold as a duration.
func (i Interaction) ClickThreshold() time.Duration {
	return time.Duration(i.ClickThresholdMS) * time.Millisecond
}

// Audio configures sound effects.
type Audio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// Journal locates the move journal database.
type Journal struct {
	Path string `yaml:"path"`
}

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Errorf("config: embedded default: %w", err))
	}
	return cfg
}

// Load loads the configuration.
// Search order: customPath -> ~/.cardtable/config.yaml -> ./configs/cardtable.yaml -> embedded default.
// Files are decoded over the defaults, so they only need the keys they change.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(), filepath.Join("configs", "cardtable.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		next := cfg
		if err := yaml.Unmarshal(data, &next); err == nil {
			return next, next.Validate()
		}
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home
// is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cardtable", "config.yaml")
}

// Validate rejects configurations no host can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS))
	}
	if c.Interaction.ClickThresholdMS < 0 {
		errs = append(errs, fmt.Errorf("%w: click threshold %dms", ErrInvalid, c.Interaction.ClickThresholdMS))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("%w: volume %v outside [0, 1]", ErrInvalid, c.Audio.Volume))
	}
	return errors.Join(errs...)
}

// ExpandHome replaces a leading ~ in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
