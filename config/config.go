// Package config loads the editor's startup configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	// AssetsDir is searched for registry files and images before the
	// built-in defaults.
	AssetsDir   string  `yaml:"assets_dir"`
	Watch       bool    `yaml:"watch"`
	UndoLimit   int     `yaml:"undo_limit"`
	ViewHistory int     `yaml:"view_history"`
	ZoomMin     float64 `yaml:"zoom_min"`
	ZoomMax     float64 `yaml:"zoom_max"`
	Window      Window  `yaml:"window"`
	ScenesDir   string  `yaml:"scenes_dir"`
}

func Default() Config {
	return Config{
		AssetsDir:   "assets",
		UndoLimit:   100,
		ViewHistory: 2,
		ZoomMin:     0.25,
		ZoomMax:     4,
		Window:      Window{Width: 1280, Height: 800},
		ScenesDir:   "scenes",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.UndoLimit < 0 {
		errs = append(errs, fmt.Errorf("undo_limit must not be negative, got %d", c.UndoLimit))
	}
	if c.ViewHistory < 0 {
		errs = append(errs, fmt.Errorf("view_history must not be negative, got %d", c.ViewHistory))
	}
	if c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin {
		errs = append(errs, fmt.Errorf("zoom range [%g, %g] is invalid", c.ZoomMin, c.ZoomMax))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window %dx%d is invalid", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}
