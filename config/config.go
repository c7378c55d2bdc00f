// Package config loads game settings from the embedded defaults, an
// optional YAML file and TILEQUEST_* environment variables, in that order.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when Load is given no path and the file exists.
const DefaultFile = "tilequest.yaml"

const envPrefix = "TILEQUEST_"

//go:embed default.yaml
var defaults []byte

var ErrInvalid = errors.New("config: invalid value")

type Window struct {
	Title  string `yaml:"title" env:"TITLE"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

type Config struct {
	Window       Window `yaml:"window" envPrefix:"WINDOW_"`
	TPS          int    `yaml:"tps" env:"TPS"`
	TileSize     int    `yaml:"tile_size" env:"TILE_SIZE"`
	Level        string `yaml:"level" env:"LEVEL"`
	Debug        bool   `yaml:"debug" env:"DEBUG"`
	HotReload    bool   `yaml:"hot_reload" env:"HOT_RELOAD"`
	PlayerPrefab string `yaml:"player_prefab" env:"PLAYER_PREFAB"`
	// CameraFollowDuration overrides the camera prefab when positive.
	CameraFollowDuration float64 `yaml:"camera_follow_duration" env:"CAMERA_FOLLOW_DURATION"`
	PrefabDir            string  `yaml:"prefab_dir" env:"PREFAB_DIR"`
}

// Default returns the embedded settings.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaults, cfg); err != nil {
		return nil, fmt.Errorf("config: embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load layers path (or DefaultFile when path is empty and present) and the
// environment over the embedded defaults. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", file, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalid, c.TileSize)
	case c.Level == "":
		return fmt.Errorf("%w: no level", ErrInvalid)
	}
	return nil
}

// Delta is the fixed step of one tick in seconds.
func (c *Config) Delta() float64 {
	return 1 / float64(c.TPS)
}
