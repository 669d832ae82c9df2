package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oscillab/internal/buffer"
	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/params"
)

const (
	DefaultWindow    = 10.0
	DefaultTimeScale = 1.0
	DefaultFPS       = 60.0
	DefaultTheme     = "cyberpunk"
	DefaultLogLevel  = "info"
)

type Config struct {
	Mode      string        `yaml:"mode"`
	Window    float64       `yaml:"window"`
	Margin    float64       `yaml:"margin"`
	TimeScale float64       `yaml:"time_scale"`
	FPS       float64       `yaml:"fps"`
	WideAngle bool          `yaml:"wide_angle"`
	Theme     string        `yaml:"theme"`
	Log       LogConfig     `yaml:"log"`
	Params    dynamo.Params `yaml:"params"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:      dynamo.ModeSpring.String(),
		Window:    DefaultWindow,
		Margin:    buffer.DefaultMargin,
		TimeScale: DefaultTimeScale,
		FPS:       DefaultFPS,
		Theme:     DefaultTheme,
		Log:       LogConfig{Level: DefaultLogLevel},
		Params:    dynamo.DefaultParams(),
	}
}

// Load reads a YAML file over the defaults, so a partial file only
// overrides what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings. Parameter ranges are enforced later by
// the parameter store so an out-of-range value can still be loaded and
// corrected interactively.
func (c *Config) Validate() error {
	if _, err := dynamo.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %g", c.Window)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %g", c.Margin)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be positive, got %g", c.TimeScale)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %g", c.FPS)
	}
	return nil
}

func (c *Config) ParsedMode() dynamo.Mode {
	m, err := dynamo.ParseMode(c.Mode)
	if err != nil {
		return dynamo.ModeSpring
	}
	return m
}

func (c *Config) Ranges() map[dynamo.Field]params.Range {
	if c.WideAngle {
		return params.WideAngleRanges()
	}
	return params.DefaultRanges()
}
