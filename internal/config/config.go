// Package config handles splatpaint configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/splat/pkg/splat"
)

// Config holds all settings.
type Config struct {
	Brush   BrushConfig   `yaml:"brush" toml:"brush"`
	Texture TextureConfig `yaml:"texture" toml:"texture"`
	Locator LocatorConfig `yaml:"locator" toml:"locator"`
	Layers  LayersConfig  `yaml:"layers" toml:"layers"`
	Stroke  StrokeConfig  `yaml:"stroke" toml:"stroke"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// BrushConfig holds the default brush.
type BrushConfig struct {
	Channel string  `yaml:"channel" toml:"channel"` // r, g, b, a or none
	Force   float64 `yaml:"force" toml:"force"`     // 0 to 100
	Size    float64 `yaml:"size" toml:"size"`       // World units
	MinSize float64 `yaml:"min_size" toml:"min_size"`
	MaxSize float64 `yaml:"max_size" toml:"max_size"`
}

// TextureConfig holds splat map settings.
type TextureConfig struct {
	Resolution    int     `yaml:"resolution" toml:"resolution"`
	ScaleConstant float64 `yaml:"scale_constant" toml:"scale_constant"`
	EaseExponent  float64 `yaml:"ease_exponent" toml:"ease_exponent"`
	Filter        string  `yaml:"filter" toml:"filter"` // nearest or linear
}

// LocatorConfig holds surface lookup settings.
type LocatorConfig struct {
	NormalEpsilon float64 `yaml:"normal_epsilon" toml:"normal_epsilon"`
}

// LayersConfig holds the physics layers the brush cursor collides with.
type LayersConfig struct {
	CollisionMask uint32 `yaml:"collision_mask" toml:"collision_mask"`
}

// StrokeConfig holds input smoothing settings.
type StrokeConfig struct {
	Stabilize bool    `yaml:"stabilize" toml:"stabilize"`
	Frequency float64 `yaml:"frequency" toml:"frequency"`
	Damping   float64 `yaml:"damping" toml:"damping"`
	FPS       int     `yaml:"fps" toml:"fps"`
	Spacing   float64 `yaml:"spacing" toml:"spacing"` // World units between stamps; 0 stamps only scripted points
}

// OutputConfig holds where the splat map is written.
type OutputConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with the stock brush and a 512px map.
func Default() *Config {
	return &Config{
		Brush: BrushConfig{
			Channel: "r",
			Force:   30,
			Size:    10,
			MinSize: 0.5,
			MaxSize: 20,
		},
		Texture: TextureConfig{
			Resolution:    512,
			ScaleConstant: splat.DefaultScaleConstant,
			EaseExponent:  splat.DefaultEaseExponent,
			Filter:        "linear",
		},
		Locator: LocatorConfig{
			NormalEpsilon: 0.2,
		},
		Layers: LayersConfig{
			CollisionMask: 1,
		},
		Stroke: StrokeConfig{
			Stabilize: true,
			Frequency: 12,
			Damping:   1,
			FPS:       60,
		},
		Output: OutputConfig{
			Path: "splat.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate clamps numeric settings into range and rejects settings that
// cannot be clamped.
func (c *Config) Validate() error {
	var errs []error

	if c.Brush.MinSize <= 0 || c.Brush.MaxSize < c.Brush.MinSize {
		errs = append(errs, fmt.Errorf("brush size range [%v, %v] is empty", c.Brush.MinSize, c.Brush.MaxSize))
	} else {
		c.Brush.Size = max(c.Brush.MinSize, min(c.Brush.MaxSize, c.Brush.Size))
	}
	c.Brush.Force = max(0, min(100, c.Brush.Force))
	if _, err := c.Channel(); err != nil {
		errs = append(errs, err)
	}

	c.Texture.Resolution = splat.ClampResolution(c.Texture.Resolution)
	if c.Texture.ScaleConstant <= 0 {
		errs = append(errs, fmt.Errorf("texture scale_constant must be positive, got %v", c.Texture.ScaleConstant))
	}
	if c.Texture.EaseExponent <= 0 {
		errs = append(errs, fmt.Errorf("texture ease_exponent must be positive, got %v", c.Texture.EaseExponent))
	}
	if _, err := c.FilterMode(); err != nil {
		errs = append(errs, err)
	}

	if c.Locator.NormalEpsilon <= 0 {
		errs = append(errs, fmt.Errorf("locator normal_epsilon must be positive, got %v", c.Locator.NormalEpsilon))
	}

	if c.Stroke.FPS <= 0 {
		c.Stroke.FPS = 60
	}
	c.Stroke.Spacing = max(0, c.Stroke.Spacing)

	return errors.Join(errs...)
}

// Channel parses the configured brush channel.
func (c *Config) Channel() (splat.Channel, error) {
	ch, err := splat.ParseChannel(c.Brush.Channel)
	if err != nil {
		return splat.ChannelNone, fmt.Errorf("brush channel: %w", err)
	}
	return ch, nil
}

// FilterMode parses the configured resize and preview filter.
func (c *Config) FilterMode() (splat.FilterMode, error) {
	switch strings.ToLower(c.Texture.Filter) {
	case "", "linear", "bilinear":
		return splat.FilterBilinear, nil
	case "nearest":
		return splat.FilterNearest, nil
	default:
		return splat.FilterBilinear, fmt.Errorf("texture filter %q: want nearest or linear", c.Texture.Filter)
	}
}

// Compositor returns the brush calibration described by the config.
func (c *Config) Compositor() splat.Compositor {
	return splat.Compositor{
		ScaleConstant: c.Texture.ScaleConstant,
		EaseExponent:  c.Texture.EaseExponent,
	}
}
