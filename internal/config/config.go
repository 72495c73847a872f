// Package config provides YAML-based engine configuration loading for the
// platformer, with environment overrides.
package config

import (
	"errors"
	"fmt"
)

// RendererType selects how the renderer maps textures to terminal cells.
type RendererType string

const (
	RendererAuto  RendererType = "auto"  // Color when the terminal supports it
	RendererColor RendererType = "color" // Always emit palette colors
	RendererMono  RendererType = "mono"  // Shade runes only
)

// Asset types understood by the loader.
const (
	AssetImage       = "image"
	AssetSpritesheet = "spritesheet"
)

// GameConfig is the top-level engine configuration block.
type GameConfig struct {
	Type    RendererType  `yaml:"type"`
	Width   int           `yaml:"width"`  // World width in pixels
	Height  int           `yaml:"height"` // World height in pixels
	FPS     int           `yaml:"fps"`
	Physics PhysicsConfig `yaml:"physics"`
	Assets  []AssetConfig `yaml:"assets"`
}

// PhysicsConfig selects and configures the physics system.
type PhysicsConfig struct {
	Default string       `yaml:"default"` // "arcade" or "none"
	Arcade  ArcadeConfig `yaml:"arcade"`
}

// ArcadeConfig configures the arcade physics world.
type ArcadeConfig struct {
	Gravity Gravity `yaml:"gravity"`
	Debug   bool    `yaml:"debug"`
}

// Gravity is the world acceleration in pixels per second squared.
type Gravity struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// AssetConfig describes one entry of the preload manifest.
type AssetConfig struct {
	Key         string `yaml:"key"`
	Type        string `yaml:"type"`
	URI         string `yaml:"uri"`
	FrameWidth  int    `yaml:"frame_width,omitempty"`
	FrameHeight int    `yaml:"frame_height,omitempty"`
}

// ArcadeEnabled reports whether the arcade physics system is active.
func (c GameConfig) ArcadeEnabled() bool {
	return c.Physics.Default == "arcade"
}

// Validate checks the configuration for values the engine cannot run with.
func (c GameConfig) Validate() error {
	var errs []error

	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	switch c.Type {
	case RendererAuto, RendererColor, RendererMono:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer type %q", c.Type))
	}
	switch c.Physics.Default {
	case "arcade", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown physics system %q", c.Physics.Default))
	}

	seen := make(map[string]bool, len(c.Assets))
	for i, a := range c.Assets {
		if a.Key == "" {
			errs = append(errs, fmt.Errorf("assets[%d]: key is required", i))
			continue
		}
		if seen[a.Key] {
			errs = append(errs, fmt.Errorf("assets[%d]: duplicate key %q", i, a.Key))
		}
		seen[a.Key] = true
		if a.URI == "" {
			errs = append(errs, fmt.Errorf("asset %q: uri is required", a.Key))
		}
		switch a.Type {
		case AssetImage:
		case AssetSpritesheet:
			if a.FrameWidth <= 0 || a.FrameHeight <= 0 {
				errs = append(errs, fmt.Errorf("asset %q: spritesheet needs positive frame size", a.Key))
			}
		default:
			errs = append(errs, fmt.Errorf("asset %q: unknown type %q", a.Key, a.Type))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
