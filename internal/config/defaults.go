package config

import (
	_ "embed"
)

//go:embed defaults/platformer.yaml
var defaultPlatformerYAML []byte

// DefaultConfig returns the built-in configuration: an 800x600 canvas with
// arcade physics pulling down at 300 px/s² and the tutorial asset manifest.
func DefaultConfig() GameConfig {
	return GameConfig{
		Type:   RendererAuto,
		Width:  800,
		Height: 600,
		FPS:    60,
		Physics: PhysicsConfig{
			Default: "arcade",
			Arcade: ArcadeConfig{
				Gravity: Gravity{X: 0, Y: 300},
				Debug:   false,
			},
		},
		Assets: []AssetConfig{
			{Key: "sky", Type: AssetImage, URI: "https://labs.phaser.io/assets/skies/space3.png"},
			{Key: "ground", Type: AssetImage, URI: "https://labs.phaser.io/assets/sprites/platform.png"},
			{Key: "star", Type: AssetImage, URI: "https://labs.phaser.io/assets/demoscene/star.png"},
			{
				Key:         "dude",
				Type:        AssetSpritesheet,
				URI:         "https://labs.phaser.io/assets/sprites/dude.png",
				FrameWidth:  32,
				FrameHeight: 48,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultPlatformerYAML
}
