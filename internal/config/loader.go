package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override name.
const EnvPrefix = "PLATFORMER_"

// fileName is the config file looked up in the user and local directories.
const fileName = "platformer.yaml"

// envOverrides lists the settings that can be changed from the environment.
// It is pre-filled from the loaded config so unset variables keep their value.
type envOverrides struct {
	Type     string  `env:"TYPE"`
	Width    int     `env:"WIDTH"`
	Height   int     `env:"HEIGHT"`
	FPS      int     `env:"FPS"`
	Physics  string  `env:"PHYSICS"`
	GravityX float64 `env:"GRAVITY_X"`
	GravityY float64 `env:"GRAVITY_Y"`
	Debug    bool    `env:"DEBUG"`
}

// Load loads the engine configuration.
// Search order: customPath -> ~/.platformer/configs/platformer.yaml ->
// ./configs/platformer.yaml -> embedded default. Environment overrides
// (PLATFORMER_WIDTH, PLATFORMER_GRAVITY_Y, ...) are applied last and the
// result is validated.
func Load(customPath string) (GameConfig, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile resolves the YAML source without applying overrides.
func loadFile(customPath string) (GameConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := UserConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultPlatformerYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of DefaultConfig, so a file only needs to name
// the settings it changes. A present assets list replaces the default one.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any PLATFORMER_* variables that are set.
func ApplyEnv(cfg *GameConfig) error {
	o := envOverrides{
		Type:     string(cfg.Type),
		Width:    cfg.Width,
		Height:   cfg.Height,
		FPS:      cfg.FPS,
		Physics:  cfg.Physics.Default,
		GravityX: cfg.Physics.Arcade.Gravity.X,
		GravityY: cfg.Physics.Arcade.Gravity.Y,
		Debug:    cfg.Physics.Arcade.Debug,
	}
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}

	cfg.Type = RendererType(o.Type)
	cfg.Width = o.Width
	cfg.Height = o.Height
	cfg.FPS = o.FPS
	cfg.Physics.Default = o.Physics
	cfg.Physics.Arcade.Gravity = Gravity{X: o.GravityX, Y: o.GravityY}
	cfg.Physics.Arcade.Debug = o.Debug
	return nil
}

// Marshal encodes the configuration back to YAML.
func Marshal(cfg GameConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// UserConfigPath returns the per-user config file, or empty if home is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".platformer", "configs", fileName)
}
