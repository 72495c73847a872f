package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("canvas = %dx%d, expected 800x600", cfg.Width, cfg.Height)
	}
	if cfg.Type != RendererAuto {
		t.Errorf("Type = %q, expected auto", cfg.Type)
	}
	if !cfg.ArcadeEnabled() {
		t.Error("arcade physics should be the default system")
	}
	if cfg.Physics.Arcade.Gravity != (Gravity{X: 0, Y: 300}) {
		t.Errorf("gravity = %+v, expected {0 300}", cfg.Physics.Arcade.Gravity)
	}
	if cfg.Physics.Arcade.Debug {
		t.Error("debug should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEmbeddedYAMLMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	want := DefaultConfig()

	if cfg.Width != want.Width || cfg.Height != want.Height || cfg.FPS != want.FPS {
		t.Errorf("embedded canvas/fps differ: %+v", cfg)
	}
	if cfg.Physics != want.Physics {
		t.Errorf("embedded physics = %+v, expected %+v", cfg.Physics, want.Physics)
	}
	if len(cfg.Assets) != len(want.Assets) {
		t.Fatalf("embedded assets = %d, expected %d", len(cfg.Assets), len(want.Assets))
	}
	for i := range want.Assets {
		if cfg.Assets[i] != want.Assets[i] {
			t.Errorf("asset %d = %+v, expected %+v", i, cfg.Assets[i], want.Assets[i])
		}
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  arcade:\n    debug: true\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.Physics.Arcade.Debug {
		t.Error("debug should be enabled by the file")
	}
	if cfg.Physics.Arcade.Gravity.Y != 300 {
		t.Errorf("gravity should keep default, got %v", cfg.Physics.Arcade.Gravity.Y)
	}
	if len(cfg.Assets) != 4 {
		t.Errorf("assets should keep default manifest, got %d", len(cfg.Assets))
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "width: 400\nheight: 300\nassets:\n  - key: sky\n    type: image\n    uri: file:///tmp/sky.png\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 300 {
		t.Errorf("canvas = %dx%d, expected 400x300", cfg.Width, cfg.Height)
	}
	if len(cfg.Assets) != 1 || cfg.Assets[0].URI != "file:///tmp/sky.png" {
		t.Errorf("assets = %+v, expected single sky entry", cfg.Assets)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLATFORMER_GRAVITY_Y", "150")
	t.Setenv("PLATFORMER_DEBUG", "true")
	t.Setenv("PLATFORMER_TYPE", "mono")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Physics.Arcade.Gravity.Y != 150 {
		t.Errorf("gravity y = %v, expected 150", cfg.Physics.Arcade.Gravity.Y)
	}
	if !cfg.Physics.Arcade.Debug {
		t.Error("debug should be enabled from environment")
	}
	if cfg.Type != RendererMono {
		t.Errorf("type = %q, expected mono", cfg.Type)
	}
	if cfg.Width != 800 {
		t.Errorf("unset variables should keep file values, width = %d", cfg.Width)
	}
}

func TestLoadEnvBadValue(t *testing.T) {
	t.Setenv("PLATFORMER_WIDTH", "wide")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-numeric width")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GameConfig)
		wantErr string
	}{
		{
			name:    "zero width",
			mutate:  func(c *GameConfig) { c.Width = 0 },
			wantErr: "canvas size",
		},
		{
			name:    "unknown renderer",
			mutate:  func(c *GameConfig) { c.Type = "webgl" },
			wantErr: "renderer type",
		},
		{
			name:    "unknown physics",
			mutate:  func(c *GameConfig) { c.Physics.Default = "matter" },
			wantErr: "physics system",
		},
		{
			name: "duplicate asset key",
			mutate: func(c *GameConfig) {
				c.Assets = append(c.Assets, AssetConfig{Key: "sky", Type: AssetImage, URI: "x.png"})
			},
			wantErr: "duplicate key",
		},
		{
			name: "spritesheet without frames",
			mutate: func(c *GameConfig) {
				c.Assets = []AssetConfig{{Key: "dude", Type: AssetSpritesheet, URI: "dude.png"}}
			},
			wantErr: "frame size",
		},
		{
			name: "unknown asset type",
			mutate: func(c *GameConfig) {
				c.Assets = []AssetConfig{{Key: "song", Type: "audio", URI: "song.ogg"}}
			},
			wantErr: "unknown type",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestMarshalRoundTripsManifest(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), "frame_width: 32") {
		t.Errorf("marshalled config should include spritesheet frame size:\n%s", data)
	}
}
