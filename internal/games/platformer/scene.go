package platformer

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/engine"
)

// SceneKey names the single scene of the scaffold.
const SceneKey = "main"

// Scene layout, in world pixels.
const (
	SkyX        = 400
	SkyY        = 300
	GroundX     = 400
	GroundY     = 568
	GroundScale = 2
)

// NewScene returns the scaffold scene: preload the manifest, place the sky
// and one scaled static platform, then do nothing each frame.
func NewScene(assets []config.AssetConfig) engine.SceneConfig {
	return engine.SceneConfig{
		Key:     SceneKey,
		Preload: preload(assets),
		Create:  create,
		Update:  update,
	}
}

func preload(assets []config.AssetConfig) func(*engine.Scene) error {
	return func(s *engine.Scene) error {
		for _, a := range assets {
			var err error
			switch a.Type {
			case config.AssetImage:
				err = s.Load.Image(a.Key, a.URI)
			case config.AssetSpritesheet:
				err = s.Load.Spritesheet(a.Key, a.URI, engine.FrameConfig{
					FrameWidth:  a.FrameWidth,
					FrameHeight: a.FrameHeight,
				})
			default:
				err = fmt.Errorf("unknown asset type %q", a.Type)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func create(s *engine.Scene) error {
	if _, err := s.Add.Image(SkyX, SkyY, "sky"); err != nil {
		return err
	}

	if s.Physics == nil {
		return engine.ErrPhysicsDisabled
	}
	platforms := s.Physics.Add.StaticGroup()
	ground, err := platforms.Create(GroundX, GroundY, "ground")
	if err != nil {
		return err
	}
	ground.SetScale(GroundScale).RefreshBody()
	return nil
}

func update(_ *engine.Scene, _, _ time.Duration) {}
