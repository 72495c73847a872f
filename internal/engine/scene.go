package engine

import (
	"time"

	"github.com/charmbracelet/log"
)

// SceneConfig holds the three lifecycle callbacks of a scene. Any of them
// may be nil.
type SceneConfig struct {
	Key string

	// Preload queues assets on s.Load. Create runs only after every queued
	// asset is fetched and decoded.
	Preload func(s *Scene) error

	// Create builds the scene graph once per boot or restart.
	Create func(s *Scene) error

	// Update runs once per frame after the physics world steps. time is the
	// total elapsed time since Create.
	Update func(s *Scene, time, delta time.Duration)
}

// Scene is a live screen: its loader, display list and physics world.
type Scene struct {
	Key      string
	Load     *Loader
	Add      *GameObjectFactory
	Physics  *ArcadePhysics // nil when the arcade system is disabled
	Textures *TextureManager
	Logger   *log.Logger

	display *DisplayList
}

// Children returns the display list in draw order.
func (s *Scene) Children() []*Image {
	return s.display.Items()
}

// World returns the arcade world, or nil without arcade physics.
func (s *Scene) World() *World {
	if s.Physics == nil {
		return nil
	}
	return s.Physics.World
}
