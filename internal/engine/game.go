// Package engine is a small 2D engine for the terminal: an asset loader,
// a texture manager, a display list, arcade physics and a renderer, driven
// through a preload/create/update scene lifecycle.
//
// The engine is single-threaded. Boot, Restart, Step, Render and Destroy
// must be called from one goroutine; only asset fetching runs in parallel.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
)

// State is the lifecycle stage of a Game.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRunning
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Option configures a Game.
type Option func(*Game)

// WithFetcher sets how asset URIs are retrieved.
func WithFetcher(f Fetcher) Option {
	return func(g *Game) {
		g.fetcher = f
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithProgress registers a callback invoked as assets finish loading.
func WithProgress(fn ProgressFunc) Option {
	return func(g *Game) {
		g.progress = fn
	}
}

// WithMaxParallel bounds concurrent asset fetches.
func WithMaxParallel(n int) Option {
	return func(g *Game) {
		g.maxParallel = n
	}
}

// Game owns the engine subsystems and runs one scene through its lifecycle.
type Game struct {
	config   config.GameConfig
	sceneCfg SceneConfig

	fetcher     Fetcher
	logger      *log.Logger
	progress    ProgressFunc
	maxParallel int

	textures *TextureManager
	renderer *Renderer
	scene    *Scene
	state    State
	elapsed  time.Duration
	frame    uint64
	debug    bool
}

// NewGame creates an idle game for the given scene.
func NewGame(cfg config.GameConfig, scene SceneConfig, opts ...Option) *Game {
	g := &Game{
		config:      cfg,
		sceneCfg:    scene,
		maxParallel: DefaultMaxParallel,
		textures:    NewTextureManager(),
		renderer:    NewRenderer(cfg),
		debug:       cfg.Physics.Arcade.Debug,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = orDiscard(g.logger)
	if g.fetcher == nil {
		g.fetcher = NewFetcher(nil, g.logger)
	}
	return g
}

// Boot runs preload, waits for the loader, then runs create. On failure the
// game returns to idle and Boot may be retried.
func (g *Game) Boot(ctx context.Context) error {
	switch g.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateIdle:
	default:
		return ErrAlreadyBooted
	}

	if err := g.start(ctx); err != nil {
		g.state = StateIdle
		return err
	}
	return nil
}

// Restart tears down the scene graph and runs the lifecycle again. Textures
// are kept, so nothing is fetched twice. A failed restart leaves the game
// idle; Boot retries it.
func (g *Game) Restart(ctx context.Context) error {
	switch g.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateRunning:
	default:
		return ErrNotBooted
	}
	g.logger.Info("restarting scene", "scene", g.sceneCfg.Key)

	if err := g.start(ctx); err != nil {
		g.state = StateIdle
		return err
	}
	return nil
}

func (g *Game) start(ctx context.Context) error {
	g.state = StateLoading
	g.scene = g.newScene()
	g.elapsed = 0
	g.frame = 0

	if g.sceneCfg.Preload != nil {
		if err := g.sceneCfg.Preload(g.scene); err != nil {
			return fmt.Errorf("engine: preload %q: %w", g.sceneCfg.Key, err)
		}
	}
	if err := g.scene.Load.Start(ctx); err != nil {
		return err
	}
	if g.sceneCfg.Create != nil {
		if err := g.sceneCfg.Create(g.scene); err != nil {
			return fmt.Errorf("engine: create %q: %w", g.sceneCfg.Key, err)
		}
	}

	g.state = StateRunning
	g.logger.Info("scene running", "scene", g.sceneCfg.Key, "objects", g.scene.display.Len())
	return nil
}

func (g *Game) newScene() *Scene {
	loader := newLoader(g.textures, g.fetcher, g.logger)
	loader.maxParallel = g.maxParallel
	loader.onProgress = g.progress

	display := &DisplayList{}
	objects := &GameObjectFactory{textures: g.textures, display: display}

	s := &Scene{
		Key:      g.sceneCfg.Key,
		Load:     loader,
		Add:      objects,
		Textures: g.textures,
		Logger:   g.logger,
		display:  display,
	}
	if g.config.ArcadeEnabled() {
		world := NewWorld(g.config.Physics.Arcade, g.config.Width, g.config.Height)
		world.Debug = g.debug
		s.Physics = &ArcadePhysics{
			World: world,
			Add:   &PhysicsFactory{world: world, objects: objects},
		}
	}
	return s
}

// Step advances the world by delta and runs the update callback once.
func (g *Game) Step(delta time.Duration) error {
	switch g.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateRunning:
	default:
		return ErrNotBooted
	}

	if w := g.scene.World(); w != nil {
		w.Step(delta)
	}
	g.elapsed += delta
	g.frame++

	if g.sceneCfg.Update != nil {
		g.sceneCfg.Update(g.scene, g.elapsed, delta)
	}
	return nil
}

// Render draws the current scene into dst. Nothing is drawn before Boot.
func (g *Game) Render(dst *core.Screen) {
	if g.state != StateRunning {
		return
	}
	var bodies []*Body
	if w := g.scene.World(); w != nil && g.debug {
		bodies = append(w.StaticBodies(), w.Bodies()...)
	}
	g.renderer.Render(dst, g.scene.Children(), bodies)
}

// Destroy drops the scene and every texture. The game cannot be reused.
func (g *Game) Destroy() {
	if g.state == StateDestroyed {
		return
	}
	g.scene = nil
	g.textures.Clear()
	g.renderer.Reset()
	g.state = StateDestroyed
	g.logger.Info("game destroyed")
}

// SetDebug toggles physics body outlines.
func (g *Game) SetDebug(on bool) {
	g.debug = on
	if w := g.world(); w != nil {
		w.Debug = on
	}
}

// Debug reports whether physics body outlines are drawn.
func (g *Game) Debug() bool {
	return g.debug
}

func (g *Game) world() *World {
	if g.scene == nil {
		return nil
	}
	return g.scene.World()
}

// Config returns the configuration the game was built with.
func (g *Game) Config() config.GameConfig {
	return g.config
}

// Scene returns the live scene, or nil before Boot and after Destroy.
func (g *Game) Scene() *Scene {
	return g.scene
}

// Textures returns the texture manager.
func (g *Game) Textures() *TextureManager {
	return g.textures
}

// State returns the lifecycle stage.
func (g *Game) State() State {
	return g.state
}

// Frame returns the number of steps since the scene was created.
func (g *Game) Frame() uint64 {
	return g.frame
}

// Elapsed returns the simulated time since the scene was created.
func (g *Game) Elapsed() time.Duration {
	return g.elapsed
}
