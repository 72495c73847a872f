// Package platformer is the tutorial scaffold: a starfield sky, one static
// platform and an empty per-frame hook, built on the in-repo engine.
package platformer

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/engine"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// Game adapts the engine to the platform's registry.Game interface.
type Game struct {
	engine  *engine.Game
	cfg     config.GameConfig
	runtime core.RuntimeConfig
	paused  bool
}

// New creates an unloaded scaffold game.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "platformer"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Platformer Scaffold"
}

// Load resolves the config, fetches the manifest and builds the scene.
func (g *Game) Load(ctx context.Context, rc core.RuntimeConfig, opts registry.LoadOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	return g.LoadConfig(ctx, cfg, rc, opts)
}

// LoadConfig is Load with an already resolved configuration.
func (g *Game) LoadConfig(ctx context.Context, cfg config.GameConfig, rc core.RuntimeConfig, opts registry.LoadOptions) error {
	if rc.TickRate <= 0 {
		rc.TickRate = cfg.FPS
	}
	g.cfg = cfg
	g.runtime = rc
	g.paused = false

	engineOpts := []engine.Option{
		engine.WithLogger(opts.Logger),
		engine.WithProgress(opts.Progress),
	}
	if opts.Fetcher != nil {
		engineOpts = append(engineOpts, engine.WithFetcher(opts.Fetcher))
	}

	eg := engine.NewGame(cfg, NewScene(cfg.Assets), engineOpts...)
	if err := eg.Boot(ctx); err != nil {
		return err
	}
	g.engine = eg
	return nil
}

// Reset rebuilds the scene from the loaded textures. After a failed
// rebuild the engine is idle and Reset boots it again.
func (g *Game) Reset(rc core.RuntimeConfig) error {
	if rc.TickRate > 0 {
		g.runtime.TickRate = rc.TickRate
	}
	g.runtime.ScreenW, g.runtime.ScreenH = rc.ScreenW, rc.ScreenH
	g.paused = false
	if g.engine == nil {
		return engine.ErrNotBooted
	}
	if g.engine.State() == engine.StateIdle {
		return g.engine.Boot(context.Background())
	}
	return g.engine.Restart(context.Background())
}

// Step advances the engine by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		//nolint:errcheck // A failed restart leaves the engine idle; State reports it
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}
	if g.engine.State() != engine.StateRunning {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionDebug) {
		g.engine.SetDebug(!g.engine.Debug())
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if !g.paused {
		//nolint:errcheck // Running state checked above
		g.engine.Step(g.tickDelta())
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) tickDelta() time.Duration {
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// Render draws the scene and, when paused, a message box over it.
func (g *Game) Render(dst *core.Screen) {
	if g.engine == nil {
		dst.Clear()
		return
	}
	g.engine.Render(dst)

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorDefault)

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	return core.GameState{
		Frame:   g.engine.Frame(),
		Ready:   g.engine.State() == engine.StateRunning,
		Paused:  g.paused,
		Debug:   g.engine.Debug(),
		Stopped: g.engine.State() == engine.StateDestroyed,
	}
}

// Engine exposes the underlying engine game, or nil before Load.
func (g *Game) Engine() *engine.Game {
	return g.engine
}

// Close tears the engine down.
func (g *Game) Close() {
	if g.engine != nil {
		g.engine.Destroy()
	}
}

func init() {
	registry.Register("platformer", func() registry.Game {
		return New()
	})
}
