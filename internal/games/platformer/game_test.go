package platformer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"
	"testing"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/engine"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// assetSizes are the dimensions of the tutorial images.
var assetSizes = map[string][2]int{
	"https://labs.phaser.io/assets/skies/space3.png":     {800, 600},
	"https://labs.phaser.io/assets/sprites/platform.png": {400, 32},
	"https://labs.phaser.io/assets/demoscene/star.png":   {24, 22},
	"https://labs.phaser.io/assets/sprites/dude.png":     {288, 48},
}

// fakeAssets serves solid PNGs of the right size for the default manifest.
type fakeAssets struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeAssets) Fetch(_ context.Context, uri string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	size, ok := assetSizes[uri]
	if !ok {
		return nil, fmt.Errorf("unexpected uri %s", uri)
	}
	img := image.NewRGBA(image.Rect(0, 0, size[0], size[1]))
	for y := 0; y < size[1]; y++ {
		for x := 0; x < size[0]; x++ {
			img.Set(x, y, color.RGBA{40, 40, 120, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func loadedGame(t *testing.T) (*Game, *fakeAssets) {
	t.Helper()
	f := &fakeAssets{}
	g := New()
	err := g.LoadConfig(context.Background(), config.DefaultConfig(), core.DefaultConfig(), registry.LoadOptions{Fetcher: f})
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	return g, f
}

func TestPreloadRegistersFourAssets(t *testing.T) {
	g, _ := loadedGame(t)
	textures := g.Engine().Textures()

	keys := textures.Keys()
	want := []string{"dude", "ground", "sky", "star"}
	sort.Strings(want)
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, expected %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %q, expected %q", i, keys[i], want[i])
		}
	}

	dude, _ := textures.Get("dude")
	if !dude.IsSpritesheet() || dude.FrameWidth != 32 || dude.FrameHeight != 48 {
		t.Errorf("dude = %dx%d frames, expected 32x48 spritesheet", dude.FrameWidth, dude.FrameHeight)
	}
	for _, key := range []string{"sky", "ground", "star"} {
		tex, _ := textures.Get(key)
		if tex.IsSpritesheet() {
			t.Errorf("%s should be a plain image", key)
		}
	}
}

func TestCreateBuildsSkyAndPlatform(t *testing.T) {
	g, _ := loadedGame(t)
	scene := g.Engine().Scene()

	children := scene.Children()
	if len(children) != 2 {
		t.Fatalf("display list has %d nodes, expected 2", len(children))
	}

	sky := children[0]
	if sky.Texture.Key != "sky" || sky.X != 400 || sky.Y != 300 {
		t.Errorf("sky = %s at (%v,%v), expected sky at (400,300)", sky.Texture.Key, sky.X, sky.Y)
	}

	bodies := scene.World().StaticBodies()
	if len(bodies) != 1 {
		t.Fatalf("world has %d static bodies, expected 1", len(bodies))
	}
	if len(scene.World().Bodies()) != 0 {
		t.Error("scaffold should create no dynamic bodies")
	}

	ground := children[1]
	if ground.Texture.Key != "ground" || ground.X != 400 || ground.Y != 568 {
		t.Errorf("ground = %s at (%v,%v), expected ground at (400,568)", ground.Texture.Key, ground.X, ground.Y)
	}
	if ground.ScaleX != 2 || ground.ScaleY != 2 {
		t.Errorf("ground scale = (%v,%v), expected 2", ground.ScaleX, ground.ScaleY)
	}

	want := engine.Bounds{X: 0, Y: 536, W: 800, H: 64}
	if got := bodies[0].Bounds(); got != want {
		t.Errorf("platform body = %+v, expected %+v", got, want)
	}
	if c := bodies[0].Center(); c.X != 400 || c.Y != 568 {
		t.Errorf("platform body center = %+v, expected (400,568)", c)
	}
}

func TestConfigBlock(t *testing.T) {
	g, _ := loadedGame(t)
	cfg := g.Engine().Config()

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("canvas = %dx%d, expected 800x600", cfg.Width, cfg.Height)
	}
	w := g.Engine().Scene().World()
	if w.Gravity != (core.Vec2{X: 0, Y: 300}) {
		t.Errorf("gravity = %+v, expected (0,300)", w.Gravity)
	}
	if w.Debug || g.State().Debug {
		t.Error("debug should be disabled")
	}
}

func TestUpdateIsNoOp(t *testing.T) {
	g, _ := loadedGame(t)
	scene := g.Engine().Scene()

	before := make([]engine.Image, 0)
	for _, c := range scene.Children() {
		before = append(before, *c)
	}
	body := scene.World().StaticBodies()[0].Bounds()

	for i := 0; i < 500; i++ {
		g.Step(core.NewInputFrame())
	}

	after := scene.Children()
	if len(after) != len(before) {
		t.Fatalf("display list changed size: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if *after[i] != before[i] {
			t.Errorf("node %d changed: %+v -> %+v", i, before[i], *after[i])
		}
	}
	if scene.World().StaticBodies()[0].Bounds() != body {
		t.Error("platform body moved")
	}
	if g.State().Frame != 500 {
		t.Errorf("frame = %d, expected 500", g.State().Frame)
	}
}

func TestStepActions(t *testing.T) {
	g, f := loadedGame(t)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("pause action should pause")
	}
	frame := g.State().Frame
	g.Step(core.NewInputFrame())
	if g.State().Frame != frame {
		t.Error("paused game should not advance frames")
	}
	g.Step(pause)

	debug := core.NewInputFrame()
	debug.Set(core.ActionDebug)
	g.Step(debug)
	if !g.State().Debug {
		t.Error("debug action should enable outlines")
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	if g.State().Frame != 0 || !g.State().Ready {
		t.Errorf("restart state = %+v, expected ready at frame 0", g.State())
	}
	if f.calls != 4 {
		t.Errorf("assets fetched %d times, restart should reuse textures", f.calls)
	}
}

func TestRenderPaused(t *testing.T) {
	g, _ := loadedGame(t)
	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)

	dst := core.NewScreen(80, 24)
	g.Render(dst)
	found := false
	for y := 0; y < dst.Height(); y++ {
		if bytes.Contains([]byte(dst.Row(y)), []byte("PAUSED")) {
			found = true
		}
	}
	if !found {
		t.Error("paused render should show PAUSED")
	}
}

func TestLoadFailure(t *testing.T) {
	g := New()
	failing := engine.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("offline")
	})

	err := g.LoadConfig(context.Background(), config.DefaultConfig(), core.DefaultConfig(), registry.LoadOptions{Fetcher: failing})
	var loadErr *engine.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("LoadConfig() = %v, expected *engine.LoadError", err)
	}
	if g.State().Ready {
		t.Error("game should not be ready after a failed load")
	}

	// Stepping an unloaded game is harmless.
	g.Step(core.NewInputFrame())
	g.Render(core.NewScreen(10, 5))
}

func TestCreateWithoutPhysics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Default = "none"

	err := New().LoadConfig(context.Background(), cfg, core.DefaultConfig(), registry.LoadOptions{Fetcher: &fakeAssets{}})
	if !errors.Is(err, engine.ErrPhysicsDisabled) {
		t.Errorf("LoadConfig() = %v, expected ErrPhysicsDisabled", err)
	}
}

func TestCloseStopsGame(t *testing.T) {
	g, _ := loadedGame(t)
	g.Close()

	if !g.State().Stopped || g.State().Ready {
		t.Errorf("state after Close = %+v", g.State())
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists("platformer") {
		t.Fatal("platformer should register itself")
	}
	g, err := registry.Create("platformer")
	if err != nil {
		t.Fatal(err)
	}
	if g.Title() != "Platformer Scaffold" {
		t.Errorf("Title() = %q", g.Title())
	}
}

func TestRestartRecoversAfterFailedRebuild(t *testing.T) {
	cfg := config.DefaultConfig()
	scene := NewScene(cfg.Assets)
	build := scene.Create
	creates := 0
	scene.Create = func(s *engine.Scene) error {
		creates++
		if creates == 2 {
			return errors.New("rebuild failed")
		}
		return build(s)
	}

	f := &fakeAssets{}
	g := &Game{
		engine:  engine.NewGame(cfg, scene, engine.WithFetcher(f)),
		cfg:     cfg,
		runtime: core.DefaultConfig(),
	}
	if err := g.engine.Boot(context.Background()); err != nil {
		t.Fatalf("Boot() failed: %v", err)
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)

	if state := g.Step(restart).State; state.Ready {
		t.Fatal("failed rebuild should leave the game not ready")
	}
	if state := g.Step(restart).State; !state.Ready {
		t.Fatal("a second restart should boot the scene again")
	}
	if len(g.engine.Scene().Children()) != 2 {
		t.Errorf("scene has %d nodes, expected sky and platform", len(g.engine.Scene().Children()))
	}
	if f.calls != 4 {
		t.Errorf("assets fetched %d times, expected 4", f.calls)
	}
}
