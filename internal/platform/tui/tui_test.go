package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// stubGame is a registry.Game that loads instantly and counts steps.
type stubGame struct {
	loadErr  error
	progress int
	steps    int
	debug    bool
	closed   bool
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Load(ctx context.Context, _ core.RuntimeConfig, opts registry.LoadOptions) error {
	for i := 1; i <= g.progress; i++ {
		if opts.Progress != nil {
			opts.Progress(i, g.progress, "asset")
		}
	}
	return g.loadErr
}

func (g *stubGame) Reset(core.RuntimeConfig) error { return nil }

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionDebug) {
		g.debug = !g.debug
	}
	g.steps++
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Frame: uint64(g.steps), Ready: true, Debug: g.debug, Stopped: g.closed}
}

func (g *stubGame) Close() { g.closed = true }

// drain runs cmd and its follow-ups concurrently, feeding messages back
// into the model until the game view is active or the load failed.
func drain(t *testing.T, m SessionModel, cmd tea.Cmd) SessionModel {
	t.Helper()
	msgs := make(chan tea.Msg, 16)
	run := func(c tea.Cmd) {
		if c != nil {
			go func() { msgs <- c() }()
		}
	}
	run(cmd)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, c := range batch {
					run(c)
				}
				continue
			}
			if msg == nil {
				continue
			}
			if _, ok := msg.(TickMsg); ok {
				continue
			}
			next, nextCmd := m.Update(msg)
			m = next.(SessionModel)
			if m.Playing() || m.Err() != nil {
				return m
			}
			run(nextCmd)
		case <-timeout:
			t.Fatal("session did not finish loading")
			return m
		}
	}
}

func TestSessionLoadsThenPlays(t *testing.T) {
	game := &stubGame{progress: 3}
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}
	m := NewSessionModel(context.Background(), game, cfg, registry.LoadOptions{})

	m = drain(t, m, m.load())
	if !m.Playing() {
		t.Fatal("session should be playing after load")
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v", m.Err())
	}

	next, _ := m.Update(keyMsg("d"))
	m = next.(SessionModel)
	next, _ = m.Update(TickMsg{})
	m = next.(SessionModel)
	if game.steps != 1 || !game.debug {
		t.Errorf("after one tick: steps %d, debug %v", game.steps, game.debug)
	}

	view := m.View()
	if !strings.Contains(view, "stub") {
		t.Errorf("view should contain the canvas, got %q", view)
	}
	if !strings.Contains(view, "[debug]") {
		t.Error("view should flag debug mode")
	}

	next, cmd := m.Update(keyMsg("q"))
	m = next.(SessionModel)
	if cmd == nil || !game.closed {
		t.Error("q should close the game and quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

// load exposes the loading command for tests, skipping the spinner tick.
func (m SessionModel) load() tea.Cmd {
	return tea.Batch(m.loading.load(), waitForEvent(m.loading.events))
}

func TestSessionLoadFailure(t *testing.T) {
	loadErr := errors.New("fetch sky: 404")
	game := &stubGame{loadErr: loadErr}
	m := NewSessionModel(context.Background(), game, core.RuntimeConfig{ScreenW: 60, ScreenH: 20}, registry.LoadOptions{})

	m = drain(t, m, m.load())
	if m.Playing() {
		t.Fatal("session should not play after a failed load")
	}
	if !errors.Is(m.Err(), loadErr) {
		t.Errorf("Err() = %v, expected %v", m.Err(), loadErr)
	}
	if !strings.Contains(m.View(), "Load failed") {
		t.Error("view should report the failure")
	}

	_, cmd := m.Update(keyMsg("x"))
	if cmd == nil || !game.closed {
		t.Error("any key should exit after a failed load")
	}
}

// slowGame blocks in Load until its context is cancelled.
type slowGame struct {
	stubGame
	started chan struct{}
	closed  chan struct{}
	loading atomic.Bool
}

func (g *slowGame) Load(ctx context.Context, _ core.RuntimeConfig, _ registry.LoadOptions) error {
	g.loading.Store(true)
	close(g.started)
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	g.loading.Store(false)
	return ctx.Err()
}

func (g *slowGame) Close() {
	if g.loading.Load() {
		panic("Close called while Load is running")
	}
	close(g.closed)
}

func TestSessionQuitDuringLoadWaitsForLoad(t *testing.T) {
	game := &slowGame{started: make(chan struct{}), closed: make(chan struct{})}
	m := NewSessionModel(context.Background(), game, core.RuntimeConfig{ScreenW: 40, ScreenH: 12}, registry.LoadOptions{})

	load := m.loading.load()
	go load()
	go func() {
		for range m.loading.events {
		}
	}()

	select {
	case <-game.started:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not start")
	}

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit while loading")
	}
	// Run calls Close again on the final model.
	next.(SessionModel).loading.Close()

	select {
	case <-game.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("game was not closed after load stopped")
	}
}

func TestLoadingModelProgress(t *testing.T) {
	m := NewLoadingModel(context.Background(), &stubGame{}, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, registry.LoadOptions{})

	if m.Percent() != 0 {
		t.Errorf("initial Percent() = %f", m.Percent())
	}
	if !strings.Contains(m.View(), "resolving assets") {
		t.Error("view should show the resolving status before progress")
	}

	m, _ = m.Update(ProgressMsg{Loaded: 2, Total: 4, Key: "ground"})
	if m.Percent() != 0.5 {
		t.Errorf("Percent() = %f, expected 0.5", m.Percent())
	}
	if !strings.Contains(m.View(), "2/4") {
		t.Error("view should show loaded/total")
	}
}

func TestGameModelResizeKeepsHelpRow(t *testing.T) {
	gm := NewGameModel(&stubGame{}, core.RuntimeConfig{ScreenW: 20, ScreenH: 10})
	if gm.screen.Height() != 9 {
		t.Errorf("canvas height = %d, expected 9", gm.screen.Height())
	}

	next, _ := gm.Update(tea.WindowSizeMsg{Width: 50, Height: 30})
	gm = next.(GameModel)
	if gm.screen.Width() != 50 || gm.screen.Height() != 29 {
		t.Errorf("canvas = %dx%d, expected 50x29", gm.screen.Width(), gm.screen.Height())
	}
}

func TestGameModelQuitsWhenStopped(t *testing.T) {
	game := &stubGame{}
	gm := NewGameModel(game, core.RuntimeConfig{ScreenW: 20, ScreenH: 10})
	game.closed = true

	next, cmd := gm.Update(TickMsg{})
	if !next.(GameModel).IsQuitting() || cmd == nil {
		t.Error("a stopped game should end the program")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.SetCell(0, 0, 'a', core.ColorRed)
	s.SetCell(1, 0, 'b', core.ColorRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") {
		t.Errorf("same-colored cells should share one run, got %q", lines[0])
	}
}
