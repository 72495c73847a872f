package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// SessionModel manages one play session: loading screen, then the game.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	game     registry.Game
	config   core.RuntimeConfig
	loading  LoadingModel
	gameView *GameModel
	quitting bool
}

// NewSessionModel creates a session that loads game with opts.
func NewSessionModel(ctx context.Context, game registry.Game, cfg core.RuntimeConfig, opts registry.LoadOptions) SessionModel {
	return SessionModel{
		game:    game,
		config:  cfg,
		loading: NewLoadingModel(ctx, game, cfg, opts),
	}
}

// Init starts loading.
func (m SessionModel) Init() tea.Cmd {
	return m.loading.Init()
}

// Update routes messages to the loading screen or the game.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.gameView != nil {
		return m.updateGame(msg)
	}
	return m.updateLoading(msg)
}

// updateLoading handles updates while assets load.
func (m SessionModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if m.loading.Err() != nil || km.String() == "ctrl+c" || km.String() == "q" {
			return m.quit()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.loading, cmd = m.loading.Update(msg)

	if m.loading.Done() && m.loading.Err() == nil {
		gm := NewGameModel(m.game, m.config)
		m.gameView = &gm
		return m, gm.Init()
	}
	return m, cmd
}

// updateGame handles updates once the game is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameView.Update(msg)
	if gm, ok := newModel.(GameModel); ok {
		m.gameView = &gm
	}

	if m.gameView.IsQuitting() {
		return m.quit()
	}
	return m, cmd
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.loading.Close()
	m.quitting = true
	return m, tea.Quit
}

// Err returns the load error that ended the session, if any.
func (m SessionModel) Err() error {
	return m.loading.Err()
}

// Playing reports whether the game has finished loading.
func (m SessionModel) Playing() bool {
	return m.gameView != nil
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.gameView != nil {
		return m.gameView.View()
	}
	return m.loading.View()
}

// Run starts a local Bubble Tea program for game and blocks until it exits.
func Run(ctx context.Context, game registry.Game, cfg core.RuntimeConfig, opts registry.LoadOptions) error {
	model := NewSessionModel(ctx, game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	sm, ok := final.(SessionModel)
	if !ok {
		sm = model
	}
	sm.loading.Close()

	if err != nil {
		return err
	}
	return sm.Err()
}
