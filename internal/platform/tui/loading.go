package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// ProgressMsg reports that one asset finished loading.
type ProgressMsg struct {
	Loaded int
	Total  int
	Key    string
}

// LoadedMsg is sent once Game.Load returns.
type LoadedMsg struct {
	Err error
}

// LoadingModel shows a spinner and a progress bar while a game loads.
// Loading runs in a Bubble Tea command; progress arrives over a channel.
type LoadingModel struct {
	game    registry.Game
	opts    registry.LoadOptions
	config  core.RuntimeConfig
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan tea.Msg
	stopped chan struct{} // closed once Game.Load has returned
	closing *sync.Once
	spinner spinner.Model
	bar     progress.Model
	theme   Theme

	loaded int
	total  int
	last   string
	done   bool
	err    error
}

// NewLoadingModel prepares a loading screen for game. Loading starts in Init.
func NewLoadingModel(ctx context.Context, game registry.Game, cfg core.RuntimeConfig, opts registry.LoadOptions) LoadingModel {
	ctx, cancel := context.WithCancel(ctx)
	theme := DefaultTheme()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Spinner

	return LoadingModel{
		game:    game,
		opts:    opts,
		config:  cfg,
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan tea.Msg),
		stopped: make(chan struct{}),
		closing: &sync.Once{},
		spinner: sp,
		bar:     theme.newProgressBar(barWidth(cfg.ScreenW)),
		theme:   theme,
	}
}

func barWidth(screenW int) int {
	return core.Clamp(screenW-20, 10, 60)
}

// Init starts the spinner and the load.
func (m LoadingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), waitForEvent(m.events))
}

// load runs Game.Load and forwards progress to the events channel.
// The channel is closed when loading ends so the listener stops.
func (m LoadingModel) load() tea.Cmd {
	ctx, events, stopped, game, cfg, opts := m.ctx, m.events, m.stopped, m.game, m.config, m.opts
	return func() tea.Msg {
		defer close(events)

		upstream := opts.Progress
		opts.Progress = func(loaded, total int, key string) {
			if upstream != nil {
				upstream(loaded, total, key)
			}
			select {
			case events <- ProgressMsg{Loaded: loaded, Total: total, Key: key}:
			case <-ctx.Done():
			}
		}

		err := ctx.Err()
		if err == nil {
			err = game.Load(ctx, cfg, opts)
		}
		close(stopped)

		select {
		case events <- LoadedMsg{Err: err}:
		case <-ctx.Done():
		}
		return nil
	}
}

// waitForEvent blocks on the next load event.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles messages for the loading screen.
func (m LoadingModel) Update(msg tea.Msg) (LoadingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.loaded, m.total, m.last = msg.Loaded, msg.Total, msg.Key
		return m, waitForEvent(m.events)

	case LoadedMsg:
		m.done = true
		m.err = msg.Err
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Cancel aborts an in-flight load.
func (m LoadingModel) Cancel() {
	m.cancel()
}

// Close cancels any in-flight load and closes the game once Game.Load has
// returned, so Close never runs alongside Load. Calls after the first are
// ignored.
func (m LoadingModel) Close() {
	m.cancel()
	m.closing.Do(func() {
		select {
		case <-m.stopped:
			m.game.Close()
		default:
			go func() {
				<-m.stopped
				m.game.Close()
			}()
		}
	})
}

// Done reports whether the load has finished.
func (m LoadingModel) Done() bool {
	return m.done
}

// Err returns the load error, if any.
func (m LoadingModel) Err() error {
	return m.err
}

// Percent returns the fraction of assets loaded.
func (m LoadingModel) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.loaded) / float64(m.total)
}

// View renders the loading screen centred in the terminal.
func (m LoadingModel) View() string {
	var body string
	switch {
	case m.err != nil:
		body = lipgloss.JoinVertical(lipgloss.Center,
			m.theme.Error.Render("Load failed"),
			"",
			m.theme.Text.Render(m.err.Error()),
			"",
			m.theme.Dim.Render("press any key to exit"),
		)
	default:
		status := "resolving assets"
		if m.total > 0 {
			status = fmt.Sprintf("%d/%d  %s", m.loaded, m.total, m.last)
		}
		body = lipgloss.JoinVertical(lipgloss.Center,
			m.theme.Title.Render(m.spinner.View()+" "+m.game.Title()),
			"",
			m.bar.ViewAs(m.Percent()),
			m.theme.Dim.Render(status),
		)
	}

	panel := m.theme.Panel.Render(body)
	if m.config.ScreenW <= 0 || m.config.ScreenH <= 0 {
		return panel
	}
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, panel)
}
