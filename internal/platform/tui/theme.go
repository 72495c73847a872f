package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the styles used outside the game canvas.
type Theme struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Error    lipgloss.Style
	Spinner  lipgloss.Style
	Panel    lipgloss.Style
	BarStart string
	BarEnd   string
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3),
		BarStart: "#5A56E0",
		BarEnd:   "#EE6FF8",
	}
}

// newProgressBar builds a progress bar using the theme's gradient.
func (t Theme) newProgressBar(width int) progress.Model {
	return progress.New(
		progress.WithGradient(t.BarStart, t.BarEnd),
		progress.WithWidth(width),
	)
}
