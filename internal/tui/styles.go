package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles is the palette for one background brightness.
type Styles struct {
	Window   lipgloss.Style
	Chrome   lipgloss.Style
	Dots     [3]lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Command  lipgloss.Style
	Output   lipgloss.Style
	Cursor   lipgloss.Style
	Hint     lipgloss.Style
	Help     lipgloss.Style
	Pane     lipgloss.Style
}

// DetectDark reports whether the terminal has a dark background.
func DetectDark() bool {
	return termenv.HasDarkBackground()
}

// NewStyles returns the dark or light palette.
func NewStyles(dark bool) Styles {
	fg, dim, accent, border := lipgloss.Color("252"), lipgloss.Color("245"), lipgloss.Color("46"), lipgloss.Color("238")
	if !dark {
		fg, dim, accent, border = lipgloss.Color("235"), lipgloss.Color("242"), lipgloss.Color("28"), lipgloss.Color("250")
	}

	return Styles{
		Window: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Chrome: lipgloss.NewStyle().Foreground(dim),
		Dots: [3]lipgloss.Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		},
		Active: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(accent).
			Padding(0, 1),
		Inactive: lipgloss.NewStyle().
			Foreground(dim).
			Border(lipgloss.HiddenBorder(), false, false, true, false).
			Padding(0, 1),
		Command: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Output:  lipgloss.NewStyle().Foreground(fg),
		Cursor:  lipgloss.NewStyle().Foreground(accent).Blink(true),
		Hint:    lipgloss.NewStyle().Foreground(dim).Italic(true),
		Help:    lipgloss.NewStyle().Foreground(dim).MarginTop(1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
