package tui

import "github.com/charmbracelet/bubbles/key"

// -----------------------------------------------------------------------------
// Key Bindings
// -----------------------------------------------------------------------------

// KeyMap defines the keyboard shortcuts of the terminal viewer.
type KeyMap struct {
	// Categories
	Prev key.Binding
	Next key.Binding

	// Profiles pane
	Profiles key.Binding
	ShowAll  key.Binding
	HideAll  key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings. Digits are handled
// separately: they pick a category, or toggle a profile while the
// profiles pane is open.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Profiles: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profiles"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "show all"),
		),
		HideAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp(profiles bool) []key.Binding {
	if profiles {
		return []key.Binding{k.ShowAll, k.HideAll, k.Profiles, k.Quit}
	}
	return []key.Binding{k.Prev, k.Next, k.Profiles, k.Quit}
}
