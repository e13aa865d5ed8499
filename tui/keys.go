package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the counter panel with built-in help
// text.
type KeyMap struct {
	// Global
	Quit key.Binding
	Help key.Binding

	// Clock
	Run      key.Binding
	Pulse    key.Binding
	Reset    key.Binding
	FreqUp   key.Binding
	FreqDown key.Binding

	// Switches
	ToggleA key.Binding
	ToggleB key.Binding
	ToggleC key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "help"),
		),

		Run: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s/space", "start/stop clock"),
		),
		Pulse: key.NewBinding(
			key.WithKeys("p", "enter"),
			key.WithHelp("p/enter", "single pulse"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		FreqUp: key.NewBinding(
			key.WithKeys("+", "=", "right"),
			key.WithHelp("+/→", "faster"),
		),
		FreqDown: key.NewBinding(
			key.WithKeys("-", "left"),
			key.WithHelp("-/←", "slower"),
		),

		ToggleA: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle A"),
		),
		ToggleB: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle B"),
		),
		ToggleC: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle C"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Pulse, k.Reset, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help panel, one column per
// group.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Pulse, k.Reset, k.FreqUp, k.FreqDown},
		{k.ToggleA, k.ToggleB, k.ToggleC},
		{k.Help, k.Quit},
	}
}
