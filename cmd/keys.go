package cmd

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the application. It satisfies key.Map so
// it can be passed directly to bubbles/help.Model for automatic rendering.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Focus    key.Binding
	Refresh  key.Binding
	NextFuel key.Binding
	PrevFuel key.Binding
	PickFuel key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Close    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings shown in the mini help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.PickFuel, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view (columns).
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Close},
		{k.PickFuel, k.PrevFuel, k.NextFuel, k.Refresh},
		{k.ZoomIn, k.ZoomOut, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Focus: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show on map"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	NextFuel: key.NewBinding(
		key.WithKeys("]", "tab"),
		key.WithHelp("]", "next fuel"),
	),
	PrevFuel: key.NewBinding(
		key.WithKeys("[", "shift+tab"),
		key.WithHelp("[", "prev fuel"),
	),
	PickFuel: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t/1-7", "fuel type"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close popup"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
