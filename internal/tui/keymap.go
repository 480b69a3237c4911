package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Actions
	Submit  key.Binding
	Sample1 key.Binding
	Sample2 key.Binding
	Sample3 key.Binding

	// Application
	Help        key.Binding
	Quit        key.Binding
	ClearScreen key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s", "alt+enter"),
			key.WithHelp("Ctrl+S", "detect"),
		),
		Sample1: key.NewBinding(
			key.WithKeys("f1", "alt+1"),
			key.WithHelp("F1", "fraud sample"),
		),
		Sample2: key.NewBinding(
			key.WithKeys("f2", "alt+2"),
			key.WithHelp("F2", "normal sample"),
		),
		Sample3: key.NewBinding(
			key.WithKeys("f3", "alt+3"),
			key.WithHelp("F3", "promo sample"),
		),

		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("Ctrl+G", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "quit"),
		),
		ClearScreen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("Ctrl+L", "clear screen"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Sample1, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Sample1, k.Sample2, k.Sample3},
		{k.Help, k.ClearScreen, k.Quit},
	}
}

// sampleKeys returns the sample bindings in the order of model.Samples.
func (k KeyMap) sampleKeys() []key.Binding {
	return []key.Binding{k.Sample1, k.Sample2, k.Sample3}
}
