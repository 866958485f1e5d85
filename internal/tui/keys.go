package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Skip       key.Binding
	Metronome  key.Binding
	ResetStats key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Skip},
		{k.Metronome, k.ResetStats},
		{k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset phase"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip to next"),
		),
		Metronome: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "metronome"),
		),
		ResetStats: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset statistics"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
