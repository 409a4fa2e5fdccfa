package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Move      key.Binding
	Scroll    key.Binding
	Submit    key.Binding
	Preview   key.Binding
	Copy      key.Binding
	Revert    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Move: key.NewBinding(
			key.WithKeys("up", "down", "left", "right", "home", "end", "pgup", "pgdown"),
			key.WithHelp("↑↓←→", "move"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("alt+up", "alt+down"),
			key.WithHelp("alt+↑↓", "scroll"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "preview"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy payload"),
		),
		Revert: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "revert field"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Revert, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Move, k.Scroll},
		{k.Submit, k.Preview, k.Copy, k.Revert},
		{k.Help, k.Quit},
	}
}
