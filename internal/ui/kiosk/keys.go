package kiosk

import (
	"github.com/charmbracelet/bubbles/key"

	"facekiosk/internal/flow"
)

// keyMap binds the kiosk actions.
type keyMap struct {
	Start  key.Binding
	Reset  key.Binding
	Health key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("s", "enter", " "),
			key.WithHelp("s/enter", "start"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "esc"),
			key.WithHelp("r", "reset"),
		),
		Health: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "health"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// forScreen enables start and reset only while their affordances are shown.
func (k keyMap) forScreen(screen flow.Screen) keyMap {
	k.Start.SetEnabled(screen.StartVisible)
	k.Reset.SetEnabled(screen.ResetVisible)
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Reset, k.Health, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
