package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	play    key.Binding
	enqueue key.Binding
	toggle  key.Binding
	skip    key.Binding
	stop    key.Binding
	volUp   key.Binding
	volDown key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		play:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		enqueue: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "enqueue")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		skip:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		volUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "louder")),
		volDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "quieter")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.enqueue, k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.enqueue},
		{k.toggle, k.skip, k.stop},
		{k.volUp, k.volDown, k.quit},
	}
}
