package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	results key.Binding
	focus   key.Binding
	remove  key.Binding
	open    key.Binding
	save    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		results: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "results")),
		focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		remove:  key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "remove")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open cover")),
		save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.save, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.results, k.remove, k.open},
		{k.focus, k.save, k.quit},
	}
}
