package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Today  key.Binding
	Reload key.Binding
	Edit   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h/p", "prev week")),
	Next:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l/n", "next week")),
	Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) navigationHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Today, k.Reload}
}

func (k keyMap) actionHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Quit}
}
