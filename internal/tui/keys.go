package tui

import "github.com/charmbracelet/bubbles/key"

type listKeys struct {
	Toggle key.Binding
	Open   key.Binding
	Add    key.Binding
	Delete key.Binding
	Quit   key.Binding
}

func newListKeys() listKeys {
	return listKeys{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Open:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k listKeys) help() []key.Binding {
	return []key.Binding{k.Toggle, k.Open, k.Add, k.Delete}
}

type detailKeys struct {
	Next     key.Binding
	Prev     key.Binding
	Toggle   key.Binding
	Save     key.Binding
	Cancel   key.Binding
	ForceOut key.Binding
}

func newDetailKeys() detailKeys {
	return detailKeys{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ForceOut: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k detailKeys) help() []key.Binding {
	return []key.Binding{k.Next, k.Save, k.Cancel}
}
