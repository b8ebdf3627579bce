package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Select    key.Binding
	Clear     key.Binding
	Connect   key.Binding
	Objective key.Binding
	Mark      key.Binding
	Region    key.Binding
	DragUp    key.Binding
	DragDown  key.Binding
	DragLeft  key.Binding
	DragRight key.Binding
	Undo      key.Binding
	Redo      key.Binding
	New       key.Binding
	Settings  key.Binding
	Save      key.Binding
	Open      key.Binding
	Export    key.Binding
	Import    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a", "/"), key.WithHelp("a", "add gate")),
		Select:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Connect:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect selected")),
		Objective: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "complete objective")),
		Mark:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark corner")),
		Region:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "select region")),
		DragUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "drag north")),
		DragDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "drag south")),
		DragLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "drag west")),
		DragRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "drag east")),
		Undo:      key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:      key.NewBinding(key.WithKeys("r", "ctrl+y"), key.WithHelp("r", "redo")),
		New:       key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new session")),
		Settings:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "settings")),
		Save:      key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Open:      key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "open saved")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export file")),
		Import:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "load file")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Select, k.Undo, k.Redo, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Select, k.Clear, k.Connect},
		{k.Objective, k.Mark, k.Region, k.DragUp, k.DragDown, k.DragLeft, k.DragRight},
		{k.Undo, k.Redo, k.New, k.Settings},
		{k.Save, k.Open, k.Export, k.Import, k.Help, k.Quit},
	}
}

func (k keyMap) dragBindings() []key.Binding {
	return []key.Binding{k.DragUp, k.DragDown, k.DragLeft, k.DragRight}
}
