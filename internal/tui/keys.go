package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Reset    key.Binding
	Skip     key.Binding
	Pick     key.Binding
	New      key.Binding
	Archive  key.Binding
	Archived key.Binding
	Export   key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	Tab5     key.Binding
	Tab      key.Binding
	Help     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Quit     key.Binding
}

// bind builds a binding whose first key doubles as the help label unless
// label is set.
func bind(label, desc string, ks ...string) key.Binding {
	if label == "" {
		label = ks[0]
	}
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(label, desc))
}

var keys = keyMap{
	// Today and Focus
	Toggle: bind("space", "toggle", " "),
	Reset:  bind("", "reset", "r"),
	Skip:   bind("", "skip", "x"),
	Pick:   bind("", "pick habit", "p"),

	// Habits
	New:      bind("", "new", "n"),
	Archive:  bind("", "archive", "d"),
	Archived: bind("", "show archived", "a"),
	Export:   bind("", "export", "e"),

	// Navigation
	Tab1:  bind("", "today", "1"),
	Tab2:  bind("", "habits", "2"),
	Tab3:  bind("", "analytics", "3"),
	Tab4:  bind("", "focus", "4"),
	Tab5:  bind("", "settings", "5"),
	Tab:   bind("", "next view", "tab"),
	Help:  bind("", "help", "?"),
	Enter: bind("", "select", "enter"),
	Back:  bind("", "back", "esc"),
	Up:    bind("↑/k", "up", "up", "k"),
	Down:  bind("↓/j", "down", "down", "j"),
	Left:  bind("←/h", "left", "left", "h"),
	Right: bind("→/l", "right", "right", "l"),
	Quit:  bind("", "quit", "q", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.New, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Skip, k.Pick},
		{k.New, k.Archive, k.Archived, k.Export},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5},
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Back, k.Quit},
	}
}
