package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the task list TUI. Bindings are
// split by focus: the input line owns printable keys while it is focused,
// so list actions only fire when the list has focus.
type KeyMap struct {
	// Input line.
	Submit    key.Binding
	FocusList key.Binding

	// List navigation.
	Up         key.Binding
	Down       key.Binding
	FocusInput key.Binding

	// List mutations.
	Toggle         key.Binding
	CyclePriority  key.Binding
	PriorityLow    key.Binding
	PriorityMedium key.Binding
	PriorityHigh   key.Binding
	Delete         key.Binding
	ClearDone      key.Binding
	ClearAll       key.Binding

	// Re-read the store, picking up writes from other processes.
	Reload key.Binding

	Help  key.Binding
	Quit  key.Binding
	Abort key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	FocusList: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "list"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	FocusInput: key.NewBinding(
		key.WithKeys("i", "a", "/"),
		key.WithHelp("i", "new task"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x", "enter"),
		key.WithHelp("space", "done"),
	),
	CyclePriority: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "priority"),
	),
	PriorityLow: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "low"),
	),
	PriorityMedium: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "medium"),
	),
	PriorityHigh: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "high"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	ClearDone: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear done"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C C", "clear all"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// inputKeys is the help.KeyMap shown while the input line is focused.
type inputKeys struct{ KeyMap }

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.FocusList, k.Abort}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.FocusList, k.Abort}}
}

// listKeys is the help.KeyMap shown while the list is focused.
type listKeys struct{ KeyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.CyclePriority, k.Delete, k.FocusInput, k.Help, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FocusInput},
		{k.Toggle, k.CyclePriority, k.PriorityLow, k.PriorityMedium, k.PriorityHigh},
		{k.Delete, k.ClearDone, k.ClearAll},
		{k.Reload, k.Help, k.Quit},
	}
}
