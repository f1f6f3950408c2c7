package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Global
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Refresh key.Binding

	// Panel navigation
	NextPanel key.Binding
	PrevPanel key.Binding

	// Graph navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Head     key.Binding

	// Actions
	Grab     key.Binding
	Drop     key.Binding
	Confirm  key.Binding
	Goto     key.Binding
	Hide     key.Binding
	Uncommit key.Binding
	Amend    key.Binding
	Cancel   key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "refresh"),
		),

		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevPanel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "alt+v"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+v"),
			key.WithHelp("pgdn", "page down"),
		),
		Head: key.NewBinding(
			key.WithKeys("@"),
			key.WithHelp("@", "jump to head"),
		),

		Grab: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "grab to rebase"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "drop"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "run preview"),
		),
		Goto: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "goto"),
		),
		Hide: key.NewBinding(
			key.WithKeys("h", "delete"),
			key.WithHelp("h", "hide"),
		),
		Uncommit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "uncommit"),
		),
		Amend: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "edit message"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel queued"),
		),
	}
}

// ShortHelp returns a short help string for the status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns all keybindings for the help screen
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Head},
		{k.Grab, k.Drop, k.Confirm, k.Escape},
		{k.Goto, k.Hide, k.Uncommit, k.Amend, k.Cancel},
		{k.NextPanel, k.PrevPanel, k.Refresh, k.Help, k.Quit},
	}
}
