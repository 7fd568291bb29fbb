package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Top         key.Binding
	Bottom      key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	ToggleLabel key.Binding

	// Task Actions
	Add       key.Binding
	QuickAdd  key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Priority  key.Binding
	EditLabel key.Binding

	// View preferences
	Search      key.Binding
	LabelFilter key.Binding
	Sort        key.Binding
	ViewMode    key.Binding
	ClearFilter key.Binding

	// Session
	SignupToggle key.Binding
	Logout       key.Binding

	// General
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "column left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "column right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "move task left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "move task right"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous field"),
		),
		ToggleLabel: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle label"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		QuickAdd: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "quick add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		EditLabel: key.NewBinding(
			key.WithKeys("#"),
			key.WithHelp("#", "add/-remove label"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		LabelFilter: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "label filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ViewMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "board/list"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filters"),
		),

		SignupToggle: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "login/signup"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "logout"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Add, k.QuickAdd, k.Edit, k.Delete, k.Priority, k.EditLabel},
		{k.MoveLeft, k.MoveRight},
		{k.Search, k.LabelFilter, k.Sort, k.ViewMode, k.ClearFilter},
		{k.Logout, k.ThemeCycle, k.Help, k.Quit},
	}
}
