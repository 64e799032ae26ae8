package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the desktop keybindings. Window switching is done with
// the mouse; keys only act on the focused window.
type KeyMap struct {
	Quit      key.Binding
	StartMenu key.Binding
	Escape    key.Binding

	// Focused window
	Close    key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Yank     key.Binding

	// Desktop
	Run     key.Binding
	Cascade key.Binding
	Tile    key.Binding
	Reload  key.Binding
}

// DefaultKeyMap returns the default keybindings
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	StartMenu: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start menu"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close menu"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close window"),
	),
	Minimize: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "minimize"),
	),
	Maximize: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "maximize/restore"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy window id"),
	),
	Run: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "run application"),
	),
	Cascade: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cascade windows"),
	),
	Tile: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tile windows"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "reload config"),
	),
}
