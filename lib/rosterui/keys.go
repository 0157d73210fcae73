// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor's command bindings. Shift letters (D, E, N,
// O, X and their Korean-layout keys) are not bindings: any printable
// key that is not a command goes to the selection controller.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Delete    key.Binding
	Backspace key.Binding

	PreviousMonth key.Binding
	NextMonth     key.Binding

	Jump key.Binding

	AutoGenerate  key.Binding
	ForceGenerate key.Binding
	Reset         key.Binding
	ConfirmReset  key.Binding
	SyncNow       key.Binding
	Acknowledge   key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "right"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete"),
		key.WithHelp("Del", "clear"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("BS", "clear ←"),
	),
	PreviousMonth: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev month"),
	),
	NextMonth: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next month"),
	),
	Jump: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find nurse"),
	),
	AutoGenerate: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "auto-generate"),
	),
	ForceGenerate: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "force"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "reset"),
	),
	ConfirmReset: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	SyncNow: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save/retry"),
	),
	Acknowledge: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "ok"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "dismiss"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("C-q", "quit"),
	),
}

// ShortHelp is the one-line help.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.PreviousMonth, keys.NextMonth, keys.Jump, keys.SyncNow, keys.Help, keys.Quit}
}

// FullHelp groups every binding for the help overlay.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Left, keys.Right, keys.Up, keys.Down, keys.Delete, keys.Backspace},
		{keys.PreviousMonth, keys.NextMonth, keys.Jump},
		{keys.AutoGenerate, keys.Reset, keys.SyncNow},
		{keys.Acknowledge, keys.Dismiss, keys.Help, keys.Quit},
	}
}
