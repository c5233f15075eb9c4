package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the demo surface.
type KeyMap struct {
	// Open[i] opens a toast at config.ValidPositions()[i]
	Open [9]key.Binding

	// Toast options
	ToggleClose    key.Binding
	ToggleProgress key.Binding
	ToggleRTL      key.Binding
	CloseAll       key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open[0], k.CloseAll, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Open[:3],
		k.Open[3:6],
		k.Open[6:],
		{k.ToggleClose, k.ToggleProgress, k.ToggleRTL},
		{k.CloseAll, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings. The digits follow a
// numeric keypad read top to bottom: 1 is top-left, 9 is bottom-right.
func DefaultKeyMap() KeyMap {
	help := [9]string{
		"top-left", "top-center", "top-right",
		"center-left", "center", "center-right",
		"bottom-left", "bottom-center", "bottom-right",
	}

	var km KeyMap
	for i := range km.Open {
		digit := string(rune('1' + i))
		km.Open[i] = key.NewBinding(
			key.WithKeys(digit),
			key.WithHelp(digit, help[i]),
		)
	}
	// The help text for the first binding covers the whole row in short help
	km.Open[0].SetHelp("1-9", "open toast")

	km.ToggleClose = key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "toggle close button"),
	)
	km.ToggleProgress = key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "toggle progress bar"),
	)
	km.ToggleRTL = key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "toggle rtl"),
	)
	km.CloseAll = key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "close all"),
	)
	km.Quit = key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	)
	km.Help = key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	)
	return km
}
