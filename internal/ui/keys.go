// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the Bubble Tea interface: the top-level view state
// machine and the landing, auth, chat and admin views.
//
// This file defines keyboard bindings for the interface.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMatches reports whether a key press matches a binding.
func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the interface.
type KeyMap struct {
	Submit        key.Binding
	Quit          key.Binding
	ClearChat     key.Binding
	TogglePanel   key.Binding
	ClosePanel    key.Binding
	NewChat       key.Binding
	Export        key.Binding
	Logout        key.Binding
	AdminView     key.Binding
	ChatView      key.Binding
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	NextField     key.Binding
	FeedbackUp    key.Binding
	FeedbackDown  key.Binding
	SwitchAuthTab key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		ClearChat: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "clear chat"),
		),
		// Terminals deliver ctrl+/ as ctrl+_.
		TogglePanel: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("C-/", "conversations"),
		),
		ClosePanel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close panel"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "logout"),
		),
		AdminView: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "admin"),
		),
		ChatView: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "back to chat"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("Up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("Down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next field"),
		),
		FeedbackUp: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "rate reply up"),
		),
		FeedbackDown: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "rate reply down"),
		),
		SwitchAuthTab: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "login/register"),
		),
	}
}

// ShortHelp returns the bindings shown in the chat status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.TogglePanel, k.ClearChat, k.Export, k.Logout}
}
