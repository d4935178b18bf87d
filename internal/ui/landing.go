// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// LANDING VIEW
// =============================================================================

// landingModel is the unauthenticated start screen.
type landingModel struct {
	theme *styles.Theme
}

func newLandingModel(theme *styles.Theme) landingModel {
	return landingModel{theme: theme}
}

func (m landingModel) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "l":
		cmd := a.navigate(ViewAuth)
		a.auth.setTab(authTabLogin)
		return cmd
	case "r":
		cmd := a.navigate(ViewAuth)
		a.auth.setTab(authTabRegister)
		return cmd
	case "q":
		return tea.Quit
	}
	return nil
}

func (m landingModel) view(a *App) string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.WelcomeTitle.Render("chatterm"))
	b.WriteString("\n")
	b.WriteString(t.WelcomeBody.Render("A terminal client for your chat assistant."))
	b.WriteString("\n\n")

	if a.restoring {
		b.WriteString(t.FormHint.Render("  Restoring session..."))
		b.WriteString("\n")
	} else {
		b.WriteString("  " + t.Shortcut.Render("Enter") + "  " + t.StatusBar.Render("log in"))
		b.WriteString("\n")
		b.WriteString("  " + t.Shortcut.Render("r") + "      " + t.StatusBar.Render("create an account"))
		b.WriteString("\n")
		b.WriteString("  " + t.Shortcut.Render("q") + "      " + t.StatusBar.Render("quit"))
		b.WriteString("\n")
	}

	content := b.String()
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
