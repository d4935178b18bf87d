// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/ui/styles"
	"github.com/jeranaias/chatterm/internal/util"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// sidebarWidth is the fixed column width of the conversation panel.
const sidebarWidth = 34

// sidebarModel lists past conversations with incremental search. Selection
// loads the conversation's history into the transcript.
type sidebarModel struct {
	theme *styles.Theme

	search    textinput.Model
	items     []model.Conversation
	activeID  int64
	searching bool
	cursor    int
	height    int
}

func newSidebarModel(theme *styles.Theme) sidebarModel {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 200
	ti.Width = sidebarWidth - 6
	return sidebarModel{theme: theme, search: ti}
}

func (m *sidebarModel) focus() tea.Cmd {
	return m.search.Focus()
}

func (m *sidebarModel) blur() {
	m.search.Blur()
}

func (m *sidebarModel) setHeight(h int) {
	m.height = h
}

// setItems replaces the visible list, keeping the cursor in range.
func (m *sidebarModel) setItems(items []model.Conversation, activeID int64, searching bool) {
	m.items = items
	m.activeID = activeID
	m.searching = searching
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *sidebarModel) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return nil
	case "enter":
		if m.cursor < len(m.items) {
			return a.loadHistoryCmd(m.items[m.cursor].ID)
		}
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	// Each keystroke re-queries; the store debounces short inputs by
	// falling back to the full list without a network call.
	return tea.Batch(cmd, a.searchConversationsCmd(m.search.Value()))
}

func (m *sidebarModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *sidebarModel) view() string {
	t := m.theme

	title := "Conversations"
	if m.searching {
		title = "Search results"
	}

	var b strings.Builder
	b.WriteString(t.SidebarTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		empty := "No conversations yet"
		if m.searching {
			empty = "No matches"
		}
		b.WriteString(t.ConvItemPreview.Render(empty))
		b.WriteString("\n")
	}

	maxTitle := sidebarWidth - 6
	for i, c := range m.items {
		style := t.ConvItem
		marker := "  "
		if i == m.cursor {
			style = t.ConvItemActive
			marker = "> "
		}

		title := util.TruncateWidth(c.DisplayTitle(), maxTitle)
		if c.ID == m.activeID {
			title = title + " *"
		}
		b.WriteString(style.Render(marker + title))
		b.WriteString("\n")
		b.WriteString(t.ConvItemPreview.Render("  " + util.TruncateWidth(c.Preview(), maxTitle)))
		b.WriteString("\n")
	}

	return t.Sidebar.Width(sidebarWidth - 2).Height(m.height).Render(b.String())
}
