// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/stats"
	"github.com/jeranaias/chatterm/internal/ui/styles"
	"github.com/jeranaias/chatterm/internal/util"
)

// =============================================================================
// ADMIN VIEW
// =============================================================================

// adminModel is the staff dashboard: service-wide totals, analytics charts
// and the user management table.
type adminModel struct {
	theme *styles.Theme
	keys  KeyMap

	overview *api.AdminDashboard
	charts   *stats.Charts
	users    []model.User
	detail   *api.AdminUserDetail

	cursor        int
	confirmDelete bool

	width  int
	height int
}

func newAdminModel(theme *styles.Theme, keys KeyMap) adminModel {
	return adminModel{theme: theme, keys: keys}
}

func (m *adminModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

// setUsers replaces the table contents, keeping the cursor in range.
func (m *adminModel) setUsers(users []model.User) {
	m.users = users
	if m.cursor >= len(users) {
		m.cursor = len(users) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *adminModel) selected() (model.User, bool) {
	if m.cursor < len(m.users) {
		return m.users[m.cursor], true
	}
	return model.User{}, false
}

func (m *adminModel) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	// A pending delete confirmation swallows the next key.
	if m.confirmDelete {
		m.confirmDelete = false
		if msg.String() == "y" {
			if u, ok := m.selected(); ok {
				return a.adminDeleteCmd(u.ID)
			}
		}
		return a.showNotice("Delete cancelled", false)
	}

	switch {
	case keyMatches(msg, m.keys.ChatView):
		m.detail = nil
		return a.navigate(ViewChat)

	case keyMatches(msg, m.keys.Logout):
		a.session.Logout()
		a.dispatcher.Clear()
		m.detail = nil
		return a.navigate(ViewLanding)

	case keyMatches(msg, m.keys.ClosePanel):
		if m.detail != nil {
			m.detail = nil
			return nil
		}
		return a.navigate(ViewChat)

	case keyMatches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil

	case keyMatches(msg, m.keys.Down):
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
		return nil

	case keyMatches(msg, m.keys.Submit):
		if u, ok := m.selected(); ok {
			return a.adminUserDetailCmd(u.ID)
		}
		return nil
	}

	switch msg.String() {
	case "t":
		if u, ok := m.selected(); ok {
			return a.adminToggleCmd(u.ID)
		}
	case "x":
		if u, ok := m.selected(); ok {
			// Deleting your own account from here is blocked.
			if cur := a.session.CurrentUser(); cur.ID == u.ID {
				return a.showNotice("Cannot delete your own account", true)
			}
			m.confirmDelete = true
		}
	case "r":
		return tea.Batch(a.adminOverviewCmd(), a.adminUsersCmd(), a.fetchChartsCmd())
	}
	return nil
}

func (m *adminModel) update(tea.Msg) tea.Cmd {
	return nil
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *adminModel) view(a *App) string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.HeaderTitle.Render("Admin dashboard"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTotals())
	b.WriteString("\n")
	b.WriteString(m.renderCharts())
	b.WriteString("\n")

	if m.detail != nil {
		b.WriteString(m.renderDetail())
	} else {
		b.WriteString(m.renderUserTable())
	}

	b.WriteString("\n")
	if m.confirmDelete {
		b.WriteString(t.NoticeError.Render("Delete this account? Press y to confirm."))
	} else if a.notice != "" {
		style := t.Notice
		if a.noticeErr {
			style = t.NoticeError
		}
		b.WriteString(style.Render(a.notice))
	} else {
		b.WriteString(t.FormHint.Render("Enter detail   t toggle active   x delete   r refresh   C-b chat   Esc back"))
	}
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *adminModel) renderTotals() string {
	t := m.theme
	if m.overview == nil {
		return t.FormHint.Render("Loading totals...") + "\n"
	}
	return t.HeaderStat.Render(fmt.Sprintf(
		"Users %d   Messages %d   Conversations %d",
		m.overview.TotalUsers(),
		m.overview.TotalMessages(),
		m.overview.TotalConversations(),
	)) + "\n"
}

// renderCharts shows the weekly activity series and top intents as text
// rows. Bars are proportional to the weekly maximum.
func (m *adminModel) renderCharts() string {
	t := m.theme
	if m.charts == nil {
		return ""
	}

	var b strings.Builder

	if len(m.charts.Weekly) > 0 {
		b.WriteString(t.TableHeader.Render("This week"))
		b.WriteString("\n")

		max := 1
		for _, p := range m.charts.Weekly {
			if p.Messages > max {
				max = p.Messages
			}
		}
		for _, p := range m.charts.Weekly {
			bar := strings.Repeat("#", p.Messages*20/max)
			b.WriteString(fmt.Sprintf("  %-4s %-20s %d\n", p.Day, bar, p.Messages))
		}
	}

	if len(m.charts.Intents) > 0 {
		b.WriteString(t.TableHeader.Render("Top intents"))
		b.WriteString("\n")
		for _, s := range m.charts.Intents {
			b.WriteString(fmt.Sprintf("  %-24s %5d  %.0f%%\n",
				util.TruncateWidth(s.Intent, 24), s.Count, s.AvgConfidence*100))
		}
	}

	return b.String()
}

func (m *adminModel) renderUserTable() string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.TableHeader.Render(fmt.Sprintf("  %-6s %-20s %-28s %-8s %s", "ID", "Username", "Email", "Staff", "Status")))
	b.WriteString("\n")

	if len(m.users) == 0 {
		b.WriteString(t.FormHint.Render("  No users loaded"))
		b.WriteString("\n")
		return b.String()
	}

	for i, u := range m.users {
		style := t.TableRow
		marker := "  "
		if i == m.cursor {
			style = t.TableRowSel
			marker = "> "
		}

		staff := "-"
		if u.IsStaff {
			staff = "yes"
		}
		status := t.BadgeActive.Render("active")
		if !u.IsActive {
			status = t.BadgeBanned.Render("disabled")
		}

		row := fmt.Sprintf("%-6d %-20s %-28s %-8s",
			u.ID,
			util.TruncateWidth(u.Username, 20),
			util.TruncateWidth(u.Email, 28),
			staff,
		)
		b.WriteString(marker + style.Render(row) + " " + status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *adminModel) renderDetail() string {
	t := m.theme
	d := m.detail

	var b strings.Builder
	b.WriteString(t.TableHeader.Render("Account: " + d.User.Username))
	b.WriteString("\n")
	b.WriteString(t.HeaderStat.Render(fmt.Sprintf(
		"  %s   conversations %d   messages %d",
		d.User.Email, d.Conversations, d.Messages,
	)))
	b.WriteString("\n")
	return b.String()
}
