// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// CHAT VIEW
// =============================================================================

const (
	inputCharLimit = 4000
	headerHeight   = 2
	footerHeight   = 4
)

// chatModel is the main conversation view: transcript viewport, input line,
// stats header and the conversation sidebar.
type chatModel struct {
	theme *styles.Theme
	keys  KeyMap
	cfg   *config.Config

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	sidebar  sidebarModel

	// Markdown renderer for bot replies. Rebuilt on resize so word wrap
	// tracks the viewport width.
	renderer *glamour.TermRenderer

	msgs        []model.Message
	welcomeName string
	sending     bool
	sidebarOpen bool

	width  int
	height int
	ready  bool
}

func newChatModel(theme *styles.Theme, keys KeyMap, cfg *config.Config) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = inputCharLimit

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return chatModel{
		theme:   theme,
		keys:    keys,
		cfg:     cfg,
		input:   ti,
		spinner: sp,
		sidebar: newSidebarModel(theme),
	}
}

func (m *chatModel) focusInput() tea.Cmd {
	m.sidebar.blur()
	return m.input.Focus()
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height

	vpWidth := width
	if m.sidebarOpen {
		vpWidth -= sidebarWidth
	}
	vpHeight := height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 6
	m.sidebar.setHeight(vpHeight)

	// Word wrap follows the transcript width.
	wrap := vpWidth - 2
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.renderer = r
	}
	m.refreshViewport()
}

// syncTranscript refreshes the viewport from the dispatcher's transcript.
func (m *chatModel) syncTranscript(msgs []model.Message) {
	m.msgs = msgs
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// syncSidebar refreshes the sidebar list from the conversation store.
func (m *chatModel) syncSidebar(store conversationLister) {
	m.sidebar.setItems(store.Visible(), store.ActiveID(), store.IsSearching())
}

// conversationLister is the slice of the conversation store the sidebar
// needs. Narrowed for tests.
type conversationLister interface {
	Visible() []model.Conversation
	ActiveID() int64
	IsSearching() bool
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *chatModel) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch {
	case keyMatches(msg, m.keys.Logout):
		a.session.Logout()
		a.dispatcher.Clear()
		m.msgs = nil
		m.sidebarOpen = false
		return a.navigate(ViewLanding)

	case keyMatches(msg, m.keys.AdminView):
		return a.navigate(ViewAdmin)

	case keyMatches(msg, m.keys.TogglePanel):
		m.sidebarOpen = !m.sidebarOpen
		m.setSize(m.width, m.height)
		if m.sidebarOpen {
			m.input.Blur()
			return tea.Batch(m.sidebar.focus(), a.refreshConversationsCmd())
		}
		return m.focusInput()

	case keyMatches(msg, m.keys.ClosePanel):
		if m.sidebarOpen {
			m.sidebarOpen = false
			m.setSize(m.width, m.height)
			return m.focusInput()
		}
		return nil

	case keyMatches(msg, m.keys.NewChat):
		a.dispatcher.Clear()
		m.syncTranscript(nil)
		return a.showNotice("Started a new conversation", false)

	case keyMatches(msg, m.keys.ClearChat):
		a.dispatcher.Clear()
		m.syncTranscript(nil)
		return nil

	case keyMatches(msg, m.keys.Export):
		if len(m.msgs) == 0 {
			return a.showNotice("Nothing to export", true)
		}
		return a.exportCmd(m.exportTitle(a), m.msgs)

	case keyMatches(msg, m.keys.FeedbackUp):
		return m.rateLastReply(a, api.FeedbackPositive)

	case keyMatches(msg, m.keys.FeedbackDown):
		return m.rateLastReply(a, api.FeedbackNegative)
	}

	if m.sidebarOpen {
		return m.sidebar.handleKey(a, msg)
	}

	switch {
	case keyMatches(msg, m.keys.Submit):
		return m.submit(a)
	case keyMatches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return nil
	case keyMatches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return nil
	case keyMatches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return nil
	case keyMatches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *chatModel) submit(a *App) tea.Cmd {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return nil
	}

	localID, err := a.dispatcher.AppendOptimistic(content)
	if err != nil {
		if err == chat.ErrSendPending {
			return a.showNotice("Still waiting for the previous reply", true)
		}
		return a.showNotice("Could not send message", true)
	}

	m.input.Reset()
	m.sending = true
	m.syncTranscript(a.dispatcher.Messages())
	return tea.Batch(a.dispatchCmd(content, localID), m.spinner.Tick)
}

// rateLastReply sends feedback for the most recent bot message.
func (m *chatModel) rateLastReply(a *App, kind api.FeedbackKind) tea.Cmd {
	for i := len(m.msgs) - 1; i >= 0; i-- {
		if m.msgs[i].Type == model.TypeBot {
			if !m.msgs[i].HasServerID() {
				return a.showNotice("This reply cannot be rated", true)
			}
			return a.feedbackCmd(m.msgs[i].LocalID, kind)
		}
	}
	return nil
}

func (m *chatModel) exportTitle(a *App) string {
	activeID := a.conversations.ActiveID()
	if activeID != 0 {
		for _, c := range a.conversations.Visible() {
			if c.ID == activeID {
				return c.DisplayTitle()
			}
		}
	}
	return "Conversation"
}

func (m *chatModel) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if m.sending {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	cmds = append(cmds, m.sidebar.update(msg))
	return tea.Batch(cmds...)
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

func (m *chatModel) renderMessages() string {
	t := m.theme

	if len(m.msgs) == 0 {
		var b strings.Builder
		name := m.welcomeName
		if name == "" {
			name = "there"
		}
		b.WriteString(t.WelcomeTitle.Render("Hello, " + name + "!"))
		b.WriteString("\n")
		b.WriteString(t.WelcomeBody.Render("Ask me anything to get started."))
		return b.String()
	}

	var b strings.Builder
	for i, msg := range m.msgs {
		if i > 0 && !m.cfg.UI.CompactMode {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *chatModel) renderMessage(msg model.Message) string {
	t := m.theme

	label := t.BotLabel.Render(msg.Type.DisplayName())
	if msg.Type == model.TypeUser {
		label = t.UserLabel.Render(msg.Type.DisplayName())
	}

	header := label + " " + t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	if m.cfg.UI.ShowIntent && msg.Type == model.TypeBot && msg.Intent != "" {
		header += " " + t.IntentTag.Render(fmt.Sprintf("[%s %.0f%%]", msg.Intent, msg.Confidence*100))
	}

	body := msg.Content
	if msg.Type == model.TypeBot && m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Content); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	return header + "\n" + t.MessageBody.Render(body)
}

func (m *chatModel) view(a *App) string {
	if !m.ready {
		return "Loading..."
	}
	t := m.theme

	header := m.renderHeader(a)

	body := m.viewport.View()
	if m.sidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.view(), body)
	}

	inputLine := t.InputContainer.Width(m.width - 2).Render(m.input.View())

	status := m.renderStatus(a)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, inputLine, status)
}

func (m *chatModel) renderHeader(a *App) string {
	t := m.theme

	left := t.HeaderTitle.Render("chatterm")
	if user := a.session.CurrentUser(); user.ID != 0 {
		left += t.HeaderStat.Render("  " + user.DisplayName())
	}

	right := ""
	if m.cfg.UI.ShowStats {
		if snap, ok := a.stats.Latest(); ok {
			right = t.HeaderStat.Render(fmt.Sprintf(
				"%d msgs today (%s)  %d active  %d convs",
				snap.Today.Messages,
				formatDelta(t, snap.Today.MessageChange),
				snap.Today.ActiveUsers,
				snap.Today.Conversations,
			))
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// formatDelta renders a day-over-day percentage change with its sign color.
func formatDelta(t *styles.Theme, change float64) string {
	if change >= 0 {
		return t.StatUp.Render(fmt.Sprintf("+%.0f%%", change))
	}
	return t.StatDown.Render(fmt.Sprintf("%.0f%%", change))
}

func (m *chatModel) renderStatus(a *App) string {
	t := m.theme

	if a.notice != "" {
		style := t.Notice
		if a.noticeErr {
			style = t.NoticeError
		}
		return style.Render(" " + a.notice)
	}

	if m.sending {
		return " " + m.spinner.View() + t.StatusBar.Render(" Assistant is typing...")
	}

	parts := make([]string, 0, 6)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, t.Shortcut.Render(h.Key)+" "+t.StatusBar.Render(h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}
