// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/admin"
	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/auth"
	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/conversation"
	"github.com/jeranaias/chatterm/internal/stats"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// ViewState identifies the top-level view. Exactly one view is active at a
// time; every transition goes through App.navigate so the gating rules hold
// everywhere.
type ViewState int

const (
	// ViewLanding is the unauthenticated start screen.
	ViewLanding ViewState = iota

	// ViewAuth hosts the login and register forms.
	ViewAuth

	// ViewChat is the main conversation view.
	ViewChat

	// ViewAdmin is the staff-only dashboard. Requires IsStaff.
	ViewAdmin
)

// String returns the view name for logging.
func (v ViewState) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewAuth:
		return "auth"
	case ViewChat:
		return "chat"
	case ViewAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model. It owns the view state machine and the
// domain stores, and routes messages to the active view.
type App struct {
	cfg   *config.Config
	theme *styles.Theme
	keys  KeyMap

	client        *api.Client
	session       *auth.SessionManager
	conversations *conversation.Store
	dispatcher    *chat.Dispatcher
	stats         *stats.Poller
	admin         *admin.Service

	view      ViewState
	landing   landingModel
	auth      authModel
	chat      chatModel
	adminView adminModel

	width  int
	height int

	// Transient status line notice. The ID invalidates stale clear timers.
	notice    string
	noticeErr bool
	noticeID  int

	// Current stats poll loop. The ID invalidates ticks from superseded
	// loops.
	statsTickID int

	restoring bool
}

// New constructs the root model. The session restore starts in Init.
func New(
	cfg *config.Config,
	client *api.Client,
	session *auth.SessionManager,
	conversations *conversation.Store,
	dispatcher *chat.Dispatcher,
	poller *stats.Poller,
	adminSvc *admin.Service,
) *App {
	theme := styles.New(cfg.UI.Theme)
	keys := DefaultKeyMap()

	a := &App{
		cfg:           cfg,
		theme:         theme,
		keys:          keys,
		client:        client,
		session:       session,
		conversations: conversations,
		dispatcher:    dispatcher,
		stats:         poller,
		admin:         adminSvc,
		view:          ViewLanding,
		restoring:     true,
	}
	a.landing = newLandingModel(theme)
	a.auth = newAuthModel(theme, keys)
	a.chat = newChatModel(theme, keys, cfg)
	a.adminView = newAdminModel(theme, keys)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.restoreSessionCmd(),
		a.chat.spinner.Tick,
	)
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// navigate switches views, enforcing the gating rules: chat and admin
// require an authenticated session, admin additionally requires staff. An
// ungated request falls back rather than failing.
func (a *App) navigate(target ViewState) tea.Cmd {
	switch target {
	case ViewAdmin:
		if !a.session.IsStaff() {
			return a.showNotice("Staff account required", true)
		}
	case ViewChat:
		if !a.session.IsAuthenticated() {
			target = ViewAuth
		}
	}

	if a.view == target {
		return nil
	}
	a.view = target

	switch target {
	case ViewChat:
		return tea.Batch(
			a.refreshConversationsCmd(),
			a.refreshStatsCmd(),
			a.startStatsLoop(),
			a.chat.focusInput(),
		)
	case ViewAdmin:
		return tea.Batch(a.adminOverviewCmd(), a.adminUsersCmd(), a.fetchChartsCmd())
	case ViewAuth:
		a.auth.reset()
		return a.auth.focusFirst()
	default:
		return nil
	}
}

// reevaluateAuth reconciles the view with the session after an auth change.
// Authenticated sessions leave landing/auth for chat; an anonymous session
// always lands on the landing view. An open admin view stays put as long as
// the user is still staff.
func (a *App) reevaluateAuth() tea.Cmd {
	if a.session.IsAuthenticated() {
		if a.view == ViewAdmin && a.session.IsStaff() {
			return nil
		}
		if a.view == ViewLanding || a.view == ViewAuth {
			return a.navigate(ViewChat)
		}
		return nil
	}
	return a.navigate(ViewLanding)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.chat.setSize(msg.Width, msg.Height)
		a.adminView.setSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case sessionRestoredMsg:
		a.restoring = false
		if msg.Result.OK {
			a.chat.welcomeName = msg.Result.User.DisplayName()
		}
		return a, a.reevaluateAuth()

	case authResultMsg:
		if !msg.Result.OK {
			a.auth.applyFailure(msg.Result)
			return a, nil
		}
		a.chat.welcomeName = msg.Result.User.DisplayName()
		return a, a.reevaluateAuth()

	case sendCompleteMsg:
		a.chat.sending = false
		a.chat.syncTranscript(a.dispatcher.Messages())
		// The sidebar ordering may have changed after a successful send.
		if msg.Err == nil {
			return a, a.refreshConversationsCmd()
		}
		return a, nil

	case historyLoadedMsg:
		if msg.Err != nil {
			return a, a.showNotice("Could not open conversation", true)
		}
		a.dispatcher.LoadHistory(msg.Messages)
		a.conversations.SetActive(msg.ConversationID)
		a.chat.syncTranscript(a.dispatcher.Messages())
		a.chat.sidebarOpen = false
		return a, a.chat.focusInput()

	case conversationsMsg:
		if msg.Err != nil {
			return a, a.showNotice("Could not load conversations", true)
		}
		a.chat.syncSidebar(a.conversations)
		return a, nil

	case statsTickMsg:
		if msg.ID != a.statsTickID {
			// A tick from a superseded loop; only the current loop may
			// reschedule itself.
			return a, nil
		}
		if a.view == ViewChat || a.view == ViewAdmin {
			return a, tea.Batch(a.refreshStatsCmd(), a.statsTickCmd(msg.ID))
		}
		// Polling pauses off the authenticated views; navigate restarts it.
		return a, nil

	case statsRefreshedMsg:
		// Errors are ignored; the header keeps the previous snapshot.
		return a, nil

	case chartsMsg:
		if msg.Err == nil {
			a.adminView.charts = msg.Charts
		}
		return a, nil

	case adminOverviewMsg:
		if msg.Err != nil {
			return a, a.showNotice("Could not load dashboard", true)
		}
		a.adminView.overview = msg.Overview
		return a, nil

	case adminUsersMsg:
		if msg.Err != nil {
			return a, a.showNotice("Admin action failed", true)
		}
		a.adminView.setUsers(a.admin.Users())
		return a, nil

	case adminUserDetailMsg:
		if msg.Err == nil {
			a.adminView.detail = msg.Detail
		}
		return a, nil

	case feedbackSentMsg:
		if msg.Err != nil {
			return a, a.showNotice("Feedback failed", true)
		}
		return a, a.showNotice("Thanks for the feedback", false)

	case exportDoneMsg:
		if msg.Err != nil {
			return a, a.showNotice("Export failed", true)
		}
		return a, a.showNotice("Exported to "+msg.Path, false)

	case noticeMsg:
		return a, a.showNotice(msg.Text, msg.IsError)

	case clearNoticeMsg:
		if msg.ID == a.noticeID {
			a.notice = ""
		}
		return a, nil
	}

	// Everything else (spinner ticks, blink) goes to the active view.
	return a, a.updateActiveView(msg)
}

// handleKey routes a key press: global bindings first, then the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	switch a.view {
	case ViewLanding:
		return a, a.landing.handleKey(a, msg)
	case ViewAuth:
		return a, a.auth.handleKey(a, msg)
	case ViewChat:
		return a, a.chat.handleKey(a, msg)
	case ViewAdmin:
		return a, a.adminView.handleKey(a, msg)
	}
	return a, nil
}

// updateActiveView forwards non-key messages to the active view's
// components.
func (a *App) updateActiveView(msg tea.Msg) tea.Cmd {
	switch a.view {
	case ViewAuth:
		return a.auth.update(msg)
	case ViewChat:
		return a.chat.update(msg)
	case ViewAdmin:
		return a.adminView.update(msg)
	}
	return nil
}

// showNotice puts a transient message on the status line.
func (a *App) showNotice(text string, isErr bool) tea.Cmd {
	a.notice = text
	a.noticeErr = isErr
	a.noticeID++
	return clearNoticeCmd(a.noticeID)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a *App) View() string {
	switch a.view {
	case ViewLanding:
		return a.landing.view(a)
	case ViewAuth:
		return a.auth.view(a)
	case ViewChat:
		return a.chat.view(a)
	case ViewAdmin:
		return a.adminView.view(a)
	}
	return ""
}

// CurrentView exposes the active view for tests.
func (a *App) CurrentView() ViewState {
	return a.view
}
