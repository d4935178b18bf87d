// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the interface.
// Messages are organized by the flow that produces them:
//   - Session: restore, login, register, logout
//   - Chat: send completion, history load, feedback
//   - Sidebar: list refresh, search
//   - Stats: header poll ticks and snapshots, dashboard charts
//   - Admin: overview, user list, mutations
//   - Export: completion
//   - Notices: transient status line text
package ui

import (
	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/auth"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/stats"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// sessionRestoredMsg reports the result of the startup session restore.
type sessionRestoredMsg struct {
	Result auth.Result
}

// authResultMsg reports the result of a login, registration or Google login.
type authResultMsg struct {
	Result auth.Result
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// sendCompleteMsg signals that a dispatched send finished, successfully or
// not. The transcript already contains the outcome either way.
type sendCompleteMsg struct {
	Err error
}

// historyLoadedMsg delivers a selected conversation's history.
type historyLoadedMsg struct {
	ConversationID int64
	Messages       []model.Message
	Err            error
}

// feedbackSentMsg reports a feedback round trip.
type feedbackSentMsg struct {
	Kind api.FeedbackKind
	Err  error
}

// =============================================================================
// SIDEBAR MESSAGES
// =============================================================================

// conversationsMsg signals that the sidebar list or search results were
// refreshed in the store.
type conversationsMsg struct {
	Err error
}

// =============================================================================
// STATS MESSAGES
// =============================================================================

// statsTickMsg schedules the next header stats refresh. The ID invalidates
// ticks from a superseded poll loop, so re-entering chat never stacks loops.
type statsTickMsg struct {
	ID int
}

// statsRefreshedMsg signals that the poller fetched a new snapshot.
type statsRefreshedMsg struct {
	Err error
}

// chartsMsg delivers the analytics dashboard charts.
type chartsMsg struct {
	Charts *stats.Charts
	Err    error
}

// =============================================================================
// ADMIN MESSAGES
// =============================================================================

// adminOverviewMsg delivers the service-wide totals.
type adminOverviewMsg struct {
	Overview *api.AdminDashboard
	Err      error
}

// adminUsersMsg signals that the user cache was refreshed.
type adminUsersMsg struct {
	Err error
}

// adminUserDetailMsg delivers one account's detail view.
type adminUserDetailMsg struct {
	Detail *api.AdminUserDetail
	Err    error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// exportDoneMsg reports a transcript export.
type exportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// NOTICES
// =============================================================================

// noticeMsg puts a transient message on the status line.
type noticeMsg struct {
	Text    string
	IsError bool
}

// clearNoticeMsg removes an expired notice.
type clearNoticeMsg struct {
	ID int
}
