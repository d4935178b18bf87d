// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file holds the tea.Cmd constructors. Every network round trip runs
// inside a command goroutine and reports back with a typed message; the
// update loop itself never blocks.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/export"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/stats"
)

// requestTimeout bounds every command-driven round trip.
const requestTimeout = 30 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

func (a *App) restoreSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return sessionRestoredMsg{Result: a.session.LoadSession(ctx)}
	}
}

func (a *App) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return authResultMsg{Result: a.session.Login(ctx, username, password)}
	}
}

func (a *App) registerCmd(req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return authResultMsg{Result: a.session.Register(ctx, req)}
	}
}

// =============================================================================
// CHAT COMMANDS
// =============================================================================

func (a *App) dispatchCmd(content, localID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return sendCompleteMsg{Err: a.dispatcher.Dispatch(ctx, content, localID)}
	}
}

func (a *App) loadHistoryCmd(conversationID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		msgs, err := a.conversations.Select(ctx, conversationID)
		return historyLoadedMsg{ConversationID: conversationID, Messages: msgs, Err: err}
	}
}

func (a *App) feedbackCmd(localID string, kind api.FeedbackKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return feedbackSentMsg{Kind: kind, Err: a.dispatcher.RecordFeedback(ctx, localID, kind)}
	}
}

// exportCmd writes the current conversation to a transcript file. A saved
// conversation is re-fetched so the export matches the server; an unsaved
// one is written from the in-memory transcript.
func (a *App) exportCmd(title string, msgs []model.Message) tea.Cmd {
	opts := &export.Options{OutputDir: a.cfg.Export.OutputDir}
	return func() tea.Msg {
		if id := a.conversations.ActiveID(); id != 0 {
			ctx, cancel := withTimeout()
			defer cancel()
			path, err := a.conversations.Export(ctx, id, export.FormatText, opts)
			return exportDoneMsg{Path: path, Err: err}
		}
		path, err := export.ToFile(export.FormatText, title, msgs, opts)
		return exportDoneMsg{Path: path, Err: err}
	}
}

// =============================================================================
// SIDEBAR COMMANDS
// =============================================================================

func (a *App) refreshConversationsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return conversationsMsg{Err: a.conversations.Refresh(ctx)}
	}
}

func (a *App) searchConversationsCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return conversationsMsg{Err: a.conversations.Search(ctx, query)}
	}
}

// =============================================================================
// STATS COMMANDS
// =============================================================================

// startStatsLoop supersedes any running stats poll loop and starts a fresh
// one. Ticks from the old loop carry a stale ID and are dropped, so
// navigating in and out of chat never multiplies the 30-second polls.
func (a *App) startStatsLoop() tea.Cmd {
	a.statsTickID++
	return a.statsTickCmd(a.statsTickID)
}

func (a *App) statsTickCmd(id int) tea.Cmd {
	return tea.Tick(a.stats.Interval(), func(time.Time) tea.Msg {
		return statsTickMsg{ID: id}
	})
}

func (a *App) refreshStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return statsRefreshedMsg{Err: a.stats.Refresh(ctx)}
	}
}

func (a *App) fetchChartsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		charts, err := stats.FetchCharts(ctx, a.client)
		return chartsMsg{Charts: charts, Err: err}
	}
}

// =============================================================================
// ADMIN COMMANDS
// =============================================================================

func (a *App) adminOverviewCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		overview, err := a.admin.Overview(ctx)
		return adminOverviewMsg{Overview: overview, Err: err}
	}
}

func (a *App) adminUsersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return adminUsersMsg{Err: a.admin.RefreshUsers(ctx)}
	}
}

func (a *App) adminUserDetailCmd(userID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		detail, err := a.admin.UserDetail(ctx, userID)
		return adminUserDetailMsg{Detail: detail, Err: err}
	}
}

func (a *App) adminToggleCmd(userID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return adminUsersMsg{Err: a.admin.ToggleActive(ctx, userID)}
	}
}

func (a *App) adminDeleteCmd(userID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return adminUsersMsg{Err: a.admin.DeleteUser(ctx, userID)}
	}
}

// =============================================================================
// NOTICES
// =============================================================================

// noticeDuration is how long a transient notice stays on the status line.
const noticeDuration = 3 * time.Second

func clearNoticeCmd(id int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{ID: id}
	})
}
