// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/admin"
	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/auth"
	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/conversation"
	"github.com/jeranaias/chatterm/internal/stats"
)

// newTestApp builds an App wired to an httptest server.
func newTestApp(t *testing.T, handler http.Handler) *App {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.API.BaseURL = server.URL

	tokens := auth.NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	client := api.NewClient(server.URL, tokens)
	session := auth.NewSessionManager(client, tokens)
	convs := conversation.NewStore(client)
	dispatcher := chat.NewDispatcher(client, convs)
	poller := stats.NewPoller(client)
	adminSvc := admin.NewService(client)

	return New(cfg, client, session, convs, dispatcher, poller, adminSvc)
}

// loginAs logs the session in through a one-shot auth server and reports the
// result to the app, the way the login command does at runtime.
func loginAs(t *testing.T, a *App, staff bool) {
	t.Helper()

	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"tokens":  map[string]string{"access": "acc", "refresh": "ref"},
			"user": map[string]any{
				"id": 7, "username": "casey", "is_staff": staff, "is_active": true,
			},
		})
	}))
	defer authServer.Close()

	tokens := a.session.Tokens()
	client := api.NewClient(authServer.URL, tokens)
	session := auth.NewSessionManager(client, tokens)
	res := session.Login(context.Background(), "casey", "pw")
	if !res.OK {
		t.Fatalf("test login failed: %s", res.Message)
	}
	a.session = session

	a.Update(authResultMsg{Result: res})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]any{})
	})
}

// =============================================================================
// VIEW TRANSITIONS
// =============================================================================

func TestStartsOnLanding(t *testing.T) {
	a := newTestApp(t, okHandler())
	if a.CurrentView() != ViewLanding {
		t.Errorf("initial view = %v, want landing", a.CurrentView())
	}
}

func TestFailedRestoreStaysOnLanding(t *testing.T) {
	a := newTestApp(t, okHandler())

	a.Update(sessionRestoredMsg{Result: auth.Result{OK: false}})

	if a.CurrentView() != ViewLanding {
		t.Errorf("view after failed restore = %v, want landing", a.CurrentView())
	}
	if a.restoring {
		t.Error("restoring flag still set")
	}
}

func TestLoginNavigatesToChat(t *testing.T) {
	a := newTestApp(t, okHandler())

	loginAs(t, a, false)

	if a.CurrentView() != ViewChat {
		t.Errorf("view after login = %v, want chat", a.CurrentView())
	}
}

func TestFailedLoginStaysOnAuth(t *testing.T) {
	a := newTestApp(t, okHandler())
	a.navigate(ViewAuth)

	a.Update(authResultMsg{Result: auth.Result{OK: false, Message: "Invalid credentials"}})

	if a.CurrentView() != ViewAuth {
		t.Errorf("view after failed login = %v, want auth", a.CurrentView())
	}
	if a.auth.formError != "Invalid credentials" {
		t.Errorf("formError = %q", a.auth.formError)
	}
}

func TestRegisterFieldErrorsReachForm(t *testing.T) {
	a := newTestApp(t, okHandler())
	a.navigate(ViewAuth)
	a.auth.setTab(authTabRegister)

	a.Update(authResultMsg{Result: auth.Result{
		OK:          false,
		FieldErrors: map[string][]string{"email": {"Enter a valid email address."}},
	}})

	if got := a.auth.fieldErrors["email"]; len(got) != 1 {
		t.Fatalf("fieldErrors[email] = %v", got)
	}
}

// =============================================================================
// ADMIN GATING
// =============================================================================

func TestAdminGatedForNonStaff(t *testing.T) {
	a := newTestApp(t, okHandler())
	loginAs(t, a, false)

	a.navigate(ViewAdmin)

	if a.CurrentView() != ViewChat {
		t.Errorf("view = %v, non-staff must not reach admin", a.CurrentView())
	}
	if a.notice == "" {
		t.Error("expected a notice explaining the denial")
	}
}

func TestAdminOpensForStaff(t *testing.T) {
	a := newTestApp(t, okHandler())
	loginAs(t, a, true)

	a.navigate(ViewAdmin)

	if a.CurrentView() != ViewAdmin {
		t.Errorf("view = %v, want admin", a.CurrentView())
	}
}

func TestAdminStickyAcrossAuthReevaluation(t *testing.T) {
	a := newTestApp(t, okHandler())
	loginAs(t, a, true)
	a.navigate(ViewAdmin)

	// A repeated auth success (e.g. a background profile refresh) must not
	// bounce a staff user out of the admin view.
	a.Update(authResultMsg{Result: auth.Result{OK: true, User: a.session.CurrentUser()}})

	if a.CurrentView() != ViewAdmin {
		t.Errorf("view = %v, admin should stay open", a.CurrentView())
	}
}

// =============================================================================
// LOGOUT
// =============================================================================

func TestLogoutReturnsToLanding(t *testing.T) {
	a := newTestApp(t, okHandler())
	loginAs(t, a, false)
	a.chat.setSize(80, 24)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlD})

	if a.CurrentView() != ViewLanding {
		t.Errorf("view after logout = %v, want landing", a.CurrentView())
	}
	if a.session.IsAuthenticated() {
		t.Error("session still authenticated after logout")
	}
	if a.dispatcher.Len() != 0 {
		t.Error("transcript not cleared on logout")
	}
}

func TestChatRequiresAuthentication(t *testing.T) {
	a := newTestApp(t, okHandler())

	a.navigate(ViewChat)

	if a.CurrentView() != ViewAuth {
		t.Errorf("view = %v, unauthenticated chat request should land on auth", a.CurrentView())
	}
}

// =============================================================================
// CHAT INPUT
// =============================================================================

func TestBlankSubmitIsNoop(t *testing.T) {
	a := newTestApp(t, okHandler())
	loginAs(t, a, false)
	a.chat.setSize(80, 24)

	a.chat.input.SetValue("   \t ")
	if cmd := a.chat.submit(a); cmd != nil {
		t.Error("blank submit produced a command")
	}
	if a.dispatcher.Len() != 0 {
		t.Errorf("Len = %d, blank submit must not reach the transcript", a.dispatcher.Len())
	}
	if a.chat.sending {
		t.Error("sending flag set by blank submit")
	}
}

// =============================================================================
// STATS POLLING
// =============================================================================

func TestStatsPollLoopNotDuplicated(t *testing.T) {
	a := newTestApp(t, okHandler())
	loginAs(t, a, true)

	stale := a.statsTickID
	a.navigate(ViewAdmin)
	a.navigate(ViewChat)

	// A tick from the loop started on the first chat entry must not
	// reschedule; otherwise every chat round trip adds a poll loop.
	if _, cmd := a.Update(statsTickMsg{ID: stale}); cmd != nil {
		t.Error("stale stats tick rescheduled itself")
	}

	// The loop started on the latest chat entry keeps running.
	if _, cmd := a.Update(statsTickMsg{ID: a.statsTickID}); cmd == nil {
		t.Error("current stats tick did not reschedule")
	}
}

// =============================================================================
// NOTICES
// =============================================================================

func TestStaleNoticeClearIsIgnored(t *testing.T) {
	a := newTestApp(t, okHandler())

	a.showNotice("first", false)
	stale := a.noticeID
	a.showNotice("second", false)

	a.Update(clearNoticeMsg{ID: stale})
	if a.notice != "second" {
		t.Errorf("notice = %q, stale clear must not remove it", a.notice)
	}

	a.Update(clearNoticeMsg{ID: a.noticeID})
	if a.notice != "" {
		t.Errorf("notice = %q, want cleared", a.notice)
	}
}
