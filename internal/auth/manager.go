// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/model"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the session lifecycle state.
type State int

const (
	// StateAnonymous means no valid session exists.
	StateAnonymous State = iota

	// StateAuthenticating means a login, registration or session restore is
	// in flight.
	StateAuthenticating

	// StateAuthenticated means a user is logged in and the token pair is
	// valid as of the last profile check.
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Fallback messages when the server does not supply one.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgRegistrationFailed = "Registration failed"
	msgGoogleLoginFailed  = "Google login failed"
	msgNetworkError       = "Network error. Please try again."
)

// Result is the outcome of an authentication attempt. Exactly one of the
// failure channels is populated on failure: FieldErrors for field-scoped
// validation problems, Message for everything else.
type Result struct {
	OK          bool
	User        model.User
	Message     string
	FieldErrors map[string][]string
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// SessionManager owns the session lifecycle: restoring a persisted session
// at startup, logging in and out, and exposing the current user. It is safe
// for concurrent use; the UI calls it from command goroutines.
//
// The manager's TokenStore is the api.TokenSource wired into the API client,
// so a login or logout is visible to every subsequent request.
type SessionManager struct {
	mu     sync.RWMutex
	client *api.Client
	tokens *TokenStore
	state  State
	user   model.User
}

// NewSessionManager creates a manager over the given client and token store.
func NewSessionManager(client *api.Client, tokens *TokenStore) *SessionManager {
	return &SessionManager{
		client: client,
		tokens: tokens,
		state:  StateAnonymous,
	}
}

// Tokens returns the underlying token store.
func (m *SessionManager) Tokens() *TokenStore {
	return m.tokens
}

// State returns the current session state.
func (m *SessionManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns the logged-in user. The zero User is returned when
// anonymous.
func (m *SessionManager) CurrentUser() model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsAuthenticated reports whether a user is logged in.
func (m *SessionManager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// IsStaff reports whether the logged-in user has staff privileges.
func (m *SessionManager) IsStaff() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated && m.user.IsStaff
}

// AccessToken implements api.TokenSource by delegating to the token store.
func (m *SessionManager) AccessToken() string {
	return m.tokens.AccessToken()
}

// LoadSession restores a persisted session at startup. When a token pair is
// on disk, the profile endpoint decides whether it is still valid; any
// failure purges both tokens and leaves the session anonymous. Restore
// failures are not surfaced as errors, the user just logs in again.
func (m *SessionManager) LoadSession(ctx context.Context) Result {
	if err := m.tokens.Load(); err != nil {
		// Unreadable token file is treated like no session.
		m.tokens.Clear()
		return Result{}
	}
	if !m.tokens.HasTokens() {
		return Result{}
	}

	m.setState(StateAuthenticating)

	user, err := m.client.Profile(ctx)
	if err != nil {
		// Expired, revoked, banned or unreachable: the pair is useless
		// either way, purge it whole.
		m.tokens.Clear()
		m.setAnonymous()
		return Result{}
	}

	m.setAuthenticated(*user)
	return Result{OK: true, User: *user}
}

// Login authenticates with a username and password.
func (m *SessionManager) Login(ctx context.Context, username, password string) Result {
	m.setState(StateAuthenticating)

	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.setAnonymous()
		message := api.ServerMessage(err)
		if message == "" {
			message = msgInvalidCredentials
		}
		return Result{Message: message}
	}

	return m.establish(resp)
}

// Register creates a new account and logs it in. Field-scoped validation
// failures come back in Result.FieldErrors.
func (m *SessionManager) Register(ctx context.Context, req api.RegisterRequest) Result {
	m.setState(StateAuthenticating)

	resp, err := m.client.Register(ctx, req)
	if err != nil {
		m.setAnonymous()

		if fields := api.FieldErrors(err); fields != nil {
			return Result{FieldErrors: fields}
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			message := apiErr.Message
			if message == "" {
				message = msgRegistrationFailed
			}
			return Result{Message: message}
		}
		return Result{Message: msgNetworkError}
	}

	return m.establish(resp)
}

// GoogleLogin authenticates with a Google ID token.
func (m *SessionManager) GoogleLogin(ctx context.Context, idToken string) Result {
	m.setState(StateAuthenticating)

	resp, err := m.client.GoogleLogin(ctx, idToken)
	if err != nil {
		m.setAnonymous()
		message := api.ServerMessage(err)
		if message == "" {
			message = msgGoogleLoginFailed
		}
		return Result{Message: message}
	}

	return m.establish(resp)
}

// Logout ends the session: both tokens are purged and the state returns to
// anonymous. Logout is local only, there is no server call to fail.
func (m *SessionManager) Logout() {
	m.tokens.Clear()
	m.setAnonymous()
}

// establish persists the token pair from a successful auth response and
// moves the session to authenticated. A persistence failure does not abort
// the login; the session just will not survive a restart.
func (m *SessionManager) establish(resp *api.AuthResponse) Result {
	if err := m.tokens.Save(resp.Tokens); err != nil {
		log.Printf("failed to persist tokens: %v", err)
	}
	m.setAuthenticated(resp.User)
	return Result{OK: true, User: resp.User}
}

func (m *SessionManager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *SessionManager) setAuthenticated(user model.User) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = user
	m.mu.Unlock()
}

func (m *SessionManager) setAnonymous() {
	m.mu.Lock()
	m.state = StateAnonymous
	m.user = model.User{}
	m.mu.Unlock()
}
