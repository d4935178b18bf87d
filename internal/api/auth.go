// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"

	"github.com/jeranaias/chatterm/internal/model"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// TokenPair is the JWT access/refresh pair issued on login and registration.
// The two are always stored and cleared together.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the payload of a successful login, registration or Google
// login.
type AuthResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Tokens  TokenPair  `json:"tokens"`
	User    model.User `json:"user"`
}

// Login exchanges a username and password for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	reqBody := map[string]string{
		"username": username,
		"password": password,
	}
	var resp AuthResponse
	if err := c.post(ctx, "/api/chatbot/users/login/", reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Register creates a new account. Validation failures come back as a
// ValidationError with per-field messages.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/api/chatbot/users/register/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleLogin exchanges a Google ID token for a service token pair.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	reqBody := map[string]string{
		"token": idToken,
	}
	var resp AuthResponse
	if err := c.post(ctx, "/api/chatbot/users/google-login/", reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the account behind the current access token. Used on
// startup to validate a persisted token pair. The endpoint returns the user
// object directly, with no envelope.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/chatbot/users/profile/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
