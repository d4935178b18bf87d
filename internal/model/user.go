// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages exchanged with the chatbot service.
package model

// User is the authenticated account as returned by the profile endpoint.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
}

// DisplayName returns the name to greet the user with: the first name when
// set, otherwise the username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
