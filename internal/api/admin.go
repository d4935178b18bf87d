// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/chatterm/internal/model"
)

// =============================================================================
// ADMIN ENDPOINTS (staff only)
// =============================================================================

// The admin API is mounted under the chatbot prefix, so the paths below
// really do contain "api" twice.

// totalCount is the {"total": N} shape the admin dashboard uses per entity.
type totalCount struct {
	Total int `json:"total"`
}

// AdminDashboard is the payload of the admin dashboard endpoint.
type AdminDashboard struct {
	Users         totalCount `json:"users"`
	Messages      totalCount `json:"messages"`
	Conversations totalCount `json:"conversations"`
}

// TotalUsers returns the total registered user count.
func (d AdminDashboard) TotalUsers() int { return d.Users.Total }

// TotalMessages returns the total message count.
func (d AdminDashboard) TotalMessages() int { return d.Messages.Total }

// TotalConversations returns the total conversation count.
func (d AdminDashboard) TotalConversations() int { return d.Conversations.Total }

// AdminDashboard fetches the service-wide totals. Requires a staff account;
// non-staff callers get ErrForbidden.
func (c *Client) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	var resp AdminDashboard
	if err := c.get(ctx, "/api/chatbot/api/admin/dashboard/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminListUsers fetches every registered account.
func (c *Client) AdminListUsers(ctx context.Context) ([]model.User, error) {
	var resp struct {
		Users []model.User `json:"users"`
	}
	if err := c.get(ctx, "/api/chatbot/api/admin/users/", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// AdminUserDetail is a single account with its usage counters.
type AdminUserDetail struct {
	User          model.User `json:"user"`
	Conversations int        `json:"conversation_count"`
	Messages      int        `json:"message_count"`
}

// AdminGetUser fetches one account's detail view.
func (c *Client) AdminGetUser(ctx context.Context, userID int64) (*AdminUserDetail, error) {
	var resp AdminUserDetail
	path := fmt.Sprintf("/api/chatbot/api/admin/users/%d/", userID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminToggleUser flips an account between active and banned.
func (c *Client) AdminToggleUser(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/api/chatbot/api/admin/users/%d/toggle/", userID)
	return c.post(ctx, path, struct{}{}, nil)
}

// AdminDeleteUser permanently removes an account.
func (c *Client) AdminDeleteUser(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/api/chatbot/api/admin/users/%d/delete/", userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
