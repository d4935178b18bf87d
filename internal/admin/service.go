// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin is the staff-only data layer behind the admin view:
// service-wide totals and user management.
package admin

import (
	"context"
	"sync"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/model"
)

// Service wraps the admin endpoints and caches the user list so the table
// can re-render without a fetch. Mutations refresh the cache before
// returning, matching what the table shows to what the server has.
//
// All calls require a staff account; non-staff callers get api.ErrForbidden
// passed through.
type Service struct {
	mu     sync.Mutex
	client *api.Client
	users  []model.User
}

// NewService creates a service over the given API client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Overview fetches the service-wide totals.
func (s *Service) Overview(ctx context.Context) (*api.AdminDashboard, error) {
	return s.client.AdminDashboard(ctx)
}

// RefreshUsers fetches every registered account into the cache.
func (s *Service) RefreshUsers(ctx context.Context) error {
	users, err := s.client.AdminListUsers(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Users returns a copy of the cached user list.
func (s *Service) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// UserDetail fetches one account's detail view.
func (s *Service) UserDetail(ctx context.Context, userID int64) (*api.AdminUserDetail, error) {
	return s.client.AdminGetUser(ctx, userID)
}

// ToggleActive flips an account between active and banned, then refreshes
// the cached list.
func (s *Service) ToggleActive(ctx context.Context, userID int64) error {
	if err := s.client.AdminToggleUser(ctx, userID); err != nil {
		return err
	}
	return s.RefreshUsers(ctx)
}

// DeleteUser permanently removes an account, then refreshes the cached list.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.client.AdminDeleteUser(ctx, userID); err != nil {
		return err
	}
	return s.RefreshUsers(ctx)
}
