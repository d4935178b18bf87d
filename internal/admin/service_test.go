// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/chatterm/internal/api"
)

func TestToggleRefreshesCache(t *testing.T) {
	banned := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chatbot/api/admin/users/3/toggle/":
			banned = true
			w.Write([]byte(`{"success": true}`))
		case "/api/chatbot/api/admin/users/":
			active := "true"
			if banned {
				active = "false"
			}
			w.Write([]byte(`{"users": [{"id": 3, "username": "amy", "is_active": ` + active + `}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, api.StaticToken("tok")))
	if err := svc.RefreshUsers(context.Background()); err != nil {
		t.Fatalf("RefreshUsers: %v", err)
	}
	if users := svc.Users(); !users[0].IsActive {
		t.Fatal("user should start active")
	}

	if err := svc.ToggleActive(context.Background(), 3); err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	// The cache reflects the mutation without a separate refresh call.
	if users := svc.Users(); users[0].IsActive {
		t.Error("cache not refreshed after toggle")
	}
}

func TestNonStaffForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "staff only"}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, api.StaticToken("tok")))
	if _, err := svc.Overview(context.Background()); !errors.Is(err, api.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}
