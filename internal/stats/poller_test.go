// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jeranaias/chatterm/internal/api"
)

func statsJSON(messages int) string {
	return fmt.Sprintf(`{"success": true, "stats": {
		"today": {"messages": %d, "active_users": 2},
		"overall": {"total_users": 10, "total_messages": 100, "total_conversations": 20}
	}}`, messages)
}

func TestRefreshStoresSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statsJSON(7)))
	}))
	defer srv.Close()

	p := NewPoller(api.NewClient(srv.URL, api.StaticToken("tok")))

	if _, ok := p.Latest(); ok {
		t.Fatal("Latest should report false before the first refresh")
	}
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap, ok := p.Latest()
	if !ok {
		t.Fatal("Latest = false after refresh")
	}
	if snap.Today.Messages != 7 {
		t.Errorf("Today.Messages = %d", snap.Today.Messages)
	}
}

func TestStaleRefreshDropped(t *testing.T) {
	var calls atomic.Int64
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstArrived)
			<-releaseFirst
			w.Write([]byte(statsJSON(1)))
			return
		}
		w.Write([]byte(statsJSON(2)))
	}))
	defer srv.Close()

	p := NewPoller(api.NewClient(srv.URL, api.StaticToken("tok")))

	done := make(chan error, 1)
	go func() {
		done <- p.Refresh(context.Background())
	}()
	<-firstArrived

	// A newer refresh completes while the first is stalled.
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	close(releaseFirst)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	snap, ok := p.Latest()
	if !ok {
		t.Fatal("Latest = false")
	}
	// The stalled first response must not overwrite the newer snapshot.
	if snap.Today.Messages != 2 {
		t.Errorf("Today.Messages = %d, want 2", snap.Today.Messages)
	}
}

func TestFetchCharts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analytics/weekly-chart/":
			w.Write([]byte(`{"success": true, "chart_data": [{"day": "Mon", "messages": 4, "conversations": 1}]}`))
		case "/api/analytics/intents/":
			w.Write([]byte(`{"success": true, "intents": [{"intent": "greeting", "count": 9, "avg_confidence": 0.93}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	charts, err := FetchCharts(context.Background(), api.NewClient(srv.URL, api.StaticToken("tok")))
	if err != nil {
		t.Fatalf("FetchCharts: %v", err)
	}
	if len(charts.Weekly) != 1 || charts.Weekly[0].Day != "Mon" {
		t.Errorf("Weekly = %+v", charts.Weekly)
	}
	if len(charts.Intents) != 1 || charts.Intents[0].Intent != "greeting" {
		t.Errorf("Intents = %+v", charts.Intents)
	}
}
