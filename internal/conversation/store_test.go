// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/export"
)

// listJSON is the list endpoint's bare-array payload.
func listJSON(titles ...string) string {
	items := make([]string, len(titles))
	for i, title := range titles {
		items[i] = fmt.Sprintf(`{"id": %d, "title": %q, "message_count": 1}`, i+1, title)
	}
	return `[` + strings.Join(items, ",") + `]`
}

// searchJSON is the search endpoint's envelope, which wraps hits in
// "results".
func searchJSON(titles ...string) string {
	items := make([]string, len(titles))
	for i, title := range titles {
		items[i] = fmt.Sprintf(`{"id": %d, "title": %q, "message_count": 1}`, i+1, title)
	}
	return `{"success": true, "results": [` + strings.Join(items, ",") + `]}`
}

func TestRefreshPreservesServerOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listJSON("zeta", "alpha", "mid")))
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil))
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	visible := store.Visible()
	if len(visible) != 3 {
		t.Fatalf("len(visible) = %d", len(visible))
	}
	// Server order, never re-sorted.
	want := []string{"zeta", "alpha", "mid"}
	for i, title := range want {
		if visible[i].Title != title {
			t.Errorf("visible[%d].Title = %q, want %q", i, visible[i].Title, title)
		}
	}
}

func TestSearchThreshold(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "search") {
			calls++
			w.Write([]byte(searchJSON("match")))
			return
		}
		w.Write([]byte(listJSON("one", "two")))
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil))
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := store.Search(context.Background(), "refund"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !store.IsSearching() {
		t.Fatal("IsSearching = false after search")
	}
	if got := store.Visible(); len(got) != 1 || got[0].Title != "match" {
		t.Errorf("visible = %+v", got)
	}

	// A query shorter than two characters after trimming leaves search mode
	// without touching the network.
	if err := store.Search(context.Background(), "  a  "); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if store.IsSearching() {
		t.Error("IsSearching = true after short query")
	}
	if got := store.Visible(); len(got) != 2 {
		t.Errorf("visible after leaving search = %+v", got)
	}
	if calls != 1 {
		t.Errorf("search endpoint called %d times, want 1", calls)
	}
}

func TestStaleSearchResponseDropped(t *testing.T) {
	slowArrived := make(chan struct{})
	releaseSlow := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "slow":
			close(slowArrived)
			<-releaseSlow
			w.Write([]byte(searchJSON("stale result")))
		default:
			w.Write([]byte(searchJSON("fresh result")))
		}
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil))

	done := make(chan error, 1)
	go func() {
		done <- store.Search(context.Background(), "slow")
	}()
	<-slowArrived

	// A newer search completes while the first is still in flight.
	if err := store.Search(context.Background(), "fast"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	close(releaseSlow)
	if err := <-done; err != nil {
		t.Fatalf("slow Search: %v", err)
	}

	// The late response must not clobber the newer one.
	visible := store.Visible()
	if len(visible) != 1 || visible[0].Title != "fresh result" {
		t.Errorf("visible = %+v, want the fresh result", visible)
	}
	if store.Query() != "fast" {
		t.Errorf("Query = %q, want %q", store.Query(), "fast")
	}
}

func TestSelectHandsOffHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chatbot/conversations/5/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 5, "title": "Returns",
			"messages": [
				{"message_type": "user", "content": "hi"},
				{"message_type": "bot", "content": "hello", "id": 9}
			]
		}`))
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil))
	msgs, err := store.Select(context.Background(), 5)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(msgs) != 2 || msgs[1].Content != "hello" {
		t.Errorf("msgs = %+v", msgs)
	}
	if store.ActiveID() != 5 {
		t.Errorf("ActiveID = %d", store.ActiveID())
	}
}

func TestExportWritesTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 5, "title": "Returns",
			"messages": [
				{"message_type": "user", "content": "hi", "timestamp": "2025-03-01T10:00:00Z"},
				{"message_type": "bot", "content": "hello", "id": 9, "timestamp": "2025-03-01T10:00:02Z"}
			]
		}`))
	}))
	defer srv.Close()

	store := NewStore(api.NewClient(srv.URL, nil))
	path, err := store.Export(context.Background(), 5, export.FormatText, &export.Options{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "Returns\n") {
		t.Errorf("transcript does not start with the title:\n%s", text)
	}
	if !strings.Contains(text, "[USER]") || !strings.Contains(text, "[BOT]") {
		t.Errorf("transcript missing message type lines:\n%s", text)
	}

	// Any other format is refused without a network fetch result being used.
	if _, err := store.Export(context.Background(), 5, export.Format("pdf"), &export.Options{OutputDir: t.TempDir()}); err == nil {
		t.Error("Export with unsupported format should fail")
	}
}

func TestStartNewClearsActive(t *testing.T) {
	store := NewStore(api.NewClient("http://unused", nil))
	store.SetActive(7)
	store.StartNew()
	if store.ActiveID() != 0 {
		t.Errorf("ActiveID = %d, want 0", store.ActiveID())
	}
}
