// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation maintains the sidebar conversation list and its
// search state, and tracks which conversation the chat view has open.
package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/export"
	"github.com/jeranaias/chatterm/internal/model"
)

// minSearchLength is the query length below which search mode is left and
// the plain list is shown again.
const minSearchLength = 2

// Store holds the conversation summaries shown in the sidebar. Fetches run
// on command goroutines; every fetch is stamped with a monotonically
// increasing sequence number and a response is dropped when a newer fetch
// has started since, so a slow early response can never clobber the result
// of a later one.
type Store struct {
	mu     sync.Mutex
	client *api.Client

	list    []model.Conversation
	results []model.Conversation

	searching bool
	query     string

	issued  uint64
	applied uint64

	activeID int64
}

// NewStore creates a store over the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// begin stamps a new fetch and returns its sequence number.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// currentLocked reports whether seq is still the newest fetch and has not
// been superseded by an applied one. Callers must hold mu.
func (s *Store) currentLocked(seq uint64) bool {
	return seq == s.issued && seq > s.applied
}

// Refresh fetches the conversation list. Server order is preserved; the
// store never re-sorts.
func (s *Store) Refresh(ctx context.Context) error {
	seq := s.begin()

	convs, err := s.client.ListConversations(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(seq) {
		return nil
	}
	s.applied = seq
	s.list = convs
	return nil
}

// Search fetches the summaries matching query. A query shorter than two
// characters after trimming leaves search mode instead and shows the plain
// list again, without a network call.
func (s *Store) Search(ctx context.Context, query string) error {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < minSearchLength {
		s.mu.Lock()
		s.searching = false
		s.query = ""
		s.results = nil
		s.mu.Unlock()
		return nil
	}

	seq := s.begin()

	convs, err := s.client.SearchConversations(ctx, trimmed)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(seq) {
		return nil
	}
	s.applied = seq
	s.searching = true
	s.query = trimmed
	s.results = convs
	return nil
}

// IsSearching reports whether the visible list is search results.
func (s *Store) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Query returns the active search query, or "" outside search mode.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Visible returns a copy of the list the sidebar should render: search
// results in search mode, the plain list otherwise.
func (s *Store) Visible() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.list
	if s.searching {
		src = s.results
	}
	out := make([]model.Conversation, len(src))
	copy(out, src)
	return out
}

// Select opens a conversation: it fetches the full detail, marks the
// conversation active and hands the message history to the caller for the
// chat transcript.
func (s *Store) Select(ctx context.Context, id int64) ([]model.Message, error) {
	detail, err := s.client.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.activeID = detail.ID
	s.mu.Unlock()
	return detail.Messages, nil
}

// Export fetches the full conversation detail and writes it to a transcript
// file in the given format. The export is independent of the live chat
// state: any conversation can be exported, open or not.
func (s *Store) Export(ctx context.Context, id int64, format export.Format, opts *export.Options) (string, error) {
	detail, err := s.client.GetConversation(ctx, id)
	if err != nil {
		return "", err
	}
	title := detail.Title
	if title == "" {
		title = "Conversation"
	}
	return export.ToFile(format, title, detail.Messages, opts)
}

// ActiveID returns the open conversation's ID, or zero when the chat view
// is on a fresh unsaved conversation.
func (s *Store) ActiveID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive records the conversation the chat view now has open. Used when
// the server creates a conversation on the first send.
func (s *Store) SetActive(id int64) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

// StartNew switches to a fresh unsaved conversation.
func (s *Store) StartNew() {
	s.mu.Lock()
	s.activeID = 0
	s.mu.Unlock()
}
