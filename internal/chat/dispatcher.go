// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives the send pipeline of the active conversation: the
// optimistic local insert, the network round trip, and the fallback reply
// when the round trip fails.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/conversation"
	"github.com/jeranaias/chatterm/internal/model"
)

// ErrSendPending is returned when a send is attempted while another is
// still in flight. Only one send runs at a time.
var ErrSendPending = errors.New("a send is already in flight")

// ErrEmptyMessage is returned when a send is attempted with no content
// after trimming. Empty sends never reach the transcript or the network.
var ErrEmptyMessage = errors.New("message is empty")

// Dispatcher owns the transcript of the active conversation and serializes
// sends against it. The user message is appended before the network round
// trip; the reply (or the canned fallback on failure) is appended after.
// Messages already shown are never removed by a failure.
//
// Safe for concurrent use; sends run on command goroutines.
type Dispatcher struct {
	mu         sync.Mutex
	client     *api.Client
	convs      *conversation.Store
	transcript *model.Transcript
	pending    bool
}

// NewDispatcher creates a dispatcher with an empty transcript.
func NewDispatcher(client *api.Client, convs *conversation.Store) *Dispatcher {
	return &Dispatcher{
		client:     client,
		convs:      convs,
		transcript: model.NewTranscript(nil),
	}
}

// Messages returns a copy of the transcript in chronological order.
func (d *Dispatcher) Messages() []model.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transcript.Messages()
}

// Len returns the transcript length.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transcript.Len()
}

// Pending reports whether a send is in flight. The input stays disabled
// while this is true.
func (d *Dispatcher) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// AppendOptimistic inserts the user message into the transcript and claims
// the send slot. It returns the message's local ID for the Dispatch call
// that follows, ErrEmptyMessage when the content is blank after trimming,
// or ErrSendPending when another send is still in flight.
//
// Called synchronously from the update loop so the message is on screen
// before any network traffic starts.
func (d *Dispatcher) AppendOptimistic(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyMessage
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending {
		return "", ErrSendPending
	}
	d.pending = true
	return d.transcript.AppendOptimistic(model.NewUserMessage(content)), nil
}

// Dispatch performs the network round trip for a message previously inserted
// with AppendOptimistic. On success the optimistic message is reconciled
// with its server ID, a new conversation ID is handed to the conversation
// store, and the bot reply is appended. On failure the canned fallback reply
// is appended instead and the error is returned for logging; the user's
// message stays.
func (d *Dispatcher) Dispatch(ctx context.Context, content, localID string) error {
	resp, err := d.client.SendMessage(ctx, content, d.convs.ActiveID())

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.containsLocked(localID) {
		// The transcript was cleared or replaced while the send was in
		// flight, so the reply belongs to a conversation the user has left.
		// The completion is dropped whole: no conversation adoption, no
		// reconcile, no appended reply.
		return nil
	}
	d.pending = false

	if err != nil {
		d.transcript.AppendOptimistic(model.NewFallbackBotMessage())
		return err
	}

	if resp.UserMessageID != 0 {
		d.transcript.Reconcile(localID, resp.UserMessageID)
	}
	if d.convs.ActiveID() == 0 && resp.ConversationID != 0 {
		d.convs.SetActive(resp.ConversationID)
	}

	b := resp.BotMessage
	d.transcript.AppendOptimistic(model.NewBotMessage(b.ID, b.Content, b.Intent, b.Confidence, b.Timestamp))
	return nil
}

// containsLocked reports whether the transcript still holds the message
// with the given local ID. A Dispatch whose optimistic message is gone was
// invalidated by Clear or LoadHistory while it was in flight. Callers must
// hold mu.
func (d *Dispatcher) containsLocked(localID string) bool {
	for _, m := range d.transcript.Messages() {
		if m.LocalID == localID {
			return true
		}
	}
	return false
}

// LoadHistory replaces the transcript with a selected conversation's
// history. An in-flight send is invalidated: its completion will be
// dropped, and the send slot is released for the new conversation.
func (d *Dispatcher) LoadHistory(msgs []model.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transcript = model.NewTranscript(msgs)
	d.pending = false
}

// Clear empties the transcript and detaches from the active conversation,
// so the next send starts a fresh one. An in-flight send is invalidated:
// its completion will be dropped, and the send slot is released.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.transcript.Clear()
	d.pending = false
	d.mu.Unlock()
	d.convs.StartNew()
}

// RecordFeedback rates the bot message with the given local ID. Messages
// without a server ID cannot be rated; that case is a silent no-op, matching
// the fallback reply which never reaches the server.
func (d *Dispatcher) RecordFeedback(ctx context.Context, localID string, kind api.FeedbackKind) error {
	d.mu.Lock()
	var target model.Message
	found := false
	for _, m := range d.transcript.Messages() {
		if m.LocalID == localID {
			target = m
			found = true
			break
		}
	}
	d.mu.Unlock()

	if !found || !target.HasServerID() {
		return nil
	}
	return d.client.SendFeedback(ctx, target.ID, kind)
}
