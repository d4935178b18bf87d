// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello")

	if m.Type != TypeUser {
		t.Errorf("Type = %v, want %v", m.Type, TypeUser)
	}
	if m.Content != "hello" {
		t.Errorf("Content = %q, want %q", m.Content, "hello")
	}
	if m.LocalID == "" {
		t.Error("LocalID should be set")
	}
	if m.HasServerID() {
		t.Error("optimistic message should not have a server ID")
	}
}

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short content", "hi", 10, "hi"},
		{"exact length", "hello", 5, "hello"},
		{"truncated", "hello world, how are you", 10, "hello w..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Message{Content: tc.content}
			if got := m.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestMessageTypeDisplayName(t *testing.T) {
	if got := TypeUser.DisplayName(); got != "You" {
		t.Errorf("TypeUser.DisplayName() = %q", got)
	}
	if got := TypeBot.DisplayName(); got != "Assistant" {
		t.Errorf("TypeBot.DisplayName() = %q", got)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversationPreview(t *testing.T) {
	c := Conversation{MessageCount: 4}
	if got := c.Preview(); got != "4 messages" {
		t.Errorf("Preview() = %q, want %q", got, "4 messages")
	}

	// Search results carry a snippet of the matched message instead.
	c.MatchedMessage = "refund policy"
	if got := c.Preview(); got != "refund policy" {
		t.Errorf("Preview() = %q, want %q", got, "refund policy")
	}
}

func TestConversationDisplayTitle(t *testing.T) {
	c := Conversation{}
	if got := c.DisplayTitle(); got != "New Conversation" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	c.Title = "Shipping question"
	if got := c.DisplayTitle(); got != "Shipping question" {
		t.Errorf("DisplayTitle() = %q", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscriptAppendAndReconcile(t *testing.T) {
	tr := NewTranscript(nil)

	localID := tr.AppendOptimistic(NewUserMessage("first"))
	tr.AppendOptimistic(NewBotMessage(9, "reply", "greeting", 0.9, time.Now()))

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}

	if !tr.Reconcile(localID, 42) {
		t.Fatal("Reconcile should find the optimistic message")
	}

	msgs := tr.Messages()
	if msgs[0].ID != 42 {
		t.Errorf("reconciled ID = %d, want 42", msgs[0].ID)
	}
	if msgs[0].Content != "first" {
		t.Errorf("content changed during reconcile: %q", msgs[0].Content)
	}
	// Order must be preserved.
	if msgs[1].Content != "reply" {
		t.Errorf("messages reordered: %q", msgs[1].Content)
	}
}

func TestTranscriptReconcileUnknownLocalID(t *testing.T) {
	tr := NewTranscript(nil)
	tr.AppendOptimistic(NewUserMessage("hello"))

	if tr.Reconcile("no-such-id", 7) {
		t.Error("Reconcile should report false for an unknown local ID")
	}
}

func TestTranscriptMessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript([]Message{NewUserMessage("hi")})

	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	if got, _ := tr.Last(); got.Content != "hi" {
		t.Errorf("transcript mutated through returned slice: %q", got.Content)
	}
}

func TestTranscriptClear(t *testing.T) {
	tr := NewTranscript([]Message{NewUserMessage("a"), NewUserMessage("b")})
	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("Len() after Clear = %d", tr.Len())
	}
	if _, ok := tr.Last(); ok {
		t.Error("Last() should report false after Clear")
	}
}

func TestUserDisplayName(t *testing.T) {
	u := User{Username: "amy42", FirstName: "Amy"}
	if got := u.DisplayName(); got != "Amy" {
		t.Errorf("DisplayName() = %q", got)
	}
	u.FirstName = ""
	if got := u.DisplayName(); got != "amy42" {
		t.Errorf("DisplayName() = %q", got)
	}
}
