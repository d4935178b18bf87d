// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageType identifies the author of a message.
type MessageType string

const (
	TypeUser MessageType = "user"
	TypeBot  MessageType = "bot"
)

// String returns the string representation of the type.
func (t MessageType) String() string {
	return string(t)
}

// DisplayName returns a human-readable name for the type.
func (t MessageType) DisplayName() string {
	switch t {
	case TypeUser:
		return "You"
	case TypeBot:
		return "Assistant"
	default:
		return string(t)
	}
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single entry in a conversation transcript.
//
// ID is the server-assigned identifier and is zero until the server has
// acknowledged the message. User-authored messages are inserted optimistically
// and may therefore never receive an ID; only server-owned operations
// (feedback) require one. LocalID is assigned client-side so optimistic
// messages can be addressed before (or without) a server echo.
type Message struct {
	LocalID    string      `json:"local_id"`
	ID         int64       `json:"id,omitempty"`
	Type       MessageType `json:"type"`
	Content    string      `json:"content"`
	Intent     string      `json:"intent,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// NewUserMessage creates an optimistic user message with a fresh local ID
// and the current time. No server ID is set.
func NewUserMessage(content string) Message {
	return Message{
		LocalID:   uuid.NewString(),
		Type:      TypeUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a bot message from a server response payload.
func NewBotMessage(id int64, content, intent string, confidence float64, ts time.Time) Message {
	return Message{
		LocalID:    uuid.NewString(),
		ID:         id,
		Type:       TypeBot,
		Content:    content,
		Intent:     intent,
		Confidence: confidence,
		Timestamp:  ts,
	}
}

// NewFallbackBotMessage creates the bot message shown when a chat request
// fails. It carries no server ID, so feedback on it is a no-op.
func NewFallbackBotMessage() Message {
	return Message{
		LocalID:   uuid.NewString(),
		Type:      TypeBot,
		Content:   FallbackBotContent,
		Timestamp: time.Now(),
	}
}

// FallbackBotContent is the canned reply appended when a send fails. The
// user's message is kept; the conversation stays usable.
const FallbackBotContent = "Sorry, I encountered an error. Please try again."

// HasServerID reports whether the server has assigned this message an ID.
func (m Message) HasServerID() bool {
	return m.ID != 0
}

// Preview returns a truncated single-line preview of the content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}
