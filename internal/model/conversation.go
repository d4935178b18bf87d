// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// =============================================================================
// CONVERSATION SUMMARY
// =============================================================================

// Conversation is a sidebar summary of a conversation. MatchedMessage is only
// populated on search results and holds a snippet of the message that matched
// the query.
type Conversation struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	MatchedMessage string    `json:"matched_message,omitempty"`
}

// Preview returns the sidebar subtitle: the matched message snippet when the
// summary came from a search, otherwise the message count.
func (c Conversation) Preview() string {
	if c.MatchedMessage != "" {
		return c.MatchedMessage
	}
	return fmt.Sprintf("%d messages", c.MessageCount)
}

// DisplayTitle returns the title, falling back to a placeholder for
// conversations the server has not titled yet.
func (c Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// CONVERSATION DETAIL
// =============================================================================

// ConversationDetail is the full conversation as returned by the detail
// endpoint, including its message history in chronological order.
type ConversationDetail struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}
