// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"time"
)

// =============================================================================
// CHAT ENDPOINT
// =============================================================================

// chatRequest is the send-message payload. ConversationID is a pointer so a
// first message in a fresh conversation serializes as JSON null, which tells
// the server to create a new conversation.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id"`
}

// BotPayload is the assistant reply inside a chat response.
type BotPayload struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatResponse is the payload of a successful send.
type ChatResponse struct {
	Success        bool       `json:"success"`
	ConversationID int64      `json:"conversation_id"`
	UserMessageID  int64      `json:"user_message_id"`
	BotMessage     BotPayload `json:"bot_message"`
}

// SendMessage posts a user message. conversationID zero means "no active
// conversation"; the server creates one and returns its ID.
func (c *Client) SendMessage(ctx context.Context, message string, conversationID int64) (*ChatResponse, error) {
	reqBody := chatRequest{Message: message}
	if conversationID != 0 {
		reqBody.ConversationID = &conversationID
	}

	var resp ChatResponse
	if err := c.post(ctx, "/api/chatbot/chat/", reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FeedbackKind is the rating attached to a bot message.
type FeedbackKind string

const (
	FeedbackPositive FeedbackKind = "positive"
	FeedbackNegative FeedbackKind = "negative"
)

// SendFeedback rates a bot message. The message must have a server ID.
func (c *Client) SendFeedback(ctx context.Context, messageID int64, kind FeedbackKind) error {
	reqBody := map[string]any{
		"message_id":    messageID,
		"feedback_type": string(kind),
	}
	return c.post(ctx, "/api/analytics/feedback/", reqBody, nil)
}
