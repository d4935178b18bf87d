// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/chatterm/internal/model"
)

// =============================================================================
// CONVERSATION ENDPOINTS
// =============================================================================

// ListConversations fetches the user's conversation summaries in server
// order. The list endpoint returns a bare JSON array, no envelope. The
// client never re-sorts it.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var list []model.Conversation
	if err := c.get(ctx, "/api/chatbot/conversations/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// searchResponse is the search envelope. Unlike the list endpoint, search
// wraps its hits in a "results" field.
type searchResponse struct {
	Success bool                 `json:"success"`
	Results []model.Conversation `json:"results"`
}

// SearchConversations fetches the summaries whose messages match the query.
// Results carry MatchedMessage snippets.
func (c *Client) SearchConversations(ctx context.Context, query string) ([]model.Conversation, error) {
	path := "/api/chatbot/search/?q=" + url.QueryEscape(query)
	var resp searchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// messagePayload is a stored message on the wire. The server calls the
// author field "message_type"; the client maps it onto model.Message and
// assigns a fresh local ID.
type messagePayload struct {
	ID          int64     `json:"id"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	Intent      string    `json:"intent"`
	Confidence  float64   `json:"confidence"`
	Timestamp   time.Time `json:"timestamp"`
}

// conversationDetailResponse is the detail endpoint payload.
type conversationDetailResponse struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"created_at"`
	Messages  []messagePayload `json:"messages"`
}

// GetConversation fetches a conversation with its full message history in
// chronological order.
func (c *Client) GetConversation(ctx context.Context, id int64) (*model.ConversationDetail, error) {
	var resp conversationDetailResponse
	path := fmt.Sprintf("/api/chatbot/conversations/%d/", id)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	detail := &model.ConversationDetail{
		ID:        resp.ID,
		Title:     resp.Title,
		CreatedAt: resp.CreatedAt,
		Messages:  make([]model.Message, 0, len(resp.Messages)),
	}
	for _, m := range resp.Messages {
		detail.Messages = append(detail.Messages, model.Message{
			LocalID:    uuid.NewString(),
			ID:         m.ID,
			Type:       model.MessageType(m.MessageType),
			Content:    m.Content,
			Intent:     m.Intent,
			Confidence: m.Confidence,
			Timestamp:  m.Timestamp,
		})
	}
	return detail, nil
}
