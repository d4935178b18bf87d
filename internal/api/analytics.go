// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "context"

// =============================================================================
// ANALYTICS ENDPOINTS
// =============================================================================

// TodayStats is the rolling daily slice of the usage dashboard. The change
// fields are percentages relative to the previous day.
type TodayStats struct {
	Messages           int     `json:"messages"`
	MessageChange      float64 `json:"message_change"`
	ActiveUsers        int     `json:"active_users"`
	Conversations      int     `json:"conversations"`
	ConversationChange float64 `json:"conversation_change"`
}

// OverallStats is the all-time slice of the usage dashboard.
type OverallStats struct {
	TotalUsers            int     `json:"total_users"`
	TotalMessages         int     `json:"total_messages"`
	TotalConversations    int     `json:"total_conversations"`
	AvgConversationLength float64 `json:"avg_conversation_length"`
}

// DashboardStats is the payload of the analytics dashboard endpoint.
type DashboardStats struct {
	Today   TodayStats   `json:"today"`
	Overall OverallStats `json:"overall"`
}

// DashboardStats fetches the global usage stats shown in the chat header.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var resp struct {
		Success bool           `json:"success"`
		Stats   DashboardStats `json:"stats"`
	}
	if err := c.get(ctx, "/api/analytics/dashboard/", &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// WeeklyPoint is one day of the seven-day activity chart.
type WeeklyPoint struct {
	Day           string `json:"day"`
	Messages      int    `json:"messages"`
	Conversations int    `json:"conversations"`
}

// WeeklyChart fetches the last seven days of message and conversation counts.
func (c *Client) WeeklyChart(ctx context.Context) ([]WeeklyPoint, error) {
	var resp struct {
		Success   bool          `json:"success"`
		ChartData []WeeklyPoint `json:"chart_data"`
	}
	if err := c.get(ctx, "/api/analytics/weekly-chart/", &resp); err != nil {
		return nil, err
	}
	return resp.ChartData, nil
}

// IntentStat is the aggregate for one detected intent.
type IntentStat struct {
	Intent        string  `json:"intent"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Intents fetches the intent distribution across all messages.
func (c *Client) Intents(ctx context.Context) ([]IntentStat, error) {
	var resp struct {
		Success bool         `json:"success"`
		Intents []IntentStat `json:"intents"`
	}
	if err := c.get(ctx, "/api/analytics/intents/", &resp); err != nil {
		return nil, err
	}
	return resp.Intents, nil
}
