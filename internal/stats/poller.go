// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stats maintains the usage statistics shown in the chat header and
// the analytics dashboard pane.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/chatterm/internal/api"
)

// DefaultInterval is how often the header stats are refreshed.
const DefaultInterval = 30 * time.Second

// Poller fetches the global usage stats on an interval. The UI schedules the
// ticks; the poller just runs the fetches and keeps the latest snapshot.
//
// Like the conversation search, refreshes are stamped with a sequence number
// and a response is dropped when a newer refresh has started since, so the
// header can never flash backwards to an older snapshot.
type Poller struct {
	mu       sync.Mutex
	client   *api.Client
	interval time.Duration

	issued  uint64
	applied uint64

	stats *api.DashboardStats
}

// NewPoller creates a poller with the default interval.
func NewPoller(client *api.Client) *Poller {
	return &Poller{
		client:   client,
		interval: DefaultInterval,
	}
}

// WithInterval sets the refresh interval.
func (p *Poller) WithInterval(interval time.Duration) *Poller {
	p.interval = interval
	return p
}

// Interval returns the refresh interval for the UI's tick scheduling.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Refresh fetches the current stats. A response that arrives after a newer
// refresh has started is dropped.
func (p *Poller) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	stats, err := p.client.DashboardStats(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.issued || seq <= p.applied {
		return nil
	}
	p.applied = seq
	p.stats = stats
	return nil
}

// Latest returns the most recent snapshot, or false when none has been
// fetched yet.
func (p *Poller) Latest() (api.DashboardStats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stats == nil {
		return api.DashboardStats{}, false
	}
	return *p.stats, true
}

// Charts is the one-shot payload for the analytics dashboard pane.
type Charts struct {
	Weekly  []api.WeeklyPoint
	Intents []api.IntentStat
}

// FetchCharts fetches the seven-day activity chart and the intent
// distribution. Fetched once when the pane opens, not polled.
func FetchCharts(ctx context.Context, client *api.Client) (*Charts, error) {
	weekly, err := client.WeeklyChart(ctx)
	if err != nil {
		return nil, err
	}
	intents, err := client.Intents(ctx)
	if err != nil {
		return nil, err
	}
	return &Charts{Weekly: weekly, Intents: intents}, nil
}
