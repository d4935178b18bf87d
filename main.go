// chatterm - a terminal client for the chat assistant service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/admin"
	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/auth"
	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/conversation"
	"github.com/jeranaias/chatterm/internal/stats"
	"github.com/jeranaias/chatterm/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Printf("chatterm %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	tokenPath, err := cfg.TokenPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving token path: %v\n", err)
		os.Exit(1)
	}
	tokens := auth.NewTokenStore(tokenPath)
	if err := tokens.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load saved session: %v\n", err)
	}

	client := api.NewClient(cfg.API.BaseURL, tokens).
		WithTimeout(cfg.Timeout())

	session := auth.NewSessionManager(client, tokens)
	conversations := conversation.NewStore(client)
	dispatcher := chat.NewDispatcher(client, conversations)
	poller := stats.NewPoller(client)
	adminSvc := admin.NewService(client)

	app := ui.New(cfg, client, session, conversations, dispatcher, poller, adminSvc)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chatterm: %v\n", err)
		os.Exit(1)
	}
}
