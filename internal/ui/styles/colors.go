// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatterm TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Brand and accent colors. Adaptive pairs keep contrast on light terminals.

// Purple is the primary brand color.
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan is used for user-authored content.
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald marks success and positive deltas.
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose marks errors and negative deltas.
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber marks warnings and transient notices.
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Slate is for secondary text.
var Slate = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}

// SlateDim is for borders and separators.
var SlateDim = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
