// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderStat  lipgloss.Style
	StatUp      lipgloss.Style
	StatDown    lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel    lipgloss.Style
	BotLabel     lipgloss.Style
	Timestamp    lipgloss.Style
	IntentTag    lipgloss.Style
	MessageBody  lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeBody  lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	StatusBar      lipgloss.Style
	Notice         lipgloss.Style
	NoticeError    lipgloss.Style
	Shortcut       lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	ConvItem        lipgloss.Style
	ConvItemActive  lipgloss.Style
	ConvItemPreview lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormTitle  lipgloss.Style
	FieldLabel lipgloss.Style
	FieldError lipgloss.Style
	FormError  lipgloss.Style
	FormHint   lipgloss.Style

	// ==========================================================================
	// TABLE STYLES
	// ==========================================================================

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowSel lipgloss.Style
	BadgeActive lipgloss.Style
	BadgeBanned lipgloss.Style
}

// New constructs the theme. themeName is "dark" or "light"; it overrides
// background detection so output stays stable over SSH and in tests.
func New(themeName string) *Theme {
	isDark := themeName != "light"

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(SlateDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.HeaderStat = lipgloss.NewStyle().Foreground(Slate)
	t.StatUp = lipgloss.NewStyle().Foreground(Emerald)
	t.StatDown = lipgloss.NewStyle().Foreground(Rose)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.BotLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Timestamp = lipgloss.NewStyle().Foreground(Slate)
	t.IntentTag = lipgloss.NewStyle().Foreground(Slate).Italic(true)
	t.MessageBody = lipgloss.NewStyle()
	t.WelcomeTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple).Padding(1, 0, 0, 2)
	t.WelcomeBody = lipgloss.NewStyle().Foreground(Slate).Padding(0, 0, 1, 2)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SlateDim).
		Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().Foreground(Slate)
	t.Notice = lipgloss.NewStyle().Foreground(Amber)
	t.NoticeError = lipgloss.NewStyle().Foreground(Rose)
	t.Shortcut = lipgloss.NewStyle().Foreground(Slate).Faint(true)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(SlateDim).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.ConvItem = lipgloss.NewStyle()
	t.ConvItemActive = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.ConvItemPreview = lipgloss.NewStyle().Foreground(Slate)

	t.FormTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple).MarginBottom(1)
	t.FieldLabel = lipgloss.NewStyle().Foreground(Slate)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose)
	t.FormError = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.FormHint = lipgloss.NewStyle().Foreground(Slate).Faint(true)

	t.TableHeader = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.TableRow = lipgloss.NewStyle()
	t.TableRowSel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.BadgeActive = lipgloss.NewStyle().Foreground(Emerald)
	t.BadgeBanned = lipgloss.NewStyle().Foreground(Rose)

	return t
}
