// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette. The confirm prompt in internal/tui uses the same purple and grays.
const (
	purple = lipgloss.Color("#7C3AED")
	gray   = lipgloss.Color("#6B7280")
	green  = lipgloss.Color("#10B981")
	red    = lipgloss.Color("#EF4444")
	amber  = lipgloss.Color("#F59E0B")
	blue   = lipgloss.Color("#3B82F6")
)

//nolint:gochecknoglobals // shared, read-only styles
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(purple)
	SubtitleStyle = lipgloss.NewStyle().Foreground(gray)
	SuccessStyle  = lipgloss.NewStyle().Foreground(green)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(red)
	WarningStyle  = lipgloss.NewStyle().Foreground(amber)
	// CmdStyle marks commands, config keys and paths inside prose.
	CmdStyle = lipgloss.NewStyle().Foreground(blue)
)
