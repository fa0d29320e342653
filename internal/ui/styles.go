// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui holds the lipgloss styles used for CLI status output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(colorInfo)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Success renders a green checkmarked status line.
func Success(msg string) string {
	return styleSuccess.Render("✔ " + msg)
}

// Error renders a red crossed status line.
func Error(msg string) string {
	return styleError.Render("✘ " + msg)
}

// Info renders an informational status line.
func Info(msg string) string {
	return styleInfo.Render(msg)
}

// Muted renders de-emphasized detail text.
func Muted(msg string) string {
	return styleMuted.Render(msg)
}
