// Package ui implements host.UI for a terminal: a bubbletea action picker,
// huh text prompts, lipgloss-styled notices and a spinner while work runs.
package ui

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title       lipgloss.Style
	selected    lipgloss.Style
	normal      lipgloss.Style
	description lipgloss.Style
	success     lipgloss.Style
	warning     lipgloss.Style
	errorStyle  lipgloss.Style
	spinner     lipgloss.Style
	terminal    lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{
			title:       plain,
			selected:    plain,
			normal:      plain,
			description: plain,
			success:     plain,
			warning:     plain,
			errorStyle:  plain,
			spinner:     plain,
			terminal:    plain,
		}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		description: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),
		terminal: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("62")),
	}
}
