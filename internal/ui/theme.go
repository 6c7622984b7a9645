package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/noter/internal/todo"
)

// Theme defines the color palette for the TUI. Colors are ANSI 256-color
// codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Indexed by todo.Priority: low, medium, high.
	PriorityColors [3]lipgloss.Color

	HeaderForeground lipgloss.Color
	ErrorForeground  lipgloss.Color
	HelpText         lipgloss.Color
}

// PriorityColor returns the color for p, or NormalText when out of range.
func (theme Theme) PriorityColor(p todo.Priority) lipgloss.Color {
	if !p.Valid() {
		return theme.NormalText
	}
	return theme.PriorityColors[p]
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	PriorityColors: [3]lipgloss.Color{
		lipgloss.Color("245"), // low: gray
		lipgloss.Color("220"), // medium: amber
		lipgloss.Color("196"), // high: red
	},

	HeaderForeground: lipgloss.Color("255"),
	ErrorForeground:  lipgloss.Color("196"),
	HelpText:         lipgloss.Color("241"),
}

// styles are the lipgloss styles derived from a Theme.
type styles struct {
	title      lipgloss.Style
	text       lipgloss.Style
	completed  lipgloss.Style
	selected   lipgloss.Style
	timestamp  lipgloss.Style
	suggestion lipgloss.Style
	empty      lipgloss.Style
	status     lipgloss.Style
	err        lipgloss.Style
	priority   [3]lipgloss.Style
}

func newStyles(theme Theme) styles {
	s := styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		text:       lipgloss.NewStyle().Foreground(theme.NormalText),
		completed:  lipgloss.NewStyle().Foreground(theme.FaintText).Strikethrough(true),
		selected:   lipgloss.NewStyle().Foreground(theme.SelectedForeground).Background(theme.SelectedBackground),
		timestamp:  lipgloss.NewStyle().Foreground(theme.FaintText),
		suggestion: lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true),
		empty:      lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true),
		status:     lipgloss.NewStyle().Foreground(theme.HelpText),
		err:        lipgloss.NewStyle().Foreground(theme.ErrorForeground),
	}
	for i := range s.priority {
		s.priority[i] = lipgloss.NewStyle().Bold(true).Foreground(theme.PriorityColor(todo.Priority(i)))
	}
	return s
}
