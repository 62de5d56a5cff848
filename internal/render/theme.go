// Package render draws menu trees and search results for a terminal.
package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used to draw a tree.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Match   lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor

	Label      lipgloss.Style
	MatchText  lipgloss.Style
	Branch     lipgloss.Style
	Enumerator lipgloss.Style
	KeyText    lipgloss.Style
	Header     lipgloss.Style
	NotFound   lipgloss.Style

	// MarkOpen and MarkClose wrap matched text. They let highlights survive
	// on outputs without color support.
	MarkOpen  string
	MarkClose string
}

// DefaultTheme returns the adaptive color theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,
		Primary:  lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Match:    lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Muted:    lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Label = r.NewStyle()
	t.MatchText = r.NewStyle().Foreground(t.Match).Bold(true).Underline(true)
	t.Branch = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Enumerator = r.NewStyle().Foreground(t.Muted).PaddingRight(1)
	t.KeyText = r.NewStyle().Foreground(t.Muted)
	t.Header = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.NotFound = r.NewStyle().Foreground(t.Muted).Italic(true)
	return t
}

// PlainTheme is DefaultTheme with matches additionally wrapped in brackets.
func PlainTheme(r *lipgloss.Renderer) Theme {
	t := DefaultTheme(r)
	t.MarkOpen, t.MarkClose = "[", "]"
	return t
}
