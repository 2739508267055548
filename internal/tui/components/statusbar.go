package components

import (
	"strings"

	"github.com/theirongolddev/savegames/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: key hints on the left, state on
// the right. A non-empty flash replaces the hints.
func RenderStatusBar(width int, flash, right string, flashIsError bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]efresh  [d]elete  [o]pen  [q]uit"
	if flash != "" {
		fg := t.Green
		if flashIsError {
			fg = t.Red
		}
		left = " " + lipgloss.NewStyle().Foreground(fg).Background(t.Surface).Render(flash)
	}
	if right != "" {
		right += " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
