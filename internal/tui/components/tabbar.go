package components

import (
	"strings"

	"github.com/theirongolddev/savegames/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Saves", Key: 'v', KeyPos: -1},
	{Name: "Profiles", Key: 'p', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1}, // x is not in "Settings"
}

const tabPadding = 1

// TabVisualWidth returns the rendered width of a tab, used for mouse hit
// testing. It must match RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2*tabPadding
	switch {
	case active:
	case tab.KeyPos < 0:
		w += 3 // "[k]"
	default:
		w += 2 // brackets around the key letter
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index. right is
// drawn flush right, typically the active profile.
func RenderTabBar(activeIdx, width int, right string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Background(t.Surface)
	activeStyle := base.Foreground(t.Accent).Bold(true).Padding(0, tabPadding)
	inactiveStyle := base.Foreground(t.TextMuted)
	keyStyle := base.Foreground(t.Accent).Bold(true)
	dimKeyStyle := base.Foreground(t.TextDim)
	pad := base.Render(strings.Repeat(" ", tabPadding))

	var parts []string
	for i, tab := range Tabs {
		var rendered string
		switch {
		case i == activeIdx:
			rendered = activeStyle.Render(tab.Name)
		case tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name):
			rendered = pad + inactiveStyle.Render(tab.Name[:tab.KeyPos]) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Name[tab.KeyPos])) + dimKeyStyle.Render("]") +
				inactiveStyle.Render(tab.Name[tab.KeyPos+1:]) + pad
		default:
			rendered = pad + inactiveStyle.Render(tab.Name) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]") + pad
		}
		parts = append(parts, rendered)
	}

	left := strings.Join(parts, base.Render(" "))
	rightR := base.Foreground(t.TextDim).Render(right + " ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(rightR), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + rightR
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
