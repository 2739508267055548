package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/savegames/internal/tui/components"
	"github.com/theirongolddev/savegames/internal/tui/theme"
)

func (a App) renderProfiles(cw int) string {
	t := theme.Active
	profiles := a.host.Config().Profiles

	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Selected).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if len(profiles) == 0 {
		return components.ContentCard("Profiles",
			muted.Render("No profiles configured. Run `savegames setup` to add one."), cw, true)
	}

	active, _ := a.host.Profile()
	inner := components.CardInnerWidth(cw)
	nameW := max(inner/3, 12)

	var b strings.Builder
	for i, p := range profiles {
		marker := "  "
		if p.ID == active.ID {
			marker = activeStyle.Render("▸ ")
		}
		support := "supported"
		if _, ok := a.host.Registry().Lookup(p.Game); !ok {
			support = "no save browser"
		}
		line := fmt.Sprintf("%-*s %-16s %s", nameW, p.DisplayName(), p.Game, support)
		if i == a.profileCursor {
			b.WriteString(marker + selectedStyle.Render(line))
		} else {
			b.WriteString(marker + rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[enter] activate  [j/k] navigate  [esc] back"))

	return components.ContentCard("Profiles", b.String(), cw, true)
}
