package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/tui/components"
	"github.com/theirongolddev/savegames/internal/tui/theme"
)

func (a App) renderSaves(cw, h int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	if _, ok := a.host.Profile(); !ok {
		return components.ContentCard("Saves", muted.Render("No active profile. Press p to pick one."), cw, false)
	}
	if !a.host.Supported() {
		return components.ContentCard("Saves", muted.Render("This game has no save browser."), cw, false)
	}
	if !a.fetched {
		return components.ContentCard("Saves", a.spinner.View()+muted.Render(" Reading saves..."), cw, false)
	}

	size, failed := pipeline.Totals(a.saves)
	stats := components.StatRow([]components.Stat{
		{Label: "Saves", Value: cli.FormatNumber(int64(len(a.saves)))},
		{Label: "Total size", Value: cli.FormatSize(size)},
		{Label: "Failed", Value: cli.FormatNumber(int64(failed))},
		{Label: "Marked", Value: cli.FormatNumber(int64(len(a.marked)))},
	}, cw)

	var filterLine string
	if a.filtering {
		filterLine = a.filterIn.View()
	} else if a.query != "" {
		filterLine = muted.Render(fmt.Sprintf("filter: %q (%d of %d)  [esc] clear", a.query, len(a.view), len(a.saves)))
	}

	listH := h - lipgloss.Height(stats)
	if filterLine != "" {
		listH--
	}

	if len(a.view) == 0 {
		body := muted.Render("No saved games found in " + a.host.SavesPath())
		if a.query != "" {
			body = muted.Render("No saves match the filter")
		}
		return joinNonEmpty(stats, filterLine, components.ContentCard("Saves", body, cw, true))
	}

	leftW := max(cw/2, 40)
	rightW := cw - leftW
	list := a.renderSaveList(leftW, listH)
	sel, _ := a.selected()
	detail := components.ContentCard(cli.Truncate(sel.DisplayName(), components.CardInnerWidth(rightW)),
		a.renderSaveDetail(sel, rightW), rightW, false)

	return joinNonEmpty(stats, filterLine, components.CardRow([]string{list, detail}))
}

func joinNonEmpty(parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p != "" {
			keep = append(keep, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, keep...)
}

func (a App) renderSaveList(w, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Selected).Bold(true)
	failedStyle := lipgloss.NewStyle().Foreground(t.Red)
	markStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)

	const dateW, sizeW = 14, 9
	nameW := max(inner-dateW-sizeW-4, 8)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %*s %*s", nameW, "Name", dateW, "Date", sizeW, "Size")))
	b.WriteString("\n")

	visible := max(h-5, 3) // border, title, header
	offset := a.offset
	if a.cursor < offset {
		offset = a.cursor
	}
	if a.cursor >= offset+visible {
		offset = a.cursor - visible + 1
	}
	end := min(offset+visible, len(a.view))

	for i := offset; i < end; i++ {
		s := a.view[i]
		mark := "  "
		if a.marked[s.ID] {
			mark = markStyle.Render("● ")
		}
		line := fmt.Sprintf("%-*s %*s %*s",
			nameW, cli.Truncate(s.DisplayName(), nameW),
			dateW, cli.Truncate(cli.FormatAge(s.Date, a.now()), dateW),
			sizeW, cli.FormatSize(s.Size))

		switch {
		case i == a.cursor:
			b.WriteString(mark + selectedStyle.Render(line))
		case s.Failed():
			b.WriteString(mark + failedStyle.Render(line))
		default:
			b.WriteString(mark + rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Saves [%d]", len(a.view))
	return components.ContentCard(title, strings.TrimRight(b.String(), "\n"), w, true)
}

// renderSaveDetail lists every detail column of the active game.
func (a App) renderSaveDetail(s model.Save, w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(hintStyle.Render(s.ID))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	for _, c := range a.host.DetailColumns() {
		v := c.Calc(s)
		if c.ID == "date" {
			v = cli.FormatDate(s.Date) + " (" + cli.FormatAge(s.Date, a.now()) + ")"
		}
		if v == "" {
			continue
		}
		b.WriteString(labelStyle.Render(c.Name))
		b.WriteString("\n")
		for _, line := range strings.Split(v, "\n") {
			b.WriteString("  ")
			b.WriteString(valueStyle.Render(cli.Truncate(line, inner-2)))
			b.WriteString("\n")
		}
	}

	for _, e := range s.Errors {
		b.WriteString(errStyle.Render(cli.Truncate("! "+e.Error(), inner)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
