package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/tui/theme"
)

// newDeleteForm builds the delete confirmation. Cancel is the default.
func newDeleteForm(p pipeline.Prompt, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(p.Title).
				Description(p.Body).
				Affirmative("Delete").
				Negative("Cancel").
				Value(ok),
		),
	).WithShowHelp(false)
}

func (a App) startDelete() (tea.Model, tea.Cmd) {
	targets := a.targets()
	if len(targets) == 0 {
		return a, nil
	}
	a.confirmOK = new(bool)
	a.pendingDelete = model.IDs(targets)
	a.confirm = newDeleteForm(pipeline.DeletePrompt(targets), a.confirmOK)
	if a.width > 0 {
		a.confirm = a.confirm.WithWidth(min(a.width-8, 72))
	}
	return a, a.confirm.Init()
}

func (a App) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.confirm = nil
		a.pendingDelete = nil
		return a, nil
	}

	form, cmd := a.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirm = f
	}

	switch a.confirm.State {
	case huh.StateCompleted:
		ids := a.pendingDelete
		confirmed := *a.confirmOK
		a.confirm = nil
		a.pendingDelete = nil
		if !confirmed {
			return a, nil
		}
		return a, deleteCmd(a.ctx, a.host, ids)
	case huh.StateAborted:
		a.confirm = nil
		a.pendingDelete = nil
		return a, nil
	}
	return a, cmd
}

func (a App) viewConfirm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Padding(1, 2).
		Render(a.confirm.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
