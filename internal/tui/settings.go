package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/tui/components"
	"github.com/theirongolddev/savegames/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldWatch
	settingsFieldDebounce
	settingsFieldCache
	settingsFieldCount // sentinel
)

const minDebounceMs = 50

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldWatch:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.opts.Watch))
	case settingsFieldDebounce:
		ti.Placeholder = fmt.Sprintf("milliseconds, minimum %d", minDebounceMs)
		ti.SetValue(strconv.Itoa(a.cfg.TUI.DebounceMs))
	case settingsFieldCache:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.cfg.Cache.Enabled))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		return a.settingsStartEdit()
	case "esc":
		a.activeTab = tabSaves
	}
	return a, nil
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field to the running dashboard and writes
// the config. Invalid values are reported and nothing is written.
func (a *App) settingsSave() tea.Cmd {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())
	restartWatch := false

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !slices.Contains(theme.Names(), val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return nil
		}
		cfg.Appearance.Theme = val
	case settingsFieldWatch, settingsFieldCache:
		b, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("want true or false, got %q", val)
			return nil
		}
		if a.settings.cursor == settingsFieldWatch {
			cfg.TUI.Watch = b
			restartWatch = true
		} else {
			cfg.Cache.Enabled = b
		}
	case settingsFieldDebounce:
		ms, err := strconv.Atoi(val)
		if err != nil || ms < minDebounceMs {
			a.settings.saveErr = fmt.Errorf("want at least %d ms, got %q", minDebounceMs, val)
			return nil
		}
		cfg.TUI.DebounceMs = ms
		restartWatch = true
	}

	if err := a.saveConfig(cfg); err != nil {
		a.settings.saveErr = err
		return nil
	}
	a.settings.saveErr = nil
	a.cfg = cfg

	switch a.settings.cursor {
	case settingsFieldTheme:
		theme.SetActive(cfg.Appearance.Theme)
	case settingsFieldWatch:
		a.opts.Watch = cfg.TUI.Watch
	case settingsFieldDebounce:
		a.opts.Debounce = time.Duration(cfg.TUI.DebounceMs) * time.Millisecond
	}
	if restartWatch {
		return a.restartWatch()
	}
	return nil
}

func (a App) renderSettings(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Selected).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Selected).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	fields := []struct{ label, value string }{
		{"Theme", a.cfg.Appearance.Theme},
		{"Watch folder", strconv.FormatBool(a.opts.Watch)},
		{"Debounce", fmt.Sprintf("%dms", a.cfg.TUI.DebounceMs)},
		{"Details cache", strconv.FormatBool(a.cfg.Cache.Enabled) + dimStyle.Render("  (next start)")},
	}

	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-15s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}
		if i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(selectedLabelStyle.Render(fmt.Sprintf("%-15s ", f.label+":")))
			form.WriteString(selectedStyle.Render(f.value))
		} else {
			form.WriteString("  ")
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-15s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Render("Not saved: " + a.settings.saveErr.Error()))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(dimStyle.Render("[j/k] navigate  [enter] edit  [esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file: ") + valueStyle.Render(config.ConfigPath()) + "\n")
	info.WriteString(labelStyle.Render("Save folder: ") + valueStyle.Render(a.host.SavesPath()))

	return lipgloss.JoinVertical(lipgloss.Left,
		components.ContentCard("Settings", form.String(), cw, true),
		components.ContentCard("General", info.String(), cw, false))
}
