package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/tui/theme"
)

// editSetting opens the field at idx on the settings tab, replaces its value
// and submits it.
func editSetting(t *testing.T, a App, idx int, value string) App {
	t.Helper()
	a = update(t, a, key("x"))
	if a.activeTab != tabSettings {
		t.Fatalf("activeTab = %d, want settings", a.activeTab)
	}
	for a.settings.cursor < idx {
		a = update(t, a, key("j"))
	}
	a = update(t, a, key("enter"))
	if !a.settings.editing {
		t.Fatal("enter did not start editing")
	}
	a.settings.input.SetValue(value)
	return update(t, a, key("enter"))
}

func TestSettingsSaveDebounce(t *testing.T) {
	a := newTestApp(t, true)
	var saved []config.Config
	a.saveConfig = func(c config.Config) error { saved = append(saved, c); return nil }

	a = editSetting(t, a, settingsFieldDebounce, "250")

	if a.settings.editing {
		t.Error("still editing after enter")
	}
	if len(saved) != 1 || saved[0].TUI.DebounceMs != 250 {
		t.Fatalf("saved = %+v, want one config with debounce 250", saved)
	}
	if a.opts.Debounce != 250*time.Millisecond {
		t.Errorf("opts.Debounce = %v, want 250ms", a.opts.Debounce)
	}
	if !a.settings.saved || a.settings.saveErr != nil {
		t.Errorf("saved = %v, saveErr = %v", a.settings.saved, a.settings.saveErr)
	}
	if saved[0].Profiles[0].ID != "wotc" {
		t.Error("saving a setting dropped the profiles")
	}
}

func TestSettingsRejectsInvalidValues(t *testing.T) {
	for _, tc := range []struct {
		field int
		value string
	}{
		{settingsFieldTheme, "neon"},
		{settingsFieldWatch, "sometimes"},
		{settingsFieldDebounce, "5"},
		{settingsFieldCache, ""},
	} {
		a := newTestApp(t, true)
		calls := 0
		a.saveConfig = func(config.Config) error { calls++; return nil }

		a = editSetting(t, a, tc.field, tc.value)

		if calls != 0 {
			t.Errorf("field %d value %q: config written", tc.field, tc.value)
		}
		if a.settings.saveErr == nil {
			t.Errorf("field %d value %q: no error reported", tc.field, tc.value)
		}
	}
}

func TestSettingsThemeAppliesAndSurfacesSaveError(t *testing.T) {
	t.Cleanup(func() { theme.SetActive("flexoki-dark") })

	a := newTestApp(t, true)
	a.saveConfig = func(config.Config) error { return nil }
	a = editSetting(t, a, settingsFieldTheme, "terminal")
	if theme.Active.Name != "terminal" {
		t.Errorf("active theme = %s, want terminal", theme.Active.Name)
	}
	if a.cfg.Appearance.Theme != "terminal" {
		t.Errorf("cfg theme = %s", a.cfg.Appearance.Theme)
	}

	a.saveConfig = func(config.Config) error { return errors.New("read-only file system") }
	a.settings.cursor = settingsFieldTheme
	a.settings.editing = false
	a = update(t, a, key("enter"))
	a.settings.input.SetValue("catppuccin-mocha")
	a = update(t, a, key("enter"))
	if a.cfg.Appearance.Theme != "terminal" {
		t.Errorf("cfg changed despite failed save: %s", a.cfg.Appearance.Theme)
	}
	if !strings.Contains(a.View(), "read-only file system") {
		t.Error("save error not shown on the settings tab")
	}
}

func TestSettingsDebounceKeepsWatchFlag(t *testing.T) {
	a := newTestApp(t, true)
	a.saveConfig = func(config.Config) error { return nil }
	a.opts.Watch = false // started with --no-watch

	a = editSetting(t, a, settingsFieldDebounce, "300")
	if a.opts.Watch {
		t.Error("saving the debounce turned the folder watch on")
	}
}
