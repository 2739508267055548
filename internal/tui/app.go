// Package tui provides the interactive Bubble Tea save browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/host"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/state"
	"github.com/theirongolddev/savegames/internal/tui/components"
	"github.com/theirongolddev/savegames/internal/tui/theme"
)

const (
	tabSaves = iota
	tabProfiles
	tabSettings
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 180
	minContentHeight = 5
)

// Options configures the dashboard.
type Options struct {
	Watch    bool
	Debounce time.Duration
	Logger   *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	ctx  context.Context
	host *host.Host
	opts Options
	log  *slog.Logger

	// Session state mirrored from the store
	stateCh     <-chan state.State
	unsubscribe func()
	saves       []model.Save
	fetched     bool
	fetching    bool
	lastRun     pipeline.Result

	// View state
	view      []model.Save // sorted + filtered saves
	cursor    int
	offset    int
	marked    map[string]bool
	sortIdx   int
	reverse   bool
	query     string
	filtering bool
	filterIn  textinput.Model

	// Delete confirmation (huh form)
	confirm       *huh.Form
	confirmOK     *bool
	pendingDelete []string

	profileCursor int
	watch         *folderWatch

	// Settings tab; edits are written with saveConfig
	cfg        config.Config
	settings   settingsState
	saveConfig func(config.Config) error

	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	flash    string
	flashErr bool
	flashSeq int

	now func() time.Time
}

// NewApp creates a new dashboard over h. The host should already have a
// profile activated; otherwise the profiles tab is shown first.
func NewApp(ctx context.Context, h *host.Host, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	fi := textinput.New()
	fi.Placeholder = "filter by name, id or summary"
	fi.Prompt = "/ "
	fi.CharLimit = 80

	a := App{
		ctx:      ctx,
		host:     h,
		opts:     opts,
		log:      opts.Logger,
		marked:   make(map[string]bool),
		filterIn: fi,
		spinner:  sp,
		now:      time.Now,

		cfg:        h.Config(),
		saveConfig: config.Save,
	}
	if _, ok := h.Profile(); !ok {
		a.activeTab = tabProfiles
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		func() tea.Msg { return initMsg{} },
	)
}

// initMsg starts the store subscription, first fetch and folder watch.
type initMsg struct{}

func (a App) start() (App, tea.Cmd) {
	ch, cancel := a.host.Store().Subscribe()
	a.stateCh = ch
	a.unsubscribe = cancel

	snap := a.host.Store().Snapshot()
	a.saves = snap.Saves
	a.fetched = snap.Fetched()
	a.recompute()

	cmds := []tea.Cmd{waitForState(ch)}
	if _, ok := a.host.Profile(); ok {
		a.fetching = true
		cmds = append(cmds, fetchCmd(a.ctx, a.host))
	}
	if c := a.restartWatch(); c != nil {
		cmds = append(cmds, c)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) restartWatch() tea.Cmd {
	if a.watch != nil {
		a.watch.cancel()
		a.watch = nil
	}
	if !a.opts.Watch || !a.host.Supported() {
		return nil
	}
	a.watch = startWatch(a.ctx, a.host.SavesPath(), a.opts.Debounce, a.log)
	if a.watch == nil {
		return nil
	}
	return a.watch.wait()
}

func (a *App) setFlash(msg string, isErr bool) tea.Cmd {
	a.flashSeq++
	a.flash = msg
	a.flashErr = isErr
	return clearFlashCmd(a.flashSeq)
}

// recompute rebuilds the visible list after saves, sort or filter change.
func (a *App) recompute() {
	key := pipeline.SortKeys[a.sortIdx%len(pipeline.SortKeys)]
	a.view = pipeline.Sort(pipeline.Filter(a.saves, a.query), key, a.reverse)

	present := make(map[string]bool, len(a.saves))
	for _, s := range a.saves {
		present[s.ID] = true
	}
	for id := range a.marked {
		if !present[id] {
			delete(a.marked, id)
		}
	}

	if a.cursor >= len(a.view) {
		a.cursor = len(a.view) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) selected() (model.Save, bool) {
	if a.cursor < 0 || a.cursor >= len(a.view) {
		return model.Save{}, false
	}
	return a.view[a.cursor], true
}

// targets returns the marked saves, or the save under the cursor.
func (a App) targets() []model.Save {
	var out []model.Save
	for _, s := range a.view {
		if a.marked[s.ID] {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		if s, ok := a.selected(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		return a.start()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.confirm != nil {
			a.confirm = a.confirm.WithWidth(min(msg.Width-8, 72))
		}
		return a, nil

	case stateMsg:
		a.saves = msg.Saves
		a.fetched = state.State(msg).Fetched()
		a.recompute()
		return a, waitForState(a.stateCh)

	case fetchDoneMsg:
		a.fetching = false
		a.lastRun = msg.res
		switch {
		case errors.Is(msg.err, host.ErrNoProfile):
			return a, a.setFlash("no active profile, pick one on the profiles tab", true)
		case msg.err != nil:
			return a, a.setFlash(msg.err.Error(), true)
		case !msg.res.Supported:
			return a, a.setFlash("this game has no save browser", true)
		case msg.res.FullErr != nil && msg.res.QuickErr != nil:
			return a, a.setFlash("could not read saves", true)
		}
		return a, nil

	case deleteDoneMsg:
		if msg.err != nil {
			return a, a.setFlash(msg.err.Error(), true)
		}
		for _, id := range msg.res.Deleted {
			delete(a.marked, id)
		}
		if n := len(msg.res.Failures); n > 0 {
			return a, a.setFlash(fmt.Sprintf("deleted %d, %d file(s) could not be removed", len(msg.res.Deleted), n), true)
		}
		return a, a.setFlash(fmt.Sprintf("deleted %d save(s)", len(msg.res.Deleted)), false)

	case actionDoneMsg:
		if msg.err != nil {
			return a, a.setFlash(msg.title+": "+msg.err.Error(), true)
		}
		return a, a.setFlash(msg.title+": done", false)

	case openDoneMsg:
		if msg.err != nil {
			return a, a.setFlash(msg.err.Error(), true)
		}
		return a, nil

	case profileChangedMsg:
		if msg.err != nil {
			return a, a.setFlash(msg.err.Error(), true)
		}
		a.activeTab = tabSaves
		a.cursor, a.offset = 0, 0
		a.marked = make(map[string]bool)
		a.fetching = true
		cmds := []tea.Cmd{fetchCmd(a.ctx, a.host), a.spinner.Tick}
		if c := a.restartWatch(); c != nil {
			cmds = append(cmds, c)
		}
		return a, tea.Batch(cmds...)

	case folderChangedMsg:
		var cmds []tea.Cmd
		if a.watch != nil {
			cmds = append(cmds, a.watch.wait())
		}
		if !a.fetching && a.confirm == nil {
			a.fetching = true
			cmds = append(cmds, fetchCmd(a.ctx, a.host))
		}
		return a, tea.Batch(cmds...)

	case clearFlashMsg:
		if msg.seq == a.flashSeq {
			a.flash = ""
		}
		return a, nil

	case spinner.TickMsg:
		if a.fetching || !a.fetched {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.confirm != nil {
			return a.updateConfirm(msg)
		}
		if a.filtering {
			return a.updateFilter(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		return a.updateKeys(msg)
	}

	if a.confirm != nil {
		return a.updateConfirm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "p", "v", "x", "tab":
		if key == "tab" {
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		} else {
			a.activeTab = components.TabIdxByKey(rune(key[0]))
		}
		return a, nil
	}

	switch a.activeTab {
	case tabProfiles:
		return a.updateProfilesKeys(key)
	case tabSettings:
		return a.updateSettingsKeys(key)
	}
	return a.updateSavesKeys(key)
}

func (a App) updateSavesKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.cursor < len(a.view)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = max(len(a.view)-1, 0)
	case "s":
		a.sortIdx = (a.sortIdx + 1) % len(pipeline.SortKeys)
		a.recompute()
	case "S":
		a.reverse = !a.reverse
		a.recompute()
	case " ":
		if s, ok := a.selected(); ok {
			if a.marked[s.ID] {
				delete(a.marked, s.ID)
			} else {
				a.marked[s.ID] = true
			}
			if a.cursor < len(a.view)-1 {
				a.cursor++
			}
		}
	case "/":
		a.filtering = true
		a.filterIn.SetValue(a.query)
		a.filterIn.Focus()
		return a, textinput.Blink
	case "esc":
		if a.query != "" {
			a.query = ""
			a.recompute()
		} else {
			a.marked = make(map[string]bool)
		}
	case "r":
		if !a.fetching {
			a.fetching = true
			return a, tea.Batch(refreshCmd(a.ctx, a.host), a.spinner.Tick)
		}
	case "o":
		return a, openCmd(a.ctx, a.host)
	case "d":
		return a.startDelete()
	case "a":
		return a.runGameAction()
	}
	return a, nil
}

func (a App) updateProfilesKeys(key string) (tea.Model, tea.Cmd) {
	profiles := a.host.Config().Profiles
	switch key {
	case "j", "down":
		if a.profileCursor < len(profiles)-1 {
			a.profileCursor++
		}
	case "k", "up":
		if a.profileCursor > 0 {
			a.profileCursor--
		}
	case "enter":
		if a.profileCursor < len(profiles) {
			return a, profileCmd(a.ctx, a.host, profiles[a.profileCursor].ID)
		}
	case "esc":
		a.activeTab = tabSaves
	}
	return a, nil
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.query = strings.TrimSpace(a.filterIn.Value())
		a.filtering = false
		a.filterIn.Blur()
		a.cursor, a.offset = 0, 0
		a.recompute()
		return a, nil
	case "esc":
		a.filtering = false
		a.filterIn.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.filterIn, cmd = a.filterIn.Update(msg)
	return a, cmd
}

func (a App) runGameAction() (tea.Model, tea.Cmd) {
	targets := a.targets()
	if len(targets) == 0 {
		return a, nil
	}
	actions := a.host.Actions(targets, pipeline.AlwaysConfirm)
	for _, act := range actions {
		if act.ID == "delete" {
			continue
		}
		return a, actionCmd(a.ctx, act.Title, act.Run, targets)
	}
	return a, a.setFlash("no actions for this game", true)
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showHelp || a.confirm != nil || a.filtering {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabSaves && a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabSaves && a.cursor < len(a.view)-1 {
			a.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols), need at least %d.\n", a.width, minTerminalWidth)
	}
	if a.confirm != nil {
		return a.viewConfirm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	profileLabel := "no profile"
	if p, ok := a.host.Profile(); ok {
		profileLabel = p.DisplayName() + " · " + p.Game
	}
	header := components.RenderTabBar(a.activeTab, w, profileLabel)

	right := ""
	if a.activeTab == tabSaves {
		key := pipeline.SortKeys[a.sortIdx%len(pipeline.SortKeys)]
		dir := "↓"
		if a.reverse {
			dir = "↑"
		}
		right = fmt.Sprintf("sort: %s %s", key, dir)
		if a.fetching {
			right = a.spinner.View() + " " + a.host.Phase().String() + "  " + right
		}
	}
	statusBar := components.RenderStatusBar(w, a.flash, right, a.flashErr)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabProfiles:
		content = a.renderProfiles(cw)
	case tabSettings:
		content = a.renderSettings(cw)
	default:
		content = a.renderSaves(cw, contentH)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{"j k", "Move selection"},
		{"space", "Mark save"},
		{"s S", "Cycle sort / reverse"},
		{"/", "Filter saves"},
		{"r", "Refresh saves"},
		{"o", "Open save folder"},
		{"d", "Delete marked or selected"},
		{"a", "Run game action"},
		{"p v x tab", "Profiles / saves / settings tab"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, h *host.Host, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewApp(ctx, h, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if app, ok := final.(App); ok && app.unsubscribe != nil {
		app.unsubscribe()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
