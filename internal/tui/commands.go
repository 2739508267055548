package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/savegames/internal/host"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/state"
	"github.com/theirongolddev/savegames/internal/watch"
)

// stateMsg carries a session state snapshot published by the store.
type stateMsg state.State

// fetchDoneMsg is sent when a fetch cycle finishes.
type fetchDoneMsg struct {
	res pipeline.Result
	err error
}

// deleteDoneMsg is sent when a confirmed deletion finishes.
type deleteDoneMsg struct {
	res pipeline.DeleteResult
	err error
}

// actionDoneMsg is sent when a game action finishes.
type actionDoneMsg struct {
	title string
	err   error
}

// openDoneMsg is sent after the save folder was handed to the OS.
type openDoneMsg struct{ err error }

// profileChangedMsg is sent after a profile switch.
type profileChangedMsg struct {
	id  string
	err error
}

// folderChangedMsg is sent when the watched save folder changed.
type folderChangedMsg struct{}

type clearFlashMsg struct{ seq int }

// waitForState blocks until the store publishes the next snapshot.
func waitForState(ch <-chan state.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

func fetchCmd(ctx context.Context, h *host.Host) tea.Cmd {
	return func() tea.Msg {
		res, err := h.GetSaves(ctx, nil)
		return fetchDoneMsg{res: res, err: err}
	}
}

func refreshCmd(ctx context.Context, h *host.Host) tea.Cmd {
	return func() tea.Msg {
		res, err := h.Refresh(ctx)
		return fetchDoneMsg{res: res, err: err}
	}
}

// deleteCmd runs a deletion the user already confirmed in the dashboard.
func deleteCmd(ctx context.Context, h *host.Host, ids []string) tea.Cmd {
	return func() tea.Msg {
		res, err := h.Delete(ctx, ids, pipeline.AlwaysConfirm)
		return deleteDoneMsg{res: res, err: err}
	}
}

func actionCmd(ctx context.Context, title string, run func(context.Context, []model.Save) error, saves []model.Save) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{title: title, err: run(ctx, saves)}
	}
}

func openCmd(ctx context.Context, h *host.Host) tea.Cmd {
	return func() tea.Msg {
		return openDoneMsg{err: h.OpenFolder(ctx)}
	}
}

func profileCmd(ctx context.Context, h *host.Host, id string) tea.Cmd {
	return func() tea.Msg {
		return profileChangedMsg{id: id, err: h.ProfileDidChange(ctx, id)}
	}
}

func clearFlashCmd(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// folderWatch is a running watcher bound to one save folder.
type folderWatch struct {
	ctx     context.Context
	cancel  context.CancelFunc
	changes <-chan struct{}
}

// startWatch watches folder until the returned watch is cancelled. It
// returns nil when the folder cannot be watched.
func startWatch(parent context.Context, folder string, delay time.Duration, log *slog.Logger) *folderWatch {
	if folder == "" {
		return nil
	}
	w, err := watch.New(folder, delay, log)
	if err != nil {
		log.Debug("save folder not watched", slog.Any("err", err))
		return nil
	}
	ctx, cancel := context.WithCancel(parent)
	go func() { _ = w.Run(ctx) }()
	return &folderWatch{ctx: ctx, cancel: cancel, changes: w.Changes()}
}

func (fw *folderWatch) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-fw.changes:
			return folderChangedMsg{}
		case <-fw.ctx.Done():
			return nil
		}
	}
}
