package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/savegames/internal/model"
)

// Prompt is the confirmation shown before saves are removed.
type Prompt struct {
	Title string
	Body  string
}

// Confirmer asks the user whether to go ahead with a deletion.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// AlwaysConfirm approves every deletion without asking.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, Prompt) (bool, error) { return true, nil })

// Remover receives the ids of saves that were deleted.
type Remover interface {
	RemoveSaves(ids []string)
}

// DeleteRequest describes one deletion.
type DeleteRequest struct {
	Folder    string
	Saves     []model.Save
	Confirmer Confirmer
	Sink      Remover
	Logger    *slog.Logger
}

// DeleteFailure records a path that could not be removed.
type DeleteFailure struct {
	ID   string
	File string
	Err  error
}

// DeleteResult reports what a deletion did.
type DeleteResult struct {
	Cancelled bool
	Deleted   []string // ids whose every path is gone
	Failures  []DeleteFailure
}

// DeletePrompt builds the confirmation for the given saves.
func DeletePrompt(saves []model.Save) Prompt {
	var b strings.Builder
	for i, s := range saves {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.DisplayName())
		for _, p := range s.Paths {
			b.WriteString("\n - ")
			b.WriteString(p)
		}
	}
	return Prompt{
		Title: fmt.Sprintf("Delete (%d) save games", len(saves)),
		Body:  b.String(),
	}
}

// DeleteSaves confirms and then removes every path of every save.
// Missing files count as deleted. A save with any other failure stays in the
// sink; the rest of the batch is still processed. The returned error is only
// set when confirmation itself failed.
func DeleteSaves(ctx context.Context, req DeleteRequest) (DeleteResult, error) {
	log := req.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var res DeleteResult
	if len(req.Saves) == 0 {
		return res, nil
	}

	confirmer := req.Confirmer
	if confirmer == nil {
		return res, errors.New("no confirmer for deletion")
	}
	ok, err := confirmer.Confirm(ctx, DeletePrompt(req.Saves))
	if err != nil {
		return res, fmt.Errorf("confirming deletion: %w", err)
	}
	if !ok {
		res.Cancelled = true
		return res, nil
	}

	for _, s := range req.Saves {
		removed := true
		for _, p := range s.Paths {
			file := filepath.Join(req.Folder, p)
			if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
				removed = false
				res.Failures = append(res.Failures, DeleteFailure{ID: s.ID, File: file, Err: err})
				log.Error("failed to remove file",
					slog.String("id", s.ID),
					slog.String("file", file),
					slog.Any("err", err))
			}
		}
		if removed {
			res.Deleted = append(res.Deleted, s.ID)
		}
	}

	if req.Sink != nil && len(res.Deleted) > 0 {
		req.Sink.RemoveSaves(res.Deleted)
	}
	log.Info("deleted saves", slog.Int("deleted", len(res.Deleted)), slog.Int("failed", len(res.Failures)))
	return res, nil
}
