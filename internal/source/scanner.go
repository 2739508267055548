// Package source discovers and parses per-game save folders.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/savegames/internal/model"
)

// Messages recorded on failed saves.
const (
	MsgParseFailed  = "Failed to parse saved game"
	MsgMissingPaths = "Missing save paths"
)

// ScanFolder lists folder and returns one save per accepted regular file, in
// directory order. A missing or unreadable folder yields no saves. A file that
// cannot be stat'ed is still returned, with an unknown size and an error.
func ScanFolder(ctx context.Context, folder string, accept func(name string) bool) ([]model.Save, error) {
	entries, err := readDir(folder)
	if err != nil {
		slog.Debug("save folder unavailable", slog.String("folder", folder), slog.String("error", err.Error()))
		return []model.Save{}, nil
	}

	saves := make([]model.Save, 0, len(entries))
	for _, name := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !accept(name) {
			continue
		}

		info, err := os.Stat(filepath.Join(folder, name))
		if err != nil {
			saves = append(saves, failedSave(name, err))
			continue
		}
		if info.IsDir() {
			continue
		}

		saves = append(saves, model.Save{
			ID:    name,
			Paths: []string{name},
			Date:  info.ModTime(),
			Size:  info.Size(),
		})
	}
	return saves, nil
}

func readDir(folder string) ([]string, error) {
	if folder == "" {
		return nil, errors.New("no save folder")
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func failedSave(name string, err error) model.Save {
	slog.Error("failed to stat saved game", slog.String("save", name), slog.String("error", err.Error()))
	return model.Save{
		ID:     name,
		Paths:  []string{name},
		Date:   model.Epoch,
		Size:   model.SizeUnknown,
		Errors: []model.SaveError{{Message: MsgParseFailed, Cause: err}},
	}
}

// MissingPaths reports whether s has no usable first path and, if so, returns
// the error record a full parse must emit for it.
func MissingPaths(s model.Save) (model.Save, bool) {
	if len(s.Paths) > 0 && s.Paths[0] != "" {
		return s, false
	}
	return s.WithError(MsgMissingPaths, fmt.Errorf("no save paths detected for %s", s.ID)), true
}

// HasExtension returns an accept func matching any of exts (case-insensitive).
func HasExtension(exts ...string) func(string) bool {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[strings.ToLower(filepath.Ext(name))]
		return ok
	}
}

// NoExtension accepts names without a file extension.
func NoExtension(name string) bool {
	return filepath.Ext(name) == ""
}
