// Package host wires the save parsers, fetch pipeline and session state to
// the user's profiles. It is the single entry point the CLI and the
// dashboard drive.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/platform"
	"github.com/theirongolddev/savegames/internal/source"
	"github.com/theirongolddev/savegames/internal/state"
	"github.com/theirongolddev/savegames/internal/store"
)

var (
	// ErrUnknownProfile is returned for a profile id not in the config.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrNoProfile is returned when no profile is active.
	ErrNoProfile = errors.New("no active profile")
	// ErrUnsupported is returned when the active profile's game has no save
	// parser or no resolvable save folder.
	ErrUnsupported = errors.New("no save folder for this profile")
)

// Options configures a Host.
type Options struct {
	Config       config.Config
	Registry     *source.Registry
	Cache        *store.Cache // optional
	Logger       *slog.Logger
	DocumentsDir string
}

// Host owns the session state for the active profile.
type Host struct {
	cfg       config.Config
	registry  *source.Registry
	cache     *store.Cache
	coord     *pipeline.Coordinator
	store     *state.Store
	log       *slog.Logger
	documents string

	mu      sync.Mutex
	profile config.Profile
	active  bool
	phase   pipeline.Phase
}

// New creates a host. Call ProfileDidChange to activate a profile.
func New(opts Options) *Host {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg := opts.Registry
	if reg == nil {
		reg = source.Default(opts.Config.General.AssetDir)
	}
	return &Host{
		cfg:      opts.Config,
		registry: reg,
		cache:    opts.Cache,
		coord: &pipeline.Coordinator{
			Registry: reg,
			Cache:    opts.Cache,
			Logger:   log,
		},
		store:     state.NewStore(),
		log:       log,
		documents: platform.DocumentsDir(opts.DocumentsDir),
	}
}

// Store returns the session state store.
func (h *Host) Store() *state.Store { return h.store }

// Registry returns the registered save parsers.
func (h *Host) Registry() *source.Registry { return h.registry }

// Config returns the configuration the host was built with.
func (h *Host) Config() config.Config { return h.cfg }

// Profile returns the active profile.
func (h *Host) Profile() (config.Profile, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.profile, h.active
}

// Supported reports whether the active profile's game has a save parser.
func (h *Host) Supported() bool {
	p, ok := h.Profile()
	if !ok {
		return false
	}
	_, ok = h.registry.Lookup(p.Game)
	return ok
}

// SavesPath returns the save folder recorded for the active profile.
func (h *Host) SavesPath() string {
	return h.store.Snapshot().SavesPath
}

// ProfileDidChange activates the profile with the given id and clears the
// save list. The save folder is recomputed for games with a save parser and
// cleared for the rest.
func (h *Host) ProfileDidChange(_ context.Context, profileID string) error {
	p, ok := h.cfg.Profile(profileID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, profileID)
	}

	h.mu.Lock()
	h.profile = p
	h.active = true
	h.mu.Unlock()

	parser, ok := h.registry.Lookup(p.Game)
	if !ok {
		h.store.SetSavesPath("")
		h.store.SetSaves(nil)
		h.log.Debug("profile game has no save parser", slog.String("profile", p.ID), slog.String("game", p.Game))
		return nil
	}

	folder := parser.SaveFolder(source.Env{
		DocumentsDir: h.documents,
		GamePath:     p.GamePath,
		GameID:       p.Game,
	}, p.ID)
	h.store.SetSavesPath(folder)
	h.store.SetSaves(nil)
	h.log.Info("profile activated", slog.String("profile", p.ID), slog.String("game", p.Game), slog.String("folder", folder))
	return nil
}

// GetSaves runs one fetch cycle for the active profile. onComplete runs
// exactly once, including when no profile is active.
func (h *Host) GetSaves(ctx context.Context, onComplete func()) (pipeline.Result, error) {
	return h.fetch(ctx, onComplete, false)
}

// Refresh clears the save list and fetches again, bypassing the details
// cache.
func (h *Host) Refresh(ctx context.Context) (pipeline.Result, error) {
	h.store.SetSaves(nil)
	return h.fetch(ctx, nil, true)
}

func (h *Host) fetch(ctx context.Context, onComplete func(), overwrite bool) (pipeline.Result, error) {
	p, ok := h.Profile()
	if !ok {
		if onComplete != nil {
			onComplete()
		}
		return pipeline.Result{}, ErrNoProfile
	}
	res := h.coord.Fetch(ctx, pipeline.Request{
		GameID:     p.Game,
		ProfileID:  p.ID,
		SavesPath:  h.SavesPath(),
		Sink:       h.store,
		OnPhase:    h.setPhase,
		OnComplete: onComplete,
		Overwrite:  overwrite,
	})
	return res, nil
}

func (h *Host) setPhase(p pipeline.Phase) {
	h.mu.Lock()
	h.phase = p
	h.mu.Unlock()
}

// Phase returns the phase of the latest fetch cycle.
func (h *Host) Phase() pipeline.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// Resolve returns the current saves with the given ids, in id order, and
// the ids that matched nothing.
func (h *Host) Resolve(ids []string) (found []model.Save, missing []string) {
	byID := make(map[string]model.Save)
	for _, s := range h.store.Snapshot().Saves {
		byID[s.ID] = s
	}
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			found = append(found, s)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// Delete confirms and removes the saves with the given ids from the active
// save folder. Ids not in the current state are skipped.
func (h *Host) Delete(ctx context.Context, ids []string, confirmer pipeline.Confirmer) (pipeline.DeleteResult, error) {
	p, err := h.saveFolderProfile()
	if err != nil {
		return pipeline.DeleteResult{}, err
	}

	saves, missing := h.Resolve(ids)
	for _, id := range missing {
		h.log.Warn("delete: no such save", slog.String("id", id))
	}
	if len(saves) == 0 {
		return pipeline.DeleteResult{}, fmt.Errorf("no matching saves to delete")
	}

	folder := h.SavesPath()
	res, err := pipeline.DeleteSaves(ctx, pipeline.DeleteRequest{
		Folder:    folder,
		Saves:     saves,
		Confirmer: confirmer,
		Sink:      h.store,
		Logger:    h.log,
	})
	if err != nil {
		return res, err
	}

	if h.cache != nil && len(res.Deleted) > 0 {
		if err := h.cache.Forget(p.Game, folder, res.Deleted); err != nil {
			h.log.Warn("forgetting deleted saves in cache", slog.Any("err", err))
		}
	}
	return res, nil
}

// OpenFolder opens the active save folder in the OS file browser.
func (h *Host) OpenFolder(ctx context.Context) error {
	if _, err := h.saveFolderProfile(); err != nil {
		return err
	}
	return platform.OpenFolder(ctx, h.SavesPath())
}

// saveFolderProfile returns the active profile when its game has a parser
// and a recorded save folder.
func (h *Host) saveFolderProfile() (config.Profile, error) {
	p, ok := h.Profile()
	if !ok {
		return p, ErrNoProfile
	}
	if !h.Supported() || !h.store.Snapshot().HasPath {
		return p, fmt.Errorf("%w: %s (%s)", ErrUnsupported, p.ID, p.Game)
	}
	return p, nil
}

// Image returns the image for s: its parsed image, else the game's
// fallback, else an empty string.
func (h *Host) Image(s model.Save) string {
	if s.Details != nil && s.Details.Image != "" {
		return s.Details.Image
	}
	if fi, ok := h.parser().(source.FallbackImager); ok {
		return fi.FallbackImage()
	}
	return ""
}

func (h *Host) parser() source.SaveGameData {
	p, ok := h.Profile()
	if !ok {
		return nil
	}
	parser, _ := h.registry.Lookup(p.Game)
	return parser
}
