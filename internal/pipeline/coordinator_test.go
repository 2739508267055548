package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/source"
	"github.com/theirongolddev/savegames/internal/state"
	"github.com/theirongolddev/savegames/internal/store"
)

// fakeGame is a scripted parser that records what it was asked to parse.
type fakeGame struct {
	quick    []model.Save
	quickErr error
	fullErr  error

	mu         sync.Mutex
	fullInputs [][]string
}

func (g *fakeGame) GameID() string                       { return "fake" }
func (g *fakeGame) SaveFolder(source.Env, string) string { return "/saves" }
func (g *fakeGame) QuickParse(context.Context, string) ([]model.Save, error) {
	if g.quickErr != nil {
		return nil, g.quickErr
	}
	return g.quick, nil
}

func (g *fakeGame) FullParse(_ context.Context, _ string, saves []model.Save) ([]model.Save, error) {
	g.mu.Lock()
	g.fullInputs = append(g.fullInputs, model.IDs(saves))
	g.mu.Unlock()
	if g.fullErr != nil {
		return nil, g.fullErr
	}
	out := make([]model.Save, len(saves))
	for i, s := range saves {
		s.Details = &model.Details{Name: "full-" + s.ID}
		out[i] = s
	}
	return out, nil
}

// recordingSink keeps every published list.
type recordingSink struct {
	calls [][]model.Save
}

func (r *recordingSink) SetSaves(saves []model.Save) { r.calls = append(r.calls, saves) }

func newCoordinator(t *testing.T, g source.SaveGameData) *Coordinator {
	t.Helper()
	reg := source.NewRegistry()
	require.NoError(t, reg.Register(g))
	return &Coordinator{Registry: reg}
}

func quickSaves() []model.Save {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Save{
		{ID: "a", Paths: []string{"a"}, Date: d, Size: 1},
		{ID: "b", Paths: []string{"b"}, Date: d.Add(time.Hour), Size: 2},
	}
}

func TestFetch_PublishesQuickThenFull(t *testing.T) {
	g := &fakeGame{quick: quickSaves()}
	c := newCoordinator(t, g)
	sink := &recordingSink{}

	var phases []Phase
	completed := 0
	res := c.Fetch(context.Background(), Request{
		GameID:     "fake",
		SavesPath:  "/saves",
		Sink:       sink,
		OnPhase:    func(p Phase) { phases = append(phases, p) },
		OnComplete: func() { completed++ },
	})

	require.Len(t, sink.calls, 2)
	assert.Nil(t, sink.calls[0][0].Details, "first publish is the quick list")
	assert.Equal(t, "full-a", sink.calls[1][0].Details.Name)
	assert.Equal(t, []Phase{QuickFetching, QuickPublished, FullFetching, Done}, phases)
	assert.Equal(t, 1, completed)
	assert.True(t, res.Supported)
	assert.Equal(t, Done, res.Phase)
	assert.NotEmpty(t, res.RunID)
}

func TestFetch_UnsupportedGameStillCompletes(t *testing.T) {
	c := &Coordinator{Registry: source.NewRegistry()}
	sink := &recordingSink{}
	completed := 0

	res := c.Fetch(context.Background(), Request{
		GameID:     "skyrim",
		Sink:       sink,
		OnComplete: func() { completed++ },
	})

	assert.False(t, res.Supported)
	assert.Equal(t, Idle, res.Phase)
	assert.Empty(t, sink.calls)
	assert.Equal(t, 1, completed)
}

func TestFetch_QuickFailureKeepsPriorState(t *testing.T) {
	g := &fakeGame{quickErr: errors.New("listing failed")}
	c := newCoordinator(t, g)

	st := state.NewStore()
	prior := quickSaves()
	st.SetSaves(prior)
	completed := 0

	var phases []Phase
	res := c.Fetch(context.Background(), Request{
		GameID: "fake", SavesPath: "/saves", Sink: st,
		OnPhase:    func(p Phase) { phases = append(phases, p) },
		OnComplete: func() { completed++ },
	})

	require.Error(t, res.QuickErr)
	assert.NoError(t, res.FullErr)
	assert.Empty(t, g.fullInputs, "full parse is skipped")
	assert.Nil(t, res.Saves)
	assert.Equal(t, model.IDs(prior), model.IDs(st.Snapshot().Saves))
	assert.Equal(t, []Phase{QuickFetching, Done}, phases)
	assert.Equal(t, 1, completed)
}

func TestFetch_QuickFailurePublishesNothing(t *testing.T) {
	g := &fakeGame{quickErr: errors.New("a"), fullErr: errors.New("b")}
	c := newCoordinator(t, g)
	sink := &recordingSink{}

	res := c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: sink})

	assert.Error(t, res.QuickErr)
	assert.Empty(t, sink.calls)
	assert.Equal(t, Done, res.Phase)
}

func TestFetch_FullFailureKeepsQuickResults(t *testing.T) {
	g := &fakeGame{quick: quickSaves(), fullErr: errors.New("read failed")}
	c := newCoordinator(t, g)
	sink := &recordingSink{}

	res := c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: sink})

	require.Len(t, sink.calls, 1)
	assert.Equal(t, []string{"a", "b"}, model.IDs(sink.calls[0]))
	assert.Error(t, res.FullErr)
	assert.NoError(t, res.QuickErr)
	assert.Equal(t, Done, res.Phase)
}

func TestFetch_EmptySavesPathContinues(t *testing.T) {
	g := &fakeGame{quick: []model.Save{}}
	c := newCoordinator(t, g)
	var logs bytes.Buffer
	c.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	sink := &recordingSink{}

	res := c.Fetch(context.Background(), Request{GameID: "fake", Sink: sink})

	assert.True(t, res.Supported)
	assert.Len(t, sink.calls, 2)
	assert.Contains(t, logs.String(), "unable to process saved games")
	assert.Contains(t, logs.String(), "no save folder resolved for fake")
}

func TestFetch_Idempotent(t *testing.T) {
	g := &fakeGame{quick: quickSaves()}
	c := newCoordinator(t, g)
	st := state.NewStore()

	c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: st})
	first := st.Snapshot().Saves
	c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: st})

	assert.Equal(t, first, st.Snapshot().Saves)
}

func TestFetch_CacheSkipsUnchangedSaves(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "details.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	g := &fakeGame{quick: quickSaves()}
	c := newCoordinator(t, g)
	c.Cache = cache

	sink := &recordingSink{}
	c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: sink})
	require.Equal(t, [][]string{{"a", "b"}}, g.fullInputs)

	// b changes on disk; only b is reparsed and order is preserved.
	g.quick = quickSaves()
	g.quick[1].Size = 99
	sink = &recordingSink{}
	c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: sink})

	require.Len(t, g.fullInputs, 2)
	assert.Equal(t, []string{"b"}, g.fullInputs[1])
	full := sink.calls[len(sink.calls)-1]
	assert.Equal(t, []string{"a", "b"}, model.IDs(full))
	assert.Equal(t, "full-a", full[0].Details.Name)
	assert.Equal(t, int64(99), full[1].Size)

	// Overwrite ignores the cache.
	c.Fetch(context.Background(), Request{GameID: "fake", SavesPath: "/saves", Sink: sink, Overwrite: true})
	assert.Equal(t, []string{"a", "b"}, g.fullInputs[2])
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "quick-published", QuickPublished.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
