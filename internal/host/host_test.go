package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/source"
)

const header = "XCOM 2\nv1\nOperation Broken Sun\nGeoscape\nMonth 3\nCommander\ntrailer\n"

// newTestHost builds a host whose documents folder holds a WotC save folder
// with the given files.
func newTestHost(t *testing.T, files map[string]string) (*Host, string) {
	t.Helper()
	docs := t.TempDir()
	folder := filepath.Join(docs, "My Games", "XCOM2 War of the Chosen", "XComGame", "SaveData")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(body), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.Profiles = []config.Profile{
		{ID: "wotc", Game: "xcom2-wotc"},
		{ID: "sky", Game: "skyrim"},
	}
	h := New(Options{
		Config:       cfg,
		Registry:     source.Default("/assets"),
		DocumentsDir: docs,
	})
	return h, folder
}

func TestProfileDidChange_SetsPathAndClearsSaves(t *testing.T) {
	h, folder := newTestHost(t, nil)
	h.Store().SetSaves([]model.Save{{ID: "stale"}})

	require.NoError(t, h.ProfileDidChange(context.Background(), "wotc"))

	snap := h.Store().Snapshot()
	assert.Equal(t, folder, snap.SavesPath)
	assert.False(t, snap.Fetched())
	assert.True(t, h.Supported())
}

func TestProfileDidChange_UnsupportedGameClearsState(t *testing.T) {
	h, _ := newTestHost(t, map[string]string{"save_1": header})
	ctx := context.Background()
	require.NoError(t, h.ProfileDidChange(ctx, "wotc"))
	_, err := h.GetSaves(ctx, nil)
	require.NoError(t, err)
	require.True(t, h.Store().Snapshot().Fetched())

	require.NoError(t, h.ProfileDidChange(ctx, "sky"))

	snap := h.Store().Snapshot()
	assert.Empty(t, snap.SavesPath)
	assert.False(t, snap.HasPath)
	assert.False(t, snap.Fetched())
	assert.False(t, h.Supported())
}

func TestDelete_RefusesAfterSwitchToUnsupportedGame(t *testing.T) {
	h, folder := newTestHost(t, map[string]string{"save_1": header})
	ctx := context.Background()
	require.NoError(t, h.ProfileDidChange(ctx, "wotc"))
	_, err := h.GetSaves(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, h.ProfileDidChange(ctx, "sky"))

	res, err := h.Delete(ctx, []string{"save_1"}, pipeline.AlwaysConfirm)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, res.Deleted)
	assert.FileExists(t, filepath.Join(folder, "save_1"))
	assert.ErrorIs(t, h.OpenFolder(ctx), ErrUnsupported)
}

func TestProfileDidChange_UnknownProfile(t *testing.T) {
	h, _ := newTestHost(t, nil)
	err := h.ProfileDidChange(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestGetSaves_NoProfileStillCompletes(t *testing.T) {
	h, _ := newTestHost(t, nil)
	done := false
	_, err := h.GetSaves(context.Background(), func() { done = true })
	assert.ErrorIs(t, err, ErrNoProfile)
	assert.True(t, done)
}

func TestGetSaves_FullParseReachesStore(t *testing.T) {
	h, _ := newTestHost(t, map[string]string{"save_autosave": header, "save_1": header})
	require.NoError(t, h.ProfileDidChange(context.Background(), "wotc"))

	done := 0
	res, err := h.GetSaves(context.Background(), func() { done++ })
	require.NoError(t, err)
	assert.Equal(t, pipeline.Done, res.Phase)
	assert.Equal(t, pipeline.Done, h.Phase())
	assert.Equal(t, 1, done)

	saves := h.Store().Snapshot().Saves
	require.Len(t, saves, 2)
	for _, s := range saves {
		require.NotNil(t, s.Details)
		assert.Equal(t, "Operation Broken Sun", s.Details.Name)
		assert.Equal(t, filepath.Join("/assets", "xcom2-save-geoscape.jpg"), h.Image(s))
	}
}

func TestDelete_RemovesFilesAndState(t *testing.T) {
	h, folder := newTestHost(t, map[string]string{"save_1": header, "save_2": header})
	ctx := context.Background()
	require.NoError(t, h.ProfileDidChange(ctx, "wotc"))
	_, err := h.GetSaves(ctx, nil)
	require.NoError(t, err)

	res, err := h.Delete(ctx, []string{"save_1", "ghost"}, pipeline.AlwaysConfirm)
	require.NoError(t, err)
	assert.Equal(t, []string{"save_1"}, res.Deleted)
	assert.NoFileExists(t, filepath.Join(folder, "save_1"))
	assert.Equal(t, []string{"save_2"}, model.IDs(h.Store().Snapshot().Saves))

	_, err = h.Delete(ctx, []string{"ghost"}, pipeline.AlwaysConfirm)
	assert.Error(t, err)
}

func TestColumns_IncludeGameColumnsInOrder(t *testing.T) {
	h, _ := newTestHost(t, nil)
	require.NoError(t, h.ProfileDidChange(context.Background(), "wotc"))

	var ids []string
	for _, c := range h.Columns() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"image", "name", "date", "size", "summary", "files", "xcom2-savetype"}, ids)

	for _, c := range h.TableColumns() {
		assert.NotEqual(t, source.PlaceDetail, c.Placement)
	}

	actions := h.Actions(nil, pipeline.AlwaysConfirm)
	require.NotEmpty(t, actions)
	assert.Equal(t, "delete", actions[0].ID)
}

func TestImage_FallbackWhenNoDetails(t *testing.T) {
	h, _ := newTestHost(t, nil)
	assert.Equal(t, "", h.Image(model.Save{ID: "x"}))
	assert.Equal(t, "/a.jpg", h.Image(model.Save{ID: "x", Details: &model.Details{Image: "/a.jpg"}}))
}
