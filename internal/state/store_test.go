package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/savegames/internal/model"
)

func saves(ids ...string) []model.Save {
	out := make([]model.Save, len(ids))
	for i, id := range ids {
		out[i] = model.Save{ID: id, Paths: []string{id}}
	}
	return out
}

func TestStore_DefaultsNotFetched(t *testing.T) {
	st := NewStore()
	s := st.Snapshot()
	assert.False(t, s.Fetched())
	assert.False(t, s.HasPath)
	assert.Nil(t, s.Saves)
}

func TestStore_SetSavesEmptyIsFetched(t *testing.T) {
	st := NewStore()
	st.SetSaves([]model.Save{})
	s := st.Snapshot()
	assert.True(t, s.Fetched())
	assert.Empty(t, s.Saves)

	st.SetSaves(nil)
	assert.False(t, st.Snapshot().Fetched())
}

func TestStore_DeleteSavesPrunesExactIDs(t *testing.T) {
	st := NewStore()
	st.SetSaves(saves("a", "b", "c"))
	st.RemoveSaves([]string{"b", "zzz"})

	assert.Equal(t, []string{"a", "c"}, model.IDs(st.Snapshot().Saves))
}

func TestStore_SetSavesCopiesInput(t *testing.T) {
	st := NewStore()
	in := saves("a")
	st.SetSaves(in)
	in[0].ID = "mutated"

	assert.Equal(t, "a", st.Snapshot().Saves[0].ID)
}

func TestStore_SetSavesPath(t *testing.T) {
	st := NewStore()
	st.SetSaves(saves("a"))
	st.SetSavesPath("/saves")

	s := st.Snapshot()
	assert.True(t, s.HasPath)
	assert.Equal(t, "/saves", s.SavesPath)
	assert.Len(t, s.Saves, 1, "path change alone must not touch saves")

	st.SetSavesPath("")
	s = st.Snapshot()
	assert.False(t, s.HasPath)
	assert.Empty(t, s.SavesPath)
}

func TestStore_Subscribe(t *testing.T) {
	st := NewStore()
	ch, cancel := st.Subscribe()

	st.SetSavesPath("/p")
	snap := <-ch
	require.True(t, snap.HasPath)

	cancel()
	st.SetSavesPath("/q")
	select {
	case s := <-ch:
		t.Fatalf("received %+v after cancel", s)
	default:
	}
}
