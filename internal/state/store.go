// Package state holds the session-scoped saved games state.
package state

import (
	"slices"
	"sync"

	"github.com/theirongolddev/savegames/internal/model"
)

// State is the saved games session state for the active profile.
type State struct {
	// Saves is nil until fetched; an empty slice means none were found.
	Saves     []model.Save
	SavesPath string
	HasPath   bool
}

// Fetched reports whether a save list has been published.
func (s State) Fetched() bool {
	return s.Saves != nil
}

// Action is one state transition. Only the actions in this package exist.
type Action interface {
	apply(State) State
}

// SetSaves replaces the save list. A nil list resets to "not fetched".
type SetSaves struct {
	Saves []model.Save
}

func (a SetSaves) apply(s State) State {
	if a.Saves == nil {
		s.Saves = nil
		return s
	}
	s.Saves = slices.Clone(a.Saves)
	return s
}

// DeleteSaves removes the saves with the given ids.
type DeleteSaves struct {
	IDs []string
}

func (a DeleteSaves) apply(s State) State {
	remove := make(map[string]struct{}, len(a.IDs))
	for _, id := range a.IDs {
		remove[id] = struct{}{}
	}
	kept := make([]model.Save, 0, len(s.Saves))
	for _, sv := range s.Saves {
		if _, ok := remove[sv.ID]; !ok {
			kept = append(kept, sv)
		}
	}
	s.Saves = kept
	return s
}

// SetSavesPath records the resolved save folder. An empty path clears it.
type SetSavesPath struct {
	Path string
}

func (a SetSavesPath) apply(s State) State {
	s.SavesPath = a.Path
	s.HasPath = a.Path != ""
	return s
}

// Store applies actions one at a time and fans snapshots out to subscribers.
type Store struct {
	mu    sync.RWMutex
	state State

	nextSubID int
	subs      map[int]chan State
}

// NewStore returns a store in the default state.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan State)}
}

// Dispatch applies a to the state and notifies subscribers.
func (st *Store) Dispatch(a Action) {
	st.mu.Lock()
	st.state = a.apply(st.state)
	snap := st.state
	for _, ch := range st.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	st.mu.Unlock()
}

// Snapshot returns the current state. The save slice must not be modified.
func (st *Store) Snapshot() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state
}

// SetSaves dispatches SetSaves.
func (st *Store) SetSaves(saves []model.Save) { st.Dispatch(SetSaves{Saves: saves}) }

// RemoveSaves dispatches DeleteSaves.
func (st *Store) RemoveSaves(ids []string) { st.Dispatch(DeleteSaves{IDs: ids}) }

// SetSavesPath dispatches SetSavesPath.
func (st *Store) SetSavesPath(path string) { st.Dispatch(SetSavesPath{Path: path}) }

// Subscribe returns a channel receiving a snapshot after each dispatch.
// Slow subscribers miss intermediate snapshots. Call cancel to unsubscribe.
func (st *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)

	st.mu.Lock()
	st.nextSubID++
	id := st.nextSubID
	st.subs[id] = ch
	st.mu.Unlock()

	return ch, func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}
