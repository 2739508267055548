package source

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateGame is returned when a game id is registered twice.
var ErrDuplicateGame = errors.New("game already registered")

// Registry maps game ids to their save parsers.
type Registry struct {
	mu    sync.RWMutex
	games map[string]SaveGameData
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]SaveGameData)}
}

// Default returns a registry holding the built-in parsers.
// assetDir is where bundled save thumbnails live.
func Default(assetDir string) *Registry {
	r := NewRegistry()
	for _, g := range []SaveGameData{
		Morrowind{},
		NewXCOM2(XCOM2Base, assetDir),
		NewXCOM2(XCOM2WotC, assetDir),
	} {
		_ = r.Register(g)
	}
	return r
}

// Register adds g. Registrations are immutable.
func (r *Registry) Register(g SaveGameData) error {
	id := g.GameID()
	if id == "" {
		return errors.New("game id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateGame, id)
	}
	r.games[id] = g
	return nil
}

// Lookup returns the parser for gameID. A miss means the game has no saved
// games support, which is not an error.
func (r *Registry) Lookup(gameID string) (SaveGameData, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[gameID]
	return g, ok
}

// Games returns the registered game ids, sorted.
func (r *Registry) Games() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
