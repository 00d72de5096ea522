// internal/store/games.go
//
// In-memory registry of active practice games.
// Practice games are never persisted: they live here until they go idle
// and the sweeper evicts them.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/colordle/apps/go-server/internal/game"
)

// Games stores active *game.Game values keyed by ID.
type Games interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Update runs fn on the stored game under the registry lock, so
	// concurrent requests for one game never interleave.
	// Returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, id string, fn func(*game.Game) error) error

	// Sweep evicts games not touched since cutoff and returns the count.
	Sweep(cutoff time.Time) int

	// Len reports the number of active games.
	Len() int
}

type gameEntry struct {
	g          *game.Game
	lastAccess time.Time
}

// memoryGames is the map-based Games implementation.
type memoryGames struct {
	mu    sync.RWMutex
	games map[string]*gameEntry
	now   func() time.Time
}

// NewMemoryGames constructs an empty registry.
func NewMemoryGames() Games {
	return &memoryGames{games: make(map[string]*gameEntry), now: time.Now}
}

func (m *memoryGames) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &gameEntry{g: g, lastAccess: m.now()}
	return nil
}

func (m *memoryGames) Update(ctx context.Context, id string, fn func(*game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	e.lastAccess = m.now()
	return fn(e.g)
}

func (m *memoryGames) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.games {
		if e.lastAccess.Before(cutoff) {
			delete(m.games, id)
			removed++
		}
	}
	return removed
}

func (m *memoryGames) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
