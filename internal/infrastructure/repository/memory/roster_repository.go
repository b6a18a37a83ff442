package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/canmnt-live/internal/domain/roster"
)

// RosterRepository serves the tracked roster in its configured order.
type RosterRepository struct {
	mu      sync.RWMutex
	players []roster.TrackedPlayer
	byName  map[string]roster.TrackedPlayer
}

func NewRosterRepository(players []roster.TrackedPlayer) *RosterRepository {
	out := make([]roster.TrackedPlayer, 0, len(players))
	byName := make(map[string]roster.TrackedPlayer, len(players))
	for _, p := range players {
		if _, dup := byName[p.Name]; dup {
			continue
		}
		p.IDs = copyIDs(p.IDs)
		out = append(out, p)
		byName[p.Name] = p
	}

	return &RosterRepository{players: out, byName: byName}
}

func (r *RosterRepository) List(_ context.Context) ([]roster.TrackedPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.TrackedPlayer, 0, len(r.players))
	for _, p := range r.players {
		p.IDs = copyIDs(p.IDs)
		out = append(out, p)
	}
	return out, nil
}

// GetByName matches the display name exactly after trimming surrounding space.
func (r *RosterRepository) GetByName(_ context.Context, name string) (roster.TrackedPlayer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return roster.TrackedPlayer{}, false, nil
	}
	p.IDs = copyIDs(p.IDs)
	return p, true, nil
}

func copyIDs(ids map[roster.Source]int64) map[roster.Source]int64 {
	out := make(map[roster.Source]int64, len(ids))
	for k, v := range ids {
		out[k] = v
	}
	return out
}
