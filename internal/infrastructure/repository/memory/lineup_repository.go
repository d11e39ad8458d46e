package memory

import (
	"context"
	"sync"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
)

type LineupRepository struct {
	mu       sync.RWMutex
	items    map[string]lineup.Lineup
	seasonOf func(matchID string) (string, bool)
}

// NewLineupRepository creates the store. seasonOf maps a match to its
// season for DeleteBySeason; pass nil when season-wide deletes are unused.
func NewLineupRepository(seasonOf func(matchID string) (string, bool)) *LineupRepository {
	return &LineupRepository{
		items:    make(map[string]lineup.Lineup),
		seasonOf: seasonOf,
	}
}

func (r *LineupRepository) BulkCreate(_ context.Context, items []lineup.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range items {
		if _, exists := r.items[l.ID]; exists {
			continue
		}
		r.items[l.ID] = l.Clone()
	}
	return nil
}

func (r *LineupRepository) DeleteBySeason(_ context.Context, seasonID string) error {
	if r.seasonOf == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.items {
		if sid, ok := r.seasonOf(l.MatchID); ok && sid == seasonID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *LineupRepository) GetByID(_ context.Context, lineupID string) (lineup.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[lineupID]
	if !ok {
		return lineup.Lineup{}, false, nil
	}
	return l.Clone(), true, nil
}

func (r *LineupRepository) GetByMatchAndTeam(_ context.Context, matchID, teamID string) (lineup.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.items {
		if l.MatchID == matchID && l.TeamID == teamID {
			return l.Clone(), true, nil
		}
	}
	return lineup.Lineup{}, false, nil
}

func (r *LineupRepository) ListByMatch(_ context.Context, matchID string) ([]lineup.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []lineup.Lineup
	for _, l := range r.items {
		if l.MatchID == matchID {
			out = append(out, l.Clone())
		}
	}
	return out, nil
}

func (r *LineupRepository) UpdateIfVersion(_ context.Context, item lineup.Lineup, expectedVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}

	next := item.Clone()
	next.Version = expectedVersion + 1
	r.items[item.ID] = next
	return true, nil
}
