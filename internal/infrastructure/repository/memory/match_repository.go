package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cuetrack/pool-league/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
	games map[string][]match.Game
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		items: make(map[string]match.Match),
		games: make(map[string][]match.Game),
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.SeasonID == seasonID {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeasonWeekID != out[j].SeasonWeekID {
			return out[i].SeasonWeekID < out[j].SeasonWeekID
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *MatchRepository) BulkCreate(_ context.Context, matches []match.Match) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := 0
	for _, m := range matches {
		if _, exists := r.items[m.ID]; exists {
			continue
		}
		r.items[m.ID] = cloneMatch(m)
		created++
	}
	return created, nil
}

func (r *MatchRepository) DeleteBySeason(_ context.Context, seasonID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, m := range r.items {
		if m.SeasonID == seasonID {
			delete(r.items, id)
			delete(r.games, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) RecordVerification(_ context.Context, matchID string, homeSide bool, memberID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return false, nil
	}
	if homeSide {
		if m.HomeVerifiedBy != nil {
			return false, nil
		}
		m.HomeVerifiedBy = &memberID
	} else {
		if m.AwayVerifiedBy != nil {
			return false, nil
		}
		m.AwayVerifiedBy = &memberID
	}
	r.items[matchID] = cloneMatch(m)
	return true, nil
}

func (r *MatchRepository) CompleteIfPending(_ context.Context, m match.Match) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[m.ID]
	if !ok || stored.Status == match.StatusCompleted {
		return false, nil
	}
	r.items[m.ID] = cloneMatch(m)
	return true, nil
}

func (r *MatchRepository) ListGames(_ context.Context, matchID string) ([]match.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]match.Game(nil), r.games[matchID]...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].GameNumber < out[j].GameNumber
	})
	return out, nil
}

// AddGame seeds a game row. Test helper; game entry is not part of the
// service surface here.
func (r *MatchRepository) AddGame(g match.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[g.MatchID] = append(r.games[g.MatchID], g)
}

func cloneMatch(m match.Match) match.Match {
	out := m
	if m.AwayTeamID != nil {
		v := *m.AwayTeamID
		out.AwayTeamID = &v
	}
	if m.WinnerTeamID != nil {
		v := *m.WinnerTeamID
		out.WinnerTeamID = &v
	}
	if m.HomeVerifiedBy != nil {
		v := *m.HomeVerifiedBy
		out.HomeVerifiedBy = &v
	}
	if m.AwayVerifiedBy != nil {
		v := *m.AwayVerifiedBy
		out.AwayVerifiedBy = &v
	}
	if m.StartedAt != nil {
		v := *m.StartedAt
		out.StartedAt = &v
	}
	if m.CompletedAt != nil {
		v := *m.CompletedAt
		out.CompletedAt = &v
	}
	return out
}
