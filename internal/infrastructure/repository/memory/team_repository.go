package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cuetrack/pool-league/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = t
	}
	return &TeamRepository{items: items}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}
	return t, true, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, t := range r.items {
		if t.SeasonID == seasonID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SchedulePosition < out[j].SchedulePosition
	})
	return out, nil
}
