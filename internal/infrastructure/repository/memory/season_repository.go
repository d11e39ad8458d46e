package memory

import (
	"context"
	"sync"

	"github.com/cuetrack/pool-league/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[string]season.Season
	weeks   map[string][]season.Week
	prefs   map[string][]season.BlackoutPreference
}

func NewSeasonRepository(seasons []season.Season, weeks []season.Week, prefs []season.BlackoutPreference) *SeasonRepository {
	r := &SeasonRepository{
		seasons: make(map[string]season.Season, len(seasons)),
		weeks:   make(map[string][]season.Week),
		prefs:   make(map[string][]season.BlackoutPreference),
	}
	for _, s := range seasons {
		r.seasons[s.ID] = s
	}
	for _, wk := range weeks {
		r.weeks[wk.SeasonID] = append(r.weeks[wk.SeasonID], wk)
	}
	for _, p := range prefs {
		r.prefs[p.SeasonID] = append(r.prefs[p.SeasonID], p)
	}
	return r
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seasons[seasonID]
	if !ok {
		return season.Season{}, false, nil
	}
	return s, true, nil
}

func (r *SeasonRepository) ListWeeks(_ context.Context, seasonID string) ([]season.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]season.Week(nil), r.weeks[seasonID]...), nil
}

func (r *SeasonRepository) ListBlackoutPreferences(_ context.Context, seasonID string) ([]season.BlackoutPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]season.BlackoutPreference(nil), r.prefs[seasonID]...), nil
}
