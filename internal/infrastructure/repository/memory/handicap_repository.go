package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cuetrack/pool-league/internal/domain/handicap"
)

type HandicapRepository struct {
	mu   sync.RWMutex
	rows map[int]handicap.ThresholdRow
}

func NewHandicapRepository(rows []handicap.ThresholdRow) *HandicapRepository {
	items := make(map[int]handicap.ThresholdRow, len(rows))
	for _, row := range rows {
		items[row.Difference] = row
	}
	return &HandicapRepository{rows: items}
}

func (r *HandicapRepository) GetByDifference(_ context.Context, difference int) (handicap.ThresholdRow, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[difference]
	if !ok {
		return handicap.ThresholdRow{}, false, nil
	}
	return row, true, nil
}

func (r *HandicapRepository) ListAll(_ context.Context) ([]handicap.ThresholdRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]handicap.ThresholdRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Difference < out[j].Difference
	})
	return out, nil
}
