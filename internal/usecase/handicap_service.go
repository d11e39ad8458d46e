package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cuetrack/pool-league/internal/domain/handicap"
	"github.com/cuetrack/pool-league/internal/platform/cache"
)

// HandicapService resolves game-count thresholds from the static handicap
// chart. The chart is small and immutable at runtime, so lookups are cached
// aggressively.
type HandicapService struct {
	repo  handicap.Repository
	store *cache.Store
}

func NewHandicapService(repo handicap.Repository, store *cache.Store) *HandicapService {
	return &HandicapService{repo: repo, store: store}
}

// Thresholds returns the chart row for a handicap difference. The caller
// is responsible for composing team modifiers and clamping before lookup;
// a difference outside the supported range here is a caller bug. A missing
// row inside the range is a chart configuration defect.
func (s *HandicapService) Thresholds(ctx context.Context, difference int) (handicap.ThresholdRow, error) {
	ctx, span := startUsecaseSpan(ctx, "HandicapService.Thresholds")
	defer span.End()

	if difference < handicap.MinDifference || difference > handicap.MaxDifference {
		return handicap.ThresholdRow{}, fmt.Errorf("%w: difference %d", ErrOutOfRange, difference)
	}

	if s.store == nil {
		return s.load(ctx, difference)
	}

	value, err := s.store.GetOrLoad(ctx, "handicap:row:"+strconv.Itoa(difference), func(ctx context.Context) (any, error) {
		return s.load(ctx, difference)
	})
	if err != nil {
		return handicap.ThresholdRow{}, err
	}

	row, ok := value.(handicap.ThresholdRow)
	if !ok {
		return handicap.ThresholdRow{}, fmt.Errorf("unexpected cached chart type %T", value)
	}
	return row, nil
}

// Chart returns the full threshold table ordered by difference.
func (s *HandicapService) Chart(ctx context.Context) ([]handicap.ThresholdRow, error) {
	ctx, span := startUsecaseSpan(ctx, "HandicapService.Chart")
	defer span.End()

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list handicap chart: %w", err)
	}
	return rows, nil
}

func (s *HandicapService) load(ctx context.Context, difference int) (handicap.ThresholdRow, error) {
	row, exists, err := s.repo.GetByDifference(ctx, difference)
	if err != nil {
		return handicap.ThresholdRow{}, fmt.Errorf("get handicap row: %w", err)
	}
	if !exists {
		return handicap.ThresholdRow{}, fmt.Errorf("%w: handicap difference %d", ErrNotFound, difference)
	}
	return row, nil
}
