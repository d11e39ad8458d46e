package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuetrack/pool-league/internal/domain/season"
	qb "github.com/cuetrack/pool-league/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query, args, err := qb.Select("id", "name", "start_date").
		From("seasons").
		Where(qb.Eq("id", seasonID)).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season: %w", err)
	}

	return season.Season{ID: row.ID, Name: row.Name, StartDate: row.StartDate}, true, nil
}

func (r *SeasonRepository) ListWeeks(ctx context.Context, seasonID string) ([]season.Week, error) {
	query, args, err := qb.Select("id", "season_id", "week_date", "display_name", "kind", "completed").
		From("season_weeks").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("week_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weeks query: %w", err)
	}

	var rows []seasonWeekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season weeks: %w", err)
	}

	out := make([]season.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Week{
			ID:          row.ID,
			SeasonID:    row.SeasonID,
			Date:        row.Date,
			DisplayName: row.DisplayName,
			Kind:        season.WeekKind(row.Kind),
			Completed:   row.Completed,
		})
	}
	return out, nil
}

func (r *SeasonRepository) ListBlackoutPreferences(ctx context.Context, seasonID string) ([]season.BlackoutPreference, error) {
	query, args, err := qb.Select("id", "season_id", "source_type", "action", "label", "range_start", "range_end").
		From("blackout_preferences").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("range_start").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list blackout preferences query: %w", err)
	}

	var rows []blackoutPreferenceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list blackout preferences: %w", err)
	}

	out := make([]season.BlackoutPreference, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.BlackoutPreference{
			ID:         row.ID,
			SeasonID:   row.SeasonID,
			Source:     season.PreferenceSource(row.Source),
			Action:     season.PreferenceAction(row.Action),
			Label:      row.Label,
			RangeStart: row.RangeStart,
			RangeEnd:   row.RangeEnd,
		})
	}
	return out, nil
}
