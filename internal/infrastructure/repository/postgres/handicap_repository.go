package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuetrack/pool-league/internal/domain/handicap"
	qb "github.com/cuetrack/pool-league/internal/platform/querybuilder"
)

type handicapTableModel struct {
	Difference  int `db:"difference"`
	GamesToWin  int `db:"games_to_win"`
	GamesToTie  int `db:"games_to_tie"`
	GamesToLose int `db:"games_to_lose"`
}

type HandicapRepository struct {
	db *sqlx.DB
}

func NewHandicapRepository(db *sqlx.DB) *HandicapRepository {
	return &HandicapRepository{db: db}
}

func (r *HandicapRepository) GetByDifference(ctx context.Context, difference int) (handicap.ThresholdRow, bool, error) {
	query, args, err := handicapSelectBuilder().
		Where(qb.Eq("difference", difference)).
		ToSQL()
	if err != nil {
		return handicap.ThresholdRow{}, false, fmt.Errorf("build get handicap row query: %w", err)
	}

	var row handicapTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return handicap.ThresholdRow{}, false, nil
		}
		return handicap.ThresholdRow{}, false, fmt.Errorf("get handicap row: %w", err)
	}

	return handicapFromRow(row), true, nil
}

func (r *HandicapRepository) ListAll(ctx context.Context) ([]handicap.ThresholdRow, error) {
	query, args, err := handicapSelectBuilder().
		OrderBy("difference").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list handicap chart query: %w", err)
	}

	var rows []handicapTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list handicap chart: %w", err)
	}

	out := make([]handicap.ThresholdRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, handicapFromRow(row))
	}
	return out, nil
}

func handicapSelectBuilder() *qb.SelectBuilder {
	return qb.Select("difference", "games_to_win", "games_to_tie", "games_to_lose").
		From("handicap_chart")
}

func handicapFromRow(row handicapTableModel) handicap.ThresholdRow {
	return handicap.ThresholdRow{
		Difference:  row.Difference,
		GamesToWin:  row.GamesToWin,
		GamesToTie:  row.GamesToTie,
		GamesToLose: row.GamesToLose,
	}
}
