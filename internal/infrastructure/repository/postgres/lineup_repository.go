package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
	qb "github.com/cuetrack/pool-league/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) BulkCreate(ctx context.Context, items []lineup.Lineup) error {
	if len(items) == 0 {
		return nil
	}

	builder := qb.InsertInto("match_lineups").
		Columns("id", "match_id", "team_id", "position_player_ids", "position_handicaps",
			"substitute_position", "team_modifier", "version", "updated_at")
	for _, item := range items {
		playerIDs, handicaps, substitutePosition := lineupColumns(item)
		builder.Values(item.ID, item.MatchID, item.TeamID, playerIDs, handicaps,
			substitutePosition, item.TeamModifier, item.Version, item.UpdatedAt)
	}
	query, args, err := builder.Suffix("ON CONFLICT (id) DO NOTHING").ToSQL()
	if err != nil {
		return fmt.Errorf("build bulk create lineups query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk create lineups: %w", err)
	}
	return nil
}

func (r *LineupRepository) DeleteBySeason(ctx context.Context, seasonID string) error {
	query := `DELETE FROM match_lineups
		WHERE match_id IN (SELECT id FROM matches WHERE season_id = $1)`
	if _, err := r.db.ExecContext(ctx, query, seasonID); err != nil {
		return fmt.Errorf("delete season lineups: %w", err)
	}
	return nil
}

func (r *LineupRepository) GetByID(ctx context.Context, lineupID string) (lineup.Lineup, bool, error) {
	query, args, err := lineupSelectBuilder().
		Where(qb.Eq("id", lineupID)).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *LineupRepository) GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (lineup.Lineup, bool, error) {
	query, args, err := lineupSelectBuilder().
		Where(qb.Eq("match_id", matchID), qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup by match and team query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID string) ([]lineup.Lineup, error) {
	query, args, err := lineupSelectBuilder().
		Where(qb.Eq("match_id", matchID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups query: %w", err)
	}

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineups by match: %w", err)
	}

	out := make([]lineup.Lineup, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupFromRow(row))
	}
	return out, nil
}

// UpdateIfVersion is the optimistic-concurrency write: the row is updated
// and its version bumped only when the stored version still matches.
func (r *LineupRepository) UpdateIfVersion(ctx context.Context, item lineup.Lineup, expectedVersion int64) (bool, error) {
	playerIDs, handicaps, substitutePosition := lineupColumns(item)
	query, args, err := qb.Update("match_lineups").
		Set("position_player_ids", playerIDs).
		Set("position_handicaps", handicaps).
		Set("substitute_position", substitutePosition).
		Set("locked", item.Locked).
		Set("locked_at", item.LockedAt).
		Set("double_duty_player_id", item.DoubleDutyPlayerID).
		Set("double_duty_position", item.DoubleDutyPosition).
		Set("team_modifier", item.TeamModifier).
		Set("updated_at", item.UpdatedAt).
		SetExpr("version", "version + 1").
		Where(qb.Eq("id", item.ID), qb.Eq("version", expectedVersion)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update lineup query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update lineup: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update lineup rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *LineupRepository) getOne(ctx context.Context, query string, args []any) (lineup.Lineup, bool, error) {
	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}
	return lineupFromRow(row), true, nil
}

func lineupSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id", "match_id", "team_id", "position_player_ids", "position_handicaps",
		"substitute_position", "locked", "locked_at", "double_duty_player_id",
		"double_duty_position", "team_modifier", "version", "updated_at",
	).From("match_lineups")
}
