package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuetrack/pool-league/internal/domain/match"
	qb "github.com/cuetrack/pool-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := matchSelectBuilder().
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	query, args, err := matchSelectBuilder().
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("season_week_id", "match_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) BulkCreate(ctx context.Context, matches []match.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	builder := qb.InsertInto("matches").
		Columns("id", "season_id", "season_week_id", "home_team_id", "away_team_id", "match_number", "status")
	for _, m := range matches {
		builder.Values(m.ID, m.SeasonID, m.SeasonWeekID, m.HomeTeamID, m.AwayTeamID, m.MatchNumber, string(m.Status))
	}
	query, args, err := builder.Suffix("ON CONFLICT (id) DO NOTHING").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build bulk create matches query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk create matches: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk create matches rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *MatchRepository) DeleteBySeason(ctx context.Context, seasonID string) (int, error) {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete matches query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete season matches: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete season matches rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	query, args, err := qb.Update("matches").
		Set("status", string(m.Status)).
		Set("home_score", m.HomeScore).
		Set("away_score", m.AwayScore).
		Set("winner_team_id", m.WinnerTeamID).
		Set("home_verified_by", m.HomeVerifiedBy).
		Set("away_verified_by", m.AwayVerifiedBy).
		Set("started_at", m.StartedAt).
		Set("completed_at", m.CompletedAt).
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

func (r *MatchRepository) RecordVerification(ctx context.Context, matchID string, homeSide bool, memberID string) (bool, error) {
	column := "away_verified_by"
	if homeSide {
		column = "home_verified_by"
	}

	query, args, err := qb.Update("matches").
		Set(column, memberID).
		Where(
			qb.Eq("id", matchID),
			qb.Expr(column+" IS NULL"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build record verification query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("record verification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record verification rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *MatchRepository) CompleteIfPending(ctx context.Context, m match.Match) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(match.StatusCompleted)).
		Set("home_score", m.HomeScore).
		Set("away_score", m.AwayScore).
		Set("winner_team_id", m.WinnerTeamID).
		Set("completed_at", m.CompletedAt).
		Where(
			qb.Eq("id", m.ID),
			qb.Expr("status <> ?", string(match.StatusCompleted)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build complete match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("complete match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete match rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *MatchRepository) ListGames(ctx context.Context, matchID string) ([]match.Game, error) {
	query, args, err := qb.Select(
		"id", "match_id", "game_number", "home_player_id", "away_player_id",
		"winner_team_id", "break_and_run", "golden_break", "is_tiebreaker",
		"confirmed_by_home", "confirmed_by_away",
	).
		From("match_games").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("game_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []matchGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match games: %w", err)
	}

	out := make([]match.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Game{
			ID:              row.ID,
			MatchID:         row.MatchID,
			GameNumber:      row.GameNumber,
			HomePlayerID:    row.HomePlayerID,
			AwayPlayerID:    row.AwayPlayerID,
			WinnerTeamID:    row.WinnerTeamID,
			BreakAndRun:     row.BreakAndRun,
			GoldenBreak:     row.GoldenBreak,
			IsTiebreaker:    row.IsTiebreaker,
			ConfirmedByHome: row.ConfirmedByHome,
			ConfirmedByAway: row.ConfirmedByAway,
		})
	}
	return out, nil
}

func matchSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id", "season_id", "season_week_id", "home_team_id", "away_team_id",
		"match_number", "status", "home_score", "away_score", "winner_team_id",
		"home_verified_by", "away_verified_by", "started_at", "completed_at",
	).From("matches")
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:             row.ID,
		SeasonID:       row.SeasonID,
		SeasonWeekID:   row.SeasonWeekID,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		MatchNumber:    row.MatchNumber,
		Status:         match.Status(row.Status),
		HomeScore:      row.HomeScore,
		AwayScore:      row.AwayScore,
		WinnerTeamID:   row.WinnerTeamID,
		HomeVerifiedBy: row.HomeVerifiedBy,
		AwayVerifiedBy: row.AwayVerifiedBy,
		StartedAt:      row.StartedAt,
		CompletedAt:    row.CompletedAt,
	}
}
