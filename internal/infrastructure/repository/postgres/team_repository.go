package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cuetrack/pool-league/internal/domain/team"
	qb "github.com/cuetrack/pool-league/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID               string `db:"id"`
	SeasonID         string `db:"season_id"`
	Name             string `db:"name"`
	RosterSize       int    `db:"roster_size"`
	SchedulePosition int    `db:"schedule_position"`
	Format           string `db:"format"`
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := teamSelectBuilder().
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	query, args, err := teamSelectBuilder().
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("schedule_position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func teamSelectBuilder() *qb.SelectBuilder {
	return qb.Select("id", "season_id", "name", "roster_size", "schedule_position", "format").
		From("teams")
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:               row.ID,
		SeasonID:         row.SeasonID,
		Name:             row.Name,
		RosterSize:       row.RosterSize,
		SchedulePosition: row.SchedulePosition,
		Format:           team.Format(row.Format),
	}
}
