package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
)

// Lineup positions are stored as parallel arrays indexed by slot; an empty
// player id is an empty slot and substitute_position marks the placeholder
// (0 when none). This keeps three-man and five-man formats in one schema.
type lineupTableModel struct {
	ID                 string         `db:"id"`
	MatchID            string         `db:"match_id"`
	TeamID             string         `db:"team_id"`
	PlayerIDs          pq.StringArray `db:"position_player_ids"`
	Handicaps          pq.Int64Array  `db:"position_handicaps"`
	SubstitutePosition int            `db:"substitute_position"`
	Locked             bool           `db:"locked"`
	LockedAt           *time.Time     `db:"locked_at"`
	DoubleDutyPlayerID *string        `db:"double_duty_player_id"`
	DoubleDutyPosition *int           `db:"double_duty_position"`
	TeamModifier       int            `db:"team_modifier"`
	Version            int64          `db:"version"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func lineupFromRow(row lineupTableModel) lineup.Lineup {
	positions := make([]lineup.Position, len(row.PlayerIDs))
	for i := range row.PlayerIDs {
		positions[i] = lineup.Position{PlayerID: row.PlayerIDs[i]}
		if i < len(row.Handicaps) {
			positions[i].Handicap = int(row.Handicaps[i])
		}
	}
	if row.SubstitutePosition >= 1 && row.SubstitutePosition <= len(positions) {
		positions[row.SubstitutePosition-1].Substitute = true
	}

	return lineup.Lineup{
		ID:                 row.ID,
		MatchID:            row.MatchID,
		TeamID:             row.TeamID,
		Positions:          positions,
		Locked:             row.Locked,
		LockedAt:           row.LockedAt,
		DoubleDutyPlayerID: row.DoubleDutyPlayerID,
		DoubleDutyPosition: row.DoubleDutyPosition,
		TeamModifier:       row.TeamModifier,
		Version:            row.Version,
		UpdatedAt:          row.UpdatedAt,
	}
}

func lineupColumns(item lineup.Lineup) (pq.StringArray, pq.Int64Array, int) {
	playerIDs := make(pq.StringArray, len(item.Positions))
	handicaps := make(pq.Int64Array, len(item.Positions))
	substitutePosition := 0
	for i, p := range item.Positions {
		playerIDs[i] = p.PlayerID
		handicaps[i] = int64(p.Handicap)
		if p.Substitute {
			substitutePosition = i + 1
		}
	}
	return playerIDs, handicaps, substitutePosition
}
