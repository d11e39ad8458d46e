package postgres

import "time"

type matchTableModel struct {
	ID             string     `db:"id"`
	SeasonID       string     `db:"season_id"`
	SeasonWeekID   string     `db:"season_week_id"`
	HomeTeamID     string     `db:"home_team_id"`
	AwayTeamID     *string    `db:"away_team_id"`
	MatchNumber    int        `db:"match_number"`
	Status         string     `db:"status"`
	HomeScore      int        `db:"home_score"`
	AwayScore      int        `db:"away_score"`
	WinnerTeamID   *string    `db:"winner_team_id"`
	HomeVerifiedBy *string    `db:"home_verified_by"`
	AwayVerifiedBy *string    `db:"away_verified_by"`
	StartedAt      *time.Time `db:"started_at"`
	CompletedAt    *time.Time `db:"completed_at"`
}

type matchGameTableModel struct {
	ID              string  `db:"id"`
	MatchID         string  `db:"match_id"`
	GameNumber      int     `db:"game_number"`
	HomePlayerID    string  `db:"home_player_id"`
	AwayPlayerID    string  `db:"away_player_id"`
	WinnerTeamID    *string `db:"winner_team_id"`
	BreakAndRun     bool    `db:"break_and_run"`
	GoldenBreak     bool    `db:"golden_break"`
	IsTiebreaker    bool    `db:"is_tiebreaker"`
	ConfirmedByHome *string `db:"confirmed_by_home"`
	ConfirmedByAway *string `db:"confirmed_by_away"`
}
