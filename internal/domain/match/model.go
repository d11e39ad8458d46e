package match

import "time"

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Match is one scheduled meeting between two teams in a season week.
// AwayTeamID is nil for historical bye rows imported from older seasons;
// the schedule generator itself never emits bye matches.
type Match struct {
	ID             string
	SeasonID       string
	SeasonWeekID   string
	HomeTeamID     string
	AwayTeamID     *string
	MatchNumber    int
	Status         Status
	HomeScore      int
	AwayScore      int
	WinnerTeamID   *string
	HomeVerifiedBy *string
	AwayVerifiedBy *string
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// Game is a single rack inside a match. A game counts toward a team's
// win tally once a winner is recorded and both sides have confirmed it.
type Game struct {
	ID              string
	MatchID         string
	GameNumber      int
	HomePlayerID    string
	AwayPlayerID    string
	WinnerTeamID    *string
	BreakAndRun     bool
	GoldenBreak     bool
	IsTiebreaker    bool
	ConfirmedByHome *string
	ConfirmedByAway *string
}

// Confirmed reports whether both sides signed off on the game result.
func (g Game) Confirmed() bool {
	return g.WinnerTeamID != nil && g.ConfirmedByHome != nil && g.ConfirmedByAway != nil
}
