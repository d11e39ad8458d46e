package lineup

import "context"

// Repository exposes lineup persistence operations. Rows are created in
// bulk when a schedule is generated; absence of a row afterwards is a
// fatal condition for the caller.
type Repository interface {
	BulkCreate(ctx context.Context, items []Lineup) error
	DeleteBySeason(ctx context.Context, seasonID string) error
	GetByID(ctx context.Context, lineupID string) (Lineup, bool, error)
	GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (Lineup, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Lineup, error)
	// UpdateIfVersion writes the lineup only when the stored row still holds
	// expectedVersion, bumping Version by one. It reports whether the write
	// was applied; false means another writer got there first.
	UpdateIfVersion(ctx context.Context, item Lineup, expectedVersion int64) (bool, error)
}
