package match

import "context"

// Repository exposes match persistence operations. Match rows are created
// in bulk by schedule generation and removed only by an explicit clear.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Match, error)
	BulkCreate(ctx context.Context, matches []Match) (int, error)
	DeleteBySeason(ctx context.Context, seasonID string) (int, error)
	Update(ctx context.Context, m Match) error
	// RecordVerification stamps one side's verifier only while that side is
	// still unverified, leaving the other side's flag untouched. It reports
	// whether this call performed the write.
	RecordVerification(ctx context.Context, matchID string, homeSide bool, memberID string) (bool, error)
	// CompleteIfPending finalizes the match result only when the row is not
	// already completed; it reports whether this call performed the write.
	CompleteIfPending(ctx context.Context, m Match) (bool, error)
	ListGames(ctx context.Context, matchID string) ([]Game, error)
}
