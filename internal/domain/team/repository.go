package team

import "context"

// Repository exposes team persistence operations.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)
}
