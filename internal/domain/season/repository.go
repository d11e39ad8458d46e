package season

import "context"

// Repository exposes season calendar persistence operations.
type Repository interface {
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	ListWeeks(ctx context.Context, seasonID string) ([]Week, error)
	ListBlackoutPreferences(ctx context.Context, seasonID string) ([]BlackoutPreference, error)
}
