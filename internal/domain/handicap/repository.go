package handicap

import "context"

// Repository reads the static handicap chart. The chart is reference data,
// fully populated for the supported range and read-only to this service.
type Repository interface {
	GetByDifference(ctx context.Context, difference int) (ThresholdRow, bool, error)
	ListAll(ctx context.Context) ([]ThresholdRow, error)
}
