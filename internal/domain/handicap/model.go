package handicap

// Supported handicap-difference range of the chart. Differences outside
// this range must be clamped by the caller before lookup.
const (
	MinDifference = -12
	MaxDifference = 12
)

// ThresholdRow is one line of the static handicap chart: the game counts a
// team needs to win, tie, or lose a match at the given handicap difference
// (positive difference means the team is favored).
type ThresholdRow struct {
	Difference  int
	GamesToWin  int
	GamesToTie  int
	GamesToLose int
}

// Clamp bounds a raw handicap difference to the supported chart range.
func Clamp(difference int) int {
	if difference < MinDifference {
		return MinDifference
	}
	if difference > MaxDifference {
		return MaxDifference
	}
	return difference
}
