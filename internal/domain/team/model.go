package team

// Format decides how many lineup positions a team fields per match.
type Format string

const (
	FormatThreeMan Format = "three_man"
	FormatFiveMan  Format = "five_man"
)

// LineupSize returns the number of positions a lineup of this format holds.
func (f Format) LineupSize() int {
	if f == FormatThreeMan {
		return 3
	}
	return 5
}

// Team is a roster competing in a season. SchedulePosition is the slot the
// matchup table builder pairs on; it is unique within a season.
type Team struct {
	ID               string
	SeasonID         string
	Name             string
	RosterSize       int
	SchedulePosition int
	Format           Format
}
