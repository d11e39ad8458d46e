package season

import "time"

// WeekKind classifies a calendar week inside a season.
type WeekKind string

const (
	WeekRegular        WeekKind = "regular"
	WeekBlackout       WeekKind = "blackout"
	WeekPlayoffs       WeekKind = "playoffs"
	WeekSeasonEndBreak WeekKind = "season_end_break"
)

type Season struct {
	ID        string
	Name      string
	StartDate time.Time
}

// Week is one calendar entry of a season. At most one week exists per
// (season, date). Completed is a one-way flag: once every match of the
// week is finalized the week becomes immutable.
type Week struct {
	ID          string
	SeasonID    string
	Date        time.Time
	DisplayName string
	Kind        WeekKind
	Completed   bool
}

// PreferenceSource identifies where a blackout preference came from.
type PreferenceSource string

const (
	SourceHoliday      PreferenceSource = "holiday"
	SourceChampionship PreferenceSource = "championship"
	SourceCustom       PreferenceSource = "custom"
)

// PreferenceAction is the operator's decision for weeks near the range:
// blackout skips play, ignore forces play despite proximity.
type PreferenceAction string

const (
	ActionBlackout PreferenceAction = "blackout"
	ActionIgnore   PreferenceAction = "ignore"
)

type BlackoutPreference struct {
	ID         string
	SeasonID   string
	Source     PreferenceSource
	Action     PreferenceAction
	Label      string
	RangeStart time.Time
	RangeEnd   time.Time
}
