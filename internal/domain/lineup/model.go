package lineup

import "time"

// State is the lifecycle stage of a lineup, derived from its positions.
type State string

const (
	StateEmpty    State = "empty"
	StatePartial  State = "partial"
	StateComplete State = "complete"
	StateLocked   State = "locked"
)

// Position is one lineup slot. It holds either a real player with their
// handicap, a substitute placeholder awaiting the opponent's double-duty
// choice, or nothing.
type Position struct {
	PlayerID   string
	Handicap   int
	Substitute bool
}

// Filled reports whether the slot counts toward lineup completeness.
// A substitute placeholder counts as filled.
func (p Position) Filled() bool {
	return p.Substitute || p.PlayerID != ""
}

// Lineup is one team's side of a match. Rows are created together with the
// match when the schedule is generated and only ever updated afterwards.
// Version is a monotonic counter; every mutation is a compare-and-swap so
// concurrent writers on the same lineup surface a stale-write error instead
// of silently overwriting each other.
type Lineup struct {
	ID                 string
	MatchID            string
	TeamID             string
	Positions          []Position
	Locked             bool
	LockedAt           *time.Time
	DoubleDutyPlayerID *string
	DoubleDutyPosition *int
	TeamModifier       int
	Version            int64
	UpdatedAt          time.Time
}

// FilledCount returns how many positions are filled, placeholders included.
func (l Lineup) FilledCount() int {
	n := 0
	for _, p := range l.Positions {
		if p.Filled() {
			n++
		}
	}
	return n
}

// State derives the lifecycle stage from the lock flag and fill level.
func (l Lineup) State() State {
	if l.Locked {
		return StateLocked
	}
	switch filled := l.FilledCount(); {
	case filled == 0:
		return StateEmpty
	case filled < len(l.Positions):
		return StatePartial
	default:
		return StateComplete
	}
}

// SubstitutePosition returns the 1-based position of the substitute
// placeholder, if one exists. At most one placeholder is valid per lineup.
func (l Lineup) SubstitutePosition() (int, bool) {
	for i, p := range l.Positions {
		if p.Substitute {
			return i + 1, true
		}
	}
	return 0, false
}

// HandicapSum totals the handicaps of all occupied positions. After a
// double-duty resolution the chosen player's handicap counts twice, once
// per position they occupy.
func (l Lineup) HandicapSum() int {
	sum := 0
	for _, p := range l.Positions {
		if p.PlayerID != "" {
			sum += p.Handicap
		}
	}
	return sum
}

// Clone returns a deep copy safe to mutate.
func (l Lineup) Clone() Lineup {
	out := l
	out.Positions = append([]Position(nil), l.Positions...)
	if l.LockedAt != nil {
		at := *l.LockedAt
		out.LockedAt = &at
	}
	if l.DoubleDutyPlayerID != nil {
		id := *l.DoubleDutyPlayerID
		out.DoubleDutyPlayerID = &id
	}
	if l.DoubleDutyPosition != nil {
		pos := *l.DoubleDutyPosition
		out.DoubleDutyPosition = &pos
	}
	return out
}
