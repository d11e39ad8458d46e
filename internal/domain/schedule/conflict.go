package schedule

import (
	"time"

	"github.com/cuetrack/pool-league/internal/domain/season"
)

// DefaultProximityDays is the window, in days, around a blackout
// preference's date range within which a league night is flagged.
const DefaultProximityDays = 7

// Severity ranks how close a league night sits to a preference range.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "none"
	}
}

// EffectiveAction is the detector's verdict for one week.
type EffectiveAction string

const (
	EffectivePlay EffectiveAction = "play"
	EffectiveSkip EffectiveAction = "skip"
)

// Conflict annotates one week/preference proximity hit. Weeks inside the
// preference's range are always actionable; of the remaining weeks in the
// proximity window only the closest is, the rest carry the conflict for
// display only.
type Conflict struct {
	PreferenceID string
	Source       season.PreferenceSource
	Action       season.PreferenceAction
	Label        string
	Severity     Severity
	DistanceDays int
	Actionable   bool
}

// AnnotatedWeek is a candidate week plus everything the detector learned
// about it. MaxSeverity is the single badge value when several conflicts
// land on the same week.
type AnnotatedWeek struct {
	Week            season.Week
	Conflicts       []Conflict
	MaxSeverity     Severity
	EffectiveAction EffectiveAction
}

// RejectedPreference records a preference the detector refused to score.
type RejectedPreference struct {
	PreferenceID string
	Reason       string
}

// DetectConflicts scores candidate weeks against blackout preferences.
//
// Pass one computes a raw conflict for every week within thresholdDays of a
// preference's range (inside the range is critical; severity then decays
// with distance). Pass two marks every in-range conflict actionable, and
// among a preference's proximity hits keeps only the minimum-distance one
// actionable, demoting the rest to informational so a single holiday cannot
// knock out several adjacent weeks.
//
// A preference whose range ends before it starts is rejected on its own;
// remaining preferences are still processed.
func DetectConflicts(weeks []season.Week, prefs []season.BlackoutPreference, thresholdDays int) ([]AnnotatedWeek, []RejectedPreference) {
	if thresholdDays <= 0 {
		thresholdDays = DefaultProximityDays
	}

	var rejected []RejectedPreference
	valid := make([]season.BlackoutPreference, 0, len(prefs))
	for _, pref := range prefs {
		if pref.RangeEnd.Before(pref.RangeStart) {
			rejected = append(rejected, RejectedPreference{
				PreferenceID: pref.ID,
				Reason:       "range end precedes range start",
			})
			continue
		}
		valid = append(valid, pref)
	}

	annotated := make([]AnnotatedWeek, len(weeks))
	for i, wk := range weeks {
		annotated[i] = AnnotatedWeek{Week: wk, EffectiveAction: EffectivePlay}
	}

	// Pass one: raw conflicts per (week, preference).
	type hit struct {
		weekIndex     int
		conflictIndex int
		distance      int
	}
	hitsByPref := make(map[string][]hit, len(valid))
	for wi, wk := range weeks {
		for _, pref := range valid {
			distance, ok := distanceDays(wk.Date, pref.RangeStart, pref.RangeEnd, thresholdDays)
			if !ok {
				continue
			}
			annotated[wi].Conflicts = append(annotated[wi].Conflicts, Conflict{
				PreferenceID: pref.ID,
				Source:       pref.Source,
				Action:       pref.Action,
				Label:        pref.Label,
				Severity:     severityFor(distance, thresholdDays),
				DistanceDays: distance,
			})
			hitsByPref[pref.ID] = append(hitsByPref[pref.ID], hit{
				weekIndex:     wi,
				conflictIndex: len(annotated[wi].Conflicts) - 1,
				distance:      distance,
			})
		}
	}

	// Pass two: every week inside the range (distance zero) is actionable;
	// among the proximity hits only the closest week is, so a single
	// holiday cannot knock out several adjacent weeks. Ties go to the
	// earliest week.
	for _, hits := range hitsByPref {
		closestIndex := -1
		for i, h := range hits {
			if h.distance == 0 {
				annotated[h.weekIndex].Conflicts[h.conflictIndex].Actionable = true
				continue
			}
			if closestIndex < 0 || h.distance < hits[closestIndex].distance {
				closestIndex = i
			}
		}
		if closestIndex >= 0 {
			closest := hits[closestIndex]
			annotated[closest.weekIndex].Conflicts[closest.conflictIndex].Actionable = true
		}
	}

	for i := range annotated {
		annotated[i].MaxSeverity = maxSeverity(annotated[i].Conflicts)
		annotated[i].EffectiveAction = effectiveAction(annotated[i].Conflicts)
	}

	return annotated, rejected
}

// distanceDays returns how many days the date sits from the range (zero
// inside it) and whether that distance falls within the threshold.
func distanceDays(date, start, end time.Time, thresholdDays int) (int, bool) {
	day := date.Truncate(24 * time.Hour)
	from := start.Truncate(24 * time.Hour)
	to := end.Truncate(24 * time.Hour)

	if !day.Before(from) && !day.After(to) {
		return 0, true
	}

	var gap time.Duration
	if day.Before(from) {
		gap = from.Sub(day)
	} else {
		gap = day.Sub(to)
	}
	days := int(gap / (24 * time.Hour))
	if days > thresholdDays {
		return 0, false
	}
	return days, true
}

// severityFor decays severity with distance: inside the range is critical,
// then the threshold window splits into thirds for high, medium, and low.
func severityFor(distance, thresholdDays int) Severity {
	switch {
	case distance == 0:
		return SeverityCritical
	case distance*3 <= thresholdDays:
		return SeverityHigh
	case distance*3 <= thresholdDays*2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func maxSeverity(conflicts []Conflict) Severity {
	max := SeverityNone
	for _, c := range conflicts {
		if c.Severity > max {
			max = c.Severity
		}
	}
	return max
}

// effectiveAction resolves the week's verdict from its actionable
// conflicts: an ignore preference is an operator override and forces play,
// otherwise any actionable blackout preference forces a skip.
func effectiveAction(conflicts []Conflict) EffectiveAction {
	skip := false
	for _, c := range conflicts {
		if !c.Actionable {
			continue
		}
		if c.Action == season.ActionIgnore {
			return EffectivePlay
		}
		if c.Action == season.ActionBlackout {
			skip = true
		}
	}
	if skip {
		return EffectiveSkip
	}
	return EffectivePlay
}
