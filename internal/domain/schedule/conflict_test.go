package schedule

import (
	"testing"
	"time"

	"github.com/cuetrack/pool-league/internal/domain/season"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekOn(id string, date time.Time) season.Week {
	return season.Week{ID: id, SeasonID: "s1", Date: date, Kind: season.WeekRegular}
}

func TestDetectConflicts_InsideRangeIsCritical(t *testing.T) {
	t.Parallel()

	weeks := []season.Week{weekOn("w1", day(2026, time.December, 24))}
	prefs := []season.BlackoutPreference{{
		ID:         "p1",
		Source:     season.SourceHoliday,
		Action:     season.ActionBlackout,
		Label:      "Christmas",
		RangeStart: day(2026, time.December, 23),
		RangeEnd:   day(2026, time.December, 26),
	}}

	annotated, rejected := DetectConflicts(weeks, prefs, DefaultProximityDays)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if len(annotated[0].Conflicts) != 1 {
		t.Fatalf("unexpected conflict count: got=%d want=1", len(annotated[0].Conflicts))
	}

	got := annotated[0].Conflicts[0]
	if got.Severity != SeverityCritical {
		t.Fatalf("unexpected severity: got=%s want=critical", got.Severity)
	}
	if got.DistanceDays != 0 {
		t.Fatalf("unexpected distance: got=%d want=0", got.DistanceDays)
	}
	if !got.Actionable {
		t.Fatalf("conflict inside the range must be actionable")
	}
	if annotated[0].EffectiveAction != EffectiveSkip {
		t.Fatalf("unexpected action: got=%s want=skip", annotated[0].EffectiveAction)
	}
}

func TestDetectConflicts_OnlyClosestWeekIsActionable(t *testing.T) {
	t.Parallel()

	// Two weeks land inside the proximity window of the same holiday, two
	// and five days ahead of it. Only the closer one should drive a
	// scheduling decision.
	weeks := []season.Week{
		weekOn("w-far", day(2026, time.November, 21)),
		weekOn("w-near", day(2026, time.November, 24)),
	}
	prefs := []season.BlackoutPreference{{
		ID:         "p1",
		Source:     season.SourceHoliday,
		Action:     season.ActionBlackout,
		Label:      "Thanksgiving",
		RangeStart: day(2026, time.November, 26),
		RangeEnd:   day(2026, time.November, 26),
	}}

	annotated, _ := DetectConflicts(weeks, prefs, 7)

	far := annotated[0].Conflicts[0]
	if far.DistanceDays != 5 {
		t.Fatalf("unexpected far distance: got=%d want=5", far.DistanceDays)
	}
	if far.Actionable {
		t.Fatalf("farther week must stay informational")
	}
	if far.Severity != SeverityMedium {
		t.Fatalf("unexpected far severity: got=%s want=medium", far.Severity)
	}
	if annotated[0].EffectiveAction != EffectivePlay {
		t.Fatalf("informational conflict must not skip the week")
	}

	near := annotated[1].Conflicts[0]
	if near.DistanceDays != 2 {
		t.Fatalf("unexpected near distance: got=%d want=2", near.DistanceDays)
	}
	if !near.Actionable {
		t.Fatalf("closest week must be actionable")
	}
	if near.Severity != SeverityHigh {
		t.Fatalf("unexpected near severity: got=%s want=high", near.Severity)
	}
	if annotated[1].EffectiveAction != EffectiveSkip {
		t.Fatalf("actionable blackout must skip the week")
	}
}

func TestDetectConflicts_MultiWeekRangeSkipsEveryCoveredWeek(t *testing.T) {
	t.Parallel()

	// A blackout spanning two league nights must take out both, not just
	// the earlier one; the dampening rule applies to proximity hits only.
	weeks := []season.Week{
		weekOn("w1", day(2026, time.December, 22)),
		weekOn("w2", day(2026, time.December, 29)),
	}
	prefs := []season.BlackoutPreference{{
		ID:         "p1",
		Source:     season.SourceHoliday,
		Action:     season.ActionBlackout,
		Label:      "Holiday break",
		RangeStart: day(2026, time.December, 20),
		RangeEnd:   day(2026, time.December, 31),
	}}

	annotated, _ := DetectConflicts(weeks, prefs, 7)

	for i, wk := range annotated {
		if len(wk.Conflicts) != 1 {
			t.Fatalf("week %d: unexpected conflict count: got=%d want=1", i+1, len(wk.Conflicts))
		}
		got := wk.Conflicts[0]
		if got.Severity != SeverityCritical || got.DistanceDays != 0 {
			t.Fatalf("week %d: expected in-range critical hit, got %+v", i+1, got)
		}
		if !got.Actionable {
			t.Fatalf("week %d: in-range conflict must be actionable", i+1)
		}
		if wk.EffectiveAction != EffectiveSkip {
			t.Fatalf("week %d: unexpected action: got=%s want=skip", i+1, wk.EffectiveAction)
		}
	}
}

func TestDetectConflicts_IgnoreOverridesBlackout(t *testing.T) {
	t.Parallel()

	target := day(2026, time.July, 4)
	weeks := []season.Week{weekOn("w1", target)}
	prefs := []season.BlackoutPreference{
		{
			ID:         "p-blackout",
			Source:     season.SourceHoliday,
			Action:     season.ActionBlackout,
			Label:      "Independence Day",
			RangeStart: target,
			RangeEnd:   target,
		},
		{
			ID:         "p-ignore",
			Source:     season.SourceCustom,
			Action:     season.ActionIgnore,
			Label:      "League votes to play",
			RangeStart: target,
			RangeEnd:   target,
		},
	}

	annotated, _ := DetectConflicts(weeks, prefs, DefaultProximityDays)
	if len(annotated[0].Conflicts) != 2 {
		t.Fatalf("unexpected conflict count: got=%d want=2", len(annotated[0].Conflicts))
	}
	if annotated[0].EffectiveAction != EffectivePlay {
		t.Fatalf("ignore preference must win: got=%s want=play", annotated[0].EffectiveAction)
	}
	if annotated[0].MaxSeverity != SeverityCritical {
		t.Fatalf("severity badge still reflects the hit: got=%s want=critical", annotated[0].MaxSeverity)
	}
}

func TestDetectConflicts_RejectsMalformedRange(t *testing.T) {
	t.Parallel()

	target := day(2026, time.May, 25)
	weeks := []season.Week{weekOn("w1", target)}
	prefs := []season.BlackoutPreference{
		{
			ID:         "p-bad",
			Source:     season.SourceCustom,
			Action:     season.ActionBlackout,
			RangeStart: day(2026, time.May, 30),
			RangeEnd:   day(2026, time.May, 20),
		},
		{
			ID:         "p-good",
			Source:     season.SourceHoliday,
			Action:     season.ActionBlackout,
			Label:      "Memorial Day",
			RangeStart: target,
			RangeEnd:   target,
		},
	}

	annotated, rejected := DetectConflicts(weeks, prefs, DefaultProximityDays)
	if len(rejected) != 1 || rejected[0].PreferenceID != "p-bad" {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if len(annotated[0].Conflicts) != 1 || annotated[0].Conflicts[0].PreferenceID != "p-good" {
		t.Fatalf("valid preference must still be scored: %+v", annotated[0].Conflicts)
	}
}

func TestDetectConflicts_OutsideThresholdIsClean(t *testing.T) {
	t.Parallel()

	weeks := []season.Week{weekOn("w1", day(2026, time.March, 2))}
	prefs := []season.BlackoutPreference{{
		ID:         "p1",
		Source:     season.SourceChampionship,
		Action:     season.ActionBlackout,
		Label:      "State championship",
		RangeStart: day(2026, time.March, 14),
		RangeEnd:   day(2026, time.March, 15),
	}}

	annotated, _ := DetectConflicts(weeks, prefs, 7)
	if len(annotated[0].Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %+v", annotated[0].Conflicts)
	}
	if annotated[0].MaxSeverity != SeverityNone {
		t.Fatalf("unexpected severity: got=%s want=none", annotated[0].MaxSeverity)
	}
	if annotated[0].EffectiveAction != EffectivePlay {
		t.Fatalf("clean week must play")
	}
}
