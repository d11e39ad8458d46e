package memory

import (
	"time"

	"github.com/cuetrack/pool-league/internal/domain/handicap"
	"github.com/cuetrack/pool-league/internal/domain/season"
	"github.com/cuetrack/pool-league/internal/domain/team"
)

const SeasonIDSpring2026 = "spring-2026"

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:        SeasonIDSpring2026,
			Name:      "Spring 2026",
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}

// SeedWeeks is twelve Monday league nights: ten regular, one blackout over
// Memorial Day week, one playoffs at the end.
func SeedWeeks() []season.Week {
	weeks := make([]season.Week, 0, 12)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		wk := season.Week{
			ID:       "wk-" + string(rune('a'+i)),
			SeasonID: SeasonIDSpring2026,
			Date:     date,
			Kind:     season.WeekRegular,
		}
		switch i {
		case 10:
			wk.Kind = season.WeekBlackout
			wk.DisplayName = "Memorial Day break"
		case 11:
			wk.Kind = season.WeekPlayoffs
			wk.DisplayName = "Playoffs"
		}
		weeks = append(weeks, wk)
		date = date.AddDate(0, 0, 7)
	}
	return weeks
}

func SeedBlackoutPreferences() []season.BlackoutPreference {
	return []season.BlackoutPreference{
		{
			ID:         "pref-spring-break",
			SeasonID:   SeasonIDSpring2026,
			Source:     season.SourceHoliday,
			Action:     season.ActionBlackout,
			Label:      "Spring break",
			RangeStart: time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC),
			RangeEnd:   time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "pref-state-champs",
			SeasonID:   SeasonIDSpring2026,
			Source:     season.SourceChampionship,
			Action:     season.ActionIgnore,
			Label:      "State 8-ball championship",
			RangeStart: time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
			RangeEnd:   time.Date(2026, 4, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "pref-memorial",
			SeasonID:   SeasonIDSpring2026,
			Source:     season.SourceHoliday,
			Action:     season.ActionBlackout,
			Label:      "Memorial Day",
			RangeStart: time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC),
			RangeEnd:   time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-rack-city", SeasonID: SeasonIDSpring2026, Name: "Rack City", RosterSize: 8, SchedulePosition: 1, Format: team.FormatFiveMan},
		{ID: "team-chalk-it-up", SeasonID: SeasonIDSpring2026, Name: "Chalk It Up", RosterSize: 7, SchedulePosition: 2, Format: team.FormatFiveMan},
		{ID: "team-break-room", SeasonID: SeasonIDSpring2026, Name: "The Break Room", RosterSize: 8, SchedulePosition: 3, Format: team.FormatFiveMan},
		{ID: "team-bank-shots", SeasonID: SeasonIDSpring2026, Name: "Bank Shots", RosterSize: 6, SchedulePosition: 4, Format: team.FormatFiveMan},
		{ID: "team-side-pocket", SeasonID: SeasonIDSpring2026, Name: "Side Pocket", RosterSize: 7, SchedulePosition: 5, Format: team.FormatFiveMan},
		{ID: "team-cue-crew", SeasonID: SeasonIDSpring2026, Name: "Cue Crew", RosterSize: 6, SchedulePosition: 6, Format: team.FormatFiveMan},
	}
}

// SeedHandicapChart is the full chart for a race-to-10 format. The favored
// side needs fewer games as the gap widens, the underdog more; both
// columns are monotonic over the range.
func SeedHandicapChart() []handicap.ThresholdRow {
	rows := make([]handicap.ThresholdRow, 0, handicap.MaxDifference-handicap.MinDifference+1)
	for d := handicap.MinDifference; d <= handicap.MaxDifference; d++ {
		shift := (d + 2) / 3
		if d < 0 {
			shift = -((-d + 2) / 3)
		}
		win := 10 - shift
		rows = append(rows, handicap.ThresholdRow{
			Difference:  d,
			GamesToWin:  win,
			GamesToTie:  win - 1,
			GamesToLose: win - 2,
		})
	}
	return rows
}
