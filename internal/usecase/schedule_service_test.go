package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/infrastructure/repository/memory"
)

func newScheduleFixture(t *testing.T) (*ScheduleService, *memory.MatchRepository, *memory.LineupRepository) {
	t.Helper()

	seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons(), memory.SeedWeeks(), memory.SeedBlackoutPreferences())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	matchRepo := memory.NewMatchRepository()
	lineupRepo := memory.NewLineupRepository(func(matchID string) (string, bool) {
		m, ok, err := matchRepo.GetByID(context.Background(), matchID)
		if err != nil || !ok {
			return "", false
		}
		return m.SeasonID, true
	})

	svc := NewScheduleService(seasonRepo, teamRepo, matchRepo, lineupRepo, nil, nil, nil, 2)
	return svc, matchRepo, lineupRepo
}

func weekPairSets(matches []match.Match) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, m := range matches {
		if out[m.SeasonWeekID] == nil {
			out[m.SeasonWeekID] = make(map[string]bool)
		}
		away := ""
		if m.AwayTeamID != nil {
			away = *m.AwayTeamID
		}
		a, b := m.HomeTeamID, away
		if a > b {
			a, b = b, a
		}
		out[m.SeasonWeekID][a+"|"+b] = true
	}
	return out
}

func TestScheduleService_GenerateSixTeams(t *testing.T) {
	t.Parallel()

	svc, matchRepo, lineupRepo := newScheduleFixture(t)
	ctx := context.Background()

	result, err := svc.Generate(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.WeekCount != 10 {
		t.Fatalf("unexpected week count: got=%d want=10", result.WeekCount)
	}
	if result.MatchCount != 30 {
		t.Fatalf("unexpected match count: got=%d want=30", result.MatchCount)
	}
	if result.SkippedPairs != 0 || result.ByeCount != 0 {
		t.Fatalf("unexpected skips for a full even field: %+v", result)
	}

	matches, err := matchRepo.ListBySeason(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("ListBySeason error: %v", err)
	}
	for _, m := range matches {
		if m.Status != match.StatusScheduled {
			t.Fatalf("match %s created with status %s", m.ID, m.Status)
		}
		sides, err := lineupRepo.ListByMatch(ctx, m.ID)
		if err != nil {
			t.Fatalf("ListByMatch error: %v", err)
		}
		if len(sides) != 2 {
			t.Fatalf("match %s has %d lineups, want 2", m.ID, len(sides))
		}
		for _, l := range sides {
			if len(l.Positions) != 5 {
				t.Fatalf("lineup %s has %d positions, want 5", l.ID, len(l.Positions))
			}
		}
	}
}

func TestScheduleService_CyclingLaw(t *testing.T) {
	t.Parallel()

	svc, matchRepo, _ := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, memory.SeasonIDSpring2026); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	matches, err := matchRepo.ListBySeason(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("ListBySeason error: %v", err)
	}

	pairsByWeek := weekPairSets(matches)
	weekIDs := make([]string, 0, len(pairsByWeek))
	for id := range pairsByWeek {
		weekIDs = append(weekIDs, id)
	}
	sort.Strings(weekIDs)
	if len(weekIDs) != 10 {
		t.Fatalf("unexpected scheduled week count: got=%d want=10", len(weekIDs))
	}

	// Six teams give a five-round cycle, so week 5 repeats week 0.
	week0 := pairsByWeek[weekIDs[0]]
	week5 := pairsByWeek[weekIDs[5]]
	if fmt.Sprint(sortedKeys(week0)) != fmt.Sprint(sortedKeys(week5)) {
		t.Fatalf("cycle did not repeat:\nweek0: %v\nweek5: %v", sortedKeys(week0), sortedKeys(week5))
	}

	// Within one cycle every unordered team pair appears exactly once.
	pairCounts := make(map[string]int)
	for _, weekID := range weekIDs[:5] {
		for pair := range pairsByWeek[weekID] {
			pairCounts[pair]++
		}
	}
	if len(pairCounts) != 15 {
		t.Fatalf("unexpected distinct pair count in one cycle: got=%d want=15", len(pairCounts))
	}
	for pair, count := range pairCounts {
		if count != 1 {
			t.Fatalf("pair %s appears %d times in one cycle, want 1", pair, count)
		}
	}
}

func TestScheduleService_GenerateIsIncrementalAndClearable(t *testing.T) {
	t.Parallel()

	svc, matchRepo, _ := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, memory.SeasonIDSpring2026); err != nil {
		t.Fatalf("first Generate error: %v", err)
	}
	first, err := matchRepo.ListBySeason(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("ListBySeason error: %v", err)
	}

	// Weeks already scheduled are left alone.
	again, err := svc.Generate(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("second Generate error: %v", err)
	}
	if again.MatchCount != 0 {
		t.Fatalf("re-run created %d matches, want 0", again.MatchCount)
	}

	if err := svc.Clear(ctx, memory.SeasonIDSpring2026); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	remaining, err := matchRepo.ListBySeason(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("ListBySeason error: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("clear left %d matches", len(remaining))
	}

	// Clear followed by generate reproduces the same pairings.
	if _, err := svc.Generate(ctx, memory.SeasonIDSpring2026); err != nil {
		t.Fatalf("regenerate error: %v", err)
	}
	second, err := matchRepo.ListBySeason(ctx, memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("ListBySeason error: %v", err)
	}
	if fmt.Sprint(weekPairSets(first)) != fmt.Sprint(weekPairSets(second)) {
		t.Fatalf("regenerated schedule differs from original")
	}
}

func TestScheduleService_GenerateFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown season", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newScheduleFixture(t)
		if _, err := svc.Generate(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no teams", func(t *testing.T) {
		t.Parallel()
		seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons(), memory.SeedWeeks(), nil)
		svc := NewScheduleService(seasonRepo, memory.NewTeamRepository(nil), memory.NewMatchRepository(), memory.NewLineupRepository(nil), nil, nil, nil, 1)
		if _, err := svc.Generate(ctx, memory.SeasonIDSpring2026); !errors.Is(err, ErrNoTeams) {
			t.Fatalf("expected ErrNoTeams, got %v", err)
		}
	})

	t.Run("no regular weeks", func(t *testing.T) {
		t.Parallel()
		seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons(), nil, nil)
		svc := NewScheduleService(seasonRepo, memory.NewTeamRepository(memory.SeedTeams()), memory.NewMatchRepository(), memory.NewLineupRepository(nil), nil, nil, nil, 1)
		if _, err := svc.Generate(ctx, memory.SeasonIDSpring2026); !errors.Is(err, ErrNoRegularWeeks) {
			t.Fatalf("expected ErrNoRegularWeeks, got %v", err)
		}
	})
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
