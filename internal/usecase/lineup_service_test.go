package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/domain/user"
	"github.com/cuetrack/pool-league/internal/infrastructure/repository/memory"
	"github.com/cuetrack/pool-league/internal/platform/notify"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) byKind(kind string) []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []notify.Event
	for _, e := range p.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

const (
	testMatchID    = "m1"
	testHomeTeamID = "team-x"
	testAwayTeamID = "team-y"
	testLineupID   = "l-home"
)

var (
	homeCaptain = user.Principal{MemberID: "member-home", TeamIDs: []string{testHomeTeamID}}
	awayCaptain = user.Principal{MemberID: "member-away", TeamIDs: []string{testAwayTeamID}}
	outsider    = user.Principal{MemberID: "member-else", TeamIDs: []string{"team-z"}}
)

func newLineupFixture(t *testing.T) (*LineupService, *memory.LineupRepository, *memory.MatchRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	awayID := testAwayTeamID
	if _, err := matchRepo.BulkCreate(context.Background(), []match.Match{{
		ID:           testMatchID,
		SeasonID:     memory.SeasonIDSpring2026,
		SeasonWeekID: "wk-a",
		HomeTeamID:   testHomeTeamID,
		AwayTeamID:   &awayID,
		MatchNumber:  1,
		Status:       match.StatusScheduled,
	}}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	lineupRepo := memory.NewLineupRepository(nil)
	if err := lineupRepo.BulkCreate(context.Background(), []lineup.Lineup{
		{ID: testLineupID, MatchID: testMatchID, TeamID: testHomeTeamID, Positions: make([]lineup.Position, 5)},
		{ID: "l-away", MatchID: testMatchID, TeamID: testAwayTeamID, Positions: make([]lineup.Position, 5)},
	}); err != nil {
		t.Fatalf("seed lineups: %v", err)
	}

	return NewLineupService(lineupRepo, matchRepo, nil), lineupRepo, matchRepo
}

func fourPlayersAndSub() SaveSelectionInput {
	return SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "p1", Handicap: 3},
			{PlayerID: "p2", Handicap: 2},
			{PlayerID: "p3", Handicap: 1},
			{PlayerID: "p4", Handicap: 0},
			{Substitute: true},
		},
	}
}

func TestLineupService_StateProgression(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLineupFixture(t)
	ctx := context.Background()

	partial, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "p1", Handicap: 3},
			{PlayerID: "p2", Handicap: 2},
			{}, {}, {},
		},
	})
	if err != nil {
		t.Fatalf("SaveSelection error: %v", err)
	}
	if partial.State() != lineup.StatePartial {
		t.Fatalf("unexpected state: got=%s want=partial", partial.State())
	}

	if _, err := svc.Lock(ctx, homeCaptain, testLineupID, partial.Version); !errors.Is(err, ErrIncompleteLineup) {
		t.Fatalf("expected ErrIncompleteLineup, got %v", err)
	}

	complete, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "p1", Handicap: 3},
			{PlayerID: "p2", Handicap: 2},
			{PlayerID: "p3", Handicap: 1},
			{PlayerID: "p4", Handicap: 0},
			{PlayerID: "p5", Handicap: 4},
		},
		Version: partial.Version,
	})
	if err != nil {
		t.Fatalf("SaveSelection error: %v", err)
	}
	if complete.State() != lineup.StateComplete {
		t.Fatalf("unexpected state: got=%s want=complete", complete.State())
	}

	locked, err := svc.Lock(ctx, homeCaptain, testLineupID, complete.Version)
	if err != nil {
		t.Fatalf("Lock error: %v", err)
	}
	if locked.State() != lineup.StateLocked || locked.LockedAt == nil {
		t.Fatalf("lock did not stick: %+v", locked)
	}

	if _, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, fourPlayersAndSub()); !errors.Is(err, ErrLineupLocked) {
		t.Fatalf("expected ErrLineupLocked, got %v", err)
	}
}

func TestLineupService_SecondLockStartsMatch(t *testing.T) {
	t.Parallel()

	svc, _, matchRepo := newLineupFixture(t)
	ctx := context.Background()

	fivePlayers := SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "p1", Handicap: 3},
			{PlayerID: "p2", Handicap: 2},
			{PlayerID: "p3", Handicap: 1},
			{PlayerID: "p4", Handicap: 0},
			{PlayerID: "p5", Handicap: 4},
		},
	}

	saved, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, fivePlayers)
	if err != nil {
		t.Fatalf("home SaveSelection error: %v", err)
	}
	if _, err := svc.Lock(ctx, homeCaptain, testLineupID, saved.Version); err != nil {
		t.Fatalf("home Lock error: %v", err)
	}

	// One locked side is not enough to start the match.
	m, _, err := matchRepo.GetByID(ctx, testMatchID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if m.Status != match.StatusScheduled || m.StartedAt != nil {
		t.Fatalf("match started after a single lock: %+v", m)
	}

	saved, err = svc.SaveSelection(ctx, awayCaptain, testMatchID, testAwayTeamID, fivePlayers)
	if err != nil {
		t.Fatalf("away SaveSelection error: %v", err)
	}
	if _, err := svc.Lock(ctx, awayCaptain, "l-away", saved.Version); err != nil {
		t.Fatalf("away Lock error: %v", err)
	}

	m, _, err = matchRepo.GetByID(ctx, testMatchID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if m.Status != match.StatusInProgress {
		t.Fatalf("unexpected status after both locks: got=%s want=%s", m.Status, match.StatusInProgress)
	}
	if m.StartedAt == nil {
		t.Fatalf("second lock did not stamp the start time: %+v", m)
	}
}

func TestLineupService_MembershipChecks(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLineupFixture(t)
	ctx := context.Background()

	if _, err := svc.SaveSelection(ctx, outsider, testMatchID, testHomeTeamID, fourPlayersAndSub()); !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("expected ErrNotTeamMember, got %v", err)
	}
	if _, err := svc.GetByMatchAndTeam(ctx, outsider, testMatchID, testHomeTeamID); !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("expected ErrNotTeamMember for view, got %v", err)
	}
	// The opponent may view the other side's lineup.
	if _, err := svc.GetByMatchAndTeam(ctx, awayCaptain, testMatchID, testHomeTeamID); err != nil {
		t.Fatalf("opponent view error: %v", err)
	}
}

func TestLineupService_DoubleDutyResolution(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLineupFixture(t)
	ctx := context.Background()

	saved, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, fourPlayersAndSub())
	if err != nil {
		t.Fatalf("SaveSelection error: %v", err)
	}
	if saved.State() != lineup.StateComplete {
		t.Fatalf("placeholder must count toward completeness, got %s", saved.State())
	}

	locked, err := svc.Lock(ctx, homeCaptain, testLineupID, saved.Version)
	if err != nil {
		t.Fatalf("Lock error: %v", err)
	}

	// The locking team cannot make its own double-duty pick.
	if _, err := svc.ResolveDoubleDuty(ctx, homeCaptain, testLineupID, "p1", locked.Version); !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("expected ErrNotTeamMember, got %v", err)
	}

	resolved, err := svc.ResolveDoubleDuty(ctx, awayCaptain, testLineupID, "p1", locked.Version)
	if err != nil {
		t.Fatalf("ResolveDoubleDuty error: %v", err)
	}
	if resolved.HandicapSum() != 9 {
		t.Fatalf("unexpected handicap sum: got=%d want=9", resolved.HandicapSum())
	}
	if resolved.Positions[4].PlayerID != "p1" {
		t.Fatalf("duplicate not written into placeholder position: %+v", resolved.Positions[4])
	}
	if resolved.DoubleDutyPlayerID == nil || *resolved.DoubleDutyPlayerID != "p1" {
		t.Fatalf("double-duty player not recorded: %+v", resolved)
	}
	if resolved.DoubleDutyPosition == nil || *resolved.DoubleDutyPosition != 5 {
		t.Fatalf("double-duty position not recorded: %+v", resolved)
	}

	// One pick per lock cycle.
	if _, err := svc.ResolveDoubleDuty(ctx, awayCaptain, testLineupID, "p2", resolved.Version); !errors.Is(err, ErrUnresolvedDuplicate) {
		t.Fatalf("expected ErrUnresolvedDuplicate, got %v", err)
	}
}

func TestLineupService_LockEventFlagsPendingDoubleDuty(t *testing.T) {
	t.Parallel()

	_, lineupRepo, matchRepo := newLineupFixture(t)
	pub := &recordingPublisher{}
	svc := NewLineupService(lineupRepo, matchRepo, pub)
	ctx := context.Background()

	saved, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, fourPlayersAndSub())
	if err != nil {
		t.Fatalf("SaveSelection error: %v", err)
	}
	if _, err := svc.Lock(ctx, homeCaptain, testLineupID, saved.Version); err != nil {
		t.Fatalf("Lock error: %v", err)
	}

	locked := pub.byKind(notify.KindLineupLocked)
	if len(locked) != 1 {
		t.Fatalf("unexpected locked event count: got=%d want=1", len(locked))
	}
	if pending, _ := locked[0].Fields["double_duty_pending"].(bool); !pending {
		t.Fatalf("locked event must flag the pending double-duty pick: %+v", locked[0].Fields)
	}

	// A lineup of five real players locks without the flag.
	saved, err = svc.SaveSelection(ctx, awayCaptain, testMatchID, testAwayTeamID, SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "q1", Handicap: 2},
			{PlayerID: "q2", Handicap: 2},
			{PlayerID: "q3", Handicap: 2},
			{PlayerID: "q4", Handicap: 2},
			{PlayerID: "q5", Handicap: 2},
		},
	})
	if err != nil {
		t.Fatalf("away SaveSelection error: %v", err)
	}
	if _, err := svc.Lock(ctx, awayCaptain, "l-away", saved.Version); err != nil {
		t.Fatalf("away Lock error: %v", err)
	}

	locked = pub.byKind(notify.KindLineupLocked)
	if len(locked) != 2 {
		t.Fatalf("unexpected locked event count: got=%d want=2", len(locked))
	}
	if _, ok := locked[1].Fields["double_duty_pending"]; ok {
		t.Fatalf("full lineup must not flag a pending pick: %+v", locked[1].Fields)
	}
}

func TestLineupService_UnlockResetsDoubleDuty(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLineupFixture(t)
	ctx := context.Background()

	saved, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, fourPlayersAndSub())
	if err != nil {
		t.Fatalf("SaveSelection error: %v", err)
	}
	locked, err := svc.Lock(ctx, homeCaptain, testLineupID, saved.Version)
	if err != nil {
		t.Fatalf("Lock error: %v", err)
	}
	resolved, err := svc.ResolveDoubleDuty(ctx, awayCaptain, testLineupID, "p1", locked.Version)
	if err != nil {
		t.Fatalf("ResolveDoubleDuty error: %v", err)
	}

	unlocked, err := svc.Unlock(ctx, homeCaptain, testLineupID, resolved.Version)
	if err != nil {
		t.Fatalf("Unlock error: %v", err)
	}
	if unlocked.State() != lineup.StatePartial {
		t.Fatalf("unexpected state after unlock: got=%s want=partial", unlocked.State())
	}
	if unlocked.FilledCount() != 4 {
		t.Fatalf("unexpected filled count after unlock: got=%d want=4", unlocked.FilledCount())
	}
	if unlocked.DoubleDutyPlayerID != nil || unlocked.DoubleDutyPosition != nil {
		t.Fatalf("double-duty fields not cleared: %+v", unlocked)
	}
	if unlocked.Positions[4].Filled() {
		t.Fatalf("double-duty position still filled: %+v", unlocked.Positions[4])
	}
}

func TestLineupService_StaleWriteRejected(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLineupFixture(t)
	ctx := context.Background()

	saved, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, fourPlayersAndSub())
	if err != nil {
		t.Fatalf("SaveSelection error: %v", err)
	}

	// A second device writing with the pre-save version loses the race.
	stale := SaveSelectionInput{
		Slots:   fourPlayersAndSub().Slots,
		Version: saved.Version - 1,
	}
	if _, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, stale); !errors.Is(err, ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}
}

func TestLineupService_SelectionValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLineupFixture(t)
	ctx := context.Background()

	duplicate := SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "p1", Handicap: 3},
			{PlayerID: "p1", Handicap: 3},
			{}, {}, {},
		},
	}
	if _, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, duplicate); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate player, got %v", err)
	}

	twoSubs := SaveSelectionInput{
		Slots: []LineupSlotInput{
			{PlayerID: "p1", Handicap: 3},
			{Substitute: true},
			{Substitute: true},
			{}, {},
		},
	}
	if _, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, twoSubs); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for two placeholders, got %v", err)
	}

	wrongSize := SaveSelectionInput{
		Slots: []LineupSlotInput{{PlayerID: "p1"}},
	}
	if _, err := svc.SaveSelection(ctx, homeCaptain, testMatchID, testHomeTeamID, wrongSize); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for slot count, got %v", err)
	}
}
