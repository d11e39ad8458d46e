package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cuetrack/pool-league/internal/domain/handicap"
	"github.com/cuetrack/pool-league/internal/domain/lineup"
	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/domain/user"
	"github.com/cuetrack/pool-league/internal/platform/notify"
)

// VerifyResult reports what one verification call achieved. Completed is
// true once both sides have verified a decided result, regardless of which
// call performed the final write.
type VerifyResult struct {
	Match              match.Match
	Completed          bool
	TiebreakerRequired bool
}

// MatchService lists matches and drives the verification rendezvous that
// completes them. Completion is idempotent: the first writer wins and every
// later call observes the completed row.
type MatchService struct {
	matchRepo   match.Repository
	lineupRepo  lineup.Repository
	handicapSvc *HandicapService
	publisher   notify.Publisher
	now         func() time.Time
}

func NewMatchService(matchRepo match.Repository, lineupRepo lineup.Repository, handicapSvc *HandicapService, publisher notify.Publisher) *MatchService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &MatchService{
		matchRepo:   matchRepo,
		lineupRepo:  lineupRepo,
		handicapSvc: handicapSvc,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *MatchService) GetByID(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.GetByID")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return m, nil
}

func (s *MatchService) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].SeasonWeekID != matches[j].SeasonWeekID {
			return matches[i].SeasonWeekID < matches[j].SeasonWeekID
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches, nil
}

// Verify records the caller's side of the completion rendezvous. The two
// sides may verify in any order; once both have signed off and the game
// tally reaches a decision threshold the match completes. A tally where
// both sides sit exactly at their tie threshold defers to a tiebreaker
// game instead of completing.
func (s *MatchService) Verify(ctx context.Context, actor user.Principal, matchID string) (VerifyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Verify")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return VerifyResult{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return VerifyResult{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if m.Status == match.StatusCompleted {
		return VerifyResult{Match: m, Completed: true}, nil
	}
	if m.AwayTeamID == nil {
		return VerifyResult{}, fmt.Errorf("%w: match %s has no opponent", ErrInvalidInput, matchID)
	}

	home := actor.IsMemberOf(m.HomeTeamID)
	away := actor.IsMemberOf(*m.AwayTeamID)
	if !home && !away {
		return VerifyResult{}, fmt.Errorf("%w: match %s", ErrNotTeamMember, matchID)
	}

	// Each side's flag is written with a set-if-unset conditional update so
	// two concurrent verifications cannot overwrite each other's row.
	memberID := actor.MemberID
	recorded := false
	switch {
	case home && m.HomeVerifiedBy == nil:
		recorded, err = s.matchRepo.RecordVerification(ctx, m.ID, true, memberID)
	case away && m.AwayVerifiedBy == nil:
		recorded, err = s.matchRepo.RecordVerification(ctx, m.ID, false, memberID)
	}
	if err != nil {
		return VerifyResult{}, fmt.Errorf("record verification: %w", err)
	}
	if recorded {
		s.publisher.Publish(ctx, notify.Event{
			Kind:       notify.KindMatchVerified,
			OccurredAt: s.now().UTC(),
			Fields: map[string]any{
				"match_id":  m.ID,
				"member_id": memberID,
			},
		})
	}

	// Re-read so a verification racing this one is visible to the
	// completeness check below.
	m, exists, err = s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return VerifyResult{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	if m.HomeVerifiedBy == nil || m.AwayVerifiedBy == nil {
		return VerifyResult{Match: m}, nil
	}

	return s.tryComplete(ctx, m)
}

func (s *MatchService) tryComplete(ctx context.Context, m match.Match) (VerifyResult, error) {
	homeWins, awayWins, err := s.tallyConfirmedGames(ctx, m)
	if err != nil {
		return VerifyResult{}, err
	}

	homeRow, awayRow, err := s.thresholds(ctx, m)
	if err != nil {
		return VerifyResult{}, err
	}

	if homeWins == homeRow.GamesToTie && awayWins == awayRow.GamesToTie {
		return VerifyResult{Match: m, TiebreakerRequired: true}, nil
	}

	var winnerTeamID string
	switch {
	case homeWins >= homeRow.GamesToWin:
		winnerTeamID = m.HomeTeamID
	case awayWins >= awayRow.GamesToWin:
		winnerTeamID = *m.AwayTeamID
	default:
		// Both sides verified but the tally decides nothing yet; leave the
		// match open for more games.
		return VerifyResult{Match: m}, nil
	}

	now := s.now().UTC()
	m.HomeScore = homeWins
	m.AwayScore = awayWins
	m.WinnerTeamID = &winnerTeamID
	m.Status = match.StatusCompleted
	m.CompletedAt = &now

	applied, err := s.matchRepo.CompleteIfPending(ctx, m)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("complete match: %w", err)
	}
	if applied {
		s.publisher.Publish(ctx, notify.Event{
			Kind:       notify.KindMatchCompleted,
			OccurredAt: now,
			Fields: map[string]any{
				"match_id":       m.ID,
				"winner_team_id": winnerTeamID,
				"home_score":     homeWins,
				"away_score":     awayWins,
			},
		})
	}

	return VerifyResult{Match: m, Completed: true}, nil
}

func (s *MatchService) tallyConfirmedGames(ctx context.Context, m match.Match) (int, int, error) {
	games, err := s.matchRepo.ListGames(ctx, m.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list match games: %w", err)
	}

	homeWins, awayWins := 0, 0
	for _, g := range games {
		if !g.Confirmed() {
			continue
		}
		switch *g.WinnerTeamID {
		case m.HomeTeamID:
			homeWins++
		case *m.AwayTeamID:
			awayWins++
		}
	}
	return homeWins, awayWins, nil
}

// thresholds composes each side's lineup handicap sum with its team
// modifier, clamps the difference to the chart range, and resolves both
// perspectives of the chart row.
func (s *MatchService) thresholds(ctx context.Context, m match.Match) (handicap.ThresholdRow, handicap.ThresholdRow, error) {
	homeTotal, err := s.sideTotal(ctx, m.ID, m.HomeTeamID)
	if err != nil {
		return handicap.ThresholdRow{}, handicap.ThresholdRow{}, err
	}
	awayTotal, err := s.sideTotal(ctx, m.ID, *m.AwayTeamID)
	if err != nil {
		return handicap.ThresholdRow{}, handicap.ThresholdRow{}, err
	}

	difference := handicap.Clamp(homeTotal - awayTotal)
	homeRow, err := s.handicapSvc.Thresholds(ctx, difference)
	if err != nil {
		return handicap.ThresholdRow{}, handicap.ThresholdRow{}, fmt.Errorf("resolve home thresholds: %w", err)
	}
	awayRow, err := s.handicapSvc.Thresholds(ctx, -difference)
	if err != nil {
		return handicap.ThresholdRow{}, handicap.ThresholdRow{}, fmt.Errorf("resolve away thresholds: %w", err)
	}

	return homeRow, awayRow, nil
}

func (s *MatchService) sideTotal(ctx context.Context, matchID, teamID string) (int, error) {
	l, exists, err := s.lineupRepo.GetByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		return 0, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: lineup for match %s team %s", ErrNotFound, matchID, teamID)
	}
	if !l.Locked {
		return 0, fmt.Errorf("%w: lineup for team %s is not locked", ErrIncompleteLineup, teamID)
	}
	if _, pending := l.SubstitutePosition(); pending {
		return 0, fmt.Errorf("%w: double-duty pick for team %s is unresolved", ErrUnresolvedDuplicate, teamID)
	}
	return l.HandicapSum() + l.TeamModifier, nil
}
