package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/domain/user"
	"github.com/cuetrack/pool-league/internal/platform/notify"
)

// LineupSlotInput is one slot of a selection: a real player with their
// handicap, or a substitute placeholder to be resolved at lock time by the
// opponent's double-duty pick.
type LineupSlotInput struct {
	PlayerID   string
	Handicap   int
	Substitute bool
}

// SaveSelectionInput replaces a lineup's full selection. Version must match
// the stored row or the write is rejected as stale.
type SaveSelectionInput struct {
	Slots   []LineupSlotInput
	Version int64
}

// LineupService drives the lineup lifecycle: selection, locking, the
// double-duty substitute protocol, and unlocking. Every mutation is a
// version-guarded compare-and-swap.
type LineupService struct {
	lineupRepo lineup.Repository
	matchRepo  match.Repository
	publisher  notify.Publisher
	now        func() time.Time
}

func NewLineupService(lineupRepo lineup.Repository, matchRepo match.Repository, publisher notify.Publisher) *LineupService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &LineupService{
		lineupRepo: lineupRepo,
		matchRepo:  matchRepo,
		publisher:  publisher,
		now:        time.Now,
	}
}

// GetByMatchAndTeam returns one side's lineup. Members of either team in
// the match may view it; the opponent needs visibility to make a
// double-duty pick.
func (s *LineupService) GetByMatchAndTeam(ctx context.Context, actor user.Principal, matchID, teamID string) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.GetByMatchAndTeam")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	teamID = strings.TrimSpace(teamID)
	if matchID == "" || teamID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: match_id and team_id are required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if !s.memberOfMatch(actor, m) {
		return lineup.Lineup{}, fmt.Errorf("%w: match %s", ErrNotTeamMember, matchID)
	}

	item, exists, err := s.lineupRepo.GetByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup for match %s team %s", ErrNotFound, matchID, teamID)
	}

	return item, nil
}

// SaveSelection replaces the lineup's slots. The lineup must belong to one
// of the caller's teams and must not be locked. At most one substitute
// placeholder is allowed and no player may appear twice.
func (s *LineupService) SaveSelection(ctx context.Context, actor user.Principal, matchID, teamID string, input SaveSelectionInput) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.SaveSelection")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	teamID = strings.TrimSpace(teamID)
	if matchID == "" || teamID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: match_id and team_id are required", ErrInvalidInput)
	}
	if !actor.IsMemberOf(teamID) {
		return lineup.Lineup{}, fmt.Errorf("%w: team %s", ErrNotTeamMember, teamID)
	}

	current, exists, err := s.lineupRepo.GetByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup for match %s team %s", ErrNotFound, matchID, teamID)
	}
	if current.Locked {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup %s", ErrLineupLocked, current.ID)
	}

	positions, err := buildPositions(input.Slots, len(current.Positions))
	if err != nil {
		return lineup.Lineup{}, err
	}

	updated := current.Clone()
	updated.Positions = positions
	updated.UpdatedAt = s.now().UTC()

	return s.write(ctx, updated, input.Version)
}

// Lock freezes a complete lineup. A lineup carrying a substitute
// placeholder is lockable; the placeholder counts as filled and the
// opponent resolves it afterwards.
func (s *LineupService) Lock(ctx context.Context, actor user.Principal, lineupID string, version int64) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.Lock")
	defer span.End()

	current, err := s.getOwned(ctx, actor, lineupID)
	if err != nil {
		return lineup.Lineup{}, err
	}
	if current.Locked {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup %s", ErrLineupLocked, current.ID)
	}
	if current.State() != lineup.StateComplete {
		return lineup.Lineup{}, fmt.Errorf("%w: %d of %d positions filled", ErrIncompleteLineup, current.FilledCount(), len(current.Positions))
	}

	now := s.now().UTC()
	updated := current.Clone()
	updated.Locked = true
	updated.LockedAt = &now
	updated.UpdatedAt = now

	saved, err := s.write(ctx, updated, version)
	if err != nil {
		return lineup.Lineup{}, err
	}

	fields := map[string]any{
		"lineup_id": saved.ID,
		"match_id":  saved.MatchID,
		"team_id":   saved.TeamID,
	}
	if _, pending := saved.SubstitutePosition(); pending {
		fields["double_duty_pending"] = true
	}
	s.publisher.Publish(ctx, notify.Event{
		Kind:       notify.KindLineupLocked,
		OccurredAt: now,
		Fields:     fields,
	})

	if err := s.startMatchIfBothLocked(ctx, saved); err != nil {
		return lineup.Lineup{}, err
	}

	return saved, nil
}

// startMatchIfBothLocked moves the match to in-progress once the second
// side locks. The first lock leaves the match scheduled.
func (s *LineupService) startMatchIfBothLocked(ctx context.Context, locked lineup.Lineup) error {
	lineups, err := s.lineupRepo.ListByMatch(ctx, locked.MatchID)
	if err != nil {
		return fmt.Errorf("list match lineups: %w", err)
	}

	opponentLocked := false
	for _, l := range lineups {
		if l.TeamID == locked.TeamID {
			continue
		}
		if !l.Locked {
			return nil
		}
		opponentLocked = true
	}
	if !opponentLocked {
		return nil
	}

	m, exists, err := s.matchRepo.GetByID(ctx, locked.MatchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !exists || m.Status != match.StatusScheduled {
		return nil
	}

	now := s.now().UTC()
	m.Status = match.StatusInProgress
	m.StartedAt = &now
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	return nil
}

// Unlock reopens a locked lineup. Unlocking is always permitted before the
// match completes. Any double-duty resolution is undone: the position the
// duplicate occupied is emptied and both double-duty fields are cleared,
// which drops the lineup back to partial.
func (s *LineupService) Unlock(ctx context.Context, actor user.Principal, lineupID string, version int64) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.Unlock")
	defer span.End()

	current, err := s.getOwned(ctx, actor, lineupID)
	if err != nil {
		return lineup.Lineup{}, err
	}
	if !current.Locked {
		return current, nil
	}

	now := s.now().UTC()
	updated := current.Clone()
	updated.Locked = false
	updated.LockedAt = nil
	updated.UpdatedAt = now
	if updated.DoubleDutyPosition != nil {
		idx := *updated.DoubleDutyPosition - 1
		if idx >= 0 && idx < len(updated.Positions) {
			updated.Positions[idx] = lineup.Position{}
		}
		updated.DoubleDutyPlayerID = nil
		updated.DoubleDutyPosition = nil
	}

	saved, err := s.write(ctx, updated, version)
	if err != nil {
		return lineup.Lineup{}, err
	}

	s.publisher.Publish(ctx, notify.Event{
		Kind:       notify.KindLineupUnlocked,
		OccurredAt: now,
		Fields: map[string]any{
			"lineup_id": saved.ID,
			"match_id":  saved.MatchID,
			"team_id":   saved.TeamID,
		},
	})

	return saved, nil
}

// ResolveDoubleDuty is the opponent's pick: one of the locked lineup's real
// players is duplicated into the substitute placeholder position. The pick
// is made once per lock cycle and the chosen player's handicap then counts
// for both positions.
func (s *LineupService) ResolveDoubleDuty(ctx context.Context, actor user.Principal, lineupID, playerID string, version int64) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.ResolveDoubleDuty")
	defer span.End()

	lineupID = strings.TrimSpace(lineupID)
	playerID = strings.TrimSpace(playerID)
	if lineupID == "" || playerID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup_id and player_id are required", ErrInvalidInput)
	}

	current, exists, err := s.lineupRepo.GetByID(ctx, lineupID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup %s", ErrNotFound, lineupID)
	}

	opponentID, err := s.opponentTeamID(ctx, current)
	if err != nil {
		return lineup.Lineup{}, err
	}
	if !actor.IsMemberOf(opponentID) {
		return lineup.Lineup{}, fmt.Errorf("%w: double-duty pick belongs to team %s", ErrNotTeamMember, opponentID)
	}

	if !current.Locked {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup %s is not locked", ErrInvalidInput, lineupID)
	}
	if current.DoubleDutyPlayerID != nil {
		return lineup.Lineup{}, fmt.Errorf("%w: already resolved for this lock cycle", ErrUnresolvedDuplicate)
	}
	subPos, ok := current.SubstitutePosition()
	if !ok {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup has no substitute placeholder", ErrUnresolvedDuplicate)
	}

	var picked *lineup.Position
	for i := range current.Positions {
		if current.Positions[i].PlayerID == playerID {
			picked = &current.Positions[i]
			break
		}
	}
	if picked == nil {
		return lineup.Lineup{}, fmt.Errorf("%w: player %s is not in the lineup", ErrInvalidInput, playerID)
	}

	now := s.now().UTC()
	updated := current.Clone()
	updated.Positions[subPos-1] = lineup.Position{PlayerID: playerID, Handicap: picked.Handicap}
	updated.DoubleDutyPlayerID = &playerID
	updated.DoubleDutyPosition = &subPos
	updated.UpdatedAt = now

	saved, err := s.write(ctx, updated, version)
	if err != nil {
		return lineup.Lineup{}, err
	}

	s.publisher.Publish(ctx, notify.Event{
		Kind:       notify.KindDoubleDuty,
		OccurredAt: now,
		Fields: map[string]any{
			"lineup_id": saved.ID,
			"match_id":  saved.MatchID,
			"player_id": playerID,
			"position":  subPos,
		},
	})

	return saved, nil
}

func (s *LineupService) getOwned(ctx context.Context, actor user.Principal, lineupID string) (lineup.Lineup, error) {
	lineupID = strings.TrimSpace(lineupID)
	if lineupID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup_id is required", ErrInvalidInput)
	}

	current, exists, err := s.lineupRepo.GetByID(ctx, lineupID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup %s", ErrNotFound, lineupID)
	}
	if !actor.IsMemberOf(current.TeamID) {
		return lineup.Lineup{}, fmt.Errorf("%w: team %s", ErrNotTeamMember, current.TeamID)
	}

	return current, nil
}

func (s *LineupService) opponentTeamID(ctx context.Context, l lineup.Lineup) (string, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, l.MatchID)
	if err != nil {
		return "", fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: match %s", ErrNotFound, l.MatchID)
	}

	if m.HomeTeamID == l.TeamID {
		if m.AwayTeamID == nil {
			return "", fmt.Errorf("%w: match %s has no away team", ErrInvalidInput, m.ID)
		}
		return *m.AwayTeamID, nil
	}
	return m.HomeTeamID, nil
}

func (s *LineupService) memberOfMatch(actor user.Principal, m match.Match) bool {
	if actor.IsMemberOf(m.HomeTeamID) {
		return true
	}
	return m.AwayTeamID != nil && actor.IsMemberOf(*m.AwayTeamID)
}

func (s *LineupService) write(ctx context.Context, item lineup.Lineup, expectedVersion int64) (lineup.Lineup, error) {
	applied, err := s.lineupRepo.UpdateIfVersion(ctx, item, expectedVersion)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("update lineup: %w", err)
	}
	if !applied {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup %s version %d", ErrStaleWrite, item.ID, expectedVersion)
	}
	item.Version = expectedVersion + 1
	return item, nil
}

func buildPositions(slots []LineupSlotInput, size int) ([]lineup.Position, error) {
	if len(slots) != size {
		return nil, fmt.Errorf("%w: expected %d slots, got %d", ErrInvalidInput, size, len(slots))
	}

	positions := make([]lineup.Position, size)
	seen := make(map[string]bool, size)
	placeholders := 0
	for i, slot := range slots {
		playerID := strings.TrimSpace(slot.PlayerID)
		if slot.Substitute {
			if playerID != "" {
				return nil, fmt.Errorf("%w: slot %d is both a player and a placeholder", ErrInvalidInput, i+1)
			}
			placeholders++
			if placeholders > 1 {
				return nil, fmt.Errorf("%w: at most one substitute placeholder", ErrInvalidInput)
			}
			positions[i] = lineup.Position{Substitute: true}
			continue
		}
		if playerID == "" {
			continue
		}
		if seen[playerID] {
			return nil, fmt.Errorf("%w: player %s appears twice", ErrInvalidInput, playerID)
		}
		seen[playerID] = true
		positions[i] = lineup.Position{PlayerID: playerID, Handicap: slot.Handicap}
	}

	return positions, nil
}
