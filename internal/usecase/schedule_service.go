package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/domain/schedule"
	"github.com/cuetrack/pool-league/internal/domain/season"
	"github.com/cuetrack/pool-league/internal/domain/team"
	"github.com/cuetrack/pool-league/internal/platform/id"
	"github.com/cuetrack/pool-league/internal/platform/logging"
	"github.com/cuetrack/pool-league/internal/platform/notify"
)

const (
	defaultScheduleWorkers = 4
	scheduleInsertBatch    = 50
)

// GenerateScheduleResult summarizes one generation run.
type GenerateScheduleResult struct {
	WeekCount    int `json:"week_count"`
	MatchCount   int `json:"match_count"`
	ByeCount     int `json:"bye_count"`
	SkippedPairs int `json:"skipped_pairs"`
}

// ScheduleService builds and clears a season's match schedule from the
// round-robin matchup table and the season calendar.
type ScheduleService struct {
	seasonRepo season.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	lineupRepo lineup.Repository
	idGen      id.Generator
	publisher  notify.Publisher
	logger     *logging.Logger
	maxWorkers int
	now        func() time.Time
}

func NewScheduleService(
	seasonRepo season.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	lineupRepo lineup.Repository,
	idGen id.Generator,
	publisher notify.Publisher,
	logger *logging.Logger,
	maxWorkers int,
) *ScheduleService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = defaultScheduleWorkers
	}
	return &ScheduleService{
		seasonRepo: seasonRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		lineupRepo: lineupRepo,
		idGen:      idGen,
		publisher:  publisher,
		logger:     logger,
		maxWorkers: maxWorkers,
		now:        time.Now,
	}
}

// Generate creates scheduled matches for every regular week of the season
// that has none yet. Existing rows are never touched, so a re-run after a
// partial failure only fills the gaps. Each non-bye match gets one empty
// lineup per side, sized by the team's format.
func (s *ScheduleService) Generate(ctx context.Context, seasonID string) (GenerateScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScheduleService.Generate")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return GenerateScheduleResult{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return GenerateScheduleResult{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return GenerateScheduleResult{}, fmt.Errorf("%w: season %s", ErrNotFound, seasonID)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return GenerateScheduleResult{}, fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		return GenerateScheduleResult{}, fmt.Errorf("%w: season %s", ErrNoTeams, seasonID)
	}

	weeks, err := s.regularWeeks(ctx, seasonID)
	if err != nil {
		return GenerateScheduleResult{}, err
	}
	if len(weeks) == 0 {
		return GenerateScheduleResult{}, fmt.Errorf("%w: season %s", ErrNoRegularWeeks, seasonID)
	}

	teamsByPosition := make(map[int]team.Team, len(teams))
	teamCount := 0
	for _, t := range teams {
		teamsByPosition[t.SchedulePosition] = t
		if t.SchedulePosition > teamCount {
			teamCount = t.SchedulePosition
		}
	}

	rounds, err := schedule.BuildRoundRobin(teamCount)
	if err != nil {
		return GenerateScheduleResult{}, fmt.Errorf("build matchup table: %w", err)
	}
	if len(rounds) == 0 {
		return GenerateScheduleResult{}, fmt.Errorf("%w: %d teams", ErrNoMatchupTable, teamCount)
	}

	existing, err := s.matchRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return GenerateScheduleResult{}, fmt.Errorf("list existing matches: %w", err)
	}
	scheduledWeeks := make(map[string]bool, len(existing))
	for _, m := range existing {
		scheduledWeeks[m.SeasonWeekID] = true
	}

	var result GenerateScheduleResult
	var matches []match.Match
	var lineups []lineup.Lineup

	for weekIndex, wk := range weeks {
		if scheduledWeeks[wk.ID] {
			continue
		}
		result.WeekCount++

		round := rounds[weekIndex%len(rounds)]
		matchNumber := 1
		for _, pair := range round {
			if pair.IsBye() {
				result.ByeCount++
				continue
			}

			home, homeOK := teamsByPosition[pair.Home]
			away, awayOK := teamsByPosition[pair.Away]
			if !homeOK || !awayOK {
				s.logger.WarnContext(ctx, "no team for schedule position, pair skipped",
					"season_id", seasonID,
					"week_id", wk.ID,
					"home_position", pair.Home,
					"away_position", pair.Away,
				)
				result.SkippedPairs++
				continue
			}

			m, sides, err := s.buildMatch(seasonID, wk.ID, home, away, matchNumber)
			if err != nil {
				return GenerateScheduleResult{}, err
			}
			matches = append(matches, m)
			lineups = append(lineups, sides...)
			matchNumber++
		}
	}

	if err := s.insertBatches(ctx, matches, lineups); err != nil {
		return GenerateScheduleResult{}, err
	}
	result.MatchCount = len(matches)

	s.publisher.Publish(ctx, notify.Event{
		Kind:       notify.KindScheduleGenerated,
		OccurredAt: s.now().UTC(),
		Fields: map[string]any{
			"season_id":   seasonID,
			"match_count": result.MatchCount,
		},
	})

	return result, nil
}

// Clear removes every match and lineup of the season. Pairing Clear with
// Generate yields the same schedule for unchanged teams and weeks.
func (s *ScheduleService) Clear(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "ScheduleService.Clear")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return fmt.Errorf("get season: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: season %s", ErrNotFound, seasonID)
	}

	if err := s.lineupRepo.DeleteBySeason(ctx, seasonID); err != nil {
		return fmt.Errorf("delete season lineups: %w", err)
	}
	if _, err := s.matchRepo.DeleteBySeason(ctx, seasonID); err != nil {
		return fmt.Errorf("delete season matches: %w", err)
	}

	return nil
}

func (s *ScheduleService) regularWeeks(ctx context.Context, seasonID string) ([]season.Week, error) {
	weeks, err := s.seasonRepo.ListWeeks(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season weeks: %w", err)
	}

	regular := make([]season.Week, 0, len(weeks))
	for _, wk := range weeks {
		if wk.Kind == season.WeekRegular {
			regular = append(regular, wk)
		}
	}
	sort.SliceStable(regular, func(i, j int) bool {
		return regular[i].Date.Before(regular[j].Date)
	})

	return regular, nil
}

func (s *ScheduleService) buildMatch(seasonID, weekID string, home, away team.Team, matchNumber int) (match.Match, []lineup.Lineup, error) {
	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, nil, fmt.Errorf("generate match id: %w", err)
	}

	awayTeamID := away.ID
	m := match.Match{
		ID:           matchID,
		SeasonID:     seasonID,
		SeasonWeekID: weekID,
		HomeTeamID:   home.ID,
		AwayTeamID:   &awayTeamID,
		MatchNumber:  matchNumber,
		Status:       match.StatusScheduled,
	}

	sides := make([]lineup.Lineup, 0, 2)
	for _, t := range []team.Team{home, away} {
		lineupID, err := s.idGen.NewID()
		if err != nil {
			return match.Match{}, nil, fmt.Errorf("generate lineup id: %w", err)
		}
		sides = append(sides, lineup.Lineup{
			ID:        lineupID,
			MatchID:   matchID,
			TeamID:    t.ID,
			Positions: make([]lineup.Position, t.Format.LineupSize()),
			UpdatedAt: s.now().UTC(),
		})
	}

	return m, sides, nil
}

// insertBatches writes matches and their lineups through a bounded worker
// pool so large seasons do not serialize on row inserts.
func (s *ScheduleService) insertBatches(ctx context.Context, matches []match.Match, lineups []lineup.Lineup) error {
	if len(matches) == 0 {
		return nil
	}

	lineupsByMatch := make(map[string][]lineup.Lineup, len(matches))
	for _, l := range lineups {
		lineupsByMatch[l.MatchID] = append(lineupsByMatch[l.MatchID], l)
	}

	type batch struct {
		matches []match.Match
		lineups []lineup.Lineup
	}
	var batches []batch
	for start := 0; start < len(matches); start += scheduleInsertBatch {
		end := start + scheduleInsertBatch
		if end > len(matches) {
			end = len(matches)
		}
		b := batch{matches: matches[start:end]}
		for _, m := range b.matches {
			b.lineups = append(b.lineups, lineupsByMatch[m.ID]...)
		}
		batches = append(batches, b)
	}

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	errCh := make(chan error, len(batches))
	var workers sync.WaitGroup
	for _, b := range batches {
		b := b
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if _, err := s.matchRepo.BulkCreate(ctx, b.matches); err != nil {
				errCh <- fmt.Errorf("bulk create matches: %w", err)
				return
			}
			if err := s.lineupRepo.BulkCreate(ctx, b.lineups); err != nil {
				errCh <- fmt.Errorf("bulk create lineups: %w", err)
			}
		}); err != nil {
			workers.Done()
			return fmt.Errorf("submit batch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}

	return nil
}
