package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cuetrack/pool-league/internal/domain/schedule"
	"github.com/cuetrack/pool-league/internal/domain/season"
	"github.com/cuetrack/pool-league/internal/platform/cache"
)

// CalendarConflicts is the annotated season calendar: every week scored
// against the season's blackout preferences, plus preferences the detector
// refused to score.
type CalendarConflicts struct {
	Weeks    []schedule.AnnotatedWeek
	Rejected []schedule.RejectedPreference
}

// CalendarService reports blackout conflicts over a season's calendar.
type CalendarService struct {
	seasonRepo    season.Repository
	store         *cache.Store
	proximityDays int
}

func NewCalendarService(seasonRepo season.Repository, store *cache.Store, proximityDays int) *CalendarService {
	if proximityDays <= 0 {
		proximityDays = schedule.DefaultProximityDays
	}
	return &CalendarService{
		seasonRepo:    seasonRepo,
		store:         store,
		proximityDays: proximityDays,
	}
}

// Conflicts annotates the season's weeks, closest-occurrence rules applied.
// Results are cached per season; the cache TTL bounds staleness after a
// preference edit.
func (s *CalendarService) Conflicts(ctx context.Context, seasonID string) (CalendarConflicts, error) {
	ctx, span := startUsecaseSpan(ctx, "CalendarService.Conflicts")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return CalendarConflicts{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}

	if s.store == nil {
		return s.load(ctx, seasonID)
	}

	value, err := s.store.GetOrLoad(ctx, "calendar:conflicts:"+seasonID, func(ctx context.Context) (any, error) {
		return s.load(ctx, seasonID)
	})
	if err != nil {
		return CalendarConflicts{}, err
	}

	result, ok := value.(CalendarConflicts)
	if !ok {
		return CalendarConflicts{}, fmt.Errorf("unexpected cached calendar type %T", value)
	}
	return result, nil
}

func (s *CalendarService) load(ctx context.Context, seasonID string) (CalendarConflicts, error) {
	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return CalendarConflicts{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return CalendarConflicts{}, fmt.Errorf("%w: season %s", ErrNotFound, seasonID)
	}

	weeks, err := s.seasonRepo.ListWeeks(ctx, seasonID)
	if err != nil {
		return CalendarConflicts{}, fmt.Errorf("list season weeks: %w", err)
	}
	sort.SliceStable(weeks, func(i, j int) bool {
		return weeks[i].Date.Before(weeks[j].Date)
	})

	prefs, err := s.seasonRepo.ListBlackoutPreferences(ctx, seasonID)
	if err != nil {
		return CalendarConflicts{}, fmt.Errorf("list blackout preferences: %w", err)
	}

	annotated, rejected := schedule.DetectConflicts(weeks, prefs, s.proximityDays)
	return CalendarConflicts{Weeks: annotated, Rejected: rejected}, nil
}
