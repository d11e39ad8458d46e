package httpapi

import (
	"context"
	"time"

	"github.com/cuetrack/pool-league/internal/domain/lineup"
	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/domain/schedule"
	"github.com/cuetrack/pool-league/internal/usecase"
)

type lineupSlotRequest struct {
	PlayerID   string `json:"playerId"`
	Handicap   int    `json:"handicap" validate:"gte=0"`
	Substitute bool   `json:"substitute"`
}

type lineupSelectionRequest struct {
	Slots   []lineupSlotRequest `json:"slots" validate:"required,min=1,dive"`
	Version int64               `json:"version" validate:"gte=0"`
}

type lineupVersionRequest struct {
	Version int64 `json:"version" validate:"gte=0"`
}

type doubleDutyRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Version  int64  `json:"version" validate:"gte=0"`
}

type lineupPositionDTO struct {
	Position   int    `json:"position"`
	PlayerID   string `json:"playerId,omitempty"`
	Handicap   int    `json:"handicap"`
	Substitute bool   `json:"substitute,omitempty"`
}

type lineupDTO struct {
	ID                 string              `json:"id"`
	MatchID            string              `json:"matchId"`
	TeamID             string              `json:"teamId"`
	Positions          []lineupPositionDTO `json:"positions"`
	State              string              `json:"state"`
	FilledCount        int                 `json:"filledCount"`
	Locked             bool                `json:"locked"`
	LockedAt           *string             `json:"lockedAt,omitempty"`
	DoubleDutyPlayerID *string             `json:"doubleDutyPlayerId,omitempty"`
	DoubleDutyPosition *int                `json:"doubleDutyPosition,omitempty"`
	TeamModifier       int                 `json:"teamModifier"`
	Version            int64               `json:"version"`
	UpdatedAt          string              `json:"updatedAt"`
}

type matchDTO struct {
	ID             string  `json:"id"`
	SeasonID       string  `json:"seasonId"`
	SeasonWeekID   string  `json:"seasonWeekId"`
	HomeTeamID     string  `json:"homeTeamId"`
	AwayTeamID     *string `json:"awayTeamId,omitempty"`
	MatchNumber    int     `json:"matchNumber"`
	Status         string  `json:"status"`
	HomeScore      int     `json:"homeScore"`
	AwayScore      int     `json:"awayScore"`
	WinnerTeamID   *string `json:"winnerTeamId,omitempty"`
	HomeVerifiedBy *string `json:"homeVerifiedBy,omitempty"`
	AwayVerifiedBy *string `json:"awayVerifiedBy,omitempty"`
	StartedAt      *string `json:"startedAt,omitempty"`
	CompletedAt    *string `json:"completedAt,omitempty"`
}

type verifyResultDTO struct {
	Match              matchDTO `json:"match"`
	Completed          bool     `json:"completed"`
	TiebreakerRequired bool     `json:"tiebreakerRequired"`
}

type generateScheduleDTO struct {
	WeekCount    int `json:"weekCount"`
	MatchCount   int `json:"matchCount"`
	ByeCount     int `json:"byeCount"`
	SkippedPairs int `json:"skippedPairs"`
}

type conflictDTO struct {
	PreferenceID string `json:"preferenceId"`
	Source       string `json:"source"`
	Action       string `json:"action"`
	Label        string `json:"label"`
	Severity     string `json:"severity"`
	DistanceDays int    `json:"distanceDays"`
	Actionable   bool   `json:"actionable"`
}

type annotatedWeekDTO struct {
	WeekID          string        `json:"weekId"`
	Date            string        `json:"date"`
	DisplayName     string        `json:"displayName"`
	Kind            string        `json:"kind"`
	Conflicts       []conflictDTO `json:"conflicts,omitempty"`
	MaxSeverity     string        `json:"maxSeverity"`
	EffectiveAction string        `json:"effectiveAction"`
}

type rejectedPreferenceDTO struct {
	PreferenceID string `json:"preferenceId"`
	Reason       string `json:"reason"`
}

type calendarConflictsDTO struct {
	Weeks    []annotatedWeekDTO      `json:"weeks"`
	Rejected []rejectedPreferenceDTO `json:"rejected,omitempty"`
}

type handicapRowDTO struct {
	Difference  int `json:"difference"`
	GamesToWin  int `json:"gamesToWin"`
	GamesToTie  int `json:"gamesToTie"`
	GamesToLose int `json:"gamesToLose"`
}

func lineupToDTO(ctx context.Context, item lineup.Lineup) lineupDTO {
	ctx, span := startSpan(ctx, "httpapi.lineupToDTO")
	defer span.End()

	positions := make([]lineupPositionDTO, 0, len(item.Positions))
	for i, p := range item.Positions {
		positions = append(positions, lineupPositionDTO{
			Position:   i + 1,
			PlayerID:   p.PlayerID,
			Handicap:   p.Handicap,
			Substitute: p.Substitute,
		})
	}

	return lineupDTO{
		ID:                 item.ID,
		MatchID:            item.MatchID,
		TeamID:             item.TeamID,
		Positions:          positions,
		State:              string(item.State()),
		FilledCount:        item.FilledCount(),
		Locked:             item.Locked,
		LockedAt:           timeToDTO(item.LockedAt),
		DoubleDutyPlayerID: item.DoubleDutyPlayerID,
		DoubleDutyPosition: item.DoubleDutyPosition,
		TeamModifier:       item.TeamModifier,
		Version:            item.Version,
		UpdatedAt:          item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func matchToDTO(ctx context.Context, m match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:             m.ID,
		SeasonID:       m.SeasonID,
		SeasonWeekID:   m.SeasonWeekID,
		HomeTeamID:     m.HomeTeamID,
		AwayTeamID:     m.AwayTeamID,
		MatchNumber:    m.MatchNumber,
		Status:         string(m.Status),
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		WinnerTeamID:   m.WinnerTeamID,
		HomeVerifiedBy: m.HomeVerifiedBy,
		AwayVerifiedBy: m.AwayVerifiedBy,
		StartedAt:      timeToDTO(m.StartedAt),
		CompletedAt:    timeToDTO(m.CompletedAt),
	}
}

func calendarToDTO(ctx context.Context, conflicts usecase.CalendarConflicts) calendarConflictsDTO {
	ctx, span := startSpan(ctx, "httpapi.calendarToDTO")
	defer span.End()

	weeks := make([]annotatedWeekDTO, 0, len(conflicts.Weeks))
	for _, wk := range conflicts.Weeks {
		weeks = append(weeks, annotatedWeekToDTO(wk))
	}

	out := calendarConflictsDTO{Weeks: weeks}
	for _, r := range conflicts.Rejected {
		out.Rejected = append(out.Rejected, rejectedPreferenceDTO{
			PreferenceID: r.PreferenceID,
			Reason:       r.Reason,
		})
	}
	return out
}

func annotatedWeekToDTO(wk schedule.AnnotatedWeek) annotatedWeekDTO {
	conflicts := make([]conflictDTO, 0, len(wk.Conflicts))
	for _, c := range wk.Conflicts {
		conflicts = append(conflicts, conflictDTO{
			PreferenceID: c.PreferenceID,
			Source:       string(c.Source),
			Action:       string(c.Action),
			Label:        c.Label,
			Severity:     c.Severity.String(),
			DistanceDays: c.DistanceDays,
			Actionable:   c.Actionable,
		})
	}

	return annotatedWeekDTO{
		WeekID:          wk.Week.ID,
		Date:            wk.Week.Date.UTC().Format("2006-01-02"),
		DisplayName:     wk.Week.DisplayName,
		Kind:            string(wk.Week.Kind),
		Conflicts:       conflicts,
		MaxSeverity:     wk.MaxSeverity.String(),
		EffectiveAction: string(wk.EffectiveAction),
	}
}

func timeToDTO(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
