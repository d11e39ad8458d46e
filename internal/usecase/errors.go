package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotTeamMember         = errors.New("caller is not a member of the team")
	ErrIncompleteLineup      = errors.New("lineup is not complete")
	ErrLineupLocked          = errors.New("lineup is locked")
	ErrStaleWrite            = errors.New("lineup was modified concurrently")
	ErrUnresolvedDuplicate   = errors.New("double-duty placeholder cannot be resolved")
	ErrOutOfRange            = errors.New("handicap difference out of supported range")
	ErrNoTeams               = errors.New("season has no teams")
	ErrNoRegularWeeks        = errors.New("season has no regular weeks")
	ErrNoMatchupTable        = errors.New("no matchup table for team count")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
