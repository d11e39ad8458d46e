package schedule

import "errors"

// ErrInvalidTeamCount rejects matchup tables for fewer than two teams.
var ErrInvalidTeamCount = errors.New("team count must be at least 2")

// ByePosition is the sentinel slot paired against the resting team when an
// odd team count forces a bye each round.
const ByePosition = 0

// Pair matches two schedule positions. Home is the first slot of the pair.
type Pair struct {
	Home int
	Away int
}

// IsBye reports whether either side of the pair is the bye sentinel.
func (p Pair) IsBye() bool {
	return p.Home == ByePosition || p.Away == ByePosition
}

// BuildRoundRobin produces the cyclical matchup table for teamCount
// schedule positions (1..teamCount) using the circle method: position 1 is
// fixed and the remaining positions rotate one step per round, pairing
// symmetrically from both ends of the rotated sequence. An odd team count
// gets the bye sentinel appended, yielding teamCount rounds with exactly
// one bye per position across the cycle. Every unordered pair of real
// positions appears in exactly one round per cycle.
func BuildRoundRobin(teamCount int) ([][]Pair, error) {
	if teamCount < 2 {
		return nil, ErrInvalidTeamCount
	}

	slots := make([]int, 0, teamCount+1)
	for pos := 1; pos <= teamCount; pos++ {
		slots = append(slots, pos)
	}
	if teamCount%2 != 0 {
		slots = append(slots, ByePosition)
	}

	size := len(slots)
	roundCount := size - 1
	rounds := make([][]Pair, 0, roundCount)

	for round := 0; round < roundCount; round++ {
		pairs := make([]Pair, 0, size/2)
		pairs = append(pairs, Pair{Home: slots[0], Away: slots[size-1]})
		for i := 1; i < size/2; i++ {
			pairs = append(pairs, Pair{Home: slots[i], Away: slots[size-1-i]})
		}
		rounds = append(rounds, pairs)

		// Rotate everything but the fixed first slot.
		last := slots[size-1]
		copy(slots[2:], slots[1:size-1])
		slots[1] = last
	}

	return rounds, nil
}
