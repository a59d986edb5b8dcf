package game

import (
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
)

// Status is the lifecycle status of a round.
type Status = states.RoundPhase

const (
	StatusNotStarted = states.PhaseNotStarted
	StatusInProgress = states.PhaseInProgress
	StatusWon        = states.PhaseWon
	StatusLost       = states.PhaseLost
)

// RoundState is a snapshot of the round counters.
type RoundState struct {
	Round          int
	Status         Status
	MinesPlaced    bool
	Mines          int
	MaxFlags       int
	PlacedFlags    int
	CorrectFlags   int
	RevealedCells  int
	ElapsedSeconds int
}

// FlagsRemaining is the number of flags the player may still place.
func (s RoundState) FlagsRemaining() int {
	return s.MaxFlags - s.PlacedFlags
}

// Result is returned by every command: the cells whose view changed plus
// the counters a view needs to redraw.
type Result struct {
	Changes        []core.CellChange
	Status         Status
	PlacedFlags    int
	ElapsedSeconds int
}

// Changed reports whether the command altered any cell.
func (r Result) Changed() bool { return len(r.Changes) > 0 }
