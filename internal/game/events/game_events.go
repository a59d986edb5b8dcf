package events

import (
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// Event type constants
const (
	TypeRoundReset      = "round.reset"
	TypeRoundStarted    = "round.started"
	TypeCellsRevealed   = "cells.revealed"
	TypeFlagToggled     = "flag.toggled"
	TypeRoundWon        = "round.won"
	TypeRoundLost       = "round.lost"
	TypeTimerTicked     = "timer.ticked"
	TypeStateTransition = "state.transition"
)

// RoundResetEvent is published by InitRound.
type RoundResetEvent struct {
	BaseEvent
	Metadata RoundMetadata
	Width    int
	Height   int
	Mines    int
	MaxFlags int
}

// NewRoundResetEvent creates a new RoundResetEvent
func NewRoundResetEvent(gameID string, round, width, height, mines, maxFlags int) *RoundResetEvent {
	return &RoundResetEvent{
		BaseEvent: newBase(TypeRoundReset, gameID),
		Metadata:  RoundMetadata{Round: round},
		Width:     width,
		Height:    height,
		Mines:     mines,
		MaxFlags:  maxFlags,
	}
}

// RoundStartedEvent is published when the first reveal lays out the mines.
type RoundStartedEvent struct {
	BaseEvent
	Metadata        RoundMetadata
	FirstClick      core.Coordinate
	ExclusionRadius int
	MineIndices     []int
}

// NewRoundStartedEvent creates a new RoundStartedEvent
func NewRoundStartedEvent(gameID string, round int, firstClick core.Coordinate, radius int, mines []int) *RoundStartedEvent {
	return &RoundStartedEvent{
		BaseEvent:       newBase(TypeRoundStarted, gameID),
		Metadata:        RoundMetadata{Round: round},
		FirstClick:      firstClick,
		ExclusionRadius: radius,
		MineIndices:     append([]int(nil), mines...),
	}
}

// CellsRevealedEvent is published after a reveal command changed the board.
type CellsRevealedEvent struct {
	BaseEvent
	Metadata RoundMetadata
	Origin   core.Coordinate
	Changes  []core.CellChange
}

// NewCellsRevealedEvent creates a new CellsRevealedEvent
func NewCellsRevealedEvent(gameID string, meta RoundMetadata, origin core.Coordinate, changes []core.CellChange) *CellsRevealedEvent {
	return &CellsRevealedEvent{
		BaseEvent: newBase(TypeCellsRevealed, gameID),
		Metadata:  meta,
		Origin:    origin,
		Changes:   changes,
	}
}

// FlagToggledEvent is published when a flag is placed or removed.
type FlagToggledEvent struct {
	BaseEvent
	Metadata RoundMetadata
	Cell     core.Coordinate
	Flagged  bool
}

// NewFlagToggledEvent creates a new FlagToggledEvent
func NewFlagToggledEvent(gameID string, meta RoundMetadata, cell core.Coordinate, flagged bool) *FlagToggledEvent {
	return &FlagToggledEvent{
		BaseEvent: newBase(TypeFlagToggled, gameID),
		Metadata:  meta,
		Cell:      cell,
		Flagged:   flagged,
	}
}

// RoundWonEvent is published when the win rule is satisfied.
type RoundWonEvent struct {
	BaseEvent
	Metadata RoundMetadata
	Width    int
	Height   int
	Mines    int
}

// NewRoundWonEvent creates a new RoundWonEvent
func NewRoundWonEvent(gameID string, meta RoundMetadata, width, height, mines int) *RoundWonEvent {
	return &RoundWonEvent{
		BaseEvent: newBase(TypeRoundWon, gameID),
		Metadata:  meta,
		Width:     width,
		Height:    height,
		Mines:     mines,
	}
}

// Loss reasons
const (
	LossDetonation     = "detonation"
	LossFlagExhaustion = "flag_exhaustion"
)

// RoundLostEvent is published when a mine is revealed or the flag budget
// runs out under the exhaustion rule. Cell is the detonated mine, or the
// last flagged cell for flag exhaustion.
type RoundLostEvent struct {
	BaseEvent
	Metadata RoundMetadata
	Cell     core.Coordinate
	Reason   string
	Width    int
	Height   int
	Mines    int
}

// NewRoundLostEvent creates a new RoundLostEvent
func NewRoundLostEvent(gameID string, meta RoundMetadata, cell core.Coordinate, reason string, width, height, mines int) *RoundLostEvent {
	return &RoundLostEvent{
		BaseEvent: newBase(TypeRoundLost, gameID),
		Metadata:  meta,
		Cell:      cell,
		Reason:    reason,
		Width:     width,
		Height:    height,
		Mines:     mines,
	}
}

// TimerTickedEvent is published for every accepted tick.
type TimerTickedEvent struct {
	BaseEvent
	Metadata RoundMetadata
}

// NewTimerTickedEvent creates a new TimerTickedEvent
func NewTimerTickedEvent(gameID string, meta RoundMetadata) *TimerTickedEvent {
	return &TimerTickedEvent{
		BaseEvent: newBase(TypeTimerTicked, gameID),
		Metadata:  meta,
	}
}

// StateTransitionEvent is published when the round state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
