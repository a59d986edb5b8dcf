package states

import "fmt"

// RoundPhase is the lifecycle status of a round
type RoundPhase int

const (
	// PhaseNotStarted - cleared board, mines not yet placed
	PhaseNotStarted RoundPhase = iota

	// PhaseInProgress - mines placed, timer running
	PhaseInProgress

	// PhaseWon - win rule satisfied
	PhaseWon

	// PhaseLost - a mine was revealed or the flag budget ran out
	PhaseLost
)

// String returns the string representation of a RoundPhase
func (p RoundPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseInProgress:
		return "InProgress"
	case PhaseWon:
		return "Won"
	case PhaseLost:
		return "Lost"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true once the round has been decided
func (p RoundPhase) IsTerminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// AcceptsCommands returns true if reveal and flag commands may change the board
func (p RoundPhase) AcceptsCommands() bool {
	return p == PhaseNotStarted || p == PhaseInProgress
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Every phase may go back to NotStarted through a round reset.
func (p RoundPhase) AllowedTransitions() []RoundPhase {
	switch p {
	case PhaseNotStarted:
		return []RoundPhase{PhaseInProgress}
	case PhaseInProgress:
		return []RoundPhase{PhaseWon, PhaseLost, PhaseNotStarted}
	case PhaseWon, PhaseLost:
		return []RoundPhase{PhaseNotStarted}
	default:
		return []RoundPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p RoundPhase) CanTransitionTo(target RoundPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a RoundPhase
func ParsePhase(s string) (RoundPhase, error) {
	switch s {
	case "NotStarted":
		return PhaseNotStarted, nil
	case "InProgress":
		return PhaseInProgress, nil
	case "Won":
		return PhaseWon, nil
	case "Lost":
		return PhaseLost, nil
	default:
		return PhaseNotStarted, fmt.Errorf("unknown round phase %q", s)
	}
}
