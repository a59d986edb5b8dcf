package states

import (
	"time"
)

// NotStartedState is a freshly reset round
type NotStartedState struct{}

func NewNotStartedState() State { return &NotStartedState{} }

func (s *NotStartedState) Phase() RoundPhase { return PhaseNotStarted }

func (s *NotStartedState) Enter(ctx *RoundContext) error {
	ctx.Round++
	ctx.StartTime = time.Time{}
	ctx.EndTime = time.Time{}
	ctx.Logger.Debug().Int("round", ctx.Round).Msg("Round reset")
	return nil
}

func (s *NotStartedState) Exit(ctx *RoundContext) error { return nil }

// InProgressState is an active round
type InProgressState struct{}

func NewInProgressState() State { return &InProgressState{} }

func (s *InProgressState) Phase() RoundPhase { return PhaseInProgress }

func (s *InProgressState) Enter(ctx *RoundContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Info().
		Int("round", ctx.Round).
		Time("start_time", ctx.StartTime).
		Msg("Round started")
	return nil
}

func (s *InProgressState) Exit(ctx *RoundContext) error {
	ctx.EndTime = time.Now()
	return nil
}

// WonState is a round decided in the player's favour
type WonState struct{}

func NewWonState() State { return &WonState{} }

func (s *WonState) Phase() RoundPhase { return PhaseWon }

func (s *WonState) Enter(ctx *RoundContext) error {
	ctx.Logger.Info().
		Int("round", ctx.Round).
		Dur("wall_clock", ctx.WallClock()).
		Msg("Round won")
	return nil
}

func (s *WonState) Exit(ctx *RoundContext) error { return nil }

// LostState is a round ended by a mine or an exhausted flag budget
type LostState struct{}

func NewLostState() State { return &LostState{} }

func (s *LostState) Phase() RoundPhase { return PhaseLost }

func (s *LostState) Enter(ctx *RoundContext) error {
	ctx.Logger.Info().
		Int("round", ctx.Round).
		Dur("wall_clock", ctx.WallClock()).
		Msg("Round lost")
	return nil
}

func (s *LostState) Exit(ctx *RoundContext) error { return nil }
