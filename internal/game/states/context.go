package states

import (
	"time"

	"github.com/rs/zerolog"
)

// RoundContext provides round information to states
type RoundContext struct {
	// GameID uniquely identifies the session owning the round
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Round counts InitRound calls, starting at 1
	Round int

	// StartTime is when the first reveal placed the mines
	StartTime time.Time

	// EndTime is when the round was decided
	EndTime time.Time
}

// NewRoundContext creates a new round context
func NewRoundContext(gameID string, logger zerolog.Logger) *RoundContext {
	return &RoundContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
	}
}

// WallClock returns the wall time the round has been running. It is
// informational; the round timer itself is tick driven.
func (rc *RoundContext) WallClock() time.Duration {
	if rc.StartTime.IsZero() {
		return 0
	}
	if !rc.EndTime.IsZero() {
		return rc.EndTime.Sub(rc.StartTime)
	}
	return time.Since(rc.StartTime)
}
