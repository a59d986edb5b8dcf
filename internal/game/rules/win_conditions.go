package rules

import (
	"github.com/rs/zerolog"
)

// WinRule selects how a round is won.
type WinRule string

const (
	// WinByFlags wins once every mine carries a flag.
	WinByFlags WinRule = "flags"
	// WinByReveal wins once every safe cell is revealed.
	WinByReveal WinRule = "reveal"
)

// Counters are the round totals the checker decides on.
type Counters struct {
	Area         int
	Mines        int
	MaxFlags     int
	Revealed     int
	PlacedFlags  int
	CorrectFlags int
}

// WinConditionChecker handles round over detection
type WinConditionChecker struct {
	logger               zerolog.Logger
	rule                 WinRule
	lossOnFlagExhaustion bool
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, rule WinRule, lossOnFlagExhaustion bool) *WinConditionChecker {
	if rule == "" {
		rule = WinByFlags
	}
	return &WinConditionChecker{
		logger:               logger.With().Str("component", "WinConditionChecker").Logger(),
		rule:                 rule,
		lossOnFlagExhaustion: lossOnFlagExhaustion,
	}
}

// Rule returns the active win rule
func (wc *WinConditionChecker) Rule() WinRule { return wc.rule }

// IsWon reports whether the counters satisfy the win rule. With zero mines
// the flag rule is satisfied vacuously.
func (wc *WinConditionChecker) IsWon(c Counters) bool {
	var won bool
	switch wc.rule {
	case WinByReveal:
		won = c.Revealed == c.Area-c.Mines
	default:
		won = c.CorrectFlags == c.Mines
	}
	wc.logger.Debug().
		Str("rule", string(wc.rule)).
		Int("revealed", c.Revealed).
		Int("correct_flags", c.CorrectFlags).
		Int("mines", c.Mines).
		Bool("won", won).
		Msg("Win condition check complete")
	return won
}

// FlagsExhausted reports whether the last allowed flag has been placed
// without covering every mine. Always false unless the policy is enabled.
func (wc *WinConditionChecker) FlagsExhausted(c Counters) bool {
	if !wc.lossOnFlagExhaustion {
		return false
	}
	return c.PlacedFlags >= c.MaxFlags && c.CorrectFlags < c.Mines
}
