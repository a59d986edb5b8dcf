package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// ScriptedRand replays a fixed sequence of Intn results. It panics when the
// script runs out so a test never silently falls back to real randomness.
type ScriptedRand struct {
	values []int
	pos    int
}

// NewScriptedRand returns a source yielding values in order.
func NewScriptedRand(values ...int) *ScriptedRand {
	return &ScriptedRand{values: values}
}

// MinesAt scripts the generator to draw exactly the given coordinates, row
// first then column, which is the order mapgen consumes them in.
func MinesAt(coords ...core.Coordinate) *ScriptedRand {
	values := make([]int, 0, 2*len(coords))
	for _, c := range coords {
		values = append(values, c.Row, c.Col)
	}
	return NewScriptedRand(values...)
}

func (s *ScriptedRand) Intn(n int) int {
	if s.pos >= len(s.values) {
		panic(fmt.Sprintf("scripted rand exhausted after %d draws", s.pos))
	}
	v := s.values[s.pos]
	s.pos++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted value %d out of range [0,%d)", v, n))
	}
	return v
}

// Remaining is the number of unused scripted values.
func (s *ScriptedRand) Remaining() int { return len(s.values) - s.pos }

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}
