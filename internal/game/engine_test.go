package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
	"github.com/mitchelldurbincs/minesweeper/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// newTestEngine builds an initialised engine whose first reveal plants
// mines exactly at the given coordinates.
func newTestEngine(t *testing.T, w, h int, mines []core.Coordinate, opts ...func(*GameConfig)) *Engine {
	t.Helper()
	cfg := GameConfig{
		Width:  w,
		Height: h,
		Mines:  len(mines),
		Rng:    testutil.MinesAt(mines...),
		Logger: testutil.NopLogger(),
		GameID: "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, e.InitRound())
	return e
}

func at(row, col int) core.Coordinate { return core.NewCoordinate(row, col) }

// flaggedCount counts flagged cells from the public views.
func flaggedCount(e *Engine) int {
	n := 0
	for _, row := range e.Views() {
		for _, v := range row {
			if v.Kind == core.ViewFlagged {
				n++
			}
		}
	}
	return n
}

func TestNewEngine_Validation(t *testing.T) {
	tests := []struct {
		name  string
		cfg   GameConfig
		valid bool
	}{
		{"beginner", GameConfig{Width: 9, Height: 9, Mines: 10}, true},
		{"zero mines", GameConfig{Width: 5, Height: 5, Mines: 0}, true},
		{"one safe cell", GameConfig{Width: 2, Height: 2, Mines: 3}, true},
		{"zero width", GameConfig{Width: 0, Height: 5, Mines: 1}, false},
		{"zero height", GameConfig{Width: 5, Height: 0, Mines: 1}, false},
		{"negative mines", GameConfig{Width: 5, Height: 5, Mines: -1}, false},
		{"board full of mines", GameConfig{Width: 3, Height: 3, Mines: 9}, false},
		{"negative max flags", GameConfig{Width: 5, Height: 5, Mines: 3, MaxFlags: -1}, false},
		{"unknown win rule", GameConfig{Width: 5, Height: 5, Mines: 3, WinRule: "luck"}, false},
		{"flags short of mines", GameConfig{Width: 5, Height: 5, Mines: 3, MaxFlags: 2}, false},
		{"flags short of mines, explicit rule", GameConfig{Width: 5, Height: 5, Mines: 3, MaxFlags: 2, WinRule: WinByFlags}, false},
		{"flags short of mines, reveal rule", GameConfig{Width: 5, Height: 5, Mines: 3, MaxFlags: 2, WinRule: WinByReveal}, true},
		{"flags equal to mines", GameConfig{Width: 5, Height: 5, Mines: 3, MaxFlags: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = testutil.NopLogger()
			e, err := NewEngine(context.Background(), tt.cfg)
			if tt.valid {
				require.NoError(t, err)
				require.NotNil(t, e)
				return
			}
			assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
			assert.Nil(t, e)
		})
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e, err := NewEngine(context.Background(), GameConfig{Width: 9, Height: 9, Mines: 10, Logger: testutil.NopLogger()})
	require.NoError(t, err)

	cfg := e.Config()
	assert.Equal(t, 10, cfg.MaxFlags)
	assert.Equal(t, WinByFlags, cfg.WinRule)
	assert.NotZero(t, cfg.Seed)
	assert.NotNil(t, cfg.Rng)
	assert.NotEmpty(t, cfg.GameID)
}

func TestNewEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(ctx, GameConfig{Width: 9, Height: 9, Mines: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_NotInitialized(t *testing.T) {
	e, err := NewEngine(context.Background(), GameConfig{Width: 3, Height: 3, Mines: 1, Logger: testutil.NopLogger()})
	require.NoError(t, err)

	_, err = e.RevealCell(0, 0)
	assert.ErrorIs(t, err, core.ErrNotInitialized)
	_, err = e.ToggleFlag(0, 0)
	assert.ErrorIs(t, err, core.ErrNotInitialized)
	_, err = e.TickTimer()
	assert.ErrorIs(t, err, core.ErrNotInitialized)
	_, err = e.CellView(0, 0)
	assert.ErrorIs(t, err, core.ErrNotInitialized)

	t.Run("zero value", func(t *testing.T) {
		var zero Engine
		assert.ErrorIs(t, zero.InitRound(), core.ErrNotInitialized)
		_, err := zero.RevealCell(0, 0)
		assert.ErrorIs(t, err, core.ErrNotInitialized)
		_, err = zero.ToggleFlag(0, 0)
		assert.ErrorIs(t, err, core.ErrNotInitialized)
		_, err = zero.TickTimer()
		assert.ErrorIs(t, err, core.ErrNotInitialized)
		assert.Equal(t, RoundState{}, zero.State())
		assert.Nil(t, zero.Views())
		assert.Empty(t, zero.Render(RenderOptions{}))
		assert.Nil(t, zero.History())
	})
}

func TestEngine_OutOfBounds(t *testing.T) {
	e := newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)})

	for _, c := range []core.Coordinate{at(-1, 0), at(0, -1), at(3, 0), at(0, 3)} {
		_, err := e.RevealCell(c.Row, c.Col)
		assert.ErrorIs(t, err, core.ErrOutOfBounds, "reveal %v", c)
		_, err = e.ToggleFlag(c.Row, c.Col)
		assert.ErrorIs(t, err, core.ErrOutOfBounds, "flag %v", c)
		_, err = e.CellView(c.Row, c.Col)
		assert.ErrorIs(t, err, core.ErrOutOfBounds, "view %v", c)
	}

	assert.Equal(t, StatusNotStarted, e.State().Status)
	assert.False(t, e.State().MinesPlaced)
}

func TestEngine_ThreeByThreeScenario(t *testing.T) {
	e := newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)})

	res, err := e.RevealCell(0, 0)
	require.NoError(t, err)

	assert.Len(t, res.Changes, 8)
	assert.Equal(t, StatusInProgress, res.Status)
	for _, ch := range res.Changes {
		assert.False(t, ch.Row == 2 && ch.Col == 2, "mine must stay covered")
		assert.Equal(t, core.ViewRevealed, ch.View.Kind)
	}

	center, err := e.CellView(1, 1)
	require.NoError(t, err)
	assert.Equal(t, core.CellView{Kind: core.ViewRevealed, Score: 1}, center)

	corner, err := e.CellView(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, corner.Score)

	mine, err := e.CellView(2, 2)
	require.NoError(t, err)
	assert.Equal(t, core.ViewCovered, mine.Kind)

	st := e.State()
	assert.True(t, st.MinesPlaced)
	assert.Equal(t, 8, st.RevealedCells)
}

func TestEngine_ZeroMinesWinsOnFirstReveal(t *testing.T) {
	e := newTestEngine(t, 5, 5, nil)

	res, err := e.RevealCell(3, 1)
	require.NoError(t, err)

	assert.Len(t, res.Changes, 25)
	assert.Equal(t, StatusWon, res.Status)
	assert.Equal(t, StatusWon, e.State().Status)
}

func TestEngine_WinOnLastCorrectFlag(t *testing.T) {
	mines := []core.Coordinate{at(0, 4), at(4, 0), at(4, 4)}
	e := newTestEngine(t, 5, 5, mines)

	_, err := e.RevealCell(2, 2)
	require.NoError(t, err)

	for i, m := range mines {
		res, err := e.ToggleFlag(m.Row, m.Col)
		require.NoError(t, err)
		if i < len(mines)-1 {
			assert.Equal(t, StatusInProgress, res.Status, "won too early after flag %d", i)
		} else {
			assert.Equal(t, StatusWon, res.Status)
		}
	}

	st := e.State()
	assert.Equal(t, 3, st.CorrectFlags)
	assert.Equal(t, 3, st.PlacedFlags)
}

func TestEngine_WrongFlagDoesNotWin(t *testing.T) {
	// A wall of mines keeps the right half covered after the first reveal.
	mines := []core.Coordinate{at(0, 2), at(1, 2), at(2, 2), at(3, 2), at(4, 2)}
	e := newTestEngine(t, 5, 5, mines, func(c *GameConfig) { c.MaxFlags = 10 })

	_, err := e.RevealCell(2, 0)
	require.NoError(t, err)

	res, err := e.ToggleFlag(2, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, res.Status)

	for _, m := range mines {
		res, err = e.ToggleFlag(m.Row, m.Col)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusWon, res.Status, "all mines flagged wins regardless of wrong flags")

	st := e.State()
	assert.Equal(t, 5, st.CorrectFlags)
	assert.Equal(t, 6, st.PlacedFlags)
}

func TestEngine_DirectDetonation(t *testing.T) {
	mines := []core.Coordinate{at(0, 0), at(0, 4), at(4, 4)}
	e := newTestEngine(t, 5, 5, mines)

	_, err := e.RevealCell(2, 2)
	require.NoError(t, err)

	res, err := e.RevealCell(0, 4)
	require.NoError(t, err)

	assert.Equal(t, StatusLost, res.Status)
	require.Len(t, res.Changes, 3)
	assert.Equal(t, 0, res.Changes[0].Row)
	assert.Equal(t, 4, res.Changes[0].Col, "the triggering mine is reported first")
	for _, ch := range res.Changes {
		assert.Equal(t, core.ViewDetonated, ch.View.Kind)
	}
	for _, m := range mines {
		v, err := e.CellView(m.Row, m.Col)
		require.NoError(t, err)
		assert.Equal(t, core.ViewDetonated, v.Kind)
	}

	_, err = e.RevealCell(1, 1)
	assert.ErrorIs(t, err, core.ErrRoundOver)
	_, err = e.ToggleFlag(1, 1)
	assert.ErrorIs(t, err, core.ErrRoundOver)
}

func TestEngine_DetonationClearsFlagsOnMines(t *testing.T) {
	mines := []core.Coordinate{at(0, 0), at(4, 4)}
	e := newTestEngine(t, 5, 5, mines)

	_, err := e.RevealCell(2, 2)
	require.NoError(t, err)
	_, err = e.ToggleFlag(0, 0)
	require.NoError(t, err)

	res, err := e.RevealCell(4, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusLost, res.Status)
	assert.Equal(t, 0, res.PlacedFlags)
	assert.Equal(t, 0, flaggedCount(e))
	assert.Equal(t, 0, e.State().CorrectFlags)
}

func TestEngine_FirstClickSafety(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		rng := testutil.NewTestRNG(seed)
		row, col := rng.Intn(9), rng.Intn(9)

		e, err := NewEngine(context.Background(), GameConfig{
			Width: 9, Height: 9, Mines: 10,
			Seed:   seed,
			Logger: testutil.NopLogger(),
		})
		require.NoError(t, err)
		require.NoError(t, e.InitRound())

		res, err := e.RevealCell(row, col)
		require.NoError(t, err, "seed %d", seed)
		assert.NotEqual(t, StatusLost, res.Status, "seed %d", seed)

		e.mu.RLock()
		b := e.board
		assert.Equal(t, 10, b.MineCount(), "seed %d", seed)
		for r := row - 1; r <= row+1; r++ {
			for c := col - 1; c <= col+1; c++ {
				if b.InBounds(r, c) {
					assert.False(t, b.C[b.Idx(r, c)].Mine, "seed %d: mine at (%d,%d) next to first click", seed, r, c)
				}
			}
		}
		for i := range b.C {
			r, c := b.RowCol(i)
			assert.Equal(t, b.CountAdjacentMines(r, c), b.C[i].Adjacent, "seed %d cell %d", seed, i)
		}
		e.mu.RUnlock()
	}
}

func TestEngine_SeedIsDeterministic(t *testing.T) {
	layout := func() []core.Coordinate {
		e, err := NewEngine(context.Background(), GameConfig{Width: 16, Height: 16, Mines: 40, Seed: 99, Logger: testutil.NopLogger()})
		require.NoError(t, err)
		require.NoError(t, e.InitRound())
		_, err = e.RevealCell(8, 8)
		require.NoError(t, err)
		e.mu.RLock()
		defer e.mu.RUnlock()
		return testutil.MineCoordinates(e.board)
	}
	assert.Equal(t, layout(), layout())
}

func TestEngine_RevealIsIdempotent(t *testing.T) {
	e := newTestEngine(t, 5, 5, []core.Coordinate{at(0, 0), at(4, 4)})

	_, err := e.RevealCell(2, 2)
	require.NoError(t, err)
	before := e.State()
	viewsBefore := e.Views()

	res, err := e.RevealCell(2, 2)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Equal(t, before, e.State())
	assert.Equal(t, viewsBefore, e.Views())
}

func TestEngine_RevealFlaggedCellIsNoOp(t *testing.T) {
	e := newTestEngine(t, 5, 5, []core.Coordinate{at(0, 0), at(4, 4)})

	_, err := e.RevealCell(2, 2)
	require.NoError(t, err)
	_, err = e.ToggleFlag(4, 4)
	require.NoError(t, err)

	res, err := e.RevealCell(4, 4)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Equal(t, StatusInProgress, res.Status)
}

func TestEngine_FloodStopsAtScoredCells(t *testing.T) {
	// A wall of mines in column 2 splits the board; the flood from the left
	// must not cross it.
	mines := []core.Coordinate{at(0, 2), at(1, 2), at(2, 2), at(3, 2), at(4, 2)}
	e := newTestEngine(t, 5, 5, mines, func(c *GameConfig) { c.MaxFlags = 10 })

	res, err := e.RevealCell(2, 0)
	require.NoError(t, err)

	assert.Len(t, res.Changes, 10)
	for _, ch := range res.Changes {
		assert.Less(t, ch.Col, 2)
	}
	v, err := e.CellView(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Score)
	v, err = e.CellView(2, 3)
	require.NoError(t, err)
	assert.Equal(t, core.ViewCovered, v.Kind)
}

func TestEngine_FloodClearsFlags(t *testing.T) {
	e := newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)}, func(c *GameConfig) { c.MaxFlags = 2 })

	// Flags before the first reveal are allowed.
	_, err := e.ToggleFlag(0, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusNotStarted, e.State().Status)
	assert.Equal(t, 1, e.State().PlacedFlags)

	res, err := e.RevealCell(0, 0)
	require.NoError(t, err)

	assert.Len(t, res.Changes, 8)
	assert.Equal(t, 0, res.PlacedFlags)
	assert.Equal(t, 0, flaggedCount(e))
}

func TestEngine_FlagsBeforeFirstRevealAreRescored(t *testing.T) {
	e := newTestEngine(t, 5, 5, []core.Coordinate{at(0, 0), at(4, 4)}, func(c *GameConfig) { c.MaxFlags = 4 })

	_, err := e.ToggleFlag(0, 0)
	require.NoError(t, err)
	_, err = e.ToggleFlag(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, e.State().CorrectFlags)

	_, err = e.RevealCell(2, 2)
	require.NoError(t, err)

	st := e.State()
	assert.Equal(t, 1, st.CorrectFlags)
	assert.Equal(t, StatusInProgress, st.Status)

	res, err := e.ToggleFlag(4, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
}

func TestEngine_FlagToggleAndCap(t *testing.T) {
	// (0,0) is safe but walled in by mines, so it stays covered.
	mines := []core.Coordinate{at(0, 1), at(1, 0), at(1, 1)}
	e := newTestEngine(t, 5, 5, mines)

	_, err := e.RevealCell(4, 4)
	require.NoError(t, err)

	res, err := e.ToggleFlag(0, 0)
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, core.ViewFlagged, res.Changes[0].View.Kind)
	assert.Equal(t, 1, res.PlacedFlags)

	_, err = e.ToggleFlag(0, 1)
	require.NoError(t, err)
	_, err = e.ToggleFlag(1, 0)
	require.NoError(t, err)

	// MaxFlags defaults to Mines, so a fourth flag is refused.
	res, err = e.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Equal(t, 3, res.PlacedFlags)
	assert.Equal(t, StatusInProgress, res.Status)

	res, err = e.ToggleFlag(0, 0)
	require.NoError(t, err)
	assert.Equal(t, core.ViewCovered, res.Changes[0].View.Kind)
	assert.Equal(t, 2, res.PlacedFlags)

	// Revealed cells cannot be flagged.
	res, err = e.ToggleFlag(4, 4)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)

	res, err = e.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
}

func TestEngine_FlagCountInvariant(t *testing.T) {
	mines := []core.Coordinate{at(0, 0), at(0, 7), at(7, 0), at(7, 7), at(3, 3)}
	e := newTestEngine(t, 8, 8, mines, func(c *GameConfig) { c.MaxFlags = 10 })

	_, err := e.RevealCell(5, 5)
	require.NoError(t, err)

	rng := testutil.NewTestRNG(7)
	for i := 0; i < 300 && e.State().Status == StatusInProgress; i++ {
		res, err := e.ToggleFlag(rng.Intn(8), rng.Intn(8))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.PlacedFlags, 0)
		assert.LessOrEqual(t, res.PlacedFlags, 10)
		assert.Equal(t, flaggedCount(e), res.PlacedFlags)
	}
}

func TestEngine_LossOnFlagExhaustion(t *testing.T) {
	mines := []core.Coordinate{at(0, 1), at(1, 0), at(1, 1)}
	e := newTestEngine(t, 5, 5, mines, func(c *GameConfig) { c.LossOnFlagExhaustion = true })

	_, err := e.RevealCell(4, 4)
	require.NoError(t, err)

	for _, c := range []core.Coordinate{at(0, 1), at(1, 0)} {
		res, err := e.ToggleFlag(c.Row, c.Col)
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, res.Status)
	}

	res, err := e.ToggleFlag(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusLost, res.Status)

	detonated := 0
	for _, ch := range res.Changes {
		if ch.View.Kind == core.ViewDetonated {
			detonated++
		}
	}
	assert.Equal(t, 3, detonated)
	assert.Equal(t, res.PlacedFlags, flaggedCount(e))
}

func TestEngine_LossOnFlagExhaustionStillWinsOnCorrectLastFlag(t *testing.T) {
	mines := []core.Coordinate{at(0, 0), at(4, 4)}
	e := newTestEngine(t, 5, 5, mines, func(c *GameConfig) { c.LossOnFlagExhaustion = true })

	_, err := e.RevealCell(2, 2)
	require.NoError(t, err)
	_, err = e.ToggleFlag(0, 0)
	require.NoError(t, err)
	res, err := e.ToggleFlag(4, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
}

func TestEngine_LossOnFlagExhaustionBeforeFirstReveal(t *testing.T) {
	mines := []core.Coordinate{at(2, 0), at(2, 1), at(2, 2), at(2, 3), at(2, 4)}
	rec := &eventRecorder{}
	e := newTestEngine(t, 5, 5, mines, func(c *GameConfig) {
		c.LossOnFlagExhaustion = true
		c.MaxFlags = 5
		c.EventBus = rec
	})

	// the whole budget goes on row 4 while no layout exists yet
	for col := 0; col < 5; col++ {
		res, err := e.ToggleFlag(4, col)
		require.NoError(t, err)
		assert.Equal(t, StatusNotStarted, res.Status)
	}
	rec.reset()

	res, err := e.RevealCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusLost, res.Status)

	detonated := 0
	for _, ch := range res.Changes {
		if ch.View.Kind == core.ViewDetonated {
			detonated++
		}
	}
	assert.Equal(t, 5, detonated)
	assert.Len(t, res.Changes, 10+5, "rows 0 and 1 plus every mine")

	state := e.State()
	assert.Equal(t, 0, state.CorrectFlags)
	assert.Equal(t, 5, state.PlacedFlags)

	assert.Equal(t, []string{
		events.TypeStateTransition,
		events.TypeRoundStarted,
		events.TypeCellsRevealed,
		events.TypeStateTransition,
		events.TypeRoundLost,
	}, rec.types())

	rec.mu.Lock()
	revealed, ok := rec.events[2].(*events.CellsRevealedEvent)
	lost, lostOK := rec.events[4].(*events.RoundLostEvent)
	rec.mu.Unlock()
	require.True(t, ok)
	require.True(t, lostOK)
	assert.Len(t, revealed.Changes, len(res.Changes))
	assert.Equal(t, events.LossFlagExhaustion, lost.Reason)
}

func TestEngine_WinByReveal(t *testing.T) {
	e := newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)}, func(c *GameConfig) { c.WinRule = WinByReveal })

	res, err := e.RevealCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
	assert.Equal(t, 0, e.State().CorrectFlags)
}

func TestEngine_TickTimer(t *testing.T) {
	e := newTestEngine(t, 5, 5, []core.Coordinate{at(0, 0), at(4, 4)})

	res, err := e.TickTimer()
	require.NoError(t, err)
	assert.Equal(t, 0, res.ElapsedSeconds, "timer does not run before the first reveal")

	_, err = e.RevealCell(2, 2)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = e.TickTimer()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, e.State().ElapsedSeconds)

	_, err = e.RevealCell(0, 0)
	require.NoError(t, err)
	res, err = e.TickTimer()
	require.NoError(t, err)
	assert.Equal(t, 3, res.ElapsedSeconds, "timer stops once the round is over")
}

func TestEngine_InitRoundResets(t *testing.T) {
	mines := []core.Coordinate{at(0, 0), at(4, 4)}
	cfg := GameConfig{
		Width: 5, Height: 5, Mines: 2,
		Rng:    testutil.MinesAt(append(mines, mines...)...),
		Logger: testutil.NopLogger(),
	}
	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, e.InitRound())
	assert.Equal(t, 1, e.State().Round)

	_, err = e.RevealCell(2, 2)
	require.NoError(t, err)
	_, err = e.TickTimer()
	require.NoError(t, err)
	_, err = e.RevealCell(0, 0)
	require.NoError(t, err)
	require.Equal(t, StatusLost, e.State().Status)

	require.NoError(t, e.InitRound())
	st := e.State()
	assert.Equal(t, RoundState{Round: 2, Status: StatusNotStarted, Mines: 2, MaxFlags: 2}, st)
	for _, row := range e.Views() {
		for _, v := range row {
			assert.Equal(t, core.ViewCovered, v.Kind)
		}
	}

	require.NoError(t, e.InitRound(), "InitRound is idempotent")
	assert.Equal(t, StatusNotStarted, e.State().Status)

	_, err = e.RevealCell(2, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, e.State().Status)

	history := e.History()
	require.NotEmpty(t, history)
	assert.Equal(t, StatusInProgress, history[len(history)-1].To)
}

func TestEngine_EventsFollowCommands(t *testing.T) {
	rec := &eventRecorder{}
	e := newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)}, func(c *GameConfig) { c.EventBus = rec })

	assert.Equal(t, []string{events.TypeRoundReset}, rec.types())
	rec.reset()

	_, err := e.RevealCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		events.TypeStateTransition,
		events.TypeRoundStarted,
		events.TypeCellsRevealed,
	}, rec.types())

	rec.reset()
	_, err = e.ToggleFlag(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		events.TypeFlagToggled,
		events.TypeStateTransition,
		events.TypeRoundWon,
	}, rec.types())

	rec.mu.Lock()
	won, ok := rec.events[2].(*events.RoundWonEvent)
	rec.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, "test", won.GameID())
	assert.Equal(t, 1, won.Metadata.PlacedFlags)
}

func TestEngine_HandlersMayQueryEngine(t *testing.T) {
	bus := events.NewEventBus()
	var e *Engine
	var seen []Status
	bus.SubscribeFunc(events.TypeCellsRevealed, func(events.Event) {
		seen = append(seen, e.State().Status)
	})

	e = newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)}, func(c *GameConfig) { c.EventBus = bus })
	_, err := e.RevealCell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusInProgress}, seen)
}

func TestEngine_ConcurrentCommands(t *testing.T) {
	e, err := NewEngine(context.Background(), GameConfig{Width: 16, Height: 16, Mines: 40, Seed: 3, Logger: testutil.NopLogger()})
	require.NoError(t, err)
	require.NoError(t, e.InitRound())
	_, err = e.RevealCell(8, 8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := testutil.NewTestRNG(seed)
			for i := 0; i < 50; i++ {
				_, err := e.ToggleFlag(rng.Intn(16), rng.Intn(16))
				if err != nil && !errors.Is(err, core.ErrRoundOver) {
					t.Errorf("unexpected error: %v", err)
				}
				_ = e.State()
				_, _ = e.TickTimer()
			}
		}(int64(g))
	}
	wg.Wait()

	st := e.State()
	assert.Equal(t, flaggedCount(e), st.PlacedFlags)
	assert.LessOrEqual(t, st.PlacedFlags, st.MaxFlags)
}

func TestPresets(t *testing.T) {
	p, err := PresetByName("Expert")
	require.NoError(t, err)
	assert.Equal(t, Preset{Name: "expert", Width: 30, Height: 16, Mines: 99}, p)

	_, err = PresetByName("nightmare")
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)

	for _, p := range Presets {
		cfg := p.Apply(GameConfig{Logger: testutil.NopLogger()})
		_, err := NewEngine(context.Background(), cfg)
		assert.NoError(t, err, p.String())
		assert.NoError(t, (mapgen.MineConfig{Width: p.Width, Height: p.Height, Mines: p.Mines}).Validate())
	}
}

func TestEngine_Render(t *testing.T) {
	e := newTestEngine(t, 3, 3, []core.Coordinate{at(2, 2)})

	out := e.Render(RenderOptions{})
	assert.Contains(t, out, CoveredSymbol)
	assert.Contains(t, out, "NotStarted")

	_, err := e.RevealCell(0, 0)
	require.NoError(t, err)
	_, err = e.ToggleFlag(2, 2)
	require.NoError(t, err)

	out = e.Render(RenderOptions{})
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "    0 1 2", lines[0])
	assert.Equal(t, " 0  · · ·", lines[1])
	assert.Equal(t, " 2  · 1 "+FlagSymbol, lines[3])
	assert.Contains(t, out, "Won  flags 1/1")
	assert.NotContains(t, out, "\033[")

	colored := e.Render(RenderOptions{Color: true})
	assert.Contains(t, colored, ColorReset)
}
