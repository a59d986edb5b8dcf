package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/rs/zerolog"
)

// ErrDiverged is returned when re-applying a record does not reproduce it.
var ErrDiverged = errors.New("replay diverged from record")

// LayoutSource is a mapgen.RandSource that yields a fixed mine layout,
// drawing the row and then the column of each mine in turn.
type LayoutSource struct {
	width  int
	values []int
	pos    int
}

// NewLayoutSource builds a source for the given mine indices on a board
// of the given width.
func NewLayoutSource(width int, mines []int) *LayoutSource {
	values := make([]int, 0, 2*len(mines))
	for _, idx := range mines {
		values = append(values, idx/width, idx%width)
	}
	return &LayoutSource{width: width, values: values}
}

// Intn returns the next scripted draw. Once the layout is exhausted it
// returns 0, which only happens if the generator retries a draw.
func (s *LayoutSource) Intn(n int) int {
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos]
	s.pos++
	if v >= n {
		return 0
	}
	return v
}

// Play rebuilds the engine for rec and re-applies every step, checking that
// each step changes as many cells as recorded and that the round ends the
// same way. The returned engine holds the final board.
func Play(ctx context.Context, rec *Record, logger zerolog.Logger) (*game.Engine, error) {
	winRule, err := game.ParseWinRule(rec.Rules.WinRule)
	if err != nil {
		return nil, err
	}

	engine, err := game.NewEngine(ctx, game.GameConfig{
		Width:                rec.Width,
		Height:               rec.Height,
		Mines:                rec.Mines,
		MaxFlags:             rec.Rules.MaxFlags,
		LossOnFlagExhaustion: rec.Rules.LossOnFlagExhaustion,
		WinRule:              winRule,
		Rng:                  NewLayoutSource(rec.Width, rec.MineIndices),
		Logger:               logger,
		GameID:               "replay-" + rec.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := engine.InitRound(); err != nil {
		return nil, err
	}

	for _, step := range rec.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var res game.Result
		switch step.Kind {
		case StepReveal:
			res, err = engine.RevealCell(step.Row, step.Col)
		case StepFlag:
			res, err = engine.ToggleFlag(step.Row, step.Col)
		default:
			return nil, fmt.Errorf("%w: step %d has unknown kind %q", ErrDiverged, step.Seq, step.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step.Seq, err)
		}
		// A losing flag under the exhaustion rule also reports the mines.
		if step.Kind == StepReveal && len(res.Changes) != step.Changed {
			return nil, fmt.Errorf("%w: step %d changed %d cells, recorded %d",
				ErrDiverged, step.Seq, len(res.Changes), step.Changed)
		}
	}

	if rec.Finished() {
		want := game.StatusWon
		if rec.Outcome == OutcomeLost {
			want = game.StatusLost
		}
		if got := engine.State().Status; got != want {
			return nil, fmt.Errorf("%w: round ended %s, recorded %s", ErrDiverged, got, rec.Outcome)
		}
	}

	return engine, nil
}
