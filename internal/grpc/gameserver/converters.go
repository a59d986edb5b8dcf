package gameserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

var (
	// ErrGameNotFound is returned for unknown or deleted game ids
	ErrGameNotFound = errors.New("game not found")
	// ErrAtCapacity is returned when the server holds MaxGames sessions
	ErrAtCapacity = errors.New("server at capacity")
)

// convertStatus converts the internal round phase to the wire status
func convertStatus(phase states.RoundPhase) sweeperv1.RoundStatus {
	switch phase {
	case states.PhaseNotStarted:
		return sweeperv1.RoundStatus_ROUND_STATUS_NOT_STARTED
	case states.PhaseInProgress:
		return sweeperv1.RoundStatus_ROUND_STATUS_IN_PROGRESS
	case states.PhaseWon:
		return sweeperv1.RoundStatus_ROUND_STATUS_WON
	case states.PhaseLost:
		return sweeperv1.RoundStatus_ROUND_STATUS_LOST
	default:
		return sweeperv1.RoundStatus_ROUND_STATUS_UNSPECIFIED
	}
}

func convertViewKind(k core.ViewKind) sweeperv1.CellState {
	switch k {
	case core.ViewCovered:
		return sweeperv1.CellState_CELL_STATE_COVERED
	case core.ViewFlagged:
		return sweeperv1.CellState_CELL_STATE_FLAGGED
	case core.ViewRevealed:
		return sweeperv1.CellState_CELL_STATE_REVEALED
	case core.ViewDetonated:
		return sweeperv1.CellState_CELL_STATE_DETONATED
	default:
		return sweeperv1.CellState_CELL_STATE_UNSPECIFIED
	}
}

func convertCell(row, col int, v core.CellView) *sweeperv1.Cell {
	return &sweeperv1.Cell{
		Row:   int32(row),
		Col:   int32(col),
		State: convertViewKind(v.Kind),
		Score: int32(v.Score),
	}
}

func convertChanges(changes []core.CellChange) []*sweeperv1.Cell {
	if len(changes) == 0 {
		return nil
	}
	out := make([]*sweeperv1.Cell, len(changes))
	for i, ch := range changes {
		out[i] = convertCell(ch.Row, ch.Col, ch.View)
	}
	return out
}

func convertResult(res game.Result) *sweeperv1.MoveResponse {
	return &sweeperv1.MoveResponse{
		Changes:        convertChanges(res.Changes),
		Status:         convertStatus(res.Status),
		PlacedFlags:    int32(res.PlacedFlags),
		ElapsedSeconds: int32(res.ElapsedSeconds),
	}
}

// convertGameState snapshots the engine into a wire GameState
func convertGameState(gameID string, engine *game.Engine) *sweeperv1.GameState {
	cfg := engine.Config()
	st := engine.State()
	views := engine.Views()

	cells := make([]*sweeperv1.Cell, 0, cfg.Width*cfg.Height)
	for r, row := range views {
		for c, v := range row {
			cells = append(cells, convertCell(r, c, v))
		}
	}

	return &sweeperv1.GameState{
		GameId:         gameID,
		Round:          int32(st.Round),
		Status:         convertStatus(st.Status),
		Width:          int32(cfg.Width),
		Height:         int32(cfg.Height),
		Mines:          int32(cfg.Mines),
		MaxFlags:       int32(cfg.MaxFlags),
		PlacedFlags:    int32(st.PlacedFlags),
		ElapsedSeconds: int32(st.ElapsedSeconds),
		Cells:          cells,
	}
}

// convertBoardConfig reports the resolved engine configuration
func convertBoardConfig(difficulty string, cfg game.GameConfig) *sweeperv1.BoardConfig {
	return &sweeperv1.BoardConfig{
		Difficulty:           difficulty,
		Width:                int32(cfg.Width),
		Height:               int32(cfg.Height),
		Mines:                int32(cfg.Mines),
		MaxFlags:             int32(cfg.MaxFlags),
		LossOnFlagExhaustion: cfg.LossOnFlagExhaustion,
		WinRule:              string(cfg.WinRule),
		Seed:                 cfg.Seed,
	}
}

// toStatusError maps engine and manager errors onto gRPC codes
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, core.ErrOutOfBounds), errors.Is(err, core.ErrInvalidConfiguration):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, core.ErrNotInitialized), errors.Is(err, core.ErrRoundOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrGameNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrAtCapacity):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
