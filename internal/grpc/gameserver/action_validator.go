package gameserver

import (
	"fmt"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

// maxIdempotencyKeyLen bounds client supplied keys
const maxIdempotencyKeyLen = 128

// MoveValidator checks requests before they reach a session. Board bounds
// are left to the engine, which knows the board shape.
type MoveValidator struct {
	gameManager *GameManager
}

// NewMoveValidator creates a new validator instance
func NewMoveValidator(gm *GameManager) *MoveValidator {
	return &MoveValidator{gameManager: gm}
}

// ValidateMove resolves the session a reveal or flag request targets
func (v *MoveValidator) ValidateMove(gameID string, row, col int32, key string) (*gameSession, error) {
	if gameID == "" {
		return nil, fmt.Errorf("%w: game_id is required", core.ErrInvalidConfiguration)
	}
	if len(key) > maxIdempotencyKeyLen {
		return nil, fmt.Errorf("%w: idempotency_key longer than %d bytes", core.ErrInvalidConfiguration, maxIdempotencyKeyLen)
	}
	if row < 0 || col < 0 {
		return nil, core.WrapCellError("validate", int(row), int(col), core.ErrOutOfBounds)
	}
	return v.gameManager.GetGame(gameID)
}

// ValidateGameID resolves the session a request targets
func (v *MoveValidator) ValidateGameID(gameID string) (*gameSession, error) {
	if gameID == "" {
		return nil, fmt.Errorf("%w: game_id is required", core.ErrInvalidConfiguration)
	}
	return v.gameManager.GetGame(gameID)
}

// ValidateBoardConfig rejects negative sizes before any engine is built
func (v *MoveValidator) ValidateBoardConfig(cfg *sweeperv1.BoardConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.Width < 0 || cfg.Height < 0 || cfg.Mines < 0 || cfg.MaxFlags < 0 {
		return fmt.Errorf("%w: negative board dimension, mine count or flag budget", core.ErrInvalidConfiguration)
	}
	return nil
}
