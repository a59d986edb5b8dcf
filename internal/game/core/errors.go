package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrOutOfBounds          = errors.New("coordinate out of bounds")
	ErrNotInitialized       = errors.New("round not initialized")
	ErrRoundOver            = errors.New("round is over")
)

// WrapCellError annotates err with the command and the cell it targeted.
// The sentinel stays reachable through errors.Is.
func WrapCellError(op string, row, col int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s (%d,%d): %w", op, row, col, err)
}
