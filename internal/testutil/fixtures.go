package testutil

import (
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// BoardFromRows builds a scored board from a picture where '*' marks a mine
// and any other byte is a safe cell. All rows must have the same length.
//
//	BoardFromRows(
//		"...",
//		"...",
//		"..*",
//	)
func BoardFromRows(rows ...string) *core.Board {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	b := core.NewBoard(w, h)
	for r, line := range rows {
		for c := 0; c < w && c < len(line); c++ {
			if line[c] == '*' {
				b.C[b.Idx(r, c)].Mine = true
			}
		}
	}
	for i := range b.C {
		r, c := b.RowCol(i)
		b.C[i].Adjacent = b.CountAdjacentMines(r, c)
	}
	b.MinesPlaced = true
	return b
}

// MineCoordinates lists mined cells of b in row-major order.
func MineCoordinates(b *core.Board) []core.Coordinate {
	var out []core.Coordinate
	for i, c := range b.C {
		if c.Mine {
			out = append(out, core.FromIndex(i, b.W))
		}
	}
	return out
}
