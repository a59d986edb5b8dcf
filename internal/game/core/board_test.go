package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"beginner board", 9, 9},
		{"expert board", 30, 16},
		{"single row", 10, 1},
		{"minimum board", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(tt.width, tt.height)

			assert.Equal(t, tt.width, board.W)
			assert.Equal(t, tt.height, board.H)
			assert.Len(t, board.C, tt.width*tt.height)
			assert.False(t, board.MinesPlaced)

			for i, cell := range board.C {
				assert.Equal(t, Cell{}, cell, "cell %d should start cleared", i)
			}
		})
	}
}

func TestBoard_IdxAndRowCol(t *testing.T) {
	board := NewBoard(4, 3)

	tests := []struct {
		row, col int
		expected int
	}{
		{0, 0, 0},
		{0, 3, 3},
		{1, 0, 4},
		{2, 1, 9},
		{2, 3, 11},
	}

	for _, tt := range tests {
		idx := board.Idx(tt.row, tt.col)
		assert.Equal(t, tt.expected, idx, "Idx(%d,%d)", tt.row, tt.col)
		r, c := board.RowCol(idx)
		assert.Equal(t, tt.row, r)
		assert.Equal(t, tt.col, c)
	}
}

func TestBoard_InBounds(t *testing.T) {
	board := NewBoard(5, 3)

	assert.True(t, board.InBounds(0, 0))
	assert.True(t, board.InBounds(2, 4))
	assert.False(t, board.InBounds(3, 0), "row == height is out of bounds")
	assert.False(t, board.InBounds(0, 5), "col == width is out of bounds")
	assert.False(t, board.InBounds(-1, 0))
	assert.False(t, board.InBounds(0, -1))

	assert.Nil(t, board.GetCell(-1, 2))
	require.NotNil(t, board.GetCell(1, 1))
}

func TestBoard_NeighborIndices(t *testing.T) {
	board := NewBoard(3, 3)

	t.Run("corner has three neighbours", func(t *testing.T) {
		got := board.NeighborIndices(nil, 0, 0)
		assert.ElementsMatch(t, []int{1, 3, 4}, got)
	})

	t.Run("edge has five neighbours", func(t *testing.T) {
		got := board.NeighborIndices(nil, 0, 1)
		assert.ElementsMatch(t, []int{0, 2, 3, 4, 5}, got)
	})

	t.Run("centre has eight neighbours", func(t *testing.T) {
		got := board.NeighborIndices(nil, 1, 1)
		assert.ElementsMatch(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, got)
	})

	t.Run("single cell board has none", func(t *testing.T) {
		tiny := NewBoard(1, 1)
		assert.Empty(t, tiny.NeighborIndices(nil, 0, 0))
	})
}

func TestBoard_CountAdjacentMines(t *testing.T) {
	board := NewBoard(3, 3)
	board.C[board.Idx(2, 2)].Mine = true
	board.C[board.Idx(0, 2)].Mine = true

	assert.Equal(t, 2, board.CountAdjacentMines(1, 1))
	assert.Equal(t, 1, board.CountAdjacentMines(0, 1))
	assert.Equal(t, 0, board.CountAdjacentMines(2, 0))
	assert.Equal(t, 2, board.CountAdjacentMines(1, 2))
	assert.Equal(t, 2, board.MineCount())
}

func TestBoard_Reset(t *testing.T) {
	board := NewBoard(2, 2)
	board.C[0] = Cell{Mine: true, Revealed: true}
	board.C[1] = Cell{Adjacent: 1, Flagged: true}
	board.MinesPlaced = true

	board.Reset()

	assert.False(t, board.MinesPlaced)
	for _, c := range board.C {
		assert.Equal(t, Cell{}, c)
	}
	assert.Equal(t, 0, board.FlagCount())
}

func TestBoard_View(t *testing.T) {
	board := NewBoard(4, 1)
	board.C[0] = Cell{}
	board.C[1] = Cell{Flagged: true}
	board.C[2] = Cell{Revealed: true, Adjacent: 3}
	board.C[3] = Cell{Revealed: true, Mine: true}

	assert.Equal(t, CellView{Kind: ViewCovered}, board.View(0))
	assert.Equal(t, CellView{Kind: ViewFlagged}, board.View(1))
	assert.Equal(t, CellView{Kind: ViewRevealed, Score: 3}, board.View(2))
	assert.Equal(t, CellView{Kind: ViewDetonated}, board.View(3))
	assert.Equal(t, "Revealed(3)", board.View(2).String())
}
