package core

// Cell is a single position on the minefield.
// Adjacent is the number of mined cells in the Moore neighbourhood and is
// only meaningful once mines have been placed.
type Cell struct {
	Mine     bool
	Adjacent int
	Revealed bool
	Flagged  bool
}

// Board is a W x H grid of cells stored row-major.
type Board struct {
	W, H        int
	C           []Cell // length = W*H
	MinesPlaced bool
}

func NewBoard(w, h int) *Board {
	return &Board{W: w, H: h, C: make([]Cell, w*h)}
}

func (b *Board) Idx(row, col int) int       { return row*b.W + col }
func (b *Board) RowCol(idx int) (int, int) { return idx / b.W, idx % b.W }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.H && col >= 0 && col < b.W
}

// GetCell safely returns a cell pointer if coordinates are valid, nil otherwise
func (b *Board) GetCell(row, col int) *Cell {
	if !b.InBounds(row, col) {
		return nil
	}
	return &b.C[b.Idx(row, col)]
}

// Area is the number of cells on the board.
func (b *Board) Area() int { return b.W * b.H }

// Reset returns every cell to its initial state and forgets the mine layout.
func (b *Board) Reset() {
	for i := range b.C {
		b.C[i] = Cell{}
	}
	b.MinesPlaced = false
}

// NeighborIndices appends the in-bounds Moore neighbours of (row, col) to dst.
func (b *Board) NeighborIndices(dst []int, row, col int) []int {
	for _, off := range MooreOffsets {
		r, c := row+off.Row, col+off.Col
		if b.InBounds(r, c) {
			dst = append(dst, b.Idx(r, c))
		}
	}
	return dst
}

// CountAdjacentMines recomputes the adjacency score of a cell from the layout.
func (b *Board) CountAdjacentMines(row, col int) int {
	n := 0
	for _, off := range MooreOffsets {
		if c := b.GetCell(row+off.Row, col+off.Col); c != nil && c.Mine {
			n++
		}
	}
	return n
}

// MineCount counts mined cells.
func (b *Board) MineCount() int {
	n := 0
	for i := range b.C {
		if b.C[i].Mine {
			n++
		}
	}
	return n
}

// FlagCount counts flagged cells.
func (b *Board) FlagCount() int {
	n := 0
	for i := range b.C {
		if b.C[i].Flagged {
			n++
		}
	}
	return n
}

// View projects a cell into what a player is allowed to see.
func (b *Board) View(idx int) CellView {
	c := &b.C[idx]
	switch {
	case c.Revealed && c.Mine:
		return CellView{Kind: ViewDetonated}
	case c.Revealed:
		return CellView{Kind: ViewRevealed, Score: c.Adjacent}
	case c.Flagged:
		return CellView{Kind: ViewFlagged}
	default:
		return CellView{Kind: ViewCovered}
	}
}
