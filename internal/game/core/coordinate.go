package core

import (
	"fmt"

	"github.com/mitchelldurbincs/minesweeper/internal/common"
)

// Coordinate represents a position on the minefield
type Coordinate struct {
	Row, Col int
}

// NewCoordinate creates a new coordinate with the given row and column
func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		Row: idx / width,
		Col: idx % width,
	}
}

// ChebyshevDistance is the king-move distance, so neighbours are at distance 1.
func (c Coordinate) ChebyshevDistance(other Coordinate) int {
	return max(common.Abs(c.Row-other.Row), common.Abs(c.Col-other.Col))
}

// Within reports whether c lies inside the square of the given radius around
// center, edges included.
func (c Coordinate) Within(center Coordinate, radius int) bool {
	return c.ChebyshevDistance(center) <= radius
}

// MooreOffsets lists the eight neighbour offsets, clockwise from north-west.
var MooreOffsets = [8]Coordinate{
	{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
	{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 1, Col: 0},
	{Row: 1, Col: -1}, {Row: 0, Col: -1},
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
