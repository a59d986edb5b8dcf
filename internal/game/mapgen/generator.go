package mapgen

import (
	"fmt"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// ExclusionRadius is the half-width of the mine-free square around the first
// revealed cell.
const ExclusionRadius = 1

// RandSource is the only randomness the generator consumes. *rand.Rand
// satisfies it; tests swap in scripted sources.
type RandSource interface {
	Intn(n int) int
}

// MineConfig holds configuration for mine generation
type MineConfig struct {
	Width  int
	Height int
	Mines  int
}

// Validate checks that the layout can always be generated.
func (c MineConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", core.ErrInvalidConfiguration, c.Width, c.Height)
	}
	if c.Mines < 0 || c.Mines >= c.Width*c.Height {
		return fmt.Errorf("%w: mine count %d must be in [0, %d)", core.ErrInvalidConfiguration, c.Mines, c.Width*c.Height)
	}
	return nil
}

// Generator places mines with a swappable RNG
type Generator struct {
	config MineConfig
	rng    RandSource
}

// NewGenerator creates a new mine generator
func NewGenerator(config MineConfig, rng RandSource) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// Placement describes the result of a generation run.
type Placement struct {
	Mines  []int // board indices, in placement order
	Radius int   // exclusion radius actually applied
	Draws  int   // coordinates drawn, including rejected ones
}

// GenerateMines lays out the configured number of mines on b, keeping the
// square around exclude clear, then computes adjacency scores.
func (g *Generator) GenerateMines(b *core.Board, exclude core.Coordinate) (Placement, error) {
	if err := g.config.Validate(); err != nil {
		return Placement{}, err
	}
	if b.W != g.config.Width || b.H != g.config.Height {
		return Placement{}, fmt.Errorf("%w: board is %dx%d, generator configured for %dx%d",
			core.ErrInvalidConfiguration, b.W, b.H, g.config.Width, g.config.Height)
	}
	if !b.InBounds(exclude.Row, exclude.Col) {
		return Placement{}, core.WrapCellError("generate", exclude.Row, exclude.Col, core.ErrOutOfBounds)
	}

	radius := ExclusionRadius
	if b.Area()-zoneSize(b, exclude, radius) < g.config.Mines {
		// Small dense boards cannot spare the full square; keep only the
		// clicked cell safe.
		radius = 0
	}

	p := Placement{Mines: make([]int, 0, g.config.Mines), Radius: radius}
	for len(p.Mines) < g.config.Mines {
		row, col := g.rng.Intn(b.H), g.rng.Intn(b.W)
		p.Draws++

		if core.NewCoordinate(row, col).Within(exclude, radius) {
			continue
		}
		idx := b.Idx(row, col)
		if b.C[idx].Mine {
			continue
		}
		b.C[idx].Mine = true
		p.Mines = append(p.Mines, idx)
	}

	ScoreBoard(b, p.Mines)
	b.MinesPlaced = true
	return p, nil
}

// PlaceMines plants mines at fixed indices and scores the board. It is used
// to rebuild recorded layouts.
func PlaceMines(b *core.Board, mines []int) error {
	for _, idx := range mines {
		if idx < 0 || idx >= len(b.C) {
			return fmt.Errorf("place mine at index %d: %w", idx, core.ErrOutOfBounds)
		}
		if b.C[idx].Mine {
			return fmt.Errorf("%w: duplicate mine at index %d", core.ErrInvalidConfiguration, idx)
		}
		b.C[idx].Mine = true
	}
	ScoreBoard(b, mines)
	b.MinesPlaced = true
	return nil
}

// ScoreBoard increments the adjacency score of every in-bounds neighbour of
// each mine. Scores are assumed to start at zero.
func ScoreBoard(b *core.Board, mines []int) {
	var buf [8]int
	for _, idx := range mines {
		row, col := b.RowCol(idx)
		for _, n := range b.NeighborIndices(buf[:0], row, col) {
			b.C[n].Adjacent++
		}
	}
}

func zoneSize(b *core.Board, center core.Coordinate, radius int) int {
	n := 0
	for r := center.Row - radius; r <= center.Row+radius; r++ {
		for c := center.Col - radius; c <= center.Col+radius; c++ {
			if b.InBounds(r, c) {
				n++
			}
		}
	}
	return n
}
