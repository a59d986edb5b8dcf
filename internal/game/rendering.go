package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"

	BgRed = "\033[41m"
)

const (
	CoveredSymbol   = "■"
	FlagSymbol      = "P"
	MineSymbol      = "*"
	DetonatedSymbol = "X"
	EmptySymbol     = "·"
)

// scoreColors follows the classic palette: 1 blue, 2 green, 3 red and so on.
var scoreColors = [9]string{
	ColorGray, ColorBlue, ColorGreen, ColorRed, ColorPurple,
	ColorYellow, ColorCyan, ColorWhite, ColorGray,
}

// RenderOptions controls Render output.
type RenderOptions struct {
	// Color wraps symbols in ANSI escape codes
	Color bool
	// ShowMines marks unrevealed mines, for debugging
	ShowMines bool
}

// Render draws the board as text with a column header, one line per row and
// a status line.
func (e *Engine) Render(opts RenderOptions) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.board == nil {
		return ""
	}

	width := e.board.W
	height := e.board.H

	var sb strings.Builder
	sb.Grow((width*12+4)*(height+2) + 64)

	sb.WriteString("   ")
	for c := 0; c < width; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteString("\n")

	for r := 0; r < height; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < width; c++ {
			idx := e.board.Idx(r, c)
			color, symbol := e.cellSymbol(idx, opts.ShowMines)
			sb.WriteString(" ")
			if opts.Color && color != "" {
				sb.WriteString(color)
				sb.WriteString(symbol)
				sb.WriteString(ColorReset)
			} else {
				sb.WriteString(symbol)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n%s  flags %d/%d  time %ds\n",
		e.sm.CurrentPhase(), e.placedFlags, e.cfg.MaxFlags, e.elapsed)
	return sb.String()
}

func (e *Engine) cellSymbol(idx int, showMines bool) (string, string) {
	view := e.board.View(idx)
	switch view.Kind {
	case core.ViewDetonated:
		return BgRed, DetonatedSymbol
	case core.ViewFlagged:
		return ColorRed, FlagSymbol
	case core.ViewRevealed:
		if view.Score == 0 {
			return ColorGray, EmptySymbol
		}
		return scoreColors[view.Score], strconv.Itoa(view.Score)
	}
	if showMines && e.board.C[idx].Mine {
		return ColorYellow, MineSymbol
	}
	return "", CoveredSymbol
}
