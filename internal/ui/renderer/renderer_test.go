package renderer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

func TestNewPalette(t *testing.T) {
	p := NewPalette(config.ColorsConfig{
		Scores: [][3]int{{0, 0, 255}, {0, 128, 0}},
		Cells: config.CellColorsConfig{
			Covered:   [3]int{160, 160, 160},
			Detonated: [3]int{300, -4, 0},
		},
		UI: config.UIColorsConfig{StatusText: [3]int{255, 255, 255}},
	})

	assert.Equal(t, color.RGBA{160, 160, 160, 255}, p.Covered)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, p.Detonated, "components are clamped")
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, p.ScoreColor(1))
	assert.Equal(t, color.RGBA{0, 128, 0, 255}, p.ScoreColor(2))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, p.ScoreColor(3), "missing scores fall back")
	assert.Equal(t, defaultScoreFG, p.ScoreColor(0))
	assert.Equal(t, defaultScoreFG, p.ScoreColor(9))
}

func TestFormatCounter(t *testing.T) {
	assert.Equal(t, "000", FormatCounter(0))
	assert.Equal(t, "042", FormatCounter(42))
	assert.Equal(t, "999", FormatCounter(1500))
	assert.Equal(t, "-05", FormatCounter(-5))
	assert.Equal(t, "-99", FormatCounter(-300))
}

func TestFace(t *testing.T) {
	assert.Equal(t, ":)", Face(game.StatusNotStarted, false))
	assert.Equal(t, ":O", Face(game.StatusInProgress, true))
	assert.Equal(t, "B)", Face(game.StatusWon, true))
	assert.Equal(t, "X(", Face(game.StatusLost, false))
}

func TestCovered(t *testing.T) {
	views := [][]core.CellView{
		{{Kind: core.ViewCovered}, {Kind: core.ViewRevealed, Score: 2}},
	}
	assert.True(t, covered(views, 0, 0))
	assert.False(t, covered(views, 0, 1))
	assert.False(t, covered(views, 1, 0))
	assert.False(t, covered(views, 0, -1))
}
