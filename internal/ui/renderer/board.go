package renderer

import (
	"image"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/minesweeper/internal/common"
	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/layout"
)

// -----------------------------------------------------------------------------
// Colour definitions
// -----------------------------------------------------------------------------

// Palette holds every colour the board is drawn with
type Palette struct {
	Scores     [8]color.RGBA
	Covered    color.RGBA
	Revealed   color.RGBA
	Detonated  color.RGBA
	Flag       color.RGBA
	Background color.RGBA
	GridLines  color.RGBA
	StatusText color.RGBA
}

var (
	MineColor      = color.RGBA{20, 20, 20, 255}
	FlagPoleColor  = color.RGBA{30, 30, 30, 255}
	BevelLight     = color.RGBA{255, 255, 255, 90}
	BevelShadow    = color.RGBA{0, 0, 0, 90}
	defaultScoreFG = color.RGBA{0, 0, 0, 255}
)

// NewPalette converts the configured RGB triples. Missing score colours
// fall back to the classic ones.
func NewPalette(c config.ColorsConfig) Palette {
	p := Palette{
		Covered:    common.RGBToColor(c.Cells.Covered),
		Revealed:   common.RGBToColor(c.Cells.Revealed),
		Detonated:  common.RGBToColor(c.Cells.Detonated),
		Flag:       common.RGBToColor(c.Cells.Flag),
		Background: common.RGBToColor(c.UI.Background),
		GridLines:  common.RGBToColor(c.UI.GridLines),
		StatusText: common.RGBToColor(c.UI.StatusText),
	}
	for i := range p.Scores {
		if i < len(c.Scores) {
			p.Scores[i] = common.RGBToColor(c.Scores[i])
			continue
		}
		p.Scores[i] = toRGBA(common.GetScoreColor(i + 1))
	}
	return p
}

// ScoreColor is the digit colour for a score of 1 to 8
func (p Palette) ScoreColor(score int) color.RGBA {
	if score < 1 || score > len(p.Scores) {
		return defaultScoreFG
	}
	return p.Scores[score-1]
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

type BoardRenderer struct {
	layout      layout.Layout
	palette     Palette
	defaultFont font.Face
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(l layout.Layout, p Palette, f font.Face) *BoardRenderer {
	return &BoardRenderer{layout: l, palette: p, defaultFont: f}
}

// SetLayout is called when the board shape changes
func (br *BoardRenderer) SetLayout(l layout.Layout) {
	br.layout = l
}

// Draw renders the cell views row by row below the status bar.
func (br *BoardRenderer) Draw(screen *ebiten.Image, views [][]core.CellView) {
	for row, line := range views {
		for col, v := range line {
			br.drawCell(screen, br.layout.CellRect(row, col), v)
		}
	}
	br.drawGrid(screen, len(views))
}

func (br *BoardRenderer) drawCell(screen *ebiten.Image, r image.Rectangle, v core.CellView) {
	x, y := float32(r.Min.X), float32(r.Min.Y)
	size := float32(r.Dx())

	switch v.Kind {
	case core.ViewRevealed:
		vector.DrawFilledRect(screen, x, y, size, size, br.palette.Revealed, false)
		if v.Score > 0 {
			br.drawCentered(screen, r, strconv.Itoa(v.Score), br.palette.ScoreColor(v.Score))
		}

	case core.ViewDetonated:
		vector.DrawFilledRect(screen, x, y, size, size, br.palette.Detonated, false)
		vector.DrawFilledCircle(screen, x+size/2, y+size/2, size/4, MineColor, true)

	case core.ViewFlagged:
		br.drawCovered(screen, x, y, size)
		// pole and pennant
		vector.DrawFilledRect(screen, x+size*0.55, y+size*0.2, size*0.08, size*0.6, FlagPoleColor, false)
		vector.DrawFilledRect(screen, x+size*0.25, y+size*0.2, size*0.32, size*0.25, br.palette.Flag, false)

	default:
		br.drawCovered(screen, x, y, size)
	}
}

func (br *BoardRenderer) drawCovered(screen *ebiten.Image, x, y, size float32) {
	bevel := size / 10
	vector.DrawFilledRect(screen, x, y, size, size, br.palette.Covered, false)
	vector.DrawFilledRect(screen, x, y, size, bevel, BevelLight, false)
	vector.DrawFilledRect(screen, x, y, bevel, size, BevelLight, false)
	vector.DrawFilledRect(screen, x, y+size-bevel, size, bevel, BevelShadow, false)
	vector.DrawFilledRect(screen, x+size-bevel, y, bevel, size, BevelShadow, false)
}

func (br *BoardRenderer) drawGrid(screen *ebiten.Image, rows int) {
	if rows == 0 {
		return
	}
	top := float32(br.layout.StatusBarHeight)
	w, h := br.layout.ScreenSize()
	tile := float32(br.layout.TileSize)
	for c := 0; c <= br.layout.Cols; c++ {
		vector.StrokeLine(screen, float32(c)*tile, top, float32(c)*tile, float32(h), 1, br.palette.GridLines, false)
	}
	for r := 0; r <= rows; r++ {
		y := top + float32(r)*tile
		vector.StrokeLine(screen, 0, y, float32(w), y, 1, br.palette.GridLines, false)
	}
}

func (br *BoardRenderer) drawCentered(screen *ebiten.Image, r image.Rectangle, s string, c color.Color) {
	if br.defaultFont == nil {
		return
	}
	// text bounds in pixels
	b := text.BoundString(br.defaultFont, s)
	textW := b.Max.X - b.Min.X
	textH := b.Max.Y - b.Min.Y

	x := r.Min.X + (r.Dx()-textW)/2
	y := r.Min.Y + (r.Dy()+textH)/2
	text.Draw(screen, s, br.defaultFont, x, y, c)
}
