package renderer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/layout"
)

var (
	HoverColor       = color.RGBA{255, 255, 255, 64} // Semi-transparent white
	PressedColor     = color.RGBA{0, 0, 0, 48}
	ButtonColor      = color.RGBA{200, 200, 200, 255}
	ButtonHoverColor = color.RGBA{230, 230, 120, 255}
)

// StatusView is what the status bar shows
type StatusView struct {
	Status         game.Status
	FlagsRemaining int
	ElapsedSeconds int
	Message        string
}

type EnhancedBoardRenderer struct {
	*BoardRenderer

	// Hover state
	hoverRow, hoverCol int
	hasHover           bool

	// Left button held on a covered cell
	pressedRow, pressedCol int
	pressing               bool

	overRestart bool
}

func NewEnhancedBoardRenderer(l layout.Layout, p Palette, f font.Face) *EnhancedBoardRenderer {
	return &EnhancedBoardRenderer{
		BoardRenderer: NewBoardRenderer(l, p, f),
	}
}

func (ebr *EnhancedBoardRenderer) SetHover(row, col int, ok bool) {
	ebr.hoverRow, ebr.hoverCol, ebr.hasHover = row, col, ok
}

func (ebr *EnhancedBoardRenderer) SetPressed(row, col int, ok bool) {
	ebr.pressedRow, ebr.pressedCol, ebr.pressing = row, col, ok
}

func (ebr *EnhancedBoardRenderer) SetOverRestart(over bool) {
	ebr.overRestart = over
}

// Draw renders the board, the overlays and the status bar
func (ebr *EnhancedBoardRenderer) Draw(screen *ebiten.Image, views [][]core.CellView, status StatusView) {
	screen.Fill(ebr.palette.Background)

	// First draw the base board
	ebr.BoardRenderer.Draw(screen, views)

	// Then draw overlays while the round accepts commands
	if !status.Status.IsTerminal() {
		ebr.drawOverlays(screen, views)
	}
	ebr.drawStatusBar(screen, status)
}

func (ebr *EnhancedBoardRenderer) drawOverlays(screen *ebiten.Image, views [][]core.CellView) {
	if ebr.pressing && covered(views, ebr.pressedRow, ebr.pressedCol) {
		ebr.drawTileOverlay(screen, ebr.pressedRow, ebr.pressedCol, PressedColor)
		return
	}
	if ebr.hasHover && covered(views, ebr.hoverRow, ebr.hoverCol) {
		ebr.drawTileOverlay(screen, ebr.hoverRow, ebr.hoverCol, HoverColor)
	}
}

func (ebr *EnhancedBoardRenderer) drawTileOverlay(screen *ebiten.Image, row, col int, c color.Color) {
	r := ebr.layout.CellRect(row, col)
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}

func (ebr *EnhancedBoardRenderer) drawStatusBar(screen *ebiten.Image, s StatusView) {
	bar := ebr.layout.StatusBar()
	vector.DrawFilledRect(screen, 0, 0, float32(bar.Dx()), float32(bar.Dy()), ebr.palette.Background, false)

	btn := ebr.layout.RestartButton()
	fill := ButtonColor
	if ebr.overRestart {
		fill = ButtonHoverColor
	}
	vector.DrawFilledRect(screen, float32(btn.Min.X), float32(btn.Min.Y), float32(btn.Dx()), float32(btn.Dy()), fill, false)
	vector.StrokeRect(screen, float32(btn.Min.X), float32(btn.Min.Y), float32(btn.Dx()), float32(btn.Dy()), 1, ebr.palette.GridLines, false)
	ebr.drawCentered(screen, btn, Face(s.Status, ebr.pressing), MineColor)

	if ebr.defaultFont == nil {
		return
	}
	baseline := (bar.Dy() + ebr.defaultFont.Metrics().Ascent.Ceil()) / 2
	text.Draw(screen, FormatCounter(s.FlagsRemaining), ebr.defaultFont, 6, baseline, ebr.palette.StatusText)

	timer := FormatCounter(s.ElapsedSeconds)
	tw := text.BoundString(ebr.defaultFont, timer).Dx()
	text.Draw(screen, timer, ebr.defaultFont, bar.Dx()-tw-6, baseline, ebr.palette.StatusText)

	if s.Message != "" {
		text.Draw(screen, s.Message, ebr.defaultFont, 6+tw+8, baseline, ebr.palette.StatusText)
	}
}

func covered(views [][]core.CellView, row, col int) bool {
	if row < 0 || row >= len(views) || col < 0 || col >= len(views[row]) {
		return false
	}
	return views[row][col].Kind == core.ViewCovered
}

// FormatCounter renders a three digit counter clamped to -99..999
func FormatCounter(n int) string {
	switch {
	case n > 999:
		n = 999
	case n < -99:
		n = -99
	}
	return fmt.Sprintf("%03d", n)
}

// Face is the restart button label for the round status
func Face(status game.Status, pressing bool) string {
	switch status {
	case game.StatusWon:
		return "B)"
	case game.StatusLost:
		return "X("
	}
	if pressing {
		return ":O"
	}
	return ":)"
}
