// Package layout maps between screen pixels and board cells. The status bar
// sits above the board and holds the restart button in its centre.
package layout

import "image"

// Layout describes the window for one board shape
type Layout struct {
	Rows, Cols      int
	TileSize        int
	StatusBarHeight int
}

// New returns a layout, substituting defaults for non-positive sizes
func New(rows, cols, tileSize, statusBarHeight int) Layout {
	if tileSize <= 0 {
		tileSize = 24
	}
	if statusBarHeight <= 0 {
		statusBarHeight = 32
	}
	return Layout{Rows: rows, Cols: cols, TileSize: tileSize, StatusBarHeight: statusBarHeight}
}

// ScreenSize is the logical screen in pixels
func (l Layout) ScreenSize() (int, int) {
	return l.Cols * l.TileSize, l.StatusBarHeight + l.Rows*l.TileSize
}

// CellAt returns the cell under (x, y), or ok=false off the board
func (l Layout) CellAt(x, y int) (row, col int, ok bool) {
	y -= l.StatusBarHeight
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	row, col = y/l.TileSize, x/l.TileSize
	if row >= l.Rows || col >= l.Cols {
		return 0, 0, false
	}
	return row, col, true
}

// CellRect is the pixel rectangle of a cell
func (l Layout) CellRect(row, col int) image.Rectangle {
	x := col * l.TileSize
	y := l.StatusBarHeight + row*l.TileSize
	return image.Rect(x, y, x+l.TileSize, y+l.TileSize)
}

// StatusBar is the strip above the board
func (l Layout) StatusBar() image.Rectangle {
	w, _ := l.ScreenSize()
	return image.Rect(0, 0, w, l.StatusBarHeight)
}

// RestartButton is the square button centred in the status bar
func (l Layout) RestartButton() image.Rectangle {
	size := l.StatusBarHeight * 3 / 4
	w, _ := l.ScreenSize()
	x := (w - size) / 2
	y := (l.StatusBarHeight - size) / 2
	return image.Rect(x, y, x+size, y+size)
}

// InRestartButton reports whether (x, y) hits the restart button
func (l Layout) InRestartButton(x, y int) bool {
	return image.Pt(x, y).In(l.RestartButton())
}
