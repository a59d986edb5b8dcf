package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/minesweeper/internal/ui/layout"
)

// ActionKind is what the player asked for this frame
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionReveal
	ActionFlag
	ActionRestart
	ActionDifficulty
)

// Action is one player command
type Action struct {
	Kind       ActionKind
	Row, Col   int
	Difficulty string
}

// Button identifies a mouse button press
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

// difficultyKeys are the number row shortcuts for the presets
var difficultyKeys = map[ebiten.Key]string{
	ebiten.Key1: "beginner",
	ebiten.Key2: "intermediate",
	ebiten.Key3: "expert",
}

type Handler struct {
	layout layout.Layout

	mouseX, mouseY int
	pressedRow     int
	pressedCol     int
	pressing       bool
}

func NewHandler(l layout.Layout) *Handler {
	return &Handler{layout: l}
}

// SetLayout is called when the board shape changes
func (h *Handler) SetLayout(l layout.Layout) {
	h.layout = l
	h.pressing = false
}

// Update polls ebiten and returns the actions of this frame
func (h *Handler) Update() []Action {
	h.mouseX, h.mouseY = GetCursorPosition()
	h.pressing = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if h.pressing {
		h.pressedRow, h.pressedCol, h.pressing = h.layout.CellAt(h.mouseX, h.mouseY)
	}

	var actions []Action
	switch {
	case IsLeftClickJustReleased():
		actions = appendAction(actions, h.Click(h.mouseX, h.mouseY, ButtonLeft))
	case IsRightClickJustPressed():
		actions = appendAction(actions, h.Click(h.mouseX, h.mouseY, ButtonRight))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		actions = append(actions, Action{Kind: ActionRestart})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		actions = appendAction(actions, h.Click(h.mouseX, h.mouseY, ButtonRight))
	}
	for key, name := range difficultyKeys {
		if inpututil.IsKeyJustPressed(key) {
			actions = append(actions, Action{Kind: ActionDifficulty, Difficulty: name})
		}
	}
	return actions
}

// Click maps a mouse button at (x, y) to an action. Left reveals and right
// flags; either one on the restart button restarts.
func (h *Handler) Click(x, y int, button Button) Action {
	if button == ButtonNone {
		return Action{}
	}
	if h.layout.InRestartButton(x, y) {
		return Action{Kind: ActionRestart}
	}
	row, col, ok := h.layout.CellAt(x, y)
	if !ok {
		return Action{}
	}
	kind := ActionReveal
	if button == ButtonRight {
		kind = ActionFlag
	}
	return Action{Kind: kind, Row: row, Col: col}
}

// Hovered returns the cell under the cursor
func (h *Handler) Hovered() (int, int, bool) {
	return h.layout.CellAt(h.mouseX, h.mouseY)
}

// Pressed returns the cell held down by the left button
func (h *Handler) Pressed() (int, int, bool) {
	return h.pressedRow, h.pressedCol, h.pressing
}

// OverRestart reports whether the cursor is on the restart button
func (h *Handler) OverRestart() bool {
	return h.layout.InRestartButton(h.mouseX, h.mouseY)
}

func appendAction(actions []Action, a Action) []Action {
	if a.Kind == ActionNone {
		return actions
	}
	return append(actions, a)
}
