package ui

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/input"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/layout"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/renderer"
)

// Snapshot is the visible state of the current round
type Snapshot struct {
	Rows, Cols     int
	Views          [][]core.CellView
	Status         game.Status
	FlagsRemaining int
	ElapsedSeconds int
}

// Backend runs the rounds the window displays, either in process or on a
// server
type Backend interface {
	Snapshot() Snapshot
	Reveal(row, col int) error
	ToggleFlag(row, col int) error
	// Restart starts a new round; a non-empty difficulty switches preset
	Restart(difficulty string) error
	// Tick is called once per second of frames
	Tick() error
	Close() error
}

const messageFrames = 120

// UIGame implements ebiten.Game on top of a Backend
type UIGame struct {
	backend       Backend
	layout        layout.Layout
	boardRenderer *renderer.EnhancedBoardRenderer
	inputHandler  *input.Handler
	defaultFont   font.Face
	logger        zerolog.Logger

	ticksPerSecond int
	frames         int

	// UI state
	statusMessage string
	messageTimer  int

	// onResize is told the new window size when the board shape changes
	onResize func(w, h int)
}

// NewUIGame creates a new Ebitengine game instance.
func NewUIGame(backend Backend, uiCfg config.UIConfig, colors config.ColorsConfig, logger zerolog.Logger) *UIGame {
	snap := backend.Snapshot()
	l := layout.New(snap.Rows, snap.Cols, uiCfg.Game.TileSize, uiCfg.Game.StatusBarHeight)

	tps := uiCfg.Game.TicksPerSecond
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}

	g := &UIGame{
		backend:        backend,
		layout:         l,
		defaultFont:    basicfont.Face7x13,
		logger:         logger.With().Str("component", "ui").Logger(),
		ticksPerSecond: tps,
	}
	g.boardRenderer = renderer.NewEnhancedBoardRenderer(l, renderer.NewPalette(colors), g.defaultFont)
	g.inputHandler = input.NewHandler(l)
	return g
}

// WindowSize is the window size for the current board at the given scale
func (g *UIGame) WindowSize(scale int) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	w, h := g.layout.ScreenSize()
	return w * scale, h * scale
}

// OnResize registers the window resize hook
func (g *UIGame) OnResize(fn func(w, h int)) {
	g.onResize = fn
}

// Update proceeds the game state.
func (g *UIGame) Update() error {
	for _, a := range g.inputHandler.Update() {
		g.apply(a)
	}

	hr, hc, hok := g.inputHandler.Hovered()
	g.boardRenderer.SetHover(hr, hc, hok)
	pr, pc, pok := g.inputHandler.Pressed()
	g.boardRenderer.SetPressed(pr, pc, pok)
	g.boardRenderer.SetOverRestart(g.inputHandler.OverRestart())

	g.advanceFrame()
	return nil
}

// advanceFrame drives the round timer and the message timeout
func (g *UIGame) advanceFrame() {
	if g.messageTimer > 0 {
		g.messageTimer--
	}
	g.frames++
	if g.frames < g.ticksPerSecond {
		return
	}
	g.frames = 0
	if err := g.backend.Tick(); err != nil {
		g.logger.Warn().Err(err).Msg("Timer tick failed")
	}
}

func (g *UIGame) apply(a input.Action) {
	var err error
	switch a.Kind {
	case input.ActionReveal:
		err = g.backend.Reveal(a.Row, a.Col)
	case input.ActionFlag:
		err = g.backend.ToggleFlag(a.Row, a.Col)
	case input.ActionRestart:
		err = g.backend.Restart("")
	case input.ActionDifficulty:
		err = g.backend.Restart(a.Difficulty)
		if err == nil {
			g.showMessage(a.Difficulty)
		}
	default:
		return
	}

	if err != nil {
		g.logger.Debug().Err(err).Int("row", a.Row).Int("col", a.Col).Msg("Command rejected")
		g.showMessage(messageFor(err))
		return
	}
	g.relayout()

	switch g.backend.Snapshot().Status {
	case game.StatusWon:
		g.showMessage("cleared!")
	case game.StatusLost:
		g.showMessage("boom")
	}
}

// relayout follows board shape changes after a difficulty switch
func (g *UIGame) relayout() {
	snap := g.backend.Snapshot()
	if snap.Rows == g.layout.Rows && snap.Cols == g.layout.Cols {
		return
	}
	g.layout = layout.New(snap.Rows, snap.Cols, g.layout.TileSize, g.layout.StatusBarHeight)
	g.boardRenderer.SetLayout(g.layout)
	g.inputHandler.SetLayout(g.layout)
	if g.onResize != nil {
		g.onResize(g.layout.ScreenSize())
	}
	g.logger.Info().Int("rows", snap.Rows).Int("cols", snap.Cols).Msg("Board resized")
}

func (g *UIGame) showMessage(msg string) {
	g.statusMessage = msg
	g.messageTimer = messageFrames
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, core.ErrRoundOver):
		return "press R"
	case errors.Is(err, core.ErrOutOfBounds):
		return "off board"
	}
	return fmt.Sprintf("error: %v", err)
}

// Draw renders the game screen.
func (g *UIGame) Draw(screen *ebiten.Image) {
	snap := g.backend.Snapshot()
	status := renderer.StatusView{
		Status:         snap.Status,
		FlagsRemaining: snap.FlagsRemaining,
		ElapsedSeconds: snap.ElapsedSeconds,
	}
	if g.messageTimer > 0 {
		status.Message = g.statusMessage
	}
	g.boardRenderer.Draw(screen, snap.Views, status)
}

// Layout defines the Ebitengine screen size.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.layout.ScreenSize()
}
