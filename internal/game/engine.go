package game

import (
	"context"
	"sync"

	"github.com/gammazero/deque"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
	"github.com/mitchelldurbincs/minesweeper/internal/game/rules"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"
)

// Engine owns one board and the round played on it. Commands take the write
// lock and run to completion; events raised by a command are delivered after
// the lock is released.
type Engine struct {
	mu sync.RWMutex

	cfg     GameConfig
	board   *core.Board
	gen     *mapgen.Generator
	logger  zerolog.Logger
	pending *events.DeferredPublisher
	sm      *states.StateMachine
	checker *rules.WinConditionChecker

	initialized  bool
	placedFlags  int
	correctFlags int
	revealed     int
	elapsed      int
}

// NewEngine validates cfg and allocates the board. Call InitRound before
// issuing commands.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// InitRound clears the board and counters and returns the round to
// NotStarted. It may be called at any time.
func (e *Engine) InitRound() error {
	e.mu.Lock()
	err := e.initRoundLocked()
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) initRoundLocked() error {
	if e.board == nil {
		return core.ErrNotInitialized
	}

	e.board.Reset()
	e.placedFlags = 0
	e.correctFlags = 0
	e.revealed = 0
	e.elapsed = 0
	e.initialized = true

	if err := e.sm.Reset("round initialised"); err != nil {
		return err
	}

	round := e.sm.GetContext().Round
	e.pending.Publish(events.NewRoundResetEvent(e.cfg.GameID, round, e.cfg.Width, e.cfg.Height, e.cfg.Mines, e.cfg.MaxFlags))
	e.logger.Debug().Int("round", round).Msg("Round initialised")
	return nil
}

// RevealCell reveals (row, col). The first reveal of a round places the
// mines around it. Revealing a revealed or flagged cell changes nothing.
func (e *Engine) RevealCell(row, col int) (Result, error) {
	e.mu.Lock()
	res, err := e.revealLocked(row, col)
	e.mu.Unlock()
	e.flush()
	return res, err
}

func (e *Engine) revealLocked(row, col int) (Result, error) {
	if err := e.checkCommandLocked("reveal", row, col); err != nil {
		return Result{}, err
	}

	target := core.NewCoordinate(row, col)
	idx := e.board.Idx(row, col)
	cell := &e.board.C[idx]
	if cell.Revealed || cell.Flagged {
		e.logger.Debug().Int("row", row).Int("col", col).
			Bool("flagged", cell.Flagged).
			Msg("Reveal ignored")
		return e.resultLocked(nil), nil
	}

	if !e.board.MinesPlaced {
		if err := e.startRoundLocked(target); err != nil {
			return Result{}, err
		}
	}

	if cell.Mine {
		changes := e.detonateLocked(idx)
		e.pending.Publish(events.NewCellsRevealedEvent(e.cfg.GameID, e.metadataLocked(), target, changes))
		e.loseLocked(target, events.LossDetonation)
		return e.resultLocked(changes), nil
	}

	changes := e.floodFillLocked(idx)
	e.logger.Debug().Int("row", row).Int("col", col).Int("revealed", len(changes)).Msg("Cells revealed")

	// A budget spent before the first reveal is only judged once the
	// layout exists, which is here.
	exhausted := e.exhaustedLocked()
	if exhausted {
		changes = append(changes, e.detonateLocked(-1)...)
	}
	e.pending.Publish(events.NewCellsRevealedEvent(e.cfg.GameID, e.metadataLocked(), target, changes))

	if exhausted {
		e.loseLocked(target, events.LossFlagExhaustion)
	} else {
		e.evaluateLocked(target)
	}
	return e.resultLocked(changes), nil
}

// exhaustedLocked reports a round in progress that is not won and whose
// flag budget is spent without covering every mine.
func (e *Engine) exhaustedLocked() bool {
	if !e.board.MinesPlaced || e.sm.CurrentPhase() != states.PhaseInProgress {
		return false
	}
	counters := e.countersLocked()
	return !e.checker.IsWon(counters) && e.checker.FlagsExhausted(counters)
}

// startRoundLocked places mines with target as the exclusion centre and
// moves the round to InProgress.
func (e *Engine) startRoundLocked(target core.Coordinate) error {
	placement, err := e.gen.GenerateMines(e.board, target)
	if err != nil {
		return err
	}

	// Flags placed before the layout existed are re-scored against it.
	e.correctFlags = 0
	for _, idx := range placement.Mines {
		if e.board.C[idx].Flagged {
			e.correctFlags++
		}
	}

	if err := e.sm.TransitionTo(states.PhaseInProgress, "first reveal"); err != nil {
		return err
	}

	e.pending.Publish(events.NewRoundStartedEvent(
		e.cfg.GameID,
		e.sm.GetContext().Round,
		target,
		placement.Radius,
		placement.Mines,
	))
	e.logger.Info().
		Int("round", e.sm.GetContext().Round).
		Str("first_click", target.String()).
		Int("exclusion_radius", placement.Radius).
		Int("draws", placement.Draws).
		Msg("Mines placed, round started")
	return nil
}

// floodFillLocked reveals start and spreads through zero-score cells using
// an explicit queue. Mines are never reached: only cells without adjacent
// mines propagate.
func (e *Engine) floodFillLocked(start int) []core.CellChange {
	var queue deque.Deque[int]
	visited := mapset.New[int]()
	var changes []core.CellChange
	var buf [8]int

	queue.PushBack(start)
	visited.Put(start)

	for queue.Len() > 0 {
		idx := queue.PopFront()
		cell := &e.board.C[idx]
		if cell.Revealed {
			continue
		}
		if cell.Flagged {
			cell.Flagged = false
			e.placedFlags--
		}
		cell.Revealed = true
		e.revealed++

		row, col := e.board.RowCol(idx)
		changes = append(changes, core.CellChange{Row: row, Col: col, View: e.board.View(idx)})

		if cell.Adjacent != 0 {
			continue
		}
		for _, n := range e.board.NeighborIndices(buf[:0], row, col) {
			if visited.Has(n) || e.board.C[n].Revealed {
				continue
			}
			visited.Put(n)
			queue.PushBack(n)
		}
	}

	return changes
}

// detonateLocked reveals every mine, the triggering one first. A negative
// trigger reveals them in board order.
func (e *Engine) detonateLocked(trigger int) []core.CellChange {
	changes := make([]core.CellChange, 0, e.cfg.Mines)
	reveal := func(idx int) {
		cell := &e.board.C[idx]
		if cell.Flagged {
			cell.Flagged = false
			e.placedFlags--
			e.correctFlags--
		}
		cell.Revealed = true
		row, col := e.board.RowCol(idx)
		changes = append(changes, core.CellChange{Row: row, Col: col, View: e.board.View(idx)})
	}

	if trigger >= 0 {
		reveal(trigger)
	}
	for idx := range e.board.C {
		if idx != trigger && e.board.C[idx].Mine && !e.board.C[idx].Revealed {
			reveal(idx)
		}
	}
	return changes
}

// ToggleFlag flags or unflags (row, col). Revealed cells are ignored and a
// placement beyond the flag budget is refused.
func (e *Engine) ToggleFlag(row, col int) (Result, error) {
	e.mu.Lock()
	res, err := e.toggleFlagLocked(row, col)
	e.mu.Unlock()
	e.flush()
	return res, err
}

func (e *Engine) toggleFlagLocked(row, col int) (Result, error) {
	if err := e.checkCommandLocked("flag", row, col); err != nil {
		return Result{}, err
	}

	target := core.NewCoordinate(row, col)
	idx := e.board.Idx(row, col)
	cell := &e.board.C[idx]
	if cell.Revealed {
		return e.resultLocked(nil), nil
	}

	if cell.Flagged {
		cell.Flagged = false
		e.placedFlags--
		if cell.Mine {
			e.correctFlags--
		}
	} else {
		if e.placedFlags >= e.cfg.MaxFlags {
			e.logger.Debug().Int("row", row).Int("col", col).
				Int("max_flags", e.cfg.MaxFlags).
				Msg("Flag refused, budget exhausted")
			return e.resultLocked(nil), nil
		}
		cell.Flagged = true
		e.placedFlags++
		if cell.Mine {
			e.correctFlags++
		}
	}

	changes := []core.CellChange{{Row: row, Col: col, View: e.board.View(idx)}}
	e.pending.Publish(events.NewFlagToggledEvent(e.cfg.GameID, e.metadataLocked(), target, cell.Flagged))

	e.evaluateLocked(target)

	if cell.Flagged && e.exhaustedLocked() {
		changes = append(changes, e.detonateLocked(-1)...)
		e.loseLocked(target, events.LossFlagExhaustion)
	}

	return e.resultLocked(changes), nil
}

// TickTimer advances the round clock by one second while the round is in
// progress and does nothing otherwise.
func (e *Engine) TickTimer() (Result, error) {
	e.mu.Lock()
	res, err := e.tickLocked()
	e.mu.Unlock()
	e.flush()
	return res, err
}

func (e *Engine) tickLocked() (Result, error) {
	if !e.initialized {
		return Result{}, core.ErrNotInitialized
	}
	if e.sm.CurrentPhase() == states.PhaseInProgress {
		e.elapsed++
		e.pending.Publish(events.NewTimerTickedEvent(e.cfg.GameID, e.metadataLocked()))
	}
	return e.resultLocked(nil), nil
}

// evaluateLocked applies the win rule. It only fires once mines exist and
// the round is still in progress.
func (e *Engine) evaluateLocked(trigger core.Coordinate) {
	if !e.board.MinesPlaced || e.sm.CurrentPhase() != states.PhaseInProgress {
		return
	}

	if !e.checker.IsWon(e.countersLocked()) {
		return
	}

	if err := e.sm.TransitionTo(states.PhaseWon, string(e.cfg.WinRule)); err != nil {
		e.logger.Error().Err(err).Msg("Failed to enter won phase")
		return
	}
	e.pending.Publish(events.NewRoundWonEvent(e.cfg.GameID, e.metadataLocked(), e.cfg.Width, e.cfg.Height, e.cfg.Mines))
	e.logger.Info().
		Int("round", e.sm.GetContext().Round).
		Int("elapsed_seconds", e.elapsed).
		Str("last_cell", trigger.String()).
		Msg("Round won")
}

func (e *Engine) loseLocked(trigger core.Coordinate, reason string) {
	if err := e.sm.TransitionTo(states.PhaseLost, reason); err != nil {
		e.logger.Error().Err(err).Msg("Failed to enter lost phase")
		return
	}
	e.pending.Publish(events.NewRoundLostEvent(e.cfg.GameID, e.metadataLocked(), trigger, reason, e.cfg.Width, e.cfg.Height, e.cfg.Mines))
	e.logger.Info().
		Int("round", e.sm.GetContext().Round).
		Int("elapsed_seconds", e.elapsed).
		Str("cell", trigger.String()).
		Str("reason", reason).
		Msg("Round lost")
}

func (e *Engine) countersLocked() rules.Counters {
	return rules.Counters{
		Area:         e.board.Area(),
		Mines:        e.cfg.Mines,
		MaxFlags:     e.cfg.MaxFlags,
		Revealed:     e.revealed,
		PlacedFlags:  e.placedFlags,
		CorrectFlags: e.correctFlags,
	}
}

func (e *Engine) checkCommandLocked(op string, row, col int) error {
	if !e.initialized {
		return core.ErrNotInitialized
	}
	if !e.board.InBounds(row, col) {
		return core.WrapCellError(op, row, col, core.ErrOutOfBounds)
	}
	if e.sm.CurrentPhase().IsTerminal() {
		return core.WrapCellError(op, row, col, core.ErrRoundOver)
	}
	return nil
}

func (e *Engine) resultLocked(changes []core.CellChange) Result {
	return Result{
		Changes:        changes,
		Status:         e.sm.CurrentPhase(),
		PlacedFlags:    e.placedFlags,
		ElapsedSeconds: e.elapsed,
	}
}

func (e *Engine) metadataLocked() events.RoundMetadata {
	return events.RoundMetadata{
		Round:          e.sm.GetContext().Round,
		ElapsedSeconds: e.elapsed,
		PlacedFlags:    e.placedFlags,
	}
}

func (e *Engine) flush() {
	if e.pending != nil {
		e.pending.Flush()
	}
}

// State returns a snapshot of the round counters.
func (e *Engine) State() RoundState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.board == nil {
		return RoundState{}
	}
	return RoundState{
		Round:          e.sm.GetContext().Round,
		Status:         e.sm.CurrentPhase(),
		MinesPlaced:    e.board.MinesPlaced,
		Mines:          e.cfg.Mines,
		MaxFlags:       e.cfg.MaxFlags,
		PlacedFlags:    e.placedFlags,
		CorrectFlags:   e.correctFlags,
		RevealedCells:  e.revealed,
		ElapsedSeconds: e.elapsed,
	}
}

// CellView returns what a player may see at (row, col).
func (e *Engine) CellView(row, col int) (core.CellView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return core.CellView{}, core.ErrNotInitialized
	}
	if !e.board.InBounds(row, col) {
		return core.CellView{}, core.WrapCellError("view", row, col, core.ErrOutOfBounds)
	}
	return e.board.View(e.board.Idx(row, col)), nil
}

// Views returns the visible state of every cell, indexed [row][col].
func (e *Engine) Views() [][]core.CellView {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.board == nil {
		return nil
	}
	views := make([][]core.CellView, e.board.H)
	for r := range views {
		views[r] = make([]core.CellView, e.board.W)
		for c := range views[r] {
			views[r][c] = e.board.View(e.board.Idx(r, c))
		}
	}
	return views
}

// Config returns the resolved configuration, defaults applied.
func (e *Engine) Config() GameConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// GameID returns the identifier events are tagged with.
func (e *Engine) GameID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.GameID
}

// History returns the phase transitions of this engine, oldest first.
func (e *Engine) History() []states.Transition {
	if e.sm == nil {
		return nil
	}
	return e.sm.GetHistory()
}
