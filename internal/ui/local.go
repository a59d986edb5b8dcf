package ui

import (
	"sync"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
)

// EngineFactory builds an engine for a difficulty preset
type EngineFactory func(difficulty string) (*game.Engine, error)

// LocalBackend plays on an in-process engine
type LocalBackend struct {
	mu      sync.RWMutex
	engine  *game.Engine
	factory EngineFactory
}

// NewLocalBackend starts the first round on engine. factory may be nil,
// in which case difficulty switches are refused.
func NewLocalBackend(engine *game.Engine, factory EngineFactory) (*LocalBackend, error) {
	if err := engine.InitRound(); err != nil {
		return nil, err
	}
	return &LocalBackend{engine: engine, factory: factory}, nil
}

func (b *LocalBackend) current() *game.Engine {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.engine
}

func (b *LocalBackend) Snapshot() Snapshot {
	engine := b.current()
	st := engine.State()
	cfg := engine.Config()
	return Snapshot{
		Rows:           cfg.Height,
		Cols:           cfg.Width,
		Views:          engine.Views(),
		Status:         st.Status,
		FlagsRemaining: st.FlagsRemaining(),
		ElapsedSeconds: st.ElapsedSeconds,
	}
}

func (b *LocalBackend) Reveal(row, col int) error {
	_, err := b.current().RevealCell(row, col)
	return err
}

func (b *LocalBackend) ToggleFlag(row, col int) error {
	_, err := b.current().ToggleFlag(row, col)
	return err
}

func (b *LocalBackend) Restart(difficulty string) error {
	if difficulty == "" || b.factory == nil {
		return b.current().InitRound()
	}
	engine, err := b.factory(difficulty)
	if err != nil {
		return err
	}
	if err := engine.InitRound(); err != nil {
		return err
	}
	b.mu.Lock()
	b.engine = engine
	b.mu.Unlock()
	return nil
}

func (b *LocalBackend) Tick() error {
	_, err := b.current().TickTimer()
	return err
}

func (b *LocalBackend) Close() error { return nil }
