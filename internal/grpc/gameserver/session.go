package gameserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/replay"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

const (
	commandReveal = "reveal"
	commandFlag   = "flag"
)

// gameSession owns one engine together with its event bus, replay
// recorder, stream fan-out and round timer
type gameSession struct {
	id     string
	logger zerolog.Logger

	mu           sync.RWMutex // guards engine, difficulty, recorder and activity times
	engine       *game.Engine
	difficulty   string
	recorder     *replay.Recorder
	createdAt    time.Time
	lastActivity time.Time

	bus         *events.EventBus
	streams     *StreamManager
	idempotency *IdempotencyManager
	moveMu      sync.Mutex // held from idempotency check to store, and across restarts
	store       replay.Store
	replayKept  int

	cancel context.CancelFunc
	done   chan struct{}
}

func newGameSession(id, difficulty string, bus *events.EventBus, store replay.Store, replayKept, streamBuffer int, logger zerolog.Logger) *gameSession {
	now := time.Now()
	s := &gameSession{
		id:           id,
		logger:       logger,
		difficulty:   difficulty,
		createdAt:    now,
		lastActivity: now,
		bus:          bus,
		streams:      NewStreamManager(streamBuffer, logger),
		idempotency:  NewIdempotencyManager(),
		store:        store,
		replayKept:   replayKept,
		done:         make(chan struct{}),
	}
	s.subscribeStreams()
	return s
}

// attach installs engine as the session's engine, with a fresh recorder
// bound to its rules, and starts its first round
func (s *gameSession) attach(engine *game.Engine, difficulty string) error {
	cfg := engine.Config()
	recorder := replay.NewRecorder(replay.RecorderConfig{
		Rules: replay.Rules{
			MaxFlags:             cfg.MaxFlags,
			WinRule:              string(cfg.WinRule),
			LossOnFlagExhaustion: cfg.LossOnFlagExhaustion,
			Seed:                 cfg.Seed,
		},
		Store:   s.store,
		MaxKept: s.replayKept,
	}, s.logger)

	s.mu.Lock()
	if s.recorder != nil {
		s.bus.Unsubscribe(s.recorder.ID())
	}
	s.recorder = recorder
	s.engine = engine
	s.difficulty = difficulty
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.bus.Subscribe(recorder)
	s.idempotency.Reset()
	return engine.InitRound()
}

// Engine returns the current engine
func (s *gameSession) Engine() *game.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Recorder returns the replay recorder of the current engine
func (s *gameSession) Recorder() *replay.Recorder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recorder
}

func (s *gameSession) Difficulty() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.difficulty
}

func (s *gameSession) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// LastActivity returns the time of the last command on this session
func (s *gameSession) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// Reveal runs a reveal, answering repeated idempotency keys from the cache
func (s *gameSession) Reveal(row, col int, key string) (*sweeperv1.MoveResponse, error) {
	return s.move(commandReveal, key, func(e *game.Engine) (game.Result, error) {
		return e.RevealCell(row, col)
	})
}

// ToggleFlag runs a flag toggle, answering repeated idempotency keys from
// the cache
func (s *gameSession) ToggleFlag(row, col int, key string) (*sweeperv1.MoveResponse, error) {
	return s.move(commandFlag, key, func(e *game.Engine) (game.Result, error) {
		return e.ToggleFlag(row, col)
	})
}

func (s *gameSession) move(command, key string, run func(*game.Engine) (game.Result, error)) (*sweeperv1.MoveResponse, error) {
	if key != "" {
		s.moveMu.Lock()
		defer s.moveMu.Unlock()
	}

	if cached := s.idempotency.Check(command, key); cached != nil {
		s.logger.Debug().
			Str("command", command).
			Str("idempotency_key", key).
			Msg("Returning cached response for idempotent request")
		return cached, nil
	}

	s.touch()
	res, err := run(s.Engine())
	if err != nil {
		return nil, err
	}
	resp := convertResult(res)
	s.idempotency.Store(command, key, resp)
	return resp, nil
}

// Restart starts a new round. A non-empty difficulty rebuilds the engine
// from that preset, keeping the session's rules.
func (s *gameSession) Restart(ctx context.Context, difficulty string) error {
	s.moveMu.Lock()
	defer s.moveMu.Unlock()

	s.touch()
	current := s.Engine()
	if difficulty == "" {
		s.idempotency.Reset()
		return current.InitRound()
	}

	preset, err := game.PresetByName(difficulty)
	if err != nil {
		return err
	}
	old := current.Config()
	cfg := preset.Apply(game.GameConfig{
		LossOnFlagExhaustion: old.LossOnFlagExhaustion,
		WinRule:              old.WinRule,
		Logger:               old.Logger,
		GameID:               s.id,
		EventBus:             s.bus,
	})
	if old.MaxFlags != old.Mines && old.Mines > 0 {
		// keep the flag budget ratio of the old board
		cfg.MaxFlags = preset.Mines * old.MaxFlags / old.Mines
	}

	engine, err := game.NewEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("rebuild %s board: %w", preset.Name, err)
	}
	s.logger.Info().
		Str("difficulty", preset.Name).
		Msg("Rebuilt board for new difficulty")
	return s.attach(engine, preset.Name)
}

// subscribeStreams forwards engine events to the stream clients. Handlers
// run after the engine released its lock, so they may query it.
func (s *gameSession) subscribeStreams() {
	s.bus.SubscribeFunc(events.TypeRoundReset, func(events.Event) {
		if s.streams.GetClientCount() == 0 {
			return
		}
		engine := s.Engine()
		if engine == nil {
			return
		}
		state := convertGameState(s.id, engine)
		s.streams.BroadcastToAll(&sweeperv1.GameUpdate{
			Kind:           sweeperv1.UpdateKind_UPDATE_KIND_FULL_STATE,
			State:          state,
			Status:         state.Status,
			PlacedFlags:    state.PlacedFlags,
			ElapsedSeconds: state.ElapsedSeconds,
		})
	})

	s.bus.SubscribeFunc(events.TypeCellsRevealed, func(ev events.Event) {
		e, ok := ev.(*events.CellsRevealedEvent)
		if !ok {
			return
		}
		s.broadcastChanges(convertChanges(e.Changes), e.Metadata)
	})

	s.bus.SubscribeFunc(events.TypeFlagToggled, func(ev events.Event) {
		e, ok := ev.(*events.FlagToggledEvent)
		if !ok {
			return
		}
		view, err := s.Engine().CellView(e.Cell.Row, e.Cell.Col)
		if err != nil {
			return
		}
		s.broadcastChanges([]*sweeperv1.Cell{convertCell(e.Cell.Row, e.Cell.Col, view)}, e.Metadata)
	})

	s.bus.SubscribeFunc(events.TypeTimerTicked, func(ev events.Event) {
		e, ok := ev.(*events.TimerTickedEvent)
		if !ok {
			return
		}
		s.streams.BroadcastToAll(&sweeperv1.GameUpdate{
			Kind:           sweeperv1.UpdateKind_UPDATE_KIND_TICK,
			Status:         sweeperv1.RoundStatus_ROUND_STATUS_IN_PROGRESS,
			PlacedFlags:    int32(e.Metadata.PlacedFlags),
			ElapsedSeconds: int32(e.Metadata.ElapsedSeconds),
		})
	})

	s.bus.SubscribeFunc(events.TypeRoundWon, func(ev events.Event) {
		e, ok := ev.(*events.RoundWonEvent)
		if !ok {
			return
		}
		s.broadcastStatus(sweeperv1.RoundStatus_ROUND_STATUS_WON, "", e.Metadata)
	})

	s.bus.SubscribeFunc(events.TypeRoundLost, func(ev events.Event) {
		e, ok := ev.(*events.RoundLostEvent)
		if !ok {
			return
		}
		s.broadcastStatus(sweeperv1.RoundStatus_ROUND_STATUS_LOST, e.Reason, e.Metadata)
	})
}

func (s *gameSession) broadcastChanges(changes []*sweeperv1.Cell, meta events.RoundMetadata) {
	if len(changes) == 0 || s.streams.GetClientCount() == 0 {
		return
	}
	s.streams.BroadcastToAll(&sweeperv1.GameUpdate{
		Kind:           sweeperv1.UpdateKind_UPDATE_KIND_CHANGES,
		Changes:        changes,
		Status:         convertStatus(s.Engine().State().Status),
		PlacedFlags:    int32(meta.PlacedFlags),
		ElapsedSeconds: int32(meta.ElapsedSeconds),
	})
}

func (s *gameSession) broadcastStatus(status sweeperv1.RoundStatus, reason string, meta events.RoundMetadata) {
	s.streams.BroadcastToAll(&sweeperv1.GameUpdate{
		Kind:           sweeperv1.UpdateKind_UPDATE_KIND_STATUS,
		Status:         status,
		Reason:         reason,
		PlacedFlags:    int32(meta.PlacedFlags),
		ElapsedSeconds: int32(meta.ElapsedSeconds),
	})
}

// runTicker drives the round timer until ctx is cancelled
func (s *gameSession) runTicker(ctx context.Context, interval time.Duration) {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Msg("Session ticker panicked")
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Engine().TickTimer(); err != nil {
				s.logger.Debug().Err(err).Msg("Timer tick rejected")
			}
		}
	}
}

// start launches the ticker. A zero interval leaves the timer undriven.
func (s *gameSession) start(parent context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	if interval <= 0 {
		close(s.done)
		return
	}
	go s.runTicker(ctx, interval)
}

// stop cancels the ticker, waits for it and closes every stream
func (s *gameSession) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
	s.streams.CloseAll()
	s.mu.RLock()
	recorder := s.recorder
	s.mu.RUnlock()
	if recorder != nil {
		s.bus.Unsubscribe(recorder.ID())
	}
}
