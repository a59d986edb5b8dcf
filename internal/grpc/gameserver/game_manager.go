package gameserver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/minesweeper/internal/replay"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

// Default lifetimes, used when ManagerConfig leaves them zero
const (
	defaultCleanupInterval      = time.Minute
	defaultFinishedGameTTL      = 10 * time.Minute
	defaultAbandonedGameTimeout = 30 * time.Minute
)

const difficultyCustom = "custom"

// ComponentRegistry receives goroutine counts per component
type ComponentRegistry interface {
	RegisterComponent(name string, count int)
}

// ManagerConfig configures a GameManager
type ManagerConfig struct {
	MaxGames             int           // 0 is unlimited
	TickInterval         time.Duration // 0 disables the round timer
	FinishedGameTTL      time.Duration
	AbandonedGameTimeout time.Duration
	CleanupInterval      time.Duration
	StreamBufferSize     int

	// Defaults is used for CreateGame requests without a config
	Defaults *sweeperv1.BoardConfig
	// FlagBudget computes MaxFlags for a mine count when a request leaves it 0
	FlagBudget func(mines int) int

	// ReplayStore persists finished rounds; nil keeps them in memory
	ReplayStore replay.Store
	// ReplayMaxKept bounds the finished rounds each session keeps in memory
	ReplayMaxKept int
	// Stats is subscribed to every session when set
	Stats   *subscribers.StatsSubscriber
	Monitor ComponentRegistry
	Logger  zerolog.Logger
}

// GameManager owns every game session of the server
type GameManager struct {
	cfg    ManagerConfig
	logger zerolog.Logger

	mu    sync.RWMutex
	games map[string]*gameSession

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGameManager creates a game manager and starts its cleanup loop. The
// loop and every session ticker stop when ctx is cancelled or Close is
// called.
func NewGameManager(ctx context.Context, cfg ManagerConfig) *GameManager {
	if cfg.FinishedGameTTL <= 0 {
		cfg.FinishedGameTTL = defaultFinishedGameTTL
	}
	if cfg.AbandonedGameTimeout <= 0 {
		cfg.AbandonedGameTimeout = defaultAbandonedGameTimeout
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.Defaults == nil {
		cfg.Defaults = &sweeperv1.BoardConfig{Difficulty: game.Presets[0].Name}
	}
	if cfg.FlagBudget == nil {
		cfg.FlagBudget = func(mines int) int { return mines }
	}

	ctx, cancel := context.WithCancel(ctx)
	gm := &GameManager{
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "game_manager").Logger(),
		games:  make(map[string]*gameSession),
		ctx:    ctx,
		cancel: cancel,
	}

	gm.wg.Add(1)
	go gm.runCleanup()

	return gm
}

// resolveConfig turns a wire board config into an engine config
func (gm *GameManager) resolveConfig(req *sweeperv1.BoardConfig) (game.GameConfig, string, error) {
	if req == nil {
		req = gm.cfg.Defaults
	}
	// rules missing from the request come from the defaults
	winRule := req.WinRule
	if winRule == "" {
		winRule = gm.cfg.Defaults.WinRule
	}
	rule, err := game.ParseWinRule(winRule)
	if err != nil {
		return game.GameConfig{}, "", err
	}

	shape := req
	if shape.Difficulty == "" && shape.Width == 0 && shape.Height == 0 {
		shape = gm.cfg.Defaults
	}

	var (
		cfg        game.GameConfig
		difficulty string
	)
	switch {
	case shape.Difficulty != "" && !strings.EqualFold(shape.Difficulty, difficultyCustom):
		preset, err := game.PresetByName(shape.Difficulty)
		if err != nil {
			return game.GameConfig{}, "", err
		}
		cfg = preset.Apply(cfg)
		difficulty = preset.Name
	case shape.Width == 0 && shape.Height == 0:
		cfg = game.Presets[0].Apply(cfg)
		difficulty = game.Presets[0].Name
	default:
		cfg.Width = int(shape.Width)
		cfg.Height = int(shape.Height)
		cfg.Mines = int(shape.Mines)
		difficulty = difficultyCustom
	}

	cfg.WinRule = rule
	cfg.LossOnFlagExhaustion = req.LossOnFlagExhaustion
	cfg.Seed = req.Seed
	cfg.MaxFlags = int(req.MaxFlags)
	if cfg.MaxFlags == 0 {
		cfg.MaxFlags = gm.cfg.FlagBudget(cfg.Mines)
	}
	return cfg, difficulty, nil
}

// CreateGame builds a session with its first round initialised
func (gm *GameManager) CreateGame(ctx context.Context, req *sweeperv1.BoardConfig) (*gameSession, error) {
	cfg, difficulty, err := gm.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	gameID := uuid.NewString()
	logger := gm.cfg.Logger.With().Str("game_id", gameID).Logger()

	// Reserve the slot first so concurrent creates cannot overshoot MaxGames
	gm.mu.Lock()
	if gm.cfg.MaxGames > 0 && len(gm.games) >= gm.cfg.MaxGames {
		current := len(gm.games)
		gm.mu.Unlock()
		gm.logger.Warn().
			Int("current_games", current).
			Int("max_games", gm.cfg.MaxGames).
			Msg("Rejecting game creation - server at capacity")
		return nil, fmt.Errorf("%w: %d/%d games active", ErrAtCapacity, current, gm.cfg.MaxGames)
	}
	gm.games[gameID] = nil
	gm.mu.Unlock()

	session, err := gm.buildSession(ctx, gameID, difficulty, cfg, logger)
	if err != nil {
		gm.mu.Lock()
		delete(gm.games, gameID)
		gm.mu.Unlock()
		return nil, err
	}

	gm.mu.Lock()
	gm.games[gameID] = session
	count := len(gm.games)
	gm.mu.Unlock()

	gm.reportComponents()
	gm.logger.Info().
		Str("game_id", gameID).
		Str("difficulty", difficulty).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("mines", cfg.Mines).
		Int("current_games", count).
		Msg("Successfully created new game")

	return session, nil
}

func (gm *GameManager) buildSession(ctx context.Context, gameID, difficulty string, cfg game.GameConfig, logger zerolog.Logger) (*gameSession, error) {
	bus := events.NewEventBusWithLogger(logger)
	if gm.cfg.Stats != nil {
		bus.Subscribe(gm.cfg.Stats)
	}

	cfg.GameID = gameID
	cfg.Logger = logger
	cfg.EventBus = bus
	engine, err := game.NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session := newGameSession(gameID, difficulty, bus, gm.cfg.ReplayStore, gm.cfg.ReplayMaxKept, gm.cfg.StreamBufferSize, logger)
	if err := session.attach(engine, difficulty); err != nil {
		return nil, fmt.Errorf("start first round: %w", err)
	}
	session.start(gm.ctx, gm.cfg.TickInterval)
	return session, nil
}

// GetGame retrieves a session by ID
func (gm *GameManager) GetGame(gameID string) (*gameSession, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	session := gm.games[gameID]
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return session, nil
}

// DeleteGame stops and removes a session
func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	session := gm.games[gameID]
	if session == nil {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(gm.games, gameID)
	gm.mu.Unlock()

	session.stop()
	gm.reportComponents()
	gm.logger.Info().Str("game_id", gameID).Msg("Game deleted")
	return nil
}

// GetActiveGames returns the number of sessions
func (gm *GameManager) GetActiveGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// Stats returns the shared statistics subscriber, if any
func (gm *GameManager) Stats() *subscribers.StatsSubscriber {
	return gm.cfg.Stats
}

// Close stops the cleanup loop and every session
func (gm *GameManager) Close() {
	gm.cancel()
	gm.wg.Wait()

	gm.mu.Lock()
	sessions := make([]*gameSession, 0, len(gm.games))
	for id, s := range gm.games {
		if s != nil {
			sessions = append(sessions, s)
		}
		delete(gm.games, id)
	}
	gm.mu.Unlock()

	for _, s := range sessions {
		s.stop()
	}
	gm.reportComponents()
}

// runCleanup periodically removes finished and abandoned games
func (gm *GameManager) runCleanup() {
	defer gm.wg.Done()

	ticker := time.NewTicker(gm.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.ctx.Done():
			return
		case now := <-ticker.C:
			gm.cleanupGames(now)
		}
	}
}

// cleanupGames removes sessions whose round finished more than
// FinishedGameTTL ago or that saw no command for AbandonedGameTimeout.
// It returns the number of removed sessions.
func (gm *GameManager) cleanupGames(now time.Time) int {
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Game cleanup panicked")
		}
	}()

	// Collect references without holding the manager lock while reading sessions
	gm.mu.RLock()
	sessions := make([]*gameSession, 0, len(gm.games))
	for _, s := range gm.games {
		if s != nil {
			sessions = append(sessions, s)
		}
	}
	gm.mu.RUnlock()

	var toDelete []*gameSession
	for _, s := range sessions {
		inactive := now.Sub(s.LastActivity())
		status := s.Engine().State().Status

		reason := ""
		switch {
		case status.IsTerminal() && inactive > gm.cfg.FinishedGameTTL:
			reason = "finished game TTL expired"
		case inactive > gm.cfg.AbandonedGameTimeout:
			reason = "game abandoned (no activity)"
		}
		if reason == "" {
			continue
		}

		toDelete = append(toDelete, s)
		gm.logger.Info().
			Str("game_id", s.id).
			Str("reason", reason).
			Dur("age", now.Sub(s.createdAt)).
			Dur("inactive", inactive).
			Msg("Cleaning up game")
	}

	if len(toDelete) == 0 {
		return 0
	}

	gm.mu.Lock()
	for _, s := range toDelete {
		delete(gm.games, s.id)
	}
	remaining := len(gm.games)
	gm.mu.Unlock()

	for _, s := range toDelete {
		s.stop()
	}
	gm.reportComponents()

	gm.logger.Info().
		Int("cleaned", len(toDelete)).
		Int("remaining", remaining).
		Msg("Game cleanup completed")
	return len(toDelete)
}

// GetActiveGoroutineCount estimates the goroutines owned by the manager:
// the cleanup loop plus one ticker per session
func (gm *GameManager) GetActiveGoroutineCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	count := 1
	if gm.cfg.TickInterval > 0 {
		count += len(gm.games)
	}
	return count
}

func (gm *GameManager) reportComponents() {
	if gm.cfg.Monitor == nil {
		return
	}
	gm.cfg.Monitor.RegisterComponent("game_manager", gm.GetActiveGoroutineCount())
}
