package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
	"github.com/mitchelldurbincs/minesweeper/internal/game/rules"
	"github.com/mitchelldurbincs/minesweeper/internal/game/states"
	"github.com/rs/zerolog"
)

// WinRule selects how a round is won.
type WinRule = rules.WinRule

const (
	WinByFlags  = rules.WinByFlags
	WinByReveal = rules.WinByReveal
)

// ParseWinRule accepts "flags", "reveal" or the empty string (flags).
func ParseWinRule(s string) (WinRule, error) {
	switch WinRule(s) {
	case "", WinByFlags:
		return WinByFlags, nil
	case WinByReveal:
		return WinByReveal, nil
	default:
		return "", fmt.Errorf("%w: unknown win rule %q", core.ErrInvalidConfiguration, s)
	}
}

// GameConfig holds configuration for creating a new engine
type GameConfig struct {
	Width                int
	Height               int
	Mines                int
	MaxFlags             int // 0 means Mines; at least Mines under WinByFlags
	LossOnFlagExhaustion bool
	WinRule              WinRule

	// Rng drives mine placement. When nil a *rand.Rand seeded from Seed is
	// used, and Seed itself defaults to the current time.
	Rng  mapgen.RandSource
	Seed int64

	Logger   zerolog.Logger
	GameID   string
	EventBus events.Publisher
}

// Validate checks dimensions, mine count and the flag budget. A zero
// budget is not configurable: it selects the default of one flag per mine.
func (c GameConfig) Validate() error {
	if err := (mapgen.MineConfig{Width: c.Width, Height: c.Height, Mines: c.Mines}).Validate(); err != nil {
		return err
	}
	if c.MaxFlags < 0 {
		return fmt.Errorf("%w: max flags %d is negative", core.ErrInvalidConfiguration, c.MaxFlags)
	}
	rule, err := ParseWinRule(string(c.WinRule))
	if err != nil {
		return err
	}
	if rule == WinByFlags && c.MaxFlags > 0 && c.MaxFlags < c.Mines {
		return fmt.Errorf("%w: %d flags cannot cover %d mines under the flags win rule",
			core.ErrInvalidConfiguration, c.MaxFlags, c.Mines)
	}
	return nil
}

// EngineInitializer resolves configuration defaults and assembles an engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "BoardEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize validates the configuration and builds an engine with an
// allocated board. The round is not started until InitRound.
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled")
		return nil, ctx.Err()
	default:
	}

	if err := ei.config.Validate(); err != nil {
		ei.logger.Warn().Err(err).
			Int("width", ei.config.Width).
			Int("height", ei.config.Height).
			Int("mines", ei.config.Mines).
			Msg("Rejected board configuration")
		return nil, err
	}

	ei.setupDefaults()

	gen := mapgen.NewGenerator(mapgen.MineConfig{
		Width:  ei.config.Width,
		Height: ei.config.Height,
		Mines:  ei.config.Mines,
	}, ei.config.Rng)

	logger := ei.logger.With().Str("game_id", ei.config.GameID).Logger()
	pending := events.NewDeferredPublisher(ei.config.EventBus)

	e := &Engine{
		cfg:     ei.config,
		board:   core.NewBoard(ei.config.Width, ei.config.Height),
		gen:     gen,
		logger:  logger,
		pending: pending,
		checker: rules.NewWinConditionChecker(logger, ei.config.WinRule, ei.config.LossOnFlagExhaustion),
		sm:      states.NewStateMachine(states.NewRoundContext(ei.config.GameID, logger), pending),
	}

	logger.Info().
		Int("width", ei.config.Width).
		Int("height", ei.config.Height).
		Int("mines", ei.config.Mines).
		Int("max_flags", ei.config.MaxFlags).
		Str("win_rule", string(ei.config.WinRule)).
		Bool("loss_on_flag_exhaustion", ei.config.LossOnFlagExhaustion).
		Int64("seed", ei.config.Seed).
		Msg("Engine created successfully")

	return e, nil
}

func (ei *EngineInitializer) setupDefaults() {
	if ei.config.MaxFlags == 0 {
		ei.config.MaxFlags = ei.config.Mines
	}
	if ei.config.WinRule == "" {
		ei.config.WinRule = WinByFlags
	}
	if ei.config.Rng == nil {
		if ei.config.Seed == 0 {
			ei.config.Seed = time.Now().UnixNano()
		}
		ei.logger.Debug().Int64("seed", ei.config.Seed).Msg("No RNG provided, creating seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(ei.config.Seed))
	}
	if ei.config.GameID == "" {
		ei.config.GameID = fmt.Sprintf("game_%d", time.Now().UnixNano())
	}
}
