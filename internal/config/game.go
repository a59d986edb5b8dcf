package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/mapgen"
	"github.com/mitchelldurbincs/minesweeper/internal/replay"
	"github.com/rs/zerolog"
)

// Flag budget policies
const (
	MaxFlagsMines  = "mines"
	MaxFlagsDouble = "double"
)

// DifficultyCustom selects the game.custom board
const DifficultyCustom = "custom"

func (g GameConfig) validate() error {
	if !strings.EqualFold(g.Difficulty, DifficultyCustom) {
		if _, err := game.PresetByName(g.Difficulty); err != nil {
			return fmt.Errorf("game.difficulty: %w", err)
		}
	} else {
		mc := mapgen.MineConfig{Width: g.Custom.Width, Height: g.Custom.Height, Mines: g.Custom.Mines}
		if err := mc.Validate(); err != nil {
			return fmt.Errorf("game.custom: %w", err)
		}
	}
	switch g.Rules.MaxFlagsPolicy {
	case MaxFlagsMines, MaxFlagsDouble:
	default:
		return fmt.Errorf("game.rules.max_flags_policy must be %q or %q", MaxFlagsMines, MaxFlagsDouble)
	}
	if _, err := game.ParseWinRule(g.Rules.WinRule); err != nil {
		return fmt.Errorf("game.rules.win_rule: %w", err)
	}
	return nil
}

// Board returns the board shape selected by the difficulty setting.
func (g GameConfig) Board() (game.Preset, error) {
	if strings.EqualFold(g.Difficulty, DifficultyCustom) {
		return game.Preset{
			Name:   DifficultyCustom,
			Width:  g.Custom.Width,
			Height: g.Custom.Height,
			Mines:  g.Custom.Mines,
		}, nil
	}
	return game.PresetByName(g.Difficulty)
}

// MaxFlags applies the flag budget policy to a mine count.
func (r RulesConfig) MaxFlags(mines int) int {
	if r.MaxFlagsPolicy == MaxFlagsDouble {
		return 2 * mines
	}
	return mines
}

// EngineConfig builds an engine configuration for the given board shape
// with the configured rules, seed and logger.
func (g GameConfig) EngineConfig(board game.Preset, logger zerolog.Logger) (game.GameConfig, error) {
	winRule, err := game.ParseWinRule(g.Rules.WinRule)
	if err != nil {
		return game.GameConfig{}, err
	}
	cfg := board.Apply(game.GameConfig{
		LossOnFlagExhaustion: g.Rules.LossOnFlagExhaustion,
		WinRule:              winRule,
		Seed:                 g.Seed,
		Logger:               logger,
	})
	cfg.MaxFlags = g.Rules.MaxFlags(board.Mines)
	return cfg, nil
}

// StoreConfig converts the replay section into a store configuration.
// Recording disabled selects no store.
func (r ReplayConfig) StoreConfig() replay.StoreConfig {
	if !r.Enabled {
		return replay.StoreConfig{Type: replay.StoreTypeNone}
	}
	return replay.StoreConfig{Type: replay.StoreType(r.Store), BaseDir: r.Directory}
}

// TickInterval is the session timer period.
func (g GRPCServerConfig) TickInterval() time.Duration {
	return time.Duration(g.TickIntervalMs) * time.Millisecond
}

// Address is the host:port the server listens on.
func (g GRPCServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}
