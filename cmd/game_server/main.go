package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/minesweeper/internal/replay"
)

var (
	configPath string
	difficulty string
	seed       int64
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Play minesweeper in the terminal",
	Long: `Play minesweeper in the terminal, watch a random demo or inspect
recorded rounds.

Examples:
  minesweeper play --difficulty expert
  minesweeper demo --seed 42
  minesweeper replays list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return err
		}
		cfg := config.Get()
		if difficulty != "" {
			cfg.Game.Difficulty = difficulty
		}
		if seed != 0 {
			cfg.Game.Seed = seed
		}
		setupLogging(cfg.Server.GameServer, cfg.Development.VerboseLogging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&difficulty, "difficulty", "d", "", "Preset name or custom (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Fix mine placement")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg config.GameServerConfig, verbose bool) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.WarnLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// localGame is an engine wired to the same subscribers the server uses
type localGame struct {
	engine   *game.Engine
	bus      *events.EventBus
	stats    *subscribers.StatsSubscriber
	recorder *replay.Recorder
	store    replay.Store
}

func newLocalGame(ctx context.Context, cfg *config.Config) (*localGame, error) {
	board, err := cfg.Game.Board()
	if err != nil {
		return nil, err
	}
	engineCfg, err := cfg.Game.EngineConfig(board, log.Logger)
	if err != nil {
		return nil, err
	}

	store, err := replay.NewStore(cfg.Replay.StoreConfig(), log.Logger)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBusWithLogger(log.Logger)
	stats := subscribers.NewStatsSubscriber("console-stats")
	bus.Subscribe(stats)
	if cfg.Development.VerboseLogging {
		bus.Subscribe(subscribers.NewLoggerSubscriber("console-events", log.Logger, zerolog.DebugLevel))
	}

	engineCfg.GameID = "console"
	engineCfg.EventBus = bus
	engine, err := game.NewEngine(ctx, engineCfg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	actual := engine.Config()
	recorder := replay.NewRecorder(replay.RecorderConfig{
		Rules: replay.Rules{
			MaxFlags:             actual.MaxFlags,
			WinRule:              string(actual.WinRule),
			LossOnFlagExhaustion: actual.LossOnFlagExhaustion,
			Seed:                 actual.Seed,
		},
		Store:   store,
		MaxKept: cfg.Replay.MaxKept,
	}, log.Logger)
	bus.Subscribe(recorder)

	if err := engine.InitRound(); err != nil {
		return nil, err
	}

	log.Debug().Str("board", board.String()).Int64("seed", actual.Seed).Msg("Local game ready")
	return &localGame{engine: engine, bus: bus, stats: stats, recorder: recorder, store: store}, nil
}

func (g *localGame) render(showMines bool) string {
	return g.engine.Render(game.RenderOptions{Color: !noColor, ShowMines: showMines})
}

func (g *localGame) Close() {
	g.bus.Unsubscribe(g.recorder.ID())
	if g.store != nil {
		g.store.Close()
	}
}
