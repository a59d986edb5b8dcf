package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/ui"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	remote := flag.String("remote", "", "Play on a gRPC server at this address instead of locally")
	difficulty := flag.String("difficulty", "", "Preset name or custom (overrides config)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	if *difficulty != "" {
		cfg.Game.Difficulty = *difficulty
	}

	level := zerolog.InfoLevel
	if cfg.Development.VerboseLogging {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var backend ui.Backend
	var err error
	if *remote != "" {
		backend, err = remoteBackend(ctx, *remote, cfg)
	} else {
		backend, err = localBackend(ctx, cfg)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close game")
		}
	}()

	uiGame := ui.NewUIGame(backend, cfg.UI, cfg.Colors, log.Logger)
	scale := cfg.UI.Window.Scale
	uiGame.OnResize(func(w, h int) {
		ebiten.SetWindowSize(w*max(scale, 1), h*max(scale, 1))
	})

	ebiten.SetWindowSize(uiGame.WindowSize(scale))
	ebiten.SetWindowTitle(cfg.UI.Window.Title)
	if cfg.UI.Game.TicksPerSecond > 0 {
		ebiten.SetTPS(cfg.UI.Game.TicksPerSecond)
	}

	if err := ebiten.RunGame(uiGame); err != nil {
		log.Error().Err(err).Msg("UI exited with error")
	}
}

func localBackend(ctx context.Context, cfg *config.Config) (ui.Backend, error) {
	board, err := cfg.Game.Board()
	if err != nil {
		return nil, err
	}
	build := func(p game.Preset) (*game.Engine, error) {
		engineCfg, err := cfg.Game.EngineConfig(p, log.Logger)
		if err != nil {
			return nil, err
		}
		engineCfg.GameID = "desktop"
		return game.NewEngine(ctx, engineCfg)
	}

	engine, err := build(board)
	if err != nil {
		return nil, err
	}
	return ui.NewLocalBackend(engine, func(difficulty string) (*game.Engine, error) {
		preset, err := game.PresetByName(difficulty)
		if err != nil {
			return nil, err
		}
		return build(preset)
	})
}

func remoteBackend(ctx context.Context, addr string, cfg *config.Config) (ui.Backend, error) {
	board, err := cfg.Game.Board()
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	client := sweeperv1.NewSweeperServiceClient(conn)

	backend, err := ui.NewRemoteBackend(ctx, client, &sweeperv1.BoardConfig{
		Difficulty:           board.Name,
		Width:                int32(board.Width),
		Height:               int32(board.Height),
		Mines:                int32(board.Mines),
		MaxFlags:             int32(cfg.Game.Rules.MaxFlags(board.Mines)),
		LossOnFlagExhaustion: cfg.Game.Rules.LossOnFlagExhaustion,
		WinRule:              cfg.Game.Rules.WinRule,
		Seed:                 cfg.Game.Seed,
	}, log.Logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	log.Info().Str("addr", addr).Str("game_id", backend.GameID()).Msg("Playing remotely")
	return &closingBackend{RemoteBackend: backend, conn: conn}, nil
}

// closingBackend closes the connection after the game is deleted
type closingBackend struct {
	*ui.RemoteBackend
	conn *grpc.ClientConn
}

func (b *closingBackend) Close() error {
	err := b.RemoteBackend.Close()
	b.conn.Close()
	return err
}
