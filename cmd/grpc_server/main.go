package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/minesweeper/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/minesweeper/internal/monitoring"
	"github.com/mitchelldurbincs/minesweeper/internal/replay"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	tickInterval := flag.Duration("tick-interval", -1, "Round timer period (-1 to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	srvCfg := cfg.Server.GRPCServer

	// Use config defaults if not overridden by flags
	if *port != -1 {
		srvCfg.Port = *port
	}
	if *host != "" {
		srvCfg.Host = *host
	}
	if *logLevel == "" {
		*logLevel = srvCfg.LogLevel
	}
	if *maxGames != -1 {
		srvCfg.MaxGames = *maxGames
	}
	tick := srvCfg.TickInterval()
	if *tickInterval >= 0 {
		tick = *tickInterval
	}
	if *enableReflection {
		srvCfg.EnableReflection = true
	}

	setupLogging(*logLevel)

	board, err := cfg.Game.Board()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid default board")
	}

	store, err := replay.NewStore(cfg.Replay.StoreConfig(), log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open replay store")
	}
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := monitoring.NewGoroutineMonitor(log.Logger)
	monitor.Start(ctx)

	gameManager := gameserver.NewGameManager(ctx, gameserver.ManagerConfig{
		MaxGames:             srvCfg.MaxGames,
		TickInterval:         tick,
		FinishedGameTTL:      time.Duration(srvCfg.FinishedGameTTL) * time.Second,
		AbandonedGameTimeout: time.Duration(srvCfg.AbandonedGameTimeout) * time.Second,
		CleanupInterval:      time.Duration(srvCfg.CleanupInterval) * time.Second,
		StreamBufferSize:     srvCfg.StreamBufferSize,
		Defaults: &sweeperv1.BoardConfig{
			Difficulty:           board.Name,
			Width:                int32(board.Width),
			Height:               int32(board.Height),
			Mines:                int32(board.Mines),
			LossOnFlagExhaustion: cfg.Game.Rules.LossOnFlagExhaustion,
			WinRule:              cfg.Game.Rules.WinRule,
			Seed:                 cfg.Game.Seed,
		},
		FlagBudget:    cfg.Game.Rules.MaxFlags,
		ReplayStore:   store,
		ReplayMaxKept: cfg.Replay.MaxKept,
		Stats:         subscribers.NewStatsSubscriber("server-stats"),
		Monitor:       monitor,
		Logger:        log.Logger,
	})
	defer gameManager.Close()

	log.Info().
		Str("address", srvCfg.Address()).
		Dur("tick_interval", tick).
		Int("max_games", srvCfg.MaxGames).
		Str("default_board", board.String()).
		Bool("replays", store != nil).
		Msg("Starting gRPC minesweeper server")

	lis, err := net.Listen("tcp", srvCfg.Address())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
		grpc.ChainStreamInterceptor(
			streamLoggingInterceptor,
			streamRecoveryInterceptor,
		),
	)

	sweeperv1.RegisterSweeperServiceServer(grpcServer, gameserver.NewServer(gameManager, log.Logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(sweeperv1.SweeperService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if srvCfg.EnableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	// Log level follows the config file while running
	config.WatchConfig(func() {
		level := config.Get().Server.GRPCServer.LogLevel
		setupLogging(level)
		log.Info().Str("log_level", level).Msg("Configuration reloaded")
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(sweeperv1.SweeperService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(srvCfg.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()

	metrics := monitor.GetMetrics()
	log.Info().
		Int("peak_goroutines", metrics.Peak).
		Int("games_left", gameManager.GetActiveGames()).
		Msg("Server shutdown complete")
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
