package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

var (
	serverAddr string
	rpcTimeout time.Duration
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Command line client for the minesweeper gRPC server",
	Long: `Create, play and watch games hosted by the minesweeper gRPC server.

Examples:
  sweeper create --difficulty expert
  sweeper reveal <game-id> 3 4
  sweeper flag <game-id> 0 0
  sweeper stream <game-id>`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "addr", "a", "localhost:50051", "Server address")
	rootCmd.PersistentFlags().DurationVar(&rpcTimeout, "timeout", 5*time.Second, "Timeout for unary calls")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dial connects to the server and returns a client with a close func
func dial() (sweeperv1.SweeperServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", serverAddr, err)
	}
	log.Debug().Str("addr", serverAddr).Msg("Connected")
	return sweeperv1.NewSweeperServiceClient(conn), func() { conn.Close() }, nil
}

func unaryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, rpcTimeout)
}
