package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

var (
	createOpts     sweeperv1.BoardConfig
	restartLevel   string
	idempotencyKey string
	noColor        bool
)

func init() {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		Long: `Create a game from a difficulty preset or a custom board.

Examples:
  sweeper create
  sweeper create --difficulty intermediate
  sweeper create --width 20 --height 10 --mines 30 --max-flags 60`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}
	createCmd.Flags().StringVarP(&createOpts.Difficulty, "difficulty", "d", "", "Preset name (beginner, intermediate, expert)")
	createCmd.Flags().Int32Var(&createOpts.Width, "width", 0, "Custom board width")
	createCmd.Flags().Int32Var(&createOpts.Height, "height", 0, "Custom board height")
	createCmd.Flags().Int32Var(&createOpts.Mines, "mines", 0, "Custom mine count")
	createCmd.Flags().Int32Var(&createOpts.MaxFlags, "max-flags", 0, "Flag budget (0 uses the server policy)")
	createCmd.Flags().BoolVar(&createOpts.LossOnFlagExhaustion, "flag-exhaustion-loses", false, "Lose when the last flag is placed on a non-mine")
	createCmd.Flags().StringVar(&createOpts.WinRule, "win-rule", "", "Win rule: flags or reveal")
	createCmd.Flags().Int64Var(&createOpts.Seed, "seed", 0, "Fix mine placement")

	getCmd := &cobra.Command{
		Use:   "get <game-id>",
		Short: "Print the board of a game",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}

	revealCmd := &cobra.Command{
		Use:   "reveal <game-id> <row> <col>",
		Short: "Reveal a cell",
		Args:  cobra.ExactArgs(3),
		RunE:  runMove(false),
	}
	flagCmd := &cobra.Command{
		Use:   "flag <game-id> <row> <col>",
		Short: "Place or remove a flag",
		Args:  cobra.ExactArgs(3),
		RunE:  runMove(true),
	}
	for _, c := range []*cobra.Command{revealCmd, flagCmd} {
		c.Flags().StringVarP(&idempotencyKey, "key", "k", "", "Idempotency key (random when empty)")
	}

	restartCmd := &cobra.Command{
		Use:   "restart <game-id>",
		Short: "Start a new round, optionally on another preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runRestart,
	}
	restartCmd.Flags().StringVarP(&restartLevel, "difficulty", "d", "", "Preset for the new round")

	deleteCmd := &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	streamCmd := &cobra.Command{
		Use:   "stream <game-id>",
		Short: "Follow a game until it is deleted",
		Args:  cobra.ExactArgs(1),
		RunE:  runStream,
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	rootCmd.AddCommand(createCmd, getCmd, revealCmd, flagCmd, restartCmd, deleteCmd, streamCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, closeConn, err := dial()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := unaryContext(cmd.Context())
	defer cancel()

	resp, err := client.CreateGame(ctx, &sweeperv1.CreateGameRequest{Config: &createOpts})
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "game %s\n", resp.GameId)
	fmt.Fprint(cmd.OutOrStdout(), renderState(resp.State, !noColor))
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	client, closeConn, err := dial()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := unaryContext(cmd.Context())
	defer cancel()

	resp, err := client.GetGame(ctx, &sweeperv1.GetGameRequest{GameId: args[0]})
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderState(resp.State, !noColor))
	return nil
}

func runMove(flag bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		row, col, err := parseCoordinate(args[1], args[2])
		if err != nil {
			return err
		}
		key := idempotencyKey
		if key == "" {
			key = uuid.NewString()
		}

		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := unaryContext(cmd.Context())
		defer cancel()

		var resp *sweeperv1.MoveResponse
		if flag {
			resp, err = client.ToggleFlag(ctx, &sweeperv1.ToggleFlagRequest{GameId: args[0], Row: row, Col: col, IdempotencyKey: key})
		} else {
			resp, err = client.Reveal(ctx, &sweeperv1.RevealRequest{GameId: args[0], Row: row, Col: col, IdempotencyKey: key})
		}
		if err != nil {
			return err
		}
		log.Debug().Str("key", key).Int("changes", len(resp.Changes)).Msg("Move applied")

		fmt.Fprintf(cmd.OutOrStdout(), "%d cell(s) changed, %s, flags %d, %ds\n",
			len(resp.Changes), statusLabel(resp.Status), resp.PlacedFlags, resp.ElapsedSeconds)

		state, err := client.GetGame(ctx, &sweeperv1.GetGameRequest{GameId: args[0]})
		if err != nil {
			return fmt.Errorf("get game: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderState(state.State, !noColor))
		return nil
	}
}

func runRestart(cmd *cobra.Command, args []string) error {
	client, closeConn, err := dial()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := unaryContext(cmd.Context())
	defer cancel()

	resp, err := client.Restart(ctx, &sweeperv1.RestartRequest{GameId: args[0], Difficulty: restartLevel})
	if err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderState(resp.State, !noColor))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, closeConn, err := dial()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := unaryContext(cmd.Context())
	defer cancel()

	resp, err := client.DeleteGame(ctx, &sweeperv1.DeleteGameRequest{GameId: args[0]})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if !resp.Deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "game %s not found\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "game %s deleted\n", args[0])
	return nil
}

func runStream(cmd *cobra.Command, args []string) error {
	client, closeConn, err := dial()
	if err != nil {
		return err
	}
	defer closeConn()

	stream, err := client.StreamGame(cmd.Context(), &sweeperv1.StreamGameRequest{GameId: args[0]})
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}

	var board *sweeperv1.GameState
	for {
		update, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(cmd.OutOrStdout(), "stream closed by server")
			return nil
		}
		if err != nil {
			return err
		}
		board = sweeperv1.ApplyUpdate(board, update)
		if line := describeUpdate(update); line != "" {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		if update.Kind != sweeperv1.UpdateKind_UPDATE_KIND_TICK && board != nil {
			fmt.Fprint(cmd.OutOrStdout(), renderState(board, !noColor))
		}
	}
}

func parseCoordinate(rowArg, colArg string) (int32, int32, error) {
	row, err := strconv.ParseInt(rowArg, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q: %w", rowArg, err)
	}
	col, err := strconv.ParseInt(colArg, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col %q: %w", colArg, err)
	}
	return int32(row), int32(col), nil
}
