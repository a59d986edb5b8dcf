package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/replay"
)

var errReplaysDisabled = errors.New("replay recording is disabled (set replay.enabled)")

func init() {
	replaysCmd := &cobra.Command{
		Use:   "replays",
		Short: "Inspect recorded rounds",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store replay.Store) error {
				return listReplays(cmd.Context(), store, cmd.OutOrStdout())
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <replay-id>",
		Short: "Replay a recorded round and print the final board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store replay.Store) error {
				return showReplay(cmd.Context(), store, args[0], cmd.OutOrStdout())
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <replay-id>",
		Short: "Delete a recorded round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store replay.Store) error {
				return store.Delete(cmd.Context(), args[0])
			})
		},
	}

	replaysCmd.AddCommand(listCmd, showCmd, deleteCmd)
	rootCmd.AddCommand(replaysCmd)
}

func withStore(fn func(replay.Store) error) error {
	store, err := replay.NewStore(config.Get().Replay.StoreConfig(), log.Logger)
	if err != nil {
		return err
	}
	if store == nil {
		return errReplaysDisabled
	}
	defer store.Close()
	return fn(store)
}

func listReplays(ctx context.Context, store replay.Store, out io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "no recorded rounds")
		return nil
	}
	for _, id := range ids {
		rec, err := store.Load(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("replay_id", id).Msg("Skipping unreadable replay")
			continue
		}
		fmt.Fprintf(out, "%s  %dx%d/%d  %-4s  %3ds  %d steps  %s\n",
			rec.ID, rec.Width, rec.Height, rec.Mines, rec.Outcome,
			rec.ElapsedSeconds, len(rec.Steps), rec.EndedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showReplay(ctx context.Context, store replay.Store, id string, out io.Writer) error {
	rec, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	engine, err := replay.Play(ctx, rec, log.Logger)
	if err != nil {
		return fmt.Errorf("replay %s: %w", id, err)
	}

	fmt.Fprintf(out, "round %d of game %s, first click (%d,%d), %s",
		rec.Round, rec.GameID, rec.FirstClick.Row, rec.FirstClick.Col, rec.Outcome)
	if rec.LossReason != "" {
		fmt.Fprintf(out, " (%s)", rec.LossReason)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, engine.Render(game.RenderOptions{Color: !noColor, ShowMines: true}))
	return nil
}
