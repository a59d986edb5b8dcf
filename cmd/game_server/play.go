package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
)

const playHelp = `commands:
  r <row> <col>   reveal a cell
  f <row> <col>   toggle a flag
  n               new round
  s               statistics
  q               quit`

type action int

const (
	actionReveal action = iota
	actionFlag
	actionNew
	actionStats
	actionHelp
	actionQuit
)

type command struct {
	action   action
	row, col int
}

var errUnknownCommand = errors.New("unknown command")

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(playCmd)
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{action: actionHelp}, nil
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return command{action: actionQuit}, nil
	case "n", "new":
		return command{action: actionNew}, nil
	case "s", "stats":
		return command{action: actionStats}, nil
	case "h", "help", "?":
		return command{action: actionHelp}, nil
	case "r", "reveal", "f", "flag":
		if len(fields) != 3 {
			return command{}, fmt.Errorf("%s needs a row and a column", fields[0])
		}
		row, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid row %q", fields[1])
		}
		col, err := strconv.Atoi(fields[2])
		if err != nil {
			return command{}, fmt.Errorf("invalid col %q", fields[2])
		}
		act := actionReveal
		if fields[0][0] == 'f' {
			act = actionFlag
		}
		return command{action: act, row: row, col: col}, nil
	}
	return command{}, fmt.Errorf("%w: %q", errUnknownCommand, fields[0])
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := config.Get()
	g, err := newLocalGame(ctx, cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	go tickEverySecond(ctx, g.engine)

	fmt.Fprintln(out, playHelp)
	fmt.Fprint(out, g.render(cfg.Development.ShowMines))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		var res game.Result
		switch cmd.action {
		case actionQuit:
			return nil
		case actionHelp:
			fmt.Fprintln(out, playHelp)
			continue
		case actionStats:
			printStats(out, g.stats)
			continue
		case actionNew:
			err = g.engine.InitRound()
		case actionReveal:
			res, err = g.engine.RevealCell(cmd.row, cmd.col)
		case actionFlag:
			res, err = g.engine.ToggleFlag(cmd.row, cmd.col)
		}
		if err != nil {
			fmt.Fprintln(out, describeError(err))
			continue
		}

		log.Debug().Int("changes", len(res.Changes)).Str("status", res.Status.String()).Msg("Command applied")
		fmt.Fprint(out, g.render(cfg.Development.ShowMines))

		switch res.Status {
		case game.StatusWon:
			fmt.Fprintf(out, "You win in %ds! Type n for a new round.\n", res.ElapsedSeconds)
		case game.StatusLost:
			fmt.Fprintln(out, "Boom. Type n for a new round.")
		}
	}
}

func tickEverySecond(ctx context.Context, engine *game.Engine) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := engine.TickTimer(); err != nil {
				log.Debug().Err(err).Msg("Timer tick rejected")
			}
		}
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, core.ErrOutOfBounds):
		return "that cell is off the board"
	case errors.Is(err, core.ErrRoundOver):
		return "the round is over, type n for a new one"
	}
	return err.Error()
}

func printStats(out io.Writer, stats *subscribers.StatsSubscriber) {
	records := stats.Snapshot()
	if len(records) == 0 {
		fmt.Fprintln(out, "no finished rounds yet")
		return
	}
	for _, r := range records {
		best := "-"
		if r.BestSeconds >= 0 {
			best = fmt.Sprintf("%ds", r.BestSeconds)
		}
		fmt.Fprintf(out, "%-10s played %d  won %d  lost %d  win rate %.0f%%  best %s\n",
			r.Shape, r.Played, r.Won, r.Lost, 100*r.WinRate(), best)
	}
}
