package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

var demoRounds int

func init() {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Watch a random player",
		Long: `Watch a player that reveals random covered cells and sometimes
plants a flag. Move limit and delay come from server.game_server.demo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
	demoCmd.Flags().IntVarP(&demoRounds, "rounds", "r", 1, "Rounds to play")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(ctx context.Context, out io.Writer) error {
	cfg := config.Get()
	g, err := newLocalGame(ctx, cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	rngSeed := cfg.Game.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	fmt.Fprintf(out, "Demo seed: %d\n", rngSeed)
	rng := rand.New(rand.NewSource(rngSeed))
	delay := time.Duration(cfg.Server.GameServer.Demo.DelayMs) * time.Millisecond

	for round := 0; round < demoRounds; round++ {
		if round > 0 {
			if err := g.engine.InitRound(); err != nil {
				return err
			}
		}
		status := playRandomRound(ctx, g.engine, rng, cfg.Server.GameServer.Demo.MaxMoves, delay, out)
		fmt.Fprintf(out, "Round %d finished: %s\n\n", round+1, status)
	}
	printStats(out, g.stats)
	return nil
}

// playRandomRound plays until the round ends, the move limit is hit or ctx
// is cancelled, and returns the final status
func playRandomRound(ctx context.Context, engine *game.Engine, rng *rand.Rand, maxMoves int, delay time.Duration, out io.Writer) game.Status {
	for move := 0; maxMoves <= 0 || move < maxMoves; move++ {
		if ctx.Err() != nil {
			break
		}
		state := engine.State()
		if state.Status.IsTerminal() {
			break
		}

		m, ok := chooseMove(engine.Views(), state.FlagsRemaining() > 0, rng)
		if !ok {
			break
		}

		var err error
		if m.action == actionFlag {
			_, err = engine.ToggleFlag(m.row, m.col)
		} else {
			_, err = engine.RevealCell(m.row, m.col)
		}
		if err != nil {
			log.Warn().Err(err).Int("row", m.row).Int("col", m.col).Msg("Demo move rejected")
			break
		}

		verb := "reveal"
		if m.action == actionFlag {
			verb = "flag"
		}
		fmt.Fprintf(out, "Move %d: %s (%d,%d)\n%s\n", move+1, verb, m.row, m.col, engine.Render(game.RenderOptions{Color: !noColor}))

		if delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}
	return engine.State().Status
}

// chooseMove picks a random covered cell. One move in five is a flag while
// the budget allows it.
func chooseMove(views [][]core.CellView, canFlag bool, rng *rand.Rand) (command, bool) {
	var covered []command
	for r, row := range views {
		for c, v := range row {
			if v.Kind == core.ViewCovered {
				covered = append(covered, command{row: r, col: c})
			}
		}
	}
	if len(covered) == 0 {
		return command{}, false
	}

	m := covered[rng.Intn(len(covered))]
	m.action = actionReveal
	if canFlag && rng.Intn(5) == 0 {
		m.action = actionFlag
	}
	return m, true
}
