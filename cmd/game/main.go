package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
)

func main() {
	// Quick demo: a seeded beginner board, opened from the centre then
	// swept left to right until the round ends
	cfg := game.Presets[0].Apply(game.GameConfig{Seed: 1, Logger: zerolog.Nop()})
	g, err := game.NewEngine(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := g.InitRound(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := g.RevealCell(cfg.Height/2, cfg.Width/2); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("After the first click:\n%s\n", g.Render(game.RenderOptions{Color: true}))

	for idx := 0; idx < cfg.Width*cfg.Height && !g.State().Status.IsTerminal(); idx++ {
		if _, err := g.RevealCell(idx/cfg.Width, idx%cfg.Width); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Final board:\n%s", g.Render(game.RenderOptions{Color: true, ShowMines: true}))
}
