package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

var clientScoreColors = [9]string{
	game.ColorGray, game.ColorBlue, game.ColorGreen, game.ColorRed, game.ColorPurple,
	game.ColorYellow, game.ColorCyan, game.ColorWhite, game.ColorGray,
}

// renderState draws a wire GameState with the same symbols the engine uses
func renderState(s *sweeperv1.GameState, color bool) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("   ")
	for c := int32(0); c < s.Width; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteString("\n")

	for r := int32(0); r < s.Height; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := int32(0); c < s.Width; c++ {
			code, symbol := cellSymbol(s.CellAt(r, c))
			sb.WriteString(" ")
			if color && code != "" {
				sb.WriteString(code + symbol + game.ColorReset)
			} else {
				sb.WriteString(symbol)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nround %d  %s  flags %d/%d  time %ds\n",
		s.Round, statusLabel(s.Status), s.PlacedFlags, s.MaxFlags, s.ElapsedSeconds)
	return sb.String()
}

func cellSymbol(cell *sweeperv1.Cell) (string, string) {
	if cell == nil {
		return "", "?"
	}
	switch cell.State {
	case sweeperv1.CellState_CELL_STATE_DETONATED:
		return game.BgRed, game.DetonatedSymbol
	case sweeperv1.CellState_CELL_STATE_FLAGGED:
		return game.ColorRed, game.FlagSymbol
	case sweeperv1.CellState_CELL_STATE_REVEALED:
		if cell.Score == 0 {
			return game.ColorGray, game.EmptySymbol
		}
		if cell.Score > 0 && cell.Score < int32(len(clientScoreColors)) {
			return clientScoreColors[cell.Score], strconv.Itoa(int(cell.Score))
		}
		return "", strconv.Itoa(int(cell.Score))
	}
	return "", game.CoveredSymbol
}

func statusLabel(s sweeperv1.RoundStatus) string {
	switch s {
	case sweeperv1.RoundStatus_ROUND_STATUS_NOT_STARTED:
		return "not started"
	case sweeperv1.RoundStatus_ROUND_STATUS_IN_PROGRESS:
		return "in progress"
	case sweeperv1.RoundStatus_ROUND_STATUS_WON:
		return "won"
	case sweeperv1.RoundStatus_ROUND_STATUS_LOST:
		return "lost"
	}
	return "unknown"
}

func describeUpdate(u *sweeperv1.GameUpdate) string {
	switch u.Kind {
	case sweeperv1.UpdateKind_UPDATE_KIND_FULL_STATE:
		return "-- new round --"
	case sweeperv1.UpdateKind_UPDATE_KIND_CHANGES:
		return fmt.Sprintf("-- %d cell(s) changed --", len(u.Changes))
	case sweeperv1.UpdateKind_UPDATE_KIND_TICK:
		return ""
	case sweeperv1.UpdateKind_UPDATE_KIND_STATUS:
		if u.Reason != "" {
			return fmt.Sprintf("-- round %s (%s) --", statusLabel(u.Status), u.Reason)
		}
		return fmt.Sprintf("-- round %s --", statusLabel(u.Status))
	}
	return ""
}
