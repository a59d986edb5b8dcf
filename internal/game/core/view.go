package core

import "fmt"

// ViewKind is what the player sees on a cell.
type ViewKind int

const (
	ViewCovered ViewKind = iota
	ViewFlagged
	ViewRevealed
	ViewDetonated
)

func (k ViewKind) String() string {
	switch k {
	case ViewCovered:
		return "Covered"
	case ViewFlagged:
		return "Flagged"
	case ViewRevealed:
		return "Revealed"
	case ViewDetonated:
		return "Detonated"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// CellView is the player-visible state of a cell. Score is set only for
// revealed cells.
type CellView struct {
	Kind  ViewKind `json:"kind"`
	Score int      `json:"score,omitempty"`
}

func (v CellView) String() string {
	if v.Kind == ViewRevealed {
		return fmt.Sprintf("Revealed(%d)", v.Score)
	}
	return v.Kind.String()
}

// CellChange reports the new view of one cell after a command.
type CellChange struct {
	Row  int      `json:"row"`
	Col  int      `json:"col"`
	View CellView `json:"view"`
}
