package replay

import (
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

// StepKind identifies a recorded command.
type StepKind string

const (
	StepReveal StepKind = "reveal"
	StepFlag   StepKind = "flag"
)

// Outcome is how a recorded round ended.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Step is one command that changed the board.
type Step struct {
	Seq            int       `json:"seq"`
	Kind           StepKind  `json:"kind"`
	Row            int       `json:"row"`
	Col            int       `json:"col"`
	Flagged        bool      `json:"flagged,omitempty"`
	Changed        int       `json:"changed"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	At             time.Time `json:"at"`
}

// Rules are the engine settings needed to reproduce a round.
type Rules struct {
	MaxFlags             int    `json:"max_flags"`
	WinRule              string `json:"win_rule"`
	LossOnFlagExhaustion bool   `json:"loss_on_flag_exhaustion"`
	Seed                 int64  `json:"seed"`
}

// Record is a complete round: board shape, mine layout and every command.
type Record struct {
	ID              string          `json:"id"`
	GameID          string          `json:"game_id"`
	Round           int             `json:"round"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	Mines           int             `json:"mines"`
	Rules           Rules           `json:"rules"`
	FirstClick      core.Coordinate `json:"first_click"`
	ExclusionRadius int             `json:"exclusion_radius"`
	MineIndices     []int           `json:"mine_indices"`
	Steps           []Step          `json:"steps"`
	Outcome         Outcome         `json:"outcome"`
	LossReason      string          `json:"loss_reason,omitempty"`
	ElapsedSeconds  int             `json:"elapsed_seconds"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         time.Time       `json:"ended_at"`
}

// Finished reports whether the round reached an outcome.
func (r *Record) Finished() bool { return r.Outcome != "" }
