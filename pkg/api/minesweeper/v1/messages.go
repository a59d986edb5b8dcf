// Package minesweeperv1 holds the wire messages, service descriptor and
// client of the SweeperService. Messages travel as JSON through the codec
// registered in codec.go.
package minesweeperv1

import "time"

// CellState is the player-visible state of a cell.
type CellState int32

const (
	CellState_CELL_STATE_UNSPECIFIED CellState = 0
	CellState_CELL_STATE_COVERED     CellState = 1
	CellState_CELL_STATE_FLAGGED     CellState = 2
	CellState_CELL_STATE_REVEALED    CellState = 3
	CellState_CELL_STATE_DETONATED   CellState = 4
)

var cellStateNames = map[CellState]string{
	CellState_CELL_STATE_UNSPECIFIED: "CELL_STATE_UNSPECIFIED",
	CellState_CELL_STATE_COVERED:     "CELL_STATE_COVERED",
	CellState_CELL_STATE_FLAGGED:     "CELL_STATE_FLAGGED",
	CellState_CELL_STATE_REVEALED:    "CELL_STATE_REVEALED",
	CellState_CELL_STATE_DETONATED:   "CELL_STATE_DETONATED",
}

func (s CellState) String() string {
	if name, ok := cellStateNames[s]; ok {
		return name
	}
	return "CELL_STATE_UNSPECIFIED"
}

// RoundStatus mirrors the round phase of a game.
type RoundStatus int32

const (
	RoundStatus_ROUND_STATUS_UNSPECIFIED RoundStatus = 0
	RoundStatus_ROUND_STATUS_NOT_STARTED RoundStatus = 1
	RoundStatus_ROUND_STATUS_IN_PROGRESS RoundStatus = 2
	RoundStatus_ROUND_STATUS_WON         RoundStatus = 3
	RoundStatus_ROUND_STATUS_LOST        RoundStatus = 4
)

var roundStatusNames = map[RoundStatus]string{
	RoundStatus_ROUND_STATUS_UNSPECIFIED: "ROUND_STATUS_UNSPECIFIED",
	RoundStatus_ROUND_STATUS_NOT_STARTED: "ROUND_STATUS_NOT_STARTED",
	RoundStatus_ROUND_STATUS_IN_PROGRESS: "ROUND_STATUS_IN_PROGRESS",
	RoundStatus_ROUND_STATUS_WON:         "ROUND_STATUS_WON",
	RoundStatus_ROUND_STATUS_LOST:        "ROUND_STATUS_LOST",
}

func (s RoundStatus) String() string {
	if name, ok := roundStatusNames[s]; ok {
		return name
	}
	return "ROUND_STATUS_UNSPECIFIED"
}

// IsTerminal reports whether the round has been won or lost.
func (s RoundStatus) IsTerminal() bool {
	return s == RoundStatus_ROUND_STATUS_WON || s == RoundStatus_ROUND_STATUS_LOST
}

// BoardConfig describes the board of a game. A non-empty Difficulty selects
// a preset and overrides Width, Height and Mines.
type BoardConfig struct {
	Difficulty           string `json:"difficulty,omitempty"`
	Width                int32  `json:"width,omitempty"`
	Height               int32  `json:"height,omitempty"`
	Mines                int32  `json:"mines,omitempty"`
	MaxFlags             int32  `json:"max_flags,omitempty"`
	LossOnFlagExhaustion bool   `json:"loss_on_flag_exhaustion,omitempty"`
	WinRule              string `json:"win_rule,omitempty"`
	Seed                 int64  `json:"seed,omitempty"`
}

// Cell is one cell of a GameState or a change list. Score is only set for
// revealed cells.
type Cell struct {
	Row   int32     `json:"row"`
	Col   int32     `json:"col"`
	State CellState `json:"state"`
	Score int32     `json:"score,omitempty"`
}

// GameState is the full visible state of a game. Cells are row-major.
type GameState struct {
	GameId         string      `json:"game_id"`
	Round          int32       `json:"round"`
	Status         RoundStatus `json:"status"`
	Width          int32       `json:"width"`
	Height         int32       `json:"height"`
	Mines          int32       `json:"mines"`
	MaxFlags       int32       `json:"max_flags"`
	PlacedFlags    int32       `json:"placed_flags"`
	ElapsedSeconds int32       `json:"elapsed_seconds"`
	Cells          []*Cell     `json:"cells"`
}

// CellAt returns the cell at (row, col), or nil when out of range.
func (g *GameState) CellAt(row, col int32) *Cell {
	if g == nil || row < 0 || col < 0 || row >= g.Height || col >= g.Width {
		return nil
	}
	idx := int(row*g.Width + col)
	if idx >= len(g.Cells) {
		return nil
	}
	return g.Cells[idx]
}

type CreateGameRequest struct {
	Config *BoardConfig `json:"config,omitempty"`
}

type CreateGameResponse struct {
	GameId string       `json:"game_id"`
	Config *BoardConfig `json:"config"`
	State  *GameState   `json:"state"`
}

type GetGameRequest struct {
	GameId string `json:"game_id"`
}

type GetGameResponse struct {
	State *GameState `json:"state"`
}

// RevealRequest reveals (Row, Col).
type RevealRequest struct {
	GameId         string `json:"game_id"`
	Row            int32  `json:"row"`
	Col            int32  `json:"col"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ToggleFlagRequest places or removes a flag at (Row, Col). A repeated
// IdempotencyKey returns the first response instead of toggling again.
type ToggleFlagRequest struct {
	GameId         string `json:"game_id"`
	Row            int32  `json:"row"`
	Col            int32  `json:"col"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// MoveResponse answers Reveal and ToggleFlag.
type MoveResponse struct {
	Changes        []*Cell     `json:"changes,omitempty"`
	Status         RoundStatus `json:"status"`
	PlacedFlags    int32       `json:"placed_flags"`
	ElapsedSeconds int32       `json:"elapsed_seconds"`
}

// RestartRequest starts a new round. A non-empty Difficulty rebuilds the
// board from that preset first.
type RestartRequest struct {
	GameId     string `json:"game_id"`
	Difficulty string `json:"difficulty,omitempty"`
}

type RestartResponse struct {
	State *GameState `json:"state"`
}

type DeleteGameRequest struct {
	GameId string `json:"game_id"`
}

type DeleteGameResponse struct {
	Deleted bool `json:"deleted"`
}

type StreamGameRequest struct {
	GameId string `json:"game_id"`
}

// UpdateKind tells which fields of a GameUpdate are set.
type UpdateKind int32

const (
	UpdateKind_UPDATE_KIND_UNSPECIFIED UpdateKind = 0
	UpdateKind_UPDATE_KIND_FULL_STATE  UpdateKind = 1
	UpdateKind_UPDATE_KIND_CHANGES     UpdateKind = 2
	UpdateKind_UPDATE_KIND_TICK        UpdateKind = 3
	UpdateKind_UPDATE_KIND_STATUS      UpdateKind = 4
)

// GameUpdate is one message of the StreamGame server stream.
//
//   - FULL_STATE: State is set (first message and after a restart)
//   - CHANGES: Changes holds the cells a command changed
//   - TICK: only the counters are set
//   - STATUS: Status changed; Reason says why
type GameUpdate struct {
	Kind           UpdateKind  `json:"kind"`
	State          *GameState  `json:"state,omitempty"`
	Changes        []*Cell     `json:"changes,omitempty"`
	Status         RoundStatus `json:"status"`
	Reason         string      `json:"reason,omitempty"`
	PlacedFlags    int32       `json:"placed_flags"`
	ElapsedSeconds int32       `json:"elapsed_seconds"`
	Timestamp      time.Time   `json:"timestamp"`
}
