package ui

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

const remoteCallTimeout = 3 * time.Second

// RemoteBackend plays a game hosted by the gRPC server. The board is kept
// current by the game's update stream; move responses are applied as well
// so the window does not wait for the stream.
type RemoteBackend struct {
	client sweeperv1.SweeperServiceClient
	gameID string
	logger zerolog.Logger

	mu    sync.RWMutex
	state *sweeperv1.GameState

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRemoteBackend creates a game on the server and follows its stream
func NewRemoteBackend(ctx context.Context, client sweeperv1.SweeperServiceClient, cfg *sweeperv1.BoardConfig, logger zerolog.Logger) (*RemoteBackend, error) {
	callCtx, cancel := context.WithTimeout(ctx, remoteCallTimeout)
	defer cancel()
	resp, err := client.CreateGame(callCtx, &sweeperv1.CreateGameRequest{Config: cfg})
	if err != nil {
		return nil, err
	}

	streamCtx, stop := context.WithCancel(ctx)
	stream, err := client.StreamGame(streamCtx, &sweeperv1.StreamGameRequest{GameId: resp.GameId})
	if err != nil {
		stop()
		return nil, err
	}

	b := &RemoteBackend{
		client: client,
		gameID: resp.GameId,
		logger: logger.With().Str("game_id", resp.GameId).Logger(),
		state:  resp.State,
		cancel: stop,
		done:   make(chan struct{}),
	}
	go b.follow(stream)
	b.logger.Info().Msg("Remote game created")
	return b, nil
}

// GameID is the server side id of the game
func (b *RemoteBackend) GameID() string { return b.gameID }

func (b *RemoteBackend) follow(stream sweeperv1.SweeperService_StreamGameClient) {
	defer close(b.done)
	for {
		update, err := stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				b.logger.Debug().Err(err).Msg("Update stream ended")
			}
			return
		}
		b.apply(update)
	}
}

func (b *RemoteBackend) apply(u *sweeperv1.GameUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if next := sweeperv1.ApplyUpdate(b.state, u); next != nil {
		b.state = next
	}
}

func (b *RemoteBackend) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return snapshotFromState(b.state)
}

func (b *RemoteBackend) Reveal(row, col int) error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
	defer cancel()
	resp, err := b.client.Reveal(ctx, &sweeperv1.RevealRequest{
		GameId: b.gameID, Row: int32(row), Col: int32(col), IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return err
	}
	b.applyMove(resp)
	return nil
}

func (b *RemoteBackend) ToggleFlag(row, col int) error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
	defer cancel()
	resp, err := b.client.ToggleFlag(ctx, &sweeperv1.ToggleFlagRequest{
		GameId: b.gameID, Row: int32(row), Col: int32(col), IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return err
	}
	b.applyMove(resp)
	return nil
}

func (b *RemoteBackend) applyMove(resp *sweeperv1.MoveResponse) {
	b.apply(&sweeperv1.GameUpdate{
		Kind:           sweeperv1.UpdateKind_UPDATE_KIND_CHANGES,
		Changes:        resp.Changes,
		Status:         resp.Status,
		PlacedFlags:    resp.PlacedFlags,
		ElapsedSeconds: resp.ElapsedSeconds,
	})
}

func (b *RemoteBackend) Restart(difficulty string) error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
	defer cancel()
	resp, err := b.client.Restart(ctx, &sweeperv1.RestartRequest{GameId: b.gameID, Difficulty: difficulty})
	if err != nil {
		return err
	}
	b.apply(&sweeperv1.GameUpdate{Kind: sweeperv1.UpdateKind_UPDATE_KIND_FULL_STATE, State: resp.State})
	return nil
}

// Tick is a no-op; the server runs the round timer
func (b *RemoteBackend) Tick() error { return nil }

// Close stops following the stream and deletes the game
func (b *RemoteBackend) Close() error {
	b.cancel()
	<-b.done

	ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
	defer cancel()
	_, err := b.client.DeleteGame(ctx, &sweeperv1.DeleteGameRequest{GameId: b.gameID})
	return err
}

func snapshotFromState(s *sweeperv1.GameState) Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Rows:           int(s.Height),
		Cols:           int(s.Width),
		Status:         statusFromWire(s.Status),
		FlagsRemaining: int(s.MaxFlags - s.PlacedFlags),
		ElapsedSeconds: int(s.ElapsedSeconds),
		Views:          make([][]core.CellView, s.Height),
	}
	for r := int32(0); r < s.Height; r++ {
		snap.Views[r] = make([]core.CellView, s.Width)
		for c := int32(0); c < s.Width; c++ {
			snap.Views[r][c] = viewFromWire(s.CellAt(r, c))
		}
	}
	return snap
}

func viewFromWire(c *sweeperv1.Cell) core.CellView {
	if c == nil {
		return core.CellView{Kind: core.ViewCovered}
	}
	switch c.State {
	case sweeperv1.CellState_CELL_STATE_FLAGGED:
		return core.CellView{Kind: core.ViewFlagged}
	case sweeperv1.CellState_CELL_STATE_REVEALED:
		return core.CellView{Kind: core.ViewRevealed, Score: int(c.Score)}
	case sweeperv1.CellState_CELL_STATE_DETONATED:
		return core.CellView{Kind: core.ViewDetonated}
	}
	return core.CellView{Kind: core.ViewCovered}
}

func statusFromWire(s sweeperv1.RoundStatus) game.Status {
	switch s {
	case sweeperv1.RoundStatus_ROUND_STATUS_IN_PROGRESS:
		return game.StatusInProgress
	case sweeperv1.RoundStatus_ROUND_STATUS_WON:
		return game.StatusWon
	case sweeperv1.RoundStatus_ROUND_STATUS_LOST:
		return game.StatusLost
	}
	return game.StatusNotStarted
}
