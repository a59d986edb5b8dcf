package ui

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/mitchelldurbincs/minesweeper/internal/config"
	"github.com/mitchelldurbincs/minesweeper/internal/game"
	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/minesweeper/internal/testutil"
	"github.com/mitchelldurbincs/minesweeper/internal/ui/input"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

var testUIConfig = config.UIConfig{
	Game: config.UIGameConfig{TileSize: 24, StatusBarHeight: 32, TicksPerSecond: 4},
}

// twoCellEngine is a 1x2 board whose only mine lands on (0,1) when (0,0)
// is revealed first
func twoCellEngine(t *testing.T) *game.Engine {
	t.Helper()
	engine, err := game.NewEngine(context.Background(), game.GameConfig{
		Width:  2,
		Height: 1,
		Mines:  1,
		Rng:    testutil.MinesAt(core.NewCoordinate(0, 1)),
		Logger: testutil.NopLogger(),
	})
	require.NoError(t, err)
	return engine
}

func TestUIGameRevealAndTimer(t *testing.T) {
	backend, err := NewLocalBackend(twoCellEngine(t), nil)
	require.NoError(t, err)
	g := NewUIGame(backend, testUIConfig, config.ColorsConfig{}, testutil.NopLogger())

	w, h := g.Layout(0, 0)
	assert.Equal(t, 48, w)
	assert.Equal(t, 56, h)

	g.apply(input.Action{Kind: input.ActionReveal, Row: 0, Col: 0})
	snap := backend.Snapshot()
	assert.Equal(t, game.StatusInProgress, snap.Status)
	assert.Equal(t, core.CellView{Kind: core.ViewRevealed, Score: 1}, snap.Views[0][0])

	for i := 0; i < 2*testUIConfig.Game.TicksPerSecond; i++ {
		g.advanceFrame()
	}
	assert.Equal(t, 2, backend.Snapshot().ElapsedSeconds)

	g.apply(input.Action{Kind: input.ActionFlag, Row: 0, Col: 1})
	assert.Equal(t, game.StatusWon, backend.Snapshot().Status)
	assert.Equal(t, "cleared!", g.statusMessage)

	g.apply(input.Action{Kind: input.ActionReveal, Row: 0, Col: 0})
	assert.Equal(t, "press R", g.statusMessage)
}

func TestUIGameRestartAndResize(t *testing.T) {
	factory := func(difficulty string) (*game.Engine, error) {
		preset, err := game.PresetByName(difficulty)
		if err != nil {
			return nil, err
		}
		return game.NewEngine(context.Background(), preset.Apply(game.GameConfig{Seed: 3, Logger: testutil.NopLogger()}))
	}
	backend, err := NewLocalBackend(twoCellEngine(t), factory)
	require.NoError(t, err)
	g := NewUIGame(backend, testUIConfig, config.ColorsConfig{}, testutil.NopLogger())

	var resized [2]int
	g.OnResize(func(w, h int) { resized = [2]int{w, h} })

	g.apply(input.Action{Kind: input.ActionDifficulty, Difficulty: "expert"})
	assert.Equal(t, [2]int{30 * 24, 32 + 16*24}, resized)
	assert.Equal(t, 30, g.layout.Cols)
	assert.Equal(t, 99, backend.Snapshot().FlagsRemaining)

	w, h := g.WindowSize(2)
	assert.Equal(t, 2*30*24, w)
	assert.Equal(t, 2*(32+16*24), h)

	g.apply(input.Action{Kind: input.ActionDifficulty, Difficulty: "nightmare"})
	assert.Contains(t, g.statusMessage, "error")
	assert.Equal(t, 30, g.layout.Cols)

	g.apply(input.Action{Kind: input.ActionReveal, Row: 0, Col: 0})
	g.apply(input.Action{Kind: input.ActionRestart})
	assert.Equal(t, game.StatusNotStarted, backend.Snapshot().Status)
}

func TestLocalBackendWithoutFactory(t *testing.T) {
	backend, err := NewLocalBackend(twoCellEngine(t), nil)
	require.NoError(t, err)

	// difficulty switches fall back to a plain restart
	require.NoError(t, backend.Restart("expert"))
	assert.Equal(t, 2, backend.Snapshot().Cols)
	assert.NoError(t, backend.Close())
}

func setupRemote(t *testing.T) (sweeperv1.SweeperServiceClient, *gameserver.GameManager) {
	t.Helper()
	gm := gameserver.NewGameManager(context.Background(), gameserver.ManagerConfig{
		CleanupInterval: time.Hour,
		Logger:          testutil.NopLogger(),
	})
	t.Cleanup(gm.Close)

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	sweeperv1.RegisterSweeperServiceServer(s, gameserver.NewServer(gm, testutil.NopLogger()))
	go func() { _ = s.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		s.Stop()
		lis.Close()
	})
	return sweeperv1.NewSweeperServiceClient(conn), gm
}

func TestRemoteBackend(t *testing.T) {
	client, gm := setupRemote(t)

	backend, err := NewRemoteBackend(context.Background(), client,
		&sweeperv1.BoardConfig{Width: 2, Height: 1, Mines: 1}, testutil.NopLogger())
	require.NoError(t, err)

	snap := backend.Snapshot()
	assert.Equal(t, 1, snap.Rows)
	assert.Equal(t, 2, snap.Cols)
	assert.Equal(t, game.StatusNotStarted, snap.Status)

	require.NoError(t, backend.Reveal(0, 0))
	assert.Eventually(t, func() bool {
		s := backend.Snapshot()
		return s.Status == game.StatusInProgress && s.Views[0][0] == core.CellView{Kind: core.ViewRevealed, Score: 1}
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, backend.ToggleFlag(0, 1))
	assert.Eventually(t, func() bool {
		s := backend.Snapshot()
		return s.Status == game.StatusWon && s.FlagsRemaining == 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, backend.Restart(""))
	assert.Eventually(t, func() bool {
		s := backend.Snapshot()
		return s.Status == game.StatusNotStarted && s.Views[0][1].Kind == core.ViewCovered
	}, time.Second, 5*time.Millisecond)

	assert.Error(t, backend.Reveal(5, 5))

	require.NoError(t, backend.Close())
	_, err = gm.GetGame(backend.GameID())
	assert.ErrorIs(t, err, gameserver.ErrGameNotFound)
}

func TestSnapshotFromState(t *testing.T) {
	assert.Equal(t, Snapshot{}, snapshotFromState(nil))

	s := &sweeperv1.GameState{
		Width: 2, Height: 1, MaxFlags: 3, PlacedFlags: 1, ElapsedSeconds: 4,
		Status: sweeperv1.RoundStatus_ROUND_STATUS_LOST,
		Cells: []*sweeperv1.Cell{
			{Row: 0, Col: 0, State: sweeperv1.CellState_CELL_STATE_DETONATED},
			{Row: 0, Col: 1, State: sweeperv1.CellState_CELL_STATE_REVEALED, Score: 1},
		},
	}
	snap := snapshotFromState(s)
	assert.Equal(t, game.StatusLost, snap.Status)
	assert.Equal(t, 2, snap.FlagsRemaining)
	assert.Equal(t, 4, snap.ElapsedSeconds)
	assert.Equal(t, [][]core.CellView{{{Kind: core.ViewDetonated}, {Kind: core.ViewRevealed, Score: 1}}}, snap.Views)
}
