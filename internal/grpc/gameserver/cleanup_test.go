package gameserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

type countingRegistry struct {
	counts map[string]int
}

func (r *countingRegistry) RegisterComponent(name string, count int) {
	r.counts[name] = count
}

func TestCleanupFinishedGames(t *testing.T) {
	gm := newTestManager(t, ManagerConfig{
		FinishedGameTTL:      time.Minute,
		AbandonedGameTimeout: time.Hour,
	})
	ctx := context.Background()

	finished, err := gm.CreateGame(ctx, twoCellBoard)
	require.NoError(t, err)
	_, err = finished.Reveal(0, 0, "")
	require.NoError(t, err)
	_, err = finished.Reveal(0, 1, "")
	require.NoError(t, err)

	running, err := gm.CreateGame(ctx, twoCellBoard)
	require.NoError(t, err)
	_, err = running.Reveal(0, 0, "")
	require.NoError(t, err)

	// Nothing is old enough yet
	assert.Equal(t, 0, gm.cleanupGames(time.Now()))
	assert.Equal(t, 2, gm.GetActiveGames())

	// Past the finished TTL only the decided game goes
	assert.Equal(t, 1, gm.cleanupGames(time.Now().Add(2*time.Minute)))
	_, err = gm.GetGame(finished.id)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.GetGame(running.id)
	assert.NoError(t, err)
}

func TestCleanupAbandonedGames(t *testing.T) {
	gm := newTestManager(t, ManagerConfig{
		FinishedGameTTL:      time.Minute,
		AbandonedGameTimeout: 30 * time.Minute,
	})

	session, err := gm.CreateGame(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, gm.cleanupGames(time.Now().Add(10*time.Minute)))
	assert.Equal(t, 1, gm.cleanupGames(time.Now().Add(31*time.Minute)))
	_, err = gm.GetGame(session.id)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestActivityPostponesCleanup(t *testing.T) {
	gm := newTestManager(t, ManagerConfig{AbandonedGameTimeout: time.Minute})

	session, err := gm.CreateGame(context.Background(), &sweeperv1.BoardConfig{Difficulty: "beginner"})
	require.NoError(t, err)

	session.mu.Lock()
	session.lastActivity = time.Now().Add(-2 * time.Minute)
	session.mu.Unlock()

	_, err = session.ToggleFlag(4, 4, "")
	require.NoError(t, err)
	assert.Equal(t, 0, gm.cleanupGames(time.Now()))
}

func TestCleanupClosesStreams(t *testing.T) {
	gm := newTestManager(t, ManagerConfig{AbandonedGameTimeout: time.Minute})

	session, err := gm.CreateGame(context.Background(), nil)
	require.NoError(t, err)
	client := session.streams.NewClient(context.Background())

	require.Equal(t, 1, gm.cleanupGames(time.Now().Add(time.Hour)))

	_, open := <-client.updateChan
	assert.False(t, open)
	assert.Equal(t, 0, session.streams.GetClientCount())
}

func TestMonitorReceivesGoroutineCounts(t *testing.T) {
	reg := &countingRegistry{counts: map[string]int{}}
	gm := newTestManager(t, ManagerConfig{TickInterval: time.Hour, Monitor: reg})

	s1, err := gm.CreateGame(context.Background(), nil)
	require.NoError(t, err)
	_, err = gm.CreateGame(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.counts["game_manager"])

	require.NoError(t, gm.DeleteGame(s1.id))
	assert.Equal(t, 2, reg.counts["game_manager"])
}
