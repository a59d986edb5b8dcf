package subscribers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
)

func TestStatsSubscriber(t *testing.T) {
	bus := events.NewEventBus()
	stats := subscribers.NewStatsSubscriber("stats")
	bus.Subscribe(stats)

	assert.True(t, stats.InterestedIn(events.TypeRoundWon))
	assert.False(t, stats.InterestedIn(events.TypeFlagToggled))

	bus.Publish(events.NewRoundWonEvent("g", events.RoundMetadata{ElapsedSeconds: 80}, 9, 9, 10))
	bus.Publish(events.NewRoundWonEvent("g", events.RoundMetadata{ElapsedSeconds: 45}, 9, 9, 10))
	bus.Publish(events.NewRoundWonEvent("g", events.RoundMetadata{ElapsedSeconds: 60}, 9, 9, 10))
	bus.Publish(events.NewRoundLostEvent("g", events.RoundMetadata{}, core.Coordinate{}, events.LossDetonation, 9, 9, 10))
	bus.Publish(events.NewRoundLostEvent("g", events.RoundMetadata{}, core.Coordinate{}, events.LossDetonation, 30, 16, 99))

	beginner, ok := stats.Get(9, 9, 10)
	require.True(t, ok)
	assert.Equal(t, 4, beginner.Played)
	assert.Equal(t, 3, beginner.Won)
	assert.Equal(t, 1, beginner.Lost)
	assert.Equal(t, 45, beginner.BestSeconds)
	assert.InDelta(t, 0.75, beginner.WinRate(), 1e-9)

	expert, ok := stats.Get(30, 16, 99)
	require.True(t, ok)
	assert.Equal(t, -1, expert.BestSeconds)
	assert.Equal(t, 0.0, expert.WinRate())

	_, ok = stats.Get(16, 16, 40)
	assert.False(t, ok)

	snap := stats.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "30x16/99", snap[0].Shape)
	assert.Equal(t, "9x9/10", snap[1].Shape)
}
