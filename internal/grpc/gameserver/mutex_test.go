package gameserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

// TestConcurrentCommands hammers one session from several goroutines while
// the ticker and a stream consumer run. Run with -race.
func TestConcurrentCommands(t *testing.T) {
	gm := newTestManager(t, ManagerConfig{TickInterval: time.Millisecond})
	session, err := gm.CreateGame(context.Background(), &sweeperv1.BoardConfig{Difficulty: "intermediate", Seed: 99})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := session.streams.NewClient(ctx)
	go func() {
		for range client.updateChan {
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				row, col := (w*7+i)%16, (w*3+i*5)%16
				if i%3 == 0 {
					_, _ = session.ToggleFlag(row, col, "")
				} else {
					_, _ = session.Reveal(row, col, "")
				}
				_ = convertGameState(session.id, session.Engine())
			}
		}(w)
	}
	wg.Wait()

	st := session.Engine().State()
	assert.GreaterOrEqual(t, st.PlacedFlags, 0)
	assert.LessOrEqual(t, st.PlacedFlags, st.MaxFlags)

	flagged := 0
	for _, row := range session.Engine().Views() {
		for _, v := range row {
			if v.Kind == core.ViewFlagged {
				flagged++
			}
		}
	}
	assert.Equal(t, st.PlacedFlags, flagged)
}

func TestConcurrentRestartAndCommands(t *testing.T) {
	gm := newTestManager(t, ManagerConfig{})
	session, err := gm.CreateGame(context.Background(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			difficulty := ""
			if i%5 == 0 {
				difficulty = "beginner"
			}
			assert.NoError(t, session.Restart(context.Background(), difficulty))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = session.Reveal(i%9, (i/9)%9, "")
			_, _ = session.ToggleFlag((i+4)%9, i%9, "")
		}
	}()
	wg.Wait()

	assert.NotNil(t, session.Engine())
}
