package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeRoundReset))
	assert.True(t, logSub.InterestedIn(events.TypeTimerTicked))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "RoundResetEvent",
			event: events.NewRoundResetEvent("game-1", 3, 9, 9, 10, 10),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(3), logLine["round"])
				assert.Equal(t, float64(9), logLine["width"])
				assert.Equal(t, float64(10), logLine["mines"])
			},
		},
		{
			name:  "RoundStartedEvent",
			event: events.NewRoundStartedEvent("game-1", 1, core.Coordinate{Row: 4, Col: 5}, 1, []int{1, 2, 3}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(4), logLine["first_row"])
				assert.Equal(t, float64(5), logLine["first_col"])
				assert.Equal(t, float64(3), logLine["mines_placed"])
			},
		},
		{
			name: "CellsRevealedEvent",
			event: events.NewCellsRevealedEvent("game-1", events.RoundMetadata{}, core.Coordinate{Row: 0, Col: 0},
				[]core.CellChange{{Row: 0, Col: 0}, {Row: 0, Col: 1}}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["cells_changed"])
			},
		},
		{
			name:  "RoundLostEvent",
			event: events.NewRoundLostEvent("game-1", events.RoundMetadata{ElapsedSeconds: 12}, core.Coordinate{Row: 2, Col: 2}, events.LossDetonation, 3, 3, 1),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "detonation", logLine["reason"])
				assert.Equal(t, float64(12), logLine["elapsed_seconds"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

			logSub.HandleEvent(tc.event)

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Round event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "game-1", logLine["game_id"])
			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberFilterAndDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("filtered", zerolog.New(&buf), zerolog.DebugLevel)

	logSub.SetEventFilter([]string{events.TypeRoundWon})
	assert.True(t, logSub.InterestedIn(events.TypeRoundWon))
	assert.False(t, logSub.InterestedIn(events.TypeTimerTicked))

	logSub.SetDevMode(true)
	logSub.HandleEvent(events.NewRoundWonEvent("g", events.RoundMetadata{ElapsedSeconds: 5}, 9, 9, 10))
	assert.True(t, strings.Contains(buf.String(), "event_data"))
	assert.True(t, strings.Contains(buf.String(), `"level":"debug"`))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeTimerTicked))
}
