package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel {
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.RoundResetEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("width", e.Width).
			Int("height", e.Height).
			Int("mines", e.Mines).
			Int("max_flags", e.MaxFlags)

	case *events.RoundStartedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("first_row", e.FirstClick.Row).
			Int("first_col", e.FirstClick.Col).
			Int("exclusion_radius", e.ExclusionRadius).
			Int("mines_placed", len(e.MineIndices))

	case *events.CellsRevealedEvent:
		logEvent.
			Int("row", e.Origin.Row).
			Int("col", e.Origin.Col).
			Int("cells_changed", len(e.Changes))

	case *events.FlagToggledEvent:
		logEvent.
			Int("row", e.Cell.Row).
			Int("col", e.Cell.Col).
			Bool("flagged", e.Flagged).
			Int("placed_flags", e.Metadata.PlacedFlags)

	case *events.RoundWonEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("elapsed_seconds", e.Metadata.ElapsedSeconds)

	case *events.RoundLostEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("row", e.Cell.Row).
			Int("col", e.Cell.Col).
			Str("reason", e.Reason).
			Int("elapsed_seconds", e.Metadata.ElapsedSeconds)

	case *events.TimerTickedEvent:
		logEvent.Int("elapsed_seconds", e.Metadata.ElapsedSeconds)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Round event")
}
