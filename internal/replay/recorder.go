package replay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
	"github.com/rs/zerolog"
)

// Recorder is an event subscriber that turns engine events into Records.
// Finished rounds are handed to the Store, when one is set, and kept in a
// bounded in-memory list.
type Recorder struct {
	id      string
	rules   Rules
	store   Store
	maxKept int
	logger  zerolog.Logger

	mu       sync.Mutex
	active   map[string]*Record
	finished []*Record
}

// RecorderConfig configures a Recorder
type RecorderConfig struct {
	Rules   Rules
	Store   Store // nil keeps records in memory only
	MaxKept int   // finished records kept in memory, default 32
}

// NewRecorder creates a recorder subscriber
func NewRecorder(cfg RecorderConfig, logger zerolog.Logger) *Recorder {
	if cfg.MaxKept <= 0 {
		cfg.MaxKept = 32
	}
	return &Recorder{
		id:      "replay-recorder-" + uuid.NewString(),
		rules:   cfg.Rules,
		store:   cfg.Store,
		maxKept: cfg.MaxKept,
		logger:  logger.With().Str("component", "replay_recorder").Logger(),
		active:  make(map[string]*Record),
	}
}

// ID implements events.Subscriber
func (r *Recorder) ID() string { return r.id }

// InterestedIn implements events.Subscriber
func (r *Recorder) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeRoundReset, events.TypeRoundStarted, events.TypeCellsRevealed,
		events.TypeFlagToggled, events.TypeTimerTicked, events.TypeRoundWon, events.TypeRoundLost:
		return true
	}
	return false
}

// HandleEvent implements events.Subscriber
func (r *Recorder) HandleEvent(event events.Event) {
	r.mu.Lock()
	done := r.applyLocked(event)
	r.mu.Unlock()

	if done != nil {
		r.persist(done)
	}
}

func (r *Recorder) applyLocked(event events.Event) *Record {
	gameID := event.GameID()

	if e, ok := event.(*events.RoundResetEvent); ok {
		r.active[gameID] = &Record{
			ID:     uuid.NewString(),
			GameID: gameID,
			Round:  e.Metadata.Round,
			Width:  e.Width,
			Height: e.Height,
			Mines:  e.Mines,
			Rules: Rules{
				MaxFlags:             e.MaxFlags,
				WinRule:              r.rules.WinRule,
				LossOnFlagExhaustion: r.rules.LossOnFlagExhaustion,
				Seed:                 r.rules.Seed,
			},
			Steps: make([]Step, 0, 16),
		}
		return nil
	}

	rec, ok := r.active[gameID]
	if !ok {
		// Events from a round that started before we subscribed.
		return nil
	}

	switch e := event.(type) {
	case *events.RoundStartedEvent:
		rec.FirstClick = e.FirstClick
		rec.ExclusionRadius = e.ExclusionRadius
		rec.MineIndices = append([]int(nil), e.MineIndices...)
		rec.StartedAt = e.Timestamp()

	case *events.CellsRevealedEvent:
		rec.Steps = append(rec.Steps, Step{
			Seq:            len(rec.Steps),
			Kind:           StepReveal,
			Row:            e.Origin.Row,
			Col:            e.Origin.Col,
			Changed:        len(e.Changes),
			ElapsedSeconds: e.Metadata.ElapsedSeconds,
			At:             e.Timestamp(),
		})

	case *events.FlagToggledEvent:
		rec.Steps = append(rec.Steps, Step{
			Seq:            len(rec.Steps),
			Kind:           StepFlag,
			Row:            e.Cell.Row,
			Col:            e.Cell.Col,
			Flagged:        e.Flagged,
			Changed:        1,
			ElapsedSeconds: e.Metadata.ElapsedSeconds,
			At:             e.Timestamp(),
		})

	case *events.TimerTickedEvent:
		rec.ElapsedSeconds = e.Metadata.ElapsedSeconds

	case *events.RoundWonEvent:
		return r.finishLocked(rec, OutcomeWon, "", e.Metadata.ElapsedSeconds, e.Timestamp())

	case *events.RoundLostEvent:
		return r.finishLocked(rec, OutcomeLost, e.Reason, e.Metadata.ElapsedSeconds, e.Timestamp())
	}
	return nil
}

func (r *Recorder) finishLocked(rec *Record, outcome Outcome, reason string, elapsed int, at time.Time) *Record {
	rec.Outcome = outcome
	rec.LossReason = reason
	rec.ElapsedSeconds = elapsed
	rec.EndedAt = at

	delete(r.active, rec.GameID)
	r.finished = append(r.finished, rec)
	if len(r.finished) > r.maxKept {
		r.finished = r.finished[len(r.finished)-r.maxKept:]
	}
	return rec
}

func (r *Recorder) persist(rec *Record) {
	logger := r.logger.With().
		Str("record_id", rec.ID).
		Str("game_id", rec.GameID).
		Int("round", rec.Round).
		Str("outcome", string(rec.Outcome)).
		Int("steps", len(rec.Steps)).
		Logger()

	if r.store == nil {
		logger.Debug().Msg("Round recorded")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Save(ctx, rec); err != nil {
		logger.Error().Err(err).Msg("Failed to persist replay")
		return
	}
	logger.Info().Msg("Replay persisted")
}

// Finished returns the finished records still held in memory, oldest first.
func (r *Recorder) Finished() []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Record, len(r.finished))
	copy(out, r.finished)
	return out
}

// Last returns the most recently finished record, or nil.
func (r *Recorder) Last() *Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.finished) == 0 {
		return nil
	}
	return r.finished[len(r.finished)-1]
}
