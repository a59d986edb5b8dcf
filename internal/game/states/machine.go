package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
)

// State represents a round phase with lifecycle callbacks
type State interface {
	// Phase returns the RoundPhase this state represents
	Phase() RoundPhase

	// Enter is called when transitioning into this state
	Enter(ctx *RoundContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *RoundContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      RoundPhase
	To        RoundPhase
	Timestamp time.Time
	Reason    string
}

// StateMachine tracks the round phase, validates transitions and keeps a
// bounded history.
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   RoundPhase
	states         map[RoundPhase]State
	context        *RoundContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine creates a state machine in PhaseNotStarted. publisher may
// be nil.
func NewStateMachine(ctx *RoundContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseNotStarted,
		states:         make(map[RoundPhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 16),
		maxHistorySize: 256,
		publisher:      publisher,
	}

	sm.RegisterState(NewNotStartedState())
	sm.RegisterState(NewInProgressState())
	sm.RegisterState(NewWonState())
	sm.RegisterState(NewLostState())

	return sm
}

// RegisterState registers or replaces a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current round phase
func (sm *StateMachine) CurrentPhase() RoundPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase RoundPhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.transitionLocked(targetPhase, reason)
}

func (sm *StateMachine) transitionLocked(targetPhase RoundPhase, reason string) error {
	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	targetState, ok := sm.states[targetPhase]
	if !ok {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if currentState, ok := sm.states[sm.currentPhase]; ok {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.context.GameID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	sm.context.Logger.Debug().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// Reset returns the machine to PhaseNotStarted. Resetting an unstarted
// round only re-enters the state so the round counter advances.
func (sm *StateMachine) Reset(reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.currentPhase == PhaseNotStarted {
		return sm.states[PhaseNotStarted].Enter(sm.context)
	}
	return sm.transitionLocked(PhaseNotStarted, reason)
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)

	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the round context
func (sm *StateMachine) GetContext() *RoundContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase RoundPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
