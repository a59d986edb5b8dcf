package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/minesweeper/internal/game/core"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	received := false
	var receivedEvent Event

	bus.SubscribeFunc(TypeRoundReset, func(e Event) {
		received = true
		receivedEvent = e
	})

	bus.Publish(NewRoundResetEvent("test-game", 1, 9, 9, 10, 10))

	assert.True(t, received, "Event handler should have been called")
	assert.NotNil(t, receivedEvent)
	assert.Equal(t, TypeRoundReset, receivedEvent.Type())
	assert.Equal(t, "test-game", receivedEvent.GameID())
	assert.False(t, receivedEvent.Timestamp().IsZero())
}

func TestEventBusMultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	var order []int
	bus.SubscribeFunc(TypeTimerTicked, func(e Event) { order = append(order, 1) })
	bus.SubscribeFunc(TypeTimerTicked, func(e Event) { order = append(order, 2) })

	bus.Publish(NewTimerTickedEvent("test-game", RoundMetadata{ElapsedSeconds: 1}))

	assert.Equal(t, []int{1, 2}, order, "function handlers run in subscription order")
	assert.Equal(t, 2, bus.GetFuncHandlerCount(TypeTimerTicked))
}

func TestEventBusUnsubscribeFunc(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	id := bus.SubscribeFunc(TypeFlagToggled, func(e Event) { calls++ })
	other := bus.SubscribeFunc(TypeFlagToggled, func(e Event) {})
	assert.NotEqual(t, id, other)

	bus.Publish(NewFlagToggledEvent("g", RoundMetadata{}, core.Coordinate{}, true))
	bus.UnsubscribeFunc(id)
	bus.Publish(NewFlagToggledEvent("g", RoundMetadata{}, core.Coordinate{}, false))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.GetFuncHandlerCount(TypeFlagToggled))
}

func TestEventBusRecoversFromPanics(t *testing.T) {
	bus := NewEventBus()

	called := false
	bus.SubscribeFunc(TypeRoundWon, func(e Event) { panic("boom") })
	bus.SubscribeFunc(TypeRoundWon, func(e Event) { called = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewRoundWonEvent("g", RoundMetadata{}, 9, 9, 10))
	})
	assert.True(t, called, "handlers after a panicking one still run")
}

func TestEventBusHandlerMaySubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()

	bus.SubscribeFunc(TypeRoundReset, func(e Event) {
		bus.SubscribeFunc(TypeRoundStarted, func(Event) {})
	})

	assert.NotPanics(t, func() {
		bus.Publish(NewRoundResetEvent("g", 1, 3, 3, 1, 1))
	})
	assert.Equal(t, 1, bus.GetFuncHandlerCount(TypeRoundStarted))
}

func TestDeferredPublisher(t *testing.T) {
	bus := NewEventBus()
	var got []string
	bus.SubscribeFunc(TypeRoundReset, func(e Event) { got = append(got, e.Type()) })
	bus.SubscribeFunc(TypeRoundStarted, func(e Event) { got = append(got, e.Type()) })

	d := NewDeferredPublisher(bus)
	d.Publish(NewRoundResetEvent("g", 1, 3, 3, 1, 1))
	d.Publish(NewRoundStartedEvent("g", 1, core.Coordinate{}, 1, []int{8}))

	assert.Empty(t, got, "nothing is delivered before Flush")
	assert.Equal(t, 2, d.Pending())

	d.Flush()
	assert.Equal(t, []string{TypeRoundReset, TypeRoundStarted}, got)
	assert.Equal(t, 0, d.Pending())

	nilTarget := NewDeferredPublisher(nil)
	nilTarget.Publish(NewTimerTickedEvent("g", RoundMetadata{}))
	assert.NotPanics(t, nilTarget.Flush)
}

// blockingTarget holds delivery of one event type until released
type blockingTarget struct {
	blockOn string
	entered chan struct{}
	release chan struct{}

	mu  sync.Mutex
	got []string
}

func (b *blockingTarget) Publish(e Event) {
	if e.Type() == b.blockOn {
		close(b.entered)
		<-b.release
	}
	b.mu.Lock()
	b.got = append(b.got, e.Type())
	b.mu.Unlock()
}

func TestDeferredPublisherConcurrentFlushKeepsOrder(t *testing.T) {
	target := &blockingTarget{
		blockOn: TypeTimerTicked,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	d := NewDeferredPublisher(target)

	d.Publish(NewTimerTickedEvent("g", RoundMetadata{ElapsedSeconds: 1}))
	first := make(chan struct{})
	go func() {
		d.Flush()
		close(first)
	}()
	<-target.entered

	d.Publish(NewRoundWonEvent("g", RoundMetadata{}, 3, 3, 1))
	second := make(chan struct{})
	go func() {
		d.Flush()
		close(second)
	}()

	select {
	case <-second:
		t.Fatal("second flush delivered while the first was still delivering")
	case <-time.After(50 * time.Millisecond):
	}

	close(target.release)
	<-first
	<-second

	target.mu.Lock()
	defer target.mu.Unlock()
	assert.Equal(t, []string{TypeTimerTicked, TypeRoundWon}, target.got)
}
