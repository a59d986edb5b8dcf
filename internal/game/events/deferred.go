package events

import "sync"

// DeferredPublisher queues events until Flush is called. The engine publishes
// into it while holding its own lock and flushes after releasing it, so
// handlers can query the engine without deadlocking. Handlers must not issue
// engine commands: deliveries are serialised and a nested Flush would wait
// on itself.
type DeferredPublisher struct {
	mu     sync.Mutex
	target Publisher
	queue  []Event

	// held from taking the queue until its last event is delivered, so
	// concurrent flushes reach the target in publish order
	deliverMu sync.Mutex
}

// NewDeferredPublisher wraps target. A nil target drops every event.
func NewDeferredPublisher(target Publisher) *DeferredPublisher {
	return &DeferredPublisher{target: target}
}

// Publish implements Publisher
func (d *DeferredPublisher) Publish(event Event) {
	d.mu.Lock()
	d.queue = append(d.queue, event)
	d.mu.Unlock()
}

// Pending returns the number of queued events.
func (d *DeferredPublisher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Flush delivers queued events to the target in publish order.
func (d *DeferredPublisher) Flush() {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	if d.target == nil {
		return
	}
	for _, e := range queue {
		d.target.Publish(e)
	}
}
