package qlog

import "sync/atomic"

// Tracer is a per-connection event sink. Trace never blocks the
// worker that calls it: once the buffered channel is full, the oldest
// queued event is dropped to make room, and the drop is counted
// (spec.md §5 "the send flush loop ... never blocks" — tracing must
// honor the same rule, since it is called from the same worker).
type Tracer struct {
	events  chan Event
	dropped uint64
}

// NewTracer creates a Tracer buffering up to capacity events.
func NewTracer(capacity int) *Tracer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Tracer{events: make(chan Event, capacity)}
}

// Trace records an event, dropping the oldest buffered one if the
// channel is full.
func (t *Tracer) Trace(e Event) {
	for {
		select {
		case t.events <- e:
			return
		default:
		}
		select {
		case <-t.events:
			atomic.AddUint64(&t.dropped, 1)
		default:
			// a concurrent reader drained it; retry the send
		}
	}
}

// Dropped returns how many events have been discarded for lack of
// buffer space.
func (t *Tracer) Dropped() uint64 { return atomic.LoadUint64(&t.dropped) }

// Events exposes the channel a Recorder drains.
func (t *Tracer) Events() <-chan Event { return t.events }

// Close signals that no further events will be traced. Draining
// Events() after Close still yields any buffered events.
func (t *Tracer) Close() { close(t.events) }
