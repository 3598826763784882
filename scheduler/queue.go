// Package scheduler assembles the connection-wide set of pending
// frames into packets: it owns the connection-level SendFlags bitset,
// the per-stream priority queue, and the frame-writer flush loop
// (spec.md §4.4).
package scheduler

import (
	"golang.org/x/exp/slices"

	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/stream"
)

// StreamBatchCount bounds how many packets a stream may fill in a row
// before it is rotated to the tail of its priority class, so one
// chatty stream cannot starve its siblings (spec.md §4.4).
const StreamBatchCount = 16

// SendPriority orders streams within the queue; higher values are
// serviced first.
type SendPriority int32

// entry wraps a stream's send state with the bookkeeping the queue
// needs: its priority class and round-robin batch counter.
type entry struct {
	id         protocol.StreamID
	send       *stream.Send
	recv       *stream.Recv
	priority   SendPriority
	remaining  int // packets left in this stream's current batch turn
	queued0RTT bool
}

// Queue is the connection's ordered sequence of streams that have
// pending stream-level flags, sorted by descending SendPriority with
// FIFO ordering within a priority class (spec.md §3 "connection send
// state").
type Queue struct {
	entries []*entry
	byID    map[protocol.StreamID]*entry
}

// NewQueue creates an empty stream queue.
func NewQueue() *Queue {
	return &Queue{byID: make(map[protocol.StreamID]*entry)}
}

// Enqueue links a stream into the queue at its priority class, placed
// after every entry of equal-or-higher priority so streams within the
// same class stay FIFO (spec.md §4.4 "Stream queue"). Re-enqueuing an
// already-queued stream is a no-op.
func (q *Queue) Enqueue(id protocol.StreamID, send *stream.Send, recv *stream.Recv, priority SendPriority) {
	if _, ok := q.byID[id]; ok {
		return
	}
	e := &entry{id: id, send: send, recv: recv, priority: priority, remaining: StreamBatchCount}
	i := slices.IndexFunc(q.entries, func(o *entry) bool { return o.priority < priority })
	if i < 0 {
		q.entries = append(q.entries, e)
	} else {
		q.entries = append(q.entries, nil)
		copy(q.entries[i+1:], q.entries[i:])
		q.entries[i] = e
	}
	q.byID[id] = e
}

// Remove unlinks a stream from the queue, e.g. once it has no more
// pending flags.
func (q *Queue) Remove(id protocol.StreamID) {
	e, ok := q.byID[id]
	if !ok {
		return
	}
	delete(q.byID, id)
	for i, cand := range q.entries {
		if cand == e {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
}

// Contains reports whether a stream is currently linked into the queue.
func (q *Queue) Contains(id protocol.StreamID) bool {
	_, ok := q.byID[id]
	return ok
}

// Len returns the number of linked streams.
func (q *Queue) Len() int { return len(q.entries) }

// Next returns the head entry whose CanSendNow check (evaluated by the
// caller) should be tried first, without removing it from the queue.
func (q *Queue) Next() (id protocol.StreamID, send *stream.Send, recv *stream.Recv, ok bool) {
	if len(q.entries) == 0 {
		return 0, nil, nil, false
	}
	head := q.entries[0]
	return head.id, head.send, head.recv, true
}

// SetQueued0RTT marks whether a stream's unsent data was queued during
// the 0-RTT phase, consulted by can_send_now at the 0-RTT key.
func (q *Queue) SetQueued0RTT(id protocol.StreamID, v bool) {
	if e, ok := q.byID[id]; ok {
		e.queued0RTT = v
	}
}

// Queued0RTT reports whether the given stream was marked as carrying
// 0-RTT-eligible data.
func (q *Queue) Queued0RTT(id protocol.StreamID) bool {
	if e, ok := q.byID[id]; ok {
		return e.queued0RTT
	}
	return false
}

// Rotate moves the head stream to the end of its priority class
// (round-robin), called once its batch counter reaches zero or it can
// no longer send.
func (q *Queue) Rotate() {
	if len(q.entries) == 0 {
		return
	}
	head := q.entries[0]
	class := head.priority
	j := 1
	for j < len(q.entries) && q.entries[j].priority == class {
		j++
	}
	q.entries = append(q.entries[1:j], append([]*entry{head}, q.entries[j:]...)...)
}

// ConsumeBatchSlot decrements the head stream's round-robin counter,
// rotating it to the tail once exhausted. It returns false once the
// stream needs to be rotated.
func (q *Queue) ConsumeBatchSlot() bool {
	if len(q.entries) == 0 {
		return false
	}
	head := q.entries[0]
	head.remaining--
	if head.remaining <= 0 {
		head.remaining = StreamBatchCount
		q.Rotate()
		return false
	}
	return true
}
