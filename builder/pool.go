// Package builder implements the concrete PacketBuilder the scheduler
// and stream packages treat as a consumed collaborator (spec.md §6
// "Internal contracts to collaborators: Builder"). It frames a single
// outgoing datagram: ACK/control frames by metadata record, STREAM
// frames by copying payload bytes out of a pooled buffer.
package builder

import (
	"sync"

	"github.com/quic-go/quic-transport-core/protocol"
)

// Pool recycles datagram-sized byte buffers across packets, one per
// worker partition (spec.md §5 "Packet-builder buffers are borrowed
// from a per-worker pool"). Grounded on the teacher's package-level
// bufferPool/getPacketBuffer/putPacketBuffer in buffer_pool.go,
// generalized from a package global to an owned value so each
// worker.Partition (or test) gets an independent pool instead of
// sharing hidden global state.
type Pool struct {
	pool sync.Pool
}

// NewPool creates a buffer pool that hands out buffers capped at
// protocol.MaxPacketBufferSize.
func NewPool() *Pool {
	p := &Pool{}
	p.pool.New = func() interface{} {
		return make([]byte, 0, protocol.MaxPacketBufferSize)
	}
	return p
}

// Get returns a zero-length buffer with datagram capacity.
func (p *Pool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a buffer to the pool. Mirrors the teacher's panic-on-
// wrong-size guard in putPacketBuffer: a buffer of the wrong capacity
// indicates a caller bug, not a recoverable condition.
func (p *Pool) Put(buf []byte) {
	if cap(buf) != int(protocol.MaxPacketBufferSize) {
		panic("builder: Put called with a buffer of the wrong capacity")
	}
	p.pool.Put(buf[:0])
}
