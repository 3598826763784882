package scheduler

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
)

// ConnState is the connection-wide send state shared by every stream
// on the connection (spec.md §3 "Connection send state").
type ConnState struct {
	Flags protocol.ConnSendFlags

	MaxData                    protocol.ByteCount
	PeerMaxData                protocol.ByteCount
	OrderedStreamBytesSent     protocol.ByteCount
	OrderedStreamBytesReceived protocol.ByteCount
	DeliveredAccumulator       protocol.ByteCount

	LastFlushTime      time.Time
	LastFlushTimeValid bool

	DelayedAckTimerActive bool
	FlushOperationPending bool
	TailLossProbeNeeded   bool
	Uninitialized         bool
}

// NewConnState creates connection send state with the given initial
// peer-granted connection flow-control limit.
func NewConnState(peerMaxData protocol.ByteCount) *ConnState {
	return &ConnState{PeerMaxData: peerMaxData, Uninitialized: true}
}
