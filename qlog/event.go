// Package qlog turns the ad-hoc debug/info/error logging the rest of
// this module uses (utils.Debugf/Infof/Errorf) into a structured
// per-connection event trace, grounded on the teacher's
// quictrace.Tracer/Event but widened with the congestion- and
// stream-state fields this module's components actually produce.
package qlog

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
)

// EventType tags which kind of event a record carries. Numbered from 1
// like the teacher's quictrace.EventType, so a zero-value Event is
// recognizably unset rather than a valid PacketSent record.
type EventType uint8

const (
	// PacketSent means a datagram was handed to the network.
	PacketSent EventType = 1 + iota
	// PacketReceived means a datagram arrived from the network.
	PacketReceived
	// PacketLost means a sent packet was declared lost.
	PacketLost
	// CongestionStateUpdated means the congestion window or recovery
	// state changed.
	CongestionStateUpdated
	// StreamStateUpdated means a stream's send or receive state
	// machine transitioned (opened, blocked, closed, reset).
	StreamStateUpdated
)

func (t EventType) String() string {
	switch t {
	case PacketSent:
		return "packet_sent"
	case PacketReceived:
		return "packet_received"
	case PacketLost:
		return "packet_lost"
	case CongestionStateUpdated:
		return "congestion_state_updated"
	case StreamStateUpdated:
		return "stream_state_updated"
	default:
		return "unknown"
	}
}

// Event is one traced occurrence. Only the fields relevant to Type are
// meaningful; the others are left at their zero value.
type Event struct {
	Time time.Time
	Type EventType

	EncryptionLevel protocol.EncryptionLevel
	PacketNumber    protocol.PacketNumber
	PacketSize      protocol.ByteCount
	FrameCount      int

	CongestionWindow protocol.ByteCount
	BytesInFlight    protocol.ByteCount
	InRecovery       bool

	StreamID    protocol.StreamID
	StreamState string
	Reason      string
}
