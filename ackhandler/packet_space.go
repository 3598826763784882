// Package ackhandler implements the per-encryption-level PacketSpace:
// the "consumed" AckTracker collaborator of spec.md §4.5. It tracks
// which packet numbers have arrived (to build outgoing ACK frames) and
// which sent packets are still outstanding (to detect their loss or
// acknowledgment and drive StreamSend.OnAck/OnLoss and
// CongestionControl.OnDataAcknowledged/OnDataLost).
//
// Grounded on the teacher's ackhandler package
// (outgoing_packet_ack_handler.go, received_packet_handler.go), which
// implemented the equivalent bookkeeping for gQUIC's entropy-bit/NACK
// scheme; the packet-number/range bookkeeping here follows the same
// shape with entropy removed and IETF ACK ranges in its place.
package ackhandler

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
)

// AckFrameWriter is the thin slice of a packet builder PacketSpace
// needs to emit an ACK frame (spec.md §4.5 encode_ack_frame).
type AckFrameWriter interface {
	WriteAckFrame(largest protocol.PacketNumber, ranges []AckRange, delay time.Duration) bool
}

// PacketSpace is one of the four encryption-level ack spaces (Initial,
// Handshake, 0-RTT, 1-RTT) a connection keeps (spec.md §4.5).
type PacketSpace struct {
	Level protocol.EncryptionLevel

	recv receivedState
	sent sentState
}

// NewPacketSpace creates an empty PacketSpace for the given encryption
// level.
func NewPacketSpace(level protocol.EncryptionLevel) *PacketSpace {
	return &PacketSpace{Level: level, recv: newReceivedState(), sent: newSentState()}
}

// ReceivedPacket records an incoming packet in this space.
func (p *PacketSpace) ReceivedPacket(pn protocol.PacketNumber, ackEliciting bool, now time.Time) (duplicate bool) {
	return p.recv.ReceivedPacket(pn, ackEliciting, now)
}

// HasPacketsToAck implements spec.md §4.5 has_packets_to_ack.
func (p *PacketSpace) HasPacketsToAck() bool { return p.recv.HasPacketsToAck() }

// AckElicitingPacketsToAcknowledge implements spec.md §4.5
// ack_eliciting_packets_to_acknowledge.
func (p *PacketSpace) AckElicitingPacketsToAcknowledge() int {
	return p.recv.AckElicitingPacketsToAcknowledge()
}

// ShouldSendAck satisfies scheduler.AckTracker; it is an alias for
// HasPacketsToAck so the scheduler package can depend on a narrower,
// locally-defined interface instead of importing this package.
func (p *PacketSpace) ShouldSendAck() bool { return p.HasPacketsToAck() }

// HasAckElicitingInFlight satisfies scheduler.AckTracker: whether a
// sent ack-eliciting packet in this space is still unacknowledged.
func (p *PacketSpace) HasAckElicitingInFlight() bool { return p.sent.HasAckElicitingInFlight() }

// EncodeAckFrame implements spec.md §4.5 encode_ack_frame(builder) ->
// wrote. On success the space's pending-ACK state is cleared.
func (p *PacketSpace) EncodeAckFrame(w AckFrameWriter, now time.Time) bool {
	if !p.recv.HasPacketsToAck() {
		return false
	}
	ranges := p.recv.buildAckRanges()
	if len(ranges) == 0 {
		return false
	}
	delay := now.Sub(p.recv.largestObservedTime)
	if delay < 0 {
		delay = 0
	}
	if !w.WriteAckFrame(p.recv.largestObserved, ranges, delay) {
		return false
	}
	p.recv.acked()
	return true
}

// SentPacket records a packet this space just sent. onAcked/onLost are
// invoked at most once each, from ProcessAck/DetectLosses, never both.
func (p *PacketSpace) SentPacket(pn protocol.PacketNumber, size protocol.ByteCount, ackEliciting bool, now time.Time, onAcked, onLost func()) error {
	return p.sent.SentPacket(&sentPacket{
		Number:       pn,
		SentAt:       now,
		Size:         size,
		AckEliciting: ackEliciting,
		OnAcked:      onAcked,
		OnLost:       onLost,
	})
}

// ProcessAck applies a received ACK frame's ranges: every newly-acked
// packet's OnAcked callback fires (driving StreamSend.OnAck), and the
// total newly-acked bytes/largest packet number are returned so the
// caller can report one coalesced AckEvent to the congestion
// controller (spec.md §2 "Ack path").
func (p *PacketSpace) ProcessAck(ranges []AckRange) (ackedBytes protocol.ByteCount, largestNewlyAcked protocol.PacketNumber, any bool) {
	for _, rng := range ranges {
		bytes, largest, gotAny := p.sent.processAcked(rng)
		ackedBytes += bytes
		if gotAny && (!any || largest > largestNewlyAcked) {
			largestNewlyAcked = largest
		}
		any = any || gotAny
	}
	return ackedBytes, largestNewlyAcked, any
}

// DetectLosses runs the packet/time-threshold loss rules against the
// packets still outstanding after the most recent ProcessAck, firing
// OnLost for each and returning the total bytes lost (spec.md §2 "Ack
// path": "... and CongestionControl.OnAcked/OnLost").
func (p *PacketSpace) DetectLosses(now time.Time, rtt time.Duration) protocol.ByteCount {
	lostBytes, lost := p.sent.detectLosses(now, rtt)
	for _, pkt := range lost {
		if pkt.OnLost != nil {
			pkt.OnLost()
		}
	}
	return lostBytes
}
