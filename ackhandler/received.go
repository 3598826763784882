package ackhandler

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
)

// AckRange is one inclusive, closed range of received packet numbers,
// as it appears in an outgoing ACK frame.
type AckRange struct {
	Smallest protocol.PacketNumber
	Largest  protocol.PacketNumber
}

// receivedState is the receive-side half of a PacketSpace: which
// packet numbers have arrived in this encryption level, and whether an
// ACK is currently owed (spec.md §4.5 has_packets_to_ack /
// ack_eliciting_packets_to_acknowledge).
//
// Adapted from the teacher's receivedPacketHandler: the entropy
// accounting and STOP_WAITING handling it carried are gone (IETF QUIC
// has neither), but the duplicate/highest-observed bookkeeping and the
// range-walk in buildAckRanges follow its getNackRanges shape directly.
type receivedState struct {
	largestObserved     protocol.PacketNumber
	largestObservedSeen bool
	largestObservedTime time.Time

	received map[protocol.PacketNumber]time.Time

	ackElicitingUnacked int
	ackQueued           bool
}

func newReceivedState() receivedState {
	return receivedState{received: make(map[protocol.PacketNumber]time.Time)}
}

// ReceivedPacket records an incoming packet. Duplicates are reported
// but otherwise ignored, mirroring ErrDuplicatePacket in the teacher.
func (r *receivedState) ReceivedPacket(pn protocol.PacketNumber, ackEliciting bool, now time.Time) (duplicate bool) {
	if _, ok := r.received[pn]; ok {
		return true
	}
	r.received[pn] = now
	if !r.largestObservedSeen || pn > r.largestObserved {
		r.largestObserved = pn
		r.largestObservedSeen = true
		r.largestObservedTime = now
	}
	if ackEliciting {
		r.ackElicitingUnacked++
		r.ackQueued = true
	}
	return false
}

// HasPacketsToAck implements spec.md §4.5 has_packets_to_ack.
func (r *receivedState) HasPacketsToAck() bool { return r.ackQueued }

// AckElicitingPacketsToAcknowledge implements spec.md §4.5
// ack_eliciting_packets_to_acknowledge.
func (r *receivedState) AckElicitingPacketsToAcknowledge() int { return r.ackElicitingUnacked }

// buildAckRanges walks the received set from the largest packet number
// down, coalescing contiguous runs into ranges. Grounded on the
// teacher's getNackRanges loop, inverted: a gap in the teacher's walk
// became a NACK range, here a run of present packet numbers becomes an
// ACK range.
func (r *receivedState) buildAckRanges() []AckRange {
	if !r.largestObservedSeen {
		return nil
	}
	var ranges []AckRange
	inRange := false
	for pn := r.largestObserved; ; pn-- {
		if _, ok := r.received[pn]; ok {
			if !inRange {
				ranges = append(ranges, AckRange{Smallest: pn, Largest: pn})
				inRange = true
			} else {
				ranges[len(ranges)-1].Smallest = pn
			}
		} else {
			inRange = false
		}
		if pn == 0 {
			break
		}
	}
	return ranges
}

// acked marks this space's ACK as sent; called once EncodeAckFrame
// succeeds.
func (r *receivedState) acked() {
	r.ackQueued = false
	r.ackElicitingUnacked = 0
}
