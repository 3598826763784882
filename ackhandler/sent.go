package ackhandler

import (
	"errors"
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
)

// ErrPacketNumberNotIncreasing is returned by SentPacket when the
// caller violates the per-space monotonic packet-number contract.
// Mirrors the teacher's "packet number must be increased" check in
// outgoingPacketAckHandler.SentPacket, generalized from "exactly +1" to
// "strictly increasing" since IETF QUIC numbering may skip values.
var ErrPacketNumberNotIncreasing = errors.New("ackhandler: packet number did not increase")

// packetThreshold mirrors RFC 9002 kPacketThreshold: a packet at least
// this many numbers below the largest acked packet is declared lost.
const packetThreshold = 3

// timeThresholdNumerator/timeThresholdDenominator mirror RFC 9002
// kTimeThreshold (9/8).
const timeThresholdNumerator, timeThresholdDenominator = 9, 8

// sentPacket is the bookkeeping kept per outstanding ack-eliciting
// packet in a space, grounded on the teacher's *Packet entry in
// outgoingPacketAckHandler.packetHistory, minus the entropy field (no
// IETF equivalent) and plus the completion callbacks the scheduler's
// collaborators (StreamSend, CongestionControl) need invoked.
type sentPacket struct {
	Number       protocol.PacketNumber
	SentAt       time.Time
	Size         protocol.ByteCount
	AckEliciting bool
	OnAcked      func()
	OnLost       func()
}

// sentState is the send-side half of a PacketSpace.
type sentState struct {
	lastSent         protocol.PacketNumber
	lastSentSeen     bool
	largestAcked     protocol.PacketNumber
	largestAckedSeen bool

	packets map[protocol.PacketNumber]*sentPacket

	ackElicitingInFlight int
}

func newSentState() sentState {
	return sentState{packets: make(map[protocol.PacketNumber]*sentPacket)}
}

// SentPacket records a newly-sent packet, same contract as the
// teacher's outgoingPacketAckHandler.SentPacket but without the
// entropy accumulator.
func (s *sentState) SentPacket(p *sentPacket) error {
	if _, ok := s.packets[p.Number]; ok {
		return errors.New("ackhandler: packet number already sent in this space")
	}
	if s.lastSentSeen && p.Number <= s.lastSent {
		return ErrPacketNumberNotIncreasing
	}
	s.lastSent = p.Number
	s.lastSentSeen = true
	s.packets[p.Number] = p
	if p.AckEliciting {
		s.ackElicitingInFlight++
	}
	return nil
}

// HasAckElicitingInFlight reports whether this space has an
// ack-eliciting packet outstanding, consulted by the scheduler's
// delayed-ACK and PTO gating.
func (s *sentState) HasAckElicitingInFlight() bool { return s.ackElicitingInFlight > 0 }

// processAcked applies one incoming ACK range, firing OnAcked for
// every packet it newly covers and returning their sizes so the caller
// can report bytes-acked to the congestion controller in one event.
func (s *sentState) processAcked(rng AckRange) (ackedBytes protocol.ByteCount, largest protocol.PacketNumber, any bool) {
	for pn := rng.Smallest; pn <= rng.Largest; pn++ {
		p, ok := s.packets[pn]
		if ok {
			delete(s.packets, pn)
			if p.AckEliciting {
				s.ackElicitingInFlight--
			}
			if p.OnAcked != nil {
				p.OnAcked()
			}
			ackedBytes += p.Size
			any = true
			largest = pn
		}
		if !s.largestAckedSeen || pn > s.largestAcked {
			s.largestAcked = pn
			s.largestAckedSeen = true
		}
		if pn == rng.Largest {
			break
		}
	}
	return ackedBytes, largest, any
}

// detectLosses implements the RFC 9002 packet- and time-threshold
// rules: anything still outstanding at least packetThreshold numbers
// below the largest acked packet number, or below the largest acked
// packet number and sent at least 9/8 * rtt before now, is declared
// lost.
func (s *sentState) detectLosses(now time.Time, rtt time.Duration) (lostBytes protocol.ByteCount, lost []*sentPacket) {
	if !s.largestAckedSeen {
		return 0, nil
	}
	lossDelay := time.Duration(0)
	if rtt > 0 {
		lossDelay = rtt * timeThresholdNumerator / timeThresholdDenominator
	}
	cutoff := now.Add(-lossDelay)

	for pn, p := range s.packets {
		byCount := s.largestAcked >= packetThreshold && pn+packetThreshold <= s.largestAcked
		byTime := lossDelay > 0 && !p.SentAt.After(cutoff) && pn < s.largestAcked
		if !byCount && !byTime {
			continue
		}
		delete(s.packets, pn)
		if p.AckEliciting {
			s.ackElicitingInFlight--
		}
		lostBytes += p.Size
		lost = append(lost, p)
	}
	return lostBytes, lost
}
