package scheduler

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/stream"
)

// MinSendAllowance is the minimum anti-amplification credit a path
// must hold before the flush loop will attempt another datagram
// (spec.md §4.4 step 1).
const MinSendAllowance = protocol.DefaultTCPMSS

// FlushResult reports how the flush loop terminated.
type FlushResult uint8

const (
	// Complete means there is nothing further to send right now.
	Complete FlushResult = iota
	// DelayedPacing means a pacing timer was armed; call again once it fires.
	DelayedPacing
	// MoreToSend means the datagram budget ran out with data still queued.
	MoreToSend
)

// Path carries the per-path state the flush loop consults for
// anti-amplification and address-validation gating.
type Path struct {
	Allowance              protocol.ByteCount
	AmplificationProtected bool
	AddressValidated       bool
	HasMoreCidsToSend      bool
	HasCidsToRetire        bool
}

// CongestionGate is the subset of CongestionControl the scheduler
// needs: whether it may send now and how much pacing allows.
type CongestionGate interface {
	CanSend() bool
	GetSendAllowance(timeSinceLastSend time.Duration, valid bool, smoothedRTT time.Duration) protocol.ByteCount
}

// AckTracker is the consumed collaborator that knows whether an
// ack-eliciting packet is owed an ACK right now (spec.md §1).
type AckTracker interface {
	ShouldSendAck() bool
	HasAckElicitingInFlight() bool
}

// Builder is the packet-builder collaborator consumed by the flush
// loop. Each Write* method returns whether it produced a frame (the
// scheduler clears the corresponding flag only then); Finalize closes
// out the current packet and PacketFull reports whether the builder
// has room left for another frame.
type Builder interface {
	stream.Builder

	PacketFull() bool
	FrameCount() int
	Finalize()

	WriteAck() bool
	WriteCrypto() bool
	WriteConnectionClose(phase int) bool
	WritePathResponse() bool
	WriteHandshakeDone() bool
	WriteDataBlocked() bool
	WriteMaxData(limit protocol.ByteCount) bool
	WriteMaxStreams(bidi bool) bool
	WriteStreamsBlocked(bidi bool) bool
	WriteNewConnectionID() (wrote, more bool)
	WriteRetireConnectionID() (wrote, more bool)
	WriteAckFrequency() bool
	WriteDatagram() bool
	WritePing(keepAlive bool) bool
	WriteMTUProbe() bool
}

// Scheduler drives the connection-wide flush loop (spec.md §4.4).
type Scheduler struct {
	Conn  *ConnState
	Queue *Queue
	CC    CongestionGate
	Acks  AckTracker

	KeyPhase       protocol.EncryptionLevel
	Has0RTTKey     bool
	ZeroRTTPending bool // streams still have data that only qualifies at 0-RTT

	SmoothedRTT        time.Duration
	TimeSinceLastSend  time.Duration
	TimeSinceLastValid bool
}

// canSendFlagsNow implements spec.md §4.4 "Connection flag gating".
func (s *Scheduler) canSendFlagsNow() protocol.ConnSendFlags {
	if s.KeyPhase < protocol.Encryption1RTT {
		if !s.Has0RTTKey || s.ZeroRTTPending {
			return protocol.AllowedHandshake
		}
	}
	return ^protocol.ConnSendFlags(0)
}

// CanSendNow implements spec.md §4.4 "can_send_now".
func (s *Scheduler) CanSendNow(id protocol.StreamID, send *stream.Send) bool {
	switch {
	case s.KeyPhase >= protocol.Encryption1RTT:
		return send.CanWriteDataFrames()
	case s.KeyPhase == protocol.Encryption0RTT:
		return s.Queue.Queued0RTT(id) && send.CanWriteDataFrames()
	default:
		return false
	}
}

// Flush runs the frame-writer loop for up to MaxDatagramsPerSend
// datagrams (spec.md §4.4 "Flush loop").
func (s *Scheduler) Flush(path *Path, b Builder) FlushResult {
	for datagram := 0; datagram < protocol.MaxDatagramsPerSend; datagram++ {
		result, stop := s.flushOneDatagram(path, b)
		if stop {
			return result
		}
	}
	return MoreToSend
}

func (s *Scheduler) flushOneDatagram(path *Path, b Builder) (FlushResult, bool) {
	if path.AmplificationProtected && path.Allowance < MinSendAllowance {
		return Complete, true
	}

	allowed := s.canSendFlagsNow()
	ccBlocked := !s.CC.CanSend()
	if ccBlocked {
		allowed &= protocol.BypassCC
	}
	if !path.AddressValidated {
		allowed = allowed.Clear(protocol.SendFlagDatagram)
	}

	if ccBlocked && s.Conn.Flags&allowed == 0 {
		if s.Acks.ShouldSendAck() {
			s.armPacingTimer()
			return DelayedPacing, true
		}
		return Complete, true
	}

	s.writeFrames(path, b, allowed, ccBlocked)

	b.Finalize()
	if b.FrameCount() == 0 {
		return Complete, true
	}
	if !s.hasMoreWork(path) {
		return Complete, true
	}
	return MoreToSend, false
}

// writeFrames implements spec.md §4.4 step 4 (frame ordering within a
// packet) plus steps 5-6 (MTU probe / stream data fallback).
func (s *Scheduler) writeFrames(path *Path, b Builder, allowed protocol.ConnSendFlags, ccBlocked bool) {
	zeroRTT := s.KeyPhase == protocol.Encryption0RTT

	if !zeroRTT && s.Conn.Flags.Has(protocol.SendFlagACK) && allowed.Has(protocol.SendFlagACK) {
		if b.WriteAck() {
			s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagACK)
		}
	}

	if s.Conn.Flags.Has(protocol.SendFlagCRYPTO) && allowed.Has(protocol.SendFlagCRYPTO) && !ccBlocked {
		if b.WriteCrypto() {
			s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagCRYPTO)
		}
	}

	if s.Conn.Flags.Any(protocol.SendFlagConnectionClose0 | protocol.SendFlagConnectionClose1) {
		phase := 0
		if s.Conn.Flags.Has(protocol.SendFlagConnectionClose1) {
			phase = 1
		}
		if b.WriteConnectionClose(phase) {
			s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagConnectionClose0 | protocol.SendFlagConnectionClose1)
		}
		return
	}

	if ccBlocked {
		return
	}

	if s.Conn.Flags.Has(protocol.SendFlagPathResponse) {
		if b.WritePathResponse() {
			s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagPathResponse)
		}
	}

	wroteControl := false
	if s.KeyPhase >= protocol.Encryption1RTT {
		wroteControl = s.writeOneRTTControlFrames(path, b)
	}

	if !wroteControl && s.Conn.Flags.Has(protocol.SendFlagDPLPMTUD) {
		if b.WriteMTUProbe() {
			s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagDPLPMTUD)
		}
		return
	}

	s.writeStreamFrames(b)
}

// writeOneRTTControlFrames implements spec.md §4.4 step 4's 1-RTT
// control frames. It returns whether any connection-level control
// frame was actually written this round.
func (s *Scheduler) writeOneRTTControlFrames(path *Path, b Builder) bool {
	wrote := false
	type flagWrite struct {
		flag protocol.ConnSendFlags
		try  func() bool
	}
	simple := []flagWrite{
		{protocol.SendFlagHandshakeDone, b.WriteHandshakeDone},
		{protocol.SendFlagDataBlocked, b.WriteDataBlocked},
		{protocol.SendFlagMaxData, func() bool { return b.WriteMaxData(s.Conn.MaxData) }},
		{protocol.SendFlagMaxStreamsBidi, func() bool { return b.WriteMaxStreams(true) }},
		{protocol.SendFlagMaxStreamsUni, func() bool { return b.WriteMaxStreams(false) }},
		{protocol.SendFlagBidiStreamsBlocked, func() bool { return b.WriteStreamsBlocked(true) }},
		{protocol.SendFlagUniStreamsBlocked, func() bool { return b.WriteStreamsBlocked(false) }},
		{protocol.SendFlagAckFrequency, b.WriteAckFrequency},
		{protocol.SendFlagDatagram, b.WriteDatagram},
	}
	for _, fw := range simple {
		if s.Conn.Flags.Has(fw.flag) && fw.try() {
			s.Conn.Flags = s.Conn.Flags.Clear(fw.flag)
			wrote = true
		}
	}

	if s.Conn.Flags.Has(protocol.SendFlagNewConnectionID) {
		if didWrite, more := b.WriteNewConnectionID(); didWrite {
			wrote = true
			path.HasMoreCidsToSend = more
			if !more {
				s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagNewConnectionID)
			}
		}
	}
	if s.Conn.Flags.Has(protocol.SendFlagRetireConnectionID) {
		if didWrite, more := b.WriteRetireConnectionID(); didWrite {
			wrote = true
			path.HasCidsToRetire = more
			if !more {
				s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagRetireConnectionID)
			}
		}
	}
	if s.Conn.Flags.Has(protocol.SendFlagPing) {
		if b.WritePing(false) {
			s.Conn.Flags = s.Conn.Flags.Clear(protocol.SendFlagPing)
			wrote = true
		}
	}
	return wrote
}

// writeStreamFrames implements spec.md §4.4 step 6. It visits at most
// one stream per entry currently linked into the queue: each stream
// gets a single write attempt per packet, since StreamSend's pending
// flags persist until acked and would otherwise make the same stream
// eligible again immediately.
func (s *Scheduler) writeStreamFrames(b Builder) {
	attempts := s.Queue.Len()
	for i := 0; i < attempts && !b.PacketFull() && b.FrameCount() < protocol.MaxFramesPerPacket; i++ {
		id, send, _, ok := s.Queue.Next()
		if !ok {
			return
		}
		if !s.CanSendNow(id, send) {
			s.Queue.Rotate()
			continue
		}

		headroom := protocol.ByteCount(0)
		if s.Conn.PeerMaxData > s.Conn.OrderedStreamBytesSent {
			headroom = s.Conn.PeerMaxData - s.Conn.OrderedStreamBytesSent
		}
		send.WriteStreamFrames(b, headroom)

		if send.Flags == 0 {
			s.Queue.Remove(id)
			continue
		}
		if !s.Queue.ConsumeBatchSlot() || !send.CanWriteDataFrames() {
			return
		}
	}
}

func (s *Scheduler) hasMoreWork(path *Path) bool {
	if s.Conn.Flags != 0 {
		return true
	}
	return s.Queue.Len() > 0
}

func (s *Scheduler) armPacingTimer() {
	s.Conn.FlushOperationPending = true
}
