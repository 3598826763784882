package stream

import (
	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/utils"
)

// Builder is the packet-builder collaborator consumed while writing
// stream frames: it exposes remaining space and records per-frame
// metadata so ACK/loss can later be attributed back to a byte range
// (spec.md §1, "packet builder").
type Builder interface {
	// Remaining returns how many bytes are left for frame payloads in
	// the packet currently being assembled.
	Remaining() protocol.ByteCount
	// WriteStreamFrame appends a STREAM frame and records metadata for
	// later ACK/loss attribution. It returns the number of payload
	// bytes actually written (may be less than requested if space ran
	// out while framing overhead was accounted for).
	WriteStreamFrame(id protocol.StreamID, offset protocol.ByteCount, fin bool, data []byte) protocol.ByteCount
}

// SendRequest is a single application write queued for a stream.
type SendRequest struct {
	Offset protocol.ByteCount
	Data   []byte
	Fin    bool
	// OnComplete is invoked once the request's bytes are fully
	// acknowledged (or immediately, with ok=false, on abortive close).
	OnComplete func(ok bool)
}

func (r *SendRequest) end() protocol.ByteCount { return r.Offset + protocol.ByteCount(len(r.Data)) }

// FrameMeta describes a previously-sent STREAM frame, recorded by the
// Builder at write time and replayed back into OnAck/OnLoss.
type FrameMeta struct {
	Offset protocol.ByteCount
	Length protocol.ByteCount
	Fin    bool
	Is0RTT bool
	IsOpen bool // this frame carried the stream's first transmission
}

func (m FrameMeta) end() protocol.ByteCount { return m.Offset + m.Length }

// Send implements per-stream reliable delivery: queuing, SACK-guided
// retransmission, and ACK/loss bookkeeping (spec.md §4.2).
type Send struct {
	ID protocol.StreamID

	unAckedOffset        protocol.ByteCount
	nextSendOffset       protocol.ByteCount
	recoveryNextOffset   protocol.ByteCount
	recoveryEndOffset    protocol.ByteCount
	maxSentLength        protocol.ByteCount
	queuedSendOffset     protocol.ByteCount
	maxAllowedSendOffset protocol.ByteCount

	connOrderedBytesSent *protocol.ByteCount // OrderedStreamBytesSent, shared with connection state
	connPeerMaxData      *protocol.ByteCount // PeerMaxData, shared with connection state

	sack sparseAckRanges

	requests []*SendRequest // FIFO, oldest first

	Flags protocol.StreamSendFlags

	Started             bool
	InRecovery          bool
	SendEnabled         bool
	LocalCloseFin       bool
	LocalCloseReset     bool
	LocalCloseAcked     bool
	SendOpenAcked       bool
	FinAcked            bool
	RemoteCloseFin      bool
	RemoteCloseReset    bool
	SentStopSending     bool
	ReceivedStopSending bool

	BlockedReason protocol.BlockedReason

	// OnShutdownComplete fires the SEND_SHUTDOWN_COMPLETE(graceful) app
	// callback (spec.md §6/§8 property 7): exactly once, after the send
	// queue is drained and FIN acked (graceful=true) or after an
	// abortive, silent close (graceful=false).
	OnShutdownComplete func(graceful bool)
}

// NewSend creates a stream send state with the given initial
// MAX_STREAM_DATA limit. connOrderedBytesSent/connPeerMaxData are
// shared with the connection's ConnState (OrderedStreamBytesSent/
// PeerMaxData) the same way Recv shares connBytesReceived/connMaxData;
// either may be nil, in which case the connection-level flow-control
// gate below is skipped. SendEnabled starts true; the stream is not
// yet Started until the first request opens it.
func NewSend(id protocol.StreamID, maxAllowedSendOffset protocol.ByteCount, connOrderedBytesSent, connPeerMaxData *protocol.ByteCount) *Send {
	return &Send{
		ID:                   id,
		SendEnabled:          true,
		maxAllowedSendOffset: maxAllowedSendOffset,
		connOrderedBytesSent: connOrderedBytesSent,
		connPeerMaxData:      connPeerMaxData,
	}
}

// SendWindow returns min(MaxAllowedSendOffset-UnAckedOffset, MaxUint32).
func (s *Send) SendWindow() protocol.ByteCount {
	if s.maxAllowedSendOffset < s.unAckedOffset {
		return 0
	}
	return utils.Min(s.maxAllowedSendOffset-s.unAckedOffset, protocol.ByteCount(^uint32(0)))
}

// SetMaxAllowedSendOffset installs a new peer-granted MAX_STREAM_DATA
// limit; it is never allowed to shrink.
func (s *Send) SetMaxAllowedSendOffset(limit protocol.ByteCount) {
	if limit > s.maxAllowedSendOffset {
		s.maxAllowedSendOffset = limit
	}
}

// QueueAppSend appends an application write to the FIFO, per spec.md
// §4.2 queue_app_send.
func (s *Send) QueueAppSend(data []byte, fin bool, onComplete func(ok bool)) *SendRequest {
	req := &SendRequest{Offset: s.queuedSendOffset, Data: data, Fin: fin, OnComplete: onComplete}
	s.queuedSendOffset += protocol.ByteCount(len(data))
	s.requests = append(s.requests, req)

	if !s.Started {
		s.Started = true
		s.Flags = s.Flags.Set(protocol.StreamSendFlagOpen)
	}
	if fin {
		s.LocalCloseFin = true
		s.Flags = s.Flags.Set(protocol.StreamSendFlagFin)
	}
	s.Flags = s.Flags.Set(protocol.StreamSendFlagData)
	return req
}

// Shutdown implements spec.md §4.2 shutdown.
func (s *Send) Shutdown(graceful, silent bool, errorCode uint64) {
	if graceful {
		s.LocalCloseFin = true
		s.Flags = s.Flags.Set(protocol.StreamSendFlagFin)
	} else {
		for _, r := range s.requests {
			if r.OnComplete != nil {
				r.OnComplete(false)
			}
		}
		s.requests = nil
		s.LocalCloseReset = true
		s.Flags = s.Flags.Clear(protocol.StreamSendFlagData |
			protocol.StreamSendFlagDataBlocked |
			protocol.StreamSendFlagOpen |
			protocol.StreamSendFlagFin)
		s.Flags = s.Flags.Set(protocol.StreamSendFlagSendAbort)
	}
	if silent {
		s.LocalCloseAcked = true
		s.Flags = 0
		if s.OnShutdownComplete != nil {
			s.OnShutdownComplete(graceful)
		}
	}
}

// CanWriteDataFrames implements spec.md §4.2 can_write_data_frames.
func (s *Send) CanWriteDataFrames() bool {
	if s.Flags.Has(protocol.StreamSendFlagOpen) {
		return true
	}
	if s.InRecovery && s.recoveryNextOffset < s.recoveryEndOffset {
		return true
	}
	if s.nextSendOffset >= s.queuedSendOffset {
		return s.Flags.Has(protocol.StreamSendFlagFin)
	}
	if s.nextSendOffset >= s.maxAllowedSendOffset {
		return false
	}
	return !s.connFlowControlBlocked()
}

// connFlowControlBlocked reports whether the connection-wide send
// credit is exhausted. A nil pointer means the connection isn't
// wired up (e.g. in isolated unit tests), in which case this never
// blocks.
func (s *Send) connFlowControlBlocked() bool {
	return s.connOrderedBytesSent != nil && s.connPeerMaxData != nil && *s.connOrderedBytesSent >= *s.connPeerMaxData
}

// unsentData reports whether the app has queued bytes beyond
// nextSendOffset.
func (s *Send) unsentData() bool { return s.nextSendOffset < s.queuedSendOffset }

// dataAt returns up to n bytes of queued data starting at offset,
// scanning the request FIFO (SendBookmark in spec terms).
func (s *Send) dataAt(offset, n protocol.ByteCount) []byte {
	for _, r := range s.requests {
		if offset >= r.Offset && offset < r.end() {
			avail := r.end() - offset
			if n > avail {
				n = avail
			}
			start := offset - r.Offset
			return r.Data[start : start+n]
		}
	}
	return nil
}

// WriteStreamFrames implements spec.md §4.2 write_stream_frames.
func (s *Send) WriteStreamFrames(b Builder, connFCHeadroom protocol.ByteCount) {
	isOpenFrame := s.Flags.Has(protocol.StreamSendFlagOpen)

	left := s.nextSendOffset
	recovering := s.InRecovery && s.recoveryNextOffset < s.recoveryEndOffset
	if recovering {
		left = s.recoveryNextOffset
	}

	right := left + b.Remaining()
	if recovering {
		right = utils.Min(right, s.recoveryEndOffset)
	}
	if gap := s.sack.FirstGapAfter(left); gap > left {
		right = utils.Min(right, gap)
	}
	for _, r := range s.sack.ranges {
		if r.Start > left {
			right = utils.Min(right, r.Start)
			break
		}
	}
	right = utils.Min(right, s.queuedSendOffset)
	right = utils.Min(right, s.maxAllowedSendOffset)
	right = utils.Min(right, s.maxSentLength+connFCHeadroom)

	if right < left {
		right = left
	}

	fin := s.Flags.Has(protocol.StreamSendFlagFin) && right >= s.queuedSendOffset

	if right == left && !isOpenFrame && !fin {
		s.setBlockedReason(left)
		return
	}

	data := s.dataAt(left, right-left)
	written := b.WriteStreamFrame(s.ID, left, fin, data)
	newRight := left + written

	if recovering {
		s.recoveryNextOffset = newRight
		if gap := s.sack.FirstGapAfter(s.recoveryNextOffset); gap > s.recoveryNextOffset {
			s.recoveryNextOffset = utils.Min(gap, s.recoveryEndOffset)
		}
	} else {
		s.nextSendOffset = newRight
		if gap := s.sack.FirstGapAfter(s.nextSendOffset); gap > s.nextSendOffset {
			s.nextSendOffset = gap
		}
	}

	if newRight > s.maxSentLength {
		grown := newRight - s.maxSentLength
		s.maxSentLength = newRight
		if s.connOrderedBytesSent != nil {
			*s.connOrderedBytesSent += grown
		}
	}

	s.setBlockedReason(newRight)
}

func (s *Send) setBlockedReason(cursor protocol.ByteCount) {
	switch {
	case !s.unsentData() && !s.Flags.Has(protocol.StreamSendFlagFin):
		s.BlockedReason = protocol.BlockedApp
	case s.unsentData() && cursor >= s.maxAllowedSendOffset:
		s.BlockedReason = protocol.BlockedStreamFlowControl
		s.Flags = s.Flags.Set(protocol.StreamSendFlagDataBlocked)
	case s.unsentData() && s.connFlowControlBlocked():
		s.BlockedReason = protocol.BlockedConnFlowControl
	default:
		s.BlockedReason = protocol.BlockedNone
	}
}

// OnAck implements spec.md §4.2 on_ack.
func (s *Send) OnAck(meta FrameMeta) {
	if meta.Offset == s.unAckedOffset {
		s.unAckedOffset = meta.end()
		s.sack.RemoveUpTo(s.unAckedOffset)
		for {
			gap := s.sack.FirstGapAfter(s.unAckedOffset)
			if gap == s.unAckedOffset {
				break
			}
			s.unAckedOffset = gap
			s.sack.RemoveUpTo(s.unAckedOffset)
		}
		if s.nextSendOffset < s.unAckedOffset {
			s.nextSendOffset = s.unAckedOffset
		}
		if s.recoveryNextOffset < s.unAckedOffset {
			s.recoveryNextOffset = s.unAckedOffset
		}
		if s.InRecovery && s.recoveryEndOffset <= s.unAckedOffset {
			s.InRecovery = false
		}
		s.completeAckedRequests()
	} else if meta.Offset > s.unAckedOffset {
		s.sack.Add(meta.Offset, meta.end())
		if s.nextSendOffset > meta.Offset && s.nextSendOffset < meta.end() {
			s.nextSendOffset = meta.end()
		}
		if s.recoveryNextOffset > meta.Offset && s.recoveryNextOffset < meta.end() {
			s.recoveryNextOffset = meta.end()
		}
	}

	if meta.IsOpen {
		s.SendOpenAcked = true
		s.Flags = s.Flags.Clear(protocol.StreamSendFlagOpen)
	}
	if meta.Fin {
		s.FinAcked = true
		s.Flags = s.Flags.Clear(protocol.StreamSendFlagFin)
	}

	if !s.LocalCloseAcked && len(s.requests) == 0 && s.FinAcked {
		s.LocalCloseAcked = true
		if s.OnShutdownComplete != nil {
			s.OnShutdownComplete(true)
		}
	}
}

// completeAckedRequests pops FIFO requests whose entire range is below
// unAckedOffset and signals completion.
func (s *Send) completeAckedRequests() {
	for len(s.requests) > 0 {
		r := s.requests[0]
		if r.end() > s.unAckedOffset {
			break
		}
		s.requests = s.requests[1:]
		if r.OnComplete != nil {
			r.OnComplete(true)
		}
	}
}

// OnLoss implements spec.md §4.2 on_loss. It returns whether anything
// was requeued for retransmission.
func (s *Send) OnLoss(meta FrameMeta) (requeued bool) {
	if s.LocalCloseReset {
		return false
	}

	start := utils.Max(meta.Offset, s.unAckedOffset)
	end := meta.end()
	if end <= start {
		return false
	}

	// Nothing to requeue if out-of-order ACKs already cover the whole
	// lost range; a partially covered range is requeued whole, and
	// WriteStreamFrames skips its acknowledged parts when sending.
	if s.sack.Covers(start, end) {
		return false
	}

	if !s.InRecovery {
		s.recoveryNextOffset = start
		s.recoveryEndOffset = end
		s.InRecovery = true
	} else {
		if start < s.recoveryNextOffset {
			s.recoveryNextOffset = start
		}
		if end > s.recoveryEndOffset {
			s.recoveryEndOffset = end
		}
	}

	if meta.IsOpen {
		s.Flags = s.Flags.Set(protocol.StreamSendFlagOpen)
	}
	if meta.Fin {
		s.Flags = s.Flags.Set(protocol.StreamSendFlagFin)
	}
	s.Flags = s.Flags.Set(protocol.StreamSendFlagData)
	return true
}

// OnResetAck implements spec.md §4.2 on_reset_ack.
func (s *Send) OnResetAck() {
	s.LocalCloseAcked = true
	if s.OnShutdownComplete != nil {
		s.OnShutdownComplete(false)
	}
}
