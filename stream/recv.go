package stream

import (
	"time"

	"github.com/quic-go/quic-transport-core/flowcontrol"
	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/qerr"
	"github.com/quic-go/quic-transport-core/utils"
)

// DrainRatio controls how much of the advertised window must be
// consumed before a MAX_DATA / MAX_STREAM_DATA update is flagged
// (spec.md §4.3, "drain ratio").
const DrainRatio = 2

// DeliveryAction is the application's response to a RECEIVE indication
// from the delivery loop (spec.md §4.3 "delivery loop").
type DeliveryAction uint8

const (
	// DeliveryContinue asks the loop to keep pumping further
	// contiguous data immediately.
	DeliveryContinue DeliveryAction = iota
	// DeliveryPending tells the loop to stop and wait for an explicit
	// completion signal before draining consumed bytes.
	DeliveryPending
	// DeliverySuccess drains the indicated length as consumed.
	DeliverySuccess
)

// DeliverFunc indicates received data to the application. flags may
// combine fin and zeroRTT; it returns the application's chosen action
// and, for DeliverySuccess, how many bytes were consumed.
type DeliverFunc func(data [][]byte, fin, zeroRTT bool) (action DeliveryAction, consumed protocol.ByteCount)

// Recv implements per-stream receive-side reassembly, flow-control
// tuning, and application delivery (spec.md §4.3).
type Recv struct {
	ID protocol.StreamID

	buf *flowcontrol.RecvBuffer

	maxAllowedRecvOffset protocol.ByteCount
	recvMaxLength        protocol.ByteCount // U64_MAX == unknown final size
	recvMax0RttLength    protocol.ByteCount

	recvWindowBytesDelivered protocol.ByteCount
	recvWindowLastUpdate     time.Time
	recvWindowLastUpdateSet  bool

	recvPendingLength    protocol.ByteCount
	recvCompletionLength protocol.ByteCount
	recvShutdownErrCode  uint64

	connBytesReceived     *protocol.ByteCount // OrderedStreamBytesReceived, shared with connection state
	connMaxData           *protocol.ByteCount // MaxData, shared with connection state
	connFlowControlWindow protocol.ByteCount
	connDeliverAccum      *protocol.ByteCount
	ConnFlags             *protocol.ConnSendFlags

	ReceiveEnabled     bool
	ReceiveMultiple    bool
	ReceiveDataPending bool
	ReceiveFlushQueued bool
	ReceiveCallActive  bool

	RemoteCloseFin           bool
	RemoteCloseReset         bool
	RemoteCloseResetReliable bool
	SentStopSending          bool
	ReceivedStopSending      bool

	reliableOffset    protocol.ByteCount
	reliableOffsetSet bool

	StreamSendFlags protocol.StreamSendFlags // RECV_ABORT / MAX_DATA live here, mirroring Send's bitset

	Deliver DeliverFunc

	// OnPeerSendShutdown fires once the entire stream has been
	// delivered to the app (spec.md §6 PEER_SEND_SHUTDOWN, §8
	// property 6: exactly one firing, alongside RemoteCloseFin).
	OnPeerSendShutdown func()
	// OnPeerSendAborted fires when the peer resets its send side
	// (RESET_STREAM or a satisfied RELIABLE_RESET) while this side
	// hadn't already stopped receiving (spec.md §6 PEER_SEND_ABORTED).
	OnPeerSendAborted func()
	// OnPeerReceiveAborted fires when the peer sends STOP_SENDING,
	// just before the local send side is abortively closed (spec.md §6
	// PEER_RECEIVE_ABORTED).
	OnPeerReceiveAborted func()
}

const unknownFinalSize = protocol.ByteCount(^uint64(0))

// NewRecv creates a receive state with an unknown final size and the
// given initial advertised window.
func NewRecv(id protocol.StreamID, initialWindow protocol.ByteCount, connBytesReceived, connMaxData *protocol.ByteCount, connFCWindow protocol.ByteCount, connDeliverAccum *protocol.ByteCount, connFlags *protocol.ConnSendFlags) *Recv {
	return &Recv{
		ID:                    id,
		buf:                   flowcontrol.NewRecvBuffer(initialWindow),
		maxAllowedRecvOffset:  initialWindow,
		recvMaxLength:         unknownFinalSize,
		ReceiveEnabled:        true,
		connBytesReceived:     connBytesReceived,
		connMaxData:           connMaxData,
		connFlowControlWindow: connFCWindow,
		connDeliverAccum:      connDeliverAccum,
		ConnFlags:             connFlags,
	}
}

// Process implements spec.md §4.3 "Processing STREAM frame".
func (r *Recv) Process(offset protocol.ByteCount, data []byte, fin, zeroRTT bool) error {
	if !r.ReceiveEnabled {
		return nil
	}
	end := offset + protocol.ByteCount(len(data))

	if r.SentStopSending {
		return nil
	}

	if r.recvMaxLength != unknownFinalSize {
		if fin && end != r.recvMaxLength {
			return qerr.FinalSizeErrorf("conflicting FIN at offset %d (final size already %d)", end, r.recvMaxLength)
		}
		if end > r.recvMaxLength {
			return qerr.FinalSizeErrorf("stream data extends past final size %d", r.recvMaxLength)
		}
	}

	if end > protocol.VarIntMax {
		return qerr.FlowControlErrorf("stream offset %d exceeds the maximum varint", end)
	}

	headroom := protocol.ByteCount(0)
	if r.connMaxData != nil && r.connBytesReceived != nil && *r.connMaxData > *r.connBytesReceived {
		headroom = *r.connMaxData - *r.connBytesReceived
	}
	if end > r.maxAllowedRecvOffset {
		return qerr.FlowControlErrorf("stream %d exceeded advertised window (end=%d, window=%d)", r.ID, end, r.maxAllowedRecvOffset)
	}

	newBytes := r.buf.Write(offset, data)
	if newBytes > headroom && r.connMaxData != nil {
		return qerr.FlowControlErrorf("connection receive credit exceeded")
	}
	if r.connBytesReceived != nil {
		*r.connBytesReceived += newBytes
	}

	if fin {
		r.recvMaxLength = end
		if zeroRTT {
			r.recvMax0RttLength = end
		}
	}

	if r.buf.HasContiguousData() && (r.ReceiveMultiple || !r.ReceiveCallActive) {
		r.ReceiveDataPending = true
		if r.recvMaxLength != unknownFinalSize && r.buf.BaseOffset()+r.buf.ContiguousLength() >= r.recvMaxLength {
			r.flush()
		} else {
			r.ReceiveFlushQueued = true
		}
	}
	return nil
}

// ProcessResetStream implements spec.md §4.3 "Processing RESET_STREAM".
func (r *Recv) ProcessResetStream(finalSize protocol.ByteCount, errorCode uint64) error {
	totalRecvLength := r.buf.BaseOffset() + r.buf.ContiguousLength()
	if finalSize < totalRecvLength {
		return qerr.FinalSizeErrorf("RESET_STREAM final size %d below already-received length %d", finalSize, totalRecvLength)
	}

	alreadyStopped := !r.ReceiveEnabled
	r.RemoteCloseReset = true
	r.ReceiveEnabled = false
	if !alreadyStopped && r.OnPeerSendAborted != nil {
		r.OnPeerSendAborted()
	}

	if r.connMaxData != nil && r.connBytesReceived != nil && finalSize > *r.connBytesReceived {
		delta := finalSize - *r.connBytesReceived
		*r.connBytesReceived += delta
	}
	if r.connMaxData != nil && finalSize > r.buf.BaseOffset() {
		delta := finalSize - r.buf.BaseOffset()
		*r.connMaxData += delta
		if r.ConnFlags != nil {
			*r.ConnFlags = r.ConnFlags.Set(protocol.SendFlagMaxData)
		}
	}

	r.recvShutdownErrCode = errorCode

	r.StreamSendFlags = r.StreamSendFlags.Clear(protocol.StreamSendFlagMaxData | protocol.StreamSendFlagRecvAbort)
	return nil
}

// ProcessReliableReset implements spec.md §4.3 "Processing RELIABLE_RESET".
func (r *Recv) ProcessReliableReset(featureNegotiated bool, reliableOffset protocol.ByteCount, errorCode uint64) error {
	if !featureNegotiated {
		return qerr.NewTransportError(qerr.TransportParameterError, 0, "reliable reset not negotiated")
	}
	if r.reliableOffsetSet && reliableOffset >= r.reliableOffset {
		return nil // only strictly decreasing offsets are accepted
	}
	r.reliableOffsetSet = true
	r.reliableOffset = reliableOffset

	delivered := r.buf.BaseOffset()
	if delivered >= reliableOffset {
		r.RemoteCloseResetReliable = true
		r.ReceiveEnabled = false
		if r.OnPeerSendAborted != nil {
			r.OnPeerSendAborted()
		}
	} else {
		r.recvShutdownErrCode = errorCode
	}
	return nil
}

// ProcessStopSending implements spec.md §4.3 "Processing STOP_SENDING".
// send is the peer stream's send-side state to abort.
func (r *Recv) ProcessStopSending(send *Send) {
	if send.LocalCloseAcked || send.LocalCloseReset {
		return
	}
	if r.OnPeerReceiveAborted != nil {
		r.OnPeerReceiveAborted()
	}
	send.Shutdown(false, false, 0)
	r.ReceivedStopSending = true
}

// OnBytesDelivered implements spec.md §4.3 "On bytes delivered to app".
func (r *Recv) OnBytesDelivered(bytes protocol.ByteCount, rtt time.Duration, now time.Time) {
	if r.connMaxData != nil {
		*r.connMaxData += bytes
	}
	if r.connDeliverAccum != nil {
		*r.connDeliverAccum += bytes
		if *r.connDeliverAccum > r.connFlowControlWindow/DrainRatio {
			if r.ConnFlags != nil {
				*r.ConnFlags = r.ConnFlags.Set(protocol.SendFlagMaxData)
			}
			*r.connDeliverAccum = 0
		}
	}

	r.recvWindowBytesDelivered += bytes
	threshold := r.buf.VirtualBufferLength() / DrainRatio
	if r.recvWindowBytesDelivered <= threshold {
		return
	}

	tunedUp := false
	if r.recvWindowLastUpdateSet && rtt > 0 {
		elapsed := now.Sub(r.recvWindowLastUpdate)
		if elapsed < rtt*time.Duration(r.recvWindowBytesDelivered)/time.Duration(threshold) &&
			r.buf.VirtualBufferLength() < r.connFlowControlWindow {
			r.buf.SetVirtualBufferLength(utils.Min(2*r.buf.VirtualBufferLength(), r.connFlowControlWindow))
			tunedUp = true
		}
	}
	r.recvWindowLastUpdate = now
	r.recvWindowLastUpdateSet = true
	r.recvWindowBytesDelivered = 0

	r.maxAllowedRecvOffset = r.buf.BaseOffset() + r.buf.VirtualBufferLength()
	if tunedUp {
		if r.ConnFlags != nil {
			*r.ConnFlags = r.ConnFlags.Set(protocol.SendFlagMaxData)
		}
		r.StreamSendFlags = r.StreamSendFlags.Set(protocol.StreamSendFlagMaxData)
	} else if r.ConnFlags != nil && r.ConnFlags.Has(protocol.SendFlagACK) {
		r.StreamSendFlags = r.StreamSendFlags.Set(protocol.StreamSendFlagMaxData)
	}
}

// MaxAllowedRecvOffset returns the credit currently advertised to the peer.
func (r *Recv) MaxAllowedRecvOffset() protocol.ByteCount { return r.maxAllowedRecvOffset }

// flush runs the delivery loop described in spec.md §4.3 "Delivery loop".
func (r *Recv) flush() {
	if r.Deliver == nil || r.ReceiveCallActive {
		return
	}
	r.ReceiveCallActive = true
	defer func() { r.ReceiveCallActive = false }()

	for r.buf.HasContiguousData() {
		slices := r.buf.ReadSlices(3)
		if len(slices) == 0 {
			break
		}
		var total protocol.ByteCount
		for _, s := range slices {
			total += protocol.ByteCount(len(s))
		}
		endOffset := r.buf.BaseOffset() + total
		fin := r.recvMaxLength != unknownFinalSize && endOffset == r.recvMaxLength
		zeroRTT := r.buf.BaseOffset() < r.recvMax0RttLength

		action, consumed := r.Deliver(slices, fin, zeroRTT)
		switch action {
		case DeliveryPending:
			r.recvPendingLength = total
			return
		case DeliverySuccess:
			r.buf.Advance(consumed)
			if fin && consumed == total {
				r.finishDelivery()
				return
			}
		case DeliveryContinue:
			r.buf.Advance(total)
			if fin {
				r.finishDelivery()
				return
			}
		}
		if action != DeliveryContinue {
			break
		}
	}
	r.ReceiveDataPending = r.buf.HasContiguousData()
	r.ReceiveFlushQueued = false
}

// finishDelivery marks the stream's receive side as fully delivered.
func (r *Recv) finishDelivery() {
	r.RemoteCloseFin = true
	r.StreamSendFlags = r.StreamSendFlags.Clear(protocol.StreamSendFlagMaxData | protocol.StreamSendFlagRecvAbort)
	if r.OnPeerSendShutdown != nil {
		r.OnPeerSendShutdown()
	}
}

// FlushPending runs the delivery loop if one was queued by Process.
func (r *Recv) FlushPending() {
	if r.ReceiveFlushQueued || r.ReceiveDataPending {
		r.flush()
	}
}

// CompletePending resumes a delivery left in DeliveryPending state,
// draining consumed bytes from the buffer.
func (r *Recv) CompletePending(consumed protocol.ByteCount) {
	r.buf.Advance(consumed)
	r.recvCompletionLength = consumed
	r.recvPendingLength = 0
	r.flush()
}
