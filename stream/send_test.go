package stream

import (
	"github.com/quic-go/quic-transport-core/protocol"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// fakeBuilder is a minimal Builder that accepts everything up to a
// fixed remaining-space budget.
type fakeBuilder struct {
	remaining protocol.ByteCount
	frames    []FrameMeta
}

func (b *fakeBuilder) Remaining() protocol.ByteCount { return b.remaining }

func (b *fakeBuilder) WriteStreamFrame(id protocol.StreamID, offset protocol.ByteCount, fin bool, data []byte) protocol.ByteCount {
	n := protocol.ByteCount(len(data))
	if n > b.remaining {
		n = b.remaining
	}
	b.remaining -= n
	b.frames = append(b.frames, FrameMeta{Offset: offset, Length: n, Fin: fin && n == protocol.ByteCount(len(data))})
	return n
}

var _ = Describe("Send", func() {
	var (
		s                    *Send
		connOrderedBytesSent protocol.ByteCount
		connPeerMaxData      protocol.ByteCount
	)

	BeforeEach(func() {
		connOrderedBytesSent, connPeerMaxData = 0, 1<<20
		s = NewSend(4, 1<<20, &connOrderedBytesSent, &connPeerMaxData)
	})

	It("queues writes and reports CanWriteDataFrames until drained", func() {
		var completed bool
		s.QueueAppSend([]byte("hello"), true, func(ok bool) { completed = ok })
		Expect(s.CanWriteDataFrames()).To(BeTrue())

		b := &fakeBuilder{remaining: 100}
		s.WriteStreamFrames(b, 1<<20)
		Expect(b.frames).To(HaveLen(1))
		Expect(b.frames[0]).To(Equal(FrameMeta{Offset: 0, Length: 5, Fin: true}))
		Expect(s.maxSentLength).To(Equal(protocol.ByteCount(5)))

		s.OnAck(b.frames[0])
		Expect(s.unAckedOffset).To(Equal(protocol.ByteCount(5)))
		Expect(s.FinAcked).To(BeTrue())
		Expect(s.LocalCloseAcked).To(BeTrue())
		Expect(completed).To(BeTrue())
	})

	It("splits a write across a builder space limit and resumes next call", func() {
		s.QueueAppSend([]byte("0123456789"), false, nil)

		b1 := &fakeBuilder{remaining: 4}
		s.WriteStreamFrames(b1, 1<<20)
		Expect(b1.frames[0]).To(Equal(FrameMeta{Offset: 0, Length: 4}))
		Expect(s.nextSendOffset).To(Equal(protocol.ByteCount(4)))

		b2 := &fakeBuilder{remaining: 100}
		s.WriteStreamFrames(b2, 1<<20)
		Expect(b2.frames[0]).To(Equal(FrameMeta{Offset: 4, Length: 6}))
		Expect(s.nextSendOffset).To(Equal(protocol.ByteCount(10)))
	})

	It("records an out-of-order ack into SparseAckRanges without advancing UnAckedOffset", func() {
		s.QueueAppSend([]byte("0123456789"), false, nil)
		b := &fakeBuilder{remaining: 100}
		s.WriteStreamFrames(b, 1<<20)

		s.OnAck(FrameMeta{Offset: 5, Length: 5})
		Expect(s.unAckedOffset).To(BeZero())
		Expect(s.sack.Empty()).To(BeFalse())

		s.OnAck(FrameMeta{Offset: 0, Length: 5})
		Expect(s.unAckedOffset).To(Equal(protocol.ByteCount(10)))
		Expect(s.sack.Empty()).To(BeTrue())
	})

	It("opens a recovery window on loss and retransmits through it", func() {
		s.QueueAppSend([]byte("0123456789"), false, nil)
		b := &fakeBuilder{remaining: 100}
		s.WriteStreamFrames(b, 1<<20)

		requeued := s.OnLoss(b.frames[0])
		Expect(requeued).To(BeTrue())
		Expect(s.InRecovery).To(BeTrue())
		Expect(s.recoveryNextOffset).To(Equal(protocol.ByteCount(0)))
		Expect(s.recoveryEndOffset).To(Equal(protocol.ByteCount(10)))

		rb := &fakeBuilder{remaining: 100}
		s.WriteStreamFrames(rb, 1<<20)
		Expect(rb.frames[0]).To(Equal(FrameMeta{Offset: 0, Length: 10}))

		s.OnAck(rb.frames[0])
		Expect(s.InRecovery).To(BeFalse())
	})

	It("tracks OrderedStreamBytesSent on the shared connection counter and blocks once PeerMaxData is exhausted", func() {
		s.QueueAppSend([]byte("0123456789"), false, nil)

		b := &fakeBuilder{remaining: 5}
		s.WriteStreamFrames(b, 1<<20)
		Expect(connOrderedBytesSent).To(Equal(protocol.ByteCount(5)))

		// Acking the first (stream-opening) frame clears the Open flag,
		// so CanWriteDataFrames now falls through to the connection-wide
		// flow-control gate instead of short-circuiting true.
		openedMeta := b.frames[0]
		openedMeta.IsOpen = true
		s.OnAck(openedMeta)
		Expect(s.Flags.Has(protocol.StreamSendFlagOpen)).To(BeFalse())
		Expect(s.CanWriteDataFrames()).To(BeTrue())

		connPeerMaxData = 5
		Expect(s.CanWriteDataFrames()).To(BeFalse())

		s.setBlockedReason(s.nextSendOffset)
		Expect(s.BlockedReason).To(Equal(protocol.BlockedConnFlowControl))
	})

	It("cancels queued requests and signals failure on abortive shutdown", func() {
		var ok bool
		s.QueueAppSend([]byte("abc"), false, func(v bool) { ok = v })
		s.Shutdown(false, false, 42)
		Expect(ok).To(BeFalse())
		Expect(s.LocalCloseReset).To(BeTrue())
		Expect(s.Flags.Has(protocol.StreamSendFlagSendAbort)).To(BeTrue())
		Expect(s.Flags.Has(protocol.StreamSendFlagData)).To(BeFalse())
	})

	It("fires SEND_SHUTDOWN_COMPLETE(graceful=true) exactly once once the queue drains and FIN is acked", func() {
		var fired int
		var graceful bool
		s.OnShutdownComplete = func(g bool) { fired++; graceful = g }

		s.QueueAppSend([]byte("hello"), true, nil)
		b := &fakeBuilder{remaining: 100}
		s.WriteStreamFrames(b, 1<<20)
		s.OnAck(b.frames[0])

		Expect(fired).To(Equal(1))
		Expect(graceful).To(BeTrue())
		Expect(s.LocalCloseAcked).To(BeTrue())

		// A further spurious ack must not re-fire.
		s.OnAck(b.frames[0])
		Expect(fired).To(Equal(1))
	})

	It("fires SEND_SHUTDOWN_COMPLETE(graceful=false) on an abortive, silent shutdown", func() {
		var fired int
		var graceful bool
		s.OnShutdownComplete = func(g bool) { fired++; graceful = g }

		s.QueueAppSend([]byte("abc"), false, nil)
		s.Shutdown(false, true, 42)

		Expect(fired).To(Equal(1))
		Expect(graceful).To(BeFalse())
		Expect(s.LocalCloseAcked).To(BeTrue())
	})

	It("fires SEND_SHUTDOWN_COMPLETE(graceful=false) once RESET_STREAM is acked", func() {
		var fired int
		var graceful bool
		s.OnShutdownComplete = func(g bool) { fired++; graceful = g }

		s.QueueAppSend([]byte("abc"), false, nil)
		s.Shutdown(false, false, 42)
		s.OnResetAck()

		Expect(fired).To(Equal(1))
		Expect(graceful).To(BeFalse())
		Expect(s.LocalCloseAcked).To(BeTrue())
	})
})
