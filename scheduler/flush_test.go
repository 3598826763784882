package scheduler

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/stream"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type fakeCC struct {
	canSend   bool
	allowance protocol.ByteCount
}

func (f *fakeCC) CanSend() bool { return f.canSend }
func (f *fakeCC) GetSendAllowance(time.Duration, bool, time.Duration) protocol.ByteCount {
	return f.allowance
}

type fakeAcks struct {
	shouldAck bool
}

func (f *fakeAcks) ShouldSendAck() bool            { return f.shouldAck }
func (f *fakeAcks) HasAckElicitingInFlight() bool  { return false }

// fakeBuilder is a Builder with unlimited space; it records what it wrote.
type fakeBuilder struct {
	wroteAck, wroteCrypto, wroteClose, wroteMaxData bool
	streamFrames                                    int
	full                                             bool
}

func (b *fakeBuilder) Remaining() protocol.ByteCount { return 1 << 20 }
func (b *fakeBuilder) WriteStreamFrame(id protocol.StreamID, offset protocol.ByteCount, fin bool, data []byte) protocol.ByteCount {
	b.streamFrames++
	return protocol.ByteCount(len(data))
}
func (b *fakeBuilder) PacketFull() bool { return b.full }
func (b *fakeBuilder) FrameCount() int {
	n := b.streamFrames
	if b.wroteAck {
		n++
	}
	if b.wroteCrypto {
		n++
	}
	if b.wroteClose {
		n++
	}
	return n
}
func (b *fakeBuilder) Finalize() {}

func (b *fakeBuilder) WriteAck() bool                    { b.wroteAck = true; return true }
func (b *fakeBuilder) WriteCrypto() bool                 { b.wroteCrypto = true; return true }
func (b *fakeBuilder) WriteConnectionClose(int) bool     { b.wroteClose = true; return true }
func (b *fakeBuilder) WritePathResponse() bool           { return true }
func (b *fakeBuilder) WriteHandshakeDone() bool          { return true }
func (b *fakeBuilder) WriteDataBlocked() bool             { return true }
func (b *fakeBuilder) WriteMaxData(protocol.ByteCount) bool { b.wroteMaxData = true; return true }
func (b *fakeBuilder) WriteMaxStreams(bool) bool          { return true }
func (b *fakeBuilder) WriteStreamsBlocked(bool) bool      { return true }
func (b *fakeBuilder) WriteNewConnectionID() (bool, bool) { return true, false }
func (b *fakeBuilder) WriteRetireConnectionID() (bool, bool) { return true, false }
func (b *fakeBuilder) WriteAckFrequency() bool            { return true }
func (b *fakeBuilder) WriteDatagram() bool                { return true }
func (b *fakeBuilder) WritePing(bool) bool                { return true }
func (b *fakeBuilder) WriteMTUProbe() bool                { return true }

var _ = Describe("Scheduler.Flush", func() {
	var (
		sched *Scheduler
		conn  *ConnState
		q     *Queue
		cc    *fakeCC
		acks  *fakeAcks
		path  *Path
	)

	BeforeEach(func() {
		conn = NewConnState(1 << 20)
		q = NewQueue()
		cc = &fakeCC{canSend: true}
		acks = &fakeAcks{}
		path = &Path{AddressValidated: true}
		sched = &Scheduler{Conn: conn, Queue: q, CC: cc, Acks: acks, KeyPhase: protocol.Encryption1RTT}
	})

	It("writes ACK then stream data and reports Complete once drained", func() {
		conn.Flags = conn.Flags.Set(protocol.SendFlagACK)
		send := stream.NewSend(4, 1<<20, &conn.OrderedStreamBytesSent, &conn.PeerMaxData)
		send.QueueAppSend([]byte("hello"), true, nil)
		q.Enqueue(4, send, nil, 0)

		b := &fakeBuilder{}
		result := sched.Flush(path, b)
		Expect(result).To(Equal(Complete))
		Expect(b.wroteAck).To(BeTrue())
		Expect(b.streamFrames).To(BeNumerically(">", 0))
	})

	It("masks to BYPASS_CC flags when congestion-blocked and returns DelayedPacing for a pending ACK", func() {
		cc.canSend = false
		acks.shouldAck = true
		conn.Flags = conn.Flags.Set(protocol.SendFlagMaxData)

		b := &fakeBuilder{}
		result := sched.Flush(path, b)
		Expect(result).To(Equal(DelayedPacing))
		Expect(b.wroteMaxData).To(BeFalse())
	})

	It("masks to ALLOWED_HANDSHAKE before the 1-RTT keys are available", func() {
		sched.KeyPhase = protocol.EncryptionHandshake
		conn.Flags = conn.Flags.Set(protocol.SendFlagMaxData | protocol.SendFlagCRYPTO)

		b := &fakeBuilder{}
		sched.Flush(path, b)
		Expect(b.wroteCrypto).To(BeTrue())
		Expect(b.wroteMaxData).To(BeFalse())
	})

	It("stops writing further frames once CONNECTION_CLOSE is queued", func() {
		conn.Flags = conn.Flags.Set(protocol.SendFlagACK | protocol.SendFlagConnectionClose1)
		b := &fakeBuilder{}
		sched.Flush(path, b)
		Expect(b.wroteClose).To(BeTrue())
	})
})
