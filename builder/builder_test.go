package builder

import (
	"testing"
	"time"

	"github.com/quic-go/quic-transport-core/ackhandler"
	"github.com/quic-go/quic-transport-core/protocol"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestBuilder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "builder suite")
}

var _ = Describe("PacketBuilder", func() {
	var pool *Pool

	BeforeEach(func() { pool = NewPool() })

	It("writes a stream frame and reports reduced remaining space", func() {
		b := New(pool.Get(), protocol.DefaultTCPMSS, nil, time.Now())
		before := b.Remaining()
		n := b.WriteStreamFrame(4, 0, true, []byte("hello world"))
		Expect(n).To(Equal(protocol.ByteCount(11)))
		Expect(b.Remaining()).To(BeNumerically("<", before))
		Expect(b.FrameCount()).To(Equal(1))
		Expect(b.Frames()[0].Fin).To(BeTrue())
	})

	It("truncates a stream frame and clears fin once the budget runs out", func() {
		b := New(pool.Get(), streamFrameOverhead+5, nil, time.Now())
		n := b.WriteStreamFrame(4, 0, true, []byte("hello world"))
		Expect(n).To(Equal(protocol.ByteCount(5)))
		Expect(b.Frames()[0].Fin).To(BeFalse())
		Expect(b.PacketFull()).To(BeTrue())
	})

	It("reports PacketFull once no minimal frame fits", func() {
		b := New(pool.Get(), streamFrameOverhead-1, nil, time.Now())
		Expect(b.PacketFull()).To(BeTrue())
	})

	It("delegates WriteAck to the encryption level's PacketSpace", func() {
		space := ackhandler.NewPacketSpace(protocol.Encryption1RTT)
		now := time.Now()
		space.ReceivedPacket(1, true, now)

		b := New(pool.Get(), protocol.DefaultTCPMSS, space, now)
		Expect(b.WriteAck()).To(BeTrue())
		Expect(b.FrameCount()).To(Equal(1))
		Expect(space.HasPacketsToAck()).To(BeFalse())
	})

	It("refuses to write once Finalize has been called", func() {
		b := New(pool.Get(), protocol.DefaultTCPMSS, nil, time.Now())
		b.Finalize()
		Expect(b.WritePing(false)).To(BeFalse())
		Expect(b.WriteStreamFrame(4, 0, false, []byte("x"))).To(BeZero())
	})
})
