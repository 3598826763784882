package ackhandler

import (
	"testing"
	"time"

	"github.com/quic-go/quic-transport-core/protocol"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestAckhandler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ackhandler suite")
}

type fakeAckWriter struct {
	wrote   bool
	largest protocol.PacketNumber
	ranges  []AckRange
	refuse  bool
}

func (w *fakeAckWriter) WriteAckFrame(largest protocol.PacketNumber, ranges []AckRange, delay time.Duration) bool {
	if w.refuse {
		return false
	}
	w.wrote = true
	w.largest = largest
	w.ranges = ranges
	return true
}

var _ = Describe("PacketSpace", func() {
	var (
		space *PacketSpace
		now   time.Time
	)

	BeforeEach(func() {
		space = NewPacketSpace(protocol.Encryption1RTT)
		now = time.Unix(1000, 0)
	})

	It("builds contiguous ack ranges and clears pending state once written", func() {
		space.ReceivedPacket(1, true, now)
		space.ReceivedPacket(2, true, now)
		space.ReceivedPacket(4, true, now)
		space.ReceivedPacket(5, true, now)
		Expect(space.HasPacketsToAck()).To(BeTrue())
		Expect(space.AckElicitingPacketsToAcknowledge()).To(Equal(4))

		w := &fakeAckWriter{}
		Expect(space.EncodeAckFrame(w, now)).To(BeTrue())
		Expect(w.largest).To(Equal(protocol.PacketNumber(5)))
		Expect(w.ranges).To(Equal([]AckRange{
			{Smallest: 4, Largest: 5},
			{Smallest: 1, Largest: 2},
		}))

		Expect(space.HasPacketsToAck()).To(BeFalse())
		Expect(space.AckElicitingPacketsToAcknowledge()).To(BeZero())
	})

	It("reports duplicate packets without re-queuing an ACK", func() {
		space.ReceivedPacket(3, true, now)
		w := &fakeAckWriter{}
		space.EncodeAckFrame(w, now)
		Expect(space.ReceivedPacket(3, true, now)).To(BeTrue())
		Expect(space.HasPacketsToAck()).To(BeFalse())
	})

	It("fires OnAcked for newly-acked packets and clears ack-eliciting in-flight", func() {
		var acked []protocol.PacketNumber
		for pn := protocol.PacketNumber(1); pn <= 3; pn++ {
			pn := pn
			Expect(space.SentPacket(pn, 100, true, now, func() { acked = append(acked, pn) }, nil)).To(Succeed())
		}
		Expect(space.HasAckElicitingInFlight()).To(BeTrue())

		bytes, largest, any := space.ProcessAck([]AckRange{{Smallest: 1, Largest: 2}})
		Expect(any).To(BeTrue())
		Expect(bytes).To(Equal(protocol.ByteCount(200)))
		Expect(largest).To(Equal(protocol.PacketNumber(2)))
		Expect(acked).To(Equal([]protocol.PacketNumber{1, 2}))
		Expect(space.HasAckElicitingInFlight()).To(BeTrue()) // packet 3 still out
	})

	It("rejects a packet number that does not increase", func() {
		Expect(space.SentPacket(5, 100, true, now, nil, nil)).To(Succeed())
		Expect(space.SentPacket(5, 100, true, now, nil, nil)).To(HaveOccurred())
		Expect(space.SentPacket(4, 100, true, now, nil, nil)).To(Equal(ErrPacketNumberNotIncreasing))
	})

	It("declares a packet lost once it falls packetThreshold behind the largest acked", func() {
		var lost bool
		Expect(space.SentPacket(1, 50, true, now, nil, func() { lost = true })).To(Succeed())
		for pn := protocol.PacketNumber(2); pn <= 5; pn++ {
			Expect(space.SentPacket(pn, 50, true, now, nil, nil)).To(Succeed())
		}
		space.ProcessAck([]AckRange{{Smallest: 4, Largest: 4}})
		lostBytes := space.DetectLosses(now, 0)
		Expect(lost).To(BeTrue())
		Expect(lostBytes).To(Equal(protocol.ByteCount(50)))
	})
})
