package stream

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Recv", func() {
	var (
		r                 *Recv
		connReceived      protocol.ByteCount
		connMaxData       protocol.ByteCount
		connDeliverAccum  protocol.ByteCount
		connFlags         protocol.ConnSendFlags
	)

	BeforeEach(func() {
		connReceived, connMaxData, connDeliverAccum, connFlags = 0, 1<<20, 0, 0
		r = NewRecv(4, 1<<16, &connReceived, &connMaxData, 1<<20, &connDeliverAccum, &connFlags)
	})

	It("delivers data as soon as it becomes contiguous and signals FIN", func() {
		var delivered []byte
		var sawFin bool
		r.Deliver = func(data [][]byte, fin, zeroRTT bool) (DeliveryAction, protocol.ByteCount) {
			for _, s := range data {
				delivered = append(delivered, s...)
			}
			sawFin = fin
			var n protocol.ByteCount
			for _, s := range data {
				n += protocol.ByteCount(len(s))
			}
			return DeliverySuccess, n
		}

		Expect(r.Process(0, []byte("hello"), true, false)).To(Succeed())
		Expect(string(delivered)).To(Equal("hello"))
		Expect(sawFin).To(BeTrue())
		Expect(r.RemoteCloseFin).To(BeTrue())
	})

	It("rejects data past an established final size", func() {
		Expect(r.Process(0, []byte("hi"), true, false)).To(Succeed())
		err := r.Process(2, []byte("!"), false, false)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a conflicting FIN at a different final offset", func() {
		Expect(r.Process(0, []byte("hi"), true, false)).To(Succeed())
		err := r.Process(0, []byte("hiya"), true, false)
		Expect(err).To(HaveOccurred())
	})

	It("rejects data beyond the advertised window", func() {
		err := r.Process(1<<16, []byte("x"), false, false)
		Expect(err).To(HaveOccurred())
	})

	It("flags MAX_STREAM_DATA once delivery crosses the drain threshold while an ACK is pending", func() {
		r.Deliver = func(data [][]byte, fin, zeroRTT bool) (DeliveryAction, protocol.ByteCount) {
			var n protocol.ByteCount
			for _, s := range data {
				n += protocol.ByteCount(len(s))
			}
			return DeliverySuccess, n
		}
		payload := make([]byte, 100)
		Expect(r.Process(0, payload, false, false)).To(Succeed())

		before := r.MaxAllowedRecvOffset()
		r.OnBytesDelivered(protocol.ByteCount(len(payload)), 20*time.Millisecond, time.Unix(1, 0))
		r.recvWindowBytesDelivered = r.buf.VirtualBufferLength()/DrainRatio + 1
		connFlags = connFlags.Set(protocol.SendFlagACK)

		r.OnBytesDelivered(1, 20*time.Millisecond, time.Unix(2, 0))
		Expect(r.StreamSendFlags.Has(protocol.StreamSendFlagMaxData)).To(BeTrue())
		_ = before
	})

	It("honors RESET_STREAM final-size accounting and grants delta credit", func() {
		Expect(r.ProcessResetStream(500, 7)).To(Succeed())
		Expect(r.RemoteCloseReset).To(BeTrue())
		Expect(connReceived).To(Equal(protocol.ByteCount(500)))
		Expect(connFlags.Has(protocol.SendFlagMaxData)).To(BeTrue())
	})

	It("fires PEER_SEND_ABORTED exactly once on RESET_STREAM, not again if receiving already stopped", func() {
		var fired int
		r.OnPeerSendAborted = func() { fired++ }
		Expect(r.ProcessResetStream(500, 7)).To(Succeed())
		Expect(fired).To(Equal(1))

		// Receiving is already stopped; a second reset must not re-fire.
		Expect(r.ProcessResetStream(500, 7)).To(Succeed())
		Expect(fired).To(Equal(1))
	})

	It("fires PEER_SEND_SHUTDOWN exactly once when the whole stream is delivered", func() {
		var fired int
		r.OnPeerSendShutdown = func() { fired++ }
		r.Deliver = func(data [][]byte, fin, zeroRTT bool) (DeliveryAction, protocol.ByteCount) {
			var n protocol.ByteCount
			for _, s := range data {
				n += protocol.ByteCount(len(s))
			}
			return DeliverySuccess, n
		}
		Expect(r.Process(0, []byte("hello"), true, false)).To(Succeed())
		Expect(fired).To(Equal(1))
		Expect(r.RemoteCloseFin).To(BeTrue())
	})

	It("fires PEER_RECEIVE_ABORTED when the peer sends STOP_SENDING", func() {
		var fired int
		r.OnPeerReceiveAborted = func() { fired++ }
		send := NewSend(4, 1<<20, nil, nil)
		send.QueueAppSend([]byte("x"), false, nil)

		r.ProcessStopSending(send)
		Expect(fired).To(Equal(1))
		Expect(r.ReceivedStopSending).To(BeTrue())
		Expect(send.LocalCloseReset).To(BeTrue())
	})
})
