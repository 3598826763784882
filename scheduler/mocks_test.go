package scheduler

import (
	"github.com/golang/mock/gomock"

	"github.com/quic-go/quic-transport-core/protocol"

	mockackhandler "github.com/quic-go/quic-transport-core/internal/mocks/ackhandler"
	mockbuilder "github.com/quic-go/quic-transport-core/internal/mocks/builder"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scheduler.Flush with generated mocks", func() {
	It("asks the AckTracker before arming a delayed-pacing timer when congestion-blocked", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		b := mockbuilder.NewMockBuilder(ctrl)
		b.EXPECT().Remaining().Return(protocol.ByteCount(1 << 16)).AnyTimes()
		b.EXPECT().PacketFull().Return(false).AnyTimes()
		b.EXPECT().FrameCount().Return(0).AnyTimes()
		b.EXPECT().Finalize().AnyTimes()

		acks := mockackhandler.NewMockAckTracker(ctrl)
		acks.EXPECT().ShouldSendAck().Return(true)
		acks.EXPECT().HasAckElicitingInFlight().Return(false).AnyTimes()

		conn := NewConnState(1 << 20)
		sched := &Scheduler{
			Conn:     conn,
			Queue:    NewQueue(),
			CC:       &fakeCC{canSend: false},
			Acks:     acks,
			KeyPhase: protocol.Encryption1RTT,
		}
		path := &Path{AddressValidated: true}

		result := sched.Flush(path, b)
		Expect(result).To(Equal(DelayedPacing))
	})
})
