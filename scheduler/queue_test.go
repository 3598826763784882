package scheduler

import (
	"testing"

	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/stream"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestScheduler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "scheduler suite")
}

var _ = Describe("Queue", func() {
	var q *Queue

	BeforeEach(func() { q = NewQueue() })

	It("orders by descending priority with FIFO within a class", func() {
		q.Enqueue(1, stream.NewSend(1, 0, nil, nil), nil, 0)
		q.Enqueue(2, stream.NewSend(2, 0, nil, nil), nil, 5)
		q.Enqueue(3, stream.NewSend(3, 0, nil, nil), nil, 5)
		q.Enqueue(4, stream.NewSend(4, 0, nil, nil), nil, 2)

		id, _, _, ok := q.Next()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(protocol.StreamID(2)))
	})

	It("rotates the head to the tail of its priority class on ConsumeBatchSlot exhaustion", func() {
		q.Enqueue(1, stream.NewSend(1, 0, nil, nil), nil, 5)
		q.Enqueue(2, stream.NewSend(2, 0, nil, nil), nil, 5)

		for i := 0; i < StreamBatchCount-1; i++ {
			Expect(q.ConsumeBatchSlot()).To(BeTrue())
		}
		Expect(q.ConsumeBatchSlot()).To(BeFalse())

		id, _, _, _ := q.Next()
		Expect(id).To(Equal(protocol.StreamID(2)))
	})

	It("removes a stream from the queue", func() {
		q.Enqueue(1, stream.NewSend(1, 0, nil, nil), nil, 0)
		Expect(q.Contains(1)).To(BeTrue())
		q.Remove(1)
		Expect(q.Contains(1)).To(BeFalse())
		Expect(q.Len()).To(BeZero())
	})
})
