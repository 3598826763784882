package stream

import (
	"testing"

	"github.com/quic-go/quic-transport-core/protocol"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestStream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "stream suite")
}

var _ = Describe("sparseAckRanges", func() {
	var s sparseAckRanges

	BeforeEach(func() { s = sparseAckRanges{} })

	It("merges adjacent and overlapping ranges", func() {
		Expect(s.Add(100, 200)).To(Equal(protocol.ByteCount(100)))
		Expect(s.Add(300, 400)).To(Equal(protocol.ByteCount(100)))
		Expect(s.Add(200, 300)).To(Equal(protocol.ByteCount(100)))
		Expect(s.ranges).To(HaveLen(1))
		Expect(s.ranges[0]).To(Equal(ackRange{Start: 100, End: 400}))
	})

	It("reports newly covered bytes only", func() {
		Expect(s.Add(100, 200)).To(Equal(protocol.ByteCount(100)))
		Expect(s.Add(150, 250)).To(Equal(protocol.ByteCount(50)))
	})

	It("finds the first gap after a cursor", func() {
		s.Add(100, 200)
		Expect(s.FirstGapAfter(50)).To(Equal(protocol.ByteCount(50)))
		Expect(s.FirstGapAfter(100)).To(Equal(protocol.ByteCount(200)))
		Expect(s.FirstGapAfter(150)).To(Equal(protocol.ByteCount(200)))
	})

	It("drops ranges at or below an offset and trims the rest", func() {
		s.Add(100, 200)
		s.Add(300, 400)
		s.RemoveUpTo(350)
		Expect(s.ranges).To(Equal([]ackRange{{Start: 350, End: 400}}))
	})
})
