package qlog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/quic-go/quic-transport-core/protocol"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestQlog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "qlog suite")
}

var _ = Describe("Tracer", func() {
	It("drops the oldest event once its buffer is full", func() {
		tr := NewTracer(2)
		tr.Trace(Event{Type: PacketSent, PacketNumber: 1})
		tr.Trace(Event{Type: PacketSent, PacketNumber: 2})
		tr.Trace(Event{Type: PacketSent, PacketNumber: 3})
		Expect(tr.Dropped()).To(Equal(uint64(1)))

		first := <-tr.Events()
		Expect(first.PacketNumber).To(Equal(protocol.PacketNumber(2)))
	})
})

var _ = Describe("Recorder", func() {
	It("encodes each traced event as one line of JSON", func() {
		tr := NewTracer(4)
		tr.Trace(Event{Time: time.Unix(1, 0), Type: PacketSent, PacketNumber: 7, PacketSize: 100, FrameCount: 2})
		tr.Trace(Event{Time: time.Unix(2, 0), Type: StreamStateUpdated, StreamID: 4, StreamState: "closed"})
		tr.Close()

		var buf bytes.Buffer
		Expect(NewRecorder(&buf).Run(tr.Events())).To(Succeed())

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		Expect(lines).To(HaveLen(2))
		for _, line := range lines {
			Expect(json.Valid(line)).To(BeTrue())
		}

		var first map[string]interface{}
		Expect(json.Unmarshal(lines[0], &first)).To(Succeed())
		Expect(first["event_type"]).To(Equal("packet_sent"))
		Expect(first["packet_number"]).To(BeEquivalentTo(7))
	})
})
