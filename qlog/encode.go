package qlog

import (
	"time"

	"github.com/francoispqt/gojay"
)

// MarshalJSONObject implements gojay.MarshalerJSONObject, matching the
// encode shape the teacher's qlog package uses for its header types
// (packet_header_test.go: gojay.NewEncoder(buf).Encode(value)).
func (e Event) MarshalJSONObject(enc *gojay.Encoder) {
	enc.AddStringKey("time", e.Time.Format(time.RFC3339Nano))
	enc.AddStringKey("event_type", e.Type.String())

	if e.Type == PacketSent || e.Type == PacketReceived || e.Type == PacketLost {
		enc.AddStringKey("encryption_level", e.EncryptionLevel.String())
		enc.AddUint64Key("packet_number", uint64(e.PacketNumber))
		enc.AddUint64Key("packet_size", uint64(e.PacketSize))
		enc.AddIntKey("frame_count", e.FrameCount)
	}
	if e.Type == CongestionStateUpdated {
		enc.AddUint64Key("congestion_window", uint64(e.CongestionWindow))
		enc.AddUint64Key("bytes_in_flight", uint64(e.BytesInFlight))
		enc.AddBoolKey("in_recovery", e.InRecovery)
	}
	if e.Type == StreamStateUpdated {
		enc.AddUint64Key("stream_id", uint64(e.StreamID))
		enc.AddStringKey("stream_state", e.StreamState)
	}
	if e.Reason != "" {
		enc.AddStringKey("reason", e.Reason)
	}
}

// IsNil implements gojay.MarshalerJSONObject.
func (e Event) IsNil() bool { return e.Type == 0 }
