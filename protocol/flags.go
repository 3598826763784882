package protocol

// ConnSendFlags is the bitset of pending connection-level frames
// tracked by the connection send state (spec.md §3).
type ConnSendFlags uint32

const (
	SendFlagACK ConnSendFlags = 1 << iota
	SendFlagCRYPTO
	SendFlagHandshakeDone
	SendFlagMaxData
	SendFlagMaxStreamsBidi
	SendFlagMaxStreamsUni
	SendFlagDataBlocked
	SendFlagBidiStreamsBlocked
	SendFlagUniStreamsBlocked
	SendFlagNewConnectionID
	SendFlagRetireConnectionID
	SendFlagPathChallenge
	SendFlagPathResponse
	SendFlagPing
	SendFlagAckFrequency
	SendFlagDatagram
	SendFlagConnectionClose0
	SendFlagConnectionClose1
	SendFlagDPLPMTUD
)

// AllowedHandshake is the mask of connection-level flags legal to send
// before the connection has 1-RTT keys (spec.md §4.4 step 2).
const AllowedHandshake = SendFlagACK | SendFlagCRYPTO | SendFlagConnectionClose0 | SendFlagConnectionClose1 | SendFlagPing

// BypassCC is the mask of connection-level flags allowed to bypass
// congestion-control gating (spec.md §4.4 step 2).
const BypassCC = SendFlagACK | SendFlagConnectionClose0 | SendFlagConnectionClose1 | SendFlagPathResponse

// Has reports whether every bit in mask is set.
func (f ConnSendFlags) Has(mask ConnSendFlags) bool { return f&mask == mask }

// Any reports whether at least one bit in mask is set.
func (f ConnSendFlags) Any(mask ConnSendFlags) bool { return f&mask != 0 }

// Set returns f with mask's bits set.
func (f ConnSendFlags) Set(mask ConnSendFlags) ConnSendFlags { return f | mask }

// Clear returns f with mask's bits cleared.
func (f ConnSendFlags) Clear(mask ConnSendFlags) ConnSendFlags { return f &^ mask }

// StreamSendFlags is the bitset of pending stream-level frames tracked
// per stream by StreamSend (spec.md §3).
type StreamSendFlags uint8

const (
	StreamSendFlagOpen StreamSendFlags = 1 << iota
	StreamSendFlagFin
	StreamSendFlagData
	StreamSendFlagMaxData
	StreamSendFlagDataBlocked
	StreamSendFlagSendAbort
	StreamSendFlagRecvAbort
)

// Has reports whether every bit in mask is set.
func (f StreamSendFlags) Has(mask StreamSendFlags) bool { return f&mask == mask }

// Any reports whether at least one bit in mask is set.
func (f StreamSendFlags) Any(mask StreamSendFlags) bool { return f&mask != 0 }

// Set returns f with mask's bits set.
func (f StreamSendFlags) Set(mask StreamSendFlags) StreamSendFlags { return f | mask }

// Clear returns f with mask's bits cleared.
func (f StreamSendFlags) Clear(mask StreamSendFlags) StreamSendFlags { return f &^ mask }

// BlockedReason records why a stream could not make forward progress
// the last time the scheduler tried to write its frames.
type BlockedReason uint8

const (
	BlockedNone BlockedReason = iota
	BlockedApp
	BlockedStreamFlowControl
	BlockedConnFlowControl
	BlockedScheduling
)
