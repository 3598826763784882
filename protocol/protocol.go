// Package protocol defines basic numeric types and wire constants shared
// by every component of the transport core.
package protocol

import "math"

// ByteCount is used to count bytes.
type ByteCount uint64

// MaxByteCount is the maximum value of a ByteCount.
const MaxByteCount = ByteCount(math.MaxUint64)

// A PacketNumber in QUIC.
type PacketNumber uint64

// InvalidPacketNumber is a packet number that is never assigned.
const InvalidPacketNumber PacketNumber = math.MaxUint64

// MaxPacketNumber returns the larger of two packet numbers.
func MaxPacketNumber(a, b PacketNumber) PacketNumber {
	if a > b {
		return a
	}
	return b
}

// MinPacketNumber returns the smaller of two packet numbers.
func MinPacketNumber(a, b PacketNumber) PacketNumber {
	if a < b {
		return a
	}
	return b
}

// A StreamID in QUIC.
type StreamID uint64

// VarIntMax is the maximum value of a QUIC variable-length integer (2^62-1).
const VarIntMax ByteCount = 1<<62 - 1

// EncryptionLevel is the encryption level of a packet.
type EncryptionLevel uint8

const (
	// EncryptionInitial is the Initial encryption level.
	EncryptionInitial EncryptionLevel = iota
	// EncryptionHandshake is the Handshake encryption level.
	EncryptionHandshake
	// Encryption0RTT is the 0-RTT encryption level.
	Encryption0RTT
	// Encryption1RTT is the 1-RTT (application data) encryption level.
	Encryption1RTT
)

func (e EncryptionLevel) String() string {
	switch e {
	case EncryptionInitial:
		return "Initial"
	case EncryptionHandshake:
		return "Handshake"
	case Encryption0RTT:
		return "0-RTT"
	case Encryption1RTT:
		return "1-RTT"
	default:
		return "unknown"
	}
}

// DefaultTCPMSS is the default maximum packet size used, if not set otherwise.
const DefaultTCPMSS ByteCount = 1200

// MaxPacketBufferSize is the maximum size of a QUIC packet.
const MaxPacketBufferSize ByteCount = 1452

// MinInitialPacketSize is the minimum size an Initial packet is padded to.
const MinInitialPacketSize ByteCount = 1200

// MaxFramesPerPacket bounds how many frames the scheduler will pack into a
// single outgoing packet, mirroring the MAX_FRAMES_PER_PACKET constant
// from the send scheduler specification.
const MaxFramesPerPacket = 32

// MaxDatagramsPerSend bounds how many datagrams a single flush loop
// invocation will produce.
const MaxDatagramsPerSend = 4

// MaxUint62 is the largest value representable in a QUIC variable-length
// integer (the same value as VarIntMax, which is what stream offset
// checks use).
const MaxUint62 uint64 = 1<<62 - 1
