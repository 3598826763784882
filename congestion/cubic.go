// Package congestion implements the CUBIC (RFC 8312bis) congestion
// controller used by the connection-wide send scheduler. The window is
// tracked in bytes, not packets, and growth is paced across the
// estimated next round trip rather than released all at once.
package congestion

import (
	"time"

	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/utils"
)

// BETA and C from RFC 8312, as 10x multiples so the arithmetic stays
// integral.
const (
	tenTimesBetaCubic = 7
	tenTimesCCubic    = 4
)

// PersistentCongestionWindowPackets is the number of datagrams the
// window is reset to on persistent congestion.
const PersistentCongestionWindowPackets = 2

// MinPacingRTT is the smoothed RTT below which pacing is disabled and
// the full congestion-window headroom is released at once.
const MinPacingRTT = time.Millisecond

// maxCubicDeltaTMs bounds DeltaT to keep the t^3 term from overflowing.
const maxCubicDeltaTMs = 2_500_000

// Config holds the tunables a connection supplies when constructing a
// CongestionControl. Unlike the teacher's package-level constants, these
// are plain struct fields so tests (and, eventually, transport
// parameter negotiation) can vary them per connection.
type Config struct {
	DatagramPayloadLength protocol.ByteCount
	InitialWindowPackets  uint32
	SendIdleTimeoutMs     uint32
	PacingEnabled         bool
}

// DefaultConfig returns the settings the teacher's cubicSender used as
// its package defaults, translated to byte-based units.
func DefaultConfig() Config {
	return Config{
		DatagramPayloadLength: protocol.DefaultTCPMSS,
		InitialWindowPackets:  10,
		SendIdleTimeoutMs:     1000,
		PacingEnabled:         true,
	}
}

// AckEvent describes one coalesced acknowledgment as handed to
// OnDataAcknowledged.
type AckEvent struct {
	LargestPacketNumberAcked protocol.PacketNumber
	AckedBytes               protocol.ByteCount
	SmoothedRTT              time.Duration
	RTTVariance              time.Duration
	TimeNow                  time.Time
}

// LossEvent describes one loss-detection report as handed to OnDataLost.
type LossEvent struct {
	LargestPacketNumberLost protocol.PacketNumber
	LargestPacketNumberSent protocol.PacketNumber
	LostBytes               protocol.ByteCount
	PersistentCongestion    bool
}

// snapshot is the rollback state saved on every congestion event so a
// subsequent spurious-congestion report can undo it exactly.
type snapshot struct {
	windowMax          protocol.ByteCount
	windowLastMax      protocol.ByteCount
	kCubic             uint32
	slowStartThreshold protocol.ByteCount
	congestionWindow   protocol.ByteCount
	aimdWindow         protocol.ByteCount
}

// CongestionControl is a CUBIC sender operating purely on byte counts.
// It has no notion of packet numbers beyond the two it needs to decide
// whether a loss or ack belongs to the most recent congestion event.
type CongestionControl struct {
	clock Clock
	cfg   Config

	congestionWindow   protocol.ByteCount
	slowStartThreshold protocol.ByteCount
	bytesInFlight      protocol.ByteCount
	bytesInFlightMax   protocol.ByteCount

	windowMax     protocol.ByteCount
	windowLastMax protocol.ByteCount
	kCubic        uint32 // milliseconds

	aimdWindow      protocol.ByteCount
	aimdAccumulator protocol.ByteCount

	lastSendAllowance protocol.ByteCount
	exemptions        uint8

	recoverySentPacketNumber protocol.PacketNumber
	isInRecovery             bool
	isInPersistentCongestion bool
	hasHadCongestionEvent    bool

	timeOfLastAck        time.Time
	timeOfLastAckValid   bool
	timeOfCongAvoidStart time.Time

	prev snapshot

	// gotFirstRTTSample mirrors the path state the send-allowance
	// computation needs; the connection sets it once a usable RTT
	// sample is available.
	gotFirstRTTSample bool
}

// New builds a CongestionControl at its initial (post-reset) state.
func New(clock Clock, cfg Config) *CongestionControl {
	c := &CongestionControl{clock: clock, cfg: cfg}
	c.Reset(true)
	return c
}

// CanSend reports whether the sender may transmit a new ack-eliciting
// packet right now.
func (c *CongestionControl) CanSend() bool {
	return c.bytesInFlight < c.congestionWindow || c.exemptions > 0
}

// SetExemption allows the next n packets to bypass the congestion
// window gate entirely (used for PTO/path-validation probes).
func (c *CongestionControl) SetExemption(n uint8) {
	c.exemptions = n
}

// Exemptions returns the number of sends still allowed to bypass CanSend.
func (c *CongestionControl) Exemptions() uint8 { return c.exemptions }

// CongestionWindow returns the current window, in bytes.
func (c *CongestionControl) CongestionWindow() protocol.ByteCount { return c.congestionWindow }

// SlowStartThreshold returns the current ssthresh, in bytes.
func (c *CongestionControl) SlowStartThreshold() protocol.ByteCount { return c.slowStartThreshold }

// BytesInFlight returns the number of unacknowledged, uninvalidated
// ack-eliciting bytes outstanding.
func (c *CongestionControl) BytesInFlight() protocol.ByteCount { return c.bytesInFlight }

// BytesInFlightMax returns the high-water mark of BytesInFlight, used
// as the absolute cap on window growth.
func (c *CongestionControl) BytesInFlightMax() protocol.ByteCount { return c.bytesInFlightMax }

// InRecovery reports whether the sender is in a loss-recovery episode.
func (c *CongestionControl) InRecovery() bool { return c.isInRecovery }

// SetGotFirstRTTSample records that the connection now has an RTT
// sample to pace against.
func (c *CongestionControl) SetGotFirstRTTSample(v bool) { c.gotFirstRTTSample = v }

// GetSendAllowance returns the number of bytes the sender may release
// right now, given the time since it last sent and the current
// smoothed RTT.
func (c *CongestionControl) GetSendAllowance(timeSinceLastSend time.Duration, timeSinceLastSendValid bool, smoothedRTT time.Duration) protocol.ByteCount {
	if c.bytesInFlight >= c.congestionWindow {
		return 0
	}
	headroom := c.congestionWindow - c.bytesInFlight
	if !timeSinceLastSendValid || !c.cfg.PacingEnabled || !c.gotFirstRTTSample || smoothedRTT < MinPacingRTT {
		return headroom
	}

	var estimatedWindow protocol.ByteCount
	if c.congestionWindow < c.slowStartThreshold {
		estimatedWindow = c.congestionWindow * 2
		if estimatedWindow > c.slowStartThreshold {
			estimatedWindow = c.slowStartThreshold
		}
	} else {
		estimatedWindow = c.congestionWindow + c.congestionWindow/4 // *1.25
	}

	allowance := c.lastSendAllowance + protocol.ByteCount(uint64(estimatedWindow)*uint64(timeSinceLastSend)/uint64(smoothedRTT))
	if allowance < c.lastSendAllowance || allowance > headroom {
		// overflow, or the pacing estimate ran past the cwnd headroom
		allowance = headroom
	}
	c.lastSendAllowance = allowance
	return allowance
}

// OnDataSent records that bytes bearing count were just transmitted.
func (c *CongestionControl) OnDataSent(bytes protocol.ByteCount) {
	c.bytesInFlight += bytes
	if c.bytesInFlightMax < c.bytesInFlight {
		c.bytesInFlightMax = c.bytesInFlight
	}
	if bytes > c.lastSendAllowance {
		c.lastSendAllowance = 0
	} else {
		c.lastSendAllowance -= bytes
	}
	if c.exemptions > 0 {
		c.exemptions--
	}
}

// OnDataInvalidated removes bytes from flight without treating them as
// acked or lost (e.g. a packet discarded before it was ever sent).
func (c *CongestionControl) OnDataInvalidated(bytes protocol.ByteCount) {
	c.bytesInFlight -= bytes
}

// OnDataAcknowledged folds one coalesced ACK into the window. It
// returns true if the sender was congestion-blocked before this call
// and is not anymore.
func (c *CongestionControl) OnDataAcknowledged(ack AckEvent) bool {
	wasBlocked := !c.CanSend()
	c.bytesInFlight -= ack.AckedBytes

	bytesAcked := ack.AckedBytes
	if c.isInRecovery {
		if ack.LargestPacketNumberAcked > c.recoverySentPacketNumber {
			c.isInRecovery = false
			c.isInPersistentCongestion = false
			c.timeOfCongAvoidStart = ack.TimeNow
		}
		c.timeOfLastAck, c.timeOfLastAckValid = ack.TimeNow, true
		return wasBlocked && c.CanSend()
	}
	if bytesAcked == 0 {
		c.timeOfLastAck, c.timeOfLastAckValid = ack.TimeNow, true
		return wasBlocked && c.CanSend()
	}

	if c.congestionWindow < c.slowStartThreshold {
		c.congestionWindow += bytesAcked
		bytesAcked = 0
		if c.congestionWindow >= c.slowStartThreshold {
			c.timeOfCongAvoidStart = ack.TimeNow
			bytesAcked = c.congestionWindow - c.slowStartThreshold
			c.congestionWindow = c.slowStartThreshold
		}
	}

	if bytesAcked > 0 {
		c.congestionAvoidance(ack, bytesAcked)
	}

	if c.congestionWindow > 2*c.bytesInFlightMax {
		c.congestionWindow = 2 * c.bytesInFlightMax
	}

	c.timeOfLastAck, c.timeOfLastAckValid = ack.TimeNow, true
	return wasBlocked && c.CanSend()
}

// congestionAvoidance applies the CUBIC target function plus the
// Reno-friendly AIMD shadow window, exactly as spec.md §4.1 describes.
func (c *CongestionControl) congestionAvoidance(ack AckEvent, bytesAcked protocol.ByteCount) {
	if c.timeOfLastAckValid {
		timeSinceLastAck := ack.TimeNow.Sub(c.timeOfLastAck)
		idleTimeout := time.Duration(c.cfg.SendIdleTimeoutMs) * time.Millisecond
		rttTimeout := ack.SmoothedRTT + 4*ack.RTTVariance
		if timeSinceLastAck > idleTimeout && timeSinceLastAck > rttTimeout {
			c.timeOfCongAvoidStart = c.timeOfCongAvoidStart.Add(timeSinceLastAck)
			if !ack.TimeNow.After(c.timeOfCongAvoidStart) {
				c.timeOfCongAvoidStart = ack.TimeNow
			}
		}
	}

	timeInCongAvoid := ack.TimeNow.Sub(c.timeOfCongAvoidStart)

	deltaTMs := timeInCongAvoid.Milliseconds() - int64(c.kCubic) + ack.SmoothedRTT.Milliseconds()
	if deltaTMs > maxCubicDeltaTMs {
		deltaTMs = maxCubicDeltaTMs
	}

	mss := int64(c.cfg.DatagramPayloadLength)
	cubicWindow := (((((deltaTMs*deltaTMs)>>10)*deltaTMs)*(mss*tenTimesCCubic/10))>>20) + int64(c.windowMax)
	if cubicWindow < 0 {
		cubicWindow = int64(2 * c.bytesInFlightMax)
	}

	// RFC 3465 Appropriate Byte Counting: accumulate acked bytes and
	// grow the shadow AIMD window by one MSS per window (half a window
	// while still catching up to WindowMax, matching the 0.5 MSS/RTT
	// slope TEN_TIMES_BETA_CUBIC=7 implies).
	if c.aimdWindow < c.windowMax {
		c.aimdAccumulator += bytesAcked / 2
	} else {
		c.aimdAccumulator += bytesAcked
	}
	if c.aimdAccumulator > c.aimdWindow {
		c.aimdWindow += c.cfg.DatagramPayloadLength
		// NOTE: preserved exactly as in the original implementation,
		// which subtracts the just-incremented AimdWindow rather than
		// its pre-increment value; this undercounts the accumulator by
		// one MSS per step. See DESIGN.md.
		c.aimdAccumulator -= c.aimdWindow
	}

	if c.aimdWindow > protocol.ByteCount(cubicWindow) {
		c.congestionWindow = c.aimdWindow
		return
	}

	target := protocol.ByteCount(cubicWindow)
	if target > c.congestionWindow+c.congestionWindow/2 {
		target = c.congestionWindow + c.congestionWindow/2
	}
	if target < c.congestionWindow {
		target = c.congestionWindow
	}
	c.congestionWindow += (target - c.congestionWindow) * c.cfg.DatagramPayloadLength / c.congestionWindow
}

// OnDataLost folds a loss-detection report into the congestion state.
func (c *CongestionControl) OnDataLost(loss LossEvent) {
	if !c.hasHadCongestionEvent || loss.LargestPacketNumberLost > c.recoverySentPacketNumber {
		c.recoverySentPacketNumber = loss.LargestPacketNumberSent
		c.onCongestionEvent(loss.PersistentCongestion)
	}
	c.bytesInFlight -= loss.LostBytes
}

// onCongestionEvent applies the CUBIC/persistent-congestion window
// reduction described in spec.md §4.1.
func (c *CongestionControl) onCongestionEvent(persistent bool) {
	c.isInRecovery = true
	c.hasHadCongestionEvent = true

	c.prev = snapshot{
		windowMax:          c.windowMax,
		windowLastMax:      c.windowLastMax,
		kCubic:             c.kCubic,
		slowStartThreshold: c.slowStartThreshold,
		congestionWindow:   c.congestionWindow,
		aimdWindow:         c.aimdWindow,
	}

	if persistent && !c.isInPersistentCongestion {
		c.isInPersistentCongestion = true
		c.windowMax = c.congestionWindow * tenTimesBetaCubic / 10
		c.windowLastMax = c.windowMax
		c.slowStartThreshold = c.windowMax
		c.aimdWindow = c.windowMax
		c.congestionWindow = c.cfg.DatagramPayloadLength * PersistentCongestionWindowPackets
		c.kCubic = 0
		return
	}

	c.windowMax = c.congestionWindow
	if c.windowLastMax > c.windowMax {
		c.windowLastMax = c.windowMax
		c.windowMax = c.windowMax * (10 + tenTimesBetaCubic) / 20
	} else {
		c.windowLastMax = c.windowMax
	}

	// K = cbrt(WindowMax * (1-BETA) / C); left-shift by 9 before the
	// division and right-shift the cube root by 3 to reduce rounding
	// error (2^9 = (2^3)^3).
	radicand := uint64(c.windowMax) / uint64(c.cfg.DatagramPayloadLength) * (10 - tenTimesBetaCubic) << 9 / tenTimesCCubic
	k := cubeRoot(uint32(radicand))
	c.kCubic = uint32(k) * 1000 >> 3

	floor := c.cfg.DatagramPayloadLength * PersistentCongestionWindowPackets
	reduced := c.congestionWindow * tenTimesBetaCubic / 10
	newWindow := utils.Max(floor, reduced)
	c.slowStartThreshold = newWindow
	c.congestionWindow = newWindow
	c.aimdWindow = newWindow
}

// OnSpuriousCongestionEvent undoes the most recent congestion event if
// the connection is still in the recovery episode it caused.
func (c *CongestionControl) OnSpuriousCongestionEvent() bool {
	if !c.isInRecovery {
		return false
	}
	wasBlocked := !c.CanSend()

	c.windowMax = c.prev.windowMax
	c.windowLastMax = c.prev.windowLastMax
	c.kCubic = c.prev.kCubic
	c.slowStartThreshold = c.prev.slowStartThreshold
	c.congestionWindow = c.prev.congestionWindow
	c.aimdWindow = c.prev.aimdWindow

	c.isInRecovery = false
	c.hasHadCongestionEvent = false

	return wasBlocked && c.CanSend()
}

// Reset restores the initial-window state. full additionally zeroes
// BytesInFlight (used on a full connection-level reset rather than a
// key-phase transition).
func (c *CongestionControl) Reset(full bool) {
	c.slowStartThreshold = protocol.ByteCount(^uint32(0))
	c.isInRecovery = false
	c.hasHadCongestionEvent = false
	c.congestionWindow = c.cfg.DatagramPayloadLength * protocol.ByteCount(c.cfg.InitialWindowPackets)
	c.bytesInFlightMax = c.congestionWindow / 2
	c.lastSendAllowance = 0
	if full {
		c.bytesInFlight = 0
	}
}
