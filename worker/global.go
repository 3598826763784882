package worker

import (
	"sync"
	"time"
)

// StatelessRetryKeyLifetime is the default rotation period for the
// stateless-retry key (spec.md §6 STATELESS_RETRY_KEY_LIFETIME_MS),
// chosen to match the teacher's general key-rotation cadence for
// short-lived connection establishment secrets.
const StatelessRetryKeyLifetime = 15 * time.Second

// Counters holds the process-wide perf counters spec.md §9 assigns to
// the library singleton (bindings list, perf counters, retry-key
// rotation) rather than to any one connection.
type Counters struct {
	ConnectionsAccepted uint64
	ConnectionsClosed   uint64
	PacketsSent         uint64
	PacketsReceived     uint64
	PacketsLost         uint64
	BytesSent           uint64
	BytesReceived       uint64
}

// Global is the process-level context spec.md §9 "Global state"
// describes: what the original's library singleton covered, now an
// explicitly-constructed value (NewGlobal) that the caller owns instead
// of hidden package state. NewPool neither takes nor holds a Global.
type Global struct {
	mu sync.Mutex

	counters Counters

	statelessRetryKey       [32]byte
	statelessRetryKeySetAt  time.Time
	statelessRetryKeyIsSet  bool
}

// NewGlobal creates an empty process-level context.
func NewGlobal() *Global {
	return &Global{}
}

// RecordSent updates the perf counters for one transmitted datagram.
func (g *Global) RecordSent(bytes uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters.PacketsSent++
	g.counters.BytesSent += bytes
}

// RecordReceived updates the perf counters for one received datagram.
func (g *Global) RecordReceived(bytes uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters.PacketsReceived++
	g.counters.BytesReceived += bytes
}

// RecordLost updates the perf counters for one detected packet loss.
func (g *Global) RecordLost() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters.PacketsLost++
}

// RecordConnectionAccepted/RecordConnectionClosed track connection
// lifetime counts.
func (g *Global) RecordConnectionAccepted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters.ConnectionsAccepted++
}

func (g *Global) RecordConnectionClosed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters.ConnectionsClosed++
}

// Snapshot returns a copy of the current perf counters.
func (g *Global) Snapshot() Counters {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counters
}

// StatelessRetryKey returns the current retry key, rotating it if it
// has aged past StatelessRetryKeyLifetime. newKey is invoked to
// generate a replacement; the caller supplies entropy since this
// package has no cryptographic dependency of its own.
func (g *Global) StatelessRetryKey(now time.Time, newKey func() [32]byte) [32]byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.statelessRetryKeyIsSet || now.Sub(g.statelessRetryKeySetAt) >= StatelessRetryKeyLifetime {
		g.statelessRetryKey = newKey()
		g.statelessRetryKeySetAt = now
		g.statelessRetryKeyIsSet = true
	}
	return g.statelessRetryKey
}
