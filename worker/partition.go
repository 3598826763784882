// Package worker implements the cooperatively-scheduled per-connection
// execution model of spec.md §5: each connection is bound to one
// partition and runs as a single-threaded state machine on it, with no
// mutual exclusion needed inside a connection. Cross-partition traffic
// (datapath receives, registration, app calls) is funneled through a
// per-connection operation queue that the owning partition drains in
// FIFO order.
//
// Grounded on the teacher's Server.ListenAndServe accept/read loop
// (server.go): that loop is "one goroutine draining one channel of
// work, logging failures via utils.Errorf and continuing" — the same
// shape generalized here from "one loop per listener" to "one loop per
// partition, many connections per loop".
package worker

import (
	"github.com/quic-go/quic-transport-core/utils"
)

// Op is one unit of work enqueued onto a partition: a receive, an app
// call, or a timer firing. Generation lets a caller cancel stale ops
// (e.g. queued against a connection that has since been torn down)
// without having to mutate the queue itself.
type Op struct {
	Generation uint64
	Run        func()
}

// Partition owns a set of connections' send state and drains a single
// FIFO queue of Ops bound to them (spec.md §5 "cooperatively scheduled,
// single-threaded state machine bound to one partition").
type Partition struct {
	id       int
	ops      chan Op
	curGen   uint64
	done     chan struct{}
	finished chan struct{}
}

// NewPartition creates a partition with the given operation queue
// depth.
func NewPartition(id int, queueDepth int) *Partition {
	return &Partition{
		id:       id,
		ops:      make(chan Op, queueDepth),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// ID returns the partition's index within its Pool.
func (p *Partition) ID() int { return p.id }

// Generation returns the partition's current generation tag, bumped by
// BumpGeneration so in-flight Ops referencing a torn-down connection can detect
// staleness and no-op instead of running against freed state.
func (p *Partition) Generation() uint64 { return p.curGen }

// BumpGeneration invalidates any still-queued Op whose Generation
// predates the bump.
func (p *Partition) BumpGeneration() uint64 {
	p.curGen++
	return p.curGen
}

// Enqueue submits an Op for this partition to run. It blocks only if
// the queue is full, applying natural backpressure to the submitter
// rather than growing unboundedly.
func (p *Partition) Enqueue(op Op) {
	p.ops <- op
}

// Run drains the operation queue until Close is called or stop fires.
// Each Op runs to completion before the next is dequeued, so no
// synchronization is needed for state an Op's Run closure touches
// (spec.md §5 "no mutual exclusion is used inside a connection").
func (p *Partition) Run(stop <-chan struct{}) error {
	defer close(p.finished)
	for {
		select {
		case op, ok := <-p.ops:
			if !ok {
				return nil
			}
			if op.Generation != 0 && op.Generation < p.curGen {
				continue
			}
			p.runOp(op)
		case <-p.done:
			return nil
		case <-stop:
			return nil
		}
	}
}

func (p *Partition) runOp(op Op) {
	defer func() {
		if r := recover(); r != nil {
			utils.Errorf("worker: partition %d op panicked: %v", p.id, r)
		}
	}()
	op.Run()
}

// Close stops the partition's Run loop and waits for it to return. Ops
// still queued at that point are not guaranteed to run.
func (p *Partition) Close() {
	close(p.done)
	<-p.finished
}
