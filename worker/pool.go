package worker

import (
	"context"
	"hash/fnv"

	"golang.org/x/sync/errgroup"

	"github.com/quic-go/quic-transport-core/protocol"
)

// Pool is a fixed-size set of Partitions plus the errgroup supervising
// their Run loops, propagating the first fatal error and tearing down
// the rest (spec.md §5).
type Pool struct {
	partitions []*Partition
	group      *errgroup.Group
	cancel     context.CancelFunc
	stop       chan struct{}
}

// NewPool creates a Pool of n partitions, each with the given
// per-partition operation queue depth.
func NewPool(n, queueDepth int) *Pool {
	if n <= 0 {
		n = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	pl := &Pool{group: group, cancel: cancel, stop: stop}
	for i := 0; i < n; i++ {
		part := NewPartition(i, queueDepth)
		pl.partitions = append(pl.partitions, part)
		group.Go(func() error {
			return part.Run(stop)
		})
	}
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	return pl
}

// PartitionFor deterministically maps a connection ID to one of the
// pool's partitions, so all of a connection's Ops always land on the
// same single-threaded owner.
func (pl *Pool) PartitionFor(connID []byte) *Partition {
	h := fnv.New32a()
	h.Write(connID)
	return pl.partitions[int(h.Sum32())%len(pl.partitions)]
}

// PartitionForStream maps a stream ID to a partition by taking it
// modulo the partition count, for callers that don't have the raw
// connection ID handy. It does not use PartitionFor's connection-ID
// hash, so the two need not pick the same partition.
func (pl *Pool) PartitionForStream(id protocol.StreamID) *Partition {
	return pl.partitions[int(id)%len(pl.partitions)]
}

// Partitions returns the pool's partitions.
func (pl *Pool) Partitions() []*Partition { return pl.partitions }

// Close cancels the group's context and joins every partition,
// returning the first fatal error reported by any of them.
func (pl *Pool) Close() error {
	pl.cancel()
	return pl.group.Wait()
}
