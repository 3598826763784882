// Package stream implements per-stream reliable delivery: StreamSend
// tracks unacknowledged send state and retransmission, StreamRecv
// reassembles incoming data and drives flow-control tuning (spec.md
// §4.2, §4.3).
package stream

import (
	"sort"

	"github.com/quic-go/quic-transport-core/protocol"
	"github.com/quic-go/quic-transport-core/utils"
)

// ackRange is a half-open byte range [Start, End) known to have been
// acknowledged by the peer, always strictly above UnAckedOffset.
type ackRange struct {
	Start, End protocol.ByteCount
}

// sparseAckRanges holds the disjoint, non-adjacent, ascending-ordered
// set of byte ranges acknowledged out of order above UnAckedOffset
// (spec.md §3, SparseAckRanges). Adjacent or overlapping ranges are
// merged eagerly so the set never grows unbounded for well-behaved
// peers.
type sparseAckRanges struct {
	ranges []ackRange
}

// Add records [start, end) as acknowledged. It returns the number of
// previously-unacknowledged bytes newly covered.
func (s *sparseAckRanges) Add(start, end protocol.ByteCount) protocol.ByteCount {
	if end <= start {
		return 0
	}

	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].End >= start
	})

	mergedStart, mergedEnd := start, end
	j := i
	var alreadyCovered protocol.ByteCount
	for j < len(s.ranges) && s.ranges[j].Start <= mergedEnd {
		r := s.ranges[j]
		overlapStart, overlapEnd := utils.Max(start, r.Start), utils.Min(end, r.End)
		if overlapEnd > overlapStart {
			alreadyCovered += overlapEnd - overlapStart
		}
		if r.Start < mergedStart {
			mergedStart = r.Start
		}
		if r.End > mergedEnd {
			mergedEnd = r.End
		}
		j++
	}

	merged := ackRange{Start: mergedStart, End: mergedEnd}
	tail := append([]ackRange{}, s.ranges[j:]...)
	s.ranges = append(append(s.ranges[:i:i], merged), tail...)

	return (end - start) - alreadyCovered
}

// RemoveUpTo drops (or trims) every range wholly at or below offset,
// called as UnAckedOffset advances past them.
func (s *sparseAckRanges) RemoveUpTo(offset protocol.ByteCount) {
	i := 0
	for i < len(s.ranges) && s.ranges[i].End <= offset {
		i++
	}
	s.ranges = s.ranges[i:]
	if len(s.ranges) > 0 && s.ranges[0].Start < offset {
		s.ranges[0].Start = offset
	}
}

// FirstGapAfter returns the smallest offset >= from that is not
// covered by an acknowledged range, used by the retransmission scan to
// skip ranges already acknowledged out of order.
func (s *sparseAckRanges) FirstGapAfter(from protocol.ByteCount) protocol.ByteCount {
	for _, r := range s.ranges {
		if from >= r.Start && from < r.End {
			from = r.End
			continue
		}
	}
	return from
}

// Covers reports whether every byte in [start, end) is already
// acknowledged.
func (s *sparseAckRanges) Covers(start, end protocol.ByteCount) bool {
	for _, r := range s.ranges {
		if r.Start <= start && r.End >= end {
			return true
		}
	}
	return false
}

// Empty reports whether no out-of-order acknowledgments are pending.
func (s *sparseAckRanges) Empty() bool { return len(s.ranges) == 0 }
