// Package flowcontrol implements the offset-indexed stream reassembly
// buffer consumed by StreamRecv (spec.md §3, §4.3).
package flowcontrol

import (
	"sort"

	"github.com/quic-go/quic-transport-core/protocol"
)

// segment is a contiguous run of received bytes, always wholly above
// RecvBuffer.baseOffset and never adjacent to another segment (adjacent
// segments are merged eagerly on Write).
type segment struct {
	offset protocol.ByteCount
	data   []byte
}

func (s segment) end() protocol.ByteCount { return s.offset + protocol.ByteCount(len(s.data)) }

// RecvBuffer reassembles a byte stream out of order, tracking which
// gaps remain and how many bytes have been delivered to the
// application (baseOffset).
type RecvBuffer struct {
	baseOffset protocol.ByteCount
	segments   []segment // sorted ascending by offset, pairwise non-overlapping and non-adjacent

	virtualBufferLength protocol.ByteCount // advertisable window above baseOffset
	readPendingLength   protocol.ByteCount // bytes handed to the app but not yet acknowledged as consumed
}

// NewRecvBuffer creates an empty buffer with the given initial
// advertised window.
func NewRecvBuffer(initialVirtualBufferLength protocol.ByteCount) *RecvBuffer {
	return &RecvBuffer{virtualBufferLength: initialVirtualBufferLength}
}

// BaseOffset returns the offset of the first byte not yet delivered to
// the application (the delivered prefix length).
func (b *RecvBuffer) BaseOffset() protocol.ByteCount { return b.baseOffset }

// VirtualBufferLength returns the currently advertisable window size.
func (b *RecvBuffer) VirtualBufferLength() protocol.ByteCount { return b.virtualBufferLength }

// SetVirtualBufferLength overwrites the advertisable window size (used
// by the buffer-tuning step in StreamRecv.OnBytesDelivered).
func (b *RecvBuffer) SetVirtualBufferLength(n protocol.ByteCount) { b.virtualBufferLength = n }

// Write inserts data received at the given stream offset. It returns
// the number of genuinely new bytes contributed (duplicates within an
// already-written range do not count) so the caller can correctly
// advance connection- and stream-level flow-control counters.
func (b *RecvBuffer) Write(offset protocol.ByteCount, data []byte) protocol.ByteCount {
	if len(data) == 0 {
		return 0
	}
	end := offset + protocol.ByteCount(len(data))

	// Trim any prefix that precedes baseOffset; it has already been
	// delivered and is necessarily a duplicate.
	if offset < b.baseOffset {
		if end <= b.baseOffset {
			return 0
		}
		trim := b.baseOffset - offset
		data = data[trim:]
		offset = b.baseOffset
	}
	if len(data) == 0 {
		return 0
	}
	end = offset + protocol.ByteCount(len(data))

	// Find the insertion point: the first segment whose end is at or
	// after offset. Segments before it are untouched; segments that
	// overlap or touch [offset, end) get folded into the new run.
	i := sort.Search(len(b.segments), func(i int) bool {
		return b.segments[i].end() >= offset
	})

	mergedStart, mergedEnd := offset, end
	j := i
	for j < len(b.segments) && b.segments[j].offset <= mergedEnd {
		if b.segments[j].offset < mergedStart {
			mergedStart = b.segments[j].offset
		}
		if b.segments[j].end() > mergedEnd {
			mergedEnd = b.segments[j].end()
		}
		j++
	}

	merged := make([]byte, mergedEnd-mergedStart)
	var newBytes protocol.ByteCount
	// Lay down the bytes already on file first so the new write can
	// overwrite duplicate regions without double counting them.
	for k := i; k < j; k++ {
		seg := b.segments[k]
		copy(merged[seg.offset-mergedStart:], seg.data)
	}
	for off := mergedStart; off < mergedEnd; off++ {
		if off >= offset && off < end {
			// count as new only where nothing was already on file
			wasPresent := false
			for k := i; k < j; k++ {
				seg := b.segments[k]
				if off >= seg.offset && off < seg.end() {
					wasPresent = true
					break
				}
			}
			if !wasPresent {
				newBytes++
			}
		}
	}
	copy(merged[offset-mergedStart:], data)

	newSeg := segment{offset: mergedStart, data: merged}
	tail := append([]segment{}, b.segments[j:]...)
	b.segments = append(append(b.segments[:i:i], newSeg), tail...)

	return newBytes
}

// HasContiguousData reports whether there is data ready to deliver
// starting exactly at baseOffset.
func (b *RecvBuffer) HasContiguousData() bool {
	return len(b.segments) > 0 && b.segments[0].offset == b.baseOffset
}

// ContiguousLength returns how many bytes are available starting at
// baseOffset without a gap.
func (b *RecvBuffer) ContiguousLength() protocol.ByteCount {
	if !b.HasContiguousData() {
		return 0
	}
	return protocol.ByteCount(len(b.segments[0].data))
}

// ReadSlices returns up to maxSlices byte slices covering the
// contiguous run starting at baseOffset, without consuming them. The
// reassembly buffer stores the contiguous run as one backing array, so
// in practice this returns at most one slice; the multi-slice return
// shape exists to satisfy the delivery-loop contract in spec.md §4.3,
// which allows an implementation backed by a ring buffer to hand back
// up to three.
func (b *RecvBuffer) ReadSlices(maxSlices int) [][]byte {
	if !b.HasContiguousData() || maxSlices <= 0 {
		return nil
	}
	return [][]byte{b.segments[0].data}
}

// Advance marks n bytes, starting at baseOffset, as delivered to the
// application. n must not exceed ContiguousLength().
func (b *RecvBuffer) Advance(n protocol.ByteCount) {
	if n == 0 {
		return
	}
	seg := b.segments[0]
	if n == protocol.ByteCount(len(seg.data)) {
		b.segments = b.segments[1:]
	} else {
		b.segments[0] = segment{offset: seg.offset + n, data: seg.data[n:]}
	}
	b.baseOffset += n
}

// SetReadPending records bytes handed to the app under a PENDING
// response, not yet confirmed consumed.
func (b *RecvBuffer) SetReadPending(n protocol.ByteCount) { b.readPendingLength = n }

// ReadPending returns the outstanding PENDING length.
func (b *RecvBuffer) ReadPending() protocol.ByteCount { return b.readPendingLength }
