package utils

import "bytes"

// WriteUintN writes the low N bytes of i, network byte order.
func WriteUintN(b *bytes.Buffer, i uint64, length uint8) {
	for n := int(length) - 1; n >= 0; n-- {
		b.WriteByte(uint8(i >> (uint(n) * 8)))
	}
}

// WriteUint64 writes a uint64, network byte order.
func WriteUint64(b *bytes.Buffer, i uint64) { WriteUintN(b, i, 8) }

// WriteUint16 writes a uint16, network byte order.
func WriteUint16(b *bytes.Buffer, i uint16) { WriteUintN(b, uint64(i), 2) }
