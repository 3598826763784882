package congestion

// cubeRoot computes floor(cbrt(radicand)) using the shifting nth-root
// algorithm: the radicand is consumed three bits at a time (cube root
// of a 3-bit chunk needs one output bit), for 11 iterations over a
// 32-bit input.
func cubeRoot(radicand uint32) uint32 {
	var x, y uint32
	for i := 30; i >= 0; i -= 3 {
		x = x*8 + ((radicand >> uint(i)) & 7)
		candidate := y*2 + 1
		if candidate*candidate*candidate <= x {
			y = candidate
		} else {
			y = y * 2
		}
	}
	return y
}
