package utils

import (
	"time"

	"golang.org/x/exp/constraints"
)

// Max returns the larger of two ordered values.
func Max[T constraints.Ordered](a, b T) T {
	if a < b {
		return b
	}
	return a
}

// Min returns the smaller of two ordered values.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// MaxDuration returns the max duration.
func MaxDuration(a, b time.Duration) time.Duration {
	return Max(a, b)
}

// MinDuration returns the minimum duration.
func MinDuration(a, b time.Duration) time.Duration {
	return Min(a, b)
}

// AbsDuration returns the absolute value of a time duration.
func AbsDuration(d time.Duration) time.Duration {
	if d >= 0 {
		return d
	}
	return -d
}
