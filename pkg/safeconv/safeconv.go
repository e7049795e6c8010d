// Package safeconv provides safe integer type conversion functions
// for values crossing signed/unsigned boundaries.
package safeconv

import "math"

// Uint64ToInt64 converts uint64 to int64. The second result is false
// when the value does not fit. Use for values that come from user
// input, such as parsed byte sizes.
func Uint64ToInt64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}

	return int64(v), true
}

// MustInt64ToUint64 converts int64 to uint64 and panics on negative
// input. Reserve it for values that cannot be negative, like file
// sizes already validated upstream.
func MustInt64ToUint64(v int64) uint64 {
	if v < 0 {
		panic("safeconv: negative int64 to uint64 conversion")
	}

	return uint64(v)
}
