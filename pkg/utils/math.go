package utils

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to the unit interval.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// FloorZero returns v, or 0 when v is negative.
func FloorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// IsPositiveFinite reports whether v is a real number above zero. NaN and
// infinities fail every ordered comparison guard, so callers check this first.
func IsPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
