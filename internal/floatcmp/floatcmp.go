// Package floatcmp provides epsilon-aware float64 comparisons and a
// NaN-safe ordering for use across the book-maintenance engine.
package floatcmp

import (
	"cmp"
	"math"
)

// Epsilon bounds the floating point comparisons below.
const Epsilon = 1e-9

// Equal reports whether a and b are within Epsilon of each other.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// IsZero reports whether f is within Epsilon of zero.
func IsZero(f float64) bool {
	return math.Abs(f) < Epsilon
}

// Compare orders two rates the way the book's sorted vectors need:
// NaN is never expected to reach this comparison (rates are rejected at
// parse time), but if it ever does, it sorts as equal rather than
// panicking or producing an inconsistent order.
func Compare(a, b float64) int {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	return cmp.Compare(a, b)
}
