// Package bounds provides overflow-checked size arithmetic for the
// buffer growth paths. Capacity math is done in uintptr because the
// engine's size contract is the address-space limit, not int.
package bounds

import "math"

// MaxSize is the largest representable buffer capacity.
const MaxSize = ^uintptr(0)

// Add returns a+b, with ok = false when the sum wraps.
func Add(a, b uintptr) (uintptr, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}

// Mul returns a*b, with ok = false when the product wraps.
func Mul(a, b uintptr) (uintptr, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// FitsInt reports whether v is representable as a non-negative int.
func FitsInt(v uintptr) bool {
	return v <= uintptr(math.MaxInt)
}
