// Package conv narrows integers with an overflow check.
package conv

import "math"

// IntToUint32 converts n to uint32. It panics when n does not fit, which
// means a node index grew past what the compiler's node limit allows.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit int never overflows the check.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int out of uint32 range")
	}
	return uint32(n)
}
