package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes sets the high bit of every zero byte of v (Hacker's Delight
// 6-1). Bits above the first zero byte may be false positives, so only
// the lowest set bit is meaningful.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) &^ v & hi8
}

// firstIndex converts a zeroBytes mask to a byte offset.
func firstIndex(mask uint64) int {
	return bits.TrailingZeros64(mask) / 8
}

func memchrSWAR(haystack []byte, needle byte) int {
	n := len(haystack)
	i := 0
	if n >= swarMinLen {
		mask := uint64(needle) * lo8
		for ; i+8 <= n; i += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[i:])
			if z := zeroBytes(chunk ^ mask); z != 0 {
				return i + firstIndex(z)
			}
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

func memchr2SWAR(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	i := 0
	if n >= swarMinLen {
		m1 := uint64(needle1) * lo8
		m2 := uint64(needle2) * lo8
		for ; i+8 <= n; i += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[i:])
			if z := zeroBytes(chunk^m1) | zeroBytes(chunk^m2); z != 0 {
				return i + firstIndex(z)
			}
		}
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 {
			return i
		}
	}
	return -1
}

func memchr3SWAR(haystack []byte, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	i := 0
	if n >= swarMinLen {
		m1 := uint64(needle1) * lo8
		m2 := uint64(needle2) * lo8
		m3 := uint64(needle3) * lo8
		for ; i+8 <= n; i += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[i:])
			if z := zeroBytes(chunk^m1) | zeroBytes(chunk^m2) | zeroBytes(chunk^m3); z != 0 {
				return i + firstIndex(z)
			}
		}
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 || b == needle3 {
			return i
		}
	}
	return -1
}

// memchrPairSWAR compares the chunk at i against byte1 and the chunk at
// i+offset against byte2; bit k of the conjunction marks position i+k.
func memchrPairSWAR(haystack []byte, byte1, byte2 byte, offset int) int {
	n := len(haystack)
	i := 0
	m1 := uint64(byte1) * lo8
	m2 := uint64(byte2) * lo8
	for ; i+offset+8 <= n; i += 8 {
		c1 := binary.LittleEndian.Uint64(haystack[i:])
		c2 := binary.LittleEndian.Uint64(haystack[i+offset:])
		z1, z2 := zeroBytes(c1^m1), zeroBytes(c2^m2)
		if z1&z2 == 0 {
			continue
		}
		// False positives above a true zero byte can line up across the
		// two masks, so confirm each candidate.
		for k := 0; k < 8; k++ {
			if haystack[i+k] == byte1 && haystack[i+k+offset] == byte2 {
				return i + k
			}
		}
	}
	for ; i+offset < n; i++ {
		if haystack[i] == byte1 && haystack[i+offset] == byte2 {
			return i
		}
	}
	return -1
}
