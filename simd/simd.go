// Package simd provides fast byte and substring scanning for prefilters
// and line scanning.
//
// On CPUs with wide vector units the single-byte search is delegated to the
// runtime's vectorized bytes.IndexByte. Everywhere else, and for the
// multi-needle searches, a SWAR (SIMD Within A Register) kernel processes
// eight bytes per step using uint64 arithmetic.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// hasVector reports whether the runtime's byte search runs on vector
// registers wider than a machine word.
var hasVector = cpu.X86.HasAVX2 || cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD

// swarMinLen is the haystack length below which a plain loop beats the
// SWAR setup.
const swarMinLen = 8

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o') // 4
func Memchr(haystack []byte, needle byte) int {
	if hasVector {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrSWAR(haystack, needle)
}

// Memchr2 returns the index of the first byte equal to needle1 or needle2,
// or -1.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if needle1 == needle2 {
		return Memchr(haystack, needle1)
	}
	return memchr2SWAR(haystack, needle1, needle2)
}

// Memchr3 returns the index of the first byte equal to any of the three
// needles, or -1.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	return memchr3SWAR(haystack, needle1, needle2, needle3)
}

// MemchrPair returns the first index i with haystack[i] == byte1 and
// haystack[i+offset] == byte2, or -1. Two bytes at a fixed distance are far
// more selective than one, which makes this the candidate scan for
// substring search.
func MemchrPair(haystack []byte, byte1, byte2 byte, offset int) int {
	if offset < 0 || offset >= len(haystack) {
		return -1
	}
	return memchrPairSWAR(haystack, byte1, byte2, offset)
}

// MemchrInTable returns the index of the first byte b with table[b] set,
// or -1.
func MemchrInTable(haystack []byte, table *[256]bool) int {
	if table == nil {
		return -1
	}
	i := 0
	for ; i+4 <= len(haystack); i += 4 {
		if table[haystack[i]] {
			return i
		}
		if table[haystack[i+1]] {
			return i + 1
		}
		if table[haystack[i+2]] {
			return i + 2
		}
		if table[haystack[i+3]] {
			return i + 3
		}
	}
	for ; i < len(haystack); i++ {
		if table[haystack[i]] {
			return i
		}
	}
	return -1
}

// MemchrNotInTable returns the index of the first byte b with table[b]
// unset, or -1 when every byte is in the table.
func MemchrNotInTable(haystack []byte, table *[256]bool) int {
	if table == nil {
		if len(haystack) == 0 {
			return -1
		}
		return 0
	}
	for i, b := range haystack {
		if !table[b] {
			return i
		}
	}
	return -1
}
