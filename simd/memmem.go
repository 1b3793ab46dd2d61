package simd

import "bytes"

// Finder is a substring searcher with its rare-byte selection computed
// once. Prefilters build one per literal and reuse it for every search.
//
// Candidates come from a paired scan for the needle's two rarest bytes at
// their fixed distance, and each candidate is verified in full.
//
// Example:
//
//	pos := simd.NewFinder([]byte("aab")).Find([]byte("aaaaaabaaaa")) // 4
type Finder struct {
	needle []byte
	rare   RareBytes
}

// NewFinder returns a Finder for needle. The needle is not copied.
func NewFinder(needle []byte) *Finder {
	return &Finder{needle: needle, rare: SelectRareBytes(needle)}
}

// Needle returns the searched bytes.
func (f *Finder) Needle() []byte { return f.needle }

// Find returns the index of the first instance of the needle in haystack,
// or -1.
func (f *Finder) Find(haystack []byte) int {
	n := len(f.needle)
	switch {
	case n == 0:
		return 0
	case n > len(haystack):
		return -1
	case n == 1:
		return Memchr(haystack, f.needle[0])
	}

	r := f.rare
	if r.Byte1 == r.Byte2 {
		return f.findSingle(haystack)
	}
	// Scan for the pair with the earlier offset first so the distance is
	// non-negative.
	b1, i1, b2, i2 := r.Byte1, r.Index1, r.Byte2, r.Index2
	if i2 < i1 {
		b1, i1, b2, i2 = b2, i2, b1, i1
	}
	last := len(haystack) - n // last valid start
	pos := 0
	for pos <= last {
		k := MemchrPair(haystack[pos+i1:last+i1+(i2-i1)+1], b1, b2, i2-i1)
		if k < 0 {
			return -1
		}
		start := pos + k
		if bytes.Equal(haystack[start:start+n], f.needle) {
			return start
		}
		pos = start + 1
	}
	return -1
}

// findSingle handles needles made of one distinct byte value.
func (f *Finder) findSingle(haystack []byte) int {
	n := len(f.needle)
	b, idx := f.rare.Byte1, f.rare.Index1
	pos := 0
	for pos+n <= len(haystack) {
		k := Memchr(haystack[pos+idx:len(haystack)-n+idx+1], b)
		if k < 0 {
			return -1
		}
		start := pos + k
		if bytes.Equal(haystack[start:start+n], f.needle) {
			return start
		}
		pos = start + 1
	}
	return -1
}
