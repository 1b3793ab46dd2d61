package prefilter

import (
	"bytes"
	"math/bits"

	"github.com/coregx/jregex/literal"
)

const (
	// MinTeddyLiterals and MaxTeddyLiterals bound the literal count Teddy
	// is built for. One bucket per literal keeps verification to a single
	// comparison per set bit.
	MinTeddyLiterals = 2
	MaxTeddyLiterals = 8

	// MinTeddyLiteralLen is the shortest literal Teddy accepts. Shorter
	// literals leave too few fingerprint bytes to reject positions.
	MinTeddyLiteralLen = 3

	// maxFingerprintLen is the number of leading bytes checked through the
	// nibble masks before a literal is compared in full.
	maxFingerprintLen = 3
)

// teddy finds the leftmost occurrence of any of a few literals.
//
// Each literal owns a bucket bit. For every fingerprint position the low
// and high nibble of the haystack byte select two masks of bucket bits; a
// position is a candidate when some bucket survives the AND over all
// fingerprint bytes, and only the surviving literals are compared.
type teddy struct {
	literals [][]byte
	fpLen    int
	lo, hi   [maxFingerprintLen][16]uint8

	complete   bool
	uniformLen int
}

// newTeddy returns nil when seq falls outside the Teddy band.
func newTeddy(seq *literal.Seq) Prefilter {
	if seq.Len() < MinTeddyLiterals || seq.Len() > MaxTeddyLiterals || seq.MinLen() < MinTeddyLiteralLen {
		return nil
	}
	t := &teddy{
		fpLen:      min(seq.MinLen(), maxFingerprintLen),
		complete:   seq.AllComplete(),
		uniformLen: uniformLen(seq),
	}
	for id, l := range seq.Literals() {
		lit := bytes.Clone(l.Bytes)
		t.literals = append(t.literals, lit)
		bit := uint8(1) << id
		for pos := 0; pos < t.fpLen; pos++ {
			b := lit[pos]
			t.lo[pos][b&0x0F] |= bit
			t.hi[pos][b>>4] |= bit
		}
	}
	return t
}

// candidate returns the bucket bits of the literals whose fingerprint
// matches at i.
func (t *teddy) candidate(haystack []byte, i int) uint8 {
	mask := uint8(0xFF)
	for pos := 0; pos < t.fpLen && mask != 0; pos++ {
		b := haystack[i+pos]
		mask &= t.lo[pos][b&0x0F] & t.hi[pos][b>>4]
	}
	return mask
}

// Find implements Prefilter.Find. The returned position is the start of a
// whole literal occurrence.
func (t *teddy) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	for i := start; i+t.fpLen <= len(haystack); i++ {
		mask := t.candidate(haystack, i)
		for mask != 0 {
			id := bits.TrailingZeros8(mask)
			mask &^= 1 << id
			if bytes.HasPrefix(haystack[i:], t.literals[id]) {
				return i
			}
		}
	}
	return -1
}

func (t *teddy) IsComplete() bool { return t.complete }

func (t *teddy) LiteralLen() int {
	if t.complete {
		return t.uniformLen
	}
	return 0
}

func (t *teddy) HeapBytes() int {
	n := 2 * maxFingerprintLen * 16
	for _, l := range t.literals {
		n += len(l)
	}
	return n
}
