// Package canon provides the Unicode canonical-equivalence primitives used by
// CANON_EQ matching: canonical decomposition, combining classes, canonical
// ordering and Hangul syllable (de)composition.
//
// Decomposition data comes from golang.org/x/text/unicode/norm. Hangul
// syllables are handled algorithmically because norm exposes no table
// entry for them.
package canon

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxDecompositionLength bounds the number of code points a single canonical
// unit (a starter plus its combining marks) may expand to. Longer runs are
// split into several units.
const MaxDecompositionLength = 8

// Hangul syllable algorithm constants (Unicode 3.12).
const (
	SBase  = 0xAC00
	LBase  = 0x1100
	VBase  = 0x1161
	TBase  = 0x11A7
	LCount = 19
	VCount = 21
	TCount = 28
	NCount = VCount * TCount
	SCount = LCount * NCount
)

// CCC returns the canonical combining class of r. Starters have class 0.
func CCC(r rune) uint8 {
	if r < 0x300 {
		return 0
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return norm.NFD.Properties(buf[:n]).CCC()
}

// IsHangulSyllable reports whether r is a precomposed Hangul syllable.
func IsHangulSyllable(r rune) bool {
	return r >= SBase && r < SBase+SCount
}

// IsJamoL reports whether r is a leading consonant jamo.
func IsJamoL(r rune) bool { return r >= LBase && r < LBase+LCount }

// IsJamoV reports whether r is a vowel jamo.
func IsJamoV(r rune) bool { return r >= VBase && r < VBase+VCount }

// IsJamoT reports whether r is a trailing consonant jamo.
func IsJamoT(r rune) bool { return r > TBase && r < TBase+TCount }

// DecomposeHangul splits a syllable into its jamo. t is 0 for LV syllables.
func DecomposeHangul(s rune) (l, v, t rune) {
	idx := s - SBase
	l = LBase + idx/NCount
	v = VBase + (idx%NCount)/TCount
	if ti := idx % TCount; ti != 0 {
		t = TBase + ti
	}
	return l, v, t
}

// ComposeHangul builds a syllable from jamo. t may be 0.
func ComposeHangul(l, v, t rune) rune {
	s := SBase + ((l-LBase)*VCount+(v-VBase))*TCount
	if t != 0 {
		s += t - TBase
	}
	return s
}

// AppendDecomposition appends the full canonical decomposition of r to dst.
// Characters without a decomposition are appended unchanged.
func AppendDecomposition(dst []rune, r rune) []rune {
	if IsHangulSyllable(r) {
		l, v, t := DecomposeHangul(r)
		dst = append(dst, l, v)
		if t != 0 {
			dst = append(dst, t)
		}
		return dst
	}
	if r < 0xC0 {
		return append(dst, r)
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	d := norm.NFD.Properties(buf[:n]).Decomposition()
	if d == nil {
		return append(dst, r)
	}
	for len(d) > 0 {
		c, w := utf8.DecodeRune(d)
		dst = append(dst, c)
		d = d[w:]
	}
	return dst
}

// Order sorts every run of non-starters in rs by combining class. The sort is
// a stable bubble sort: adjacent marks are swapped only when the first has a
// strictly greater class, so marks of equal class keep their order.
func Order(rs []rune) {
	if len(rs) < 2 {
		return
	}
	classes := make([]uint8, len(rs))
	for i, r := range rs {
		classes[i] = CCC(r)
	}
	for swapped := true; swapped; {
		swapped = false
		for i := 1; i < len(rs); i++ {
			a, b := classes[i-1], classes[i]
			if b != 0 && a > b {
				rs[i-1], rs[i] = rs[i], rs[i-1]
				classes[i-1], classes[i] = b, a
				swapped = true
			}
		}
	}
}

// Normalize returns the canonical decomposition of s with marks in canonical
// order.
func Normalize(rs []rune) []rune {
	out := make([]rune, 0, len(rs)+len(rs)/2)
	for _, r := range rs {
		out = AppendDecomposition(out, r)
	}
	Order(out)
	return out
}

// NormalizeString is Normalize over a string.
func NormalizeString(s string) string {
	return string(Normalize([]rune(s)))
}

// Compose returns the single precomposed character canonically equivalent to
// rs, if there is one.
func Compose(rs []rune) (rune, bool) {
	switch len(rs) {
	case 0:
		return 0, false
	case 1:
		return rs[0], true
	}
	if len(rs) <= 3 && IsJamoL(rs[0]) && IsJamoV(rs[1]) {
		if len(rs) == 2 {
			return ComposeHangul(rs[0], rs[1], 0), true
		}
		if IsJamoT(rs[2]) {
			return ComposeHangul(rs[0], rs[1], rs[2]), true
		}
		return 0, false
	}
	s := norm.NFC.String(string(rs))
	r, w := utf8.DecodeRuneInString(s)
	if w != len(s) {
		return 0, false
	}
	return r, true
}

// NextUnit reads the canonical unit starting at byte offset i of input: one
// starter followed by combining marks (at most MaxDecompositionLength code
// points after decomposition), or a Hangul syllable / jamo sequence. The
// unit is decomposed and ordered into buf, which is returned together with
// the number of input bytes it spans. A unit never starts with a mark
// unless input itself does at i.
func NextUnit(input []byte, i int, buf []rune) ([]rune, int) {
	buf = buf[:0]
	if i >= len(input) {
		return buf, 0
	}
	r, w := utf8.DecodeRune(input[i:])
	j := i + w
	if IsJamoL(r) || IsHangulSyllable(r) {
		buf = AppendDecomposition(buf, r)
		// L V T sequences written as separate jamo form one unit.
		if IsJamoL(r) && j < len(input) {
			if v, vw := utf8.DecodeRune(input[j:]); IsJamoV(v) {
				buf = append(buf, v)
				j += vw
				if j < len(input) {
					if t, tw := utf8.DecodeRune(input[j:]); IsJamoT(t) {
						buf = append(buf, t)
						j += tw
					}
				}
			}
		} else if len(buf) == 2 && j < len(input) {
			if t, tw := utf8.DecodeRune(input[j:]); IsJamoT(t) {
				buf = append(buf, t)
				j += tw
			}
		}
		return buf, j - i
	}
	buf = AppendDecomposition(buf, r)
	for j < len(input) {
		m, mw := utf8.DecodeRune(input[j:])
		if CCC(m) == 0 {
			break
		}
		n := len(buf)
		if buf = AppendDecomposition(buf, m); len(buf) > MaxDecompositionLength {
			// The mark starts the next unit.
			buf = buf[:n]
			break
		}
		j += mw
	}
	Order(buf)
	return buf, j - i
}
