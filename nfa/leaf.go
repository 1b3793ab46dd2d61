package nfa

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/jregex/syntax"
)

// accepts returns the number of bytes leaf n consumes at i, or -1. Reading
// at the region end sets hitEnd.
func (s *State) accepts(n *Node, i int) int {
	switch n.kind {
	case KindSequence:
		return s.acceptSequence(n, i)
	case KindCISequence:
		return s.acceptFoldSequence(n, i)
	case KindDecomposedChar, KindHangulChar, KindCanonClass:
		return s.acceptCanon(n, i)
	}
	if i >= s.right {
		s.hitEnd = true
		return -1
	}
	r, w := s.runeAt(i)
	if !leafAcceptsRune(n, r) {
		return -1
	}
	return w
}

func (s *State) runeAt(i int) (rune, int) {
	if c := s.input[i]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(s.input[i:s.right])
}

// leafAcceptsRune reports whether a single-rune leaf accepts r.
func leafAcceptsRune(n *Node, r rune) bool {
	switch n.kind {
	case KindChar:
		return r == n.r
	case KindCIChar:
		return r == n.r || asciiSwapCase(r) == n.r
	case KindUCIChar:
		return equalFold(r, n.r)
	case KindClass:
		return n.class.Contains(r)
	case KindDot:
		return !syntax.IsLineTerminator(r, n.unixLines)
	case KindDotAll:
		return true
	}
	return false
}

func asciiSwapCase(r rune) rune {
	switch {
	case 'a' <= r && r <= 'z':
		return r - 'a' + 'A'
	case 'A' <= r && r <= 'Z':
		return r - 'A' + 'a'
	}
	return r
}

// equalFold reports whether a and b are in the same simple case folding
// orbit.
func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func foldEqual(a, b rune, fold syntax.FoldMode) bool {
	switch fold {
	case syntax.FoldASCII:
		return a == b || asciiSwapCase(a) == b
	case syntax.FoldUnicode:
		return equalFold(a, b)
	}
	return a == b
}

// acceptSequence compares bytes up to the region end. Running out of input
// with every compared byte equal sets hitEnd.
func (s *State) acceptSequence(n *Node, i int) int {
	for j, c := range n.seq {
		if i+j >= s.right {
			s.hitEnd = true
			return -1
		}
		if s.input[i+j] != c {
			return -1
		}
	}
	return len(n.seq)
}

func (s *State) acceptFoldSequence(n *Node, i int) int {
	j := i
	for _, want := range n.runes {
		if j >= s.right {
			s.hitEnd = true
			return -1
		}
		r, w := s.runeAt(j)
		if !foldEqual(r, want, n.fold) {
			return -1
		}
		j += w
	}
	return j - i
}

// backRef matches the text last captured by the group. An unset group
// never matches.
func (s *State) backRef(n *Node, i int) int {
	g := 2 * n.group
	start, end := s.groups[g], s.groups[g+1]
	if start < 0 {
		return -1
	}
	if n.fold == syntax.FoldNone {
		size := end - start
		if i+size > s.right {
			s.hitEnd = true
			return -1
		}
		for k := 0; k < size; k++ {
			if s.input[start+k] != s.input[i+k] {
				return -1
			}
		}
		return s.match(n.next, i+size)
	}
	j := i
	for k := start; k < end; {
		if j >= s.right {
			s.hitEnd = true
			return -1
		}
		want, wk := utf8.DecodeRune(s.input[k:end])
		r, w := s.runeAt(j)
		if !foldEqual(r, want, n.fold) {
			return -1
		}
		k += wk
		j += w
	}
	return s.match(n.next, j)
}
