package nfa

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/jregex/syntax"
)

// multiLineSOL matches at the start of input and after any line
// terminator, except at the very end and between \r and \n.
func (s *State) multiLineSOL(n *Node, i int) int {
	start, end := s.leftAnchor(), s.rightAnchor()
	if i == end {
		s.hitEnd = true
		return -1
	}
	if i > start {
		r, _ := utf8.DecodeLastRune(s.input[:i])
		if !syntax.IsLineTerminator(r, n.unixLines) {
			return -1
		}
		if r == '\r' && s.input[i] == '\n' {
			return -1
		}
	}
	return s.match(n.next, i)
}

// dollar implements $ and \Z. Without multiline it matches at the end and
// before a line terminator that ends the input; with multiline it also
// matches before every line terminator. Matching at (or next to) the end
// sets hitEnd and requireEnd, since more input could break the match.
func (s *State) dollar(n *Node, i int, multiline bool) int {
	end := s.rightAnchor()
	if i < end {
		rest := s.input[i:end]
		r, w := utf8.DecodeRune(rest)
		if !syntax.IsLineTerminator(r, n.unixLines) {
			return -1
		}
		if !multiline {
			tail := w
			if r == '\r' && !n.unixLines && len(rest) > 1 && rest[1] == '\n' {
				tail = 2
			}
			if tail != len(rest) {
				return -1
			}
		}
		if r == '\n' && i > 0 && s.input[i-1] == '\r' && !n.unixLines {
			return -1
		}
		if multiline {
			return s.match(n.next, i)
		}
	}
	s.hitEnd = true
	s.requireEnd = true
	return s.match(n.next, i)
}

// isBoundary reports whether i lies between a word and a non-word
// character. Non-spacing marks count as word characters when they follow
// a letter or digit. Testing at the end sets hitEnd and requireEnd.
func (s *State) isBoundary(i int) bool {
	start, end := s.lookLeft(), s.lookRight()
	left := false
	if i > start {
		r, w := utf8.DecodeLastRune(s.input[start:i])
		left = isWord(r) || unicode.Is(unicode.Mn, r) && s.hasBase(i-w, start)
	}
	right := false
	if i < end {
		r, _ := utf8.DecodeRune(s.input[i:end])
		right = isWord(r) || unicode.Is(unicode.Mn, r) && s.hasBase(i, start)
	} else {
		s.hitEnd = true
		s.requireEnd = true
	}
	return left != right
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// hasBase reports whether the run of non-spacing marks ending at the code
// point at i is attached to a letter or digit.
func (s *State) hasBase(i, start int) bool {
	for i >= start {
		r, _ := utf8.DecodeRune(s.input[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		if !unicode.Is(unicode.Mn, r) || i == start {
			return false
		}
		_, w := utf8.DecodeLastRune(s.input[start:i])
		i -= w
	}
	return false
}
