package nfa

import "unicode/utf8"

// lookAhead runs the body at i without advancing. Transparent bounds let
// the body read past the region end.
func (s *State) lookAhead(n *Node, i int) int {
	negative := n.kind == KindNegLookAhead
	if negative && i >= s.right {
		s.requireEnd = true
	}
	saveRight := s.right
	s.right = s.lookRight()
	mark := s.pushCaptures(n.groupLo, n.groupHi)
	defer s.popCaptures(mark)

	matched := false
	for _, c := range n.children {
		if s.match(c, i) >= 0 {
			matched = true
			break
		}
	}
	s.right = saveRight

	if negative {
		s.restoreCaptures(mark, n.groupLo)
		if matched {
			return -1
		}
		return s.match(n.next, i)
	}
	if !matched {
		return -1
	}
	r := s.match(n.next, i)
	if r < 0 {
		s.restoreCaptures(mark, n.groupLo)
	}
	return r
}

// lookBehind tries the body forward from candidate starts before i,
// nearest first, beginning minLen code points back. The closing node
// accepts only when the body ends exactly at i, which is recorded in the
// lookbehind's consumer slot.
func (s *State) lookBehind(n *Node, i int) int {
	negative := n.kind == KindNegLookBehind
	saveSlot := s.consumed[n.slot]
	s.consumed[n.slot] = i
	saveLeft := s.left
	lo := s.lookLeft()
	s.left = lo
	// Starts closer than minLen code points cannot hold the body.
	start, ok := s.stepBack(i, n.minLen, lo)
	if n.maxLen >= 0 {
		lo, _ = s.stepBack(i, n.maxLen, lo)
	}
	mark := s.pushCaptures(n.groupLo, n.groupHi)
	defer s.popCaptures(mark)

	matched := false
	for p := start; ok && !matched; {
		for _, c := range n.children {
			if s.match(c, p) >= 0 {
				matched = true
				break
			}
		}
		if p <= lo {
			break
		}
		_, w := utf8.DecodeLastRune(s.input[lo:p])
		p -= w
	}
	s.left = saveLeft
	s.consumed[n.slot] = saveSlot

	if negative {
		s.restoreCaptures(mark, n.groupLo)
		if matched {
			return -1
		}
		return s.match(n.next, i)
	}
	if !matched {
		return -1
	}
	r := s.match(n.next, i)
	if r < 0 {
		s.restoreCaptures(mark, n.groupLo)
	}
	return r
}

// stepBack returns the index n code points before i, but not before lo.
// ok is false when lo was reached first.
func (s *State) stepBack(i, n, lo int) (j int, ok bool) {
	for ; n > 0 && i > lo; n-- {
		_, w := utf8.DecodeLastRune(s.input[lo:i])
		i -= w
	}
	return i, n == 0
}
