package nfa

// match runs node id at index i and returns the index where the final
// node accepted, or -1. Every node that writes shared state restores it
// before returning -1, which is what makes the recursion a backtracking
// search.
//
//nolint:gocyclo,cyclop // one case per node kind
func (s *State) match(id NodeID, i int) int {
	n := &s.prog.nodes[id]
	switch n.kind {
	case KindChar, KindCIChar, KindUCIChar, KindSequence, KindCISequence,
		KindClass, KindDot, KindDotAll, KindDecomposedChar, KindHangulChar, KindCanonClass:
		w := s.accepts(n, i)
		if w < 0 {
			return -1
		}
		return s.match(n.next, i+w)

	case KindBackRef:
		return s.backRef(n, i)

	case KindJoint:
		return s.joint(n, i)
	case KindNonCapJoint:
		mask := s.alternatives(n, i)
		for k, c := range n.children {
			if mask&(1<<k) == 0 {
				continue
			}
			if r := s.match(c, i); r >= 0 {
				return r
			}
		}
		return -1
	case KindAtomicJoint:
		return s.atomic(n, i)
	case KindFSet:
		return s.fset(n, i)
	case KindNonCapFSet, KindEmpty:
		return s.match(n.next, i)
	case KindAtomicFSet, KindAheadFSet:
		return i
	case KindBehindFSet:
		if i == s.consumed[n.slot] {
			return i
		}
		return -1

	case KindPosLookAhead, KindNegLookAhead:
		return s.lookAhead(n, i)
	case KindPosLookBehind, KindNegLookBehind:
		return s.lookBehind(n, i)

	case KindLeafQuant:
		return s.greedyLeaf(n, i)
	case KindReluctantLeafQuant:
		return s.reluctantLeaf(n, i)
	case KindPossessiveLeafQuant, KindUnifiedQuant:
		return s.possessiveLeaf(n, i)
	case KindDotQuant:
		return s.dotQuant(n, i)
	case KindGroupQuant, KindReluctantGroupQuant:
		return s.groupQuant(n, i)
	case KindLoop:
		return s.loop(&s.prog.nodes[n.inner], i)

	case KindSOL, KindStartOfInput:
		if i != s.leftAnchor() {
			return -1
		}
		return s.match(n.next, i)
	case KindMultiLineSOL:
		return s.multiLineSOL(n, i)
	case KindEOL, KindEndOfInputLine:
		return s.dollar(n, i, false)
	case KindMultiLineEOL:
		return s.dollar(n, i, true)
	case KindEndOfInput:
		if i != s.rightAnchor() {
			return -1
		}
		s.hitEnd = true
		return s.match(n.next, i)
	case KindPreviousMatch:
		if i != s.previousMatch {
			return -1
		}
		return s.match(n.next, i)
	case KindWordBoundary:
		if s.isBoundary(i) == n.negated {
			return -1
		}
		return s.match(n.next, i)

	case KindFinal:
		if s.mode == ModeMatch && i != s.right {
			return -1
		}
		return i
	}
	panic("nfa: unexpected node kind " + n.kind.String())
}

// joint opens a capturing group. The tentative start is kept in the
// group's consumer slot until the closing node commits it.
func (s *State) joint(n *Node, i int) int {
	save := s.consumed[n.slot]
	s.consumed[n.slot] = i
	r := -1
	mask := s.alternatives(n, i)
	for k, c := range n.children {
		if mask&(1<<k) == 0 {
			continue
		}
		if r = s.match(c, i); r >= 0 {
			break
		}
	}
	s.consumed[n.slot] = save
	return r
}

// fset closes a capturing group and continues.
func (s *State) fset(n *Node, i int) int {
	g := 2 * n.group
	start, end := s.groups[g], s.groups[g+1]
	s.groups[g], s.groups[g+1] = s.consumed[n.slot], i
	r := s.match(n.next, i)
	if r < 0 {
		s.groups[g], s.groups[g+1] = start, end
	}
	return r
}

// atomic matches the first successful alternative and never backtracks
// into it.
func (s *State) atomic(n *Node, i int) int {
	mark := s.pushCaptures(n.groupLo, n.groupHi)
	defer s.popCaptures(mark)
	for _, c := range n.children {
		e := s.match(c, i)
		if e < 0 {
			continue
		}
		r := s.match(n.next, e)
		if r < 0 {
			s.restoreCaptures(mark, n.groupLo)
		}
		return r
	}
	return -1
}
