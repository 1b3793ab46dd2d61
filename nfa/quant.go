package nfa

import (
	"unicode/utf8"

	"github.com/coregx/jregex/simd"
	"github.com/coregx/jregex/syntax"
)

// consume applies the leaf of quantifier n from i up to limit times and
// returns the end index and the number of repetitions.
func (s *State) consume(n *Node, i, limit int) (int, int) {
	if n.table != nil {
		return s.scanClass(n.table, i, limit)
	}
	leaf := &s.prog.nodes[n.inner]
	count := 0
	for count < limit {
		w := s.accepts(leaf, i)
		if w < 0 {
			break
		}
		i += w
		count++
	}
	return i, count
}

// greedyLeaf takes as many repetitions as possible and gives them back one
// code point at a time.
func (s *State) greedyLeaf(n *Node, i int) int {
	floor, count := s.consume(n, i, n.quant.Min)
	if count < n.quant.Min {
		return -1
	}
	j, _ := s.consume(n, floor, n.quant.Max-n.quant.Min)
	return s.backOff(n.next, floor, j)
}

// backOff tries next at j, then at each earlier code point boundary down
// to floor.
func (s *State) backOff(next NodeID, floor, j int) int {
	for {
		if r := s.match(next, j); r >= 0 {
			return r
		}
		if j <= floor {
			return -1
		}
		_, w := utf8.DecodeLastRune(s.input[floor:j])
		j -= w
	}
}

// reluctantLeaf takes the minimum and extends one repetition at a time.
func (s *State) reluctantLeaf(n *Node, i int) int {
	j, count := s.consume(n, i, n.quant.Min)
	if count < n.quant.Min {
		return -1
	}
	leaf := &s.prog.nodes[n.inner]
	for {
		if r := s.match(n.next, j); r >= 0 {
			return r
		}
		if count >= n.quant.Max {
			return -1
		}
		w := s.accepts(leaf, j)
		if w < 0 {
			return -1
		}
		j += w
		count++
	}
}

// possessiveLeaf takes as many repetitions as possible and never gives any
// back. Unified quantifiers share it: their leaf cannot start the
// continuation, so giving back could never help.
func (s *State) possessiveLeaf(n *Node, i int) int {
	j, count := s.consume(n, i, n.quant.Max)
	if count < n.quant.Min {
		return -1
	}
	return s.match(n.next, j)
}

var lineTerminatorLeads = func() *[256]bool {
	t := new([256]bool)
	t['\n'] = true
	t['\r'] = true
	t[0xC2] = true // U+0085
	t[0xE2] = true // U+2028, U+2029
	return t
}()

// lineEnd returns the index of the first line terminator at or after i in
// the region, or the region end.
func (s *State) lineEnd(i int, unixLines bool) int {
	hay := s.input[:s.right]
	if unixLines {
		if k := simd.Memchr(hay[i:], '\n'); k >= 0 {
			return i + k
		}
		return s.right
	}
	for i < s.right {
		k := simd.MemchrInTable(hay[i:], lineTerminatorLeads)
		if k < 0 {
			return s.right
		}
		i += k
		r, w := utf8.DecodeRune(hay[i:])
		if syntax.IsLineTerminator(r, false) {
			return i
		}
		i += w
	}
	return s.right
}

// dotQuant runs an unbounded greedy '.' quantifier by scanning to the end
// of the line in one step and backing off from there.
func (s *State) dotQuant(n *Node, i int) int {
	leaf := &s.prog.nodes[n.inner]
	end := s.right
	if leaf.kind == KindDot {
		end = s.lineEnd(i, leaf.unixLines)
	}
	if end == s.right {
		s.hitEnd = true
	}
	floor := i
	for k := 0; k < n.quant.Min; k++ {
		if floor >= end {
			return -1
		}
		_, w := utf8.DecodeRune(s.input[floor:end])
		floor += w
	}
	return s.backOff(n.next, floor, end)
}

// groupQuant enters a quantified group. Each repetition saves the loop
// state and restores it on return, so re-entering the same quantifier from
// its own continuation starts a fresh count.
func (s *State) groupQuant(n *Node, i int) int {
	q := n.quant
	if n.kind == KindReluctantGroupQuant && q.Min == 0 {
		if r := s.match(n.next, i); r >= 0 || q.Max == 0 {
			return r
		}
		return s.iterate(n, i, 0)
	}
	if q.Max == 0 {
		return s.match(n.next, i)
	}
	r := s.iterate(n, i, 0)
	if r < 0 && q.Min == 0 {
		r = s.match(n.next, i)
	}
	return r
}

// iterate runs one more repetition of the body starting at i.
func (s *State) iterate(n *Node, i, count int) int {
	l := n.slot
	saveCount, saveStart := s.loops[l], s.loopStarts[l]
	s.loops[l], s.loopStarts[l] = count+1, i
	r := s.match(n.inner, i)
	s.loops[l], s.loopStarts[l] = saveCount, saveStart
	return r
}

// hasConsumed reports whether the current repetition of quantifier n
// consumed input. A repetition that matched the empty string ends the
// loop.
func (s *State) hasConsumed(n *Node, i int) bool {
	return i > s.loopStarts[n.slot]
}

// loop is reached when a repetition of the body of quantifier n ends at i.
func (s *State) loop(n *Node, i int) int {
	if !s.hasConsumed(n, i) {
		return s.match(n.next, i)
	}
	q := n.quant
	count := s.loops[n.slot]
	if count < q.Min {
		return s.iterate(n, i, count)
	}
	if n.kind == KindReluctantGroupQuant {
		if r := s.match(n.next, i); r >= 0 {
			return r
		}
		if count < q.Max {
			return s.iterate(n, i, count)
		}
		return -1
	}
	if count < q.Max {
		if r := s.iterate(n, i, count); r >= 0 {
			return r
		}
	}
	return s.match(n.next, i)
}
