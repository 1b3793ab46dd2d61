package nfa

// maxDispatchAlternatives is the widest joint a dispatch mask can cover.
const maxDispatchAlternatives = 64

// buildDispatch sets the first-byte dispatch table of the joint n. An
// alternative is restricted only when its first node is a leaf, or a leaf
// quantifier that must repeat, whose first bytes are known; every other
// alternative stays eligible at every byte. No table is built when
// nothing is restricted.
func (p *Program) buildDispatch(n *Node) {
	if len(n.children) < 2 || len(n.children) > maxDispatchAlternatives {
		return
	}
	var (
		t          [256]uint64
		restricted bool
	)
	for k, c := range n.children {
		bit := uint64(1) << k
		set := p.leadingBytes(c)
		if set == nil {
			for b := range t {
				t[b] |= bit
			}
			continue
		}
		restricted = true
		for b := range t {
			if set.Contains(byte(b)) {
				t[b] |= bit
			}
		}
	}
	if restricted {
		n.dispatch = &t
	}
}

// leadingBytes returns the bytes the alternative starting at id can begin
// with, or nil when it may begin with any byte or without consuming.
func (p *Program) leadingBytes(id NodeID) *FirstByteSet {
	if id == InvalidNode {
		return nil
	}
	n := &p.nodes[id]
	switch n.kind {
	case KindChar, KindCIChar, KindUCIChar, KindSequence, KindCISequence, KindClass:
	case KindLeafQuant, KindReluctantLeafQuant, KindPossessiveLeafQuant, KindUnifiedQuant:
		if n.quant.Min == 0 {
			return nil
		}
		n = &p.nodes[n.inner]
	default:
		return nil
	}
	set := &FirstByteSet{complete: true}
	e := firstBytesExtractor{p: p, out: set}
	// An invalid byte decodes as U+FFFD, whose lead byte is 0xEF.
	if !e.leaf(n) || set.Contains(0xEF) || set.Count() == 256 {
		return nil
	}
	return set
}

// alternatives returns the dispatch mask of joint n at i. Every
// alternative is eligible at the region end, where leaves must still run
// to record hitEnd.
func (s *State) alternatives(n *Node, i int) uint64 {
	if n.dispatch == nil || i >= s.right {
		return ^uint64(0)
	}
	return n.dispatch[s.input[i]]
}
