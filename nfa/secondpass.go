package nfa

import (
	"unicode"

	"github.com/coregx/jregex/internal/sparse"
	"github.com/coregx/jregex/syntax"
)

// processSecondPass rewrites the finished graph. It marks back-referenced
// groups and builds first-byte dispatch tables for alternations. Unbounded
// greedy '.' quantifiers become line scanners, and unbounded greedy leaf
// quantifiers whose leaf cannot start the continuation become unified
// quantifiers that never give back.
//
// The graph is cyclic through group quantifier loops, so the walk keeps a
// visited set.
func (p *Program) processSecondPass() {
	visited := sparse.New[NodeID](len(p.nodes))
	stack := []NodeID{p.start}
	push := func(id NodeID) {
		if id != InvalidNode && visited.Insert(id) {
			stack = append(stack, id)
		}
	}
	visited.Insert(p.start)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &p.nodes[id]

		switch n.kind {
		case KindBackRef:
			p.backRefs[n.group] = true
		case KindJoint, KindNonCapJoint:
			p.buildDispatch(n)
		case KindLeafQuant:
			if n.quant.IsUnbounded() {
				switch {
				case p.nodes[n.inner].kind == KindDot || p.nodes[n.inner].kind == KindDotAll:
					n.kind = KindDotQuant
				case !p.first(n.next, n.inner, 0):
					n.kind = KindUnifiedQuant
				}
			}
		}

		push(n.next)
		push(n.inner)
		push(n.close)
		for _, c := range n.children {
			push(c)
		}
	}
}

// maxFirstDepth bounds the look through groups in first.
const maxFirstDepth = 16

// first reports whether the node at id could begin by consuming a code
// point accepted by leaf. It answers true whenever it cannot tell.
func (p *Program) first(id, leaf NodeID, depth int) bool {
	if id == InvalidNode || depth > maxFirstDepth {
		return true
	}
	n := &p.nodes[id]
	if n.kind.IsLeaf() {
		return leavesIntersect(&p.nodes[leaf], n)
	}
	switch n.kind {
	case KindFinal, KindEndOfInput:
		return false
	case KindJoint, KindNonCapJoint:
		for _, c := range n.children {
			if p.first(c, leaf, depth+1) {
				return true
			}
		}
		return false
	case KindFSet, KindNonCapFSet, KindEmpty:
		return p.first(n.next, leaf, depth+1)
	}
	return true
}

// leavesIntersect reports whether some code point is accepted both by the
// single-rune leaf a and as the first code point of leaf b.
func leavesIntersect(a, b *Node) bool {
	switch b.kind {
	case KindChar, KindCIChar, KindUCIChar:
		return acceptsAnyCase(a, b.r, b.fold)
	case KindSequence, KindCISequence:
		return acceptsAnyCase(a, b.runes[0], b.fold)
	case KindClass:
		switch a.kind {
		case KindChar, KindCIChar, KindUCIChar:
			return acceptsAnyCase(b, a.r, a.fold)
		case KindClass:
			return a.class.Intersects(b.class)
		}
	}
	return true
}

// acceptsAnyCase reports whether leaf accepts r or one of its case forms
// under fold.
func acceptsAnyCase(leaf *Node, r rune, fold syntax.FoldMode) bool {
	if leafAcceptsRune(leaf, r) {
		return true
	}
	switch fold {
	case syntax.FoldASCII:
		return leafAcceptsRune(leaf, asciiSwapCase(r))
	case syntax.FoldUnicode:
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if leafAcceptsRune(leaf, f) {
				return true
			}
		}
	}
	return false
}
