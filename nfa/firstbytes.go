package nfa

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/jregex/syntax"
)

// FirstByteSet represents the set of bytes that can start a match.
// Used to skip start positions that cannot begin a match.
type FirstByteSet struct {
	// bytes is a 256-entry lookup table for O(1) membership test
	bytes [256]bool
	// count is the number of valid first bytes (0-256)
	count int
	// complete is true if this set is exhaustive (pattern cannot start with other bytes)
	complete bool
}

// Contains returns true if b can be the first byte of a match.
func (f *FirstByteSet) Contains(b byte) bool {
	return f.bytes[b]
}

// Count returns the number of possible first bytes.
func (f *FirstByteSet) Count() int {
	return f.count
}

// IsComplete returns true if this set is exhaustive.
func (f *FirstByteSet) IsComplete() bool {
	return f.complete
}

// IsUseful returns true if this set can reject start positions.
// Returns false if:
//   - All 256 bytes are valid
//   - No bytes are valid
//   - Set is incomplete (pattern may match starting with unknown bytes)
func (f *FirstByteSet) IsUseful() bool {
	return f.complete && f.count > 0 && f.count < 256
}

// Table returns the membership table.
func (f *FirstByteSet) Table() *[256]bool {
	return &f.bytes
}

func (f *FirstByteSet) add(b byte) {
	if !f.bytes[b] {
		f.bytes[b] = true
		f.count++
	}
}

func (f *FirstByteSet) addRune(r rune) {
	var buf [utf8.UTFMax]byte
	utf8.EncodeRune(buf[:], r)
	f.add(buf[0])
}

// ExtractFirstBytes extracts the set of possible first bytes of a match.
// Returns nil if the program can match the empty string or starts with a
// construct whose first bytes are not known (., back-references, wide
// classes, canonical-equivalence leaves).
//
// For example, for (\d+|UUID|hex32):
//   - Valid first bytes: 0-9, 'U', 'h'
//   - Any other first byte means no match can start there
func ExtractFirstBytes(p *Program) *FirstByteSet {
	if p == nil {
		return nil
	}
	result := &FirstByteSet{complete: true}
	e := firstBytesExtractor{p: p, out: result}
	nullable, ok := e.group(p.start, 0)
	if !ok || nullable {
		return nil
	}
	return result
}

const maxFirstBytesDepth = 20

type firstBytesExtractor struct {
	p   *Program
	out *FirstByteSet
}

// group unions the first bytes of every alternative of the group opened
// by id. nullable reports whether some alternative can reach the closing
// node without consuming input.
func (e *firstBytesExtractor) group(id NodeID, depth int) (nullable, ok bool) {
	if depth > maxFirstBytesDepth {
		return false, false
	}
	n := &e.p.nodes[id]
	for _, c := range n.children {
		nb, ok := e.path(c, n.close, depth+1)
		if !ok {
			return false, false
		}
		nullable = nullable || nb
	}
	return nullable, true
}

// path adds the first bytes of the chain from id up to stop.
//
//nolint:gocognit,gocyclo,cyclop // one case per node kind
func (e *firstBytesExtractor) path(id, stop NodeID, depth int) (nullable, ok bool) {
	for id != stop {
		if id == InvalidNode {
			return true, true
		}
		n := &e.p.nodes[id]
		switch n.kind {
		case KindChar, KindCIChar, KindUCIChar, KindSequence, KindCISequence, KindClass:
			return false, e.leaf(n)

		case KindLeafQuant, KindReluctantLeafQuant, KindPossessiveLeafQuant, KindUnifiedQuant:
			if !e.leaf(&e.p.nodes[n.inner]) {
				return false, false
			}
			if n.quant.Min > 0 {
				return false, true
			}
			id = n.next

		case KindGroupQuant, KindReluctantGroupQuant:
			nb, ok := e.group(n.inner, depth+1)
			if !ok {
				return false, false
			}
			if n.quant.Min > 0 && !nb {
				return false, true
			}
			id = n.next

		case KindJoint, KindNonCapJoint, KindAtomicJoint:
			nb, ok := e.group(id, depth+1)
			if !ok {
				return false, false
			}
			if !nb {
				return false, true
			}
			if n.kind == KindAtomicJoint {
				id = n.next
			} else {
				id = e.p.nodes[n.close].next
			}

		case KindFinal:
			return true, true

		case KindDot, KindDotAll, KindDotQuant, KindBackRef,
			KindDecomposedChar, KindHangulChar, KindCanonClass, KindLoop:
			return false, false

		default:
			// Zero-width nodes: the match may start with whatever follows.
			id = n.next
		}
	}
	return true, true
}

// leaf adds the first bytes of a leaf. It fails for classes reaching
// beyond Latin-1.
func (e *firstBytesExtractor) leaf(n *Node) bool {
	switch n.kind {
	case KindChar, KindCIChar, KindUCIChar:
		e.addFolded(n.r, n.fold)
	case KindSequence, KindCISequence:
		e.addFolded(n.runes[0], n.fold)
	case KindClass:
		if n.class.IsWide() {
			return false
		}
		for r := rune(0); r < 256; r++ {
			if n.class.Contains(r) {
				e.out.addRune(r)
			}
		}
	default:
		return false
	}
	return true
}

func (e *firstBytesExtractor) addFolded(r rune, fold syntax.FoldMode) {
	e.out.addRune(r)
	switch fold {
	case syntax.FoldASCII:
		e.out.addRune(asciiSwapCase(r))
	case syntax.FoldUnicode:
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			e.out.addRune(f)
		}
	}
}
