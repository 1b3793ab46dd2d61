// Package nfa compiles java.util.regex patterns into a graph of matcher
// nodes and runs them with a backtracking interpreter.
//
// A compiled Program is an arena of Node values addressed by NodeID. Each
// node knows how to match at an index and delegate to its continuation
// (Next). Groups are pairs of an opening joint and a closing FSet node;
// quantified groups loop from the FSet back to the quantifier node, so the
// graph is cyclic. Programs are immutable after compilation and may be
// shared; all mutable search state lives in State.
package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/jregex/syntax"
)

// NodeID identifies a node within a Program.
type NodeID uint32

// InvalidNode marks an absent link.
const InvalidNode NodeID = 0xFFFFFFFF

// NodeKind identifies the matching behaviour of a node.
type NodeKind uint8

const (
	// KindChar matches one code point exactly.
	KindChar NodeKind = iota
	// KindCIChar matches one code point with ASCII case folding.
	KindCIChar
	// KindUCIChar matches one code point with Unicode simple case folding.
	KindUCIChar
	// KindSequence matches a literal string.
	KindSequence
	// KindCISequence matches a literal string with case folding.
	KindCISequence
	// KindClass matches one code point in a character class.
	KindClass
	// KindDot matches any code point except line terminators.
	KindDot
	// KindDotAll matches any code point.
	KindDotAll
	// KindBackRef matches the text of a previously captured group.
	KindBackRef

	// KindJoint opens a capturing group.
	KindJoint
	// KindNonCapJoint opens a non-capturing group.
	KindNonCapJoint
	// KindAtomicJoint opens an atomic group (?>...).
	KindAtomicJoint
	// KindFSet closes a capturing group.
	KindFSet
	// KindNonCapFSet closes a non-capturing group.
	KindNonCapFSet
	// KindAtomicFSet ends the body of an atomic group.
	KindAtomicFSet
	// KindAheadFSet ends the body of a lookahead.
	KindAheadFSet
	// KindBehindFSet ends the body of a lookbehind.
	KindBehindFSet
	// KindPosLookAhead is (?=...).
	KindPosLookAhead
	// KindNegLookAhead is (?!...).
	KindNegLookAhead
	// KindPosLookBehind is (?<=...).
	KindPosLookBehind
	// KindNegLookBehind is (?<!...).
	KindNegLookBehind

	// KindLeafQuant is a greedy quantifier over a single-character leaf.
	KindLeafQuant
	// KindReluctantLeafQuant is a reluctant quantifier over a leaf.
	KindReluctantLeafQuant
	// KindPossessiveLeafQuant is a possessive quantifier over a leaf.
	KindPossessiveLeafQuant
	// KindUnifiedQuant is a greedy unbounded leaf quantifier whose leaf
	// cannot start the continuation, so it never needs to give back.
	KindUnifiedQuant
	// KindDotQuant is .* or .+ scanning to the end of the line.
	KindDotQuant
	// KindGroupQuant is a greedy quantifier over a group.
	KindGroupQuant
	// KindReluctantGroupQuant is a reluctant quantifier over a group.
	KindReluctantGroupQuant
	// KindLoop is the back-edge from a quantified body to its quantifier.
	KindLoop

	// KindSOL is ^ without MULTILINE.
	KindSOL
	// KindMultiLineSOL is ^ with MULTILINE.
	KindMultiLineSOL
	// KindEOL is $ without MULTILINE.
	KindEOL
	// KindMultiLineEOL is $ with MULTILINE.
	KindMultiLineEOL
	// KindStartOfInput is \A.
	KindStartOfInput
	// KindEndOfInput is \z.
	KindEndOfInput
	// KindEndOfInputLine is \Z.
	KindEndOfInputLine
	// KindPreviousMatch is \G.
	KindPreviousMatch
	// KindWordBoundary is \b, or \B when negated.
	KindWordBoundary

	// KindDecomposedChar matches a canonical unit (base plus marks).
	KindDecomposedChar
	// KindHangulChar matches a Hangul syllable in any canonical form.
	KindHangulChar
	// KindCanonClass matches a class member in any canonical form.
	KindCanonClass

	// KindEmpty matches the empty string.
	KindEmpty
	// KindFinal accepts the match.
	KindFinal
)

var kindNames = [...]string{
	KindChar:                "Char",
	KindCIChar:              "CIChar",
	KindUCIChar:             "UCIChar",
	KindSequence:            "Sequence",
	KindCISequence:          "CISequence",
	KindClass:               "Class",
	KindDot:                 "Dot",
	KindDotAll:              "DotAll",
	KindBackRef:             "BackRef",
	KindJoint:               "Joint",
	KindNonCapJoint:         "NonCapJoint",
	KindAtomicJoint:         "AtomicJoint",
	KindFSet:                "FSet",
	KindNonCapFSet:          "NonCapFSet",
	KindAtomicFSet:          "AtomicFSet",
	KindAheadFSet:           "AheadFSet",
	KindBehindFSet:          "BehindFSet",
	KindPosLookAhead:        "PosLookAhead",
	KindNegLookAhead:        "NegLookAhead",
	KindPosLookBehind:       "PosLookBehind",
	KindNegLookBehind:       "NegLookBehind",
	KindLeafQuant:           "LeafQuant",
	KindReluctantLeafQuant:  "ReluctantLeafQuant",
	KindPossessiveLeafQuant: "PossessiveLeafQuant",
	KindUnifiedQuant:        "UnifiedQuant",
	KindDotQuant:            "DotQuant",
	KindGroupQuant:          "GroupQuant",
	KindReluctantGroupQuant: "ReluctantGroupQuant",
	KindLoop:                "Loop",
	KindSOL:                 "SOL",
	KindMultiLineSOL:        "MultiLineSOL",
	KindEOL:                 "EOL",
	KindMultiLineEOL:        "MultiLineEOL",
	KindStartOfInput:        "StartOfInput",
	KindEndOfInput:          "EndOfInput",
	KindEndOfInputLine:      "EndOfInputLine",
	KindPreviousMatch:       "PreviousMatch",
	KindWordBoundary:        "WordBoundary",
	KindDecomposedChar:      "DecomposedChar",
	KindHangulChar:          "HangulChar",
	KindCanonClass:          "CanonClass",
	KindEmpty:               "Empty",
	KindFinal:               "Final",
}

// String returns a human-readable name of the kind.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// IsLeaf reports whether the kind consumes exactly one canonical unit or a
// literal string and then delegates to its continuation.
func (k NodeKind) IsLeaf() bool {
	switch k {
	case KindChar, KindCIChar, KindUCIChar, KindSequence, KindCISequence,
		KindClass, KindDot, KindDotAll, KindDecomposedChar, KindHangulChar, KindCanonClass:
		return true
	}
	return false
}

// isSingleRune reports whether a leaf of this kind consumes exactly one
// code point, the requirement for leaf quantifiers.
func (k NodeKind) isSingleRune() bool {
	switch k {
	case KindChar, KindCIChar, KindUCIChar, KindClass, KindDot, KindDotAll:
		return true
	}
	return false
}

// Node is one matcher in the graph. The kind determines which fields are
// meaningful.
type Node struct {
	kind NodeKind
	next NodeID

	// Leaf quantifiers: the quantified leaf. Group quantifiers: the body
	// joint. Open nodes: unused.
	inner NodeID

	// Joints and lookarounds: alternatives, each ending in close.
	children []NodeID
	close    NodeID

	// Capturing group index (Joint, FSet, BackRef).
	group int

	// Consumer slot (non-capturing groups, lookbehinds) or loop slot
	// (group quantifiers).
	slot int

	// Capture groups [groupLo, groupHi) nested in an atomic group or
	// lookaround, restored when the continuation fails.
	groupLo, groupHi int

	r     rune
	runes []rune
	seq   []byte
	class *syntax.CharClass
	quant syntax.Quantifier
	fold  syntax.FoldMode

	// Anchors: UNIX_LINES. WordBoundary: negated.
	unixLines bool
	negated   bool

	// Leaf quantifiers over an ASCII-only class: the member bytes.
	table *[256]bool

	// Joints: bit k of dispatch[b] is set when alternative k may start at
	// a byte b. Nil when every alternative may start anywhere.
	dispatch *[256]uint64

	// Lookbehind: minimum body length in runes, and maximum or -1 when
	// unbounded.
	minLen, maxLen int
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Next returns the continuation.
func (n *Node) Next() NodeID { return n.next }

// Inner returns the quantified leaf or body.
func (n *Node) Inner() NodeID { return n.inner }

// Children returns the alternatives of a joint or lookaround.
func (n *Node) Children() []NodeID { return n.children }

// Close returns the closing node of a joint or lookaround.
func (n *Node) Close() NodeID { return n.close }

// Group returns the capture group index.
func (n *Node) Group() int { return n.group }

// Rune returns the code point of a Char node.
func (n *Node) Rune() rune { return n.r }

// Runes returns the code points of a sequence or canonical unit.
func (n *Node) Runes() []rune { return n.runes }

// Class returns the class of a Class or CanonClass node.
func (n *Node) Class() *syntax.CharClass { return n.class }

// Quant returns the range of a quantifier node.
func (n *Node) Quant() syntax.Quantifier { return n.quant }

// Fold returns the case folding of a literal node.
func (n *Node) Fold() syntax.FoldMode { return n.fold }

// Program is a compiled pattern.
type Program struct {
	nodes      []Node
	start      NodeID
	groupCount int
	slots      int
	loops      int
	flags      syntax.Flags
	pattern    string
	backRefs   []bool
}

// Start returns the root node (the opening joint of group 0).
func (p *Program) Start() NodeID { return p.start }

// Node returns the node with the given id.
func (p *Program) Node(id NodeID) *Node { return &p.nodes[id] }

// Len returns the number of nodes.
func (p *Program) Len() int { return len(p.nodes) }

// GroupCount returns the number of capturing groups, excluding group 0.
func (p *Program) GroupCount() int { return p.groupCount }

// Flags returns the compile flags.
func (p *Program) Flags() syntax.Flags { return p.flags }

// Pattern returns the source pattern.
func (p *Program) Pattern() string { return p.pattern }

// IsBackReferenced reports whether group g is the target of a
// back-reference.
func (p *Program) IsBackReferenced(g int) bool {
	return g >= 0 && g < len(p.backRefs) && p.backRefs[g]
}

// AnchoredStart reports whether every match must begin at the start of
// input (the pattern begins with \A or a non-multiline ^).
func (p *Program) AnchoredStart() bool {
	root := &p.nodes[p.start]
	for _, c := range root.children {
		switch p.nodes[c].kind {
		case KindStartOfInput, KindSOL:
		default:
			return false
		}
	}
	return len(root.children) > 0
}

// String dumps the graph, one node per line.
func (p *Program) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "program %q groups=%d start=%d\n", p.pattern, p.groupCount, p.start)
	for i := range p.nodes {
		n := &p.nodes[i]
		fmt.Fprintf(&b, "%4d %-20s", i, n.kind)
		switch n.kind {
		case KindChar, KindCIChar, KindUCIChar:
			fmt.Fprintf(&b, " %q", n.r)
		case KindSequence, KindCISequence, KindDecomposedChar, KindHangulChar:
			fmt.Fprintf(&b, " %q", string(n.runes))
		case KindClass, KindCanonClass:
			fmt.Fprintf(&b, " %v", n.class)
		case KindJoint, KindFSet, KindBackRef:
			fmt.Fprintf(&b, " group=%d", n.group)
			if n.kind == KindJoint && p.IsBackReferenced(n.group) {
				b.WriteString(" referenced")
			}
		case KindLeafQuant, KindReluctantLeafQuant, KindPossessiveLeafQuant,
			KindUnifiedQuant, KindDotQuant, KindGroupQuant, KindReluctantGroupQuant:
			fmt.Fprintf(&b, " %v inner=%d", n.quant, n.inner)
		}
		if len(n.children) > 0 {
			fmt.Fprintf(&b, " children=%v close=%d", n.children, n.close)
		}
		if n.next != InvalidNode {
			fmt.Fprintf(&b, " -> %d", n.next)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
