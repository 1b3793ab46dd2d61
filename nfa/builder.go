package nfa

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/jregex/internal/conv"
	"github.com/coregx/jregex/syntax"
)

// Builder constructs programs incrementally using a low-level API.
// This provides full control over graph construction and is used by the
// compiler.
type Builder struct {
	nodes []Node
	slots int
	loops int
}

// NewBuilder creates a new builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{nodes: make([]Node, 0, capacity)}
}

func (b *Builder) add(n Node) NodeID {
	id := NodeID(conv.IntToUint32(len(b.nodes)))
	b.nodes = append(b.nodes, n)
	return id
}

func newNode(kind NodeKind) Node {
	return Node{
		kind:   kind,
		next:   InvalidNode,
		inner:  InvalidNode,
		close:  InvalidNode,
		maxLen: -1,
	}
}

func (b *Builder) newSlot() int {
	b.slots++
	return b.slots - 1
}

// hasCase reports whether r has other case forms under fold.
func hasCase(r rune, fold syntax.FoldMode) bool {
	switch fold {
	case syntax.FoldASCII:
		return r < utf8.RuneSelf && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
	case syntax.FoldUnicode:
		return unicode.SimpleFold(r) != r
	}
	return false
}

// AddChar adds a single code point leaf. The kind is chosen from fold: a
// code point without other case forms always compiles to an exact Char.
func (b *Builder) AddChar(r rune, fold syntax.FoldMode) NodeID {
	n := newNode(KindChar)
	if hasCase(r, fold) {
		n.fold = fold
		if fold == syntax.FoldASCII {
			n.kind = KindCIChar
		} else {
			n.kind = KindUCIChar
		}
	}
	n.r = r
	return b.add(n)
}

// AddSequence adds a literal string leaf.
func (b *Builder) AddSequence(rs []rune, fold syntax.FoldMode) NodeID {
	n := newNode(KindSequence)
	for _, r := range rs {
		if hasCase(r, fold) {
			n.kind = KindCISequence
			n.fold = fold
			break
		}
	}
	n.runes = append([]rune(nil), rs...)
	n.seq = []byte(string(rs))
	return b.add(n)
}

// AddClass adds a character class leaf. The class is frozen.
func (b *Builder) AddClass(c *syntax.CharClass) NodeID {
	n := newNode(KindClass)
	n.class = c.Freeze()
	return b.add(n)
}

// AddDot adds '.', matching any code point when dotAll is set and any code
// point except line terminators otherwise.
func (b *Builder) AddDot(dotAll, unixLines bool) NodeID {
	n := newNode(KindDot)
	if dotAll {
		n.kind = KindDotAll
	}
	n.unixLines = unixLines
	return b.add(n)
}

// AddBackRef adds a back-reference to group.
func (b *Builder) AddBackRef(group int, fold syntax.FoldMode) NodeID {
	n := newNode(KindBackRef)
	n.group = group
	n.fold = fold
	return b.add(n)
}

// closeKind maps an opening kind to the kind of its closing node.
func closeKind(open NodeKind) NodeKind {
	switch open {
	case KindJoint:
		return KindFSet
	case KindNonCapJoint:
		return KindNonCapFSet
	case KindAtomicJoint:
		return KindAtomicFSet
	case KindPosLookAhead, KindNegLookAhead:
		return KindAheadFSet
	case KindPosLookBehind, KindNegLookBehind:
		return KindBehindFSet
	}
	panic("nfa: " + open.String() + " is not a group kind")
}

// AddGroup adds a paired opening and closing node. group is the capture
// index for KindJoint and ignored otherwise. Alternatives are attached
// with AddAlternative and must end in the closing node.
func (b *Builder) AddGroup(kind NodeKind, group int) (open, end NodeID) {
	o := newNode(kind)
	c := newNode(closeKind(kind))
	switch kind {
	case KindJoint:
		o.group, c.group = group, group
		o.slot = b.newSlot()
	case KindPosLookBehind, KindNegLookBehind:
		o.slot = b.newSlot()
	}
	c.slot = o.slot
	open = b.add(o)
	end = b.add(c)
	b.nodes[open].close = end
	return open, end
}

// AddAlternative appends an alternative starting at first to a group.
func (b *Builder) AddAlternative(open, first NodeID) {
	b.nodes[open].children = append(b.nodes[open].children, first)
}

// SetCaptureRange records the capture groups [lo, hi) nested in an atomic
// group or lookaround.
func (b *Builder) SetCaptureRange(open NodeID, lo, hi int) {
	b.nodes[open].groupLo = lo
	b.nodes[open].groupHi = hi
}

// SetBodyLen records the minimum and maximum length in code points of a
// lookbehind body. max is -1 when the body is unbounded.
func (b *Builder) SetBodyLen(open NodeID, minLen, maxLen int) {
	b.nodes[open].minLen = minLen
	b.nodes[open].maxLen = maxLen
}

// AddLeafQuant adds a leaf quantifier of the given kind over leaf.
func (b *Builder) AddLeafQuant(kind NodeKind, leaf NodeID, q syntax.Quantifier) NodeID {
	n := newNode(kind)
	n.inner = leaf
	n.quant = q
	n.table = b.classTable(leaf)
	return b.add(n)
}

// AddGroupQuant adds a quantifier over the group opened by body. The
// group's closing node is linked to a loop node that returns to the
// quantifier, so body must not be linked onwards by the caller.
func (b *Builder) AddGroupQuant(body NodeID, q syntax.Quantifier, reluctant bool) NodeID {
	n := newNode(KindGroupQuant)
	if reluctant {
		n.kind = KindReluctantGroupQuant
	}
	n.inner = body
	n.quant = q
	n.slot = b.loops
	b.loops++
	quant := b.add(n)

	loop := newNode(KindLoop)
	loop.inner = quant
	back := b.add(loop)
	b.nodes[b.nodes[body].close].next = back
	return quant
}

// AddAnchor adds a zero-width assertion of the given kind.
func (b *Builder) AddAnchor(kind NodeKind, unixLines bool) NodeID {
	n := newNode(kind)
	n.unixLines = unixLines
	return b.add(n)
}

// AddWordBoundary adds \b, or \B when negated.
func (b *Builder) AddWordBoundary(negated bool) NodeID {
	n := newNode(KindWordBoundary)
	n.negated = negated
	return b.add(n)
}

// AddCanonChar adds a leaf matching the canonical unit rs (a starter and
// its marks, or Hangul jamo) in any canonically equivalent form.
func (b *Builder) AddCanonChar(kind NodeKind, rs []rune, fold syntax.FoldMode) NodeID {
	n := newNode(kind)
	n.runes = append([]rune(nil), rs...)
	n.fold = fold
	return b.add(n)
}

// AddCanonClass adds a class leaf that also matches decomposed forms of its
// members.
func (b *Builder) AddCanonClass(c *syntax.CharClass) NodeID {
	n := newNode(KindCanonClass)
	n.class = c.Freeze()
	return b.add(n)
}

// AddEmpty adds a node matching the empty string.
func (b *Builder) AddEmpty() NodeID {
	return b.add(newNode(KindEmpty))
}

// AddFinal adds the accepting node.
func (b *Builder) AddFinal() NodeID {
	return b.add(newNode(KindFinal))
}

// SetNext links id to its continuation. For capturing and non-capturing
// groups the link is placed on the closing node, since that is where the
// group continues.
func (b *Builder) SetNext(id, next NodeID) {
	n := &b.nodes[id]
	switch n.kind {
	case KindJoint, KindNonCapJoint:
		b.nodes[n.close].next = next
	default:
		n.next = next
	}
}

// Kind returns the kind of node id.
func (b *Builder) Kind(id NodeID) NodeKind {
	return b.nodes[id].kind
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Validate checks that every link refers to an existing node.
func (b *Builder) Validate() error {
	n := NodeID(conv.IntToUint32(len(b.nodes)))
	check := func(from, to NodeID, what string) error {
		if to != InvalidNode && to >= n {
			return &BuildError{Message: what + " link out of range", NodeID: from}
		}
		return nil
	}
	for i := range b.nodes {
		id := NodeID(conv.IntToUint32(i))
		node := &b.nodes[i]
		if err := check(id, node.next, "next"); err != nil {
			return err
		}
		if err := check(id, node.inner, "inner"); err != nil {
			return err
		}
		if err := check(id, node.close, "close"); err != nil {
			return err
		}
		for _, c := range node.children {
			if err := check(id, c, "child"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build finalizes the program rooted at start.
func (b *Builder) Build(start NodeID, groupCount int, flags syntax.Flags, pattern string) (*Program, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Program{
		nodes:      b.nodes,
		start:      start,
		groupCount: groupCount,
		slots:      b.slots,
		loops:      b.loops,
		flags:      flags,
		pattern:    pattern,
		backRefs:   make([]bool, groupCount+1),
	}, nil
}
