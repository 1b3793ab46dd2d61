package nfa

import (
	"github.com/coregx/jregex/canon"
	"github.com/coregx/jregex/syntax"
)

// Options bounds the size of compiled programs.
type Options struct {
	// MaxNodes is the maximum number of nodes in the graph.
	MaxNodes int

	// MaxNesting is the maximum group nesting depth.
	MaxNesting int
}

// DefaultOptions returns the limits used when none are given.
func DefaultOptions() Options {
	return Options{
		MaxNodes:   1 << 20,
		MaxNesting: 1000,
	}
}

// Validate checks the limits.
func (o Options) Validate() error {
	if o.MaxNodes < 2 || o.MaxNesting < 1 {
		return ErrInvalidConfig
	}
	return nil
}

// compileAbort carries a non-syntax error out of the recursive descent.
type compileAbort struct {
	err error
}

type compiler struct {
	lx      *syntax.Lexer
	b       *Builder
	opts    Options
	groups  int
	depth   int
	pattern string
}

// Compile parses pattern under flags and builds its program.
//
// Malformed patterns yield a *syntax.PatternSyntaxError. Exceeding a limit
// in opts yields a *CompileError wrapping ErrTooComplex.
func Compile(pattern string, flags syntax.Flags, opts Options) (prog *Program, err error) {
	if flags&^syntax.AllFlags != 0 {
		return nil, &CompileError{Pattern: pattern, Err: ErrInvalidFlags}
	}
	if err := opts.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	lx, err := syntax.NewLexer(pattern, flags)
	if err != nil {
		return nil, err
	}
	c := &compiler{
		lx:      lx,
		b:       NewBuilderWithCapacity(2*len(pattern) + 4),
		opts:    opts,
		pattern: lx.Pattern(),
	}

	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *syntax.PatternSyntaxError:
				prog, err = nil, e
			case compileAbort:
				prog, err = nil, &CompileError{Pattern: pattern, Err: e.err}
			default:
				panic(r)
			}
		}
	}()

	start := c.root()
	prog, err = c.b.Build(start, c.groups, flags, pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	prog.processSecondPass()
	return prog, nil
}

// MustCompile is like Compile with default options but panics on error.
func MustCompile(pattern string, flags syntax.Flags) *Program {
	prog, err := Compile(pattern, flags, DefaultOptions())
	if err != nil {
		panic(err)
	}
	return prog
}

func (c *compiler) fail(desc string, index int) {
	panic(c.lx.Error(desc, index))
}

func (c *compiler) check() {
	if c.b.Len() > c.opts.MaxNodes {
		panic(compileAbort{err: ErrTooComplex})
	}
}

// root compiles the whole pattern as group 0 followed by the final node.
func (c *compiler) root() NodeID {
	open, end := c.b.AddGroup(KindJoint, 0)
	c.alternatives(open, end)
	if !c.lx.IsEmpty() {
		// Only a stray ')' stops the top-level alternation early.
		c.fail(syntax.ErrUnmatchedParen, c.lx.Index())
	}
	c.b.SetNext(open, c.b.AddFinal())
	return open
}

// alternatives parses alt|alt|... into the group opened by open, each
// alternative ending in end.
func (c *compiler) alternatives(open, end NodeID) {
	for {
		c.b.AddAlternative(open, c.alternative(end))
		if c.lx.Peek() != syntax.TokBar {
			return
		}
		c.lx.Next()
	}
}

// alternative parses a concatenation of terms and links it to end.
func (c *compiler) alternative(end NodeID) NodeID {
	first, last := InvalidNode, InvalidNode
	for {
		switch c.lx.Peek() {
		case syntax.TokBar, syntax.TokRightParen, syntax.TokEOF:
			if first == InvalidNode {
				first = c.b.AddEmpty()
				last = first
			}
			c.b.SetNext(last, end)
			return first
		}
		t := c.term()
		if t == InvalidNode {
			continue
		}
		c.check()
		if first == InvalidNode {
			first = t
		} else {
			c.b.SetNext(last, t)
		}
		last = t
	}
}

// term parses one possibly quantified atom. It returns InvalidNode for
// constructs that produce no node, such as (?i).
//
//nolint:gocyclo,cyclop // one case per token class
func (c *compiler) term() NodeID {
	lx := c.lx
	tok := lx.Peek()
	flags := lx.Flags()
	groupsBefore := c.groups

	var atom NodeID
	switch {
	case tok.IsLiteral():
		if flags.Has(syntax.CanonEq) {
			atom = c.canonUnit()
		} else {
			atom = c.literals()
		}
	case tok.IsBackRef():
		g := tok.BackRef()
		if g > c.groups {
			c.fail(syntax.ErrNoSuchGroup, lx.Index())
		}
		lx.Next()
		atom = c.b.AddBackRef(g, syntax.FoldFor(flags))
	case tok.IsQuantifier():
		c.fail(syntax.ErrDanglingMeta, lx.Index())
	case tok == syntax.TokFlags:
		lx.Next()
		return InvalidNode
	case tok.IsGroupOpen():
		atom = c.group()
	case tok == syntax.TokLeftBracket:
		cls := c.classExpr()
		if flags.Has(syntax.CanonEq) {
			atom = c.b.AddCanonClass(cls)
		} else if r, ok := cls.SingleRune(); ok {
			atom = c.b.AddChar(r, syntax.FoldNone)
		} else {
			atom = c.b.AddClass(cls)
		}
	case tok == syntax.TokClass:
		atom = c.b.AddClass(lx.Class())
		lx.Next()
	case tok == syntax.TokDot:
		lx.Next()
		atom = c.b.AddDot(flags.Has(syntax.DotAll), flags.Has(syntax.UnixLines))
	default:
		atom = c.anchor(tok, flags)
	}
	return c.quantify(atom, groupsBefore)
}

// anchor compiles zero-width assertions.
func (c *compiler) anchor(tok syntax.Token, flags syntax.Flags) NodeID {
	unix := flags.Has(syntax.UnixLines)
	multi := flags.Has(syntax.Multiline)
	var id NodeID
	switch tok {
	case syntax.TokCaret:
		if multi {
			id = c.b.AddAnchor(KindMultiLineSOL, unix)
		} else {
			id = c.b.AddAnchor(KindSOL, unix)
		}
	case syntax.TokDollar:
		if multi {
			id = c.b.AddAnchor(KindMultiLineEOL, unix)
		} else {
			id = c.b.AddAnchor(KindEOL, unix)
		}
	case syntax.TokStartOfInput:
		id = c.b.AddAnchor(KindStartOfInput, unix)
	case syntax.TokEndOfInput:
		id = c.b.AddAnchor(KindEndOfInput, unix)
	case syntax.TokEndOfInputLine:
		id = c.b.AddAnchor(KindEndOfInputLine, unix)
	case syntax.TokPreviousMatch:
		id = c.b.AddAnchor(KindPreviousMatch, unix)
	case syntax.TokWordBoundary:
		id = c.b.AddWordBoundary(false)
	case syntax.TokNonWordBoundary:
		id = c.b.AddWordBoundary(true)
	default:
		c.fail(syntax.ErrUnexpectedCharacter, c.lx.Index())
	}
	c.lx.Next()
	return id
}

// literals folds a run of literal tokens with the same case folding into a
// Char or Sequence leaf. A literal followed by a quantifier is left to
// stand alone so the quantifier applies to it only.
func (c *compiler) literals() NodeID {
	lx := c.lx
	fold := syntax.FoldFor(lx.Flags())
	var rs []rune
	for lx.Peek().IsLiteral() && syntax.FoldFor(lx.Flags()) == fold {
		if len(rs) > 0 && lx.LookAhead().IsQuantifier() {
			break
		}
		rs = append(rs, lx.Next().Rune())
		if lx.Peek().IsQuantifier() {
			break
		}
	}
	if len(rs) == 1 {
		return c.b.AddChar(rs[0], fold)
	}
	return c.b.AddSequence(rs, fold)
}

// canonUnit reads one canonical unit (a starter and its combining marks,
// or a Hangul jamo sequence) under CANON_EQ. The pattern is already in
// decomposed order.
func (c *compiler) canonUnit() NodeID {
	lx := c.lx
	fold := syntax.FoldFor(lx.Flags())
	r := lx.Next().Rune()
	rs := []rune{r}
	if canon.IsJamoL(r) && lx.Peek().IsLiteral() && canon.IsJamoV(lx.Peek().Rune()) {
		rs = append(rs, lx.Next().Rune())
		if lx.Peek().IsLiteral() && canon.IsJamoT(lx.Peek().Rune()) {
			rs = append(rs, lx.Next().Rune())
		}
		return c.b.AddCanonChar(KindHangulChar, rs, fold)
	}
	for lx.Peek().IsLiteral() && canon.CCC(lx.Peek().Rune()) != 0 && len(rs) < canon.MaxDecompositionLength {
		rs = append(rs, lx.Next().Rune())
	}
	if len(rs) == 1 {
		return c.b.AddChar(r, fold)
	}
	return c.b.AddCanonChar(KindDecomposedChar, rs, fold)
}

// group parses a parenthesised construct up to and including ')'.
func (c *compiler) group() NodeID {
	lx := c.lx
	tok := lx.Next()
	c.depth++
	if c.depth > c.opts.MaxNesting {
		panic(compileAbort{err: ErrTooComplex})
	}
	defer func() { c.depth-- }()

	var kind NodeKind
	group := 0
	switch tok {
	case syntax.TokLeftParen:
		c.groups++
		kind, group = KindJoint, c.groups
	case syntax.TokNonCapGroup, syntax.TokFlagGroup:
		kind = KindNonCapJoint
	case syntax.TokAtomicGroup:
		kind = KindAtomicJoint
	case syntax.TokPosLookAhead:
		kind = KindPosLookAhead
	case syntax.TokNegLookAhead:
		kind = KindNegLookAhead
	case syntax.TokPosLookBehind:
		kind = KindPosLookBehind
	case syntax.TokNegLookBehind:
		kind = KindNegLookBehind
	}
	groupsBefore := c.groups
	open, end := c.b.AddGroup(kind, group)
	c.alternatives(open, end)
	if lx.Peek() != syntax.TokRightParen {
		c.fail(syntax.ErrUnclosedGroup, len(c.pattern))
	}
	lx.Next()

	switch kind {
	case KindAtomicJoint, KindPosLookAhead, KindNegLookAhead:
		c.b.SetCaptureRange(open, groupsBefore+1, c.groups+1)
	case KindPosLookBehind, KindNegLookBehind:
		c.b.SetCaptureRange(open, groupsBefore+1, c.groups+1)
		c.b.SetBodyLen(open, c.minLength(open), c.maxLength(open))
	}
	return open
}

// quantify applies a following quantifier to atom. groupsBefore is the
// number of groups opened before the atom, so a possessive quantifier
// knows which captures to restore.
func (c *compiler) quantify(atom NodeID, groupsBefore int) NodeID {
	lx := c.lx
	tok := lx.Peek()
	if !tok.IsQuantifier() {
		return atom
	}
	q := lx.Quantifier()
	greed := tok.Greediness()
	lx.Next()
	if lx.Peek().IsQuantifier() {
		c.fail(syntax.ErrDanglingMeta, lx.Index())
	}

	if c.b.Kind(atom).isSingleRune() {
		kind := KindLeafQuant
		switch greed {
		case syntax.Reluctant:
			kind = KindReluctantLeafQuant
		case syntax.Possessive:
			kind = KindPossessiveLeafQuant
		}
		return c.b.AddLeafQuant(kind, atom, q)
	}

	body := atom
	switch c.b.Kind(atom) {
	case KindJoint, KindNonCapJoint:
	default:
		open, end := c.b.AddGroup(KindNonCapJoint, 0)
		c.b.AddAlternative(open, atom)
		c.b.SetNext(atom, end)
		body = open
	}
	switch greed {
	case syntax.Reluctant:
		return c.b.AddGroupQuant(body, q, true)
	case syntax.Possessive:
		open, end := c.b.AddGroup(KindAtomicJoint, 0)
		quant := c.b.AddGroupQuant(body, q, false)
		c.b.AddAlternative(open, quant)
		c.b.SetNext(quant, end)
		c.b.SetCaptureRange(open, groupsBefore+1, c.groups+1)
		return open
	}
	return c.b.AddGroupQuant(body, q, false)
}

// unboundedLength caps lookbehind lengths; longer bodies scan from the
// region start.
const unboundedLength = 1 << 16

// maxLength returns the maximum number of code points matched by the
// alternatives of the group opened by open, or -1 when unbounded.
func (c *compiler) maxLength(open NodeID) int {
	n := &c.b.nodes[open]
	longest := 0
	for _, ch := range n.children {
		l := c.pathLength(ch, n.close)
		if l < 0 {
			return -1
		}
		longest = max(longest, l)
	}
	return longest
}

// pathLength returns the maximum length of the chain from id to stop.
//
//nolint:gocyclo,cyclop // one case per node kind
func (c *compiler) pathLength(id, stop NodeID) int {
	total := 0
	for id != stop && id != InvalidNode {
		n := &c.b.nodes[id]
		switch n.kind {
		case KindChar, KindCIChar, KindUCIChar, KindClass, KindDot, KindDotAll:
			total++
			id = n.next
		case KindSequence, KindCISequence, KindDecomposedChar, KindHangulChar:
			total += len(n.runes)
			id = n.next
		case KindCanonClass:
			total += canon.MaxDecompositionLength
			id = n.next
		case KindBackRef:
			return -1
		case KindJoint, KindNonCapJoint:
			l := c.maxLength(id)
			if l < 0 {
				return -1
			}
			total += l
			id = c.b.nodes[n.close].next
		case KindAtomicJoint:
			l := c.maxLength(id)
			if l < 0 {
				return -1
			}
			total += l
			id = n.next
		case KindLeafQuant, KindReluctantLeafQuant, KindPossessiveLeafQuant:
			if n.quant.IsUnbounded() {
				return -1
			}
			total += n.quant.Max * c.pathLength(n.inner, InvalidNode)
			id = n.next
		case KindGroupQuant, KindReluctantGroupQuant:
			if n.quant.IsUnbounded() {
				return -1
			}
			l := c.maxLength(n.inner)
			if l < 0 {
				return -1
			}
			total += n.quant.Max * l
			id = n.next
		default:
			// Zero-width: anchors, lookarounds, Empty.
			id = n.next
		}
		if total > unboundedLength {
			return -1
		}
	}
	return total
}

// minLength returns the minimum number of code points matched by the
// alternatives of the group opened by open. Results above unboundedLength
// are capped, which only widens the lookbehind scan.
func (c *compiler) minLength(open NodeID) int {
	n := &c.b.nodes[open]
	shortest := -1
	for _, ch := range n.children {
		l := c.minPathLength(ch, n.close)
		if shortest < 0 || l < shortest {
			shortest = l
		}
	}
	return max(shortest, 0)
}

// minPathLength returns the minimum length of the chain from id to stop.
// Canonical units may match a single precomposed character.
//
//nolint:gocyclo,cyclop // one case per node kind
func (c *compiler) minPathLength(id, stop NodeID) int {
	total := 0
	for id != stop && id != InvalidNode && total < unboundedLength {
		n := &c.b.nodes[id]
		switch n.kind {
		case KindChar, KindCIChar, KindUCIChar, KindClass, KindDot, KindDotAll,
			KindDecomposedChar, KindHangulChar, KindCanonClass:
			total++
			id = n.next
		case KindSequence, KindCISequence:
			total += len(n.runes)
			id = n.next
		case KindJoint, KindNonCapJoint:
			total += c.minLength(id)
			id = c.b.nodes[n.close].next
		case KindAtomicJoint:
			total += c.minLength(id)
			id = n.next
		case KindLeafQuant, KindReluctantLeafQuant, KindPossessiveLeafQuant:
			total += n.quant.Min * c.minPathLength(n.inner, InvalidNode)
			id = n.next
		case KindGroupQuant, KindReluctantGroupQuant:
			total += n.quant.Min * c.minLength(n.inner)
			id = n.next
		default:
			// Zero-width: anchors, lookarounds, back references, Empty.
			id = n.next
		}
	}
	return min(total, unboundedLength)
}

// classExpr parses a bracket expression, including nested classes,
// intersections and ranges. Negation applies to the whole expression.
//
//nolint:gocyclo,cyclop // bracket grammar
func (c *compiler) classExpr() *syntax.CharClass {
	lx := c.lx
	fold := syntax.FoldFor(lx.Flags())
	lx.Next() // '['
	negate := false
	if lx.Peek() == syntax.TokCaret {
		lx.Next()
		negate = true
	}

	var result *syntax.CharClass
	operand := syntax.NewCharClass(fold)
	empty := true
	closeOperand := func() {
		if empty {
			return
		}
		if result == nil {
			result = operand
		} else {
			result.Intersect(operand)
		}
	}

	for {
		tok := lx.Peek()
		switch {
		case tok == syntax.TokEOF:
			c.fail(syntax.ErrUnclosedClass, len(c.pattern)-1)
		case tok == syntax.TokRightBracket:
			lx.Next()
			closeOperand()
			if result == nil {
				result = operand
			}
			if negate {
				result = syntax.NewCharClass(fold).AddClass(result).SetNegated(true)
			}
			return result.Freeze()
		case tok == syntax.TokLeftBracket:
			operand.AddClass(c.classExpr())
			empty = false
		case tok == syntax.TokAmpersand:
			lx.Next()
			closeOperand()
			operand = syntax.NewCharClass(fold)
			empty = true
		case tok == syntax.TokClass:
			operand.AddClass(lx.Class())
			lx.Next()
			empty = false
		case tok == syntax.TokHyphen:
			lx.Next()
			operand.AddRune('-')
			empty = false
		case tok == syntax.TokCaret:
			lx.Next()
			operand.AddRune('^')
			empty = false
		case tok.IsLiteral():
			c.classRange(operand)
			empty = false
		default:
			c.fail(syntax.ErrUnexpectedCharacter, lx.Index())
		}
	}
}

// classRange adds a literal or a lo-hi range to operand. A '-' before ']'
// or '[' is an ordinary member.
func (c *compiler) classRange(operand *syntax.CharClass) {
	lx := c.lx
	lo := lx.Next().Rune()
	if lx.Peek() != syntax.TokHyphen {
		operand.AddRune(lo)
		return
	}
	next := lx.LookAhead()
	switch {
	case next.IsLiteral():
		lx.Next() // '-'
		idx := lx.Index()
		hi := lx.Next().Rune()
		if hi < lo {
			c.fail(syntax.ErrIllegalRange, idx)
		}
		operand.AddRange(lo, hi)
	case next == syntax.TokClass:
		lx.Next()
		c.fail(syntax.ErrIllegalRange, lx.Index())
	default:
		operand.AddRune(lo)
	}
}
