package literal

import (
	"unicode/utf8"

	"github.com/coregx/jregex/nfa"
	"github.com/coregx/jregex/syntax"
)

// ExtractorConfig bounds literal extraction.
type ExtractorConfig struct {
	// MaxLiterals limits the number of alternative literals. Alternations
	// and class expansions that would exceed it end the extraction.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the number of members of a class that is
	// expanded into single-character literals. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor walks a compiled program and collects the literal prefixes of
// its matches.
type Extractor struct {
	config ExtractorConfig
	prog   *nfa.Program
}

// New returns an Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// maxDepth bounds the recursion through nested groups.
const maxDepth = 32

// ExtractPrefixes returns literals such that every match of prog begins
// with one of them. Zero-width assertions are looked through. An empty Seq
// means no useful prefix is known, for example when some alternative can
// begin with an arbitrary character or match the empty string.
//
//	"hello"           → ["hello"] (complete)
//	"(foo|bar)baz"    → ["foobaz", "barbaz"] (complete)
//	"[ab]x+"          → ["ax", "bx"]
//	"(?i)ok"          → ["ok", "oK", "Ok", "OK"] (complete)
//	".*foo", "a?b"    → []
func (e *Extractor) ExtractPrefixes(prog *nfa.Program) *Seq {
	e.prog = prog
	defer func() { e.prog = nil }()

	root := prog.Node(prog.Start())
	lits, ok := e.group(root, 0)
	if !ok {
		return NewSeq()
	}
	seq := NewSeq()
	for _, l := range lits {
		if len(l.Bytes) == 0 {
			return NewSeq()
		}
		seq.literals = append(seq.literals, l)
	}
	seq.Minimize()
	return seq
}

// group returns the literals of every alternative of a group. Literals that
// run to the closing node are complete.
func (e *Extractor) group(n *nfa.Node, depth int) ([]Literal, bool) {
	if depth > maxDepth {
		return nil, false
	}
	var out []Literal
	for _, c := range n.Children() {
		lits, ok := e.chain(c, n.Close(), []Literal{{Complete: true}}, depth+1)
		if !ok {
			return nil, false
		}
		out = append(out, lits...)
		if len(out) > e.config.MaxLiterals {
			return nil, false
		}
	}
	return out, true
}

// chain extends the complete literals of acc along the nodes from id to
// stop. Literals that can no longer grow are marked incomplete and kept.
// Assertions are stepped over, but a literal that ran through one is no
// longer the whole match.
//
//nolint:gocyclo,cyclop // one case per node kind
func (e *Extractor) chain(id, stop nfa.NodeID, acc []Literal, depth int) (out []Literal, ok bool) {
	exact := true
	defer func() {
		if !exact {
			finish(out)
		}
	}()
	for id != stop && id != nfa.InvalidNode && anyComplete(acc) {
		n := e.prog.Node(id)
		switch n.Kind() {
		case nfa.KindChar, nfa.KindCIChar, nfa.KindSequence, nfa.KindCISequence:
			variants, ok := e.literalVariants(n)
			if !ok {
				return finish(acc), true
			}
			acc = e.cross(acc, variants, true)
			id = n.Next()

		case nfa.KindClass:
			members, ok := e.classMembers(n.Class())
			if !ok {
				return finish(acc), true
			}
			acc = e.cross(acc, members, true)
			id = n.Next()

		case nfa.KindLeafQuant, nfa.KindReluctantLeafQuant, nfa.KindPossessiveLeafQuant,
			nfa.KindUnifiedQuant:
			if n.Quant().Min == 0 {
				return finish(acc), true
			}
			leaf := e.prog.Node(n.Inner())
			var variants []Literal
			ok := false
			switch leaf.Kind() {
			case nfa.KindClass:
				variants, ok = e.classMembers(leaf.Class())
			case nfa.KindChar, nfa.KindCIChar:
				variants, ok = e.literalVariants(leaf)
			}
			if !ok {
				return finish(acc), true
			}
			// One repetition is certain; what follows is not.
			return finish(e.cross(acc, variants, false)), true

		case nfa.KindJoint, nfa.KindNonCapJoint, nfa.KindAtomicJoint:
			sub, ok := e.group(n, depth)
			if !ok {
				return finish(acc), true
			}
			acc = e.cross(acc, sub, true)
			if n.Kind() == nfa.KindAtomicJoint {
				id = n.Next()
			} else {
				id = e.prog.Node(n.Close()).Next()
			}

		case nfa.KindSOL, nfa.KindMultiLineSOL, nfa.KindStartOfInput, nfa.KindPreviousMatch,
			nfa.KindWordBoundary, nfa.KindEmpty, nfa.KindFSet, nfa.KindNonCapFSet,
			nfa.KindPosLookAhead, nfa.KindNegLookAhead, nfa.KindPosLookBehind, nfa.KindNegLookBehind:
			if !isTransparent(n.Kind()) {
				exact = false
			}
			id = n.Next()

		case nfa.KindFinal:
			return acc, true

		default:
			return finish(acc), true
		}
		if e.tooMany(acc) {
			return nil, false
		}
	}
	if id == nfa.InvalidNode {
		return finish(acc), true
	}
	return acc, true
}

// isTransparent reports whether a zero-width node never rejects a
// position, so literals running through it stay complete.
func isTransparent(k nfa.NodeKind) bool {
	switch k {
	case nfa.KindEmpty, nfa.KindFSet, nfa.KindNonCapFSet:
		return true
	}
	return false
}

func (e *Extractor) tooMany(acc []Literal) bool {
	return len(acc) > e.config.MaxLiterals
}

// literalVariants returns the spellings of a Char or Sequence leaf. ASCII
// case-insensitive leaves expand to every case combination; Unicode
// folding is not expanded.
func (e *Extractor) literalVariants(n *nfa.Node) ([]Literal, bool) {
	var runes []rune
	switch n.Kind() {
	case nfa.KindChar, nfa.KindCIChar:
		runes = []rune{n.Rune()}
	default:
		runes = n.Runes()
	}
	out := []Literal{{Complete: true}}
	for _, r := range runes {
		forms := []rune{r}
		if n.Fold() == syntax.FoldASCII {
			if f := swapASCIICase(r); f != r {
				forms = append(forms, f)
			}
		} else if n.Fold() == syntax.FoldUnicode {
			return nil, false
		}
		next := make([]Literal, 0, len(out)*len(forms))
		for _, l := range out {
			for _, f := range forms {
				next = append(next, NewLiteral(utf8.AppendRune(cloneBytes(l.Bytes), f), true))
			}
		}
		if len(next) > e.config.MaxLiterals {
			return nil, false
		}
		out = next
	}
	return out, true
}

// classMembers expands a small class into single-character literals.
func (e *Extractor) classMembers(c *syntax.CharClass) ([]Literal, bool) {
	if c.IsWide() {
		return nil, false
	}
	var out []Literal
	for r := rune(0); r < 256; r++ {
		if !c.Contains(r) {
			continue
		}
		if len(out) == e.config.MaxClassSize {
			return nil, false
		}
		out = append(out, NewLiteral(utf8.AppendRune(nil, r), true))
	}
	return out, len(out) > 0
}

// cross appends every suffix to every complete literal of acc. Incomplete
// literals are carried unchanged. Literals reaching MaxLiteralLen are cut
// and marked incomplete.
func (e *Extractor) cross(acc, suffixes []Literal, complete bool) []Literal {
	out := make([]Literal, 0, len(acc)*len(suffixes))
	for _, a := range acc {
		if !a.Complete {
			out = append(out, a)
			continue
		}
		for _, s := range suffixes {
			b := append(cloneBytes(a.Bytes), s.Bytes...)
			c := complete && s.Complete
			if len(b) > e.config.MaxLiteralLen {
				b, c = b[:e.config.MaxLiteralLen], false
			}
			out = append(out, NewLiteral(b, c))
		}
	}
	return out
}

func finish(acc []Literal) []Literal {
	for i := range acc {
		acc[i].Complete = false
	}
	return acc
}

func anyComplete(acc []Literal) bool {
	for _, l := range acc {
		if l.Complete {
			return true
		}
	}
	return false
}

func cloneBytes(b []byte) []byte {
	return append(make([]byte, 0, len(b)+utf8.UTFMax), b...)
}

func swapASCIICase(r rune) rune {
	switch {
	case 'a' <= r && r <= 'z':
		return r - 'a' + 'A'
	case 'A' <= r && r <= 'Z':
		return r - 'A' + 'a'
	}
	return r
}
