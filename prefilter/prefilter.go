// Package prefilter finds candidate match positions ahead of the
// backtracking matcher.
//
// A prefilter is built from the literal prefixes of a pattern, or failing
// that from the set of bytes a match can start with. It rejects positions
// where no match can begin, so the matcher is only run where one of the
// prefixes occurs. Strategies, in order of preference:
//   - one single-byte literal → memchr
//   - one longer literal → memmem with rare-byte candidates
//   - two to eight literals of three bytes or more → Teddy nibble masks
//   - inexact literals sharing a prefix of two bytes or more → memmem
//     on that prefix
//   - two or three literals with distinct first bytes → memchr2/memchr3
//   - more literals → Aho-Corasick automaton
//   - no literals, but a small first-byte set → byte-table scan
//
// Example usage:
//
//	prog := nfa.MustCompile("hello|world", 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(prog)
//	pf := prefilter.NewBuilder(prefixes, nfa.ExtractFirstBytes(prog)).Build()
//	pos := pf.Find([]byte("say hello"), 0) // 4
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/jregex/literal"
	"github.com/coregx/jregex/nfa"
	"github.com/coregx/jregex/simd"
)

// Prefilter proposes positions where a match may start.
type Prefilter interface {
	// Find returns the first candidate position at or after start, or -1.
	// A candidate does not guarantee a match; the caller verifies it
	// unless IsComplete is true.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is always a whole match of
	// the pattern, so that only the match bounds remain to be computed.
	IsComplete() bool

	// LiteralLen returns the match length when IsComplete is true and all
	// literals have the same length, otherwise 0.
	LiteralLen() int

	// HeapBytes returns the heap memory held by the prefilter.
	HeapBytes() int
}

// Config controls strategy selection.
type Config struct {
	// MinLiteralLen is the shortest literal worth a multi-literal
	// prefilter. Shorter literal sets fall back to the first-byte table.
	// Default: 1.
	MinLiteralLen int

	// MinAhoCorasickLiterals is the literal count from which an
	// Aho-Corasick automaton is built instead of a first-byte scan.
	// Default: 4.
	MinAhoCorasickLiterals int
}

// DefaultConfig returns the default selection thresholds.
func DefaultConfig() Config {
	return Config{
		MinLiteralLen:          1,
		MinAhoCorasickLiterals: 4,
	}
}

// Builder constructs the best prefilter for a pattern.
type Builder struct {
	prefixes *literal.Seq
	first    *nfa.FirstByteSet
	config   Config
}

// NewBuilder returns a builder over the literal prefixes of a pattern and
// its first-byte set. Either may be nil.
func NewBuilder(prefixes *literal.Seq, first *nfa.FirstByteSet) *Builder {
	return &Builder{prefixes: prefixes, first: first, config: DefaultConfig()}
}

// WithConfig sets the selection thresholds.
func (b *Builder) WithConfig(c Config) *Builder {
	b.config = c
	return b
}

// Build returns the selected prefilter, or nil when positions cannot be
// rejected cheaply.
func (b *Builder) Build() Prefilter {
	if pf := b.fromLiterals(); pf != nil {
		return pf
	}
	if b.first != nil && b.first.IsUseful() {
		return newTablePrefilter(b.first.Table())
	}
	return nil
}

func (b *Builder) fromLiterals() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() || seq.MinLen() < b.config.MinLiteralLen {
		return nil
	}
	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}
	if pf := newTeddy(seq); pf != nil {
		return pf
	}
	if !seq.AllComplete() {
		if lcp := seq.LongestCommonPrefix(); len(lcp) >= 2 {
			return newMemmemPrefilter(lcp, false)
		}
	}
	if seq.Len() >= b.config.MinAhoCorasickLiterals {
		return newAhoCorasickPrefilter(seq)
	}
	if firsts, ok := distinctFirstBytes(seq); ok {
		return newByteSetPrefilter(firsts)
	}
	return newAhoCorasickPrefilter(seq)
}

// distinctFirstBytes returns the first bytes of the literals when there
// are at most three different ones.
func distinctFirstBytes(seq *literal.Seq) ([]byte, bool) {
	var out []byte
	for _, l := range seq.Literals() {
		b := l.Bytes[0]
		if bytes.IndexByte(out, b) >= 0 {
			continue
		}
		if len(out) == 3 {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}

// uniformLen returns the common length of complete literals, or 0.
func uniformLen(seq *literal.Seq) int {
	if !seq.AllComplete() {
		return 0
	}
	n := seq.Get(0).Len()
	for _, l := range seq.Literals() {
		if l.Len() != n {
			return 0
		}
	}
	return n
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) HeapBytes() int { return 0 }

// memmemPrefilter searches for a single substring. The rare-byte selection
// is computed once in the finder.
type memmemPrefilter struct {
	finder   *simd.Finder
	complete bool
}

// newMemmemPrefilter copies needle.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	needleCopy := make([]byte, len(needle))
	copy(needleCopy, needle)
	return &memmemPrefilter{finder: simd.NewFinder(needleCopy), complete: complete}
}

// Find implements Prefilter.Find using simd.Finder.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := p.finder.Find(haystack[start:])
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.finder.Needle())
	}
	return 0
}

func (p *memmemPrefilter) HeapBytes() int { return len(p.finder.Needle()) }

// byteSetPrefilter searches for any of two or three first bytes. It never
// confirms a whole literal, so it is never complete.
type byteSetPrefilter struct {
	bytes []byte
}

func newByteSetPrefilter(b []byte) Prefilter {
	if len(b) == 1 {
		return newMemchrPrefilter(b[0], false)
	}
	return &byteSetPrefilter{bytes: b}
}

func (p *byteSetPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	var idx int
	if len(p.bytes) == 2 {
		idx = simd.Memchr2(haystack[start:], p.bytes[0], p.bytes[1])
	} else {
		idx = simd.Memchr3(haystack[start:], p.bytes[0], p.bytes[1], p.bytes[2])
	}
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *byteSetPrefilter) IsComplete() bool { return false }
func (p *byteSetPrefilter) LiteralLen() int  { return 0 }
func (p *byteSetPrefilter) HeapBytes() int   { return len(p.bytes) }

// tablePrefilter scans for any byte of a first-byte table.
type tablePrefilter struct {
	table *[256]bool
}

func newTablePrefilter(t *[256]bool) Prefilter {
	table := *t
	return &tablePrefilter{table: &table}
}

func (p *tablePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.MemchrInTable(haystack[start:], p.table)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *tablePrefilter) IsComplete() bool { return false }
func (p *tablePrefilter) LiteralLen() int  { return 0 }
func (p *tablePrefilter) HeapBytes() int   { return 256 }

// ahoCorasickPrefilter searches for many literals at once. After
// minimization no literal is a prefix of another, so at most one literal
// occurs at any position and the leftmost occurrence is the candidate.
type ahoCorasickPrefilter struct {
	auto       *ahocorasick.Automaton
	complete   bool
	literalLen int
	heapBytes  int
}

// newAhoCorasickPrefilter returns nil if the automaton cannot be built.
func newAhoCorasickPrefilter(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	heap := 0
	for _, l := range seq.Literals() {
		builder.AddPattern(l.Bytes)
		heap += len(l.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{
		auto:       auto,
		complete:   seq.AllComplete(),
		literalLen: uniformLen(seq),
		heapBytes:  heap,
	}
}

// Find implements Prefilter.Find using the automaton.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return p.complete }
func (p *ahoCorasickPrefilter) LiteralLen() int  { return p.literalLen }
func (p *ahoCorasickPrefilter) HeapBytes() int   { return p.heapBytes }
