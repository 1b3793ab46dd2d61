package syntax

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
)

// FoldMode selects case folding for literal class members.
type FoldMode uint8

const (
	// FoldNone compares code points exactly.
	FoldNone FoldMode = iota
	// FoldASCII folds only A-Z/a-z (CaseInsensitive without UnicodeCase).
	FoldASCII
	// FoldUnicode applies Unicode simple case folding.
	FoldUnicode
)

// FoldFor returns the fold mode implied by flags.
func FoldFor(f Flags) FoldMode {
	switch {
	case !f.Has(CaseInsensitive):
		return FoldNone
	case f.Has(UnicodeCase):
		return FoldUnicode
	default:
		return FoldASCII
	}
}

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// CharClass is a set of code points built from ranges, Unicode tables,
// predicates and nested classes. Members are unioned, the union is then
// intersected with every && operand, and finally negated if requested.
//
// A class must be frozen before matching; Freeze precomputes a Latin-1
// bitmap so the common case is a single bit test.
type CharClass struct {
	ranges  []Range
	tables  []*unicode.RangeTable
	notTabs []*unicode.RangeTable
	preds   []func(rune) bool
	subs    []*CharClass
	ands    []*CharClass
	negated bool
	fold    FoldMode

	latin  [4]uint64
	wide   bool
	frozen bool
	name   string
}

// NewCharClass returns an empty class with the given fold mode.
func NewCharClass(fold FoldMode) *CharClass {
	return &CharClass{fold: fold}
}

// AddRune adds a single code point.
func (c *CharClass) AddRune(r rune) *CharClass {
	return c.AddRange(r, r)
}

// AddRange adds lo..hi. The caller guarantees lo <= hi.
func (c *CharClass) AddRange(lo, hi rune) *CharClass {
	c.ranges = append(c.ranges, Range{Lo: lo, Hi: hi})
	c.frozen = false
	return c
}

// AddTable adds every code point of t (or every code point not in t).
func (c *CharClass) AddTable(t *unicode.RangeTable, negate bool) *CharClass {
	if negate {
		c.notTabs = append(c.notTabs, t)
	} else {
		c.tables = append(c.tables, t)
	}
	c.frozen = false
	return c
}

// AddPredicate adds every code point for which f is true.
func (c *CharClass) AddPredicate(f func(rune) bool) *CharClass {
	c.preds = append(c.preds, f)
	c.frozen = false
	return c
}

// AddClass unions a nested class into c.
func (c *CharClass) AddClass(o *CharClass) *CharClass {
	c.subs = append(c.subs, o)
	c.frozen = false
	return c
}

// Intersect restricts c to the code points also in o (the && operator).
func (c *CharClass) Intersect(o *CharClass) *CharClass {
	c.ands = append(c.ands, o)
	c.frozen = false
	return c
}

// SetNegated complements the class.
func (c *CharClass) SetNegated(neg bool) *CharClass {
	c.negated = neg
	c.frozen = false
	return c
}

// Fold returns the fold mode of literal members.
func (c *CharClass) Fold() FoldMode {
	return c.fold
}

// Named sets a display name used by String.
func (c *CharClass) Named(name string) *CharClass {
	c.name = name
	return c
}

// Freeze normalises ranges and precomputes the Latin-1 bitmap.
// It is idempotent and returns c.
func (c *CharClass) Freeze() *CharClass {
	if c.frozen {
		return c
	}
	for _, s := range c.subs {
		s.Freeze()
	}
	for _, a := range c.ands {
		a.Freeze()
	}
	c.ranges = mergeRanges(c.ranges)
	c.frozen = true
	c.latin = [4]uint64{}
	for r := rune(0); r < 256; r++ {
		if c.containsSlow(r) {
			c.latin[r>>6] |= 1 << (uint(r) & 63)
		}
	}
	c.wide = c.computeWide()
	return c
}

// mergeRanges sorts and coalesces overlapping or adjacent ranges.
// Ranges are packed into uint64 keys so a plain sort orders them by Lo.
func mergeRanges(rs []Range) []Range {
	if len(rs) < 2 {
		return rs
	}
	keys := make([]uint64, len(rs))
	for i, r := range rs {
		keys[i] = uint64(r.Lo)<<32 | uint64(uint32(r.Hi))
	}
	slices.Sort(keys)
	out := rs[:0]
	for _, k := range keys {
		r := Range{Lo: rune(k >> 32), Hi: rune(uint32(k))}
		if n := len(out); n > 0 && r.Lo <= out[n-1].Hi+1 {
			if r.Hi > out[n-1].Hi {
				out[n-1].Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// computeWide reports whether the class may contain a code point >= 256.
func (c *CharClass) computeWide() bool {
	if c.negated {
		return true
	}
	union := len(c.tables) > 0 || len(c.notTabs) > 0 || len(c.preds) > 0
	if !union && c.fold == FoldUnicode {
		// s and k fold to ſ (U+017F) and K (U+212A).
		union = len(c.ranges) > 0
	}
	for _, r := range c.ranges {
		if r.Hi >= 256 {
			union = true
		}
	}
	for _, s := range c.subs {
		if s.wide {
			union = true
		}
	}
	if !union {
		return false
	}
	for _, a := range c.ands {
		if !a.wide {
			return false
		}
	}
	return true
}

// Contains reports whether r is in the class.
func (c *CharClass) Contains(r rune) bool {
	if c.frozen && r >= 0 && r < 256 {
		return c.latin[r>>6]&(1<<(uint(r)&63)) != 0
	}
	if r >= 256 && c.frozen && !c.wide {
		return false
	}
	return c.containsSlow(r)
}

func (c *CharClass) containsSlow(r rune) bool {
	in := c.unionHas(r)
	if in {
		for _, a := range c.ands {
			if !a.Contains(r) {
				in = false
				break
			}
		}
	}
	return in != c.negated
}

func (c *CharClass) unionHas(r rune) bool {
	if c.rangeHas(r) {
		return true
	}
	switch c.fold {
	case FoldASCII:
		if f := asciiSwapCase(r); f != r && c.rangeHas(f) {
			return true
		}
	case FoldUnicode:
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if c.rangeHas(f) {
				return true
			}
		}
	}
	for _, t := range c.tables {
		if unicode.Is(t, r) {
			return true
		}
	}
	for _, t := range c.notTabs {
		if !unicode.Is(t, r) {
			return true
		}
	}
	for _, p := range c.preds {
		if p(r) {
			return true
		}
	}
	for _, s := range c.subs {
		if s.Contains(r) {
			return true
		}
	}
	return false
}

func (c *CharClass) rangeHas(r rune) bool {
	rs := c.ranges
	if !c.frozen {
		for _, rg := range rs {
			if rg.Lo <= r && r <= rg.Hi {
				return true
			}
		}
		return false
	}
	lo, hi := 0, len(rs)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		switch {
		case r < rs[m].Lo:
			hi = m
		case r > rs[m].Hi:
			lo = m + 1
		default:
			return true
		}
	}
	return false
}

func asciiSwapCase(r rune) rune {
	switch {
	case 'a' <= r && r <= 'z':
		return r - 'a' + 'A'
	case 'A' <= r && r <= 'Z':
		return r - 'A' + 'a'
	}
	return r
}

// Intersects conservatively reports whether c and o share a code point.
// A false result is exact; true may be an over-approximation when both
// classes reach beyond Latin-1.
func (c *CharClass) Intersects(o *CharClass) bool {
	c.Freeze()
	o.Freeze()
	for i := range c.latin {
		if c.latin[i]&o.latin[i] != 0 {
			return true
		}
	}
	return c.wide && o.wide
}

// IsWide reports whether the class may contain code points >= 256.
func (c *CharClass) IsWide() bool {
	c.Freeze()
	return c.wide
}

// ByteTable returns a byte membership table for classes whose members are
// all ASCII. ok is false when a UTF-8 lead or continuation byte could be
// part of a member.
func (c *CharClass) ByteTable() (table *[256]bool, ok bool) {
	c.Freeze()
	if c.wide || c.latin[2] != 0 || c.latin[3] != 0 {
		return nil, false
	}
	t := new([256]bool)
	for b := 0; b < 128; b++ {
		t[b] = c.latin[b>>6]&(1<<(uint(b)&63)) != 0
	}
	return t, true
}

// SingleRune returns the only member of the class, if it has exactly one
// and no folding or tables are involved.
func (c *CharClass) SingleRune() (rune, bool) {
	c.Freeze()
	if c.negated || c.fold != FoldNone || len(c.tables)+len(c.notTabs)+len(c.preds)+len(c.subs)+len(c.ands) > 0 {
		return 0, false
	}
	if len(c.ranges) == 1 && c.ranges[0].Lo == c.ranges[0].Hi {
		return c.ranges[0].Lo, true
	}
	return 0, false
}

// String returns a debugging form of the class.
func (c *CharClass) String() string {
	if c.name != "" {
		if c.negated {
			return "^" + c.name
		}
		return c.name
	}
	var b strings.Builder
	b.WriteByte('[')
	if c.negated {
		b.WriteByte('^')
	}
	for _, r := range c.ranges {
		writeClassRune(&b, r.Lo)
		if r.Hi != r.Lo {
			b.WriteByte('-')
			writeClassRune(&b, r.Hi)
		}
	}
	for range c.tables {
		b.WriteString(`\p{..}`)
	}
	for range c.notTabs {
		b.WriteString(`\P{..}`)
	}
	for range c.preds {
		b.WriteString(`\p{java}`)
	}
	for _, s := range c.subs {
		b.WriteString(s.String())
	}
	for _, a := range c.ands {
		b.WriteString("&&")
		b.WriteString(a.String())
	}
	b.WriteByte(']')
	return b.String()
}

func writeClassRune(b *strings.Builder, r rune) {
	if r < 0x20 || r > 0x7e || strings.ContainsRune(`\[]^-&`, r) {
		b.WriteString(`\x{` + strconv.FormatInt(int64(r), 16) + `}`)
		return
	}
	b.WriteRune(r)
}
