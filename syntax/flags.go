// Package syntax implements the front end of the regex engine: flags, the
// pattern lexer, quantifiers, character classes and syntax errors.
//
// The dialect is the one of java.util.regex: Perl-style constructs plus
// possessive quantifiers, atomic groups, lookbehind, class intersection
// ([a-z&&[^aeiou]]), \Q...\E quoting and canonical-equivalence matching.
package syntax

import "strings"

// Flags is a bit set of compilation flags.
// The bit values match java.util.regex.Pattern.
type Flags uint32

const (
	// UnixLines makes \n the only line terminator for ., ^ and $.
	UnixLines Flags = 1 << iota

	// CaseInsensitive enables ASCII case-insensitive matching.
	CaseInsensitive

	// Comments permits whitespace and #-comments in the pattern.
	Comments

	// Multiline makes ^ and $ match at line terminators.
	Multiline

	// Literal treats the whole pattern as literal text.
	Literal

	// DotAll makes . match line terminators.
	DotAll

	// UnicodeCase extends CaseInsensitive to full Unicode simple folding.
	UnicodeCase

	// CanonEq matches canonically equivalent character sequences.
	CanonEq
)

// AllFlags is the union of every valid flag.
const AllFlags = UnixLines | CaseInsensitive | Comments | Multiline | Literal | DotAll | UnicodeCase | CanonEq

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String returns the inline-flag form of f, e.g. "imsx".
func (f Flags) String() string {
	var b strings.Builder
	for _, fl := range inlineFlags {
		if f.Has(fl.flag) {
			b.WriteByte(fl.ch)
		}
	}
	if f.Has(Literal) {
		b.WriteString("[literal]")
	}
	if f.Has(CanonEq) {
		b.WriteString("[canon]")
	}
	return b.String()
}

var inlineFlags = []struct {
	ch   byte
	flag Flags
}{
	{'i', CaseInsensitive},
	{'d', UnixLines},
	{'m', Multiline},
	{'s', DotAll},
	{'u', UnicodeCase},
	{'x', Comments},
}

// inlineFlag maps an inline flag letter to its bit.
func inlineFlag(r rune) (Flags, bool) {
	for _, fl := range inlineFlags {
		if rune(fl.ch) == r {
			return fl.flag, true
		}
	}
	return 0, false
}
