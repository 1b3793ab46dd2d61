// Package jregex provides a backtracking regular-expression engine with the
// syntax and matching semantics of java.util.regex.
//
// Patterns support Perl-style constructs plus possessive quantifiers,
// atomic groups, lookbehind, back-references, class intersection
// ([a-z&&[^aeiou]]), \Q...\E quoting, inline flags and canonical
// equivalence. Input is UTF-8; all offsets are byte offsets.
//
// Basic usage:
//
//	p := jregex.MustCompile(`(\w+)@(\w+)\.com`)
//	m := p.Matcher("mail alice@example.com")
//	if m.Find() {
//	    user, _ := m.Group(1)
//	    fmt.Println(user) // "alice"
//	}
//
// A Pattern is immutable and may be shared between goroutines. A Matcher
// holds the mutable state of one search and must not be used by two
// goroutines at once.
//
// The engine backtracks: adversarial patterns such as (a*)*b can take time
// exponential in the input length, and deeply nested backtracking uses
// stack proportional to its depth. Callers matching untrusted patterns
// should bound the input size.
package jregex

import (
	"github.com/coregx/jregex/meta"
	"github.com/coregx/jregex/syntax"
)

// Flags is a set of compilation flags. The bit values match
// java.util.regex.Pattern.
type Flags = syntax.Flags

// Compilation flags.
const (
	UnixLines       = syntax.UnixLines
	CaseInsensitive = syntax.CaseInsensitive
	Comments        = syntax.Comments
	Multiline       = syntax.Multiline
	Literal         = syntax.Literal
	DotAll          = syntax.DotAll
	UnicodeCase     = syntax.UnicodeCase
	CanonEq         = syntax.CanonEq
)

// Pattern is a compiled regular expression.
//
// Example:
//
//	p := jregex.MustCompile(`a+`)
//	fmt.Println(p.Matcher("aaa").Matches()) // true
type Pattern struct {
	engine  *meta.Engine
	pattern string
	flags   Flags
}

// Compile compiles a pattern with no flags.
//
// Malformed patterns yield a *PatternSyntaxError carrying the offending
// index.
//
// Example:
//
//	p, err := jregex.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Pattern, error) {
	return CompileWithConfig(pattern, 0, meta.DefaultConfig())
}

// CompileFlags compiles a pattern with the given flags.
//
// Example:
//
//	p, err := jregex.CompileFlags("^error", jregex.CaseInsensitive|jregex.Multiline)
func CompileFlags(pattern string, flags Flags) (*Pattern, error) {
	return CompileWithConfig(pattern, flags, meta.DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom limits and prefilter
// settings.
//
// Example:
//
//	config := jregex.DefaultConfig()
//	config.EnablePrefilter = false
//	p, err := jregex.CompileWithConfig("(a|b|c)*", 0, config)
func CompileWithConfig(pattern string, flags Flags, config meta.Config) (*Pattern, error) {
	engine, err := meta.CompileWithConfig(pattern, flags, config)
	if err != nil {
		return nil, err
	}
	return &Pattern{engine: engine, pattern: pattern, flags: flags}, nil
}

// MustCompile is like Compile but panics if the pattern is malformed.
//
// Example:
//
//	var word = jregex.MustCompile(`\w+`)
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// Matches compiles regex and reports whether it matches the whole of
// input.
func Matches(regex, input string) (bool, error) {
	p, err := Compile(regex)
	if err != nil {
		return false, err
	}
	return p.Matcher(input).Matches(), nil
}

// Quote returns a pattern that matches s literally.
//
// Example:
//
//	jregex.Quote("1+1=2") // `\Q1+1=2\E`
func Quote(s string) string {
	return syntax.Quote(s)
}

// Matcher returns a matcher over input.
func (p *Pattern) Matcher(input string) *Matcher {
	return newMatcher(p, []byte(input))
}

// MatcherBytes returns a matcher over input. The slice is not copied and
// must not change while the matcher uses it.
func (p *Pattern) MatcherBytes(input []byte) *Matcher {
	return newMatcher(p, input)
}

// MatchString reports whether s contains a match of the pattern. It is
// safe for concurrent use.
//
// Example:
//
//	jregex.MustCompile(`\d+`).MatchString("abc 123") // true
func (p *Pattern) MatchString(s string) bool {
	return p.engine.IsMatch([]byte(s))
}

// Match reports whether b contains a match of the pattern. It is safe for
// concurrent use.
func (p *Pattern) Match(b []byte) bool {
	return p.engine.IsMatch(b)
}

// FindStringIndex returns the bounds of the leftmost match in s, or nil.
// It is safe for concurrent use.
func (p *Pattern) FindStringIndex(s string) []int {
	return p.engine.FindIndex([]byte(s))
}

// ReplaceAllString replaces every match in input with replacement, in
// which $n stands for group n and \x for a literal x.
//
// Example:
//
//	p := jregex.MustCompile(`(\d+)`)
//	s, _ := p.ReplaceAllString("a12b34", "[$1]") // "a[12]b[34]"
func (p *Pattern) ReplaceAllString(input, replacement string) (string, error) {
	return p.Matcher(input).ReplaceAll(replacement)
}

// ReplaceFirstString replaces the first match in input with replacement.
func (p *Pattern) ReplaceFirstString(input, replacement string) (string, error) {
	return p.Matcher(input).ReplaceFirst(replacement)
}

// GroupCount returns the number of capturing groups, not counting the
// whole match.
func (p *Pattern) GroupCount() int {
	return p.engine.GroupCount()
}

// Flags returns the flags the pattern was compiled with. Inline flags in
// the pattern are not included.
func (p *Pattern) Flags() Flags {
	return p.flags
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.pattern
}

// Stats returns the search statistics of the pattern.
func (p *Pattern) Stats() meta.Stats {
	return p.engine.Stats()
}

// ResetStats resets the search statistics.
func (p *Pattern) ResetStats() {
	p.engine.ResetStats()
}
