package jregex

import (
	"unicode/utf8"

	"github.com/coregx/jregex/meta"
	"github.com/coregx/jregex/nfa"
)

// Matcher runs a Pattern over one input and remembers the last match.
//
// Find continues after the previous match, so a loop over Find visits
// every match:
//
//	m := jregex.MustCompile(`\d+`).Matcher("a1b22c333")
//	for m.Find() {
//	    s, _ := m.Group(0)
//	    fmt.Println(s) // 1, 22, 333
//	}
//
// A region restricts matching to part of the input. Anchoring bounds make
// ^ and $ match at the region edges; transparent bounds let lookarounds
// and \b see past them.
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	pattern *Pattern
	search  *meta.Searcher
	input   []byte

	// first and last bound the last match; first is -1 when the last
	// attempt failed or none was made.
	first, last int
	appendPos   int

	// The last replacement string and its parsed form.
	replSrc  string
	replTmpl *template
}

func newMatcher(p *Pattern, input []byte) *Matcher {
	m := &Matcher{pattern: p, search: p.engine.NewSearcher()}
	m.ResetInput(input)
	return m
}

// Pattern returns the pattern the matcher runs.
func (m *Matcher) Pattern() *Pattern { return m.pattern }

func (m *Matcher) state() *nfa.State { return m.search.State() }

// Reset discards the match state and the region. Bounds settings are
// kept.
func (m *Matcher) Reset() *Matcher {
	m.search.Reset(m.input)
	m.first, m.last = -1, 0
	m.appendPos = 0
	return m
}

// ResetInput binds new input and resets the matcher.
func (m *Matcher) ResetInput(input []byte) *Matcher {
	m.input = input
	return m.Reset()
}

// UsePattern switches the matcher to pattern p. The input, region, bounds
// settings and position are kept, including the bounds of the last match
// that Find steps over when it was empty. Group information is lost.
func (m *Matcher) UsePattern(p *Pattern) *Matcher {
	old := m.state()
	left, right := old.Left(), old.Right()
	anchoring, transparent := old.AnchoringBounds(), old.TransparentBounds()

	m.pattern = p
	m.search = p.engine.NewSearcher()
	m.search.Reset(m.input)
	st := m.state()
	st.SetAnchoringBounds(anchoring)
	st.SetTransparentBounds(transparent)
	st.SetRegion(left, right)
	return m
}

// Matches reports whether the whole region matches the pattern.
func (m *Matcher) Matches() bool {
	return m.record(m.search.MatchAt(m.state().Left(), nfa.ModeMatch))
}

// LookingAt reports whether a prefix of the region matches the pattern.
func (m *Matcher) LookingAt() bool {
	return m.record(m.search.MatchAt(m.state().Left(), nfa.ModeFind))
}

// Find searches for the next match. It starts at the end of the previous
// match, one character further if that match was empty, or at the region
// start if there was none.
func (m *Matcher) Find() bool {
	st := m.state()
	next := m.last
	if next == m.first {
		// An empty match: step over one character to make progress.
		if next < len(m.input) {
			_, w := utf8.DecodeRune(m.input[next:])
			next += w
		} else {
			next++
		}
	}
	if next < st.Left() {
		next = st.Left()
	}
	if next > st.Right() {
		st.Clear()
		m.first = -1
		return false
	}
	return m.record(m.search.Find(next))
}

// FindFrom resets the matcher, including its region, and searches for a
// match starting at or after start.
func (m *Matcher) FindFrom(start int) (bool, error) {
	if start < 0 || start > len(m.input) {
		return false, ErrIndexOutOfBounds
	}
	m.Reset()
	return m.record(m.search.Find(start)), nil
}

func (m *Matcher) record(ok bool) bool {
	st := m.state()
	if ok {
		m.first, m.last = st.First(), st.Last()
	} else {
		m.first = -1
	}
	return ok
}

// GroupCount returns the number of capturing groups of the pattern.
func (m *Matcher) GroupCount() int {
	return m.pattern.GroupCount()
}

// Start returns the start offset of group n in the last match. It returns
// -1 if the group did not participate, n is out of range or there is no
// match.
func (m *Matcher) Start(n int) int {
	if m.first < 0 || n < 0 || n > m.GroupCount() {
		return -1
	}
	return m.state().Start(n)
}

// End returns the end offset of group n in the last match, with the same
// -1 cases as Start.
func (m *Matcher) End(n int) int {
	if m.first < 0 || n < 0 || n > m.GroupCount() {
		return -1
	}
	return m.state().End(n)
}

// Group returns the text of group n in the last match. ok is false if the
// group did not participate, n is out of range or there is no match.
func (m *Matcher) Group(n int) (s string, ok bool) {
	start, end := m.Start(n), m.End(n)
	if start < 0 || end < 0 {
		return "", false
	}
	return string(m.input[start:end]), true
}

// ToMatchResult returns a snapshot of the last match that is unaffected
// by later operations on the matcher.
func (m *Matcher) ToMatchResult() *MatchResult {
	r := &MatchResult{input: m.input, groupCount: m.GroupCount()}
	if m.first >= 0 && m.state().Start(0) >= 0 {
		r.groups = append([]int(nil), m.state().Groups()...)
	}
	return r
}

// Region restricts matching to input[start:end] and resets the matcher.
func (m *Matcher) Region(start, end int) (*Matcher, error) {
	if start < 0 || start > end || end > len(m.input) {
		return m, ErrIndexOutOfBounds
	}
	m.Reset()
	m.state().SetRegion(start, end)
	return m, nil
}

// RegionStart returns the start of the region.
func (m *Matcher) RegionStart() int { return m.state().Left() }

// RegionEnd returns the end of the region.
func (m *Matcher) RegionEnd() int { return m.state().Right() }

// UseAnchoringBounds sets whether ^, $, \A and \z match at the region
// bounds. The default is true.
func (m *Matcher) UseAnchoringBounds(b bool) *Matcher {
	m.state().SetAnchoringBounds(b)
	return m
}

// UseTransparentBounds sets whether lookarounds and \b see past the
// region bounds. The default is false.
func (m *Matcher) UseTransparentBounds(b bool) *Matcher {
	m.state().SetTransparentBounds(b)
	return m
}

// HasAnchoringBounds reports the anchoring-bounds setting.
func (m *Matcher) HasAnchoringBounds() bool { return m.state().AnchoringBounds() }

// HasTransparentBounds reports the transparent-bounds setting.
func (m *Matcher) HasTransparentBounds() bool { return m.state().TransparentBounds() }

// HitEnd reports whether the last match attempt looked at the end of the
// input. If it did, more input could have changed the result.
func (m *Matcher) HitEnd() bool { return m.state().HitEnd() }

// RequireEnd reports whether more input could turn the last match into a
// non-match.
func (m *Matcher) RequireEnd() bool { return m.state().RequireEnd() }

// MatchResult is an immutable snapshot of a match.
type MatchResult struct {
	input      []byte
	groups     []int
	groupCount int
}

// Matched reports whether the snapshot holds a match.
func (r *MatchResult) Matched() bool { return r.groups != nil }

// GroupCount returns the number of capturing groups.
func (r *MatchResult) GroupCount() int { return r.groupCount }

// Start returns the start offset of group n, or -1.
func (r *MatchResult) Start(n int) int {
	if r.groups == nil || n < 0 || n > r.groupCount {
		return -1
	}
	return r.groups[2*n]
}

// End returns the end offset of group n, or -1.
func (r *MatchResult) End(n int) int {
	if r.groups == nil || n < 0 || n > r.groupCount {
		return -1
	}
	return r.groups[2*n+1]
}

// Group returns the text of group n. ok is false when the group did not
// participate.
func (r *MatchResult) Group(n int) (s string, ok bool) {
	start, end := r.Start(n), r.End(n)
	if start < 0 || end < 0 {
		return "", false
	}
	return string(r.input[start:end]), true
}
