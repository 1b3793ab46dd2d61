package jregex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// acute is U+0301 COMBINING ACUTE ACCENT.
const acute = string(rune(0x301))

// findAll collects the group-0 bounds of every Find.
func findAll(m *Matcher) [][]int {
	var out [][]int
	for m.Find() {
		out = append(out, []int{m.Start(0), m.End(0)})
	}
	return out
}

func TestMatcher_FindLoop(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    [][]int
	}{
		{`\d+`, "a1b22c333", [][]int{{1, 2}, {3, 5}, {6, 9}}},
		{`a*`, "baa", [][]int{{0, 0}, {1, 3}, {3, 3}}},
		{`x*`, "ab", [][]int{{0, 0}, {1, 1}, {2, 2}}},
		{`é?`, "éa", [][]int{{0, 2}, {2, 2}, {3, 3}}},
		{`\Ga`, "aab", [][]int{{0, 1}, {1, 2}}},
		{`foo|bar`, "foobarbaz", [][]int{{0, 3}, {3, 6}}},
		{`z`, "abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			got := findAll(MustCompile(tt.pattern).Matcher(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Find loop mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatcher_Quantifiers(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    string
		ok      bool
	}{
		{"greedy", `a+`, "aaa", "aaa", true},
		{"reluctant", `a+?`, "aaa", "a", true},
		{"possessive", `a*+a`, "aaa", "", false},
		{"possessive then other literal", `a++b`, "aaab", "aaab", true},
		{"possessive needs give back", `a++a`, "aaaa", "", false},
		{"greedy gives back", `a*a`, "aaa", "aaa", true},
		{"counted", `a{2}`, "aaa", "aa", true},
		{"reluctant counted", `a{1,3}?`, "aaa", "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustCompile(tt.pattern).Matcher(tt.input)
			if got := m.Find(); got != tt.ok {
				t.Fatalf("Find() = %v, want %v", got, tt.ok)
			}
			if got, _ := m.Group(0); got != tt.want {
				t.Errorf("Group(0) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatcher_Groups(t *testing.T) {
	t.Run("empty star of star", func(t *testing.T) {
		m := MustCompile(`(a*)*`).Matcher("")
		if !m.Matches() {
			t.Fatal("Matches() = false")
		}
		if m.Start(1) != 0 || m.End(1) != 0 {
			t.Errorf("group 1 = [%d,%d], want [0,0]", m.Start(1), m.End(1))
		}
	})

	t.Run("optional group unset", func(t *testing.T) {
		m := MustCompile(`(a)(b)?`).Matcher("a")
		if !m.Matches() {
			t.Fatal("Matches() = false")
		}
		if s, ok := m.Group(1); !ok || s != "a" {
			t.Errorf("Group(1) = %q, %v", s, ok)
		}
		if s, ok := m.Group(2); ok {
			t.Errorf("Group(2) = %q, want unset", s)
		}
		if m.Start(2) != -1 || m.End(2) != -1 {
			t.Errorf("group 2 = [%d,%d], want [-1,-1]", m.Start(2), m.End(2))
		}
	})

	t.Run("backreference", func(t *testing.T) {
		p := MustCompile(`(a)\1`)
		if !p.Matcher("aa").Matches() {
			t.Error(`(a)\1 should match "aa"`)
		}
		if p.Matcher("ab").Matches() {
			t.Error(`(a)\1 should not match "ab"`)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		m := MustCompile(`(a)`).Matcher("a")
		if _, ok := m.Group(0); ok {
			t.Error("Group(0) before a match should be unset")
		}
		m.Find()
		if _, ok := m.Group(2); ok {
			t.Error("Group(2) should be out of range")
		}
		if m.Start(-1) != -1 || m.End(5) != -1 {
			t.Error("Start/End out of range should be -1")
		}
		if m.GroupCount() != 1 {
			t.Errorf("GroupCount() = %d, want 1", m.GroupCount())
		}
	})
}

func TestMatcher_Lookaround(t *testing.T) {
	m := MustCompile(`a(?=b)`).Matcher("ab")
	if !m.Find() || m.Start(0) != 0 || m.End(0) != 1 {
		t.Errorf("a(?=b) Find = [%d,%d], want [0,1]", m.Start(0), m.End(0))
	}
	if m.Reset().Matches() {
		t.Error("a(?=b) should not match all of \"ab\"")
	}

	m = MustCompile(`(?<!x)y`).Matcher("xyay")
	if !m.Find() || m.Start(0) != 3 {
		t.Errorf("(?<!x)y Find start = %d, want 3", m.Start(0))
	}
	if MustCompile(`(?<!x)y`).Matcher("xy").Find() {
		t.Error(`(?<!x)y should not match "xy"`)
	}
}

func TestMatcher_MatchesAndLookingAt(t *testing.T) {
	tests := []struct {
		pattern   string
		input     string
		matches   bool
		lookingAt bool
	}{
		{`ab`, "abc", false, true},
		{`ab`, "ab", true, true},
		{`b`, "ab", false, false},
		{`a|ab`, "ab", true, true},
		{`a*`, "", true, true},
	}
	for _, tt := range tests {
		m := MustCompile(tt.pattern).Matcher(tt.input)
		if got := m.Matches(); got != tt.matches {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.pattern, tt.input, got, tt.matches)
		}
		if got := m.LookingAt(); got != tt.lookingAt {
			t.Errorf("%q.LookingAt(%q) = %v, want %v", tt.pattern, tt.input, got, tt.lookingAt)
		}
	}
}

func TestMatcher_Region(t *testing.T) {
	p := MustCompile(`^bc$`)
	m := p.Matcher("abcd")
	if _, err := m.Region(1, 3); err != nil {
		t.Fatalf("Region(1, 3) error = %v", err)
	}
	if m.RegionStart() != 1 || m.RegionEnd() != 3 {
		t.Errorf("region = [%d,%d], want [1,3]", m.RegionStart(), m.RegionEnd())
	}
	if !m.HasAnchoringBounds() || m.HasTransparentBounds() {
		t.Error("default bounds should be anchoring and opaque")
	}
	if !m.Matches() {
		t.Error("anchoring bounds: ^bc$ should match region [1,3]")
	}
	m.UseAnchoringBounds(false)
	if m.Matches() {
		t.Error("non-anchoring bounds: ^bc$ should not match region [1,3]")
	}

	// Opaque bounds hide the surrounding text from lookarounds.
	m = MustCompile(`(?<=a)bc`).Matcher("abcd")
	m.Region(1, 3)
	if m.Find() {
		t.Error("opaque bounds: lookbehind should not see before the region")
	}
	m.UseTransparentBounds(true)
	m.Region(1, 3)
	if !m.Find() {
		t.Error("transparent bounds: lookbehind should see before the region")
	}

	// Find stays within the region.
	m = MustCompile(`\d`).Matcher("1234")
	m.Region(1, 3)
	if diff := cmp.Diff([][]int{{1, 2}, {2, 3}}, findAll(m)); diff != "" {
		t.Errorf("Find in region mismatch (-want +got):\n%s", diff)
	}

	for _, r := range [][2]int{{-1, 2}, {3, 1}, {0, 5}} {
		if _, err := m.Region(r[0], r[1]); !errors.Is(err, ErrIndexOutOfBounds) {
			t.Errorf("Region(%d, %d) error = %v, want ErrIndexOutOfBounds", r[0], r[1], err)
		}
	}

	// Reset restores the whole input as the region.
	m.Region(1, 3)
	m.Reset()
	if m.RegionStart() != 0 || m.RegionEnd() != 4 {
		t.Errorf("after Reset region = [%d,%d], want [0,4]", m.RegionStart(), m.RegionEnd())
	}
}

func TestMatcher_FindFrom(t *testing.T) {
	m := MustCompile(`a`).Matcher("aXa")
	m.Region(0, 1)
	ok, err := m.FindFrom(1)
	if err != nil || !ok || m.Start(0) != 2 {
		t.Errorf("FindFrom(1) = %v, %v at %d, want match at 2", ok, err, m.Start(0))
	}
	if ok, err := m.FindFrom(3); err != nil || ok {
		t.Errorf("FindFrom(3) = %v, %v, want no match", ok, err)
	}
	for _, start := range []int{-1, 4} {
		if _, err := m.FindFrom(start); !errors.Is(err, ErrIndexOutOfBounds) {
			t.Errorf("FindFrom(%d) error = %v, want ErrIndexOutOfBounds", start, err)
		}
	}
}

func TestMatcher_HitEnd(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		hitEnd  bool
		reqEnd  bool
	}{
		{`abc`, "ab", true, false},
		{`abc`, "abcd", false, false},
		{`a+`, "aa", true, false},
		{`a$`, "a", true, true},
		// Lookbehind bodies start as far back as their shortest match.
		{`x(?<=x)`, "x", false, false},
		{`x(?<!y)`, "x", false, false},
		{`(?<=ab)c`, "abc", false, false},
		{`(?<=a|bc)d`, "bcd", false, false},
		{`a(?<=a)b`, "a", true, false},
	}
	for _, tt := range tests {
		m := MustCompile(tt.pattern).Matcher(tt.input)
		m.Find()
		if m.HitEnd() != tt.hitEnd || m.RequireEnd() != tt.reqEnd {
			t.Errorf("%q on %q: hitEnd=%v requireEnd=%v, want %v %v",
				tt.pattern, tt.input, m.HitEnd(), m.RequireEnd(), tt.hitEnd, tt.reqEnd)
		}
	}

	for _, pattern := range []string{`x(?<=x)`, `x(?<!y)`} {
		m := MustCompile(pattern).Matcher("x")
		if !m.LookingAt() || m.HitEnd() {
			t.Errorf("%q LookingAt on \"x\": hitEnd=%v, want a match without hitting the end", pattern, m.HitEnd())
		}
	}
}

func TestMatcher_ToMatchResult(t *testing.T) {
	m := MustCompile(`(\d)`).Matcher("1 2")
	if !m.Find() {
		t.Fatal("Find() = false")
	}
	r := m.ToMatchResult()
	m.Find()
	if s, ok := r.Group(1); !ok || s != "1" {
		t.Errorf("snapshot Group(1) = %q, %v, want \"1\"", s, ok)
	}
	if !r.Matched() || r.Start(0) != 0 || r.End(0) != 1 || r.GroupCount() != 1 {
		t.Errorf("snapshot = matched %v [%d,%d] groups %d", r.Matched(), r.Start(0), r.End(0), r.GroupCount())
	}
	if s, _ := m.Group(1); s != "2" {
		t.Errorf("matcher Group(1) = %q, want \"2\"", s)
	}

	m.Find()
	r = m.ToMatchResult()
	if r.Matched() || r.Start(0) != -1 {
		t.Error("snapshot after a failed Find should hold no match")
	}
}

func TestMatcher_ResetAndUsePattern(t *testing.T) {
	m := MustCompile(`[a-z]`).Matcher("aXbY")
	if !m.Find() || m.Start(0) != 0 {
		t.Fatalf("Find start = %d, want 0", m.Start(0))
	}

	// Searching continues from the end of the last match.
	m.UsePattern(MustCompile(`[A-Z]`))
	if _, ok := m.Group(0); ok {
		t.Error("UsePattern should drop group information")
	}
	if diff := cmp.Diff([][]int{{1, 2}, {3, 4}}, findAll(m)); diff != "" {
		t.Errorf("after UsePattern (-want +got):\n%s", diff)
	}
	if m.Pattern().String() != `[A-Z]` {
		t.Errorf("Pattern() = %q", m.Pattern())
	}

	m.Reset()
	if !m.Find() || m.Start(0) != 1 {
		t.Errorf("after Reset Find start = %d, want 1", m.Start(0))
	}

	m.ResetInput([]byte("zzQ"))
	if !m.Find() || m.Start(0) != 2 {
		t.Errorf("after ResetInput Find start = %d, want 2", m.Start(0))
	}
}

func TestMatcher_UsePatternStepsOverEmptyMatch(t *testing.T) {
	m := MustCompile(`x*`).Matcher("ab")
	if !m.Find() || m.Start(0) != 0 || m.End(0) != 0 {
		t.Fatalf("Find = [%d,%d], want the empty match at 0", m.Start(0), m.End(0))
	}
	m.UsePattern(MustCompile(`y*`))
	if m.ToMatchResult().Matched() {
		t.Error("ToMatchResult after UsePattern should hold no groups")
	}
	if diff := cmp.Diff([][]int{{1, 1}, {2, 2}}, findAll(m)); diff != "" {
		t.Errorf("after UsePattern (-want +got):\n%s", diff)
	}
}

func TestMatcher_UsePatternKeepsRegion(t *testing.T) {
	m := MustCompile(`a`).Matcher("abcabc")
	m.Region(1, 4)
	m.UseAnchoringBounds(false)
	m.UsePattern(MustCompile(`^a`))
	if m.RegionStart() != 1 || m.RegionEnd() != 4 || m.HasAnchoringBounds() {
		t.Errorf("region/bounds not kept: [%d,%d] anchoring=%v", m.RegionStart(), m.RegionEnd(), m.HasAnchoringBounds())
	}
	if m.Find() {
		t.Error("^a should not match at 3 with non-anchoring bounds")
	}
}

func TestMatcher_CanonEq(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
	}{
		{"decomposed input", "é", "e" + acute},
		{"decomposed pattern", "e" + acute, "é"},
		{"same form", "é", "é"},
		{"class", "[é]x", "e" + acute + "x"},
		{"syllable against jamo", "각", "\u1100\u1161\u11A8"},
		{"jamo against syllable", "\u1100\u1161\u11A8", "각"},
		{"LV syllable and trailing jamo", "각", "가\u11A8"},
		{"LV and T pattern", "가\u11A8", "각"},
		{"reordered marks", "a\u0323\u0302", "a\u0302\u0323"},
		{"reordered marks reversed", "a\u0302\u0323", "a\u0323\u0302"},
		{"precomposed with two marks", "a\u0302\u0323", "\u1EAD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustCompileFlags(tt.pattern, CanonEq)
			if !p.Matcher(tt.input).Matches() {
				t.Errorf("%q should match %q under CanonEq", tt.pattern, tt.input)
			}
		})
	}
	if MustCompile("e" + acute).Matcher("é").Matches() {
		t.Error("without CanonEq the decomposed pattern should not match")
	}
	for _, tt := range []struct{ pattern, input string }{
		{"각", "\u1100\u1161"},
		{"가", "각"},
		{"a\u0323", "\u1EAD"},
	} {
		if mustCompileFlags(tt.pattern, CanonEq).Matcher(tt.input).Matches() {
			t.Errorf("%q should not match %q under CanonEq", tt.pattern, tt.input)
		}
	}
}

func TestMatcher_Determinism(t *testing.T) {
	p := MustCompile(`(\w+)\s(\w+)?`)
	input := "alpha beta gamma delta"
	first := findAll(p.Matcher(input))
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, findAll(p.Matcher(input))); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func mustCompileFlags(pattern string, flags Flags) *Pattern {
	p, err := CompileFlags(pattern, flags)
	if err != nil {
		panic(err)
	}
	return p
}
