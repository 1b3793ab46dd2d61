package nfa

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/jregex/syntax"
)

// acute is U+0301 COMBINING ACUTE ACCENT.
const acute = string(rune(0x301))

func findGroups(t *testing.T, pattern string, flags syntax.Flags, input string) []int {
	t.Helper()
	s := NewState(MustCompile(pattern, flags))
	s.Reset([]byte(input))
	if !s.Find(0, nil) {
		return nil
	}
	return append([]int(nil), s.Groups()...)
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   syntax.Flags
		input   string
		want    []int // start/end pairs for every group, nil for no match
	}{
		// Quantifier greediness
		{"greedy", `a+`, 0, "baaa", []int{1, 4}},
		{"reluctant", `a+?`, 0, "aaa", []int{0, 1}},
		{"possessive gives nothing back", `a*+a`, 0, "aaa", nil},
		{"greedy backs off", `a*a`, 0, "aaa", []int{0, 3}},
		{"empty match", `x*`, 0, "abc", []int{0, 0}},
		{"zero max", `a{0}b`, 0, "ab", []int{1, 2}},
		{"counted group", `(a){2,3}`, 0, "aaaa", []int{0, 3, 2, 3}},
		{"reluctant counted group", `(a){2,3}?`, 0, "aaaa", []int{0, 2, 1, 2}},
		{"noncapturing loop", `(?:ab)*c`, 0, "ababc", []int{0, 5}},
		{"nested loops", `(a+)+b`, 0, "aaab", []int{0, 4, 0, 3}},
		{"empty iteration", `(a*)*`, 0, "", []int{0, 0, 0, 0}},
		{"empty iteration below min", `(a?){3}b`, 0, "ab", []int{0, 2, 1, 1}},

		// Alternation and capture
		{"leftmost alternative", `(a|ab)(c|bcd)(d*)`, 0, "abcd", []int{0, 4, 0, 1, 1, 4, 4, 4}},
		{"optional group unset", `(a)(b)?`, 0, "a", []int{0, 1, 0, 1, -1, -1}},
		{"unmatched alternative", `(a)|b`, 0, "b", []int{0, 1, -1, -1}},
		{"capture kept across iterations", `(?:(a)|b)+`, 0, "ab", []int{0, 2, 0, 1}},
		{"backreference", `(a)\1`, 0, "xaa", []int{1, 3, 1, 2}},
		{"backreference folds", `(a)\1`, syntax.CaseInsensitive, "aA", []int{0, 2, 0, 1}},
		{"backreference to unset group", `(a)?\1b`, 0, "b", nil},

		// Atomic groups and lookaround
		{"atomic", `(?>a|ab)c`, 0, "abc", nil},
		{"atomic then continue", `(?>ab|a)c`, 0, "abc", []int{0, 3}},
		{"lookahead", `a(?=b)`, 0, "ab", []int{0, 1}},
		{"negative lookahead", `a(?!b)`, 0, "abac", []int{2, 3}},
		{"lookahead keeps capture", `(?=(a))a`, 0, "a", []int{0, 1, 0, 1}},
		{"negative lookahead drops capture", `(?!(a)b)a`, 0, "ac", []int{0, 1, -1, -1}},
		{"lookbehind", `(?<=ab)c`, 0, "abc", []int{2, 3}},
		{"negative lookbehind", `(?<!x)y`, 0, "xyay", []int{3, 4}},
		{"lookbehind alternatives", `(?<=a|bc)d`, 0, "bcd", []int{2, 3}},
		{"unbounded lookbehind", `(?<=a.*)z`, 0, "a--z", []int{3, 4}},

		// Classes and case
		{"case insensitive", `hello`, syntax.CaseInsensitive, "HeLLo", []int{0, 5}},
		{"inline case", `(?i)b`, 0, "aB", []int{1, 2}},
		{"unicode case", `Σ+`, syntax.CaseInsensitive | syntax.UnicodeCase, "σς", []int{0, 4}},
		{"intersection", `[a-z&&[^aeiou]]+`, 0, "aebcd", []int{2, 5}},
		{"negated class", `[^abc]`, 0, "abcd", []int{3, 4}},
		{"multibyte", `é+`, 0, "xéé", []int{1, 5}},
		{"dot multibyte", `a.c`, 0, "a€c", []int{0, 5}},

		// Dot and line terminators
		{"dot stops at newline", `.*bar`, 0, "foo\nxbar", []int{4, 8}},
		{"dotall", `.*bar`, syntax.DotAll, "foo\nxbar", []int{0, 8}},
		{"dot rejects CR", `a.b`, 0, "a\rb", nil},
		{"unix lines dot", `a.b`, syntax.UnixLines, "a\rb", []int{0, 3}},

		// Anchors
		{"caret", `^b`, 0, "ab", nil},
		{"multiline caret", `^b`, syntax.Multiline, "a\nb", []int{2, 3}},
		{"dollar before final newline", `a$`, 0, "a\n", []int{0, 1}},
		{"dollar not before inner newline", `a$`, 0, "a\nb", nil},
		{"multiline dollar", `a$`, syntax.Multiline, "a\nb", []int{0, 1}},
		{"end of input", `a\z`, 0, "a\n", nil},
		{"end of input line", `a\Z`, 0, "a\n", []int{0, 1}},
		{"start of input", `\Ab`, syntax.Multiline, "a\nb", nil},
		{"word boundary", `\bfoo\b`, 0, "afoo foo", []int{5, 8}},
		{"non word boundary", `\Boo`, 0, "oo foo", []int{4, 6}},

		// Canonical equivalence
		{"canon precomposed input", "é", syntax.CanonEq, "é", []int{0, 2}},
		{"canon decomposed input", "é", syntax.CanonEq, "e" + acute, []int{0, 3}},
		{"canon decomposed pattern", "e" + acute, syntax.CanonEq, "é", []int{0, 2}},
		{"no canon without flag", "e" + acute, 0, "é", nil},
		{"canon class", "[é]", syntax.CanonEq, "e" + acute, []int{0, 3}},
		{"canon syllable pattern jamo input", "각", syntax.CanonEq, "\u1100\u1161\u11A8", []int{0, 9}},
		{"canon jamo pattern syllable input", "\u1100\u1161\u11A8", syntax.CanonEq, "x각", []int{1, 4}},
		{"canon LV syllable then T jamo", "각", syntax.CanonEq, "가\u11A8", []int{0, 6}},
		{"canon LV and T pattern", "가\u11A8", syntax.CanonEq, "각", []int{0, 3}},
		{"canon LV jamo pair", "가", syntax.CanonEq, "\u1100\u1161", []int{0, 6}},
		{"canon syllable needs T jamo", "각", syntax.CanonEq, "\u1100\u1161", nil},
		{"canon reordered marks", "a\u0323\u0302", syntax.CanonEq, "a\u0302\u0323", []int{0, 5}},
		{"canon reordered marks reversed", "a\u0302\u0323", syntax.CanonEq, "a\u0323\u0302", []int{0, 5}},
		{"canon two marks precomposed", "a\u0302\u0323", syntax.CanonEq, "\u1EAD", []int{0, 3}},
		{"no reordering without flag", "a\u0323\u0302", 0, "a\u0302\u0323", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findGroups(t, tt.pattern, tt.flags, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Find(%q, %q) mismatch (-want +got):\n%s", tt.pattern, tt.input, diff)
			}
		})
	}
}

func TestCompile_CanonUnits(t *testing.T) {
	tests := []struct {
		pattern string
		want    NodeKind
	}{
		{"각", KindHangulChar},
		{"\u1100\u1161", KindHangulChar},
		{"a\u0302\u0323", KindDecomposedChar},
		{"é", KindDecomposedChar},
		{"[é]", KindCanonClass},
	}
	for _, tt := range tests {
		prog := MustCompile(tt.pattern, syntax.CanonEq)
		found := false
		for id := 0; id < prog.Len(); id++ {
			if prog.Node(NodeID(id)).Kind() == tt.want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%q compiled without a %v node:\n%v", tt.pattern, tt.want, prog)
		}
	}
}

func TestMatchAt(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		mode    Mode
		want    bool
	}{
		{`abc`, "abcd", ModeFind, true},
		{`abc`, "abcd", ModeMatch, false},
		{`abc`, "abc", ModeMatch, true},
		{`a|ab`, "ab", ModeMatch, true},
		{`b`, "ab", ModeFind, false},
	}
	for _, tt := range tests {
		s := NewState(MustCompile(tt.pattern, 0))
		s.Reset([]byte(tt.input))
		if got := s.MatchAt(0, tt.mode); got != tt.want {
			t.Errorf("MatchAt(%q, %q, %d) = %v, want %v", tt.pattern, tt.input, tt.mode, got, tt.want)
		}
	}
}

func TestHitEndRequireEnd(t *testing.T) {
	tests := []struct {
		pattern    string
		input      string
		wantMatch  bool
		wantHitEnd bool
		wantReqEnd bool
	}{
		{`abc`, "abcd", true, false, false},
		{`ab*`, "abb", true, true, false},
		{`abc`, "ab", false, true, false},
		{`a$`, "a", true, true, true},
		{`a\b`, "a", true, true, true},
		{`a(?!b)`, "a", true, true, true},
		{`x`, "abc", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			s := NewState(MustCompile(tt.pattern, 0))
			s.Reset([]byte(tt.input))
			if got := s.Find(0, nil); got != tt.wantMatch {
				t.Fatalf("Find() = %v, want %v", got, tt.wantMatch)
			}
			if s.HitEnd() != tt.wantHitEnd {
				t.Errorf("HitEnd() = %v, want %v", s.HitEnd(), tt.wantHitEnd)
			}
			if s.RequireEnd() != tt.wantReqEnd {
				t.Errorf("RequireEnd() = %v, want %v", s.RequireEnd(), tt.wantReqEnd)
			}
		})
	}
}

func TestRegionBounds(t *testing.T) {
	input := []byte("xxabcxx")

	s := NewState(MustCompile(`^abc$`, 0))
	s.Reset(input)
	s.SetRegion(2, 5)
	if !s.Find(2, nil) || s.First() != 2 || s.Last() != 5 {
		t.Errorf("anchoring bounds: Find = [%d,%d], want [2,5]", s.First(), s.Last())
	}

	s.SetAnchoringBounds(false)
	s.SetRegion(2, 5)
	if s.Find(2, nil) {
		t.Errorf("non-anchoring bounds: Find = [%d,%d], want no match", s.First(), s.Last())
	}

	// Opaque bounds hide the text around the region from lookarounds.
	s = NewState(MustCompile(`(?<!x)abc(?!x)`, 0))
	s.Reset(input)
	s.SetRegion(2, 5)
	if !s.Find(2, nil) {
		t.Error("opaque bounds: want match")
	}
	s.SetTransparentBounds(true)
	s.SetRegion(2, 5)
	if s.Find(2, nil) {
		t.Error("transparent bounds: want no match")
	}

	// Leaves never read past the region end.
	s = NewState(MustCompile(`abcx`, 0))
	s.Reset(input)
	s.SetRegion(2, 5)
	if s.Find(2, nil) {
		t.Error("region end: want no match")
	}
	if !s.HitEnd() {
		t.Error("region end: want hitEnd")
	}
}

func TestPreviousMatch(t *testing.T) {
	s := NewState(MustCompile(`\Ga`, 0))
	s.Reset([]byte("aab"))

	var got []int
	from := 0
	for s.Find(from, nil) {
		got = append(got, s.First())
		from = s.Last()
	}
	if diff := cmp.Diff([]int{0, 1}, got); diff != "" {
		t.Errorf("\\Ga matches mismatch (-want +got):\n%s", diff)
	}
}

type fixedCandidates []int

func (c fixedCandidates) Find(_ []byte, start int) int {
	for _, p := range c {
		if p >= start {
			return p
		}
	}
	return -1
}

func TestFind_Candidates(t *testing.T) {
	s := NewState(MustCompile(`ab`, 0))
	s.Reset([]byte("ab ab ab"))

	// Only the proposed positions are tried.
	if !s.Find(0, fixedCandidates{6}) || s.First() != 6 {
		t.Errorf("Find = %d, want 6", s.First())
	}
	if s.Find(0, fixedCandidates{}) {
		t.Error("no candidates: want no match")
	}
	if !s.HitEnd() {
		t.Error("no candidates: want hitEnd")
	}
}

func TestClear(t *testing.T) {
	s := NewState(MustCompile(`(a)`, 0))
	s.Reset([]byte("a"))
	if !s.Find(0, nil) {
		t.Fatal("want match")
	}
	s.Clear()
	if s.First() != -1 || s.Start(1) != -1 || s.End(0) != -1 {
		t.Errorf("after Clear: first=%d start(1)=%d end(0)=%d", s.First(), s.Start(1), s.End(0))
	}
}

func TestProgram_BackReferenced(t *testing.T) {
	prog := MustCompile(`(a)(b)\2`, 0)
	for g, want := range []bool{false, false, true, false} {
		if got := prog.IsBackReferenced(g); got != want {
			t.Errorf("IsBackReferenced(%d) = %v, want %v", g, got, want)
		}
	}
	if !strings.Contains(prog.String(), "group=2 referenced") {
		t.Errorf("String() does not mark group 2:\n%v", prog)
	}
}
