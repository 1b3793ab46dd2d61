package prefilter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/coregx/jregex/literal"
	"github.com/coregx/jregex/nfa"
	"github.com/coregx/jregex/syntax"
)

func build(pattern string, flags syntax.Flags) Prefilter {
	prog := nfa.MustCompile(pattern, flags)
	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(prog)
	return NewBuilder(prefixes, nfa.ExtractFirstBytes(prog)).Build()
}

func TestBuild_Strategy(t *testing.T) {
	tests := []struct {
		pattern  string
		flags    syntax.Flags
		want     string // type name, or "" for nil
		complete bool
	}{
		{pattern: "a", want: "*prefilter.memchrPrefilter", complete: true},
		{pattern: "hello", want: "*prefilter.memmemPrefilter", complete: true},
		{pattern: `hello\w`, want: "*prefilter.memmemPrefilter"},
		{pattern: "foo|bar", want: "*prefilter.teddy", complete: true},
		{pattern: `(abc|axy)\w`, want: "*prefilter.teddy"},
		{pattern: "one|two|three|four", want: "*prefilter.teddy", complete: true},
		{pattern: "ab|cd", want: "*prefilter.byteSetPrefilter", complete: false},
		{pattern: "ab|ac", want: "*prefilter.memchrPrefilter"},
		{pattern: `xy[a-j]\w`, want: "*prefilter.memmemPrefilter"},
		{pattern: "a1|b2|c3|d4", want: "*prefilter.ahoCorasickPrefilter", complete: true},
		{pattern: "one|two|six|ten|red|tan|ham|jam|yes", want: "*prefilter.ahoCorasickPrefilter", complete: true},
		{pattern: "ok", flags: syntax.CaseInsensitive, want: "*prefilter.ahoCorasickPrefilter", complete: true},
		{pattern: `\w+x`, want: "*prefilter.tablePrefilter"},
		{pattern: `[a-z]+`, want: "*prefilter.tablePrefilter"},
		{pattern: ".*foo"},
		{pattern: "a*"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := build(tt.pattern, tt.flags)
			if tt.want == "" {
				if pf != nil {
					t.Fatalf("Build() = %T, want nil", pf)
				}
				return
			}
			if got := fmt.Sprintf("%T", pf); got != tt.want {
				t.Fatalf("Build() = %s, want %s", got, tt.want)
			}
			if pf.IsComplete() != tt.complete {
				t.Errorf("IsComplete() = %v, want %v", pf.IsComplete(), tt.complete)
			}
		})
	}
}

func TestPrefilter_Find(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		start    int
		want     int
	}{
		{"a", "xxxa", 0, 3},
		{"a", "xxxa", 4, -1},
		{"hello", "say hello", 0, 4},
		{"hello", "say hello", 5, -1},
		{"foo|bar", "xxbar foo", 0, 2},
		{"foo|bar", "xxbar foo", 3, 6},
		{"one|two|three|four", "zero four two", 0, 5},
		{"one|two|three|four", "zero four two", 6, 10},
		{"one|two|three|four", "zero", 0, -1},
		{"one|two|three|four", "thre three", 0, 5},
		{"ab|cd", "xxcd", 0, 2},
		{`xy[a-j]\w`, "x xyz xyj", 0, 2},
		{`\w+x`, "-- 42x", 0, 3},
		{"hello", "", 0, -1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.pattern, tt.start), func(t *testing.T) {
			pf := build(tt.pattern, 0)
			if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

// Every match start must be proposed as a candidate.
func TestPrefilter_NeverSkipsAMatch(t *testing.T) {
	patterns := []string{"cat|dog", "c[aeiou]t", "(?i)cat", "alpha|beta|gamma|delta", `\d{2}`, "x+y"}
	haystack := []byte(strings.Repeat("the cat and DOG caught 42 xxy alpha ", 4))
	for _, p := range patterns {
		prog := nfa.MustCompile(p, 0)
		pf := build(p, 0)
		if pf == nil {
			t.Fatalf("%q: no prefilter", p)
		}
		st := nfa.NewState(prog)
		st.Reset(haystack)
		for from := 0; from <= len(haystack); {
			if !st.Find(from, nil) {
				break
			}
			s := st.First()
			if c := pf.Find(haystack, from); c < 0 || c > s {
				t.Errorf("%q: match at %d but first candidate from %d is %d", p, s, from, c)
			}
			from = max(st.Last(), s+1)
		}
	}
}

func TestPrefilter_LiteralLen(t *testing.T) {
	if got := build("hello", 0).LiteralLen(); got != 5 {
		t.Errorf("memmem LiteralLen() = %d, want 5", got)
	}
	if got := build("one|two|six|ten", 0).LiteralLen(); got != 3 {
		t.Errorf("teddy LiteralLen() = %d, want 3", got)
	}
	if got := build("one|two|six|ten|red|tan|ham|jam|yes", 0).LiteralLen(); got != 3 {
		t.Errorf("aho-corasick LiteralLen() = %d, want 3", got)
	}
	if got := build("one|three|four|five", 0).LiteralLen(); got != 0 {
		t.Errorf("mixed lengths LiteralLen() = %d, want 0", got)
	}
	if got := build(`hello\w`, 0).LiteralLen(); got != 0 {
		t.Errorf("incomplete LiteralLen() = %d, want 0", got)
	}
}

func TestBuilder_WithConfig(t *testing.T) {
	prog := nfa.MustCompile("fo|ba", 0)
	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(prog)
	pf := NewBuilder(prefixes, nil).WithConfig(Config{MinLiteralLen: 1, MinAhoCorasickLiterals: 2}).Build()
	if _, ok := pf.(*ahoCorasickPrefilter); !ok {
		t.Errorf("Build() = %T, want *ahoCorasickPrefilter", pf)
	}
	pf = NewBuilder(prefixes, nil).Build()
	if _, ok := pf.(*byteSetPrefilter); !ok {
		t.Errorf("Build() = %T, want *byteSetPrefilter below MinAhoCorasickLiterals", pf)
	}
	pf = NewBuilder(prefixes, nil).WithConfig(Config{MinLiteralLen: 4, MinAhoCorasickLiterals: 4}).Build()
	if pf != nil {
		t.Errorf("Build() = %T, want nil for literals shorter than MinLiteralLen", pf)
	}
}

func TestTeddy_Find(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		start    int
		want     int
	}{
		{"cat|dog|bird", "a hot dog", 0, 6},
		{"cat|dog|bird", "birdcat", 1, 4},
		{"cat|dog|bird", "cad dot bir", 0, -1},
		{"cat|dog|bird", "ca", 0, -1},
		{"cat|dog|cow", "cog dow cow", 0, 8},
		{"abc|abd|abe", "ab abe", 0, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.pattern, tt.haystack), func(t *testing.T) {
			pf := build(tt.pattern, 0)
			if _, ok := pf.(*teddy); !ok {
				t.Fatalf("Build() = %T, want *teddy", pf)
			}
			if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestTeddy_Band(t *testing.T) {
	lits := func(ss ...string) *literal.Seq {
		out := make([]literal.Literal, len(ss))
		for i, s := range ss {
			out[i] = literal.Literal{Bytes: []byte(s), Complete: true}
		}
		return literal.NewSeq(out...)
	}
	if newTeddy(lits("abc")) != nil {
		t.Error("one literal should not build Teddy")
	}
	if newTeddy(lits("abc", "de")) != nil {
		t.Error("a two-byte literal should not build Teddy")
	}
	if newTeddy(lits("aaa", "bbb", "ccc", "ddd", "eee", "fff", "ggg", "hhh", "iii")) != nil {
		t.Error("nine literals should not build Teddy")
	}
	pf := newTeddy(lits("abc", "defg"))
	if pf == nil || !pf.IsComplete() || pf.LiteralLen() != 0 || pf.HeapBytes() == 0 {
		t.Errorf("newTeddy(abc, defg) = %+v", pf)
	}
}
