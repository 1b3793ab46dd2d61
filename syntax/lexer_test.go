package syntax

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tokenize(pattern string, flags Flags) ([]Lexeme, error) {
	lx, err := NewLexer(pattern, flags)
	if err != nil {
		return nil, err
	}
	return lx.lexemes, nil
}

func tokens(t *testing.T, pattern string, flags Flags) []Token {
	t.Helper()
	lexemes, err := tokenize(pattern, flags)
	if err != nil {
		t.Fatalf("tokenize(%q) error: %v", pattern, err)
	}
	out := make([]Token, 0, len(lexemes))
	for _, l := range lexemes {
		out = append(out, l.Tok)
	}
	return out
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   Flags
		want    []Token
	}{
		{"literals", "ab", 0, []Token{'a', 'b', TokEOF}},
		{"dot star", ".*", 0, []Token{TokDot, TokStar, TokEOF}},
		{"reluctant", "a+?", 0, []Token{'a', TokPlus.WithGreediness(Reluctant), TokEOF}},
		{"possessive", "a?+", 0, []Token{'a', TokOpt.WithGreediness(Possessive), TokEOF}},
		{"anchors", "^a$", 0, []Token{TokCaret, 'a', TokDollar, TokEOF}},
		{"alternation", "a|b", 0, []Token{'a', TokBar, 'b', TokEOF}},
		{"groups", "(a)(?:b)", 0, []Token{TokLeftParen, 'a', TokRightParen, TokNonCapGroup, 'b', TokRightParen, TokEOF}},
		{"lookaround", "(?=a)(?!b)(?<=c)(?<!d)(?>e)", 0, []Token{
			TokPosLookAhead, 'a', TokRightParen,
			TokNegLookAhead, 'b', TokRightParen,
			TokPosLookBehind, 'c', TokRightParen,
			TokNegLookBehind, 'd', TokRightParen,
			TokAtomicGroup, 'e', TokRightParen, TokEOF,
		}},
		{"escapes", `\t\n\x41\0101\cA\e`, 0, []Token{'\t', '\n', 'A', 'A', 1, 0x1B, TokEOF}},
		{"hex braces", `\x{1F600}`, 0, []Token{0x1F600, TokEOF}},
		{"unicode escape", "\\u0041", 0, []Token{'A', TokEOF}},
		{"surrogate pair", "\\uD83D\\uDE00", 0, []Token{0x1F600, TokEOF}},
		{"escaped meta", `\.\*\\`, 0, []Token{'.', '*', '\\', TokEOF}},
		{"assertions", `\A\b\B\G\Z\z`, 0, []Token{
			TokStartOfInput, TokWordBoundary, TokNonWordBoundary,
			TokPreviousMatch, TokEndOfInputLine, TokEndOfInput, TokEOF,
		}},
		{"quote", `\Qa.b\E.`, 0, []Token{'a', '.', 'b', TokDot, TokEOF}},
		{"unterminated quote", `\Q(x`, 0, []Token{'(', 'x', TokEOF}},
		{"class", "[a-c]", 0, []Token{TokLeftBracket, 'a', TokHyphen, 'c', TokRightBracket, TokEOF}},
		{"negated class", "[^a]", 0, []Token{TokLeftBracket, TokCaret, 'a', TokRightBracket, TokEOF}},
		{"leading bracket", "[]a]", 0, []Token{TokLeftBracket, ']', 'a', TokRightBracket, TokEOF}},
		{"negated leading bracket", "[^]]", 0, []Token{TokLeftBracket, TokCaret, ']', TokRightBracket, TokEOF}},
		{"caret in body", "[a^]", 0, []Token{TokLeftBracket, 'a', '^', TokRightBracket, TokEOF}},
		{"intersection", "[a&&[b]]", 0, []Token{
			TokLeftBracket, 'a', TokAmpersand, TokLeftBracket, 'b', TokRightBracket, TokRightBracket, TokEOF,
		}},
		{"single ampersand", "[&]", 0, []Token{TokLeftBracket, '&', TokRightBracket, TokEOF}},
		{"meta inside class", "[.*(]", 0, []Token{TokLeftBracket, '.', '*', '(', TokRightBracket, TokEOF}},
		{"comments", "a b # c\nd", Comments, []Token{'a', 'b', 'd', TokEOF}},
		{"literal flag", "a.b", Literal, []Token{'a', '.', 'b', TokEOF}},
		{"backref", `(a)\1`, 0, []Token{TokLeftParen, 'a', TokRightParen, BackRefToken(1), TokEOF}},
		{"backref stops at group count", `(a)\11`, 0, []Token{TokLeftParen, 'a', TokRightParen, BackRefToken(1), '1', TokEOF}},
		{"closing brace is literal", "a}", 0, []Token{'a', '}', TokEOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokens(t, tt.pattern, tt.flags)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerBackRefExtension(t *testing.T) {
	pattern := "(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)(k)" + `\11`
	toks := tokens(t, pattern, 0)
	if got := toks[len(toks)-2]; got != BackRefToken(11) {
		t.Errorf("last token = %v, want \\11", got)
	}
}

func TestLexerQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		want    Quantifier
		greed   Greediness
	}{
		{"a{3}", Quantifier{3, 3}, Greedy},
		{"a{2,}", Quantifier{2, Unbounded}, Greedy},
		{"a{2,5}?", Quantifier{2, 5}, Reluctant},
		{"a{0,1}+", Quantifier{0, 1}, Possessive},
		{"a*", QuantStar, Greedy},
	}
	for _, tt := range tests {
		lexemes, err := tokenize(tt.pattern, 0)
		if err != nil {
			t.Fatalf("tokenize(%q): %v", tt.pattern, err)
		}
		q := lexemes[1]
		if !q.Tok.IsQuantifier() {
			t.Fatalf("%q: token %v is not a quantifier", tt.pattern, q.Tok)
		}
		if q.Quant != tt.want || q.Tok.Greediness() != tt.greed {
			t.Errorf("%q: got %v %v, want %v %v", tt.pattern, q.Quant, q.Tok.Greediness(), tt.want, tt.greed)
		}
	}
}

func TestLexerInlineFlags(t *testing.T) {
	lexemes, err := tokenize("a(?i)b(?-i:c)d(e(?m)f)g", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := map[Token]Flags{
		'a': 0,
		'b': CaseInsensitive,
		'c': 0,
		'd': CaseInsensitive,
		'e': CaseInsensitive,
		'f': CaseInsensitive | Multiline,
		'g': CaseInsensitive,
	}
	for _, l := range lexemes {
		if f, ok := want[l.Tok]; ok && l.Flags != f {
			t.Errorf("flags at %v = %v, want %v", l.Tok, l.Flags, f)
		}
	}
}

func TestLexerWindow(t *testing.T) {
	lx, err := NewLexer("a*b", 0)
	if err != nil {
		t.Fatal(err)
	}
	if lx.Peek() != 'a' || lx.LookAhead() != TokStar {
		t.Fatalf("window = %v %v", lx.Peek(), lx.LookAhead())
	}
	lx.Next()
	if lx.Quantifier() != QuantStar || lx.Index() != 1 {
		t.Errorf("side data = %v at %d", lx.Quantifier(), lx.Index())
	}
	lx.Next()
	lx.Next()
	if !lx.IsEmpty() {
		t.Errorf("expected EOF, got %v", lx.Peek())
	}
	if lx.Next() != TokEOF {
		t.Error("Next past EOF must keep returning EOF")
	}
}

func TestLexerClassToken(t *testing.T) {
	lexemes, err := tokenize(`\d\W\p{Lu}\P{InGreek}`, 0)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		r    rune
		want bool
	}{{'5', true}, {'!', true}, {'A', true}, {0x3B1, false}}
	for i, c := range checks {
		l := lexemes[i]
		if l.Tok != TokClass {
			t.Fatalf("lexeme %d = %v, want class", i, l.Tok)
		}
		if got := l.Class.Contains(c.r); got != c.want {
			t.Errorf("class %d (%v) Contains(%q) = %v, want %v", i, l.Class, c.r, got, c.want)
		}
	}
}

func TestLexerCanonEq(t *testing.T) {
	// Precomposed é in the pattern is decomposed to e + U+0301.
	got := tokens(t, "é", CanonEq)
	if diff := cmp.Diff([]Token{'e', 0x301, TokEOF}, got); diff != "" {
		t.Errorf("pattern mode (-want +got):\n%s", diff)
	}
	// Inside a class the run is recomposed.
	got = tokens(t, "[é]", CanonEq)
	if diff := cmp.Diff([]Token{TokLeftBracket, 0xE9, TokRightBracket, TokEOF}, got); diff != "" {
		t.Errorf("class mode (-want +got):\n%s", diff)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		pattern string
		desc    string
		index   int
	}{
		{`a\`, ErrTrailingBackslash, 2},
		{`\k`, ErrIllegalEscape, 0},
		{`a{x}`, ErrIllegalRepetition, 1},
		{`a{2,1}`, ErrRepetitionRange, 1},
		{`a{2`, ErrUnclosedQuantifier, 3},
		{`(?q)`, ErrUnknownFlag, 2},
		{`(?<x)`, ErrUnknownGroupType, 3},
		{`\xZ1`, ErrIllegalHex, 0},
		{"\\u12", ErrIllegalUnicode, 0},
		{`\09`, ErrIllegalOctal, 0},
		{`\p{Nope}`, ErrUnknownProperty, 0},
		{`\p{Lu`, ErrUnclosedProperty, 0},
		{`\p{}`, ErrEmptyProperty, 0},
		{`[\b]`, ErrIllegalEscape, 1},
		{`a{99999999999}`, ErrQuantifierOverflow, 2},
	}
	for _, tt := range tests {
		_, err := NewLexer(tt.pattern, 0)
		var pse *PatternSyntaxError
		if !errors.As(err, &pse) {
			t.Errorf("NewLexer(%q) error = %v, want *PatternSyntaxError", tt.pattern, err)
			continue
		}
		if pse.Desc != tt.desc || pse.Index != tt.index {
			t.Errorf("NewLexer(%q) = %q at %d, want %q at %d", tt.pattern, pse.Desc, pse.Index, tt.desc, tt.index)
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("NewLexer(%q) error does not match ErrSyntax", tt.pattern)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a.b", `\Qa.b\E`},
		{`a\Eb`, `\Qa\E\\E\Qb\E`},
		{"", `\Q\E`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
		lexemes, err := tokenize(Quote(tt.in), 0)
		if err != nil {
			t.Fatalf("tokenize(Quote(%q)): %v", tt.in, err)
		}
		var rs []rune
		for _, l := range lexemes[:len(lexemes)-1] {
			rs = append(rs, l.Tok.Rune())
		}
		if string(rs) != tt.in {
			t.Errorf("Quote(%q) lexes back to %q", tt.in, string(rs))
		}
	}
}

func TestPatternSyntaxErrorMessage(t *testing.T) {
	err := NewPatternSyntaxError(ErrUnclosedGroup, "(abc", 4)
	want := "Unclosed group near index 4\n(abc\n    ^"
	if got := err.Message(); got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
	if got := err.Error(); got != "error parsing regexp: Unclosed group near index 4: `(abc`" {
		t.Errorf("Error() = %q", got)
	}
}
