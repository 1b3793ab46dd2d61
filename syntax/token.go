package syntax

import (
	"strconv"
	"unicode/utf8"
)

// Token is one lexical unit of a pattern.
//
// Literal code points are their own value (0..utf8.MaxRune). Everything else
// carries a tag bit above the Unicode range: special constructs use
// tagSpecial, quantifiers use tagQuant with the greediness in the low bits,
// and back-references use tagBackRef with the group number in the low bits,
// so \1 never collides with the literal digit '1'.
type Token int32

const (
	tagSpecial Token = 1 << 24
	tagQuant   Token = 1 << 25
	tagBackRef Token = 1 << 26

	tagMask = tagSpecial | tagQuant | tagBackRef
)

// Special tokens.
const (
	TokEOF              = tagSpecial | iota
	TokCaret            // ^ (also the negation marker right after '[')
	TokDollar           // $
	TokDot              // .
	TokBar              // |
	TokLeftParen        // ( capturing group
	TokNonCapGroup      // (?:
	TokPosLookAhead     // (?=
	TokNegLookAhead     // (?!
	TokPosLookBehind    // (?<=
	TokNegLookBehind    // (?<!
	TokAtomicGroup      // (?>
	TokFlags            // (?idmsux-idmsux)
	TokFlagGroup        // (?idmsux-idmsux:
	TokRightParen       // )
	TokLeftBracket      // [
	TokRightBracket     // ]
	TokAmpersand        // && inside a class
	TokHyphen           // - inside a class
	TokClass            // predefined class: \d \s \w \p{..} and negations
	TokStartOfInput     // \A
	TokEndOfInput       // \z
	TokEndOfInputLine   // \Z
	TokPreviousMatch    // \G
	TokWordBoundary     // \b
	TokNonWordBoundary  // \B
	tokSpecialSentinel
)

// Quantifier kinds, stored in bits 2..4 of a quantifier token.
const (
	quantStar Token = iota + 1
	quantPlus
	quantOpt
	quantCounted
)

// Quantifier tokens in greedy form. Use WithGreediness for the other forms.
const (
	TokStar    = tagQuant | quantStar<<2
	TokPlus    = tagQuant | quantPlus<<2
	TokOpt     = tagQuant | quantOpt<<2
	TokCounted = tagQuant | quantCounted<<2
)

// BackRefToken returns the token for back-reference \n.
func BackRefToken(n int) Token {
	return tagBackRef | Token(n)
}

// IsLiteral reports whether t is a literal code point.
func (t Token) IsLiteral() bool {
	return t >= 0 && t <= utf8.MaxRune
}

// IsSpecial reports whether t is a special construct.
func (t Token) IsSpecial() bool {
	return t&tagMask == tagSpecial
}

// IsQuantifier reports whether t is a quantifier of any greediness.
func (t Token) IsQuantifier() bool {
	return t&tagMask == tagQuant
}

// IsBackRef reports whether t is a back-reference.
func (t Token) IsBackRef() bool {
	return t&tagMask == tagBackRef
}

// BackRef returns the group number of a back-reference token.
func (t Token) BackRef() int {
	return int(t &^ tagMask)
}

// Rune returns the code point of a literal token.
func (t Token) Rune() rune {
	return rune(t)
}

// Greediness returns the policy of a quantifier token.
func (t Token) Greediness() Greediness {
	return Greediness(t & 3)
}

// WithGreediness returns the quantifier token t with policy g.
func (t Token) WithGreediness(g Greediness) Token {
	return t&^3 | Token(g)
}

// IsGroupOpen reports whether t opens a group of any kind.
func (t Token) IsGroupOpen() bool {
	switch t {
	case TokLeftParen, TokNonCapGroup, TokPosLookAhead, TokNegLookAhead,
		TokPosLookBehind, TokNegLookBehind, TokAtomicGroup, TokFlagGroup:
		return true
	}
	return false
}

var specialNames = [...]string{
	"EOF", "^", "$", ".", "|", "(", "(?:", "(?=", "(?!", "(?<=", "(?<!", "(?>",
	"(?flags)", "(?flags:", ")", "[", "]", "&&", "-", "class",
	`\A`, `\z`, `\Z`, `\G`, `\b`, `\B`,
}

// String returns a debugging form of the token.
func (t Token) String() string {
	switch {
	case t.IsLiteral():
		return strconv.QuoteRune(rune(t))
	case t.IsBackRef():
		return `\` + strconv.Itoa(t.BackRef())
	case t.IsQuantifier():
		var s string
		switch (t >> 2) & 7 {
		case quantStar:
			s = "*"
		case quantPlus:
			s = "+"
		case quantOpt:
			s = "?"
		default:
			s = "{n,m}"
		}
		switch t.Greediness() {
		case Reluctant:
			s += "?"
		case Possessive:
			s += "+"
		}
		return s
	case t.IsSpecial():
		if i := int(t &^ tagSpecial); i < len(specialNames) {
			return specialNames[i]
		}
	}
	return "Token(" + strconv.Itoa(int(t)) + ")"
}
