package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/jregex/canon"
)

// Lexeme is a token together with its side data.
type Lexeme struct {
	Tok Token

	// Class is set for TokClass.
	Class *CharClass

	// Quant is set for quantifier tokens.
	Quant Quantifier

	// Flags are the flags in effect where the token was scanned. For
	// TokFlags and TokFlagGroup they already include the new modifiers.
	Flags Flags

	// Index is the byte offset of the token in the lexed pattern.
	Index int
}

// Lexer turns a pattern into tokens and exposes them through a two-token
// window: Peek is the current token and LookAhead the one after it.
//
// The whole pattern is scanned by NewLexer, so lexical errors surface there
// and the window never fails afterwards.
type Lexer struct {
	pattern string
	lexemes []Lexeme
	pos     int
}

// NewLexer scans pattern under flags.
//
// With Literal the pattern is quoted first. With CanonEq it is brought into
// canonical decomposed form, and decomposed runs inside classes are
// recomposed into single members.
func NewLexer(pattern string, flags Flags) (lx *Lexer, err error) {
	src := pattern
	if flags.Has(Literal) {
		src = Quote(src)
	}
	if flags.Has(CanonEq) {
		src = canon.NormalizeString(src)
	}
	s := &scanner{src: src, flags: flags}

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*PatternSyntaxError)
			if !ok {
				panic(r)
			}
			lx, err = nil, e
		}
	}()
	for {
		l := s.scan()
		s.out = append(s.out, l)
		if l.Tok == TokEOF {
			break
		}
	}
	return &Lexer{pattern: src, lexemes: s.out}, nil
}

// Pattern returns the text that was lexed (after quoting and normalisation).
func (l *Lexer) Pattern() string { return l.pattern }

// Peek returns the current token.
func (l *Lexer) Peek() Token { return l.lexemes[l.pos].Tok }

// LookAhead returns the token after the current one.
func (l *Lexer) LookAhead() Token {
	if l.pos+1 < len(l.lexemes) {
		return l.lexemes[l.pos+1].Tok
	}
	return TokEOF
}

// Next returns the current token and advances. At EOF it stays put.
func (l *Lexer) Next() Token {
	t := l.lexemes[l.pos].Tok
	if l.pos+1 < len(l.lexemes) {
		l.pos++
	}
	return t
}

// Class returns the class of the current TokClass token.
func (l *Lexer) Class() *CharClass { return l.lexemes[l.pos].Class }

// Quantifier returns the range of the current quantifier token.
func (l *Lexer) Quantifier() Quantifier { return l.lexemes[l.pos].Quant }

// Flags returns the flags in effect at the current token.
func (l *Lexer) Flags() Flags { return l.lexemes[l.pos].Flags }

// Index returns the byte offset of the current token.
func (l *Lexer) Index() int { return l.lexemes[l.pos].Index }

// IsEmpty reports whether all tokens have been consumed.
func (l *Lexer) IsEmpty() bool { return l.Peek() == TokEOF }

// Error builds a syntax error against the lexed pattern.
func (l *Lexer) Error(desc string, index int) *PatternSyntaxError {
	return NewPatternSyntaxError(desc, l.pattern, index)
}

type lexMode uint8

const (
	modePattern lexMode = iota
	modeRange
	modeEscape
)

// class-start states inside [...]
const (
	classBody uint8 = iota
	classOpened
	classNegated
)

type scanner struct {
	src   string
	pos   int
	flags Flags
	stack []Flags

	mode       lexMode
	escapeRet  lexMode
	depth      int
	classState uint8
	groups     int

	out []Lexeme
}

func (s *scanner) fail(desc string, index int) {
	panic(NewPatternSyntaxError(desc, s.src, index))
}

func (s *scanner) lexeme(tok Token, index int) Lexeme {
	return Lexeme{Tok: tok, Flags: s.flags, Index: index}
}

func (s *scanner) peekByte() byte {
	if s.pos < len(s.src) {
		return s.src[s.pos]
	}
	return 0
}

func (s *scanner) scan() Lexeme {
	for {
		if s.pos >= len(s.src) {
			return s.lexeme(TokEOF, len(s.src))
		}
		start := s.pos
		r, w := utf8.DecodeRuneInString(s.src[s.pos:])

		if s.mode == modeEscape {
			if strings.HasPrefix(s.src[s.pos:], `\E`) {
				s.pos += 2
				s.mode = s.escapeRet
				continue
			}
			s.pos += w
			s.classState = classBody
			return s.lexeme(Token(r), start)
		}

		if s.flags.Has(Comments) {
			if isCommentSpace(r) {
				s.pos += w
				continue
			}
			if r == '#' {
				s.skipComment()
				continue
			}
		}

		s.pos += w
		var (
			l  Lexeme
			ok bool
		)
		if s.mode == modeRange {
			l, ok = s.scanRange(r, start)
		} else {
			l, ok = s.scanPattern(r, start)
		}
		if ok {
			return l
		}
	}
}

func isCommentSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (s *scanner) skipComment() {
	for s.pos < len(s.src) {
		r, w := utf8.DecodeRuneInString(s.src[s.pos:])
		s.pos += w
		if IsLineTerminator(r, s.flags.Has(UnixLines)) {
			return
		}
	}
}

// IsLineTerminator reports whether r ends a line. With unixLines only '\n'
// does; otherwise '\r', U+0085, U+2028 and U+2029 do as well.
func IsLineTerminator(r rune, unixLines bool) bool {
	if r == '\n' {
		return true
	}
	if unixLines {
		return false
	}
	return r == '\r' || r == 0x85 || r == 0x2028 || r == 0x2029
}

func (s *scanner) scanPattern(r rune, start int) (Lexeme, bool) {
	switch r {
	case '\\':
		return s.scanEscape(start)
	case '(':
		return s.scanGroup(start), true
	case ')':
		if n := len(s.stack); n > 0 {
			s.flags = s.stack[n-1]
			s.stack = s.stack[:n-1]
		}
		return s.lexeme(TokRightParen, start), true
	case '[':
		s.mode = modeRange
		s.depth = 1
		s.classState = classOpened
		return s.lexeme(TokLeftBracket, start), true
	case '|':
		return s.lexeme(TokBar, start), true
	case '.':
		return s.lexeme(TokDot, start), true
	case '^':
		return s.lexeme(TokCaret, start), true
	case '$':
		return s.lexeme(TokDollar, start), true
	case '*':
		return s.quant(TokStar, QuantStar, start), true
	case '+':
		return s.quant(TokPlus, QuantPlus, start), true
	case '?':
		return s.quant(TokOpt, QuantOpt, start), true
	case '{':
		return s.scanCounted(start), true
	}
	return s.lexeme(Token(r), start), true
}

func (s *scanner) scanRange(r rune, start int) (Lexeme, bool) {
	state := s.classState
	s.classState = classBody
	switch r {
	case '\\':
		return s.scanEscape(start)
	case '[':
		s.depth++
		s.classState = classOpened
		return s.lexeme(TokLeftBracket, start), true
	case ']':
		if state != classBody {
			// []...] and [^]...] start with a literal ']'.
			return s.lexeme(']', start), true
		}
		s.depth--
		if s.depth == 0 {
			s.mode = modePattern
		}
		return s.lexeme(TokRightBracket, start), true
	case '^':
		if state == classOpened {
			s.classState = classNegated
			return s.lexeme(TokCaret, start), true
		}
	case '-':
		return s.lexeme(TokHyphen, start), true
	case '&':
		if s.peekByte() == '&' {
			s.pos++
			return s.lexeme(TokAmpersand, start), true
		}
	}
	return s.lexeme(Token(s.composeRun(r)), start), true
}

// composeRun folds a base character and the combining marks after it into
// one precomposed class member under CanonEq.
func (s *scanner) composeRun(r rune) rune {
	if !s.flags.Has(CanonEq) {
		return r
	}
	run := []rune{r}
	p := s.pos
	for p < len(s.src) {
		m, w := utf8.DecodeRuneInString(s.src[p:])
		if canon.CCC(m) == 0 && !canon.IsJamoV(m) && !canon.IsJamoT(m) {
			break
		}
		run = append(run, m)
		p += w
	}
	if len(run) == 1 {
		return r
	}
	if c, ok := canon.Compose(run); ok {
		s.pos = p
		return c
	}
	return r
}

func (s *scanner) quant(tok Token, q Quantifier, start int) Lexeme {
	switch s.peekByte() {
	case '?':
		tok = tok.WithGreediness(Reluctant)
		s.pos++
	case '+':
		tok = tok.WithGreediness(Possessive)
		s.pos++
	}
	l := s.lexeme(tok, start)
	l.Quant = q
	return l
}

func (s *scanner) scanCounted(start int) Lexeme {
	lo, ok := s.number()
	if !ok {
		s.fail(ErrIllegalRepetition, start)
	}
	hi := lo
	if s.peekByte() == ',' {
		s.pos++
		if n, ok := s.number(); ok {
			hi = n
		} else {
			hi = Unbounded
		}
	}
	if s.peekByte() != '}' {
		s.fail(ErrUnclosedQuantifier, s.pos)
	}
	s.pos++
	if hi < lo {
		s.fail(ErrRepetitionRange, start)
	}
	return s.quant(TokCounted, Quantifier{Min: lo, Max: hi}, start)
}

func (s *scanner) number() (int, bool) {
	start := s.pos
	n := 0
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		n = n*10 + int(s.src[s.pos]-'0')
		if n >= Unbounded {
			s.fail(ErrQuantifierOverflow, start)
		}
		s.pos++
	}
	return n, s.pos > start
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func (s *scanner) scanGroup(start int) Lexeme {
	s.stack = append(s.stack, s.flags)
	if s.peekByte() != '?' {
		s.groups++
		return s.lexeme(TokLeftParen, start)
	}
	s.pos++
	switch s.peekByte() {
	case ':':
		s.pos++
		return s.lexeme(TokNonCapGroup, start)
	case '=':
		s.pos++
		return s.lexeme(TokPosLookAhead, start)
	case '!':
		s.pos++
		return s.lexeme(TokNegLookAhead, start)
	case '>':
		s.pos++
		return s.lexeme(TokAtomicGroup, start)
	case '<':
		s.pos++
		switch s.peekByte() {
		case '=':
			s.pos++
			return s.lexeme(TokPosLookBehind, start)
		case '!':
			s.pos++
			return s.lexeme(TokNegLookBehind, start)
		}
		s.fail(ErrUnknownGroupType, s.pos)
	}
	return s.scanFlags(start)
}

// scanFlags reads idmsux-idmsux followed by ')' (flags for the rest of the
// enclosing group) or ':' (flags scoped to a new non-capturing group).
func (s *scanner) scanFlags(start int) Lexeme {
	flags := s.flags
	neg := false
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '-' && !neg:
			neg = true
		case c == ')':
			s.pos++
			s.stack = s.stack[:len(s.stack)-1]
			s.flags = flags
			return s.lexeme(TokFlags, start)
		case c == ':':
			s.pos++
			s.flags = flags
			return s.lexeme(TokFlagGroup, start)
		default:
			f, ok := inlineFlag(rune(c))
			if !ok {
				s.fail(ErrUnknownFlag, s.pos)
			}
			if neg {
				flags &^= f
			} else {
				flags |= f
			}
		}
		s.pos++
	}
	s.fail(ErrUnknownFlag, s.pos)
	return Lexeme{}
}

//nolint:gocyclo,cyclop // one case per escape letter
func (s *scanner) scanEscape(start int) (Lexeme, bool) {
	if s.pos >= len(s.src) {
		s.fail(ErrTrailingBackslash, len(s.src))
	}
	c, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w
	inClass := s.mode == modeRange

	switch c {
	case 'Q':
		s.escapeRet = s.mode
		s.mode = modeEscape
		return Lexeme{}, false
	case '0':
		return s.lexeme(s.octal(start), start), true
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if inClass {
			s.fail(ErrIllegalEscape, start)
		}
		n := int(c - '0')
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			nn := n*10 + int(s.src[s.pos]-'0')
			if nn > s.groups {
				break
			}
			n = nn
			s.pos++
		}
		return s.lexeme(BackRefToken(n), start), true
	case 'a':
		return s.lexeme(0x07, start), true
	case 'e':
		return s.lexeme(0x1B, start), true
	case 'f':
		return s.lexeme('\f', start), true
	case 'n':
		return s.lexeme('\n', start), true
	case 'r':
		return s.lexeme('\r', start), true
	case 't':
		return s.lexeme('\t', start), true
	case 'c':
		if s.pos >= len(s.src) {
			s.fail(ErrIllegalControl, s.pos)
		}
		x, xw := utf8.DecodeRuneInString(s.src[s.pos:])
		s.pos += xw
		return s.lexeme(Token(x^64), start), true
	case 'x':
		return s.lexeme(Token(s.hex(start)), start), true
	case 'u':
		return s.lexeme(Token(s.unicodeEscape(start)), start), true
	case 'd', 'D', 's', 'S', 'w', 'W':
		var cls *CharClass
		switch c {
		case 'd', 'D':
			cls = DigitClass()
		case 's', 'S':
			cls = SpaceClass()
		default:
			cls = WordClass()
		}
		if c == 'D' || c == 'S' || c == 'W' {
			cls.SetNegated(true).Freeze()
		}
		l := s.lexeme(TokClass, start)
		l.Class = cls
		return l, true
	case 'p', 'P':
		l := s.lexeme(TokClass, start)
		l.Class = s.property(start, c == 'P')
		return l, true
	case 'b', 'B', 'A', 'G', 'Z', 'z':
		if inClass {
			s.fail(ErrIllegalEscape, start)
		}
		var tok Token
		switch c {
		case 'b':
			tok = TokWordBoundary
		case 'B':
			tok = TokNonWordBoundary
		case 'A':
			tok = TokStartOfInput
		case 'G':
			tok = TokPreviousMatch
		case 'Z':
			tok = TokEndOfInputLine
		default:
			tok = TokEndOfInput
		}
		return s.lexeme(tok, start), true
	}
	if c < utf8.RuneSelf && (isDigit(byte(c)) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')) {
		s.fail(ErrIllegalEscape, start)
	}
	return s.lexeme(Token(c), start), true
}

// octal reads \0n, \0nn or \0mnn (m <= 3).
func (s *scanner) octal(start int) Token {
	d1 := octDigit(s.peekByte())
	if d1 < 0 {
		s.fail(ErrIllegalOctal, start)
	}
	s.pos++
	v := d1
	if d2 := octDigit(s.peekByte()); d2 >= 0 {
		s.pos++
		v = v*8 + d2
		if d1 <= 3 {
			if d3 := octDigit(s.peekByte()); d3 >= 0 {
				s.pos++
				v = v*8 + d3
			}
		}
	}
	return Token(v)
}

func octDigit(c byte) int {
	if '0' <= c && c <= '7' {
		return int(c - '0')
	}
	return -1
}

func hexDigit(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// hex reads \xhh or \x{h...h}.
func (s *scanner) hex(start int) rune {
	if s.peekByte() == '{' {
		s.pos++
		v, n := 0, 0
		for ; hexDigit(s.peekByte()) >= 0; n++ {
			v = v*16 + hexDigit(s.peekByte())
			if v > utf8.MaxRune {
				s.fail(ErrIllegalHex, start)
			}
			s.pos++
		}
		if n == 0 || s.peekByte() != '}' {
			s.fail(ErrIllegalHex, start)
		}
		s.pos++
		return rune(v)
	}
	return rune(s.hexN(2, start, ErrIllegalHex))
}

// unicodeEscape reads \uhhhh; a high surrogate followed by \uDC00-\uDFFF
// combines into one supplementary code point.
func (s *scanner) unicodeEscape(start int) rune {
	v := s.hexN(4, start, ErrIllegalUnicode)
	if utf16High(v) && strings.HasPrefix(s.src[s.pos:], `\u`) {
		save := s.pos
		s.pos += 2
		lo := -1
		if s.pos+4 <= len(s.src) {
			lo = s.hexN(4, start, ErrIllegalUnicode)
		}
		if lo >= 0xDC00 && lo <= 0xDFFF {
			return rune((v-0xD800)<<10|(lo-0xDC00)) + 0x10000
		}
		s.pos = save
	}
	return rune(v)
}

func utf16High(v int) bool { return v >= 0xD800 && v <= 0xDBFF }

func (s *scanner) hexN(n, start int, desc string) int {
	v := 0
	for i := 0; i < n; i++ {
		d := hexDigit(s.peekByte())
		if d < 0 {
			s.fail(desc, start)
		}
		v = v*16 + d
		s.pos++
	}
	return v
}

// property reads the name of \p{Name} or \pN.
func (s *scanner) property(start int, negate bool) *CharClass {
	var name string
	if s.peekByte() == '{' {
		s.pos++
		end := strings.IndexByte(s.src[s.pos:], '}')
		if end < 0 {
			s.fail(ErrUnclosedProperty, start)
		}
		name = s.src[s.pos : s.pos+end]
		s.pos += end + 1
		if name == "" {
			s.fail(ErrEmptyProperty, start)
		}
	} else {
		if s.pos >= len(s.src) {
			s.fail(ErrIllegalEscape, start)
		}
		r, w := utf8.DecodeRuneInString(s.src[s.pos:])
		name = string(r)
		s.pos += w
	}
	cls, ok := LookupClass(name, FoldFor(s.flags))
	if !ok {
		s.fail(ErrUnknownProperty, start)
	}
	if negate {
		cls.SetNegated(true).Freeze()
	}
	return cls
}

// Quote returns a pattern that matches s literally, using \Q...\E.
func Quote(s string) string {
	if !strings.Contains(s, `\E`) {
		return `\Q` + s + `\E`
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	b.WriteString(`\Q`)
	for {
		i := strings.Index(s, `\E`)
		if i < 0 {
			break
		}
		b.WriteString(s[:i])
		b.WriteString(`\E\\E\Q`)
		s = s[i+2:]
	}
	b.WriteString(s)
	b.WriteString(`\E`)
	return b.String()
}
