package jregex

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Replacement strings are made of literal text, escapes (\x stands for x),
// and group references ($n). A lone '$' or a trailing '\' is an error.
var replacementLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escape", Pattern: `\\(?s:.)`},
	{Name: "Backslash", Pattern: `\\`},
	{Name: "Ref", Pattern: `\$[0-9]+`},
	{Name: "Dollar", Pattern: `\$`},
	{Name: "Text", Pattern: `[^\\$]+`},
})

type template struct {
	Parts []*templatePart `parser:"@@*"`
}

type templatePart struct {
	Escape    *string `parser:"  @Escape"`
	Ref       *string `parser:"| @Ref"`
	Dollar    *string `parser:"| @Dollar"`
	Backslash *string `parser:"| @Backslash"`
	Text      *string `parser:"| @Text"`
}

var replacementParser = participle.MustBuild[template](participle.Lexer(replacementLexer))

func parseTemplate(repl string) (*template, error) {
	t, err := replacementParser.ParseString("", repl)
	if err != nil {
		return nil, fmt.Errorf("regexp: parsing replacement %q: %w", repl, err)
	}
	return t, nil
}

// groups is what a template needs to know about a match.
type groups interface {
	GroupCount() int
	Group(n int) (string, bool)
}

// expand appends the template, with references resolved against g, to dst.
// Nothing is appended when an error is returned.
func (t *template) expand(dst []byte, g groups) ([]byte, error) {
	mark := len(dst)
	for _, p := range t.Parts {
		switch {
		case p.Text != nil:
			dst = append(dst, *p.Text...)
		case p.Escape != nil:
			dst = append(dst, (*p.Escape)[1:]...)
		case p.Ref != nil:
			var err error
			if dst, err = appendRef(dst, (*p.Ref)[1:], g); err != nil {
				return dst[:mark], err
			}
		case p.Dollar != nil:
			return dst[:mark], ErrIllegalGroupReference
		case p.Backslash != nil:
			return dst[:mark], ErrMissingEscape
		}
	}
	return dst, nil
}

// appendRef resolves a run of digits following '$'. The first digit is
// always part of the group number; later digits are taken while the number
// still names a group, and the rest is literal text.
func appendRef(dst []byte, digits string, g groups) ([]byte, error) {
	count := g.GroupCount()
	ref := int(digits[0] - '0')
	if ref > count {
		return dst, fmt.Errorf("%w: no group %d", ErrIndexOutOfBounds, ref)
	}
	i := 1
	for ; i < len(digits); i++ {
		next := ref*10 + int(digits[i]-'0')
		if next > count {
			break
		}
		ref = next
	}
	if s, ok := g.Group(ref); ok {
		dst = append(dst, s...)
	}
	return append(dst, digits[i:]...), nil
}

// parsedTemplate returns the parsed form of repl, reusing the last one.
func (m *Matcher) parsedTemplate(repl string) (*template, error) {
	if m.replTmpl != nil && m.replSrc == repl {
		return m.replTmpl, nil
	}
	t, err := parseTemplate(repl)
	if err != nil {
		return nil, err
	}
	m.replSrc, m.replTmpl = repl, t
	return t, nil
}

// AppendReplacement appends the input between the previous append position
// and the current match, followed by the expanded replacement, to dst. The
// append position moves to the end of the match.
//
// It is meant for loops that rewrite matches selectively:
//
//	var out []byte
//	for m.Find() {
//	    out, err = m.AppendReplacement(out, "<$0>")
//	}
//	out = m.AppendTail(out)
func (m *Matcher) AppendReplacement(dst []byte, repl string) ([]byte, error) {
	if m.first < 0 {
		return dst, ErrNoMatch
	}
	t, err := m.parsedTemplate(repl)
	if err != nil {
		return dst, err
	}
	mark := len(dst)
	dst = append(dst, m.input[m.appendPos:m.first]...)
	if dst, err = t.expand(dst, m); err != nil {
		return dst[:mark], err
	}
	m.appendPos = m.last
	return dst, nil
}

// AppendTail appends the input from the append position to the end.
func (m *Matcher) AppendTail(dst []byte) []byte {
	return append(dst, m.input[m.appendPos:]...)
}

// ReplaceAll resets the matcher and replaces every match.
func (m *Matcher) ReplaceAll(repl string) (string, error) {
	return m.replace(repl, -1)
}

// ReplaceFirst resets the matcher and replaces the first match.
func (m *Matcher) ReplaceFirst(repl string) (string, error) {
	return m.replace(repl, 1)
}

func (m *Matcher) replace(repl string, n int) (string, error) {
	m.Reset()
	if !m.Find() {
		return string(m.input), nil
	}
	var (
		out []byte
		err error
	)
	for {
		if out, err = m.AppendReplacement(out, repl); err != nil {
			return "", err
		}
		if n--; n == 0 || !m.Find() {
			break
		}
	}
	return string(m.AppendTail(out)), nil
}

// QuoteReplacement returns a replacement string that produces s literally.
//
// Example:
//
//	jregex.QuoteReplacement(`$1\n`) // `\$1\\n`
func QuoteReplacement(s string) string {
	if !strings.ContainsAny(s, `\$`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '\\' || c == '$' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
