package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// Error descriptions used by PatternSyntaxError.
const (
	ErrDanglingMeta        = "Dangling meta character"
	ErrIllegalRepetition   = "Illegal repetition"
	ErrRepetitionRange     = "Illegal repetition range"
	ErrUnclosedGroup       = "Unclosed group"
	ErrUnmatchedParen      = "Unmatched closing ')'"
	ErrUnclosedClass       = "Unclosed character class"
	ErrIllegalRange        = "Illegal character range"
	ErrUnknownFlag         = "Unknown inline modifier"
	ErrUnknownGroupType    = "Unknown group type"
	ErrIllegalEscape       = "Illegal/unsupported escape sequence"
	ErrTrailingBackslash   = "Unexpected internal error"
	ErrIllegalOctal        = "Illegal octal escape sequence"
	ErrIllegalHex          = "Illegal hexadecimal escape sequence"
	ErrIllegalUnicode      = "Illegal Unicode escape sequence"
	ErrIllegalControl      = "Illegal control escape sequence"
	ErrUnknownProperty     = "Unknown character property name"
	ErrUnclosedProperty    = "Unclosed character family"
	ErrEmptyProperty       = "Empty character family"
	ErrNoSuchGroup         = "No such group"
	ErrUnclosedQuantifier  = "Unclosed counted closure"
	ErrQuantifierOverflow  = "Repetition count too large"
	ErrUnexpectedCharacter = "Unexpected character"
)

// ErrSyntax matches every *PatternSyntaxError via errors.Is.
var ErrSyntax = errors.New("regex syntax error")

// PatternSyntaxError reports a malformed pattern.
//
// Index is the byte offset of the offending construct in Pattern, or -1 when
// no single position applies. Compilation always aborts on this error.
type PatternSyntaxError struct {
	Desc    string
	Pattern string
	Index   int
}

// NewPatternSyntaxError returns a *PatternSyntaxError.
func NewPatternSyntaxError(desc, pattern string, index int) *PatternSyntaxError {
	return &PatternSyntaxError{Desc: desc, Pattern: pattern, Index: index}
}

// Error implements the error interface.
func (e *PatternSyntaxError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("error parsing regexp: %s near index %d: `%s`", e.Desc, e.Index, e.Pattern)
	}
	return fmt.Sprintf("error parsing regexp: %s: `%s`", e.Desc, e.Pattern)
}

// Message renders a multi-line diagnostic with a caret under the offending
// position:
//
//	Unclosed group near index 4
//	(abc
//	    ^
func (e *PatternSyntaxError) Message() string {
	var b strings.Builder
	b.WriteString(e.Desc)
	if e.Index >= 0 {
		fmt.Fprintf(&b, " near index %d", e.Index)
	}
	b.WriteByte('\n')
	b.WriteString(e.Pattern)
	if e.Index >= 0 && e.Index <= len(e.Pattern) {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", e.Index))
		b.WriteByte('^')
	}
	return b.String()
}

// Is makes errors.Is(err, ErrSyntax) true.
func (e *PatternSyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
