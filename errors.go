package jregex

import (
	"errors"

	"github.com/coregx/jregex/syntax"
)

// Match-time errors. They report misuse of a Matcher; a failed match is
// not an error.
var (
	// ErrIndexOutOfBounds is returned for a region or start index outside
	// the input, and for a replacement that references a group the pattern
	// does not have.
	ErrIndexOutOfBounds = errors.New("regexp: index out of bounds")

	// ErrNoMatch is returned by AppendReplacement when the last match
	// attempt failed or none was made.
	ErrNoMatch = errors.New("regexp: no match available")

	// ErrIllegalGroupReference is returned for a '$' in a replacement
	// string that is not followed by a group number.
	ErrIllegalGroupReference = errors.New("regexp: illegal group reference")

	// ErrMissingEscape is returned for a replacement string ending in a
	// lone backslash.
	ErrMissingEscape = errors.New("regexp: character to be escaped is missing")
)

// PatternSyntaxError reports a malformed pattern, with the offending
// index.
type PatternSyntaxError = syntax.PatternSyntaxError

// ErrSyntax matches every *PatternSyntaxError with errors.Is.
var ErrSyntax = syntax.ErrSyntax
