package nfa

import (
	"errors"
	"fmt"
)

// Common compilation errors
var (
	// ErrTooComplex indicates the pattern exceeds the node or nesting limit
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidFlags indicates flag bits outside syntax.AllFlags
	ErrInvalidFlags = errors.New("invalid compile flags")

	// ErrInvalidConfig indicates invalid compiler configuration was provided
	ErrInvalidConfig = errors.New("invalid NFA configuration")
)

// CompileError wraps compilation errors with additional context.
// Syntax errors are returned unwrapped as *syntax.PatternSyntaxError.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during graph construction via the Builder API
type BuildError struct {
	Message string
	NodeID  NodeID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.NodeID != InvalidNode {
		return fmt.Sprintf("NFA build error at node %d: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
