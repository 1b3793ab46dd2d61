package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/jregex/syntax"
)

func TestCompileError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompileError
		wantFull string
	}{
		{
			name:     "with pattern",
			err:      &CompileError{Pattern: `[a-z]+`, Err: ErrTooComplex},
			wantFull: `NFA compilation failed for pattern "[a-z]+": pattern too complex`,
		},
		{
			name:     "empty pattern",
			err:      &CompileError{Pattern: "", Err: ErrInvalidFlags},
			wantFull: "NFA compilation failed: invalid compile flags",
		},
		{
			name:     "nil inner error",
			err:      &CompileError{Pattern: "x", Err: nil},
			wantFull: `NFA compilation failed for pattern "x": <nil>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantFull {
				t.Errorf("Error() = %q, want %q", got, tt.wantFull)
			}
		})
	}
}

func TestCompileError_ErrorsIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "Is ErrTooComplex via CompileError",
			err:    &CompileError{Pattern: "a{999}", Err: ErrTooComplex},
			target: ErrTooComplex,
			want:   true,
		},
		{
			name:   "Is ErrInvalidFlags - not matching",
			err:    &CompileError{Pattern: "a", Err: ErrTooComplex},
			target: ErrInvalidFlags,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildError_Error(t *testing.T) {
	err := &BuildError{Message: "next link out of range", NodeID: 3}
	if got, want := err.Error(), "NFA build error at node 3: next link out of range"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = &BuildError{Message: "empty", NodeID: InvalidNode}
	if got, want := err.Error(), "NFA build error: empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		pattern string
		desc    string
		index   int
	}{
		{"(abc", syntax.ErrUnclosedGroup, 4},
		{"abc)", syntax.ErrUnmatchedParen, 3},
		{"*a", syntax.ErrDanglingMeta, 0},
		{"a**", syntax.ErrDanglingMeta, 2},
		{"[abc", syntax.ErrUnclosedClass, 3},
		{"[z-a]", syntax.ErrIllegalRange, 3},
		{`[a-\d]`, syntax.ErrIllegalRange, 3},
		{`\2(a)`, syntax.ErrNoSuchGroup, 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Compile(tt.pattern, 0, DefaultOptions())
			var pse *syntax.PatternSyntaxError
			if !errors.As(err, &pse) {
				t.Fatalf("Compile(%q) error = %v, want *PatternSyntaxError", tt.pattern, err)
			}
			if pse.Desc != tt.desc || pse.Index != tt.index {
				t.Errorf("Compile(%q) = %q at %d, want %q at %d", tt.pattern, pse.Desc, pse.Index, tt.desc, tt.index)
			}
		})
	}
}

func TestCompile_Limits(t *testing.T) {
	_, err := Compile("abcdefgh|ijklmnop|qrstuvwx", 0, Options{MaxNodes: 4, MaxNesting: 10})
	if !errors.Is(err, ErrTooComplex) {
		t.Errorf("node limit: err = %v, want ErrTooComplex", err)
	}
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Pattern == "" {
		t.Errorf("node limit: err = %v, want *CompileError with pattern", err)
	}

	_, err = Compile("((((a))))", 0, Options{MaxNodes: 1000, MaxNesting: 3})
	if !errors.Is(err, ErrTooComplex) {
		t.Errorf("nesting limit: err = %v, want ErrTooComplex", err)
	}

	_, err = Compile("a", syntax.Flags(1<<20), DefaultOptions())
	if !errors.Is(err, ErrInvalidFlags) {
		t.Errorf("bad flags: err = %v, want ErrInvalidFlags", err)
	}

	_, err = Compile("a", 0, Options{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero options: err = %v, want ErrInvalidConfig", err)
	}
}
