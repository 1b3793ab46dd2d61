// Package meta ties a compiled program to its prefilter and drives
// searches over it.
//
// Compiling a pattern through meta runs the whole pipeline: the pattern is
// compiled into an nfa.Program, literal prefixes and first bytes are
// extracted, and the best prefilter is selected. A Searcher then runs the
// backtracking matcher only at the positions the prefilter proposes, and
// retires the prefilter through a tracker when it stops paying off.
package meta

import "github.com/coregx/jregex/nfa"

// Config controls compilation limits and prefilter selection.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false // run the matcher at every position
//	engine, err := meta.CompileWithConfig(`\d+`, 0, config)
type Config struct {
	// EnablePrefilter enables literal and first-byte prefiltering.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the minimum length of prefilter literals. Literal
	// sets with a shorter member fall back to the first-byte table.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals limits the number of literals extracted for
	// prefiltering. Default: 64
	MaxLiterals int

	// MinAhoCorasickLiterals is the number of literals from which an
	// Aho-Corasick automaton replaces the first-byte scan. Default: 4
	MinAhoCorasickLiterals int

	// MaxNodes limits the size of the compiled graph. Default: 1<<20
	MaxNodes int

	// MaxNesting limits the group nesting depth. Default: 1000
	MaxNesting int

	// EnableTracker retires a prefilter whose candidates rarely match.
	// Default: true
	EnableTracker bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	opts := nfa.DefaultOptions()
	return Config{
		EnablePrefilter:        true,
		MinLiteralLen:          1,
		MaxLiterals:            64,
		MinAhoCorasickLiterals: 4,
		MaxNodes:               opts.MaxNodes,
		MaxNesting:             opts.MaxNesting,
		EnableTracker:          true,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MinLiteralLen: 1 to 64
//   - MaxLiterals: 1 to 1,000
//   - MinAhoCorasickLiterals: 2 to 1,000
//   - MaxNodes: 16 to 1<<26
//   - MaxNesting: 1 to 100,000
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
		if c.MinAhoCorasickLiterals < 2 || c.MinAhoCorasickLiterals > 1_000 {
			return &ConfigError{
				Field:   "MinAhoCorasickLiterals",
				Message: "must be between 2 and 1,000",
			}
		}
	}
	if c.MaxNodes < 16 || c.MaxNodes > 1<<26 {
		return &ConfigError{
			Field:   "MaxNodes",
			Message: "must be between 16 and 67,108,864",
		}
	}
	if c.MaxNesting < 1 || c.MaxNesting > 100_000 {
		return &ConfigError{
			Field:   "MaxNesting",
			Message: "must be between 1 and 100,000",
		}
	}
	return nil
}

// options returns the compiler limits of the configuration.
func (c Config) options() nfa.Options {
	return nfa.Options{MaxNodes: c.MaxNodes, MaxNesting: c.MaxNesting}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
