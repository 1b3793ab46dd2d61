package meta

import (
	"sync"
	"sync/atomic"

	"github.com/coregx/jregex/literal"
	"github.com/coregx/jregex/nfa"
	"github.com/coregx/jregex/prefilter"
	"github.com/coregx/jregex/syntax"
)

// Engine is a compiled pattern together with its prefilter.
//
// The Engine is immutable after compilation apart from its statistics, so
// it may be shared between goroutines. Searches run in a Searcher, which
// holds the mutable match state and must not be shared.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`, 0)
//	if err != nil {
//	    return err
//	}
//	s := engine.NewSearcher()
//	s.Reset([]byte("test foo123 end"))
//	if s.Find(0) {
//	    fmt.Println(s.State().First(), s.State().Last()) // 5 11
//	}
type Engine struct {
	// IMPORTANT: stats MUST be first field for proper 8-byte alignment on 32-bit platforms.
	stats Stats

	prog      *nfa.Program
	prefilter prefilter.Prefilter
	config    Config
	states    sync.Pool
}

// Stats counts searches and how the prefilter performed. Engine.Stats
// returns a snapshot.
type Stats struct {
	// Searches counts Find and MatchAt calls.
	Searches uint64

	// Matches counts searches that found a match.
	Matches uint64

	// PrefilterSearches counts searches driven by a prefilter.
	PrefilterSearches uint64

	// PrefilterHits counts prefilter-driven searches that matched.
	PrefilterHits uint64

	// PrefilterMisses counts prefilter-driven searches that did not match.
	PrefilterMisses uint64

	// PrefilterAbandoned counts searchers whose prefilter was retired.
	PrefilterAbandoned uint64

	// LiteralMatches counts IsMatch and FindIndex calls answered by a
	// complete prefilter without running the matcher.
	LiteralMatches uint64

	// PrefilterBytes is the heap memory held by the prefilter. It
	// describes the compiled engine and survives ResetStats.
	PrefilterBytes uint64
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string, flags syntax.Flags) (*Engine, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration.
//
// Malformed patterns yield a *syntax.PatternSyntaxError; an invalid
// configuration yields a *ConfigError.
func CompileWithConfig(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prog, err := nfa.Compile(pattern, flags, config.options())
	if err != nil {
		return nil, err
	}
	return NewEngine(prog, config), nil
}

// NewEngine builds the prefilter for an already compiled program.
func NewEngine(prog *nfa.Program, config Config) *Engine {
	e := &Engine{
		prog:      prog,
		prefilter: buildPrefilter(prog, config),
		config:    config,
	}
	e.states.New = func() any { return nfa.NewState(e.prog) }
	return e
}

// buildPrefilter extracts literal prefixes and first bytes and selects a
// prefilter. Anchored programs never need one: only a single position
// can start a match.
func buildPrefilter(prog *nfa.Program, config Config) prefilter.Prefilter {
	if !config.EnablePrefilter || prog.AnchoredStart() {
		return nil
	}
	lc := literal.DefaultConfig()
	lc.MaxLiterals = config.MaxLiterals
	prefixes := literal.New(lc).ExtractPrefixes(prog)
	return prefilter.NewBuilder(prefixes, nfa.ExtractFirstBytes(prog)).
		WithConfig(prefilter.Config{
			MinLiteralLen:          config.MinLiteralLen,
			MinAhoCorasickLiterals: config.MinAhoCorasickLiterals,
		}).
		Build()
}

// Program returns the compiled program.
func (e *Engine) Program() *nfa.Program { return e.prog }

// Prefilter returns the selected prefilter, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter { return e.prefilter }

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config { return e.config }

// GroupCount returns the number of capturing groups, not counting group 0.
func (e *Engine) GroupCount() int { return e.prog.GroupCount() }

// Stats returns a snapshot of the search statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:           atomic.LoadUint64(&e.stats.Searches),
		Matches:            atomic.LoadUint64(&e.stats.Matches),
		PrefilterSearches:  atomic.LoadUint64(&e.stats.PrefilterSearches),
		PrefilterHits:      atomic.LoadUint64(&e.stats.PrefilterHits),
		PrefilterMisses:    atomic.LoadUint64(&e.stats.PrefilterMisses),
		PrefilterAbandoned: atomic.LoadUint64(&e.stats.PrefilterAbandoned),
		LiteralMatches:     atomic.LoadUint64(&e.stats.LiteralMatches),
		PrefilterBytes:     e.prefilterBytes(),
	}
}

func (e *Engine) prefilterBytes() uint64 {
	if e.prefilter == nil {
		return 0
	}
	return uint64(e.prefilter.HeapBytes()) // #nosec G115 -- heap sizes are non-negative
}

// ResetStats resets the statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.Matches, 0)
	atomic.StoreUint64(&e.stats.PrefilterSearches, 0)
	atomic.StoreUint64(&e.stats.PrefilterHits, 0)
	atomic.StoreUint64(&e.stats.PrefilterMisses, 0)
	atomic.StoreUint64(&e.stats.PrefilterAbandoned, 0)
	atomic.StoreUint64(&e.stats.LiteralMatches, 0)
}

// IsMatch reports whether haystack contains a match. It is safe for
// concurrent use: the match state comes from a pool.
//
// A complete prefilter answers on its own, since any literal occurrence
// is a whole match.
func (e *Engine) IsMatch(haystack []byte) bool {
	if pf := e.prefilter; pf != nil && pf.IsComplete() {
		atomic.AddUint64(&e.stats.LiteralMatches, 1)
		return pf.Find(haystack, 0) >= 0
	}
	st := e.getState()
	defer e.putState(st)
	st.Reset(haystack)
	return e.find(st, 0, e.candidates())
}

// FindIndex returns the bounds of the leftmost match in haystack, or nil.
// It is safe for concurrent use.
//
// When the prefilter is complete and its literals share one length, the
// leftmost literal occurrence is the match and the matcher is skipped.
func (e *Engine) FindIndex(haystack []byte) []int {
	if pf := e.prefilter; pf != nil && pf.IsComplete() {
		if n := pf.LiteralLen(); n > 0 {
			atomic.AddUint64(&e.stats.LiteralMatches, 1)
			pos := pf.Find(haystack, 0)
			if pos < 0 {
				return nil
			}
			return []int{pos, pos + n}
		}
	}
	st := e.getState()
	defer e.putState(st)
	st.Reset(haystack)
	if !e.find(st, 0, e.candidates()) {
		return nil
	}
	return []int{st.First(), st.Last()}
}

// candidates returns the prefilter as an nfa.Candidates, or nil.
func (e *Engine) candidates() nfa.Candidates {
	if e.prefilter == nil {
		return nil
	}
	return e.prefilter
}

// find runs one search and updates the statistics.
func (e *Engine) find(st *nfa.State, from int, cand nfa.Candidates) bool {
	atomic.AddUint64(&e.stats.Searches, 1)
	ok := st.Find(from, cand)
	if ok {
		atomic.AddUint64(&e.stats.Matches, 1)
	}
	if cand != nil {
		atomic.AddUint64(&e.stats.PrefilterSearches, 1)
		if ok {
			atomic.AddUint64(&e.stats.PrefilterHits, 1)
		} else {
			atomic.AddUint64(&e.stats.PrefilterMisses, 1)
		}
	}
	return ok
}

func (e *Engine) getState() *nfa.State {
	return e.states.Get().(*nfa.State)
}

// putState drops the input reference before pooling the state.
func (e *Engine) putState(st *nfa.State) {
	st.Reset(nil)
	e.states.Put(st)
}
