package meta

import (
	"sync/atomic"

	"github.com/coregx/jregex/nfa"
	"github.com/coregx/jregex/prefilter"
)

// Searcher runs searches of one Engine over one input at a time. It owns
// an nfa.State and, when the engine has a prefilter, a tracker that
// retires the prefilter for inputs where it keeps proposing positions
// that do not match.
//
// A Searcher is not safe for concurrent use.
type Searcher struct {
	engine  *Engine
	state   *nfa.State
	tracker *prefilter.Tracker
	retired bool
}

// NewSearcher returns a searcher bound to an empty input.
func (e *Engine) NewSearcher() *Searcher {
	s := &Searcher{engine: e, state: nfa.NewState(e.prog)}
	if e.prefilter != nil && e.config.EnableTracker {
		s.tracker = prefilter.NewTracker(e.prefilter)
	}
	return s
}

// Engine returns the engine the searcher runs.
func (s *Searcher) Engine() *Engine { return s.engine }

// State returns the match state. Its offsets describe the last search.
func (s *Searcher) State() *nfa.State { return s.state }

// Reset binds new input, resets the region and re-arms the prefilter.
func (s *Searcher) Reset(input []byte) {
	s.state.Reset(input)
	if s.tracker != nil {
		s.tracker.Reset()
		s.retired = false
	}
}

// Find searches for the leftmost match starting at or after from.
func (s *Searcher) Find(from int) bool {
	e := s.engine
	var cand nfa.Candidates
	switch {
	case s.tracker != nil:
		cand = s.tracker
	case e.prefilter != nil:
		cand = e.prefilter
	}
	ok := e.find(s.state, from, cand)
	if s.tracker != nil {
		if ok {
			s.tracker.ConfirmMatch()
		}
		if !s.retired && !s.tracker.IsActive() {
			s.retired = true
			atomic.AddUint64(&e.stats.PrefilterAbandoned, 1)
		}
	}
	return ok
}

// MatchAt runs one attempt anchored at from. With nfa.ModeMatch the match
// must end at the region end.
func (s *Searcher) MatchAt(from int, mode nfa.Mode) bool {
	e := s.engine
	atomic.AddUint64(&e.stats.Searches, 1)
	ok := s.state.MatchAt(from, mode)
	if ok {
		atomic.AddUint64(&e.stats.Matches, 1)
	}
	return ok
}
