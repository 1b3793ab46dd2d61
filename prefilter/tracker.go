package prefilter

// Tracker retires a prefilter that keeps proposing positions where the
// pattern does not match.
//
// Every candidate the prefilter returns costs a matcher attempt. When, after
// a warm-up, fewer than MinEfficiency of the candidates lead to a match, a
// plain scan is cheaper: the tracker stops consulting the prefilter and
// proposes every position (Find returns start).
//
// A Tracker counts per search session and belongs to one Searcher:
//
//	tracker := prefilter.NewTracker(pf)
//	if state.Find(from, tracker) {
//	    tracker.ConfirmMatch()
//	}
type Tracker struct {
	inner  Prefilter
	config TrackerConfig

	candidates uint64
	confirmed  uint64
	// checked is the candidate count at the last ratio check.
	checked uint64
	retired bool
}

// TrackerConfig sets when a prefilter is retired.
type TrackerConfig struct {
	// CheckInterval is the number of candidates between two ratio checks.
	CheckInterval uint64

	// MinEfficiency is the lowest confirmed/candidates ratio that keeps
	// the prefilter in use.
	MinEfficiency float64

	// WarmupPeriod is the number of candidates seen before the first
	// check, so a few early misses do not retire the prefilter.
	WarmupPeriod uint64
}

// DefaultTrackerConfig checks every 64 candidates after the first 128 and
// retires the prefilter below a 10% hit rate.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{CheckInterval: 64, MinEfficiency: 0.1, WarmupPeriod: 128}
}

// TrackerStats is a snapshot of a tracker's counters.
type TrackerStats struct {
	Candidates uint64
	Confirmed  uint64
	Active     bool
}

// Efficiency returns the share of candidates that matched, or 0 before the
// first candidate.
func (s TrackerStats) Efficiency() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Confirmed) / float64(s.Candidates)
}

// NewTracker tracks inner with DefaultTrackerConfig. It returns nil for a
// nil prefilter.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig tracks inner with config. It returns nil for a nil
// prefilter.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{inner: inner, config: config}
}

// Find implements nfa.Candidates.
func (t *Tracker) Find(haystack []byte, start int) int {
	if t.retired {
		return start
	}
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.check()
	}
	return pos
}

// ConfirmMatch records that the last candidate matched.
func (t *Tracker) ConfirmMatch() { t.confirmed++ }

// IsActive reports whether the prefilter is still consulted.
func (t *Tracker) IsActive() bool { return !t.retired }

// Stats returns the current counters.
func (t *Tracker) Stats() TrackerStats {
	return TrackerStats{Candidates: t.candidates, Confirmed: t.confirmed, Active: !t.retired}
}

// Reset zeroes the counters and brings a retired prefilter back. Searchers
// call it when they are bound to new input.
func (t *Tracker) Reset() {
	t.candidates, t.confirmed, t.checked = 0, 0, 0
	t.retired = false
}

func (t *Tracker) check() {
	c := t.config
	if t.candidates < c.WarmupPeriod || t.candidates-t.checked < c.CheckInterval {
		return
	}
	t.checked = t.candidates
	if t.Stats().Efficiency() < c.MinEfficiency {
		t.retired = true
	}
}
