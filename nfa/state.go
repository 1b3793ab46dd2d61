package nfa

import "unicode/utf8"

// Mode selects how the final node accepts.
type Mode uint8

const (
	// ModeFind accepts a match ending anywhere.
	ModeFind Mode = iota
	// ModeMatch accepts only a match ending at the region end.
	ModeMatch
)

// Candidates proposes start positions for an unanchored search.
// Find returns the first position at or after start where a match may
// begin, or -1 when there is none. prefilter.Prefilter satisfies it.
type Candidates interface {
	Find(haystack []byte, start int) int
}

// State is the mutable state of one search over one input. It holds group
// offsets, per-group consumer slots, loop counters, region bounds and the
// hit-end/require-end flags. Nodes write it speculatively and restore it
// when a branch fails, so a State must never be used by two searches at
// once.
type State struct {
	prog  *Program
	input []byte

	groups     []int
	consumed   []int
	loops      []int
	loopStarts []int
	captStack  []int
	unit       []rune

	left, right       int
	anchoringBounds   bool
	transparentBounds bool
	hitEnd            bool
	requireEnd        bool
	mode              Mode

	first, last   int
	previousMatch int
}

// NewState returns a state for prog with anchoring bounds enabled and
// opaque region bounds, bound to an empty input.
func NewState(prog *Program) *State {
	s := &State{
		prog:            prog,
		groups:          make([]int, 2*(prog.groupCount+1)),
		consumed:        make([]int, prog.slots),
		loops:           make([]int, prog.loops),
		loopStarts:      make([]int, prog.loops),
		unit:            make([]rune, 0, 8),
		anchoringBounds: true,
	}
	s.Reset(nil)
	return s
}

// Program returns the program the state runs.
func (s *State) Program() *Program { return s.prog }

// Reset binds input, resets the region to the whole input and discards
// match results. Bound flags are kept.
func (s *State) Reset(input []byte) {
	s.input = input
	s.left, s.right = 0, len(input)
	s.first, s.last = -1, 0
	s.previousMatch = -1
	s.hitEnd, s.requireEnd = false, false
	s.clearGroups()
}

// SetRegion limits matching to input[start:end]. The caller validates the
// bounds. Match results are discarded.
func (s *State) SetRegion(start, end int) {
	s.Reset(s.input)
	s.left, s.right = start, end
}

// SetAnchoringBounds controls whether ^, $, \A and \z match at the region
// bounds (true) or only at the input bounds.
func (s *State) SetAnchoringBounds(b bool) { s.anchoringBounds = b }

// SetTransparentBounds controls whether lookarounds and \b may see text
// outside the region.
func (s *State) SetTransparentBounds(b bool) { s.transparentBounds = b }

// AnchoringBounds reports the anchoring-bounds setting.
func (s *State) AnchoringBounds() bool { return s.anchoringBounds }

// TransparentBounds reports the transparent-bounds setting.
func (s *State) TransparentBounds() bool { return s.transparentBounds }

// Left returns the region start.
func (s *State) Left() int { return s.left }

// Right returns the region end.
func (s *State) Right() int { return s.right }

// HitEnd reports whether the last search examined the end of the region.
func (s *State) HitEnd() bool { return s.hitEnd }

// RequireEnd reports whether more input could have turned the last match
// into a non-match.
func (s *State) RequireEnd() bool { return s.requireEnd }

// First returns the start of the last match, or -1.
func (s *State) First() int { return s.first }

// Last returns the end of the last match, or 0 before any match.
func (s *State) Last() int { return s.last }

// Start returns the start offset of group g in the last match, or -1.
func (s *State) Start(g int) int { return s.groups[2*g] }

// End returns the end offset of group g in the last match, or -1.
func (s *State) End(g int) int { return s.groups[2*g+1] }

// Groups returns the group offsets of the last match as start/end pairs.
// The slice is owned by the state.
func (s *State) Groups() []int { return s.groups }

// Clear forgets the last match without touching the region.
func (s *State) Clear() {
	s.first = -1
	s.clearGroups()
}

func (s *State) clearGroups() {
	for i := range s.groups {
		s.groups[i] = -1
	}
}

func (s *State) begin(from int, mode Mode) {
	s.hitEnd, s.requireEnd = false, false
	s.first = from
	if s.previousMatch < 0 {
		s.previousMatch = from
	}
	s.clearGroups()
	s.mode = mode
}

func (s *State) end(ok bool) bool {
	if !ok {
		s.first = -1
	}
	s.previousMatch = s.last
	return ok
}

// attempt runs the program anchored at i.
func (s *State) attempt(i int) bool {
	r := s.match(s.prog.start, i)
	if r < 0 {
		return false
	}
	s.first, s.last = i, r
	return true
}

// MatchAt runs a single attempt anchored at from. With ModeMatch the match
// must also end at the region end.
func (s *State) MatchAt(from int, mode Mode) bool {
	s.begin(from, mode)
	return s.end(s.attempt(from))
}

// Find searches for the leftmost match starting at or after from. If cand
// is not nil only the positions it proposes are tried. A failed search
// always reports hitEnd, since every position up to the region end was
// considered.
func (s *State) Find(from int, cand Candidates) bool {
	s.begin(from, ModeFind)
	return s.end(s.find(s.prog.start, from, cand) >= 0)
}

// find tries start at each position from from to the region end and
// returns the position of the first success, or -1.
func (s *State) find(start NodeID, from int, cand Candidates) int {
	if s.prog.AnchoredStart() {
		// Only the anchor position can begin a match.
		if a := s.leftAnchor(); from <= a && a <= s.right {
			if r := s.match(start, a); r >= 0 {
				s.first, s.last = a, r
				return a
			}
		}
		s.hitEnd = true
		return -1
	}
	haystack := s.input[:s.right]
	for i := from; i <= s.right; {
		if cand != nil {
			if i = cand.Find(haystack, i); i < 0 {
				break
			}
		}
		if r := s.match(start, i); r >= 0 {
			s.first, s.last = i, r
			return i
		}
		if i >= s.right {
			break
		}
		_, w := utf8.DecodeRune(haystack[i:])
		i += w
	}
	s.hitEnd = true
	return -1
}

// pushCaptures saves groups [lo, hi) and returns the stack mark to restore.
func (s *State) pushCaptures(lo, hi int) int {
	mark := len(s.captStack)
	s.captStack = append(s.captStack, s.groups[2*lo:2*hi]...)
	return mark
}

// restoreCaptures writes back the groups saved at mark.
func (s *State) restoreCaptures(mark, lo int) {
	copy(s.groups[2*lo:], s.captStack[mark:])
}

func (s *State) popCaptures(mark int) {
	s.captStack = s.captStack[:mark]
}

// leftAnchor and rightAnchor are where ^ and $ match at the edges.
func (s *State) leftAnchor() int {
	if s.anchoringBounds {
		return s.left
	}
	return 0
}

func (s *State) rightAnchor() int {
	if s.anchoringBounds {
		return s.right
	}
	return len(s.input)
}

// lookLeft and lookRight are the bounds visible to lookarounds and \b.
func (s *State) lookLeft() int {
	if s.transparentBounds {
		return 0
	}
	return s.left
}

func (s *State) lookRight() int {
	if s.transparentBounds {
		return len(s.input)
	}
	return s.right
}
