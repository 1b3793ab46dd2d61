package nfa

import (
	"github.com/coregx/jregex/canon"
)

// acceptCanon matches one canonical unit of input against a decomposed
// character, a Hangul syllable or a class. The input unit is decomposed
// and ordered first, so precomposed and decomposed spellings compare
// equal.
func (s *State) acceptCanon(n *Node, i int) int {
	unit, w := canon.NextUnit(s.input[:s.right], i, s.unit)
	s.unit = unit
	if w == 0 {
		s.hitEnd = true
		return -1
	}
	if n.kind == KindCanonClass {
		r, ok := canon.Compose(unit)
		if !ok || !n.class.Contains(r) {
			return -1
		}
		return w
	}
	if len(unit) != len(n.runes) {
		// More marks could still complete the unit.
		if len(unit) < len(n.runes) && i+w >= s.right {
			s.hitEnd = true
		}
		return -1
	}
	for k, r := range unit {
		if !foldEqual(r, n.runes[k], n.fold) {
			return -1
		}
	}
	return w
}
