// Package sparse implements a sparse set over dense integer keys.
//
// Insert, Contains and Clear are O(1), and clearing does not touch the
// backing arrays, so one set can serve many walks over the same graph.
// The node graph of a pattern is cyclic through quantifier back-edges, so
// every whole-graph walk keeps one as its visited set.
package sparse

// Set holds keys in [0, capacity). The sparse array maps a key to its
// position in dense; a key is present when that position points back at it.
type Set[K ~uint32] struct {
	sparse []uint32
	dense  []K
}

// New returns an empty set for keys below capacity.
func New[K ~uint32](capacity int) *Set[K] {
	return &Set[K]{
		sparse: make([]uint32, capacity),
		dense:  make([]K, 0, capacity),
	}
}

// Insert adds k and reports whether it was absent. Keys at or above the
// capacity panic.
func (s *Set[K]) Insert(k K) bool {
	if s.Contains(k) {
		return false
	}
	s.sparse[k] = uint32(len(s.dense))
	s.dense = append(s.dense, k)
	return true
}

// Contains reports whether k is in the set. Keys at or above the capacity
// are never present.
func (s *Set[K]) Contains(k K) bool {
	if uint64(k) >= uint64(len(s.sparse)) {
		return false
	}
	i := s.sparse[k]
	return int(i) < len(s.dense) && s.dense[i] == k
}

// Clear empties the set.
func (s *Set[K]) Clear() { s.dense = s.dense[:0] }

// Len returns the number of keys.
func (s *Set[K]) Len() int { return len(s.dense) }
