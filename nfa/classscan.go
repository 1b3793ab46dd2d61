package nfa

import "github.com/coregx/jregex/simd"

// classTable returns the byte membership table used to scan runs of the
// class leaf at id, or nil when the leaf is not an ASCII-only class.
// Every member of such a class is one byte wide, so a run of members is a
// run of table bytes.
func (b *Builder) classTable(id NodeID) *[256]bool {
	n := &b.nodes[id]
	if n.kind != KindClass {
		return nil
	}
	t, ok := n.class.ByteTable()
	if !ok {
		return nil
	}
	return t
}

// scanClass consumes up to limit members of an ASCII-only class starting
// at i and returns the end index and the number of members consumed.
// Reaching the region end with repetitions left sets hitEnd, as the
// per-rune loop would.
func (s *State) scanClass(table *[256]bool, i, limit int) (int, int) {
	end := s.right
	if limit < end-i {
		end = i + limit
	}
	k := simd.MemchrNotInTable(s.input[i:end], table)
	if k < 0 {
		k = end - i
	}
	if i+k == s.right && k < limit {
		s.hitEnd = true
	}
	return i + k, k
}
