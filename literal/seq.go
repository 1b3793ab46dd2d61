// Package literal extracts the literal byte strings every match must begin
// with, for use as prefilter needles.
//
// A Literal is a concrete byte string; a Seq is a set of alternatives
// (from /foo|bar/, small classes or ASCII case variants). A match can only
// start where one of the literals of the prefix Seq occurs.
package literal

import (
	"bytes"

	"golang.org/x/exp/slices"
)

// Literal is a byte string a match starts with. Complete is true when the
// literal is the entire match, not just its prefix.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral returns a Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging form of the literal.
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq returns a sequence of the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i'th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// Literals returns the literals. The slice is owned by the sequence.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// AllComplete reports whether every literal is a complete match.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, l := range s.literals {
		if !l.Complete {
			return false
		}
	}
	return true
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, l := range s.literals[1:] {
		n = min(n, len(l.Bytes))
	}
	return n
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	out := make([]Literal, len(s.literals))
	for i, l := range s.literals {
		out[i] = Literal{Bytes: slices.Clone(l.Bytes), Complete: l.Complete}
	}
	return &Seq{literals: out}
}

// Minimize removes duplicates and every literal that has a shorter
// literal of the set as a prefix: any text where the longer one starts
// also has the shorter one starting there. Order by length is kept.
//
// A literal that absorbs a longer one stops being complete, since a match
// may now be longer than the needle.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	order := make([]int, len(s.literals))
	for i := range order {
		order[i] = i
	}
	// Stable by length: shorter literals first, ties in input order.
	lens := make([]int, len(s.literals))
	for i, l := range s.literals {
		lens[i] = len(l.Bytes)
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && lens[order[j]] < lens[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	kept := make([]Literal, 0, len(s.literals))
	for _, idx := range order {
		cur := s.literals[idx]
		absorbed := false
		for k := range kept {
			if bytes.HasPrefix(cur.Bytes, kept[k].Bytes) {
				if !bytes.Equal(cur.Bytes, kept[k].Bytes) || !cur.Complete {
					kept[k].Complete = false
				}
				absorbed = true
				break
			}
		}
		if !absorbed {
			kept = append(kept, cur)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for _, l := range s.literals[1:] {
		n := 0
		for n < len(prefix) && n < len(l.Bytes) && prefix[n] == l.Bytes[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return slices.Clone(prefix)
}

// Equal reports whether two sequences hold the same literals in the same
// order.
func (s *Seq) Equal(o *Seq) bool {
	return slices.EqualFunc(s.Literals(), o.Literals(), func(a, b Literal) bool {
		return a.Complete == b.Complete && bytes.Equal(a.Bytes, b.Bytes)
	})
}
