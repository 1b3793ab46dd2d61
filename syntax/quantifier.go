package syntax

import (
	"math"
	"strconv"
)

// Unbounded is the sentinel maximum of an open quantifier ({n,}, *, +).
const Unbounded = math.MaxInt32

// Quantifier is an immutable repetition range. 0 <= Min <= Max.
type Quantifier struct {
	Min int
	Max int
}

// Common quantifiers.
var (
	QuantStar = Quantifier{Min: 0, Max: Unbounded}
	QuantPlus = Quantifier{Min: 1, Max: Unbounded}
	QuantOpt  = Quantifier{Min: 0, Max: 1}
)

// IsUnbounded reports whether the quantifier has no upper limit.
func (q Quantifier) IsUnbounded() bool {
	return q.Max == Unbounded
}

// String returns the pattern form: *, +, ?, {n}, {n,} or {n,m}.
func (q Quantifier) String() string {
	switch q {
	case QuantStar:
		return "*"
	case QuantPlus:
		return "+"
	case QuantOpt:
		return "?"
	}
	if q.Min == q.Max {
		return "{" + strconv.Itoa(q.Min) + "}"
	}
	if q.IsUnbounded() {
		return "{" + strconv.Itoa(q.Min) + ",}"
	}
	return "{" + strconv.Itoa(q.Min) + "," + strconv.Itoa(q.Max) + "}"
}

// Greediness is the backtracking policy of a quantifier.
type Greediness uint8

const (
	// Greedy tries the maximum first and backtracks down to the minimum.
	Greedy Greediness = iota
	// Reluctant tries the minimum first and extends on later failure.
	Reluctant
	// Possessive takes the maximum and never gives it back.
	Possessive
)

// String returns the greediness name.
func (g Greediness) String() string {
	switch g {
	case Greedy:
		return "greedy"
	case Reluctant:
		return "reluctant"
	case Possessive:
		return "possessive"
	default:
		return "Greediness(" + strconv.Itoa(int(g)) + ")"
	}
}
