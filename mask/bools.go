// Package mask provides indicator vectors: one boolean per row, used to
// select rows of a table.
//
// Bools is a distinct type rather than a []bool so that the only way to
// combine two indicators is through the elementwise combinators And, Or,
// Xor and Not. Writing `a && b` for two indicators does not compile.
//
// Example:
//
//	above, _ := mask.Compare(t, "score", mask.Gt, 0.7)
//	below, _ := mask.Compare(t, "score", mask.Lt, 0.9)
//	both, _ := above.And(below)
//	rows, _ := mask.Filter(t, both)
package mask

import (
	"github.com/vegasq/tabcat/seq"
	"github.com/vegasq/tabcat/table"
)

// Bools is an indicator vector.
type Bools struct {
	v []bool
}

// Of builds an indicator from explicit values.
func Of(values ...bool) Bools {
	return Bools{v: append([]bool(nil), values...)}
}

// Full returns an indicator of length n with every position set to value.
func Full(n int, value bool) Bools {
	return Bools{v: seq.Repeat(value, n)}
}

// Len returns the number of positions.
func (b Bools) Len() int {
	return len(b.v)
}

// At returns position i.
func (b Bools) At(i int) bool {
	return b.v[i]
}

// Values returns a copy of the positions.
func (b Bools) Values() []bool {
	return append([]bool(nil), b.v...)
}

// Count returns the number of true positions.
func (b Bools) Count() int {
	n := 0
	for _, v := range b.v {
		if v {
			n++
		}
	}
	return n
}

// Indices returns the true positions in ascending order.
func (b Bools) Indices() []int {
	out := make([]int, 0, b.Count())
	for i, v := range b.v {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// Any reports whether at least one position is true.
func (b Bools) Any() bool {
	return b.Count() > 0
}

// All reports whether every position is true. An empty indicator is all
// true.
func (b Bools) All() bool {
	return b.Count() == len(b.v)
}

// And combines b and other position by position.
func (b Bools) And(other Bools) (Bools, error) {
	return b.zip(other, func(x, y bool) bool { return x && y })
}

// Or combines b and other position by position.
func (b Bools) Or(other Bools) (Bools, error) {
	return b.zip(other, func(x, y bool) bool { return x || y })
}

// Xor combines b and other position by position.
func (b Bools) Xor(other Bools) (Bools, error) {
	return b.zip(other, func(x, y bool) bool { return x != y })
}

// Not inverts every position.
func (b Bools) Not() Bools {
	return Bools{v: seq.Map(b.v, func(x bool) bool { return !x })}
}

func (b Bools) zip(other Bools, fn func(x, y bool) bool) (Bools, error) {
	out, err := seq.ZipWith(b.v, other.v, fn)
	if err != nil {
		return Bools{}, &table.ShapeError{What: "indicator length", Want: len(b.v), Got: len(other.v)}
	}
	return Bools{v: out}, nil
}
