// Package seq provides small generic helpers over slices.
//
// The helpers replace hand-written loops with a single call: Map and Filter
// build new slices from an existing one, ZipWith walks two slices in
// lockstep, and Reduce folds a slice into a single value.
//
// Example:
//
//	store1 := []float64{10.00, 11.00, 12.34, 2.34}
//	store2 := []float64{9.00, 11.10, 12.34, 2.01}
//	cheapest, err := seq.ZipWith(store1, store2, seq.Min[float64])
//	// cheapest == []float64{9.00, 11.00, 12.34, 2.01}
package seq

import (
	"cmp"
	"fmt"
)

// LengthError is returned when two slices that must be walked together
// have different lengths.
type LengthError struct {
	Left  int
	Right int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("length mismatch: %d vs %d", e.Left, e.Right)
}

// Map applies fn to every element and returns the results in order.
func Map[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements for which keep returns true.
func Filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reduce folds in from left to right starting at init.
func Reduce[T, A any](in []T, init A, fn func(A, T) A) A {
	acc := init
	for _, v := range in {
		acc = fn(acc, v)
	}
	return acc
}

// ZipWith combines a and b position by position.
//
// Both slices must have the same length; a *LengthError is returned
// otherwise and no element is combined.
func ZipWith[A, B, R any](a []A, b []B, fn func(A, B) R) ([]R, error) {
	if len(a) != len(b) {
		return nil, &LengthError{Left: len(a), Right: len(b)}
	}
	out := make([]R, len(a))
	for i := range a {
		out[i] = fn(a[i], b[i])
	}
	return out, nil
}

// Min returns the smaller of a and b.
func Min[T cmp.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max[T cmp.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}

// Repeat returns a slice holding n copies of v.
func Repeat[T any](v T, n int) []T {
	if n < 0 {
		n = 0
	}
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// IndexOf returns the position of the first element equal to v, or -1.
func IndexOf[T comparable](in []T, v T) int {
	for i, x := range in {
		if x == v {
			return i
		}
	}
	return -1
}
