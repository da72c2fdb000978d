// Package fuzzy implements a small Mamdani inference engine: triangular
// membership functions, linguistic variables, rule antecedent trees and
// centroid defuzzification.
//
// Everything built here is immutable after construction, so an Engine can be
// shared between goroutines and evaluated concurrently without locking.
package fuzzy

import "math"

// Triangle is a triangular membership function with breakpoints A <= B <= C.
// The degree is 0 outside [A, C], 1 at B, and linear in between. A zero-width
// edge (A == B or B == C) is a step rather than a slope.
type Triangle struct {
	a, b, c float64
}

// NewTriangle validates the breakpoints and returns the membership function.
func NewTriangle(a, b, c float64) (Triangle, error) {
	for _, v := range []float64{a, b, c} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Triangle{}, configErr("", "", "triangle breakpoints must be finite, got (%g, %g, %g)", a, b, c)
		}
	}
	if a > b || b > c {
		return Triangle{}, configErr("", "", "triangle breakpoints must satisfy a <= b <= c, got (%g, %g, %g)", a, b, c)
	}
	return Triangle{a: a, b: b, c: c}, nil
}

// Params returns the three breakpoints.
func (t Triangle) Params() (a, b, c float64) {
	return t.a, t.b, t.c
}

// Degree returns the membership of x in [0, 1].
func (t Triangle) Degree(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < t.a || x > t.c:
		return 0
	case x == t.b:
		return 1
	case x < t.b:
		// t.a < t.b here, so the division is safe.
		return clamp01((x - t.a) / (t.b - t.a))
	default:
		// t.b < x <= t.c, so t.c > t.b.
		return clamp01((t.c - x) / (t.c - t.b))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
