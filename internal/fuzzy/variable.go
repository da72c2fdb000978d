package fuzzy

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// TermDef describes one labelled term of a variable before validation.
type TermDef struct {
	Name    string
	A, B, C float64
}

// Tri is shorthand for a triangular TermDef.
func Tri(name string, a, b, c float64) TermDef {
	return TermDef{Name: name, A: a, B: b, C: c}
}

// Term is a validated, named membership function.
type Term struct {
	Name  string
	Shape Triangle
}

// Degrees maps term names to membership degrees.
type Degrees map[string]float64

// Variable is a linguistic variable: a universe [low, high] partitioned into
// ordered, uniquely named terms.
type Variable struct {
	name      string
	low, high float64
	terms     []Term
	index     map[string]int
}

// NewVariable builds a linguistic variable. The term order is preserved for
// rendering and fuzzification output.
func NewVariable(name string, low, high float64, defs ...TermDef) (*Variable, error) {
	if name == "" {
		return nil, configErr("", "", "variable name is required")
	}
	if math.IsNaN(low) || math.IsNaN(high) || math.IsInf(low, 0) || math.IsInf(high, 0) || low >= high {
		return nil, configErr(name, "", "universe must satisfy low < high, got [%g, %g]", low, high)
	}
	if len(defs) == 0 {
		return nil, configErr(name, "", "at least one term is required")
	}

	v := &Variable{
		name:  name,
		low:   low,
		high:  high,
		terms: make([]Term, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, configErr(name, "", "term name is required")
		}
		if _, dup := v.index[d.Name]; dup {
			return nil, configErr(name, d.Name, "duplicate term")
		}
		shape, err := NewTriangle(d.A, d.B, d.C)
		if err != nil {
			var ce *ConfigurationError
			if errors.As(err, &ce) {
				ce.Variable, ce.Term = name, d.Name
			}
			return nil, err
		}
		v.index[d.Name] = len(v.terms)
		v.terms = append(v.terms, Term{Name: d.Name, Shape: shape})
	}
	return v, nil
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Bounds returns the universe bounds.
func (v *Variable) Bounds() (low, high float64) { return v.low, v.high }

// Terms returns a copy of the terms in declaration order.
func (v *Variable) Terms() []Term {
	out := make([]Term, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term looks up a term by name.
func (v *Variable) Term(name string) (Term, bool) {
	i, ok := v.index[name]
	if !ok {
		return Term{}, false
	}
	return v.terms[i], true
}

// HasTerm reports whether the variable defines the named term.
func (v *Variable) HasTerm(name string) bool {
	_, ok := v.index[name]
	return ok
}

// Fuzzify returns the degree of x in every term. x is not range-checked;
// values outside the universe simply fall outside most supports.
func (v *Variable) Fuzzify(x float64) Degrees {
	out := make(Degrees, len(v.terms))
	for _, t := range v.terms {
		out[t.Name] = t.Shape.Degree(x)
	}
	return out
}

// Samples returns n evenly spaced points across [low, high], both ends
// included. n below 2 is treated as 2.
func (v *Variable) Samples(n int) []float64 {
	if n < 2 {
		n = 2
	}
	return floats.Span(make([]float64, n), v.low, v.high)
}

// UnitSamples is the sample count that gives one-unit spacing across the
// universe.
func (v *Variable) UnitSamples() int {
	n := int(math.Floor(v.high-v.low)) + 1
	if n < 2 {
		return 2
	}
	return n
}

// Curve samples one term's membership across the universe. It is the hook
// used by chart renderers.
func (v *Variable) Curve(term string, n int) (xs, ys []float64, err error) {
	t, ok := v.Term(term)
	if !ok {
		return nil, nil, fmt.Errorf("variable %q has no term %q", v.name, term)
	}
	xs = v.Samples(n)
	ys = make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = t.Shape.Degree(x)
	}
	return xs, ys, nil
}
