package fuzzy

import (
	"fmt"
	"math"
)

// TermRef points at one term of one variable.
type TermRef struct {
	Variable string
	Term     string
}

func (r TermRef) String() string {
	return fmt.Sprintf("%s IS %s", r.Variable, r.Term)
}

// Fuzzified holds the fuzzified inputs keyed by variable name, then term.
type Fuzzified map[string]Degrees

// Degree looks up a term degree; anything missing counts as 0.
func (f Fuzzified) Degree(ref TermRef) float64 {
	return f[ref.Variable][ref.Term]
}

// Antecedent is the IF part of a rule: a leaf term reference or an AND/OR of
// two antecedents. The set of variants is closed.
type Antecedent interface {
	// Strength evaluates the antecedent against fuzzified inputs.
	Strength(in Fuzzified) float64

	// walk calls fn for every leaf term reference.
	walk(fn func(TermRef))

	fmt.Stringer
}

type leaf struct {
	ref TermRef
}

type and struct {
	left, right Antecedent
}

type or struct {
	left, right Antecedent
}

// Is builds a leaf antecedent: "variable IS term".
func Is(variable, term string) Antecedent {
	return leaf{ref: TermRef{Variable: variable, Term: term}}
}

// And combines two antecedents with min.
func And(left, right Antecedent) Antecedent {
	return and{left: left, right: right}
}

// Or combines two antecedents with max.
func Or(left, right Antecedent) Antecedent {
	return or{left: left, right: right}
}

func (l leaf) Strength(in Fuzzified) float64 { return in.Degree(l.ref) }
func (l leaf) walk(fn func(TermRef))         { fn(l.ref) }
func (l leaf) String() string                { return l.ref.String() }

func (a and) Strength(in Fuzzified) float64 {
	return math.Min(a.left.Strength(in), a.right.Strength(in))
}

func (a and) walk(fn func(TermRef)) {
	walkChild(a.left, fn)
	walkChild(a.right, fn)
}

func (a and) String() string {
	return group(a.left) + " AND " + group(a.right)
}

func (o or) Strength(in Fuzzified) float64 {
	return math.Max(o.left.Strength(in), o.right.Strength(in))
}

func (o or) walk(fn func(TermRef)) {
	walkChild(o.left, fn)
	walkChild(o.right, fn)
}

func (o or) String() string {
	return group(o.left) + " OR " + group(o.right)
}

// walkChild reports a nil child as an empty reference.
func walkChild(a Antecedent, fn func(TermRef)) {
	if a == nil {
		fn(TermRef{})
		return
	}
	a.walk(fn)
}

func group(a Antecedent) string {
	if a == nil {
		return "<nil>"
	}
	if _, ok := a.(leaf); ok {
		return a.String()
	}
	return "(" + a.String() + ")"
}

// Rule maps an antecedent onto a single consequent term of the output
// variable.
type Rule struct {
	If   Antecedent
	Then TermRef
}

// NewRule builds a rule whose consequent is "output IS term".
func NewRule(ante Antecedent, output, term string) Rule {
	return Rule{If: ante, Then: TermRef{Variable: output, Term: term}}
}

// Strength is the firing strength of the rule for the given inputs.
func (r Rule) Strength(in Fuzzified) float64 {
	return r.If.Strength(in)
}

// Consequent returns the THEN part of the rule.
func (r Rule) Consequent() TermRef {
	return r.Then
}

// References returns every term reference in the antecedent, left to right.
func (r Rule) References() []TermRef {
	var refs []TermRef
	walkChild(r.If, func(ref TermRef) { refs = append(refs, ref) })
	return refs
}

func (r Rule) String() string {
	if r.If == nil {
		return "IF <nil> THEN " + r.Then.String()
	}
	return "IF " + r.If.String() + " THEN " + r.Then.String()
}
