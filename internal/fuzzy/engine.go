package fuzzy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type options struct {
	resolution int
}

// Option configures an Engine.
type Option func(*options)

// WithResolution sets how many points of the output universe are sampled for
// aggregation and defuzzification. Zero keeps the default of one-unit
// spacing.
func WithResolution(n int) Option {
	return func(o *options) {
		o.resolution = n
	}
}

// Engine evaluates a Mamdani rule base: min implication, max aggregation and
// centroid defuzzification. It holds no mutable state.
type Engine struct {
	inputs []*Variable
	byName map[string]*Variable
	output *Variable
	rules  []Rule

	samples []float64
	// consequent membership of each rule at every sample
	shapes [][]float64
}

// Inference is the full trace of one evaluation.
type Inference struct {
	// Crisp is the defuzzified output.
	Crisp float64

	// Inputs are the fuzzified input values.
	Inputs Fuzzified

	// Strengths holds the firing strength of each rule, in rule order.
	Strengths []float64

	// Samples and Aggregated describe the aggregated output curve.
	Samples    []float64
	Aggregated []float64
}

// NewEngine validates the variables and rules and precomputes the output
// sample grid. Every problem is reported as a *ConfigurationError.
func NewEngine(output *Variable, inputs []*Variable, rules []Rule, opts ...Option) (*Engine, error) {
	if output == nil {
		return nil, configErr("", "", "output variable is required")
	}
	if len(inputs) == 0 {
		return nil, configErr("", "", "at least one input variable is required")
	}
	if len(rules) == 0 {
		return nil, configErr("", "", "at least one rule is required")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolution == 0 {
		o.resolution = output.UnitSamples()
	}
	if o.resolution < 2 {
		return nil, configErr(output.Name(), "", "resolution must be at least 2, got %d", o.resolution)
	}

	e := &Engine{
		inputs: make([]*Variable, 0, len(inputs)),
		byName: make(map[string]*Variable, len(inputs)),
		output: output,
		rules:  make([]Rule, len(rules)),
	}
	for _, v := range inputs {
		if v == nil {
			return nil, configErr("", "", "input variable is nil")
		}
		if v.Name() == output.Name() {
			return nil, configErr(v.Name(), "", "input variable shares its name with the output")
		}
		if _, dup := e.byName[v.Name()]; dup {
			return nil, configErr(v.Name(), "", "duplicate input variable")
		}
		e.byName[v.Name()] = v
		e.inputs = append(e.inputs, v)
	}
	copy(e.rules, rules)

	for i, r := range e.rules {
		if err := e.validateRule(i, r); err != nil {
			return nil, err
		}
	}

	e.samples = output.Samples(o.resolution)
	e.shapes = make([][]float64, len(e.rules))
	for i, r := range e.rules {
		t, _ := output.Term(r.Then.Term)
		shape := make([]float64, len(e.samples))
		for j, x := range e.samples {
			shape[j] = t.Shape.Degree(x)
		}
		e.shapes[i] = shape
	}

	return e, nil
}

func (e *Engine) validateRule(i int, r Rule) error {
	if r.If == nil {
		return configErr("", "", "rule %d has no antecedent", i+1)
	}
	if r.Then.Variable != e.output.Name() {
		return configErr(r.Then.Variable, r.Then.Term, "rule %d concludes on %q, which is not the output variable", i+1, r.Then.Variable)
	}
	if !e.output.HasTerm(r.Then.Term) {
		return configErr(r.Then.Variable, r.Then.Term, "rule %d references an unknown output term", i+1)
	}
	for _, ref := range r.References() {
		v, ok := e.byName[ref.Variable]
		if !ok {
			return configErr(ref.Variable, ref.Term, "rule %d references an unknown input variable", i+1)
		}
		if !v.HasTerm(ref.Term) {
			return configErr(ref.Variable, ref.Term, "rule %d references an unknown term", i+1)
		}
	}
	return nil
}

// Inputs returns the input variables in declaration order.
func (e *Engine) Inputs() []*Variable {
	out := make([]*Variable, len(e.inputs))
	copy(out, e.inputs)
	return out
}

// Output returns the output variable.
func (e *Engine) Output() *Variable { return e.output }

// Rules returns a copy of the rule base.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Resolution is the number of output samples used for defuzzification.
func (e *Engine) Resolution() int { return len(e.samples) }

// Fire fuzzifies the inputs and computes every rule's firing strength without
// defuzzifying. Values for unknown variable names are ignored.
func (e *Engine) Fire(inputs map[string]float64) (Fuzzified, []float64, error) {
	fz := make(Fuzzified, len(e.inputs))
	for _, v := range e.inputs {
		x, ok := inputs[v.Name()]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingInput, v.Name())
		}
		fz[v.Name()] = v.Fuzzify(x)
	}

	strengths := make([]float64, len(e.rules))
	for i, r := range e.rules {
		strengths[i] = r.Strength(fz)
	}
	return fz, strengths, nil
}

// Infer runs the whole pipeline and returns the trace. When the aggregated
// membership is zero everywhere it returns a *NoRuleFiredError.
func (e *Engine) Infer(inputs map[string]float64) (*Inference, error) {
	fz, strengths, err := e.Fire(inputs)
	if err != nil {
		return nil, err
	}

	aggregated := make([]float64, len(e.samples))
	for i, s := range strengths {
		if !(s > 0) {
			continue
		}
		for j, mu := range e.shapes[i] {
			if clipped := math.Min(s, mu); clipped > aggregated[j] {
				aggregated[j] = clipped
			}
		}
	}

	den := floats.Sum(aggregated)
	if !(den > 0) {
		return nil, &NoRuleFiredError{Inputs: copyInputs(e.inputs, inputs)}
	}
	crisp := floats.Dot(e.samples, aggregated) / den

	samples := make([]float64, len(e.samples))
	copy(samples, e.samples)

	return &Inference{
		Crisp:      crisp,
		Inputs:     fz,
		Strengths:  strengths,
		Samples:    samples,
		Aggregated: aggregated,
	}, nil
}

// Evaluate returns the defuzzified output for the given crisp inputs.
func (e *Engine) Evaluate(inputs map[string]float64) (float64, error) {
	res, err := e.Infer(inputs)
	if err != nil {
		return 0, err
	}
	return res.Crisp, nil
}

func copyInputs(vars []*Variable, inputs map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(vars))
	for _, v := range vars {
		out[v.Name()] = inputs[v.Name()]
	}
	return out
}
