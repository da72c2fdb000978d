package fuzzy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// newLinearEngine maps x in [0,10] onto y in [0,10] with two mirrored rules.
func newLinearEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	x, err := NewVariable("x", 0, 10, Tri("low", 0, 0, 10), Tri("high", 0, 10, 10))
	require.NoError(t, err)
	y, err := NewVariable("y", 0, 10, Tri("left", 0, 0, 10), Tri("right", 0, 10, 10))
	require.NoError(t, err)

	e, err := NewEngine(y, []*Variable{x}, []Rule{
		NewRule(Is("x", "low"), "y", "left"),
		NewRule(Is("x", "high"), "y", "right"),
	}, opts...)
	require.NoError(t, err)
	return e
}

func TestEngine_EvaluateCentroid(t *testing.T) {
	e := newLinearEngine(t)
	assert.Equal(t, 11, e.Resolution())

	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"fully low", 0, 3},
		{"balanced", 5, 5},
		{"fully high", 10, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(map[string]float64{"x": tt.x})
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestEngine_ImplicationClipsInsteadOfScaling(t *testing.T) {
	x, err := NewVariable("x", 0, 10, Tri("low", 0, 0, 10))
	require.NoError(t, err)
	y, err := NewVariable("y", 0, 10, Tri("left", 0, 0, 10))
	require.NoError(t, err)

	e, err := NewEngine(y, []*Variable{x}, []Rule{NewRule(Is("x", "low"), "y", "left")})
	require.NoError(t, err)

	// Scaling the shape by 0.5 would leave the centroid at 3.
	got, err := e.Evaluate(map[string]float64{"x": 5})
	require.NoError(t, err)
	assert.InDelta(t, 3.625, got, 1e-9)

	res, err := e.Infer(map[string]float64{"x": 5})
	require.NoError(t, err)
	for _, mu := range res.Aggregated {
		assert.LessOrEqual(t, mu, 0.5)
	}
}

func TestEngine_Resolution(t *testing.T) {
	e := newLinearEngine(t, WithResolution(101))
	assert.Equal(t, 101, e.Resolution())

	got, err := e.Evaluate(map[string]float64{"x": 0})
	require.NoError(t, err)
	assert.InDelta(t, 3.3, got, 1e-9)
}

func TestEngine_NoRuleFired(t *testing.T) {
	e := newLinearEngine(t)

	got, err := e.Evaluate(map[string]float64{"x": 42})
	require.Error(t, err)
	assert.Zero(t, got)
	assert.True(t, errors.Is(err, ErrNoRuleFired))

	var nrf *NoRuleFiredError
	require.True(t, errors.As(err, &nrf))
	assert.Equal(t, map[string]float64{"x": 42}, nrf.Inputs)
	assert.Contains(t, err.Error(), "x=42")
}

func TestEngine_MissingInput(t *testing.T) {
	e := newLinearEngine(t)

	_, err := e.Evaluate(map[string]float64{"z": 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.False(t, errors.Is(err, ErrNoRuleFired))
}

func TestEngine_InferTrace(t *testing.T) {
	e := newLinearEngine(t)

	res, err := e.Infer(map[string]float64{"x": 2.5, "unused": 99})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.75, 0.25}, res.Strengths)
	assert.InDelta(t, 0.75, res.Inputs["x"]["low"], 1e-12)
	assert.Len(t, res.Samples, 11)
	assert.Len(t, res.Aggregated, 11)

	crisp, err := e.Evaluate(map[string]float64{"x": 2.5})
	require.NoError(t, err)
	assert.Equal(t, crisp, res.Crisp)
}

func TestEngine_ConfigurationErrors(t *testing.T) {
	x, err := NewVariable("x", 0, 10, Tri("low", 0, 0, 10))
	require.NoError(t, err)
	x2, err := NewVariable("x", 0, 5, Tri("low", 0, 0, 5))
	require.NoError(t, err)
	y, err := NewVariable("y", 0, 10, Tri("left", 0, 0, 10))
	require.NoError(t, err)
	yAsInput, err := NewVariable("y", 0, 10, Tri("left", 0, 0, 10))
	require.NoError(t, err)

	ok := NewRule(Is("x", "low"), "y", "left")

	tests := []struct {
		name   string
		output *Variable
		inputs []*Variable
		rules  []Rule
		opts   []Option
	}{
		{"nil output", nil, []*Variable{x}, []Rule{ok}, nil},
		{"no inputs", y, nil, []Rule{ok}, nil},
		{"nil input", y, []*Variable{nil}, []Rule{ok}, nil},
		{"no rules", y, []*Variable{x}, nil, nil},
		{"duplicate input", y, []*Variable{x, x2}, []Rule{ok}, nil},
		{"input named like output", y, []*Variable{x, yAsInput}, []Rule{ok}, nil},
		{"nil antecedent", y, []*Variable{x}, []Rule{{Then: TermRef{Variable: "y", Term: "left"}}}, nil},
		{"nil child", y, []*Variable{x}, []Rule{NewRule(And(Is("x", "low"), nil), "y", "left")}, nil},
		{"unknown input term", y, []*Variable{x}, []Rule{NewRule(Is("x", "high"), "y", "left")}, nil},
		{"unknown input variable", y, []*Variable{x}, []Rule{NewRule(Is("w", "low"), "y", "left")}, nil},
		{"antecedent on output", y, []*Variable{x}, []Rule{NewRule(Is("y", "left"), "y", "left")}, nil},
		{"unknown output term", y, []*Variable{x}, []Rule{NewRule(Is("x", "low"), "y", "right")}, nil},
		{"consequent on input", y, []*Variable{x}, []Rule{NewRule(Is("x", "low"), "x", "low")}, nil},
		{"resolution too small", y, []*Variable{x}, []Rule{ok}, []Option{WithResolution(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.output, tt.inputs, tt.rules, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, e)
			assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)
		})
	}
}

func TestEngine_AccessorsReturnCopies(t *testing.T) {
	e := newLinearEngine(t)

	rules := e.Rules()
	require.Len(t, rules, 2)
	rules[0] = NewRule(Is("x", "high"), "y", "left")
	assert.Equal(t, "IF x IS low THEN y IS left", e.Rules()[0].String())

	inputs := e.Inputs()
	require.Len(t, inputs, 1)
	inputs[0] = nil
	assert.NotNil(t, e.Inputs()[0])
	assert.Equal(t, "y", e.Output().Name())
}

func TestEngine_ConcurrentEvaluate(t *testing.T) {
	e := newLinearEngine(t)

	want := make([]float64, 101)
	for i := range want {
		v, err := e.Evaluate(map[string]float64{"x": float64(i) / 10})
		require.NoError(t, err)
		want[i] = v
	}

	got := make([]float64, len(want))
	var eg errgroup.Group
	eg.SetLimit(8)
	for i := range got {
		eg.Go(func() error {
			v, err := e.Evaluate(map[string]float64{"x": float64(i) / 10})
			got[i] = v
			return err
		})
	}
	require.NoError(t, eg.Wait())
	assert.Equal(t, want, got)
}
