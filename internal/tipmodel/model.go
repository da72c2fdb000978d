// Package tipmodel wires the fixed tip recommendation rule base onto the
// fuzzy engine.
package tipmodel

import (
	"fmt"

	"github.com/spboyer/gorjeta/internal/fuzzy"
)

// Variable names.
const (
	MealQuality    = "meal_quality"
	ServiceQuality = "service_quality"
	ServiceTime    = "service_time"
	Tip            = "tip"
)

// Input and output ranges. Callers validate against these before evaluating.
const (
	MealMin    = 0.0
	MealMax    = 10.0
	ServiceMin = 0.0
	ServiceMax = 10.0
	TimeMin    = 0.0
	TimeMax    = 60.0
	TipMin     = 0.0
	TipMax     = 30.0
)

// Model is the tip recommendation model. It is immutable and safe for
// concurrent use.
type Model struct {
	engine *fuzzy.Engine
}

// New builds the model. Options are passed through to the engine.
func New(opts ...fuzzy.Option) (*Model, error) {
	meal, err := fuzzy.NewVariable(MealQuality, MealMin, MealMax,
		fuzzy.Tri("insipid", 0, 0, 5),
		fuzzy.Tri("normal", 0, 5, 10),
		fuzzy.Tri("tasty", 5, 10, 10),
	)
	if err != nil {
		return nil, err
	}

	service, err := fuzzy.NewVariable(ServiceQuality, ServiceMin, ServiceMax,
		fuzzy.Tri("poor", 0, 0, 5),
		fuzzy.Tri("acceptable", 0, 5, 10),
		fuzzy.Tri("excellent", 5, 10, 10),
	)
	if err != nil {
		return nil, err
	}

	time, err := fuzzy.NewVariable(ServiceTime, TimeMin, TimeMax,
		fuzzy.Tri("fast", 0, 0, 20),
		fuzzy.Tri("moderate", 10, 25, 40),
		fuzzy.Tri("slow", 30, 60, 60),
	)
	if err != nil {
		return nil, err
	}

	tip, err := fuzzy.NewVariable(Tip, TipMin, TipMax,
		fuzzy.Tri("none", 0, 0, 5),
		fuzzy.Tri("low", 0, 10, 15),
		fuzzy.Tri("medium", 10, 15, 20),
		fuzzy.Tri("generous", 15, 30, 30),
	)
	if err != nil {
		return nil, err
	}

	rules := []fuzzy.Rule{
		fuzzy.NewRule(fuzzy.And(fuzzy.Is(MealQuality, "insipid"), fuzzy.Is(ServiceQuality, "poor")), Tip, "low"),
		fuzzy.NewRule(fuzzy.And(fuzzy.Is(MealQuality, "tasty"), fuzzy.Is(ServiceQuality, "excellent")), Tip, "generous"),
		fuzzy.NewRule(fuzzy.Is(ServiceTime, "slow"), Tip, "none"),
		fuzzy.NewRule(fuzzy.Or(fuzzy.Is(ServiceTime, "fast"), fuzzy.Is(ServiceTime, "moderate")), Tip, "medium"),
		fuzzy.NewRule(fuzzy.And(fuzzy.Is(MealQuality, "normal"), fuzzy.Is(ServiceQuality, "acceptable")), Tip, "medium"),
	}

	engine, err := fuzzy.NewEngine(tip, []*fuzzy.Variable{meal, service, time}, rules, opts...)
	if err != nil {
		return nil, fmt.Errorf("building tip model: %w", err)
	}
	return &Model{engine: engine}, nil
}

// Evaluate returns the recommended tip percentage. It fails with a
// *fuzzy.NoRuleFiredError when no rule applies to the inputs, which can only
// happen for values outside the declared ranges.
func (m *Model) Evaluate(meal, service, time float64) (float64, error) {
	return m.engine.Evaluate(inputs(meal, service, time))
}

// Explain evaluates the inputs and returns the full inference trace.
func (m *Model) Explain(meal, service, time float64) (*fuzzy.Inference, error) {
	return m.engine.Infer(inputs(meal, service, time))
}

// Strengths fuzzifies the inputs and returns each rule's firing strength,
// even when no rule fires.
func (m *Model) Strengths(meal, service, time float64) ([]float64, error) {
	_, strengths, err := m.engine.Fire(inputs(meal, service, time))
	return strengths, err
}

// Engine exposes the underlying engine.
func (m *Model) Engine() *fuzzy.Engine { return m.engine }

// Variables returns the input variables followed by the output variable.
func (m *Model) Variables() []*fuzzy.Variable {
	return append(m.engine.Inputs(), m.engine.Output())
}

// Rules returns the rule base in evaluation order.
func (m *Model) Rules() []fuzzy.Rule { return m.engine.Rules() }

// Amount converts a percentage of the bill into money.
func Amount(bill, percent float64) float64 {
	return percent / 100 * bill
}

func inputs(meal, service, time float64) map[string]float64 {
	return map[string]float64{
		MealQuality:    meal,
		ServiceQuality: service,
		ServiceTime:    time,
	}
}
