package utils

import (
	"context"
	"log/slog"

	"github.com/spboyer/gorjeta/internal/fuzzy"
)

// InferenceToSlog logs the trace of one evaluation at debug level: the
// fuzzified inputs in declaration order, every rule that fired and the crisp
// result.
func InferenceToSlog(inputs []*fuzzy.Variable, rules []fuzzy.Rule, inf *fuzzy.Inference) {
	if inf == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	for _, v := range inputs {
		degrees := inf.Inputs[v.Name()]
		attrs := []any{"variable", v.Name()}
		for _, term := range v.Terms() {
			attrs = addIf(attrs, term.Name, degrees[term.Name])
		}
		slog.Debug("Input fuzzified", attrs...)
	}

	for i, s := range inf.Strengths {
		if s <= 0 || i >= len(rules) {
			continue
		}
		slog.Debug("Rule fired", "index", i+1, "rule", rules[i].String(), "strength", s)
	}

	slog.Debug("Inference complete", "crisp", inf.Crisp, "samples", len(inf.Samples))
}

// NoRuleFiredToSlog logs every rule strength of an evaluation that produced
// no recommendation.
func NoRuleFiredToSlog(rules []fuzzy.Rule, strengths []float64, err *fuzzy.NoRuleFiredError) {
	if err == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	slog.Debug("No rule fired", "error", err.Error())
	for i, s := range strengths {
		if i >= len(rules) {
			break
		}
		slog.Debug("Rule strength", "index", i+1, "rule", rules[i].String(), "strength", s)
	}
}

// addIf appends name and v only when v is non-zero.
func addIf[T comparable](attrs []any, name string, v T) []any {
	var zero T
	if v != zero {
		attrs = append(attrs, name)
		attrs = append(attrs, v)
	}

	return attrs
}
