package fuzzy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid fuzzy model configuration")

	// ErrNoRuleFired is matched by every *NoRuleFiredError.
	ErrNoRuleFired = errors.New("no rule fired")

	// ErrMissingInput is returned when Evaluate is called without a value for
	// one of the engine's input variables.
	ErrMissingInput = errors.New("missing input")
)

// ConfigurationError reports a model that cannot be built: a bad triangle,
// an empty or duplicated term set, or a rule referencing something that does
// not exist. It only ever comes out of constructors.
type ConfigurationError struct {
	Variable string
	Term     string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("fuzzy configuration")
	if e.Variable != "" {
		fmt.Fprintf(&b, ": variable %q", e.Variable)
	}
	if e.Term != "" {
		fmt.Fprintf(&b, ", term %q", e.Term)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(variable, term, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Variable: variable, Term: term, Reason: fmt.Sprintf(format, args...)}
}

// NoRuleFiredError is returned by Evaluate when the aggregated output
// membership is zero across the whole output universe, so the centroid is
// undefined.
type NoRuleFiredError struct {
	Inputs map[string]float64
}

func (e *NoRuleFiredError) Error() string {
	names := make([]string, 0, len(e.Inputs))
	for name := range e.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, e.Inputs[name]))
	}
	return fmt.Sprintf("no rule fired for inputs [%s]", strings.Join(parts, ", "))
}

func (e *NoRuleFiredError) Is(target error) bool {
	return target == ErrNoRuleFired
}
