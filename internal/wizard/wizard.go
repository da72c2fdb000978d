// Package wizard holds the interactive terminal forms: the main menu and the
// tip calculation form.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/gorjeta/internal/tipmodel"
	"golang.org/x/term"
)

// MaxBill bounds the bill amount accepted by the form.
const MaxBill = 100000.0

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("aborted")

// Choice is a main menu entry.
type Choice string

const (
	ChoiceCalculate Choice = "calculate"
	ChoiceSets      Choice = "sets"
	ChoiceHistory   Choice = "history"
	ChoiceRules     Choice = "rules"
	ChoiceQuit      Choice = "quit"
)

// MenuOptions lists the menu entries in display order.
var MenuOptions = []struct {
	Label  string
	Choice Choice
}{
	{"Calculate a new tip", ChoiceCalculate},
	{"Show fuzzy sets", ChoiceSets},
	{"Show calculation history", ChoiceHistory},
	{"Explain the rules", ChoiceRules},
	{"Quit", ChoiceQuit},
}

// TipInput holds the values collected by the calculation form.
type TipInput struct {
	Meal    float64
	Service float64
	Time    float64
	Bill    float64
}

// RunMenu shows the main menu and returns the selected entry.
func RunMenu(in io.Reader, out io.Writer) (Choice, error) {
	choice := string(ChoiceCalculate)

	opts := make([]huh.Option[string], 0, len(MenuOptions))
	for _, o := range MenuOptions {
		opts = append(opts, huh.NewOption(o.Label, string(o.Choice)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Fuzzy tip calculator").
				Options(opts...).
				Value(&choice),
		),
	)
	if err := run(form, in, out); err != nil {
		return "", err
	}
	return Choice(choice), nil
}

// RunTipForm asks for meal quality, service quality, service time and the
// bill amount. Every field is validated against its range before the form
// completes.
func RunTipForm(in io.Reader, out io.Writer) (*TipInput, error) {
	var meal, service, minutes, bill string

	form := huh.NewForm(
		huh.NewGroup(
			boundedInput("Meal quality", "0 = insipid, 10 = tasty", tipmodel.MealMin, tipmodel.MealMax, &meal),
			boundedInput("Service quality", "0 = poor, 10 = excellent", tipmodel.ServiceMin, tipmodel.ServiceMax, &service),
			boundedInput("Service time", "Minutes until you were served", tipmodel.TimeMin, tipmodel.TimeMax, &minutes),
			boundedInput("Bill amount", "Total before tip", 0, MaxBill, &bill),
		),
	)
	if err := run(form, in, out); err != nil {
		return nil, err
	}
	return ParseTipInput(meal, service, minutes, bill)
}

// RunChartForm asks where to save the membership chart. An empty answer
// means no chart.
func RunChartForm(in io.Reader, out io.Writer) (string, error) {
	var path string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Save the membership chart as PNG").
				Description("File name ending in .png, leave empty to skip").
				Placeholder("gorjeta-sets.png").
				Value(&path).
				Validate(ValidateChartPath),
		),
	)
	if err := run(form, in, out); err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// ValidateChartPath accepts an empty path or one ending in .png.
func ValidateChartPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(filepath.Ext(s), ".png") {
		return nil
	}
	return fmt.Errorf("chart file must end in .png")
}

// ParseTipInput converts raw form values into a TipInput, applying the same
// range checks as the form.
func ParseTipInput(meal, service, minutes, bill string) (*TipInput, error) {
	var (
		ti  TipInput
		err error
	)
	if ti.Meal, err = ParseBounded(meal, tipmodel.MealMin, tipmodel.MealMax); err != nil {
		return nil, fmt.Errorf("meal quality: %w", err)
	}
	if ti.Service, err = ParseBounded(service, tipmodel.ServiceMin, tipmodel.ServiceMax); err != nil {
		return nil, fmt.Errorf("service quality: %w", err)
	}
	if ti.Time, err = ParseBounded(minutes, tipmodel.TimeMin, tipmodel.TimeMax); err != nil {
		return nil, fmt.Errorf("service time: %w", err)
	}
	if ti.Bill, err = ParseBounded(bill, 0, MaxBill); err != nil {
		return nil, fmt.Errorf("bill: %w", err)
	}
	return &ti, nil
}

// ParseBounded parses a number in [min, max]. A decimal comma is accepted.
func ParseBounded(s string, min, max float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("a value is required")
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a valid number", s)
	}
	if err := checkBounds(v, min, max); err != nil {
		return 0, err
	}
	return v, nil
}

// Validate applies the form's range checks to values that did not come
// through the form, such as command-line flags.
func (ti TipInput) Validate() error {
	fields := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"meal quality", ti.Meal, tipmodel.MealMin, tipmodel.MealMax},
		{"service quality", ti.Service, tipmodel.ServiceMin, tipmodel.ServiceMax},
		{"service time", ti.Time, tipmodel.TimeMin, tipmodel.TimeMax},
		{"bill", ti.Bill, 0, MaxBill},
	}
	for _, f := range fields {
		if err := checkBounds(f.v, f.min, f.max); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func checkBounds(v, min, max float64) error {
	if math.IsNaN(v) || v < min || v > max {
		return fmt.Errorf("enter a value between %g and %g", min, max)
	}
	return nil
}

func boundedInput(title, description string, min, max float64, value *string) *huh.Input {
	return huh.NewInput().
		Title(fmt.Sprintf("%s (%g-%g)", title, min, max)).
		Description(description).
		Value(value).
		Validate(func(s string) error {
			_, err := ParseBounded(s, min, max)
			return err
		})
}

func run(form *huh.Form, in io.Reader, out io.Writer) error {
	form = form.WithInput(in).WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if !IsTerminal(in) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("form failed: %w", err)
	}
	return nil
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
