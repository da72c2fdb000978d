package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/gorjeta/internal/chart"
	"github.com/spboyer/gorjeta/internal/fuzzy"
	"github.com/spboyer/gorjeta/internal/history"
	"github.com/spboyer/gorjeta/internal/projectconfig"
	"github.com/spboyer/gorjeta/internal/tipmodel"
	"github.com/spboyer/gorjeta/internal/utils"
	"github.com/spboyer/gorjeta/internal/wizard"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// app bundles what every command needs: the loaded configuration, the tip
// model and the history store.
type app struct {
	cfg   *projectconfig.ProjectConfig
	model *tipmodel.Model
	store *history.Store
	money *money

	now          func() time.Time
	askChartPath func(in io.Reader, out io.Writer) (string, error)
}

func loadApp() (*app, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newApp(cfg)
}

func newApp(cfg *projectconfig.ProjectConfig) (*app, error) {
	model, err := tipmodel.New(fuzzy.WithResolution(cfg.Engine.Resolution))
	if err != nil {
		return nil, fmt.Errorf("building tip model: %w", err)
	}
	m, err := newMoney(cfg.Display.Currency, cfg.Display.Locale)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		model: model,
		store: history.NewStore(cfg.HistoryPath()),
		money: m,

		now:          time.Now,
		askChartPath: wizard.RunChartForm,
	}, nil
}

// writeChart renders every variable's membership curves to a PNG file.
func (a *app) writeChart(out io.Writer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := chart.Grid(f, a.model.Variables(), chart.DefaultWidth, chart.DefaultHeight); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(out, "Chart written to %s\n", path) //nolint:errcheck
	return nil
}

// calcResult is one completed tip calculation.
type calcResult struct {
	MealQuality    float64 `json:"meal_quality"`
	ServiceQuality float64 `json:"service_quality"`
	ServiceTime    float64 `json:"service_time"`
	Bill           float64 `json:"bill"`
	Percent        float64 `json:"percent"`
	Amount         float64 `json:"amount"`
	Total          float64 `json:"total"`
	Saved          bool    `json:"saved"`
}

// calculate evaluates the model for ti and records the result when history
// is enabled and save is true.
func (a *app) calculate(ti wizard.TipInput, save bool) (*calcResult, error) {
	if err := ti.Validate(); err != nil {
		return nil, err
	}

	inf, err := a.explain(ti.Meal, ti.Service, ti.Time)
	if err != nil {
		return nil, err
	}

	amount := tipmodel.Amount(ti.Bill, inf.Crisp)
	res := &calcResult{
		MealQuality:    ti.Meal,
		ServiceQuality: ti.Service,
		ServiceTime:    ti.Time,
		Bill:           ti.Bill,
		Percent:        inf.Crisp,
		Amount:         amount,
		Total:          ti.Bill + amount,
	}

	if save && a.cfg.HistoryEnabled() {
		rec := history.Record{
			Timestamp:      a.now().UTC().Truncate(time.Second),
			MealQuality:    ti.Meal,
			ServiceQuality: ti.Service,
			ServiceTime:    ti.Time,
			Bill:           ti.Bill,
			Percent:        inf.Crisp,
			Amount:         amount,
		}
		if err := a.store.Append(rec); err != nil {
			return nil, fmt.Errorf("saving history: %w", err)
		}
		res.Saved = true
	}
	return res, nil
}

// explain evaluates the model and logs the trace at debug level, including
// the rule strengths when no rule fired.
func (a *app) explain(meal, service, minutes float64) (*fuzzy.Inference, error) {
	inf, err := a.model.Explain(meal, service, minutes)
	var noRule *fuzzy.NoRuleFiredError
	if errors.As(err, &noRule) {
		if strengths, serr := a.model.Strengths(meal, service, minutes); serr == nil {
			utils.NoRuleFiredToSlog(a.model.Rules(), strengths, noRule)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	utils.InferenceToSlog(a.model.Engine().Inputs(), a.model.Rules(), inf)
	return inf, nil
}

func (a *app) writeResult(w io.Writer, r *calcResult) {
	fmt.Fprintf(w, "Recommended tip: %.2f%%\n", r.Percent)
	fmt.Fprintf(w, "Tip amount:      %s\n", a.money.Format(r.Amount))
	fmt.Fprintf(w, "Total:           %s\n", a.money.Format(r.Total))
}

func (a *app) writeRules(w io.Writer, strengths []float64) {
	for i, r := range a.model.Rules() {
		if strengths == nil {
			fmt.Fprintf(w, "%2d. %s\n", i+1, r) //nolint:errcheck
			continue
		}
		fmt.Fprintf(w, "%2d. [%.3f] %s\n", i+1, strengths[i], r) //nolint:errcheck
	}
}

func (a *app) writeHistory(w io.Writer, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No calculations recorded yet.") //nolint:errcheck
		return
	}

	headers := []string{"#", "Date", "Meal", "Service", "Time", "Bill", "Tip %", "Tip", "Total"}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.Timestamp.Local().Format("02/01/2006 15:04"),
			fmt.Sprintf("%.1f", r.MealQuality),
			fmt.Sprintf("%.1f", r.ServiceQuality),
			fmt.Sprintf("%.1f min", r.ServiceTime),
			a.money.Format(r.Bill),
			fmt.Sprintf("%.2f%%", r.Percent),
			a.money.Format(r.Amount),
			a.money.Format(r.Total()),
		})
	}
	writeTable(w, headers, rows)
}

// writeTable renders rows as a grid aligned by terminal display width.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	border := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, cw := range widths {
			parts[i] = strings.Repeat("─", cw+2)
		}
		return left + strings.Join(parts, mid) + right
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = " " + padRight(c, widths[i]) + " "
		}
		return "│" + strings.Join(parts, "│") + "│"
	}

	fmt.Fprintln(w, border("┌", "┬", "┐"))
	fmt.Fprintln(w, line(headers))
	fmt.Fprintln(w, border("├", "┼", "┤"))
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
	fmt.Fprintln(w, border("└", "┴", "┘"))
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// money formats amounts with a currency symbol and locale-aware separators.
type money struct {
	currency string
	printer  *message.Printer
}

func newMoney(currency, locale string) (*money, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("display.locale %q: %w", locale, err)
	}
	return &money{currency: currency, printer: message.NewPrinter(tag)}, nil
}

func (m *money) Format(v float64) string {
	s := m.printer.Sprint(number.Decimal(v, number.Scale(2)))
	if m.currency == "" {
		return s
	}
	return m.currency + " " + s
}

func (a *app) runMenu(in io.Reader, out io.Writer) error {
	for {
		choice, err := wizard.RunMenu(in, out)
		if errors.Is(err, wizard.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == wizard.ChoiceQuit {
			return nil
		}
		if err := a.dispatch(choice, in, out); err != nil {
			return err
		}
	}
}

// dispatch runs one menu entry. A calculation with no applicable rule is
// reported and the menu continues.
func (a *app) dispatch(choice wizard.Choice, in io.Reader, out io.Writer) error {
	switch choice {
	case wizard.ChoiceCalculate:
		ti, err := wizard.RunTipForm(in, out)
		if errors.Is(err, wizard.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		res, err := a.calculate(*ti, true)
		if errors.Is(err, fuzzy.ErrNoRuleFired) {
			fmt.Fprintln(out, "No recommendation for these inputs.") //nolint:errcheck
			return nil
		}
		if err != nil {
			return err
		}
		a.writeResult(out, res)
	case wizard.ChoiceSets:
		if err := chart.Describe(out, a.model.Variables()); err != nil {
			return err
		}
		path, err := a.askChartPath(in, out)
		if errors.Is(err, wizard.ErrAborted) || (err == nil && path == "") {
			return nil
		}
		if err != nil {
			return err
		}
		return a.writeChart(out, path)
	case wizard.ChoiceHistory:
		records, err := a.store.Load()
		if err != nil {
			return err
		}
		a.writeHistory(out, records)
	case wizard.ChoiceRules:
		a.writeRules(out, nil)
	default:
		return fmt.Errorf("unknown menu choice %q", choice)
	}
	return nil
}
