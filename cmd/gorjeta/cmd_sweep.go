package main

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/spboyer/gorjeta/internal/fuzzy"
	"github.com/spboyer/gorjeta/internal/projectconfig"
	"github.com/spboyer/gorjeta/internal/tipmodel"
	"github.com/spboyer/gorjeta/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// sweepPoint is one evaluated service time. OK is false when no rule fired.
type sweepPoint struct {
	Time    float64
	Percent float64
	OK      bool
}

func newSweepCommand() *cobra.Command {
	var (
		meal, service, step float64
		workers             int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Show how the tip changes with service time",
		Long: `Evaluate the tip for service times from 0 to 60 minutes with fixed
meal and service quality. Points are evaluated concurrently and printed in
order.

--step and --workers default to the sweep section of .gorjeta.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if step == 0 {
				step = a.cfg.Sweep.Step
			}
			if workers == 0 {
				workers = a.cfg.Sweep.Workers
			}
			if !(step >= projectconfig.MinSweepStep) {
				return fmt.Errorf("--step must be at least %g, got %g", projectconfig.MinSweepStep, step)
			}
			if workers < 1 {
				return fmt.Errorf("--workers must be positive, got %d", workers)
			}
			if err := (wizard.TipInput{Meal: meal, Service: service}).Validate(); err != nil {
				return err
			}

			points, err := sweep(cmd.Context(), a.model, meal, service, step, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "meal=%g service=%g\n", meal, service) //nolint:errcheck
			rows := make([][]string, 0, len(points))
			for _, p := range points {
				tip := "n/a"
				if p.OK {
					tip = fmt.Sprintf("%.2f%%", p.Percent)
				}
				rows = append(rows, []string{fmt.Sprintf("%g min", p.Time), tip})
			}
			writeTable(out, []string{"Time", "Tip"}, rows)
			return nil
		},
	}

	cmd.Flags().Float64Var(&meal, "meal", 5, "Meal quality (0-10)")
	cmd.Flags().Float64Var(&service, "service", 5, "Service quality (0-10)")
	cmd.Flags().Float64Var(&step, "step", 0, "Minutes between points")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent evaluations")

	return cmd
}

// sweepTimes returns 0, step, 2*step, ... up to the maximum service time,
// always ending at the maximum.
func sweepTimes(step float64) []float64 {
	n := int(math.Floor(tipmodel.TimeMax/step + 1e-9))
	times := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		times = append(times, tipmodel.TimeMin+float64(i)*step)
	}
	if last := times[len(times)-1]; tipmodel.TimeMax-last > 1e-9 {
		times = append(times, tipmodel.TimeMax)
	}
	return times
}

func sweep(ctx context.Context, model *tipmodel.Model, meal, service, step float64, workers int) ([]sweepPoint, error) {
	times := sweepTimes(step)
	points := make([]sweepPoint, len(times))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range times {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := model.Evaluate(meal, service, t)
			if errors.Is(err, fuzzy.ErrNoRuleFired) {
				points[i] = sweepPoint{Time: t}
				return nil
			}
			if err != nil {
				return err
			}
			points[i] = sweepPoint{Time: t, Percent: v, OK: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
