package main

import (
	"fmt"

	"github.com/spboyer/gorjeta/internal/wizard"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	var (
		explain bool
		input   wizard.TipInput
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the tip rules",
		Long: `List the rule base in evaluation order.

With --explain the rules are evaluated for --meal, --service and --time and
each rule is shown with its firing strength, followed by the recommended tip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !explain {
				a.writeRules(out, nil)
				return nil
			}

			if err := input.Validate(); err != nil {
				return err
			}
			inf, err := a.explain(input.Meal, input.Service, input.Time)
			if err != nil {
				return err
			}

			a.writeRules(out, inf.Strengths)
			fmt.Fprintf(out, "\nRecommended tip: %.2f%%\n", inf.Crisp) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show firing strengths for the given inputs")
	cmd.Flags().Float64Var(&input.Meal, "meal", 5, "Meal quality (0-10)")
	cmd.Flags().Float64Var(&input.Service, "service", 5, "Service quality (0-10)")
	cmd.Flags().Float64Var(&input.Time, "time", 10, "Service time in minutes (0-60)")

	return cmd
}
