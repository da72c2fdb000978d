package main

import (
	"encoding/json"
	"fmt"

	"github.com/spboyer/gorjeta/internal/wizard"
	"github.com/spf13/cobra"
)

func newCalcCommand() *cobra.Command {
	var (
		input  wizard.TipInput
		format string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Recommend a tip for one meal",
		Long: `Recommend a tip percentage and amount from meal quality (0-10),
service quality (0-10), service time in minutes (0-60) and the bill.

The calculation is appended to the history file unless --no-save is given
or history is disabled in .gorjeta.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be text or json", format)
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			res, err := a.calculate(input, !noSave)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			a.writeResult(out, res)
			return nil
		},
	}

	cmd.Flags().Float64Var(&input.Meal, "meal", 0, "Meal quality (0 = insipid, 10 = tasty)")
	cmd.Flags().Float64Var(&input.Service, "service", 0, "Service quality (0 = poor, 10 = excellent)")
	cmd.Flags().Float64Var(&input.Time, "time", 0, "Minutes until you were served (0-60)")
	cmd.Flags().Float64Var(&input.Bill, "bill", 0, "Bill amount before tip")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the calculation in history")
	for _, name := range []string{"meal", "service", "time", "bill"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
