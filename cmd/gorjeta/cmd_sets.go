package main

import (
	"github.com/spboyer/gorjeta/internal/chart"
	"github.com/spf13/cobra"
)

func newSetsCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Show the fuzzy sets of every variable",
		Long: `Show the triangular membership functions of meal quality, service
quality, service time and tip.

Without --out the breakpoints are printed. With --out a 2x2 chart of every
membership curve is written as PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if outPath == "" {
				return chart.Describe(cmd.OutOrStdout(), a.model.Variables())
			}

			return a.writeChart(cmd.OutOrStdout(), outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write a PNG chart to this file")

	return cmd
}
