package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gorjeta",
		Short: "Gorjeta - fuzzy logic tip calculator",
		Long: `Gorjeta recommends a restaurant tip percentage from meal quality,
service quality and service time using Mamdani fuzzy inference.

Run without a subcommand to open the interactive menu.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return a.runMenu(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newCalcCommand())
	cmd.AddCommand(newSetsCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newRulesCommand())
	cmd.AddCommand(newSweepCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
