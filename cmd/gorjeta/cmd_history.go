package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spboyer/gorjeta/internal/history"
	"github.com/spboyer/gorjeta/internal/utils"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var (
		format string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded tip calculations",
		Long: `Show recorded tip calculations as a table or JSON.

With --watch the table is redrawn every time the history file changes, until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return a.watchHistory(ctx, out)
			}

			records, err := a.store.Load()
			if err != nil {
				return err
			}

			if format == "json" {
				if records == nil {
					records = []history.Record{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			a.writeHistory(out, records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw the table whenever the history changes")

	cmd.AddCommand(newHistoryImportCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// watchHistory redraws the history table on every change until ctx is done.
func (a *app) watchHistory(ctx context.Context, out io.Writer) error {
	return a.store.Watch(ctx, func(records []history.Record, err error) {
		fmt.Fprintf(out, "\n%s  %s\n", a.now().Format("15:04:05"), a.store.Path()) //nolint:errcheck
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
			return
		}
		a.writeHistory(out, records)
	})
}

func newHistoryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> [file...]",
		Short: "Import calculations from a historico_gorjetas.json file",
		Long: `Import calculations recorded in the legacy Portuguese format, where
dates look like 14/03/2026 19:30 and keys are data, qualidade_refeicao,
qualidade_servico, tempo_atendimento, valor_conta, porcentagem_gorjeta and
valor_gorjeta. Dates are read in the local time zone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}

			var all []history.Record
			for _, path := range utils.ResolvePaths(args, wd) {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				records, err := history.DecodeLegacy(data, time.Local)
				if err != nil {
					return fmt.Errorf("importing %s: %w", path, err)
				}
				all = append(all, records...)
			}

			if err := a.store.Append(all...); err != nil {
				return fmt.Errorf("saving history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d calculation(s) into %s\n", len(all), a.store.Path()) //nolint:errcheck
			return nil
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded calculation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.") //nolint:errcheck
			return nil
		},
	}
}
