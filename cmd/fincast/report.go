package main

import (
	"os"

	"github.com/fincast/fincast/internal/report"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Print the dashboard as a static report",
		Long: `Load the given transaction files and print the full dashboard:
key metrics, category breakdowns, insights, and the forecast.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			opts, err := forecastOptionsFromFlags(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, args)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			r, err := report.Build(ctx, store, filter, opts)
			if err != nil {
				return err
			}

			return report.NewCLIFormatter(os.Stdout).Format(r)
		},
	}

	addFilterFlags(cmd)
	addForecastFlags(cmd)

	return cmd
}
