package main

import (
	"os"

	"github.com/fincast/fincast/internal/forecast"
	"github.com/fincast/fincast/internal/report"
	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast [files...]",
		Short: "Extrapolate future income and expenses",
		Long: `Fit a linear model per direction against elapsed days and print the
daily predictions for the horizon, with the predicted net balance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, err := forecastOptionsFromFlags(cmd)
			if err != nil {
				return err
			}

			txns, _, err := loadTransactions(ctx, args)
			if err != nil {
				return err
			}

			result, err := forecast.ForecastTransactions(txns, opts)
			if err != nil {
				return err
			}

			return report.NewCLIFormatter(os.Stdout).FormatForecast(result)
		},
	}

	addForecastFlags(cmd)

	return cmd
}
