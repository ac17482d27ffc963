package main

import (
	"github.com/fincast/fincast/internal/tui"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [files...]",
		Short: "Open the interactive terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, err := forecastOptionsFromFlags(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, args)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return tui.Run(ctx, tui.Config{Store: store, Forecast: opts})
		},
	}

	addForecastFlags(cmd)

	return cmd
}
