package main

import (
	"context"
	"fmt"
	"regexp"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/fincast/fincast/internal/forecast"
	"github.com/fincast/fincast/internal/loader"
	"github.com/fincast/fincast/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// dataFiles resolves the input files: positional arguments first, then
// the data.files config key.
func dataFiles(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if files := viper.GetStringSlice("data.files"); len(files) > 0 {
		return files, nil
	}
	return nil, common.NewUserError("no input files; pass them as arguments or set data.files in the config", common.ErrNoTransactions)
}

// loadTransactions reads and dedupes every input file.
func loadTransactions(ctx context.Context, args []string) ([]model.Transaction, []loader.Report, error) {
	files, err := dataFiles(args)
	if err != nil {
		return nil, nil, err
	}

	return loader.Load(ctx, files)
}

// openStore loads the input files into a fresh in-memory dataset.
func openStore(ctx context.Context, args []string) (*dataset.Store, error) {
	txns, _, err := loadTransactions(ctx, args)
	if err != nil {
		return nil, err
	}

	return dataset.Open(ctx, txns)
}

// addFilterFlags registers the category/month filter flags shared by
// the view commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("category", "", "only include this category")
	cmd.Flags().String("month", "", "only include this month (YYYY-MM)")
}

func filterFromFlags(cmd *cobra.Command) (dataset.Filter, error) {
	category, _ := cmd.Flags().GetString("category")
	month, _ := cmd.Flags().GetString("month")

	if month != "" && !monthPattern.MatchString(month) {
		return dataset.Filter{}, common.NewUserError(
			fmt.Sprintf("invalid month %q, expected YYYY-MM", month), nil)
	}

	return dataset.Filter{Category: category, Month: month}, nil
}

// addForecastFlags registers the forecast tuning flags.
func addForecastFlags(cmd *cobra.Command) {
	cmd.Flags().Int("horizon", 0, "days to forecast (default from config, 30)")
	cmd.Flags().Int64("seed", 0, "train/test split seed; 0 selects the config default, 42")
	cmd.Flags().Float64("train-ratio", 0, "training fraction of the split (default from config, 0.8)")
}

// forecastOptionsFromFlags builds forecast options, falling back to the
// viper config for any flag left unset.
func forecastOptionsFromFlags(cmd *cobra.Command) (forecast.Options, error) {
	horizon := viper.GetInt("forecast.horizon")
	if cmd.Flags().Changed("horizon") {
		horizon, _ = cmd.Flags().GetInt("horizon")
	}
	if horizon < 1 {
		return forecast.Options{}, fmt.Errorf("%w: got %d", common.ErrInvalidHorizon, horizon)
	}

	seed := viper.GetInt64("forecast.seed")
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetInt64("seed")
	}

	ratio := viper.GetFloat64("forecast.train_ratio")
	if cmd.Flags().Changed("train-ratio") {
		ratio, _ = cmd.Flags().GetFloat64("train-ratio")
	}
	if ratio <= 0 || ratio > 1 {
		return forecast.Options{}, common.NewUserError(
			fmt.Sprintf("train ratio %v is outside (0, 1]", ratio), common.ErrInvalidConfig)
	}

	return forecast.Options{
		Horizon: horizon,
		Fit:     forecast.FitOptions{TrainRatio: ratio, Seed: seed},
	}, nil
}
