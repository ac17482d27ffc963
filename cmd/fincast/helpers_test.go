package main

import (
	"testing"

	"github.com/fincast/fincast/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test", Run: func(_ *cobra.Command, _ []string) {}}
	addFilterFlags(cmd)
	addForecastFlags(cmd)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	return cmd
}

func setConfigDefaults(t *testing.T) {
	t.Helper()
	viper.SetDefault("forecast.horizon", 30)
	viper.SetDefault("forecast.seed", 42)
	viper.SetDefault("forecast.train_ratio", 0.8)
	t.Cleanup(viper.Reset)
}

func TestFilterFromFlags(t *testing.T) {
	t.Run("no flags means no filter", func(t *testing.T) {
		filter, err := filterFromFlags(newTestCmd(t))
		require.NoError(t, err)
		assert.Empty(t, filter.Category)
		assert.Empty(t, filter.Month)
	})

	t.Run("valid month", func(t *testing.T) {
		filter, err := filterFromFlags(newTestCmd(t, "--month", "2024-02", "--category", "Dining"))
		require.NoError(t, err)
		assert.Equal(t, "2024-02", filter.Month)
		assert.Equal(t, "Dining", filter.Category)
	})

	t.Run("invalid month is rejected", func(t *testing.T) {
		for _, month := range []string{"2024", "02-2024", "2024-13", "2024-0", "February 2024"} {
			_, err := filterFromFlags(newTestCmd(t, "--month", month))
			assert.Error(t, err, "month %q should be rejected", month)
		}
	})
}

func TestForecastOptionsFromFlags(t *testing.T) {
	t.Run("defaults come from config", func(t *testing.T) {
		setConfigDefaults(t)

		opts, err := forecastOptionsFromFlags(newTestCmd(t))
		require.NoError(t, err)
		assert.Equal(t, 30, opts.Horizon)
		assert.Equal(t, int64(42), opts.Fit.Seed)
		assert.InDelta(t, 0.8, opts.Fit.TrainRatio, 1e-9)
	})

	t.Run("flags override config", func(t *testing.T) {
		setConfigDefaults(t)

		opts, err := forecastOptionsFromFlags(newTestCmd(t,
			"--horizon", "14", "--seed", "7", "--train-ratio", "0.9"))
		require.NoError(t, err)
		assert.Equal(t, 14, opts.Horizon)
		assert.Equal(t, int64(7), opts.Fit.Seed)
		assert.InDelta(t, 0.9, opts.Fit.TrainRatio, 1e-9)
	})

	t.Run("invalid horizon", func(t *testing.T) {
		setConfigDefaults(t)

		_, err := forecastOptionsFromFlags(newTestCmd(t, "--horizon", "-5"))
		assert.ErrorIs(t, err, common.ErrInvalidHorizon)
	})

	t.Run("invalid train ratio", func(t *testing.T) {
		setConfigDefaults(t)

		_, err := forecastOptionsFromFlags(newTestCmd(t, "--train-ratio", "1.5"))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestDataFiles(t *testing.T) {
	t.Run("arguments win", func(t *testing.T) {
		files, err := dataFiles([]string{"a.csv", "b.csv"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.csv", "b.csv"}, files)
	})

	t.Run("config fallback", func(t *testing.T) {
		viper.Set("data.files", []string{"from-config.csv"})
		t.Cleanup(viper.Reset)

		files, err := dataFiles(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"from-config.csv"}, files)
	})

	t.Run("nothing configured is an error", func(t *testing.T) {
		viper.Reset()

		_, err := dataFiles(nil)
		assert.ErrorIs(t, err, common.ErrNoTransactions)
	})
}
