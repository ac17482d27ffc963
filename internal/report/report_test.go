package report

import (
	"context"
	"testing"
	"time"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/dataset"
	"github.com/fincast/fincast/internal/forecast"
	"github.com/fincast/fincast/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(date string, category string, amount float64) model.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	t := model.Transaction{Date: d, Category: category, Amount: amount, Description: category}
	t.ID = t.GenerateID()
	return t
}

func openStore(t *testing.T, txns []model.Transaction) *dataset.Store {
	t.Helper()
	s, err := dataset.Open(context.Background(), txns)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	fixture := []model.Transaction{
		txn("2024-01-05", "Salary", 2500),
		txn("2024-01-10", "Groceries", -120),
		txn("2024-02-01", "Salary", 2500),
		txn("2024-02-14", "Dining", -80),
		txn("2024-03-03", "Groceries", -150),
	}

	t.Run("unfiltered report has all sections", func(t *testing.T) {
		s := openStore(t, fixture)

		r, err := Build(ctx, s, dataset.Filter{}, forecast.Options{Horizon: 10})
		require.NoError(t, err)

		assert.Equal(t, 5, r.Totals.Count)
		assert.NotEmpty(t, r.IncomeByCategory)
		assert.NotEmpty(t, r.ExpenseByCategory)
		assert.Len(t, r.Forecast.Income, 10)
		assert.Len(t, r.Forecast.Expense, 10)
	})

	t.Run("category filter suppresses breakdowns", func(t *testing.T) {
		s := openStore(t, fixture)

		r, err := Build(ctx, s, dataset.Filter{Category: "Groceries"}, forecast.Options{Horizon: 5})
		require.NoError(t, err)

		assert.Empty(t, r.IncomeByCategory)
		assert.Empty(t, r.ExpenseByCategory)
		assert.Equal(t, 2, r.Totals.Count)
	})

	t.Run("forecast ignores the filter", func(t *testing.T) {
		s := openStore(t, fixture)

		filtered, err := Build(ctx, s, dataset.Filter{Month: "2024-01"}, forecast.Options{Horizon: 5})
		require.NoError(t, err)
		unfiltered, err := Build(ctx, s, dataset.Filter{}, forecast.Options{Horizon: 5})
		require.NoError(t, err)

		// Whole-struct equality would compare the models' holdout R2,
		// which is NaN on series this small and never equal to itself.
		assert.Equal(t, unfiltered.Forecast.Income, filtered.Forecast.Income)
		assert.Equal(t, unfiltered.Forecast.Expense, filtered.Forecast.Expense)
		require.NotNil(t, filtered.Forecast.IncomeModel)
		require.NotNil(t, unfiltered.Forecast.IncomeModel)
		assert.Equal(t, unfiltered.Forecast.IncomeModel.Slope, filtered.Forecast.IncomeModel.Slope)
		assert.Equal(t, unfiltered.Forecast.IncomeModel.Intercept, filtered.Forecast.IncomeModel.Intercept)
		assert.Equal(t, unfiltered.Forecast.IncomeModel.Origin, filtered.Forecast.IncomeModel.Origin)
		assert.InDelta(t, unfiltered.Forecast.NetBalance(), filtered.Forecast.NetBalance(), 1e-12)
	})

	t.Run("empty dataset is ErrNoData", func(t *testing.T) {
		s := openStore(t, nil)

		_, err := Build(ctx, s, dataset.Filter{}, forecast.Options{})
		assert.ErrorIs(t, err, common.ErrNoData)
	})
}

func TestBestAndWorstMonth(t *testing.T) {
	t.Run("no months", func(t *testing.T) {
		_, _, ok := bestAndWorstMonth(nil)
		assert.False(t, ok)
	})

	t.Run("picks extremes", func(t *testing.T) {
		best, worst, ok := bestAndWorstMonth([]dataset.MonthNet{
			{Month: "2024-01", Net: 100},
			{Month: "2024-02", Net: -40},
			{Month: "2024-03", Net: 250},
		})
		require.True(t, ok)
		assert.Equal(t, "March 2024", best)
		assert.Equal(t, "February 2024", worst)
	})

	t.Run("gap months count as zero", func(t *testing.T) {
		best, worst, ok := bestAndWorstMonth([]dataset.MonthNet{
			{Month: "2024-01", Net: -100},
			{Month: "2024-04", Net: -250},
		})
		require.True(t, ok)
		// February and March are absent and therefore zero; February
		// comes first and wins the tie.
		assert.Equal(t, "February 2024", best)
		assert.Equal(t, "April 2024", worst)
	})

	t.Run("first occurrence wins ties", func(t *testing.T) {
		best, _, ok := bestAndWorstMonth([]dataset.MonthNet{
			{Month: "2024-01", Net: 50},
			{Month: "2024-02", Net: 50},
		})
		require.True(t, ok)
		assert.Equal(t, "January 2024", best)
	})

	t.Run("spans a year boundary", func(t *testing.T) {
		best, worst, ok := bestAndWorstMonth([]dataset.MonthNet{
			{Month: "2023-12", Net: 10},
			{Month: "2024-01", Net: -10},
		})
		require.True(t, ok)
		assert.Equal(t, "December 2023", best)
		assert.Equal(t, "January 2024", worst)
	})
}

func TestRecentTrend(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    Trend
	}{
		{name: "rising", amounts: []float64{10, 20, 30}, want: TrendUp},
		{name: "falling", amounts: []float64{30, 20, 10}, want: TrendDown},
		{name: "empty", amounts: nil, want: TrendStable},
		{name: "single value", amounts: []float64{10}, want: TrendStable},
		{name: "zero bases ignored", amounts: []float64{0, 0, 5}, want: TrendStable},
		{name: "negative amounts falling further", amounts: []float64{-10, -20, -40}, want: TrendUp},
		{name: "flat", amounts: []float64{10, 10, 10}, want: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recentTrend(tt.amounts))
		})
	}
}
