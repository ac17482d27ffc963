package forecast

import (
	"testing"
	"time"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestPrepare(t *testing.T) {
	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, Prepare(nil))
		assert.Nil(t, Prepare([]Point{}))
	})

	t.Run("first sample has zero days", func(t *testing.T) {
		samples := Prepare([]Point{
			{Date: day(3), Amount: 30},
			{Date: day(0), Amount: 5},
			{Date: day(7), Amount: 70},
		})

		require.Len(t, samples, 3)
		assert.Equal(t, 0, samples[0].Days)
		assert.Equal(t, 3, samples[1].Days)
		assert.Equal(t, 7, samples[2].Days)
		assert.Equal(t, 5.0, samples[0].Amount)
	})

	t.Run("normalizes timestamps to civil days", func(t *testing.T) {
		loc := time.FixedZone("UTC-8", -8*3600)
		samples := Prepare([]Point{
			{Date: time.Date(2024, 1, 1, 23, 45, 0, 0, loc), Amount: 1},
			{Date: time.Date(2024, 1, 4, 0, 30, 0, 0, loc), Amount: 2},
		})

		require.Len(t, samples, 2)
		assert.Equal(t, day(0), samples[0].Date)
		assert.Equal(t, 3, samples[1].Days)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		points := []Point{
			{Date: day(5), Amount: 2},
			{Date: day(1), Amount: 1},
		}
		Prepare(points)
		assert.Equal(t, day(5), points[0].Date)
	})
}

func TestFit(t *testing.T) {
	t.Run("empty series is an error", func(t *testing.T) {
		_, err := Fit(nil, FitOptions{})
		assert.ErrorIs(t, err, common.ErrEmptySeries)
	})

	t.Run("recovers a perfect line", func(t *testing.T) {
		points := make([]Point, 10)
		for i := range points {
			points[i] = Point{Date: day(i), Amount: 10*float64(i) + 5}
		}

		m, err := Fit(Prepare(points), FitOptions{})
		require.NoError(t, err)

		assert.InDelta(t, 10.0, m.Slope, 1e-9)
		assert.InDelta(t, 5.0, m.Intercept, 1e-9)
		assert.False(t, m.Constant)
		assert.Equal(t, day(0), m.Origin)
		assert.Equal(t, day(9), m.Last)
	})

	t.Run("three point example", func(t *testing.T) {
		m, err := Fit(Prepare([]Point{
			{Date: day(0), Amount: 100},
			{Date: day(1), Amount: 200},
			{Date: day(2), Amount: 300},
		}), FitOptions{})
		require.NoError(t, err)

		assert.InDelta(t, 100.0, m.Slope, 1e-9)
		assert.InDelta(t, 100.0, m.Intercept, 1e-9)

		points, err := Predict(m, 2)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, day(3), points[0].Date)
		assert.InDelta(t, 400.0, points[0].Amount, 1e-9)
		assert.Equal(t, day(4), points[1].Date)
		assert.InDelta(t, 500.0, points[1].Amount, 1e-9)
	})

	t.Run("single observation yields a constant model", func(t *testing.T) {
		m, err := Fit(Prepare([]Point{{Date: day(0), Amount: 42.5}}), FitOptions{})
		require.NoError(t, err)

		assert.True(t, m.Constant)
		assert.Equal(t, 0.0, m.Slope)
		assert.InDelta(t, 42.5, m.Intercept, 1e-9)
	})

	t.Run("one distinct day yields a constant model at the mean", func(t *testing.T) {
		m, err := Fit(Prepare([]Point{
			{Date: day(0), Amount: 50},
			{Date: day(0), Amount: 50},
			{Date: day(0), Amount: 50},
		}), FitOptions{})
		require.NoError(t, err)

		assert.True(t, m.Constant)
		assert.InDelta(t, 50.0, m.Intercept, 1e-9)
	})

	t.Run("same seed reproduces the model", func(t *testing.T) {
		points := []Point{
			{Date: day(0), Amount: 12},
			{Date: day(1), Amount: 30},
			{Date: day(2), Amount: 19},
			{Date: day(3), Amount: 44},
			{Date: day(4), Amount: 38},
			{Date: day(5), Amount: 61},
		}
		opts := FitOptions{TrainRatio: 0.8, Seed: 7}

		first, err := Fit(Prepare(points), opts)
		require.NoError(t, err)
		second, err := Fit(Prepare(points), opts)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("zero options resolve to the documented defaults", func(t *testing.T) {
		opts := FitOptions{}.withDefaults()
		assert.Equal(t, int64(DefaultSeed), opts.Seed)
		assert.InDelta(t, DefaultTrainRatio, opts.TrainRatio, 1e-12)

		// An explicit non-zero seed is preserved as-is.
		opts = FitOptions{Seed: 7}.withDefaults()
		assert.Equal(t, int64(7), opts.Seed)
	})

	t.Run("does not mutate the samples", func(t *testing.T) {
		samples := Prepare([]Point{
			{Date: day(0), Amount: 1},
			{Date: day(1), Amount: 2},
			{Date: day(2), Amount: 3},
		})
		want := append([]Sample(nil), samples...)

		_, err := Fit(samples, FitOptions{})
		require.NoError(t, err)
		assert.Equal(t, want, samples)
	})
}

func TestPredict(t *testing.T) {
	linear := func() Model {
		m, err := Fit(Prepare([]Point{
			{Date: day(0), Amount: 5},
			{Date: day(1), Amount: 15},
			{Date: day(2), Amount: 25},
			{Date: day(3), Amount: 35},
			{Date: day(4), Amount: 45},
		}), FitOptions{})
		require.NoError(t, err)
		return m
	}

	t.Run("horizon entries with contiguous dates", func(t *testing.T) {
		for _, horizon := range []int{1, 7, 30, 365} {
			points, err := Predict(linear(), horizon)
			require.NoError(t, err)
			require.Len(t, points, horizon)

			assert.Equal(t, day(5), points[0].Date)
			for i := 1; i < len(points); i++ {
				assert.Equal(t, points[i-1].Date.AddDate(0, 0, 1), points[i].Date,
					"dates must be contiguous at index %d", i)
			}
		}
	})

	t.Run("continues the fitted line", func(t *testing.T) {
		points, err := Predict(linear(), 3)
		require.NoError(t, err)

		assert.InDelta(t, 55.0, points[0].Amount, 1e-9)
		assert.InDelta(t, 65.0, points[1].Amount, 1e-9)
		assert.InDelta(t, 75.0, points[2].Amount, 1e-9)
	})

	t.Run("constant model predicts a flat line", func(t *testing.T) {
		m, err := Fit(Prepare([]Point{{Date: day(0), Amount: 20}}), FitOptions{})
		require.NoError(t, err)

		points, err := Predict(m, 5)
		require.NoError(t, err)
		for _, p := range points {
			assert.InDelta(t, 20.0, p.Amount, 1e-9)
		}
	})

	t.Run("invalid horizon is an error", func(t *testing.T) {
		for _, horizon := range []int{0, -1, -30} {
			_, err := Predict(linear(), horizon)
			assert.ErrorIs(t, err, common.ErrInvalidHorizon)
		}
	})

	t.Run("unfitted model is an error", func(t *testing.T) {
		_, err := Predict(Model{}, 10)
		assert.ErrorIs(t, err, common.ErrEmptySeries)
	})
}

func TestForecastTransactions(t *testing.T) {
	income := func(offset int, amount float64) model.Transaction {
		return model.Transaction{Date: day(offset), Amount: amount, Category: "Salary"}
	}
	expense := func(offset int, amount float64) model.Transaction {
		return model.Transaction{Date: day(offset), Amount: -amount, Category: "Groceries"}
	}

	t.Run("both directions forecast independently", func(t *testing.T) {
		result, err := ForecastTransactions([]model.Transaction{
			income(0, 100), income(1, 200), income(2, 300),
			expense(0, 10), expense(1, 20), expense(2, 30),
		}, Options{Horizon: 5})
		require.NoError(t, err)

		require.Len(t, result.Income, 5)
		require.Len(t, result.Expense, 5)
		require.NotNil(t, result.IncomeModel)
		require.NotNil(t, result.ExpenseModel)

		// Expense magnitudes are fitted, not signed amounts.
		assert.InDelta(t, 10.0, result.ExpenseModel.Slope, 1e-9)
		assert.InDelta(t, 100.0, result.IncomeModel.Slope, 1e-9)
	})

	t.Run("empty direction yields empty forecast and zero contribution", func(t *testing.T) {
		result, err := ForecastTransactions([]model.Transaction{
			expense(0, 10), expense(1, 20), expense(2, 30),
		}, Options{Horizon: 3})
		require.NoError(t, err)

		assert.Empty(t, result.Income)
		assert.Nil(t, result.IncomeModel)
		require.Len(t, result.Expense, 3)
		assert.InDelta(t, -result.TotalExpense(), result.NetBalance(), 1e-9)
	})

	t.Run("no transactions yields empty forecasts", func(t *testing.T) {
		result, err := ForecastTransactions(nil, Options{})
		require.NoError(t, err)

		assert.Empty(t, result.Income)
		assert.Empty(t, result.Expense)
		assert.Equal(t, 0.0, result.NetBalance())
	})

	t.Run("default horizon is thirty days", func(t *testing.T) {
		result, err := ForecastTransactions([]model.Transaction{
			income(0, 100), income(1, 110), income(2, 120),
		}, Options{})
		require.NoError(t, err)

		assert.Len(t, result.Income, DefaultHorizon)
	})

	t.Run("net balance identity", func(t *testing.T) {
		result := Result{
			Income:  []Point{{Amount: 10}, {Amount: 20}, {Amount: 30}},
			Expense: []Point{{Amount: 5}, {Amount: 45}},
		}
		assert.InDelta(t, 60.0-50.0, result.NetBalance(), 1e-12)
		assert.InDelta(t, result.TotalIncome()-result.TotalExpense(), result.NetBalance(), 1e-12)
	})
}
