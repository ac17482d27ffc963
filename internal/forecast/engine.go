package forecast

import (
	"fmt"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/model"
	"gonum.org/v1/gonum/floats"
)

// Options configures a composed forecast run.
type Options struct {
	Horizon int // forecast length in days; DefaultHorizon when zero
	Fit     FitOptions
}

func (o Options) withDefaults() Options {
	if o.Horizon == 0 {
		o.Horizon = DefaultHorizon
	}
	o.Fit = o.Fit.withDefaults()
	return o
}

// Result carries the per-direction forecasts from a composed run. A
// direction with no observed transactions has a nil forecast and a nil
// model; it contributes nothing to the net balance.
type Result struct {
	IncomeModel  *Model
	ExpenseModel *Model
	Income       []Point
	Expense      []Point
	Horizon      int
}

// NetBalance is the summed predicted income minus the summed predicted
// expenses over the forecast horizon.
func (r Result) NetBalance() float64 {
	return sumAmounts(r.Income) - sumAmounts(r.Expense)
}

// TotalIncome is the summed predicted income over the horizon.
func (r Result) TotalIncome() float64 {
	return sumAmounts(r.Income)
}

// TotalExpense is the summed predicted expenses over the horizon.
func (r Result) TotalExpense() float64 {
	return sumAmounts(r.Expense)
}

// ForecastTransactions is the composed entry point: it splits the
// transactions into income and expense series by amount sign, runs
// Prepare, Fit and Predict on each independently with the same horizon,
// and returns both forecasts. Expense amounts are made absolute before
// fitting, so both forecasts predict magnitudes. A series failure is
// reported on the result's side only; the other direction's forecast is
// still produced.
func ForecastTransactions(txns []model.Transaction, opts Options) (Result, error) {
	opts = opts.withDefaults()
	result := Result{Horizon: opts.Horizon}

	var income, expense []Point
	for _, t := range txns {
		switch t.Direction() {
		case model.DirectionIncome:
			income = append(income, Point{Date: t.Date, Amount: t.Amount})
		case model.DirectionExpense:
			expense = append(expense, Point{Date: t.Date, Amount: t.Absolute()})
		}
	}

	var err error
	result.IncomeModel, result.Income, err = forecastSeries(income, opts)
	if err != nil {
		common.LogWarn("income forecast unavailable", common.Fields{"error": err})
		result.IncomeModel, result.Income = nil, nil
	}

	result.ExpenseModel, result.Expense, err = forecastSeries(expense, opts)
	if err != nil {
		common.LogWarn("expense forecast unavailable", common.Fields{"error": err})
		result.ExpenseModel, result.Expense = nil, nil
	}

	return result, nil
}

// forecastSeries runs the prepare/fit/predict pipeline for one
// direction. An empty series is not an error: it yields no model and no
// forecast.
func forecastSeries(points []Point, opts Options) (*Model, []Point, error) {
	if len(points) == 0 {
		return nil, nil, nil
	}

	samples := Prepare(points)

	m, err := Fit(samples, opts.Fit)
	if err != nil {
		return nil, nil, fmt.Errorf("fitting series: %w", err)
	}

	predictions, err := Predict(m, opts.Horizon)
	if err != nil {
		return nil, nil, fmt.Errorf("predicting series: %w", err)
	}

	return &m, predictions, nil
}

func sumAmounts(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	amounts := make([]float64, len(points))
	for i, p := range points {
		amounts[i] = p.Amount
	}
	return floats.Sum(amounts)
}
