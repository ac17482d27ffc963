// Package forecast fits per-direction linear models to transaction
// history and extrapolates daily income and expense amounts over a fixed
// horizon. Dates are treated as civil days; the elapsed-day feature for
// every series is measured from that series' own first date, and the same
// origin scores future dates.
package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/model"
	"gonum.org/v1/gonum/stat"
)

// Defaults applied when options are left zero.
const (
	DefaultHorizon    = 30
	DefaultTrainRatio = 0.8
	DefaultSeed       = 42
)

// Point is a dated amount: an observation when fed in, a prediction when
// handed back.
type Point struct {
	Date   time.Time
	Amount float64
}

// Sample is an observation augmented with its elapsed-day feature.
type Sample struct {
	Date   time.Time
	Amount float64
	Days   int // whole days since the series' first date
}

// Model is a fitted linear predictor mapping days-since-origin to an
// amount.
type Model struct {
	Origin    time.Time // first date of the fitting series
	Last      time.Time // latest date of the fitting series
	Slope     float64
	Intercept float64
	R2        float64 // fit quality on the held-out subset; NaN when unscorable
	Points    int     // size of the fitting series
	Constant  bool    // true when too few distinct days forced a flat fit
}

// FitOptions controls the train/holdout split. Zero values select the
// defaults; determinism comes from the explicit seed, never from global
// random state.
type FitOptions struct {
	TrainRatio float64 // fraction of samples used for training, in (0, 1]
	Seed       int64   // shuffle seed for the split; 0 selects DefaultSeed
}

func (o FitOptions) withDefaults() FitOptions {
	if o.TrainRatio <= 0 || o.TrainRatio > 1 {
		o.TrainRatio = DefaultTrainRatio
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// Prepare sorts a copy of the observations by date, normalizes every date
// to its UTC civil day, and attaches the days-since-start feature. The
// first prepared sample always has Days == 0. Empty input yields nil.
func Prepare(points []Point) []Sample {
	if len(points) == 0 {
		return nil
	}

	cp := make([]Point, len(points))
	copy(cp, points)
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Date.Before(cp[j].Date)
	})

	origin := model.Day(cp[0].Date)
	samples := make([]Sample, len(cp))
	for i, p := range cp {
		day := model.Day(p.Date)
		samples[i] = Sample{
			Date:   day,
			Amount: p.Amount,
			Days:   daysBetween(origin, day),
		}
	}

	return samples
}

// Fit estimates an ordinary least-squares line of amount on days since
// start. The samples are split into a training and a held-out subset by a
// seeded shuffle (held-out count = ceil(n * (1 - TrainRatio)), always
// leaving at least one training sample); only the training subset
// contributes to the fit. When the training subset covers fewer than two
// distinct days, Fit returns an explicit constant model at the training
// mean instead of letting the regression degenerate.
func Fit(samples []Sample, opts FitOptions) (Model, error) {
	n := len(samples)
	if n == 0 {
		return Model{}, common.ErrEmptySeries
	}

	opts = opts.withDefaults()

	m := Model{
		Origin: samples[0].Date,
		Last:   samples[0].Date,
		Points: n,
		R2:     math.NaN(),
	}
	for _, s := range samples {
		if s.Date.Before(m.Origin) {
			m.Origin = s.Date
		}
		if s.Date.After(m.Last) {
			m.Last = s.Date
		}
	}

	held, train := split(samples, opts)

	days := make(map[int]struct{}, len(train))
	for _, s := range train {
		days[s.Days] = struct{}{}
	}
	if len(days) < 2 {
		m.Intercept = meanAmount(train)
		m.Constant = true
		return m, nil
	}

	xs := make([]float64, len(train))
	ys := make([]float64, len(train))
	for i, s := range train {
		xs[i] = float64(s.Days)
		ys[i] = s.Amount
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	m.Intercept = alpha
	m.Slope = beta
	m.R2 = holdoutR2(held, alpha, beta)

	return m, nil
}

// Predict extrapolates the model over the given horizon: one entry per
// calendar day, starting the day after the model's last observed date.
// The returned dates are strictly increasing and contiguous.
func Predict(m Model, horizon int) ([]Point, error) {
	if m.Points == 0 {
		return nil, common.ErrEmptySeries
	}
	if horizon < 1 {
		return nil, fmt.Errorf("%w: got %d", common.ErrInvalidHorizon, horizon)
	}

	points := make([]Point, horizon)
	for i := 1; i <= horizon; i++ {
		date := m.Last.AddDate(0, 0, i)
		days := daysBetween(m.Origin, date)
		points[i-1] = Point{
			Date:   date,
			Amount: m.Slope*float64(days) + m.Intercept,
		}
	}

	return points, nil
}

// split shuffles sample indices with the seeded generator and peels off
// the held-out subset first, mirroring the usual test_size=1-ratio
// convention.
func split(samples []Sample, opts FitOptions) (held, train []Sample) {
	n := len(samples)
	heldN := int(math.Ceil(float64(n) * (1 - opts.TrainRatio)))
	if heldN >= n {
		heldN = n - 1
	}

	perm := rand.New(rand.NewSource(opts.Seed)).Perm(n)
	held = make([]Sample, 0, heldN)
	train = make([]Sample, 0, n-heldN)
	for i, idx := range perm {
		if i < heldN {
			held = append(held, samples[idx])
		} else {
			train = append(train, samples[idx])
		}
	}

	return held, train
}

func holdoutR2(held []Sample, alpha, beta float64) float64 {
	if len(held) < 2 {
		return math.NaN()
	}

	xs := make([]float64, len(held))
	ys := make([]float64, len(held))
	for i, s := range held {
		xs[i] = float64(s.Days)
		ys[i] = s.Amount
	}
	if stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}

	return stat.RSquared(xs, ys, nil, alpha, beta)
}

func meanAmount(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Amount
	}
	return stat.Mean(ys, nil)
}

func daysBetween(origin, date time.Time) int {
	return int(date.Sub(origin) / (24 * time.Hour))
}
