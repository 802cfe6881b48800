// Package forecast fits a seasonal regression model per signal (income,
// expense) on monthly totals and predicts future months. Totals are
// stabilized with a log1p transform before fitting and inverted with expm1
// afterwards, re-applying the storage sign convention.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"fintrack/internal/core"
)

var (
	// ErrEmptyDataset means no records matched the requested signal. The
	// caller should treat the forecast as optional output.
	ErrEmptyDataset = errors.New("no records for requested category type")
	// ErrModelFit means records exist but the model cannot be fitted,
	// either from too little history or a degenerate system.
	ErrModelFit = errors.New("cannot fit forecast model")
)

// Point is one forecasted month: the month-end date and the predicted
// signed amount (negative for expense, positive for income).
type Point struct {
	Month time.Time `json:"month"`
	Value float64   `json:"value"`
}

type monthObs struct {
	end   time.Time
	total float64
}

// Forecast predicts `periods` months beyond the last observed month for one
// signal. Only the future points are returned, never the back-fit history.
func Forecast(snapshot []core.Transaction, signal core.CategoryType, periods int) ([]Point, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be positive, got %d", periods)
	}
	if signal != core.TypeIncome && signal != core.TypeExpense {
		return nil, fmt.Errorf("unsupported forecast signal %q", signal)
	}

	monthly := monthlySums(snapshot, signal)
	if len(monthly) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(monthly) < minObservedMonths {
		return nil, fmt.Errorf("%w: %d observed months, need at least %d", ErrModelFit, len(monthly), minObservedMonths)
	}

	// The log transform needs a non-negative domain, so expense totals go
	// in as positive magnitudes; the sign comes back after inversion.
	origin := monthly[0].end
	ts := make([]float64, len(monthly))
	ys := make([]float64, len(monthly))
	for i, m := range monthly {
		ts[i] = daysSince(origin, m.end)
		ys[i] = math.Log1p(math.Abs(m.total))
	}

	model, err := fitSeasonal(ts, ys)
	if err != nil {
		return nil, err
	}

	last := monthly[len(monthly)-1].end
	points := make([]Point, 0, periods)
	for i := 1; i <= periods; i++ {
		end := monthEnd(last.Year(), last.Month()+time.Month(i))
		predicted := math.Expm1(model.predict(daysSince(origin, end)))
		if signal == core.TypeExpense {
			predicted = -predicted
		}
		points = append(points, Point{Month: end, Value: predicted})
	}
	return points, nil
}

// monthlySums aggregates signed amounts per calendar month for one signal,
// in chronological order. Months with no records are simply absent; there
// is no zero-filling.
func monthlySums(snapshot []core.Transaction, signal core.CategoryType) []monthObs {
	totals := make(map[time.Time]float64)
	for _, t := range snapshot {
		if t.CategoryType != signal {
			continue
		}
		totals[monthEnd(t.Date.Year(), t.Date.Month())] += t.Amount
	}
	out := make([]monthObs, 0, len(totals))
	for end, total := range totals {
		out = append(out, monthObs{end: end, total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].end.Before(out[j].end) })
	return out
}

// monthEnd returns the last day of the given month in UTC. The month may
// be out of range; time.Date normalizes it.
func monthEnd(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func daysSince(origin, t time.Time) float64 {
	return t.Sub(origin).Hours() / 24
}
