package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model constants. The 30.5-day block is the explicit calendar-month
// seasonality at Fourier order 5; the yearly block covers the model's
// default seasonal terms. Timestamps are measured in days since the first
// observed month.
const (
	monthlyPeriodDays = 30.5
	monthlyOrder      = 5
	yearlyPeriodDays  = 365.25
	yearlyOrder       = 3

	// Ridge weight applied to everything except the intercept. It keeps the
	// normal equations well conditioned when observed months are fewer than
	// feature columns, and damps the seasonal terms the way a seasonality
	// prior would.
	ridgeLambda = 0.1

	// Below this many observed months a fit is meaningless and the engine
	// reports ErrModelFit instead of attempting one.
	minObservedMonths = 3
)

// seasonalModel is an additive trend-plus-seasonality regression fitted on
// log-transformed monthly totals.
type seasonalModel struct {
	coef []float64
}

func featureVector(t float64) []float64 {
	f := make([]float64, 0, 2+2*yearlyOrder+2*monthlyOrder)
	f = append(f, 1, t/yearlyPeriodDays)
	for k := 1; k <= yearlyOrder; k++ {
		w := 2 * math.Pi * float64(k) * t / yearlyPeriodDays
		f = append(f, math.Sin(w), math.Cos(w))
	}
	for k := 1; k <= monthlyOrder; k++ {
		w := 2 * math.Pi * float64(k) * t / monthlyPeriodDays
		f = append(f, math.Sin(w), math.Cos(w))
	}
	return f
}

// fitSeasonal solves the ridge-regularized least squares problem
// (XᵀX + λD)β = Xᵀy, with D zero on the intercept row.
func fitSeasonal(ts, ys []float64) (*seasonalModel, error) {
	n := len(ts)
	p := len(featureVector(0))

	x := mat.NewDense(n, p, nil)
	for i, t := range ts {
		x.SetRow(i, featureVector(t))
	}
	y := mat.NewVecDense(n, ys)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 1; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+ridgeLambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var coef mat.VecDense
	if err := coef.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("%w: normal equations not solvable: %v", ErrModelFit, err)
	}

	out := make([]float64, p)
	copy(out, coef.RawVector().Data)
	return &seasonalModel{coef: out}, nil
}

func (m *seasonalModel) predict(t float64) float64 {
	var v float64
	for j, f := range featureVector(t) {
		v += m.coef[j] * f
	}
	return v
}
