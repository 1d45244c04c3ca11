package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"tonepulse/pkg/contracts/domain"
)

// Regress fits an ordinary least squares line y = intercept + slope*x and
// reports the fit quality alongside a two-sided t-test on the slope. Fewer
// than three observations leave no residual degrees of freedom, so the
// result is all NaN.
func Regress(x, y []float64) domain.RegressionResult {
	nan := domain.RegressionResult{
		Slope: math.NaN(), Intercept: math.NaN(),
		RSquared: math.NaN(), PValue: math.NaN(), StdErr: math.NaN(),
	}
	if len(x) != len(y) || len(x) < 3 {
		return nan
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(slope) {
		return nan
	}

	n := float64(len(x))
	xMean := stat.Mean(x, nil)
	var sse, sxx float64
	for i := range x {
		resid := y[i] - (intercept + slope*x[i])
		sse += resid * resid
		dx := x[i] - xMean
		sxx += dx * dx
	}
	if sxx == 0 {
		return nan
	}

	r2 := stat.RSquared(x, y, nil, intercept, slope)
	stdErr := math.Sqrt(sse / (n - 2) / sxx)

	pValue := math.NaN()
	if stdErr > 0 {
		tStat := slope / stdErr
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
		pValue = 2 * dist.CDF(-math.Abs(tStat))
	} else if slope != 0 {
		pValue = 0
	}

	return domain.RegressionResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		PValue:    pValue,
		StdErr:    stdErr,
	}
}
