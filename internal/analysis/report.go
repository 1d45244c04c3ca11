package analysis

import (
	"math"
	"strconv"

	"tonepulse/pkg/contracts/domain"
)

// Report collects every statistic computed over one merged table: level
// and first-difference correlations, the lag sweep, and the two OLS fits
// of price on sentiment.
type Report struct {
	Correlation     float64
	Spearman        float64
	DiffCorrelation float64
	DiffSpearman    float64

	LagCorrelations map[string]float64

	Level       domain.RegressionResult
	Differences domain.RegressionResult
}

// Analyze runs the full statistics pass. Merged rows drive the level
// statistics and the lag sweep; differenced rows drive the difference
// statistics. Series too short for a given statistic leave it NaN, which
// Flatten then omits.
func Analyze(merged []domain.MergedRow, diffs []domain.DifferencedRow, maxLag int) *Report {
	r := &Report{LagCorrelations: map[string]float64{}}

	sentiment := make([]float64, len(merged))
	price := make([]float64, len(merged))
	for i, row := range merged {
		sentiment[i] = row.Sentiment
		price[i] = row.Price
	}

	r.Correlation = Pearson(sentiment, price)
	r.Spearman = Spearman(sentiment, price)
	r.LagCorrelations = LagCorrelations(sentiment, price, maxLag)
	r.Level = Regress(sentiment, price)

	dSentiment := make([]float64, len(diffs))
	dPrice := make([]float64, len(diffs))
	for i, row := range diffs {
		dSentiment[i] = row.DiffSentiment
		dPrice[i] = row.DiffPrice
	}

	r.DiffCorrelation = Pearson(dSentiment, dPrice)
	r.DiffSpearman = Spearman(dSentiment, dPrice)
	r.Differences = Regress(dSentiment, dPrice)

	return r
}

// Flatten renders the report as a flat string map suitable for the
// results JSON. Statistics that could not be computed are left out.
func (r *Report) Flatten() map[string]string {
	out := make(map[string]string)

	put := func(key string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		out[key] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	put("correlation", r.Correlation)
	put("spearman_correlation", r.Spearman)
	put("diff_correlation", r.DiffCorrelation)
	put("diff_spearman_correlation", r.DiffSpearman)

	for name, v := range r.LagCorrelations {
		put("lag_correlations."+name, v)
	}

	putRegression := func(prefix string, reg domain.RegressionResult) {
		put(prefix+".slope", reg.Slope)
		put(prefix+".intercept", reg.Intercept)
		put(prefix+".r_squared", reg.RSquared)
		put(prefix+".p_value", reg.PValue)
		put(prefix+".std_err", reg.StdErr)
	}
	putRegression("level", r.Level)
	putRegression("differences", r.Differences)

	return out
}
