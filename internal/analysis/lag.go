package analysis

import (
	"fmt"
	"math"
)

// LagCorrelations sweeps lags from -maxLag to +maxLag and correlates the
// sentiment series against the shifted price series. A positive lag means
// the price series trails sentiment by that many rows and is reported as
// stock_lag_k; a negative lag shifts sentiment instead and is reported as
// sentiment_lag_k. Lags whose overlap drops below two observations are
// omitted.
func LagCorrelations(sentiment, price []float64, maxLag int) map[string]float64 {
	out := make(map[string]float64)
	if len(sentiment) != len(price) {
		return out
	}
	n := len(sentiment)
	for k := 1; k <= maxLag; k++ {
		if n-k < 2 {
			break
		}
		if r := Pearson(sentiment[:n-k], price[k:]); !math.IsNaN(r) {
			out[fmt.Sprintf("stock_lag_%d", k)] = r
		}
		if r := Pearson(sentiment[k:], price[:n-k]); !math.IsNaN(r) {
			out[fmt.Sprintf("sentiment_lag_%d", k)] = r
		}
	}
	return out
}
