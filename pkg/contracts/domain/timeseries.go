package domain

import (
	"sort"
)

// DailyPoint is one canonical daily observation from a single upstream source.
// The Date is always an ISO calendar date (YYYY-MM-DD); the meaning of Value
// depends on the source that produced it (news tone vs. adjusted close), but
// the shape is shared so both sides can be joined on Date.
type DailyPoint struct {
	Date  string  `json:"date" validate:"required,datetime=2006-01-02"`
	Value float64 `json:"value"`
}

// DailySeries is a set of DailyPoint records. After aggregation a series is
// ordered by date and holds at most one point per date; before aggregation it
// may carry any number of same-day rows.
type DailySeries []DailyPoint

// Sort orders the series by date in place. ISO dates sort lexicographically.
func (s DailySeries) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date < s[j].Date })
}

// Dates returns the ordered list of dates present in the series.
func (s DailySeries) Dates() []string {
	dates := make([]string, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the values of the series in its current order.
func (s DailySeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// MergedRow is one calendar date present in both the sentiment and the price
// series. Dates missing from either side do not produce a row.
type MergedRow struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Sentiment float64 `json:"sentiment"`
	Price     float64 `json:"price"`
}

// DifferencedRow extends MergedRow with day-over-day deltas against the
// previous merged row. The first merged row has no predecessor and never
// appears as a DifferencedRow.
type DifferencedRow struct {
	MergedRow
	DiffSentiment float64 `json:"diff_sentiment"`
	DiffPrice     float64 `json:"diff_price"`
}

// RegressionResult holds the output of an ordinary least-squares fit.
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
	StdErr    float64 `json:"std_err"`
}
