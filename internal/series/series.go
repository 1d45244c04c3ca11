// Package series holds the pure daily-series operations between
// normalization and analysis: same-day aggregation, date alignment and
// first differences. Every function returns a new slice; inputs are never
// mutated.
package series

import (
	"sort"

	"tonepulse/pkg/contracts/domain"
)

// MeanByDate collapses same-day rows into one arithmetic mean per date and
// returns the series ordered by date. The reduction is commutative, so any
// permutation of the input yields the same aggregate.
func MeanByDate(points domain.DailySeries) domain.DailySeries {
	if len(points) == 0 {
		return nil
	}

	sums := make(map[string]float64, len(points))
	counts := make(map[string]int, len(points))
	for _, p := range points {
		sums[p.Date] += p.Value
		counts[p.Date]++
	}

	out := make(domain.DailySeries, 0, len(sums))
	for date, sum := range sums {
		out = append(out, domain.DailyPoint{Date: date, Value: sum / float64(counts[date])})
	}
	out.Sort()
	return out
}

// InnerJoin aligns the sentiment and price series on calendar date. Only
// dates present in both sides produce a row; asymmetric dates (market
// holidays, news-only days) are dropped by design. Output is ordered by
// date and never larger than the smaller input.
func InnerJoin(sentiment, price domain.DailySeries) []domain.MergedRow {
	if len(sentiment) == 0 || len(price) == 0 {
		return nil
	}

	prices := make(map[string]float64, len(price))
	for _, p := range price {
		prices[p.Date] = p.Value
	}

	var rows []domain.MergedRow
	for _, s := range sentiment {
		if v, ok := prices[s.Date]; ok {
			rows = append(rows, domain.MergedRow{Date: s.Date, Sentiment: s.Value, Price: v})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// Diff computes day-over-day deltas on both aligned series. The first row
// has no predecessor and is dropped; fewer than two input rows yield an
// empty result.
func Diff(rows []domain.MergedRow) []domain.DifferencedRow {
	if len(rows) < 2 {
		return nil
	}

	out := make([]domain.DifferencedRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		out = append(out, domain.DifferencedRow{
			MergedRow:     rows[i],
			DiffSentiment: rows[i].Sentiment - rows[i-1].Sentiment,
			DiffPrice:     rows[i].Price - rows[i-1].Price,
		})
	}
	return out
}
