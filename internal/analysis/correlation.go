// Package analysis computes correlation and regression statistics over
// the merged sentiment/price table.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Pearson returns the sample Pearson correlation coefficient of x and y.
// It returns NaN when the inputs are shorter than two observations or
// their lengths differ.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Spearman returns the Spearman rank correlation of x and y, the Pearson
// correlation of the rank-transformed inputs. Ties receive their average
// rank.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(x), ranks(y), nil)
}

// ranks maps values to 1-based ranks, assigning tied values the mean of
// the ranks they span.
func ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// ranks i+1 .. j+1 share one value
		mean := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			out[idx[k]] = mean
		}
		i = j + 1
	}
	return out
}
