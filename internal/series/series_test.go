package series

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonepulse/pkg/contracts/domain"
)

func TestMeanByDateAveragesSameDayRows(t *testing.T) {
	points := domain.DailySeries{
		{Date: "2024-01-01", Value: 1.0},
		{Date: "2024-01-01", Value: 3.0},
		{Date: "2024-01-02", Value: 5.0},
	}

	got := MeanByDate(points)
	assert.Equal(t, domain.DailySeries{
		{Date: "2024-01-01", Value: 2.0},
		{Date: "2024-01-02", Value: 5.0},
	}, got)
}

func TestMeanByDateOrderIndependent(t *testing.T) {
	points := domain.DailySeries{
		{Date: "2024-01-03", Value: -2.5},
		{Date: "2024-01-01", Value: 1.0},
		{Date: "2024-01-02", Value: 4.0},
		{Date: "2024-01-01", Value: 3.0},
		{Date: "2024-01-02", Value: 6.0},
		{Date: "2024-01-01", Value: 5.0},
	}

	want := MeanByDate(points)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append(domain.DailySeries(nil), points...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, MeanByDate(shuffled), "permutation %d changed the aggregate", i)
	}
}

func TestMeanByDateEmpty(t *testing.T) {
	assert.Nil(t, MeanByDate(nil))
	assert.Nil(t, MeanByDate(domain.DailySeries{}))
}

func TestInnerJoinAlignsOnDate(t *testing.T) {
	sentiment := domain.DailySeries{
		{Date: "2024-01-01", Value: 2.0},
		{Date: "2024-01-02", Value: 5.0},
	}
	price := domain.DailySeries{
		{Date: "2024-01-01", Value: 100.0},
		{Date: "2024-01-02", Value: 102.0},
		{Date: "2024-01-03", Value: 99.0},
	}

	rows := InnerJoin(sentiment, price)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.MergedRow{Date: "2024-01-01", Sentiment: 2.0, Price: 100.0}, rows[0])
	assert.Equal(t, domain.MergedRow{Date: "2024-01-02", Sentiment: 5.0, Price: 102.0}, rows[1])
}

func TestInnerJoinProperties(t *testing.T) {
	sentiment := domain.DailySeries{
		{Date: "2024-01-01", Value: 1},
		{Date: "2024-01-03", Value: 2},
		{Date: "2024-01-05", Value: 3},
		{Date: "2024-01-07", Value: 4},
	}
	price := domain.DailySeries{
		{Date: "2024-01-03", Value: 10},
		{Date: "2024-01-04", Value: 11},
		{Date: "2024-01-07", Value: 12},
	}

	rows := InnerJoin(sentiment, price)
	assert.LessOrEqual(t, len(rows), len(sentiment))
	assert.LessOrEqual(t, len(rows), len(price))

	inBoth := func(date string) bool {
		s, p := false, false
		for _, x := range sentiment {
			if x.Date == date {
				s = true
			}
		}
		for _, x := range price {
			if x.Date == date {
				p = true
			}
		}
		return s && p
	}
	for _, r := range rows {
		assert.True(t, inBoth(r.Date), "date %s not present on both sides", r.Date)
	}
}

// The inner join silently drops asymmetric dates (market holidays vs.
// news-only days). This pins the behavior so a future change to an outer
// join is a deliberate one.
func TestInnerJoinDropsAsymmetricDates(t *testing.T) {
	sentiment := domain.DailySeries{{Date: "2024-01-06", Value: 1.0}} // Saturday, no trading
	price := domain.DailySeries{{Date: "2024-01-08", Value: 100.0}}   // Monday, no news rows

	assert.Empty(t, InnerJoin(sentiment, price))
}

func TestInnerJoinEmptyInputs(t *testing.T) {
	s := domain.DailySeries{{Date: "2024-01-01", Value: 1.0}}
	assert.Nil(t, InnerJoin(nil, s))
	assert.Nil(t, InnerJoin(s, nil))
}

func TestDiffValuesAndLength(t *testing.T) {
	rows := []domain.MergedRow{
		{Date: "2024-01-01", Sentiment: 2.0, Price: 100.0},
		{Date: "2024-01-02", Sentiment: 5.0, Price: 102.0},
		{Date: "2024-01-03", Sentiment: 4.0, Price: 99.0},
	}

	diffs := Diff(rows)
	require.Len(t, diffs, len(rows)-1)

	assert.Equal(t, "2024-01-02", diffs[0].Date)
	assert.Equal(t, 3.0, diffs[0].DiffSentiment)
	assert.Equal(t, 2.0, diffs[0].DiffPrice)
	assert.Equal(t, -1.0, diffs[1].DiffSentiment)
	assert.Equal(t, -3.0, diffs[1].DiffPrice)
}

func TestDiffShortInputs(t *testing.T) {
	assert.Nil(t, Diff(nil))
	assert.Nil(t, Diff([]domain.MergedRow{{Date: "2024-01-01"}}))
}

// End-to-end scenario: aggregate, merge, difference.
func TestAggregateMergeDiffScenario(t *testing.T) {
	events := domain.DailySeries{
		{Date: "2024-01-01", Value: 1.0},
		{Date: "2024-01-01", Value: 3.0},
		{Date: "2024-01-02", Value: 5.0},
	}
	price := domain.DailySeries{
		{Date: "2024-01-01", Value: 100.0},
		{Date: "2024-01-02", Value: 102.0},
		{Date: "2024-01-03", Value: 99.0},
	}

	merged := InnerJoin(MeanByDate(events), price)
	require.Len(t, merged, 2)

	diffs := Diff(merged)
	require.Len(t, diffs, 1)
	assert.Equal(t, "2024-01-02", diffs[0].Date)
	assert.Equal(t, 3.0, diffs[0].DiffSentiment)
	assert.Equal(t, 2.0, diffs[0].DiffPrice)
}
