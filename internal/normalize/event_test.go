package normalize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonepulse/internal/fetch"
	"tonepulse/pkg/contracts/domain"
)

func testOptions() Options {
	return Options{
		ToneFieldIndex: 2,
		NeutralTone:    1.0,
		FallbackDate:   "2025-01-01",
	}
}

func TestEventsSeenDateVariant(t *testing.T) {
	batch := &fetch.RawBatch{
		Source:  "gdelt_doc",
		Columns: []string{"url", "title", "seendate"},
		Rows: [][]string{
			{"https://a.example/1", "Trump rally", "20240101T120000Z"},
			{"https://b.example/2", "Markets react", "20240102T093000Z"},
			{"https://c.example/3", "bad timestamp", "garbage"},
		},
	}

	points := Events(context.Background(), batch, testOptions())
	require.Len(t, points, 2)
	assert.Equal(t, domain.DailyPoint{Date: "2024-01-01", Value: 1.0}, points[0])
	assert.Equal(t, domain.DailyPoint{Date: "2024-01-02", Value: 1.0}, points[1])
}

func TestEventsExportVariantExtractsTone(t *testing.T) {
	batch := &fetch.RawBatch{
		Source:  "gdelt_export",
		Columns: []string{"DATE", "SourceCommonName", "V2Tone"},
		Rows: [][]string{
			{"20240101120000", "a.example", "1.5,2.5,-0.75,0.1,21.3"},
			{"20240101183000", "b.example", "0.5,1.0,3.25,0.2,11.1"},
			{"20240102090000", "c.example", "not,numeric,tone"},
			{"20240103090000", "d.example", "too,short"},
		},
	}

	points := Events(context.Background(), batch, testOptions())
	require.Len(t, points, 2, "rows with unusable tone are dropped")
	assert.Equal(t, domain.DailyPoint{Date: "2024-01-01", Value: -0.75}, points[0])
	assert.Equal(t, domain.DailyPoint{Date: "2024-01-01", Value: 3.25}, points[1])
}

func TestEventsExportVariantWithoutToneColumn(t *testing.T) {
	batch := &fetch.RawBatch{
		Columns: []string{"DATE", "SourceCommonName"},
		Rows:    [][]string{{"20240101120000", "a.example"}},
	}

	points := Events(context.Background(), batch, testOptions())
	require.Len(t, points, 1)
	assert.Equal(t, 1.0, points[0].Value, "neutral value without a tone column")
}

func TestEventsToneFieldIndexIsConfigurable(t *testing.T) {
	batch := &fetch.RawBatch{
		Columns: []string{"DATE", "V2Tone"},
		Rows:    [][]string{{"20240101120000", "10,20,30,40"}},
	}

	opts := testOptions()
	opts.ToneFieldIndex = 3
	points := Events(context.Background(), batch, opts)
	require.Len(t, points, 1)
	assert.Equal(t, 40.0, points[0].Value)
}

func TestEventsBareDateVariant(t *testing.T) {
	batch := &fetch.RawBatch{
		Columns: []string{"date", "headline"},
		Rows: [][]string{
			{"2024-01-05", "something"},
			{"2024-01-06T08:00:00Z", "rfc3339 also parses"},
		},
	}

	points := Events(context.Background(), batch, testOptions())
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-05", points[0].Date)
	assert.Equal(t, "2024-01-06", points[1].Date)
	assert.Equal(t, 1.0, points[0].Value)
}

func TestEventsDispatchPriorityOrder(t *testing.T) {
	// seendate wins over DATE, DATE wins over date
	batch := &fetch.RawBatch{
		Columns: []string{"seendate", "DATE", "date", "V2Tone"},
		Rows:    [][]string{{"20240110T000000Z", "20240301120000", "2024-06-01", "1,2,9,4"}},
	}

	points := Events(context.Background(), batch, testOptions())
	require.Len(t, points, 1)
	assert.Equal(t, "2024-01-10", points[0].Date, "seendate rule has highest priority")
	assert.Equal(t, 1.0, points[0].Value, "seendate variant ignores the tone column")

	batch.Columns = []string{"ignored", "DATE", "date", "V2Tone"}
	points = Events(context.Background(), batch, testOptions())
	require.Len(t, points, 1)
	assert.Equal(t, "2024-03-01", points[0].Date, "DATE rule outranks date")
	assert.Equal(t, 9.0, points[0].Value)
}

func TestEventsNoDateColumnEmitsSyntheticRow(t *testing.T) {
	batch := &fetch.RawBatch{
		Columns: []string{"url", "title"},
		Rows:    [][]string{{"https://a.example/1", "no dates here"}},
	}

	points := Events(context.Background(), batch, testOptions())
	require.Len(t, points, 1)
	assert.Equal(t, domain.DailyPoint{Date: "2025-01-01", Value: 1.0}, points[0])
}

func TestEventsEmptyBatch(t *testing.T) {
	assert.Nil(t, Events(context.Background(), &fetch.RawBatch{Columns: []string{"DATE"}}, testOptions()))
	assert.Nil(t, Events(context.Background(), nil, testOptions()))
}

func TestExtractToneValue(t *testing.T) {
	tests := []struct {
		name  string
		tone  string
		index int
		want  float64
		ok    bool
	}{
		{"default index", "1.5,2.5,-0.75,0.1", 2, -0.75, true},
		{"index zero", "1.5,2.5,-0.75", 0, 1.5, true},
		{"whitespace tolerated", "1.5, 2.5, -0.75", 2, -0.75, true},
		{"index out of range", "1.5,2.5", 2, 0, false},
		{"non-numeric component", "a,b,c", 2, 0, false},
		{"empty string", "", 2, 0, false},
		{"negative index", "1,2,3", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractToneValue(tt.tone, tt.index)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
