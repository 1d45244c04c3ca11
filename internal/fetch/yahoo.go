package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"tonepulse/internal/chunker"
	"tonepulse/internal/config"
)

// YahooFetcher retrieves daily bars from the Yahoo Finance chart API for a
// single ticker. Unlike the event side the whole range is fetched in one
// call; the chunker stays available if per-range price fetching is ever
// needed.
type YahooFetcher struct {
	client   *Client
	baseURL  string
	ticker   string
	interval string
}

// NewYahooFetcher creates a price fetcher for one ticker.
func NewYahooFetcher(client *Client, ticker, interval string) *YahooFetcher {
	if interval == "" {
		interval = "1d"
	}
	return &YahooFetcher{
		client:   client,
		baseURL:  config.YahooChartBaseURL,
		ticker:   ticker,
		interval: interval,
	}
}

func (f *YahooFetcher) Source() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []any `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

var priceColumns = []string{"Date", "Close", "Adj Close", "Volume"}

// Fetch downloads daily bars for the range. Null bars (holidays, halts)
// are skipped; a range with no trading days is a valid empty batch.
func (f *YahooFetcher) Fetch(ctx context.Context, r chunker.DateRange) (*RawBatch, error) {
	params := url.Values{}
	params.Set("interval", f.interval)
	params.Set("period1", strconv.FormatInt(r.Start.Unix(), 10))
	// period2 is exclusive; extend past the end day to include it
	params.Set("period2", strconv.FormatInt(r.End.AddDate(0, 0, 1).Unix(), 10))
	params.Set("events", "div,split")

	u := fmt.Sprintf("%s/%s?%s", f.baseURL, url.PathEscape(f.ticker), params.Encode())

	var chart yahooChart
	if err := f.client.GetJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", f.ticker, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error for %s: %s", f.ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return &RawBatch{Source: f.Source(), Columns: priceColumns}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return &RawBatch{Source: f.Source(), Columns: priceColumns}, nil
	}
	quote := result.Indicators.Quote[0]

	var adj []any
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	batch := &RawBatch{Source: f.Source(), Columns: priceColumns}
	for i, ts := range result.Timestamp {
		closePrice, closeOK := toFloat(at(quote.Close, i))
		adjPrice, adjOK := toFloat(at(adj, i))
		if !closeOK && !adjOK {
			continue // null bar
		}
		if !adjOK {
			adjPrice, adjOK = closePrice, true
		}
		if !closeOK {
			closePrice = adjPrice
		}
		volume, _ := toFloat(at(quote.Volume, i))

		date := r.Start.UTC()
		if ts > 0 {
			date = timeFromUnix(ts)
		}
		batch.Rows = append(batch.Rows, []string{
			date.Format(config.DateLayout),
			strconv.FormatFloat(closePrice, 'f', -1, 64),
			strconv.FormatFloat(adjPrice, 'f', -1, 64),
			strconv.FormatFloat(volume, 'f', -1, 64),
		})
	}
	return batch, nil
}

// Validate requires a date column and at least one close-price column.
func (f *YahooFetcher) Validate(b *RawBatch) bool {
	return b != nil && b.HasColumn("Date") && (b.HasColumn("Close") || b.HasColumn("Adj Close"))
}

func timeFromUnix(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

func at(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
