package normalize

import (
	"context"
	"strconv"
	"strings"

	"tonepulse/internal/fetch"
	"tonepulse/internal/infrastructure"
	"tonepulse/pkg/contracts/domain"
)

// Price maps a price batch to canonical daily rows. The known malformed
// multi-row header artifact is stripped first, then a date-like column and
// a close-price column are located by case-insensitive substring match,
// preferring an adjusted close over a bare close. Rows whose price is not
// numeric are dropped.
func Price(ctx context.Context, b *fetch.RawBatch) domain.DailySeries {
	if b.Empty() {
		infrastructure.WarnContext(ctx, "empty price batch provided", "source", batchSource(b))
		return nil
	}

	columns, rows := stripArtifactHeader(b.Columns, b.Rows)

	dateCol := findDateColumn(columns)
	if dateCol < 0 {
		infrastructure.WarnContext(ctx, "no date column found in price batch",
			"source", batchSource(b),
			"columns", columns)
		return nil
	}
	priceCol := findPriceColumn(columns)
	if priceCol < 0 {
		infrastructure.WarnContext(ctx, "no close-price column found in price batch",
			"source", batchSource(b),
			"columns", columns)
		return nil
	}

	var points domain.DailySeries
	for _, row := range rows {
		date, ok := parseEventDate(cellAt(row, dateCol), "")
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(cellAt(row, priceCol)), 64)
		if err != nil {
			continue // non-numeric price, drop the row
		}
		points = append(points, domain.DailyPoint{Date: date, Value: price})
	}

	infrastructure.DebugContext(ctx, "price batch normalized",
		"rows_in", len(rows),
		"rows_out", len(points))
	return points
}

// stripArtifactHeader detects the multi-row header artifact some price
// exports carry:
//
//	Price,Close,Adj Close,...   <- level names
//	Ticker,DJT,DJT,...          <- per-column ticker
//	Date,,,...                  <- index name
//
// and rebuilds single-level column names by joining the non-marker parts
// of each header level. Blank separator rows after the header are skipped.
func stripArtifactHeader(columns []string, rows [][]string) ([]string, [][]string) {
	if len(rows) < 2 || cellAt(columns, 0) != "Price" ||
		cellAt(rows[0], 0) != "Ticker" || cellAt(rows[1], 0) != "Date" {
		return columns, rows
	}

	fieldLevel := columns // "Price", then field names (Close, Adj Close, ...)
	tickerLevel := rows[0]
	indexLevel := rows[1] // "Date", then blanks

	merged := make([]string, len(columns))
	for i := range merged {
		var parts []string
		if v := cellAt(indexLevel, i); v != "" {
			parts = append(parts, v)
		}
		if v := cellAt(fieldLevel, i); v != "" && v != "Price" {
			parts = append(parts, v)
		}
		if v := cellAt(tickerLevel, i); v != "" && v != "Ticker" {
			parts = append(parts, v)
		}
		merged[i] = strings.Join(parts, "_")
	}

	var data [][]string
	for _, row := range rows[2:] {
		if rowEmpty(row) {
			continue
		}
		data = append(data, row)
	}
	return merged, data
}

// findDateColumn returns the first column whose name contains "date",
// case-insensitive.
func findDateColumn(columns []string) int {
	for i, col := range columns {
		if strings.Contains(strings.ToLower(col), "date") {
			return i
		}
	}
	return -1
}

// findPriceColumn prefers an adjusted-close column over a bare close.
func findPriceColumn(columns []string) int {
	for i, col := range columns {
		if strings.Contains(strings.ToLower(col), "adj close") {
			return i
		}
	}
	for i, col := range columns {
		if strings.Contains(strings.ToLower(col), "close") {
			return i
		}
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
