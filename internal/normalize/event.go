// Package normalize reconciles the heterogeneous upstream schemas into the
// canonical daily row shape. Event batches dispatch on which marker column
// is present, in a fixed priority order; price batches go through header
// cleanup before column discovery.
package normalize

import (
	"context"
	"strconv"
	"strings"
	"time"

	"tonepulse/internal/config"
	"tonepulse/internal/fetch"
	"tonepulse/internal/infrastructure"
	"tonepulse/pkg/contracts/domain"
)

// Options configures event normalization.
type Options struct {
	// ToneFieldIndex selects the component of the delimited tone string
	// used as the daily signal. Upstream convention; see config docs.
	ToneFieldIndex int
	// NeutralTone is assigned to rows from variants with no tone signal.
	NeutralTone float64
	// FallbackDate (ISO) dates the synthetic row emitted when no date
	// column can be resolved.
	FallbackDate string
}

// DefaultOptions returns the upstream-convention defaults with today as
// the fallback date.
func DefaultOptions() Options {
	return Options{
		ToneFieldIndex: config.DefaultToneFieldIndex,
		NeutralTone:    config.NeutralTone,
		FallbackDate:   time.Now().UTC().Format(config.DateLayout),
	}
}

// eventRule pairs a schema predicate with its handler. Rules are tried in
// order; the order matters because a row set can coincidentally contain
// more than one candidate column.
type eventRule struct {
	name  string
	match func(b *fetch.RawBatch) bool
	apply func(b *fetch.RawBatch, opts Options) domain.DailySeries
}

// eventRules is the dispatch table, highest priority first.
var eventRules = []eventRule{
	{
		name:  "seendate",
		match: func(b *fetch.RawBatch) bool { return b.HasColumn("seendate") },
		apply: normalizeSeenDate,
	},
	{
		name:  "DATE",
		match: func(b *fetch.RawBatch) bool { return b.HasColumn("DATE") },
		apply: normalizeExportDate,
	},
	{
		name:  "date",
		match: func(b *fetch.RawBatch) bool { return b.HasColumn("date") },
		apply: normalizeBareDate,
	},
}

// Events maps an event batch to canonical daily rows, one per source row.
// Rows whose date or tone cannot be parsed are dropped. A batch with no
// resolvable date column degrades to a single synthetic neutral row.
func Events(ctx context.Context, b *fetch.RawBatch, opts Options) domain.DailySeries {
	if b.Empty() {
		infrastructure.WarnContext(ctx, "empty event batch provided", "source", batchSource(b))
		return nil
	}

	for _, rule := range eventRules {
		if rule.match(b) {
			points := rule.apply(b, opts)
			infrastructure.DebugContext(ctx, "event batch normalized",
				"rule", rule.name,
				"rows_in", b.Len(),
				"rows_out", len(points))
			return points
		}
	}

	infrastructure.WarnContext(ctx, "no date column found in event batch, emitting synthetic row",
		"source", batchSource(b),
		"columns", b.Columns)
	return domain.DailySeries{{Date: opts.FallbackDate, Value: opts.NeutralTone}}
}

// normalizeSeenDate handles Doc API rows: seendate timestamp, no tone
// signal, neutral value.
func normalizeSeenDate(b *fetch.RawBatch, opts Options) domain.DailySeries {
	col := b.ColumnIndex("seendate")
	var points domain.DailySeries
	for i := range b.Rows {
		date, ok := parseEventDate(b.Cell(i, col), config.GdeltSeenLayout)
		if !ok {
			continue
		}
		points = append(points, domain.DailyPoint{Date: date, Value: opts.NeutralTone})
	}
	return points
}

// normalizeExportDate handles direct GKG rows: fixed-width DATE timestamp
// plus the delimited V2Tone string.
func normalizeExportDate(b *fetch.RawBatch, opts Options) domain.DailySeries {
	dateCol := b.ColumnIndex("DATE")
	toneCol := b.ColumnIndex("V2Tone")

	var points domain.DailySeries
	for i := range b.Rows {
		date, ok := parseEventDate(b.Cell(i, dateCol), config.GdeltStampLayout)
		if !ok {
			continue
		}
		value := opts.NeutralTone
		if toneCol >= 0 {
			tone, ok := extractToneValue(b.Cell(i, toneCol), opts.ToneFieldIndex)
			if !ok {
				continue // unusable tone, drop the row
			}
			value = tone
		}
		points = append(points, domain.DailyPoint{Date: date, Value: value})
	}
	return points
}

// normalizeBareDate handles generic rows with a lowercase date column.
func normalizeBareDate(b *fetch.RawBatch, opts Options) domain.DailySeries {
	col := b.ColumnIndex("date")
	var points domain.DailySeries
	for i := range b.Rows {
		date, ok := parseEventDate(b.Cell(i, col), "")
		if !ok {
			continue
		}
		points = append(points, domain.DailyPoint{Date: date, Value: opts.NeutralTone})
	}
	return points
}

// eventDateLayouts are the generic fallback layouts tried after the
// rule-specific one.
var eventDateLayouts = []string{
	config.DateLayout,
	config.GdeltSeenLayout,
	config.GdeltStampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	config.CompactDateLayout,
}

// parseEventDate parses a raw timestamp to the canonical ISO date, trying
// the preferred layout first.
func parseEventDate(raw, preferred string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if preferred != "" {
		if t, err := time.Parse(preferred, raw); err == nil {
			return t.Format(config.DateLayout), true
		}
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(config.DateLayout), true
		}
	}
	return "", false
}

// extractToneValue splits the delimited tone string and parses the
// component at the configured index.
func extractToneValue(tone string, index int) (float64, bool) {
	if tone == "" || index < 0 {
		return 0, false
	}
	parts := strings.Split(tone, ",")
	if index >= len(parts) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[index]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func batchSource(b *fetch.RawBatch) string {
	if b == nil {
		return ""
	}
	return b.Source
}
