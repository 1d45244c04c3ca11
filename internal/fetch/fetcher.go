// Package fetch provides the upstream adapters feeding the pipeline: two
// GDELT event-source variants and a Yahoo Finance price adapter, all
// returning the same opaque tabular batch shape.
package fetch

import (
	"context"

	"tonepulse/internal/chunker"
)

// Fetcher is the capability contract shared by the event and price
// adapters. Fetch fails with an error only on network or upstream
// problems; zero rows found is a valid empty batch. Validate is a
// structural check applied before normalization; an invalid batch is
// logged and treated as empty, never as fatal.
type Fetcher interface {
	// Source identifies the adapter in logs and batch provenance.
	Source() string

	// Fetch retrieves raw rows for one date range.
	Fetch(ctx context.Context, r chunker.DateRange) (*RawBatch, error)

	// Validate checks that the batch carries the columns this source
	// requires downstream.
	Validate(b *RawBatch) bool
}
