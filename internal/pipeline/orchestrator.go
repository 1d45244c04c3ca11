// Package pipeline runs fetch jobs through a bounded worker pool. Jobs are
// data-partitioned by construction: each writes its own destination path,
// so no locking is needed beyond the results collector.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"tonepulse/internal/chunker"
	"tonepulse/internal/errors"
	"tonepulse/internal/fetch"
	"tonepulse/internal/infrastructure"
)

// SaveFunc persists a successful batch to its destination before it is
// collected. Persisted files double as resumability markers.
type SaveFunc func(destination string, batch *fetch.RawBatch) error

// Orchestrator executes fetch jobs concurrently with a worker cap.
// A single job's failure is logged with its job identity and excluded from
// the result set; the batch as a whole succeeds with whatever completed.
type Orchestrator struct {
	fetcher fetch.Fetcher
	save    SaveFunc
	workers int
}

// NewOrchestrator creates an orchestrator. workers < 1 degrades to strictly
// sequential execution.
func NewOrchestrator(fetcher fetch.Fetcher, save SaveFunc, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{fetcher: fetcher, save: save, workers: workers}
}

// Run fetches every job and returns the successful batches. Result order is
// not significant: downstream aggregation is keyed by date, not arrival.
// Run itself never fails; an all-failed batch yields an empty result logged
// as a warning.
func (o *Orchestrator) Run(ctx context.Context, jobs []chunker.FetchJob) []*fetch.RawBatch {
	if len(jobs) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		results []*fetch.RawBatch
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil // run cancelled, abandon remaining jobs
			}

			batch, err := o.runJob(ctx, job)
			if err != nil {
				infrastructure.ErrorContext(ctx, "fetch job failed",
					"job", job.Name(),
					"range", job.Range.String(),
					"source", o.fetcher.Source(),
					"error", err)
				return nil // absorbed, other jobs continue
			}
			if batch.Empty() {
				infrastructure.WarnContext(ctx, "fetch job returned no data",
					"job", job.Name(),
					"source", o.fetcher.Source())
				return nil
			}

			mu.Lock()
			results = append(results, batch)
			mu.Unlock()

			infrastructure.InfoContext(ctx, "fetch job completed",
				"job", job.Name(),
				"rows", batch.Len())
			return nil
		})
	}
	g.Wait()

	if len(results) == 0 {
		infrastructure.WarnContext(ctx, "no fetch job produced data",
			"jobs", len(jobs),
			"source", o.fetcher.Source())
	}
	return results
}

// runJob fetches, validates and persists a single job.
func (o *Orchestrator) runJob(ctx context.Context, job chunker.FetchJob) (*fetch.RawBatch, error) {
	batch, err := o.fetcher.Fetch(ctx, job.Range)
	if err != nil {
		return nil, errors.FetchError(err, job.Name())
	}
	if batch.Empty() {
		return batch, nil
	}
	if !o.fetcher.Validate(batch) {
		infrastructure.WarnContext(ctx, "batch failed validation, treated as empty",
			"job", job.Name(),
			"source", o.fetcher.Source())
		return &fetch.RawBatch{Source: batch.Source}, nil
	}
	if o.save != nil {
		if err := o.save(job.Destination, batch); err != nil {
			return nil, errors.Wrap(err, errors.StageFetch, errors.CodeFetchFailed, "persist batch")
		}
	}
	return batch, nil
}
