// Package chunker splits a calendar date range into fixed-size sub-ranges
// and maps each one to a deterministic output path. Paths double as
// resumability markers: a sub-range whose output file already exists is
// skipped on the next run.
package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tonepulse/internal/config"
)

// DateRange is an inclusive calendar interval. Start is never after End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range as "YYYY-MM-DD..YYYY-MM-DD".
func (r DateRange) String() string {
	return r.Start.Format(config.DateLayout) + ".." + r.End.Format(config.DateLayout)
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// FetchJob pairs a sub-range with its destination file. The destination
// name encodes the range, so identical inputs always map to identical
// paths across runs.
type FetchJob struct {
	Range       DateRange
	Destination string
}

// Name returns the base name of the job's destination, used as the job
// identity in logs.
func (j FetchJob) Name() string {
	return filepath.Base(j.Destination)
}

// Chunk splits [start, end] into contiguous, non-overlapping sub-ranges of
// at most chunkDays calendar days. The final chunk is truncated at end.
// start == end yields a single one-day range.
func Chunk(start, end time.Time, chunkDays int) ([]DateRange, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if start.After(end) {
		return nil, fmt.Errorf("invalid range: start %s after end %s",
			start.Format(config.DateLayout), end.Format(config.DateLayout))
	}
	if chunkDays < 1 {
		return nil, fmt.Errorf("chunk size must be at least 1 day, got %d", chunkDays)
	}

	var ranges []DateRange
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, chunkDays) {
		last := cur.AddDate(0, 0, chunkDays-1)
		if last.After(end) {
			last = end
		}
		ranges = append(ranges, DateRange{Start: cur, End: last})
	}
	return ranges, nil
}

// Jobs maps each range to its destination path inside dir:
// <prefix>_<YYYYMMDD>_<YYYYMMDD>.csv with the range's start and end dates.
func Jobs(ranges []DateRange, dir, prefix string) []FetchJob {
	jobs := make([]FetchJob, len(ranges))
	for i, r := range ranges {
		name := fmt.Sprintf("%s_%s_%s.csv",
			prefix,
			r.Start.Format(config.CompactDateLayout),
			r.End.Format(config.CompactDateLayout))
		jobs[i] = FetchJob{Range: r, Destination: filepath.Join(dir, name)}
	}
	return jobs
}

// Pending partitions jobs into those whose destination does not exist yet
// and those already persisted by an earlier run.
func Pending(jobs []FetchJob) (pending, skipped []FetchJob) {
	for _, job := range jobs {
		if _, err := os.Stat(job.Destination); err == nil {
			skipped = append(skipped, job)
		} else {
			pending = append(pending, job)
		}
	}
	return pending, skipped
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
