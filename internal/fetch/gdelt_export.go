package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"tonepulse/internal/chunker"
	"tonepulse/internal/config"
)

// GdeltExportFetcher downloads the daily GKG export archives directly from
// the GDELT file server. One zipped tab-separated file exists per calendar
// day; rows carry a DATE timestamp and the delimited V2Tone string.
type GdeltExportFetcher struct {
	client  *Client
	baseURL string
	keyword string
}

// NewGdeltExportFetcher creates a direct export fetcher. The keyword filter
// is applied here so persisted chunks already hold filtered rows.
func NewGdeltExportFetcher(client *Client, keyword string) *GdeltExportFetcher {
	return &GdeltExportFetcher{
		client:  client,
		baseURL: config.GdeltExportBaseURL,
		keyword: keyword,
	}
}

func (f *GdeltExportFetcher) Source() string { return "gdelt_export" }

// Fetch downloads and concatenates the daily export files covering the
// range, filtered by keyword. A day whose archive yields no matching rows
// contributes nothing; a day whose download fails fails the whole job.
func (f *GdeltExportFetcher) Fetch(ctx context.Context, r chunker.DateRange) (*RawBatch, error) {
	batch := &RawBatch{Source: f.Source()}

	for cur := r.Start; !cur.After(r.End); cur = cur.AddDate(0, 0, 1) {
		url := fmt.Sprintf("%s/%s.gkg.csv.zip", f.baseURL, cur.Format(config.CompactDateLayout))
		body, err := f.client.Get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("gdelt export %s: %w", cur.Format(config.DateLayout), err)
		}

		day, err := parseExportArchive(body)
		if err != nil {
			return nil, fmt.Errorf("gdelt export %s: %w", cur.Format(config.DateLayout), err)
		}

		day = FilterKeyword(day, f.keyword)
		if batch.Columns == nil {
			batch.Columns = day.Columns
		}
		batch.Rows = append(batch.Rows, day.Rows...)
	}
	return batch, nil
}

// Validate requires the DATE column the normalizer dispatches on.
func (f *GdeltExportFetcher) Validate(b *RawBatch) bool {
	return b != nil && b.HasColumn("DATE")
}

// parseExportArchive unzips a GKG archive and parses the tab-separated
// table inside. The first line is the header.
func parseExportArchive(data []byte) (*RawBatch, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("empty archive")
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open archive entry: %w", err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	batch := &RawBatch{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse archive entry: %w", err)
		}
		if batch.Columns == nil {
			batch.Columns = record
			continue
		}
		batch.Rows = append(batch.Rows, record)
	}
	return batch, nil
}
