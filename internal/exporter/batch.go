package exporter

import (
	"fmt"

	"tonepulse/internal/fetch"
)

// SaveBatch persists a fetched batch to the given path as CSV, streaming
// row by row. The batch's column header becomes the CSV header.
func (w *CSVWriter) SaveBatch(path string, batch *fetch.RawBatch) error {
	if batch == nil {
		return fmt.Errorf("nil batch")
	}

	sw, err := w.CreateStreamWriter(path, batch.Columns)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	for i, row := range batch.Rows {
		// pad ragged rows so every record matches the header width
		if len(row) < len(batch.Columns) {
			padded := make([]string, len(batch.Columns))
			copy(padded, row)
			row = padded
		}
		if err := sw.WriteRecord(row); err != nil {
			sw.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	return sw.Close()
}
