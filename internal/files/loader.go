package files

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"tonepulse/internal/fetch"
)

// LoadBatch reads a persisted chunk CSV back into a batch so resumed runs
// can feed previously fetched data through the same normalization path.
// The first record is the column header; a UTF-8 BOM is stripped if
// present.
func LoadBatch(path, source string) (*fetch.RawBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse chunk %s: %w", path, err)
	}
	if len(records) == 0 {
		return &fetch.RawBatch{Source: source}, nil
	}

	return &fetch.RawBatch{
		Source:  source,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
