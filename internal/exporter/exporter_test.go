package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tonepulse/internal/config"
	"tonepulse/internal/fetch"
	"tonepulse/pkg/contracts/domain"
)

func newTestWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Stock.Ticker = "DJT"

	paths := config.NewPaths(cfg)
	require.NoError(t, paths.EnsureDirectories())
	return NewCSVWriter(paths), paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSimpleCSVWithBOM(t *testing.T) {
	w, paths := newTestWriter(t)

	err := w.WriteSimpleCSV("out.csv", []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	path := filepath.Join(paths.ResultsDir, "out.csv")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b"}, records[0])
}

func TestResolvePathByPrefix(t *testing.T) {
	w, paths := newTestWriter(t)

	assert.Equal(t, filepath.Join(paths.RawDir, "chunk.csv"), w.resolvePath("raw/chunk.csv"))
	assert.Equal(t, filepath.Join(paths.StockDir, "djt_stock.csv"), w.resolvePath("stock/djt_stock.csv"))
	assert.Equal(t, filepath.Join(paths.ResultsDir, "out.csv"), w.resolvePath("out.csv"))
	assert.Equal(t, "/abs/out.csv", w.resolvePath("/abs/out.csv"))
}

func TestSaveBatchRoundTrip(t *testing.T) {
	w, paths := newTestWriter(t)

	batch := &fetch.RawBatch{
		Source:  "gdelt-doc",
		Columns: []string{"url", "seendate", "tone"},
		Rows: [][]string{
			{"https://example.com/a", "20240101T120000Z", "2.5"},
			{"https://example.com/b", "20240102T090000Z"}, // ragged
		},
	}

	require.NoError(t, w.SaveBatch("raw/chunk.csv", batch))

	records := readCSV(t, filepath.Join(paths.RawDir, "chunk.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, batch.Columns, records[0])
	assert.Equal(t, batch.Rows[0], records[1])
	assert.Equal(t, []string{"https://example.com/b", "20240102T090000Z", ""}, records[2])
}

func TestSaveBatchNil(t *testing.T) {
	w, _ := newTestWriter(t)
	assert.Error(t, w.SaveBatch("raw/chunk.csv", nil))
}

func testRows() []domain.DifferencedRow {
	return []domain.DifferencedRow{
		{
			MergedRow:     domain.MergedRow{Date: "2024-01-02", Sentiment: 5.0, Price: 102.5},
			DiffSentiment: 3.0,
			DiffPrice:     2.5,
		},
		{
			MergedRow:     domain.MergedRow{Date: "2024-01-03", Sentiment: 4.0, Price: 99.0},
			DiffSentiment: -1.0,
			DiffPrice:     -3.5,
		},
	}
}

func TestWriteMergedCSV(t *testing.T) {
	w, paths := newTestWriter(t)

	require.NoError(t, w.WriteMergedCSV(testRows()))

	records := readCSV(t, paths.MergedCSV())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "V2ToneOut", "Adj Close", "diff_V2ToneOut", "diff_Adj Close"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "5", "102.5", "3", "2.5"}, records[1])
	assert.Equal(t, []string{"2024-01-03", "4", "99", "-1", "-3.5"}, records[2])
}

func TestWriteResultsJSON(t *testing.T) {
	w, paths := newTestWriter(t)

	results := map[string]string{
		"correlation": "0.9123",
		"level.slope": "2.5",
	}
	require.NoError(t, w.WriteResultsJSON(results))

	data, err := os.ReadFile(paths.ResultsJSON())
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, results, got)
}

func TestWriteExcelReport(t *testing.T) {
	w, paths := newTestWriter(t)

	require.NoError(t, w.WriteExcelReport(testRows()))

	f, err := excelize.OpenFile(paths.ExcelReport())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(mergedSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "V2ToneOut", "Adj Close", "diff_V2ToneOut", "diff_Adj Close"}, rows[0])
	assert.Equal(t, "2024-01-02", rows[1][0])
}
