package fetch

import "strings"

// RawBatch is the opaque tabular result of one fetcher call for one job.
// Columns and row cells are kept as strings; interpretation is the schema
// normalizer's job. An empty batch means "no data", not an error.
type RawBatch struct {
	Source  string
	Columns []string
	Rows    [][]string
}

// Empty reports whether the batch carries no rows.
func (b *RawBatch) Empty() bool {
	return b == nil || len(b.Rows) == 0
}

// Len returns the number of rows in the batch.
func (b *RawBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// HasColumn reports whether a column with the exact name exists.
func (b *RawBatch) HasColumn(name string) bool {
	return b.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the named column, or -1.
func (b *RawBatch) ColumnIndex(name string) int {
	if b == nil {
		return -1
	}
	for i, col := range b.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), tolerating ragged rows.
func (b *RawBatch) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(b.Rows) || col >= len(b.Rows[row]) {
		return ""
	}
	return b.Rows[row][col]
}

// FilterKeyword returns a new batch keeping only rows where any cell
// contains the keyword, case-insensitive. An empty keyword keeps all rows.
func FilterKeyword(b *RawBatch, keyword string) *RawBatch {
	if b.Empty() || keyword == "" {
		return b
	}
	needle := strings.ToLower(keyword)
	filtered := &RawBatch{Source: b.Source, Columns: b.Columns}
	for _, row := range b.Rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), needle) {
				filtered.Rows = append(filtered.Rows, row)
				break
			}
		}
	}
	return filtered
}
