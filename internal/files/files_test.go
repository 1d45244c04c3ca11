package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestFindCSVFilesSortedByName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gdelt_results_20240102_20240102.csv", "a\n1\n")
	writeFile(t, dir, "gdelt_results_20240101_20240101.csv", "a\n1\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	d := NewDiscovery(dir)
	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "gdelt_results_20240101_20240101.csv", files[0].Name)
	assert.Equal(t, "gdelt_results_20240102_20240102.csv", files[1].Name)
}

func TestFindCSVFilesMissingDir(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindCSVFiles("missing")
	assert.Error(t, err)
}

func TestFindChunkFilesFiltersByPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gdelt_results_20240101_20240101.csv", "a\n")
	writeFile(t, dir, "other_20240101_20240101.csv", "a\n")

	d := NewDiscovery(dir)
	chunks, err := d.FindChunkFiles(".", "gdelt_results")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "gdelt_results_20240101_20240101.csv", chunks[0].Name)
}

func TestLoadBatchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := "\xEF\xBB\xBFurl,seendate,tone\nhttps://example.com/a,20240101T120000Z,2.5\nhttps://example.com/b,20240102T090000Z,\n"
	writeFile(t, dir, "chunk.csv", content)

	batch, err := LoadBatch(filepath.Join(dir, "chunk.csv"), "gdelt-doc")
	require.NoError(t, err)
	assert.Equal(t, "gdelt-doc", batch.Source)
	assert.Equal(t, []string{"url", "seendate", "tone"}, batch.Columns)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, "https://example.com/a", batch.Rows[0][0])
}

func TestLoadBatchEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.csv", "")

	batch, err := LoadBatch(filepath.Join(dir, "empty.csv"), "gdelt-doc")
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestLoadBatchMissingFile(t *testing.T) {
	_, err := LoadBatch(filepath.Join(t.TempDir(), "nope.csv"), "gdelt-doc")
	assert.Error(t, err)
}

// Chunks persisted under the same prefix all reload, regardless of which
// run's date window produced them.
func TestChunksFromEarlierRunsReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gdelt_results_20240101_20240101.csv",
		"DATE,V2Tone\n20240101120000,\"1.0,2.0,0.5\"\n")
	writeFile(t, dir, "gdelt_results_20240201_20240201.csv",
		"DATE,V2Tone\n20240201120000,\"0.5,1.0,-0.25\"\n")
	writeFile(t, dir, "stray.csv", "a\n1\n")

	d := NewDiscovery(dir)
	chunks, err := d.FindChunkFiles(".", "gdelt_results")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	var rows int
	for _, chunk := range chunks {
		batch, err := LoadBatch(chunk.Path, "gdelt_export")
		require.NoError(t, err)
		assert.Equal(t, []string{"DATE", "V2Tone"}, batch.Columns)
		rows += batch.Len()
	}
	assert.Equal(t, 2, rows)
}
