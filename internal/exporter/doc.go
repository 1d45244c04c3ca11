// Package exporter writes the pipeline's file artifacts.
//
// CSVWriter is the core: it resolves relative paths into the data
// directory layout, prefixes files with a UTF-8 BOM for Excel
// compatibility, and offers both one-shot and streaming writes. On top
// of it sit the artifact writers: SaveBatch for raw fetch chunks,
// WriteMergedCSV and WriteExcelReport for the differenced merged table,
// and WriteResultsJSON for the flattened statistics map.
package exporter
