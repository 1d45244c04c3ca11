package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains every filesystem location the pipeline writes to.
// This is the single source of truth for artifact paths; other packages
// never assemble output paths themselves.
type Paths struct {
	DataDir    string
	RawDir     string // per-chunk event CSVs, the resumability markers
	StockDir   string // persisted price CSV
	ResultsDir string // merged table, statistics JSON, Excel report
	LogsDir    string

	StockFile string
}

// NewPaths resolves the artifact layout for a run. The stock file name is
// derived from the ticker the way the downstream tooling expects it.
func NewPaths(cfg *Config) *Paths {
	base := cfg.DataDir
	if base == "" {
		base = DefaultDataDir
	}
	ticker := strings.ToLower(cfg.Stock.Ticker)
	return &Paths{
		DataDir:    base,
		RawDir:     filepath.Join(base, DefaultRawDir),
		StockDir:   filepath.Join(base, DefaultStockDir),
		ResultsDir: filepath.Join(base, DefaultResultsDir),
		LogsDir:    DefaultLogsDir,
		StockFile:  filepath.Join(base, DefaultStockDir, ticker+"_stock.csv"),
	}
}

// EnsureDirectories creates all required directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.RawDir, p.StockDir, p.ResultsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Clean removes the contents of the artifact directories. The directories
// themselves are kept. Cleaning discards resumability markers, so it only
// runs when explicitly requested.
func (p *Paths) Clean() error {
	for _, dir := range []string{p.RawDir, p.StockDir, p.ResultsDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// MergedCSV returns the path of the final joined and differenced table.
func (p *Paths) MergedCSV() string {
	return filepath.Join(p.ResultsDir, MergedCSVName)
}

// ResultsJSON returns the path of the statistics result file.
func (p *Paths) ResultsJSON() string {
	return filepath.Join(p.ResultsDir, ResultsJSONName)
}

// ExcelReport returns the path of the merged-table workbook.
func (p *Paths) ExcelReport() string {
	return filepath.Join(p.ResultsDir, ExcelReportName)
}
