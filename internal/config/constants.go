package config

import "time"

// Application constants - fixed values shared across the pipeline
const (
	// Application Info
	AppName    = "TonePulse"
	AppVersion = "1.0.0"

	// Date formats
	DateLayout        = "2006-01-02"       // canonical calendar date, the join key
	CompactDateLayout = "20060102"         // chunk file names, GDELT export URLs
	GdeltStampLayout  = "20060102150405"   // GKG DATE column
	GdeltSeenLayout   = "20060102T150405Z" // Doc API seendate column

	// GDELT tone string convention: V2Tone is a comma-delimited list of
	// numeric components; index 2 is the component used as the daily
	// sentiment signal. Do not change without confirming the upstream
	// field ordering.
	DefaultToneFieldIndex = 2

	// NeutralTone is assigned when a source variant carries no usable tone
	// signal (Doc API rows, bare-date rows, synthetic fallback rows).
	NeutralTone = 1.0

	// Chunking and concurrency defaults
	DefaultChunkDays  = 1
	DefaultMaxWorkers = 4
	DefaultMaxLag     = 5

	// Network
	DefaultFetchTimeout = 30 * time.Second
	DefaultRateLimitRPS = 4.0
	DefaultRateBurst    = 4
	DefaultUserAgent    = "Mozilla/5.0"

	// Upstream endpoints
	GdeltDocAPIBaseURL  = "https://api.gdeltproject.org/api/v2/doc/doc"
	GdeltExportBaseURL  = "http://data.gdeltproject.org/gkg"
	YahooChartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	GdeltDocMaxRecords  = 250

	// File layout (relative to the data directory)
	DefaultDataDir    = "data"
	DefaultRawDir     = "gdelt"
	DefaultStockDir   = "stock"
	DefaultResultsDir = "results"
	DefaultLogsDir    = "logs"

	// Artifact names
	DefaultFilePrefix = "gdelt_results"
	MergedCSVName     = "merged_data.csv"
	ResultsJSONName   = "analysis_results.json"
	ExcelReportName   = "merged_data.xlsx"
)
