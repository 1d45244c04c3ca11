package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"tonepulse/internal/analysis"
	"tonepulse/internal/chunker"
	"tonepulse/internal/config"
	"tonepulse/internal/errors"
	"tonepulse/internal/exporter"
	"tonepulse/internal/fetch"
	"tonepulse/internal/files"
	"tonepulse/internal/infrastructure"
	"tonepulse/internal/normalize"
	"tonepulse/internal/pipeline"
	"tonepulse/internal/series"
	"tonepulse/pkg/contracts/domain"
)

func main() {
	// Add panic recovery at the very start to catch any crashes
	var logger *slog.Logger // Declare logger early for use in panic handler
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC RECOVERED: %v\n", r)
			fmt.Printf("Stack trace:\n%s\n", debug.Stack())

			if logger != nil {
				logger.Error("Analyzer panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			os.Exit(1)
		}
	}()

	configFile := flag.String("config", "", "path to YAML config file")
	keyword := flag.String("keyword", "", "search keyword for the news source")
	ticker := flag.String("ticker", "", "stock ticker symbol")
	fromStr := flag.String("from", "", "start date (YYYY-MM-DD); defaults to 90 days ago")
	toStr := flag.String("to", "", "end date (YYYY-MM-DD); defaults to today")
	chunkDays := flag.Int("chunk-days", 0, "days per fetch chunk")
	workers := flag.Int("workers", 0, "concurrent fetch workers; 1 runs sequentially")
	useDocAPI := flag.Bool("use-doc-api", false, "use the Doc API instead of raw archive downloads")
	clean := flag.Bool("clean", false, "remove previous chunk and result files before running")
	noExcel := flag.Bool("no-excel", false, "skip the Excel report artifact")
	dataDir := flag.String("data-dir", "", "base directory for all artifacts")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("Error: Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, flags{
		keyword:   *keyword,
		ticker:    *ticker,
		from:      *fromStr,
		to:        *toStr,
		chunkDays: *chunkDays,
		workers:   *workers,
		useDocAPI: *useDocAPI,
		noExcel:   *noExcel,
		dataDir:   *dataDir,
	})

	// Fail configuration problems before anything is fetched
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", errors.ConfigError(err, "invalid configuration"))
		os.Exit(1)
	}

	// Chunk destinations double as resumability markers, so they must not
	// depend on the working directory
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	paths := config.NewPaths(cfg)
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Printf("Error: Failed to create required directories: %v\n", err)
		os.Exit(1)
	}
	if *clean {
		if err := paths.Clean(); err != nil {
			fmt.Printf("Error: Failed to clean artifact directories: %v\n", err)
			os.Exit(1)
		}
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = filepath.Join(paths.LogsDir, "analyzer.log")
	}
	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())
	if err := run(ctx, cfg, paths); err != nil {
		infrastructure.ErrorContext(ctx, "pipeline failed", "error", err)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	keyword   string
	ticker    string
	from      string
	to        string
	chunkDays int
	workers   int
	useDocAPI bool
	noExcel   bool
	dataDir   string
}

// applyFlags overlays command line values on the loaded config and fills
// the default date window when none was given anywhere.
func applyFlags(cfg *config.Config, f flags) {
	if f.keyword != "" {
		cfg.Gdelt.Keyword = f.keyword
	}
	if f.ticker != "" {
		cfg.Stock.Ticker = f.ticker
	}
	if f.from != "" {
		cfg.Gdelt.StartDate = f.from
	}
	if f.to != "" {
		cfg.Gdelt.EndDate = f.to
	}
	if f.chunkDays > 0 {
		cfg.Gdelt.ChunkDays = f.chunkDays
	}
	if f.workers > 0 {
		cfg.Gdelt.MaxWorkers = f.workers
	}
	if f.useDocAPI {
		cfg.Gdelt.UseDocAPI = true
	}
	if f.noExcel {
		cfg.Analysis.ExcelReport = false
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}

	now := time.Now().UTC()
	if cfg.Gdelt.EndDate == "" {
		cfg.Gdelt.EndDate = now.Format(config.DateLayout)
	}
	if cfg.Gdelt.StartDate == "" {
		cfg.Gdelt.StartDate = now.AddDate(0, 0, -90).Format(config.DateLayout)
	}
}

func run(ctx context.Context, cfg *config.Config, paths *config.Paths) error {
	start, end, err := cfg.DateRange()
	if err != nil {
		return errors.ConfigError(err, "invalid date range")
	}

	infrastructure.InfoContext(ctx, "starting analysis run",
		"keyword", cfg.Gdelt.Keyword,
		"ticker", cfg.Stock.Ticker,
		"from", cfg.Gdelt.StartDate,
		"to", cfg.Gdelt.EndDate,
		"use_doc_api", cfg.Gdelt.UseDocAPI)

	client := fetch.NewClient(cfg.HTTP)
	var fetcher fetch.Fetcher
	if cfg.Gdelt.UseDocAPI {
		fetcher = fetch.NewGdeltDocFetcher(client, cfg.Gdelt.Keyword, cfg.Gdelt.Country)
	} else {
		fetcher = fetch.NewGdeltExportFetcher(client, cfg.Gdelt.Keyword)
	}

	ranges, err := chunker.Chunk(start, end, cfg.Gdelt.ChunkDays)
	if err != nil {
		return errors.ConfigError(err, "invalid chunking parameters")
	}
	jobs := chunker.Jobs(ranges, paths.RawDir, cfg.Gdelt.FilePrefix)
	pending, skipped := chunker.Pending(jobs)
	infrastructure.InfoContext(ctx, "chunked date range",
		"chunks", len(jobs),
		"pending", len(pending),
		"resumed", len(skipped))

	writer := exporter.NewCSVWriter(paths)
	orchestrator := pipeline.NewOrchestrator(fetcher, writer.SaveBatch, cfg.Gdelt.MaxWorkers)
	batches := orchestrator.Run(ctx, pending)

	fetched := make(map[string]struct{}, len(pending))
	for _, job := range pending {
		fetched[job.Destination] = struct{}{}
	}

	// Every other persisted chunk feeds the same normalization path: the
	// ones this run skipped, and ones left behind by runs over different
	// date windows.
	discovery := files.NewDiscovery(paths.RawDir)
	chunkFiles, err := discovery.FindChunkFiles(".", cfg.Gdelt.FilePrefix)
	if err != nil {
		return fmt.Errorf("discover persisted chunks: %w", err)
	}
	for _, file := range chunkFiles {
		if _, ok := fetched[file.Path]; ok {
			continue
		}
		batch, err := files.LoadBatch(file.Path, fetcher.Source())
		if err != nil {
			infrastructure.WarnContext(ctx, "failed to reload persisted chunk",
				"path", file.Path, "error", err)
			continue
		}
		batches = append(batches, batch)
	}

	opts := normalize.DefaultOptions()
	opts.ToneFieldIndex = cfg.Gdelt.ToneField
	opts.FallbackDate = cfg.Gdelt.StartDate

	var events domain.DailySeries
	for _, batch := range batches {
		events = append(events, normalize.Events(ctx, batch, opts)...)
	}

	yahoo := fetch.NewYahooFetcher(client, cfg.Stock.Ticker, cfg.Stock.Interval)
	priceBatch, err := yahoo.Fetch(ctx, chunker.DateRange{Start: start, End: end})
	if err != nil {
		return errors.FetchError(err, filepath.Base(paths.StockFile))
	}
	if err := writer.SaveBatch(paths.StockFile, priceBatch); err != nil {
		return fmt.Errorf("persist stock data: %w", err)
	}
	prices := normalize.Price(ctx, priceBatch)

	merged := series.InnerJoin(series.MeanByDate(events), prices)
	diffs := series.Diff(merged)
	infrastructure.InfoContext(ctx, "merged daily series",
		"event_rows", len(events),
		"price_rows", len(prices),
		"merged_rows", len(merged),
		"differenced_rows", len(diffs))

	report := analysis.Analyze(merged, diffs, cfg.Analysis.MaxLag)
	results := report.Flatten()

	if err := writer.WriteMergedCSV(diffs); err != nil {
		return fmt.Errorf("write merged table: %w", err)
	}
	if err := writer.WriteResultsJSON(results); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if cfg.Analysis.ExcelReport {
		if err := writer.WriteExcelReport(diffs); err != nil {
			// the CSV already carries the data, so the workbook is best effort
			infrastructure.WarnContext(ctx, "failed to write Excel report", "error", err)
		}
	}

	printSummary(cfg, paths, len(merged), results)
	return nil
}

// printSummary writes the user-facing run recap to stdout. Log output is
// structured; this is not.
func printSummary(cfg *config.Config, paths *config.Paths, mergedRows int, results map[string]string) {
	fmt.Printf("Analysis complete for %q vs %s (%s to %s)\n",
		cfg.Gdelt.Keyword, cfg.Stock.Ticker, cfg.Gdelt.StartDate, cfg.Gdelt.EndDate)
	fmt.Printf("  merged rows:  %d\n", mergedRows)
	if r, ok := results["correlation"]; ok {
		fmt.Printf("  correlation:  %s\n", r)
	}
	if r, ok := results["diff_correlation"]; ok {
		fmt.Printf("  diff corr:    %s\n", r)
	}
	fmt.Printf("  merged table: %s\n", paths.MergedCSV())
	fmt.Printf("  statistics:   %s\n", paths.ResultsJSON())
	if cfg.Analysis.ExcelReport {
		fmt.Printf("  workbook:     %s\n", paths.ExcelReport())
	}
}
