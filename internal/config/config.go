package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
// Values are resolved in three layers: built-in defaults, then an optional
// YAML file, then TONEPULSE_* environment variables (env wins).
type Config struct {
	Gdelt    GdeltConfig    `yaml:"gdelt" envconfig:"GDELT"`
	Stock    StockConfig    `yaml:"stock" envconfig:"STOCK"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	HTTP     HTTPConfig     `yaml:"http" envconfig:"HTTP"`

	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`
}

// GdeltConfig controls the event-source side of the pipeline.
type GdeltConfig struct {
	Keyword    string `yaml:"keyword" envconfig:"KEYWORD" validate:"required"`
	Country    string `yaml:"country" envconfig:"COUNTRY"`
	StartDate  string `yaml:"start_date" envconfig:"START_DATE" validate:"required,datetime=2006-01-02"`
	EndDate    string `yaml:"end_date" envconfig:"END_DATE" validate:"required,datetime=2006-01-02"`
	ChunkDays  int    `yaml:"chunk_days" envconfig:"CHUNK_DAYS" validate:"min=1"`
	MaxWorkers int    `yaml:"max_workers" envconfig:"MAX_WORKERS" validate:"min=1"`
	UseDocAPI  bool   `yaml:"use_doc_api" envconfig:"USE_DOC_API"`
	ToneField  int    `yaml:"tone_field" envconfig:"TONE_FIELD" validate:"min=0"`
	FilePrefix string `yaml:"file_prefix" envconfig:"FILE_PREFIX" validate:"required"`
}

// StockConfig controls the price-source side of the pipeline.
type StockConfig struct {
	Ticker   string `yaml:"ticker" envconfig:"TICKER" validate:"required"`
	Name     string `yaml:"name" envconfig:"NAME"`
	Interval string `yaml:"interval" envconfig:"INTERVAL" validate:"oneof=1d 1wk 1mo"`
}

// AnalysisConfig controls the statistics stage and result artifacts.
type AnalysisConfig struct {
	MaxLag      int  `yaml:"max_lag" envconfig:"MAX_LAG" validate:"min=1"`
	ExcelReport bool `yaml:"excel_report" envconfig:"EXCEL_REPORT"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// HTTPConfig controls the shared upstream HTTP client.
type HTTPConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	RateLimitRPS float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateBurst    int           `yaml:"rate_burst" envconfig:"RATE_BURST"`
	UserAgent    string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// Default returns a Config populated with built-in defaults. Keyword, ticker
// and the date range have no defaults and must come from file, env or flags.
func Default() *Config {
	return &Config{
		Gdelt: GdeltConfig{
			Country:    "US",
			ChunkDays:  DefaultChunkDays,
			MaxWorkers: DefaultMaxWorkers,
			ToneField:  DefaultToneFieldIndex,
			FilePrefix: DefaultFilePrefix,
		},
		Stock: StockConfig{
			Interval: "1d",
		},
		Analysis: AnalysisConfig{
			MaxLag:      DefaultMaxLag,
			ExcelReport: true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/tonepulse.log",
		},
		HTTP: HTTPConfig{
			FetchTimeout: DefaultFetchTimeout,
			RateLimitRPS: DefaultRateLimitRPS,
			RateBurst:    DefaultRateBurst,
			UserAgent:    DefaultUserAgent,
		},
		DataDir: DefaultDataDir,
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (later wins).
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("TONEPULSE", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration. Any error here is fatal and must be
// surfaced before fetching starts.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	start, end, err := c.DateRange()
	if err != nil {
		return err
	}
	if start.After(end) {
		return fmt.Errorf("invalid date range: start %s is after end %s",
			c.Gdelt.StartDate, c.Gdelt.EndDate)
	}
	return nil
}

// DateRange parses the configured start and end dates.
func (c *Config) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.Gdelt.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", c.Gdelt.StartDate, err)
	}
	end, err := time.Parse(DateLayout, c.Gdelt.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", c.Gdelt.EndDate, err)
	}
	return start, end, nil
}
