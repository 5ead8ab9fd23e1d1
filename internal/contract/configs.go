package contract

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/huangsam/gradekit/schema"
)

// Default values for configuration.
const (
	DefaultPasses      = 3
	MaxPasses          = 10
	MinValidPasses     = 2
	DefaultTolerance   = 5.0 // percent of a criterion's max points
	MaxTolerance       = 50.0
	DefaultTemperature = 0.0
	DefaultTimeout     = 90 * time.Second
	DefaultRetries     = 3
	DefaultPrecision   = 1
	DefaultModel       = "openai/gpt-5"
	DefaultBaseURL     = "https://zenmux.ai/api/v1"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// BandsRawInput holds custom band thresholds from the YAML config file.
// Use float64 pointers so absent values fall back to defaults.
type BandsRawInput struct {
	Excellent    *float64 `mapstructure:"excellent"`
	Good         *float64 `mapstructure:"good"`
	Satisfactory *float64 `mapstructure:"satisfactory"`
	Passing      *float64 `mapstructure:"passing"`
}

// Config holds the runtime configuration for grading.
// This struct remains the "final, validated" config.
type Config struct {
	RubricPath string
	AnswerPath string

	Passes          int
	Tolerance       float64 // percent of a criterion's max points
	AllowSinglePass bool
	Strictness      schema.Strictness

	Model       string
	BaseURL     string
	APIKey      string // Please use env var as this is plaintext
	Temperature float64
	Timeout     time.Duration
	Retries     int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Verbose    bool
	Width      int // Terminal width override (0 = auto-detect)

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// BandThresholds maps each band label to its minimum score percentage
	BandThresholds map[schema.Band]float64

	UseColors bool // Enable colored band labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RubricPathStr string
	AnswerPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Passes           int     `mapstructure:"passes"`
	Tolerance        float64 `mapstructure:"tolerance"`
	SinglePass       bool    `mapstructure:"single-pass"`
	Strictness       string  `mapstructure:"strictness"`
	Model            string  `mapstructure:"model"`
	BaseURL          string  `mapstructure:"base-url"`
	APIKey           string  `mapstructure:"api-key"`
	Temperature      float64 `mapstructure:"temperature"`
	Timeout          string  `mapstructure:"timeout"`
	Retries          int     `mapstructure:"retries"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	Verbose          bool    `mapstructure:"verbose"`
	Width            int     `mapstructure:"width"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`
	Color            string  `mapstructure:"color"`

	// --- Custom band thresholds from config file ---
	Bands BandsRawInput `mapstructure:"bands"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.BandThresholds != nil {
		clone.BandThresholds = make(map[schema.Band]float64)
		maps.Copy(clone.BandThresholds, c.BandThresholds)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGradingParams(cfg, input); err != nil {
		return err
	}
	if err := processBackendEndpoint(cfg, input); err != nil {
		return err
	}
	if err := processBandThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// RevalidateGrading re-checks the grading knobs on a config that was mutated
// after the initial validation, e.g. by per-request MCP overrides.
func RevalidateGrading(cfg *Config) error {
	if cfg.Passes < 1 || cfg.Passes > MaxPasses {
		return fmt.Errorf("passes must be between 1 and %d (received %d)", MaxPasses, cfg.Passes)
	}
	if cfg.Passes < MinValidPasses && !cfg.AllowSinglePass {
		return fmt.Errorf("passes must be at least %d unless single-pass mode is enabled (received %d)", MinValidPasses, cfg.Passes)
	}
	if cfg.Tolerance < 0 || cfg.Tolerance > MaxTolerance {
		return fmt.Errorf("tolerance must be between 0 and %.0f percent (received %.2f)", MaxTolerance, cfg.Tolerance)
	}
	if _, ok := schema.ValidStrictnessModes[cfg.Strictness]; !ok {
		return fmt.Errorf("invalid strictness '%s'. must be proportional or hardfail", cfg.Strictness)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-grading fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.RubricPath = input.RubricPathStr
	cfg.AnswerPath = input.AnswerPathStr
	cfg.OutputFile = input.OutputFile
	cfg.Verbose = input.Verbose
	cfg.Width = input.Width
	cfg.AllowSinglePass = input.SinglePass

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	// Parquet only makes sense for bulk history records
	if cfg.Output == schema.ParquetOut {
		return fmt.Errorf("parquet output is only available for 'history export'")
	}

	// --- 2. Strictness Validation ---
	cfg.Strictness = schema.Strictness(strings.ToLower(input.Strictness))
	if _, ok := schema.ValidStrictnessModes[cfg.Strictness]; !ok {
		return fmt.Errorf("invalid strictness '%s'. must be proportional or hardfail", input.Strictness)
	}

	// --- 3. History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	return nil
}

// processGradingParams validates the pass count, tolerance band and sampling knobs.
func processGradingParams(cfg *Config, input *ConfigRawInput) error {
	if input.Passes < 1 || input.Passes > MaxPasses {
		return fmt.Errorf("passes must be between 1 and %d (received %d)", MaxPasses, input.Passes)
	}
	cfg.Passes = input.Passes

	// A single requested pass only makes sense with the degraded policy enabled.
	if cfg.Passes < MinValidPasses && !cfg.AllowSinglePass {
		return fmt.Errorf("passes must be at least %d unless --single-pass is set (received %d)", MinValidPasses, cfg.Passes)
	}

	if input.Tolerance < 0 || input.Tolerance > MaxTolerance {
		return fmt.Errorf("tolerance must be between 0 and %.0f percent (received %.2f)", MaxTolerance, input.Tolerance)
	}
	cfg.Tolerance = input.Tolerance

	if input.Temperature < 0 || input.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2 (received %.2f)", input.Temperature)
	}
	cfg.Temperature = input.Temperature

	if input.Retries < 0 || input.Retries > 10 {
		return fmt.Errorf("retries must be between 0 and 10 (received %d)", input.Retries)
	}
	cfg.Retries = input.Retries

	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive (received %s)", timeout)
	}
	cfg.Timeout = timeout

	return nil
}

// processBackendEndpoint validates the LLM endpoint settings. The API key is
// intentionally not required here; commands that call the backend surface
// auth failures at request time.
func processBackendEndpoint(cfg *Config, input *ConfigRawInput) error {
	cfg.Model = strings.TrimSpace(input.Model)
	if cfg.Model == "" {
		return fmt.Errorf("model must not be empty")
	}

	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(input.BaseURL), "/")
	if cfg.BaseURL == "" {
		return fmt.Errorf("base-url must not be empty")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base-url must start with http:// or https:// (received %s)", cfg.BaseURL)
	}

	cfg.APIKey = input.APIKey
	return nil
}

// processBandThresholds converts the raw band input into the final cfg.BandThresholds map.
// If no thresholds are provided in the config, it initializes with default values.
func processBandThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.GetDefaultBandThresholds()

	// Override with config file values if provided
	if input.Bands.Excellent != nil {
		thresholds[schema.ExcellentBand] = *input.Bands.Excellent
	}
	if input.Bands.Good != nil {
		thresholds[schema.GoodBand] = *input.Bands.Good
	}
	if input.Bands.Satisfactory != nil {
		thresholds[schema.SatisfactoryBand] = *input.Bands.Satisfactory
	}
	if input.Bands.Passing != nil {
		thresholds[schema.PassingBand] = *input.Bands.Passing
	}

	// Validate thresholds: each must be a valid percentage and the ordering
	// from Excellent down to Passing must be strictly decreasing.
	for band, threshold := range thresholds {
		if threshold < 0.0 || threshold > 100.0 {
			return fmt.Errorf("band threshold for %s must be between 0.0 and 100.0 (received %.2f)", band, threshold)
		}
	}
	for i := 1; i < len(schema.BandOrder)-1; i++ {
		higher := schema.BandOrder[i-1]
		lower := schema.BandOrder[i]
		if thresholds[higher] <= thresholds[lower] {
			return fmt.Errorf("band threshold for %s (%.2f) must be greater than %s (%.2f)", higher, thresholds[higher], lower, thresholds[lower])
		}
	}

	cfg.BandThresholds = thresholds
	return nil
}
