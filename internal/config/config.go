package config

import (
	"fmt"
	"time"

	"github.com/soltixdb/pindex/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Export   ExportConfig   `mapstructure:"export"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP query API configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	HTTPPort int    `mapstructure:"http_port"`
}

// AuthConfig represents API key authentication for the /v1 routes
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"api_keys"`
}

// AnalysisConfig holds the baseline and prediction windows
type AnalysisConfig struct {
	FitRange     models.YearRange `mapstructure:"fit_range"`     // Baseline years for the linear trend
	PredictRange models.YearRange `mapstructure:"predict_range"` // Years scored against the trend
	Workers      int              `mapstructure:"workers"`       // Concurrent pairs during a build (0 = GOMAXPROCS)
	Significance float64          `mapstructure:"significance"`  // Index magnitude treated as significant
}

// IngestConfig describes where occurrence rows come from
type IngestConfig struct {
	Source  string        `mapstructure:"source"` // csv, queue
	CSVPath string        `mapstructure:"csv_path"`
	Columns ColumnsConfig `mapstructure:"columns"`
	Subject string        `mapstructure:"subject"` // Queue subject carrying JSON records

	// Queue ingestion stops once no record has arrived for this long
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// Gap filling is only applied when both bounds are set
	FillStart models.YearMonth `mapstructure:"fill_start"`
	FillEnd   models.YearMonth `mapstructure:"fill_end"`
}

// ColumnsConfig maps CSV columns (0-based) onto record fields
type ColumnsConfig struct {
	CrimeType     int `mapstructure:"crime_type"`
	Neighbourhood int `mapstructure:"neighbourhood"`
	Year          int `mapstructure:"year"`
	Month         int `mapstructure:"month"`
	Count         int `mapstructure:"count"` // -1: every row counts as one occurrence
}

// ExportConfig lists output sinks; empty values disable a sink
type ExportConfig struct {
	OccurrencesPath string `mapstructure:"occurrences_path"` // Gap-filled counts as flat CSV
	CSVPath         string `mapstructure:"csv_path"`
	SnapshotPath    string `mapstructure:"snapshot_path"`
	Compression     string `mapstructure:"compression"` // Snapshot compression: snappy, none
	PublishPrefix   string `mapstructure:"publish_prefix"`
	BatchSize       int    `mapstructure:"batch_size"`
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats, redis, kafka, memory (default)
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`
	RedisStream   string `mapstructure:"redis_stream"`
	RedisGroup    string `mapstructure:"redis_group"`
	RedisConsumer string `mapstructure:"redis_consumer"`

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaGroupID string   `mapstructure:"kafka_group_id"`
}

// PostgresConfig configures the index sink; an empty DSN disables it
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest config: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate checks both windows and that prediction strictly follows the baseline
func (c *AnalysisConfig) Validate() error {
	if err := c.FitRange.Validate(); err != nil {
		return fmt.Errorf("fit_range: %w", err)
	}
	if err := c.PredictRange.Validate(); err != nil {
		return fmt.Errorf("predict_range: %w", err)
	}
	if c.FitRange.End >= c.PredictRange.Start {
		return fmt.Errorf("%w: predict_range must start after fit_range ends", models.ErrConfiguration)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if c.Significance < 0 || c.Significance >= 100 {
		return fmt.Errorf("significance must be in [0, 100)")
	}
	return nil
}

// Validate validates ingest configuration
func (c *IngestConfig) Validate() error {
	switch c.Source {
	case "csv":
		if c.CSVPath == "" {
			return fmt.Errorf("ingest.csv_path is required for csv source")
		}
		if err := c.Columns.Validate(); err != nil {
			return fmt.Errorf("columns: %w", err)
		}
	case "queue":
		if c.Subject == "" {
			return fmt.Errorf("ingest.subject is required for queue source")
		}
		if c.IdleTimeout <= 0 {
			return fmt.Errorf("ingest.idle_timeout must be positive for queue source")
		}
	default:
		return fmt.Errorf("ingest.source must be 'csv' or 'queue'")
	}

	if c.HasFillRange() {
		if err := c.FillStart.Validate(); err != nil {
			return fmt.Errorf("fill_start: %w", err)
		}
		if err := c.FillEnd.Validate(); err != nil {
			return fmt.Errorf("fill_end: %w", err)
		}
		if c.FillEnd.Before(c.FillStart) {
			return fmt.Errorf("fill_end is before fill_start")
		}
	}
	return nil
}

// HasCount reports whether rows carry their own occurrence count
func (c ColumnsConfig) HasCount() bool {
	return c.Count >= 0
}

// Validate checks that every mapped column is non-negative and distinct
func (c ColumnsConfig) Validate() error {
	named := []struct {
		name  string
		index int
	}{
		{"crime_type", c.CrimeType},
		{"neighbourhood", c.Neighbourhood},
		{"year", c.Year},
		{"month", c.Month},
	}
	if c.HasCount() {
		named = append(named, struct {
			name  string
			index int
		}{"count", c.Count})
	} else if c.Count != -1 {
		return fmt.Errorf("count column must be -1 or a column index, got %d", c.Count)
	}

	seen := make(map[int]string, len(named))
	for _, col := range named {
		if col.index < 0 {
			return fmt.Errorf("%s column index %d is negative", col.name, col.index)
		}
		if other, ok := seen[col.index]; ok {
			return fmt.Errorf("%s and %s both map to column %d", other, col.name, col.index)
		}
		seen[col.index] = col.name
	}
	return nil
}

// MaxIndex returns the highest mapped column index
func (c ColumnsConfig) MaxIndex() int {
	highest := c.CrimeType
	for _, i := range []int{c.Neighbourhood, c.Year, c.Month, c.Count} {
		if i > highest {
			highest = i
		}
	}
	return highest
}

// HasFillRange reports whether a gap-fill range is configured
func (c *IngestConfig) HasFillRange() bool {
	return c.FillStart != (models.YearMonth{}) && c.FillEnd != (models.YearMonth{})
}

// Validate validates export configuration
func (c *ExportConfig) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	switch c.Compression {
	case "", "snappy", "none":
	default:
		return fmt.Errorf("compression must be 'snappy' or 'none'")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
