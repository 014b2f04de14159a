package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/soltixdb/pindex/internal/models"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("pindex")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/pindex")
	}

	setDefaults(v)

	// Enable environment variable overrides, e.g. PINDEX_INGEST_CSV_PATH
	v.SetEnvPrefix("PINDEX")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	v.SetDefault("analysis.fit_range.start", d.Analysis.FitRange.Start)
	v.SetDefault("analysis.fit_range.end", d.Analysis.FitRange.End)
	v.SetDefault("analysis.predict_range.start", d.Analysis.PredictRange.Start)
	v.SetDefault("analysis.predict_range.end", d.Analysis.PredictRange.End)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.significance", d.Analysis.Significance)

	v.SetDefault("ingest.source", d.Ingest.Source)
	v.SetDefault("ingest.csv_path", d.Ingest.CSVPath)
	v.SetDefault("ingest.subject", d.Ingest.Subject)
	v.SetDefault("ingest.idle_timeout", d.Ingest.IdleTimeout)
	v.SetDefault("ingest.columns.crime_type", d.Ingest.Columns.CrimeType)
	v.SetDefault("ingest.columns.neighbourhood", d.Ingest.Columns.Neighbourhood)
	v.SetDefault("ingest.columns.year", d.Ingest.Columns.Year)
	v.SetDefault("ingest.columns.month", d.Ingest.Columns.Month)
	v.SetDefault("ingest.columns.count", d.Ingest.Columns.Count)
	v.SetDefault("ingest.fill_start.year", d.Ingest.FillStart.Year)
	v.SetDefault("ingest.fill_start.month", d.Ingest.FillStart.Month)
	v.SetDefault("ingest.fill_end.year", d.Ingest.FillEnd.Year)
	v.SetDefault("ingest.fill_end.month", d.Ingest.FillEnd.Month)

	v.SetDefault("export.occurrences_path", d.Export.OccurrencesPath)
	v.SetDefault("export.csv_path", d.Export.CSVPath)
	v.SetDefault("export.compression", d.Export.Compression)
	v.SetDefault("export.snapshot_path", d.Export.SnapshotPath)
	v.SetDefault("export.publish_prefix", d.Export.PublishPrefix)
	v.SetDefault("export.batch_size", d.Export.BatchSize)

	// Empty defaults register the keys so AutomaticEnv can override them
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.username", d.Queue.Username)
	v.SetDefault("queue.password", d.Queue.Password)

	v.SetDefault("postgres.dsn", d.Postgres.DSN)
	v.SetDefault("postgres.table", d.Postgres.Table)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration: the 2014-2019 baseline scored
// against 2020-2021 over data collected from 2003-01 to 2021-11
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5580,
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKeys: []string{},
		},
		Analysis: AnalysisConfig{
			FitRange:     models.YearRange{Start: 2014, End: 2019},
			PredictRange: models.YearRange{Start: 2020, End: 2021},
			Significance: 95,
		},
		Ingest: IngestConfig{
			Source:      "csv",
			CSVPath:     "./crime_data.csv",
			Subject:     "pindex.occurrences",
			IdleTimeout: 5 * time.Second,
			Columns: ColumnsConfig{
				CrimeType:     0,
				Neighbourhood: 1,
				Year:          2,
				Month:         3,
				Count:         4,
			},
			FillStart: models.YearMonth{Year: 2003, Month: 1},
			FillEnd:   models.YearMonth{Year: 2021, Month: 11},
		},
		Export: ExportConfig{
			Compression: "snappy",
			BatchSize:   500,
		},
		Queue: QueueConfig{
			Type: "memory",
		},
		Postgres: PostgresConfig{
			Table: "pindex_values",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
