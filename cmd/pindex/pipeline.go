package main

import (
	"context"
	"fmt"

	"github.com/soltixdb/pindex/internal/compression"
	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/export"
	"github.com/soltixdb/pindex/internal/ingest"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/queue"
	"github.com/soltixdb/pindex/internal/services"
)

// setup loads the configuration and installs the global logger
func setup(configPath string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openSource returns the configured occurrence source and a release func
func openSource(cfg *config.Config) (ingest.Source, func(), error) {
	switch cfg.Ingest.Source {
	case "queue":
		sub, err := queue.NewSubscriber(cfg.Queue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to queue: %w", err)
		}
		release := func() { _ = sub.Close() }
		return ingest.NewQueueSource(sub, cfg.Ingest.Subject, cfg.Ingest.IdleTimeout), release, nil
	default:
		return ingest.NewCSVFile(cfg.Ingest), func() {}, nil
	}
}

// buildIndex ingests, gap-fills and builds the index collection
func buildIndex(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*services.AnalysisService, error) {
	svc := services.NewAnalysisService(logger, cfg.Analysis)

	src, release, err := openSource(cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	logger.Info("Ingesting occurrences", "source", cfg.Ingest.Source)
	if _, err := svc.Ingest(ctx, src); err != nil {
		return nil, err
	}

	if cfg.Ingest.HasFillRange() {
		if err := svc.FillGaps(cfg.Ingest.FillStart, cfg.Ingest.FillEnd); err != nil {
			return nil, err
		}
	}

	if _, err := svc.Rebuild(ctx, nil, nil); err != nil {
		return nil, err
	}
	return svc, nil
}

// exportIndex writes the gap-filled occurrences and the index values to
// every configured sink
func exportIndex(ctx context.Context, cfg *config.Config, logger *logging.Logger, svc *services.AnalysisService) error {
	if path := cfg.Export.OccurrencesPath; path != "" {
		if err := export.WriteOccurrencesFile(path, svc.OccurrenceRecords()); err != nil {
			return err
		}
		logger.Info("Occurrences exported", "path", path)
	}

	sinks, closeSinks, err := openSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	if len(sinks) == 0 {
		logger.Warn("No index sink configured; values are not persisted")
		return nil
	}
	return svc.Export(ctx, sinks...)
}

// openSinks builds the sinks enabled in cfg. The returned func releases any
// connection they hold.
func openSinks(ctx context.Context, cfg *config.Config) ([]export.IndexSink, func(), error) {
	var sinks []export.IndexSink
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Export.CSVPath != "" {
		sinks = append(sinks, &export.CSVFile{Path: cfg.Export.CSVPath})
	}

	if cfg.Export.SnapshotPath != "" {
		algo, err := compression.ParseAlgorithm(cfg.Export.Compression)
		if err != nil {
			return nil, nil, err
		}
		snapshot, err := export.NewSnapshotFile(cfg.Export.SnapshotPath, algo)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, snapshot)
	}

	if cfg.Export.PublishPrefix != "" {
		pub, err := queue.NewPublisher(cfg.Queue)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to connect to queue: %w", err)
		}
		closers = append(closers, func() { _ = pub.Close() })
		sinks = append(sinks, export.NewQueuePublisher(pub, cfg.Export.PublishPrefix, cfg.Export.BatchSize))
	}

	if cfg.Postgres.DSN != "" {
		pg, err := export.OpenPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Table)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = pg.Close() })
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pg)
	}

	return sinks, closeAll, nil
}
