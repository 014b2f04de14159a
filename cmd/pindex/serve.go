package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/export"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/router"
	"github.com/soltixdb/pindex/internal/services"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	snapshot     string
	fromPostgres bool
	export       bool
}

func newServeCommand(configPath *string) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the P-Index over HTTP",
		Long: `serve builds the index from the configured source, or restores it from a
snapshot file or the Postgres table, then serves it on server.http_port.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.snapshot != "" && opts.fromPostgres {
				return fmt.Errorf("--snapshot and --from-postgres are mutually exclusive")
			}

			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			logger.Info("pindex API starting",
				"version", Version, "commit", GitCommit, "build time", BuildTime)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := loadService(ctx, cfg, logger, opts)
			if err != nil {
				return err
			}

			return serve(ctx, cfg, logger, svc)
		},
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "restore the index from a snapshot file instead of building it")
	cmd.Flags().BoolVar(&opts.fromPostgres, "from-postgres", false, "restore the index from the postgres table instead of building it")
	cmd.Flags().BoolVar(&opts.export, "export", false, "export a freshly built index to the configured sinks before serving")

	return cmd
}

func loadService(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts serveOptions) (*services.AnalysisService, error) {
	switch {
	case opts.snapshot != "":
		snap, err := export.LoadSnapshot(opts.snapshot)
		if err != nil {
			return nil, err
		}
		svc := services.NewAnalysisService(logger, cfg.Analysis)
		if err := svc.Restore(snap.Records); err != nil {
			return nil, err
		}
		logger.Info("Snapshot restored", "path", opts.snapshot, "created_at", snap.CreatedAt)
		return svc, nil

	case opts.fromPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres.dsn is required with --from-postgres")
		}
		pg, err := export.OpenPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Table)
		if err != nil {
			return nil, err
		}
		defer func() { _ = pg.Close() }()

		records, err := pg.ReadIndex(ctx)
		if err != nil {
			return nil, err
		}
		svc := services.NewAnalysisService(logger, cfg.Analysis)
		if err := svc.Restore(records); err != nil {
			return nil, err
		}
		return svc, nil

	default:
		svc, err := buildIndex(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if opts.export {
			if err := exportIndex(ctx, cfg, logger, svc); err != nil {
				return nil, err
			}
		}
		return svc, nil
	}
}

// serve runs the HTTP API until ctx is cancelled, then shuts down gracefully
func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger, svc *services.AnalysisService) error {
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app := router.New(logger, svc, cfg.Auth)

	listenErr := make(chan error, 1)
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
	return nil
}
