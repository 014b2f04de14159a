package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soltixdb/pindex/internal/ingest"
	"github.com/soltixdb/pindex/internal/queue"
)

func newPublishCommand(configPath *string) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "publish [csv-file]",
		Short: "Publish occurrence rows from a CSV file onto the queue",
		Long: `publish reads a CSV with the configured column layout and publishes each row
as a JSON occurrence record, so a later "run" with ingest.source=queue can
consume it. The file defaults to ingest.csv_path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}

			ingestCfg := cfg.Ingest
			if len(args) == 1 {
				ingestCfg.CSVPath = args[0]
			}
			if subject == "" {
				subject = cfg.Ingest.Subject
			}

			pub, err := queue.NewPublisher(cfg.Queue)
			if err != nil {
				return err
			}
			defer func() { _ = pub.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			src := ingest.NewCSVFile(ingestCfg)
			published, err := ingest.Forward(ctx, src, pub, subject, cfg.Export.BatchSize)
			if err != nil {
				return err
			}

			logger.Info("Occurrences published",
				"path", ingestCfg.CSVPath,
				"subject", subject,
				"records", published,
				"skipped", src.Skipped())
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "queue subject (default ingest.subject)")

	return cmd
}
