package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/services"
)

func newRunCommand(configPath *string) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest occurrences, build the P-Index and export it once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			logger.Info("pindex run starting", "version", Version, "commit", GitCommit)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := buildIndex(ctx, cfg, logger)
			if err != nil {
				return err
			}

			if !quiet {
				if err := printAverages(cmd.OutOrStdout(), svc); err != nil {
					return err
				}
			}

			return exportIndex(ctx, cfg, logger, svc)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the averages table")

	return cmd
}

// printAverages writes the per-crime averages table. An empty build prints a
// notice instead.
func printAverages(w io.Writer, svc *services.AnalysisService) error {
	overall, byCrime, err := svc.Averages()
	if errors.Is(err, models.ErrEmptyDataset) {
		_, werr := fmt.Fprintln(w, "No P-Index values were produced.")
		return werr
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, renderAverages("Average P-Index by crime type", overall, byCrime))
	return err
}
