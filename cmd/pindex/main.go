// Package main provides the pindex CLI: it builds P-Index values from crime
// occurrence data, exports them and serves them over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "pindex",
		Short: "P-Index crime anomaly pipeline",
		Long: `pindex fits a linear trend per calendar month to historical crime counts
and scores later months against it as a signed P-Index in [-100, 100].

Commands:
  run       Ingest, build and export once
  serve     Build (or restore) and serve the index over HTTP
  publish   Push a CSV of occurrences onto the ingest queue subject`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")

	rootCmd.AddCommand(newRunCommand(&configPath))
	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newPublishCommand(&configPath))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pindex %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}
}
