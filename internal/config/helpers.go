package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// EnsureDirectories creates the parent directories of every configured output file
func (c *Config) EnsureDirectories() error {
	for _, path := range []string{c.Export.OccurrencesPath, c.Export.CSVPath, c.Export.SnapshotPath} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
