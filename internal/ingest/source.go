// Package ingest reads occurrence records from CSV files or a message queue
// into an occurrence collection.
package ingest

import (
	"context"
	"fmt"

	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/occurrence"
)

// RecordFunc receives one record at a time
type RecordFunc func(rec models.OccurrenceRecord) error

// Source yields occurrence records in order. Each stops at the first error
// returned by fn and returns it.
type Source interface {
	Each(ctx context.Context, fn RecordFunc) error
}

// LoadStats counts what one Load did
type LoadStats struct {
	Records int `json:"records"` // records that incremented a cell
	Zeros   int `json:"zeros"`   // explicit zero-count observations
	Skipped int `json:"skipped"` // records rejected by the source
}

// Load drains src into coll. A zero count marks the month as observed without
// adding occurrences, so exported collections can be loaded back unchanged.
func Load(ctx context.Context, src Source, coll *occurrence.Collection) (LoadStats, error) {
	var stats LoadStats
	logger := logging.FromContext(ctx)

	err := src.Each(ctx, func(rec models.OccurrenceRecord) error {
		if rec.Count == 0 {
			if err := coll.Observe(rec.CrimeType, rec.Neighbourhood, rec.Year, rec.Month); err != nil {
				return err
			}
			stats.Zeros++
			return nil
		}
		if err := coll.Increment(rec); err != nil {
			return err
		}
		stats.Records++
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to load occurrences: %w", err)
	}

	if counter, ok := src.(interface{ Skipped() int }); ok {
		stats.Skipped = counter.Skipped()
	}

	logger.Info("Occurrences loaded",
		"records", stats.Records,
		"zeros", stats.Zeros,
		"skipped", stats.Skipped,
		"series", coll.Len())
	return stats, nil
}

// SliceSource yields a fixed list of records
type SliceSource []models.OccurrenceRecord

// Each calls fn for every record
func (s SliceSource) Each(ctx context.Context, fn RecordFunc) error {
	for _, rec := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
