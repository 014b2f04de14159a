package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soltixdb/pindex/internal/aggregation"
	"github.com/soltixdb/pindex/internal/analytics/anomaly"
	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/export"
	"github.com/soltixdb/pindex/internal/ingest"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/occurrence"
	"github.com/soltixdb/pindex/internal/pindex"
)

// RunInfo describes the build that produced the current index collection
type RunInfo struct {
	RunID        string            `json:"run_id"`
	FitRange     models.YearRange  `json:"fit_range"`
	PredictRange models.YearRange  `json:"predict_range"`
	Stats        pindex.BuildStats `json:"stats"`
	FinishedAt   time.Time         `json:"finished_at"`
}

// AnalysisService owns the occurrence collection and the index collection
// built from it. Ingestion and rebuilds take the write side of the lock; a
// rebuild computes a fresh collection and swaps it in whole, so readers see
// either the previous build or the new one.
type AnalysisService struct {
	logger *logging.Logger
	cfg    config.AnalysisConfig

	mu          sync.RWMutex
	occurrences *occurrence.Collection
	index       *pindex.Collection
	lastRun     *RunInfo

	rebuilding sync.Mutex
}

// NewAnalysisService creates a service with an empty occurrence collection
func NewAnalysisService(logger *logging.Logger, cfg config.AnalysisConfig) *AnalysisService {
	if logger == nil {
		logger = logging.Global()
	}
	return &AnalysisService{
		logger:      logger,
		cfg:         cfg,
		occurrences: occurrence.NewCollection(),
		index:       pindex.NewCollection(),
	}
}

// Ingest drains src into the occurrence collection
func (s *AnalysisService) Ingest(ctx context.Context, src ingest.Source) (ingest.LoadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := ingest.Load(logging.WithLogger(ctx, s.logger), src, s.occurrences)
	return stats, wrapError(err)
}

// FillGaps zero-fills every occurrence series over [start, end]
func (s *AnalysisService) FillGaps(start, end models.YearMonth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if first, last, ok := s.occurrences.Span(); ok && (start.Before(first) || last.Before(end)) {
		s.logger.Warn("Gap fill range extends past the collected data",
			"start", start.String(),
			"end", end.String(),
			"first", first.String(),
			"last", last.String())
	}
	if err := s.occurrences.FillGaps(start, end); err != nil {
		return wrapError(err)
	}
	s.logger.Info("Gaps filled",
		"start", start.String(),
		"end", end.String(),
		"series", s.occurrences.Len())
	return nil
}

// Rebuild computes a new index collection and replaces the current one. Nil
// ranges fall back to the configured ones. Only one rebuild runs at a time;
// a concurrent call fails with CodeRebuildInProgress.
func (s *AnalysisService) Rebuild(ctx context.Context, fitRange, predictRange *models.YearRange) (*RunInfo, error) {
	if !s.rebuilding.TryLock() {
		return nil, NewServiceError(CodeRebuildInProgress, "a rebuild is already running")
	}
	defer s.rebuilding.Unlock()

	opts := pindex.Options{
		FitRange:     s.cfg.FitRange,
		PredictRange: s.cfg.PredictRange,
		Workers:      s.cfg.Workers,
	}
	if fitRange != nil {
		opts.FitRange = *fitRange
	}
	if predictRange != nil {
		opts.PredictRange = *predictRange
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := s.logger.WithContext(ctx)

	builder, err := pindex.NewBuilder(opts, logger)
	if err != nil {
		return nil, wrapError(err)
	}

	// Ingestion takes the write lock, so the collection is stable while we read it
	s.mu.RLock()
	collection, stats, err := builder.Build(ctx, s.occurrences)
	s.mu.RUnlock()
	if err != nil {
		logger.Error("Rebuild failed", "error", err)
		return nil, wrapError(err)
	}

	run := &RunInfo{
		RunID:        runID,
		FitRange:     opts.FitRange,
		PredictRange: opts.PredictRange,
		Stats:        stats,
		FinishedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.index = collection
	s.lastRun = run
	s.mu.Unlock()

	return run, nil
}

// Restore replaces the index collection with previously exported records
func (s *AnalysisService) Restore(records []models.IndexRecord) error {
	collection, err := pindex.FromRecords(records)
	if err != nil {
		return wrapError(err)
	}

	s.mu.Lock()
	s.index = collection
	s.lastRun = nil
	s.mu.Unlock()

	s.logger.Info("Index restored", "values", collection.Len())
	return nil
}

// Export writes the current index values to every sink, stopping at the first failure
func (s *AnalysisService) Export(ctx context.Context, sinks ...export.IndexSink) error {
	records := s.IndexRecords()
	for _, sink := range sinks {
		start := time.Now()
		if err := sink.WriteIndex(ctx, records); err != nil {
			return fmt.Errorf("export to %s: %w", sink.Name(), err)
		}
		s.logger.Info("Index exported",
			"sink", sink.Name(),
			"records", len(records),
			"duration_ms", time.Since(start).Milliseconds())
	}
	return nil
}

// LastRun returns the build that produced the current collection, or nil
func (s *AnalysisService) LastRun() *RunInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// Significance returns the index magnitude treated as significant
func (s *AnalysisService) Significance() float64 {
	if s.cfg.Significance <= 0 {
		return anomaly.DefaultSignificance
	}
	return s.cfg.Significance
}

// Classify labels an index value with the configured significance
func (s *AnalysisService) Classify(index float64) anomaly.Class {
	return anomaly.Classify(index, s.Significance())
}

// OccurrenceRecords returns the occurrence collection as flat tuples
func (s *AnalysisService) OccurrenceRecords() []models.OccurrenceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occurrences.Records()
}

// IndexRecords returns the current index collection as flat tuples
func (s *AnalysisService) IndexRecords() []models.IndexRecord {
	return s.current().Records()
}

// Values returns the number of index values currently held
func (s *AnalysisService) Values() int {
	return s.current().Len()
}

// current returns the index collection; it is never mutated after the swap
func (s *AnalysisService) current() *pindex.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Crimes returns the crime types with index values
func (s *AnalysisService) Crimes() []string {
	return s.current().Crimes()
}

// Neighbourhoods returns the neighbourhoods of a crime type
func (s *AnalysisService) Neighbourhoods(crimeType string) ([]string, error) {
	c := s.current()
	if !c.HasCrime(crimeType) {
		return nil, wrapError(fmt.Errorf("crime %q: %w", crimeType, models.ErrNotFound))
	}
	return c.Neighbourhoods(crimeType), nil
}

// Series returns the chronological index values of one pair
func (s *AnalysisService) Series(crimeType, neighbourhood string) ([]pindex.Point, error) {
	series, ok := s.current().Series(crimeType, neighbourhood)
	if !ok {
		return nil, wrapError(fmt.Errorf("series %q/%q: %w", crimeType, neighbourhood, models.ErrNotFound))
	}
	return series.Points(), nil
}

// Frames returns the heatmap frames of one crime type
func (s *AnalysisService) Frames(crimeType string) ([]Frame, error) {
	frames, err := BuildFrames(s.current(), crimeType)
	return frames, wrapError(err)
}

// Averages returns the overall signed mean and one summary per crime type
func (s *AnalysisService) Averages() (aggregation.Summary, []aggregation.Summary, error) {
	c := s.current()
	overall, err := aggregation.Overall(c)
	if err != nil {
		return aggregation.Summary{}, nil, wrapError(err)
	}
	byCrime, err := aggregation.AverageByCrime(c)
	if err != nil {
		return aggregation.Summary{}, nil, wrapError(err)
	}
	return overall, byCrime, nil
}

// CrimeAverages returns the signed mean of one crime type and one summary per neighbourhood
func (s *AnalysisService) CrimeAverages(crimeType string) (aggregation.Summary, []aggregation.Summary, error) {
	c := s.current()
	if !c.HasCrime(crimeType) {
		return aggregation.Summary{}, nil, wrapError(fmt.Errorf("crime %q: %w", crimeType, models.ErrNotFound))
	}
	overall, err := aggregation.CrimeSummary(c, crimeType)
	if err != nil {
		return aggregation.Summary{}, nil, wrapError(err)
	}
	byNeighbourhood, err := aggregation.AverageByNeighbourhood(c, crimeType)
	if err != nil {
		return aggregation.Summary{}, nil, wrapError(err)
	}
	return overall, byNeighbourhood, nil
}
