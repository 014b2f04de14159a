package pindex

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/soltixdb/pindex/internal/analytics/anomaly"
	"github.com/soltixdb/pindex/internal/analytics/trend"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/occurrence"
)

// Options configures one build
type Options struct {
	FitRange     models.YearRange // baseline years the trend is fitted on
	PredictRange models.YearRange // years scored against the trend
	Workers      int              // concurrent (crime, neighbourhood) pairs; <= 0 uses GOMAXPROCS
}

// Validate checks both ranges and that prediction strictly follows the baseline
func (o Options) Validate() error {
	if err := o.FitRange.Validate(); err != nil {
		return fmt.Errorf("%w: fit range: %v", models.ErrConfiguration, err)
	}
	if err := o.PredictRange.Validate(); err != nil {
		return fmt.Errorf("%w: predict range: %v", models.ErrConfiguration, err)
	}
	if o.FitRange.End >= o.PredictRange.Start {
		return fmt.Errorf("%w: predict range %s must start after fit range %s",
			models.ErrConfiguration, o.PredictRange, o.FitRange)
	}
	return nil
}

// BuildStats summarises one build
type BuildStats struct {
	Pairs         int           `json:"pairs"`
	Values        int           `json:"values"`
	SkippedMonths int           `json:"skipped_months"` // calendar months with too little baseline data
	Duration      time.Duration `json:"duration"`
}

// Builder drives trend fit -> deviation score -> index for every pair
type Builder struct {
	opts   Options
	logger *logging.Logger
}

// NewBuilder validates opts and creates a builder
func NewBuilder(opts Options, logger *logging.Logger) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Builder{opts: opts, logger: logger}, nil
}

// Options returns the effective build options
func (b *Builder) Options() Options {
	return b.opts
}

// BuildSeries computes the index series of one occurrence series. Calendar
// months whose baseline has fewer than two points are skipped and counted.
// Prediction-range months without an observed cell are skipped too, so gaps
// there are omitted from the output rather than scored as zero.
func (b *Builder) BuildSeries(occ *occurrence.Series) (*Series, int, error) {
	out := NewSeries(occ.CrimeType, occ.Neighbourhood)
	skipped := 0

	for month := 1; month <= models.MonthsPerYear; month++ {
		baseline, err := trend.FitMonth(occ, month, b.opts.FitRange)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientData) {
				skipped++
				b.logger.Debug("Skipping month with insufficient baseline",
					"crime_type", occ.CrimeType,
					"neighbourhood", occ.Neighbourhood,
					"month", month,
					"error", err)
				continue
			}
			return nil, 0, err
		}

		for _, year := range b.opts.PredictRange.Years() {
			observed, ok := occ.Get(year, month)
			if !ok {
				continue
			}
			idx := anomaly.PIndex(float64(observed), baseline.Model.Predict(year), baseline.RMSD)
			if err := out.Set(year, month, idx); err != nil {
				return nil, 0, err
			}
		}
	}

	return out, skipped, nil
}

type pairResult struct {
	series  *Series
	skipped int
	err     error
}

// Build computes a fresh collection for every pair in occurrences. Pairs are
// independent, so they are sharded across a bounded set of goroutines and
// merged by key once all have finished.
func (b *Builder) Build(ctx context.Context, occurrences *occurrence.Collection) (*Collection, BuildStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, BuildStats{}, err
	}
	start := time.Now()
	pairs := occurrences.Pairs()

	results := make([]pairResult, len(pairs))
	semaphore := make(chan struct{}, b.opts.Workers)
	var wg sync.WaitGroup

	for i, pair := range pairs {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, BuildStats{}, ctx.Err()
		}

		occ, _ := occurrences.Series(pair.CrimeType, pair.Neighbourhood)
		wg.Add(1)
		go func(i int, occ *occurrence.Series) {
			defer wg.Done()
			defer func() { <-semaphore }()

			s, skipped, err := b.BuildSeries(occ)
			results[i] = pairResult{series: s, skipped: skipped, err: err}
		}(i, occ)
	}
	wg.Wait()

	collection := NewCollection()
	stats := BuildStats{Pairs: len(pairs)}
	for i, r := range results {
		if r.err != nil {
			return nil, BuildStats{}, fmt.Errorf("build %s/%s: %w",
				pairs[i].CrimeType, pairs[i].Neighbourhood, r.err)
		}
		stats.SkippedMonths += r.skipped
		if r.series.Len() == 0 {
			continue
		}
		collection.Put(r.series)
	}
	stats.Values = collection.Len()
	stats.Duration = time.Since(start)

	b.logger.Info("P-Index build complete",
		"fit_range", b.opts.FitRange.String(),
		"predict_range", b.opts.PredictRange.String(),
		"pairs", stats.Pairs,
		"values", stats.Values,
		"skipped_months", stats.SkippedMonths,
		"duration", stats.Duration)

	return collection, stats, nil
}
