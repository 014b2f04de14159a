// Package trend fits the per-calendar-month linear model (year -> count) over a
// baseline window.
package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/soltixdb/pindex/internal/analytics"
	"github.com/soltixdb/pindex/internal/models"
)

// MinFitPoints is the minimum number of baseline points for a regression
const MinFitPoints = 2

// Model is an ordinary least-squares line over year.
//
// The regression is computed on years centred at Pivot so that a baseline
// lying exactly on a line reproduces it without cancellation error; Intercept
// is the equivalent intercept at year zero.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Pivot     float64 `json:"pivot"`
	Level     float64 `json:"level"` // fitted value at Pivot
	Points    int     `json:"points"`
}

// Predict returns the modelled count for year
func (m Model) Predict(year int) float64 {
	return m.Level + m.Slope*(float64(year)-m.Pivot)
}

func (m Model) String() string {
	return fmt.Sprintf("h(x) = %.3f + %.3f*x", m.Intercept, m.Slope)
}

// Fit regresses value on year with closed-form OLS
// (slope = cov(year, value) / var(year), level = mean(value) at mean(year)).
func Fit(points analytics.YearSeries) (Model, error) {
	if len(points) < MinFitPoints {
		return Model{}, fmt.Errorf("%w: need %d baseline points, have %d",
			models.ErrInsufficientData, MinFitPoints, len(points))
	}

	xs := points.Years()
	pivot := stat.Mean(xs, nil)
	for i := range xs {
		xs[i] -= pivot
	}
	if stat.Variance(xs, nil) == 0 {
		return Model{}, fmt.Errorf("%w: all baseline points share year %d",
			models.ErrInsufficientData, points[0].Year)
	}

	// y = alpha + beta*x
	alpha, beta := stat.LinearRegression(xs, points.Values(), nil, false)

	return Model{
		Slope:     beta,
		Intercept: alpha - beta*pivot,
		Pivot:     pivot,
		Level:     alpha,
		Points:    len(points),
	}, nil
}

// RMSD returns the root-mean-square deviation of the model over points.
// Zero is a valid result and means a perfect historical fit.
func RMSD(points analytics.YearSeries, model Model) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: rmsd over zero points", models.ErrInsufficientData)
	}

	squaredSum := 0.0
	for _, p := range points {
		residual := p.Value - model.Predict(p.Year)
		squaredSum += residual * residual
	}
	return math.Sqrt(squaredSum / float64(len(points))), nil
}
