package trend

import (
	"fmt"

	"github.com/soltixdb/pindex/internal/analytics"
	"github.com/soltixdb/pindex/internal/models"
)

// MonthQuerier returns the observations of one calendar month across a year range
type MonthQuerier interface {
	Query(month int, years models.YearRange) (analytics.YearSeries, error)
}

// Baseline is the fitted model for one calendar month together with the RMSD
// of the same sample
type Baseline struct {
	Month int     `json:"month"`
	Model Model   `json:"model"`
	RMSD  float64 `json:"rmsd"`
}

// FitMonth fits the trend for month over fitRange and computes its RMSD
func FitMonth(series MonthQuerier, month int, fitRange models.YearRange) (Baseline, error) {
	points, err := series.Query(month, fitRange)
	if err != nil {
		return Baseline{}, err
	}

	model, err := Fit(points)
	if err != nil {
		return Baseline{}, fmt.Errorf("month %d over %s: %w", month, fitRange, err)
	}

	rmsd, err := RMSD(points, model)
	if err != nil {
		return Baseline{}, fmt.Errorf("month %d over %s: %w", month, fitRange, err)
	}

	return Baseline{Month: month, Model: model, RMSD: rmsd}, nil
}
