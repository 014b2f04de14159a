// Package analytics provides the common types shared by the trend fitting and
// deviation scoring packages.
package analytics

// YearPoint is one observation of a calendar month in a given year
type YearPoint struct {
	Year  int
	Value float64
}

// YearSeries is an ordered collection of YearPoint values
type YearSeries []YearPoint

// Years extracts the years as float64 regressors
func (ys YearSeries) Years() []float64 {
	years := make([]float64, len(ys))
	for i, p := range ys {
		years[i] = float64(p.Year)
	}
	return years
}

// Values extracts just the observed values
func (ys YearSeries) Values() []float64 {
	values := make([]float64, len(ys))
	for i, p := range ys {
		values[i] = p.Value
	}
	return values
}

// Len returns the number of points
func (ys YearSeries) Len() int {
	return len(ys)
}
