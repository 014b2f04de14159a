// Package pindex holds computed P-Index values and builds them from an
// occurrence collection.
package pindex

import (
	"sort"

	"github.com/soltixdb/pindex/internal/models"
)

// Point is one computed index value
type Point struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Index float64 `json:"index"`
}

// Series is the index history of one crime type in one neighbourhood
type Series struct {
	CrimeType     string
	Neighbourhood string

	values map[models.YearMonth]float64
}

// NewSeries creates an empty series
func NewSeries(crimeType, neighbourhood string) *Series {
	return &Series{
		CrimeType:     crimeType,
		Neighbourhood: neighbourhood,
		values:        make(map[models.YearMonth]float64),
	}
}

// Set stores an index value; the last write wins
func (s *Series) Set(year, month int, index float64) error {
	ym := models.YearMonth{Year: year, Month: month}
	if err := ym.Validate(); err != nil {
		return err
	}
	s.values[ym] = index
	return nil
}

// Get returns the index of a month and whether it was computed
func (s *Series) Get(year, month int) (float64, bool) {
	v, ok := s.values[models.YearMonth{Year: year, Month: month}]
	return v, ok
}

// Len returns the number of stored values
func (s *Series) Len() int {
	return len(s.values)
}

// Points returns every value in chronological order
func (s *Series) Points() []Point {
	points := make([]Point, 0, len(s.values))
	for ym, v := range s.values {
		points = append(points, Point{Year: ym.Year, Month: ym.Month, Index: v})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// Values returns the raw index values in chronological order
func (s *Series) Values() []float64 {
	points := s.Points()
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Index
	}
	return values
}
