// Package occurrence holds raw monthly crime counts per (crime type, neighbourhood).
package occurrence

import (
	"fmt"
	"sort"

	"github.com/soltixdb/pindex/internal/analytics"
	"github.com/soltixdb/pindex/internal/models"
)

// Cell is one populated (year, month) count of a series
type Cell struct {
	models.YearMonth
	Count int
}

// Series is the monthly count history of one crime type in one neighbourhood.
// A missing cell means the month was never observed, not zero.
type Series struct {
	CrimeType     string
	Neighbourhood string

	cells map[models.YearMonth]int
}

// NewSeries creates an empty series
func NewSeries(crimeType, neighbourhood string) *Series {
	return &Series{
		CrimeType:     crimeType,
		Neighbourhood: neighbourhood,
		cells:         make(map[models.YearMonth]int),
	}
}

// Set overwrites the count of a cell, creating it if absent
func (s *Series) Set(year, month, count int) error {
	ym := models.YearMonth{Year: year, Month: month}
	if err := ym.Validate(); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: count %d is negative", models.ErrRange, count)
	}
	s.cells[ym] = count
	return nil
}

// Increment adds delta to a cell; an absent cell starts at delta
func (s *Series) Increment(year, month, delta int) error {
	ym := models.YearMonth{Year: year, Month: month}
	if err := ym.Validate(); err != nil {
		return err
	}
	if delta < 1 {
		return fmt.Errorf("%w: increment %d must be at least 1", models.ErrRange, delta)
	}
	s.cells[ym] += delta
	return nil
}

// Get returns the count of a cell and whether it exists
func (s *Series) Get(year, month int) (int, bool) {
	v, ok := s.cells[models.YearMonth{Year: year, Month: month}]
	return v, ok
}

// Has reports whether the cell exists
func (s *Series) Has(year, month int) bool {
	_, ok := s.cells[models.YearMonth{Year: year, Month: month}]
	return ok
}

// Len returns the number of populated cells
func (s *Series) Len() int {
	return len(s.cells)
}

// Query returns (year, count) for every year of years that has a cell for
// month, ascending by year. Years without a cell are skipped, not zero-filled.
func (s *Series) Query(month int, years models.YearRange) (analytics.YearSeries, error) {
	if err := models.ValidateMonth(month); err != nil {
		return nil, err
	}

	var points analytics.YearSeries
	for _, year := range years.Years() {
		if count, ok := s.cells[models.YearMonth{Year: year, Month: month}]; ok {
			points = append(points, analytics.YearPoint{Year: year, Value: float64(count)})
		}
	}
	return points, nil
}

// Cells returns every populated cell in chronological order
func (s *Series) Cells() []Cell {
	cells := make([]Cell, 0, len(s.cells))
	for ym, count := range s.cells {
		cells = append(cells, Cell{YearMonth: ym, Count: count})
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].YearMonth.Before(cells[j].YearMonth)
	})
	return cells
}

// Span returns the first and last populated months; ok is false for an empty series
func (s *Series) Span() (first, last models.YearMonth, ok bool) {
	for ym := range s.cells {
		if !ok {
			first, last, ok = ym, ym, true
			continue
		}
		if ym.Before(first) {
			first = ym
		}
		if last.Before(ym) {
			last = ym
		}
	}
	return first, last, ok
}
