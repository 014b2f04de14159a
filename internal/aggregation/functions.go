package aggregation

import (
	"fmt"

	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/pindex"
)

// Every view averages the raw signed index values: shortfalls and excesses
// cancel out. Use the Summary min/max to see the spread.

// Summary is the reduction of one group of index values
type Summary struct {
	CrimeType     string  `json:"crime_type,omitempty"`
	Neighbourhood string  `json:"neighbourhood,omitempty"`
	Average       float64 `json:"average"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Count         int64   `json:"count"`
}

func summarize(acc Accumulator) (Summary, error) {
	mean, err := acc.Mean()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Average: mean, Min: acc.Min, Max: acc.Max, Count: acc.Count}, nil
}

func accumulateCrime(c *pindex.Collection, crimeType string) Accumulator {
	var acc Accumulator
	for _, nb := range c.Neighbourhoods(crimeType) {
		s, _ := c.Series(crimeType, nb)
		acc.AddAll(s.Values())
	}
	return acc
}

// Average returns the mean of every index value in the collection
func Average(c *pindex.Collection) (float64, error) {
	s, err := Overall(c)
	if err != nil {
		return 0, err
	}
	return s.Average, nil
}

// Overall summarises every index value in the collection
func Overall(c *pindex.Collection) (Summary, error) {
	var acc Accumulator
	for _, crime := range c.Crimes() {
		acc.Merge(accumulateCrime(c, crime))
	}
	return summarize(acc)
}

// AverageForCrime returns the mean over all neighbourhoods, years and months of one crime type
func AverageForCrime(c *pindex.Collection, crimeType string) (float64, error) {
	s, err := CrimeSummary(c, crimeType)
	if err != nil {
		return 0, err
	}
	return s.Average, nil
}

// CrimeSummary summarises every index value of one crime type
func CrimeSummary(c *pindex.Collection, crimeType string) (Summary, error) {
	s, err := summarize(accumulateCrime(c, crimeType))
	if err != nil {
		return Summary{}, fmt.Errorf("crime %q: %w", crimeType, err)
	}
	s.CrimeType = crimeType
	return s, nil
}

// AverageByCrime returns one summary per crime type, in crime order. Crime
// types without any value are left out; an entirely empty collection is an error.
func AverageByCrime(c *pindex.Collection) ([]Summary, error) {
	var summaries []Summary
	for _, crime := range c.Crimes() {
		s, err := summarize(accumulateCrime(c, crime))
		if err != nil {
			continue
		}
		s.CrimeType = crime
		summaries = append(summaries, s)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w: no index values in collection", models.ErrEmptyDataset)
	}
	return summaries, nil
}

// AverageByNeighbourhood returns one summary per neighbourhood of a crime type
func AverageByNeighbourhood(c *pindex.Collection, crimeType string) ([]Summary, error) {
	var summaries []Summary
	for _, nb := range c.Neighbourhoods(crimeType) {
		series, _ := c.Series(crimeType, nb)
		var acc Accumulator
		acc.AddAll(series.Values())
		s, err := summarize(acc)
		if err != nil {
			continue
		}
		s.CrimeType = crimeType
		s.Neighbourhood = nb
		summaries = append(summaries, s)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w: no index values for crime %q", models.ErrEmptyDataset, crimeType)
	}
	return summaries, nil
}

// AverageByCrimeNeighbourhood returns one summary per (crime type, neighbourhood) pair
func AverageByCrimeNeighbourhood(c *pindex.Collection) ([]Summary, error) {
	var summaries []Summary
	for _, crime := range c.Crimes() {
		perNeighbourhood, err := AverageByNeighbourhood(c, crime)
		if err != nil {
			continue
		}
		summaries = append(summaries, perNeighbourhood...)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w: no index values in collection", models.ErrEmptyDataset)
	}
	return summaries, nil
}
