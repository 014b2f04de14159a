package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/pindex"
)

// Frame is one cell of an animated choropleth: the index of one region in one month
type Frame struct {
	Year   int     `json:"-"`
	Month  int     `json:"-"`
	Date   string  `json:"date"`
	Region string  `json:"region"`
	Index  float64 `json:"index"`
}

// MonthLabel formats a month as "Jan 2020"
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String()[:3], year)
}

// BuildFrames unpacks one crime type's index values into frames ordered by
// month and then region, so consecutive frames share a date label
func BuildFrames(c *pindex.Collection, crimeType string) ([]Frame, error) {
	if !c.HasCrime(crimeType) {
		return nil, fmt.Errorf("crime %q: %w", crimeType, models.ErrNotFound)
	}

	var frames []Frame
	for _, nb := range c.Neighbourhoods(crimeType) {
		s, _ := c.Series(crimeType, nb)
		for _, p := range s.Points() {
			frames = append(frames, Frame{
				Year:   p.Year,
				Month:  p.Month,
				Date:   MonthLabel(p.Year, p.Month),
				Region: nb,
				Index:  p.Index,
			})
		}
	}

	sort.SliceStable(frames, func(i, j int) bool {
		a, b := frames[i], frames[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Region < b.Region
	})
	return frames, nil
}
