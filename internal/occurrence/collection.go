package occurrence

import (
	"fmt"
	"sort"

	"github.com/soltixdb/pindex/internal/models"
)

// Pair identifies one (crime type, neighbourhood) series
type Pair struct {
	CrimeType     string
	Neighbourhood string
}

// Collection maps crime type -> neighbourhood -> Series.
// It is built during ingestion and read-only afterwards (gap filling aside).
type Collection struct {
	series map[string]map[string]*Series
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{series: make(map[string]map[string]*Series)}
}

// Increment adds an ingestion record, creating the crime and neighbourhood entries on demand
func (c *Collection) Increment(rec models.OccurrenceRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("record %s/%s %04d-%02d: %w",
			rec.CrimeType, rec.Neighbourhood, rec.Year, rec.Month, err)
	}
	return c.getOrCreate(rec.CrimeType, rec.Neighbourhood).Increment(rec.Year, rec.Month, rec.Count)
}

// Add increments every record in order, stopping at the first invalid one
func (c *Collection) Add(records ...models.OccurrenceRecord) error {
	for _, rec := range records {
		if err := c.Increment(rec); err != nil {
			return err
		}
	}
	return nil
}

// Observe records that a month was observed with no occurrences: an absent
// cell becomes 0 and an existing cell keeps its count
func (c *Collection) Observe(crimeType, neighbourhood string, year, month int) error {
	if crimeType == "" || neighbourhood == "" {
		return fmt.Errorf("%w: crime type and neighbourhood are required", models.ErrRange)
	}
	ym := models.YearMonth{Year: year, Month: month}
	if err := ym.Validate(); err != nil {
		return err
	}
	s := c.getOrCreate(crimeType, neighbourhood)
	if s.Has(year, month) {
		return nil
	}
	return s.Set(year, month, 0)
}

func (c *Collection) getOrCreate(crimeType, neighbourhood string) *Series {
	byNeighbourhood, ok := c.series[crimeType]
	if !ok {
		byNeighbourhood = make(map[string]*Series)
		c.series[crimeType] = byNeighbourhood
	}
	s, ok := byNeighbourhood[neighbourhood]
	if !ok {
		s = NewSeries(crimeType, neighbourhood)
		byNeighbourhood[neighbourhood] = s
	}
	return s
}

// Series returns the series of a pair without creating it
func (c *Collection) Series(crimeType, neighbourhood string) (*Series, bool) {
	s, ok := c.series[crimeType][neighbourhood]
	return s, ok
}

// Crimes returns the crime types in sorted order
func (c *Collection) Crimes() []string {
	crimes := make([]string, 0, len(c.series))
	for crime := range c.series {
		crimes = append(crimes, crime)
	}
	sort.Strings(crimes)
	return crimes
}

// Neighbourhoods returns the neighbourhoods recorded for a crime type in sorted order
func (c *Collection) Neighbourhoods(crimeType string) []string {
	byNeighbourhood := c.series[crimeType]
	names := make([]string, 0, len(byNeighbourhood))
	for name := range byNeighbourhood {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pairs returns every (crime type, neighbourhood) pair in sorted order
func (c *Collection) Pairs() []Pair {
	var pairs []Pair
	for _, crime := range c.Crimes() {
		for _, nb := range c.Neighbourhoods(crime) {
			pairs = append(pairs, Pair{CrimeType: crime, Neighbourhood: nb})
		}
	}
	return pairs
}

// Len returns the number of series
func (c *Collection) Len() int {
	n := 0
	for _, byNeighbourhood := range c.series {
		n += len(byNeighbourhood)
	}
	return n
}

// Records flattens the collection into ingestion tuples, sorted by pair then month
func (c *Collection) Records() []models.OccurrenceRecord {
	var records []models.OccurrenceRecord
	for _, pair := range c.Pairs() {
		s := c.series[pair.CrimeType][pair.Neighbourhood]
		for _, cell := range s.Cells() {
			records = append(records, models.OccurrenceRecord{
				CrimeType:     pair.CrimeType,
				Neighbourhood: pair.Neighbourhood,
				Year:          cell.Year,
				Month:         cell.Month,
				Count:         cell.Count,
			})
		}
	}
	return records
}

// Span returns the first and last populated months over every series; ok is
// false for an empty collection
func (c *Collection) Span() (first, last models.YearMonth, ok bool) {
	for _, byNeighbourhood := range c.series {
		for _, s := range byNeighbourhood {
			f, l, has := s.Span()
			if !has {
				continue
			}
			if !ok || f.Before(first) {
				first = f
			}
			if !ok || last.Before(l) {
				last = l
			}
			ok = true
		}
	}
	return first, last, ok
}

// FillGaps zero-fills every series over the inclusive range [start, end].
// Only call it with a range inside the span the source data was collected for.
func (c *Collection) FillGaps(start, end models.YearMonth) error {
	for _, byNeighbourhood := range c.series {
		for _, s := range byNeighbourhood {
			if err := Fill(s, start, end); err != nil {
				return err
			}
		}
	}
	return nil
}
