package pindex

import (
	"sort"

	"github.com/soltixdb/pindex/internal/models"
)

// Collection maps crime type -> neighbourhood -> Series
type Collection struct {
	series map[string]map[string]*Series
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{series: make(map[string]map[string]*Series)}
}

// Put stores a series under its own crime type and neighbourhood, replacing any previous one
func (c *Collection) Put(s *Series) {
	byNeighbourhood, ok := c.series[s.CrimeType]
	if !ok {
		byNeighbourhood = make(map[string]*Series)
		c.series[s.CrimeType] = byNeighbourhood
	}
	byNeighbourhood[s.Neighbourhood] = s
}

// Series returns the series of a pair
func (c *Collection) Series(crimeType, neighbourhood string) (*Series, bool) {
	s, ok := c.series[crimeType][neighbourhood]
	return s, ok
}

// HasCrime reports whether any series exists for crimeType
func (c *Collection) HasCrime(crimeType string) bool {
	_, ok := c.series[crimeType]
	return ok
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

// Neighbourhoods returns the neighbourhoods of a crime type in sorted order
func (c *Collection) Neighbourhoods(crimeType string) []string {
	byNeighbourhood := c.series[crimeType]
	names := make([]string, 0, len(byNeighbourhood))
	for name := range byNeighbourhood {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of stored index values
func (c *Collection) Len() int {
	n := 0
	for _, byNeighbourhood := range c.series {
		for _, s := range byNeighbourhood {
			n += s.Len()
		}
	}
	return n
}

// Records flattens the collection into index tuples, sorted by crime,
// neighbourhood and then chronologically
func (c *Collection) Records() []models.IndexRecord {
	var records []models.IndexRecord
	for _, crime := range c.Crimes() {
		for _, nb := range c.Neighbourhoods(crime) {
			for _, p := range c.series[crime][nb].Points() {
				records = append(records, models.IndexRecord{
					CrimeType:     crime,
					Neighbourhood: nb,
					Year:          p.Year,
					Month:         p.Month,
					Index:         p.Index,
				})
			}
		}
	}
	return records
}

// FromRecords rebuilds a collection from flat index tuples
func FromRecords(records []models.IndexRecord) (*Collection, error) {
	c := NewCollection()
	for _, rec := range records {
		s, ok := c.Series(rec.CrimeType, rec.Neighbourhood)
		if !ok {
			s = NewSeries(rec.CrimeType, rec.Neighbourhood)
			c.Put(s)
		}
		if err := s.Set(rec.Year, rec.Month, rec.Index); err != nil {
			return nil, err
		}
	}
	return c, nil
}
