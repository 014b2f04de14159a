package occurrence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/models"
)

func record(crime, nb string, year, month, count int) models.OccurrenceRecord {
	return models.OccurrenceRecord{CrimeType: crime, Neighbourhood: nb, Year: year, Month: month, Count: count}
}

func TestCollection_IncrementCreatesEntries(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Add(
		record("Theft", "Kitsilano", 2020, 1, 1),
		record("Theft", "Kitsilano", 2020, 1, 1),
		record("Theft", "Fairview", 2020, 1, 3),
		record("Mischief", "Kitsilano", 2019, 12, 2),
	))

	assert.Equal(t, []string{"Mischief", "Theft"}, c.Crimes())
	assert.Equal(t, []string{"Fairview", "Kitsilano"}, c.Neighbourhoods("Theft"))
	assert.Empty(t, c.Neighbourhoods("Arson"))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []Pair{
		{"Mischief", "Kitsilano"},
		{"Theft", "Fairview"},
		{"Theft", "Kitsilano"},
	}, c.Pairs())

	s, ok := c.Series("Theft", "Kitsilano")
	require.True(t, ok)
	count, _ := s.Get(2020, 1)
	assert.Equal(t, 2, count)

	_, ok = c.Series("Theft", "Downtown")
	assert.False(t, ok)
}

func TestCollection_IncrementRejectsInvalid(t *testing.T) {
	c := NewCollection()
	err := c.Increment(record("Theft", "Kitsilano", 2020, 13, 1))
	assert.True(t, errors.Is(err, models.ErrRange))
	assert.Equal(t, 0, c.Len(), "invalid records must not create series")
}

func TestCollection_Observe(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Increment(record("Theft", "Kitsilano", 2020, 1, 4)))

	require.NoError(t, c.Observe("Theft", "Kitsilano", 2020, 1))
	require.NoError(t, c.Observe("Theft", "Kitsilano", 2020, 2))

	s, _ := c.Series("Theft", "Kitsilano")
	count, _ := s.Get(2020, 1)
	assert.Equal(t, 4, count, "observe keeps existing counts")
	count, ok := s.Get(2020, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, count)

	assert.True(t, errors.Is(c.Observe("", "Kitsilano", 2020, 1), models.ErrRange))
	assert.True(t, errors.Is(c.Observe("Theft", "Kitsilano", 2020, 0), models.ErrRange))
}

func TestCollection_FillGapsAndRecords(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Add(
		record("Theft", "Kitsilano", 2003, 1, 10),
		record("Theft", "Kitsilano", 2003, 2, 5),
		record("Mischief", "Fairview", 2003, 3, 1),
	))

	require.NoError(t, c.FillGaps(models.YearMonth{Year: 2003, Month: 1}, models.YearMonth{Year: 2003, Month: 4}))

	records := c.Records()
	require.Len(t, records, 8)
	assert.Equal(t, record("Mischief", "Fairview", 2003, 1, 0), records[0])
	assert.Equal(t, record("Mischief", "Fairview", 2003, 3, 1), records[2])
	assert.Equal(t, record("Theft", "Kitsilano", 2003, 1, 10), records[4])
	assert.Equal(t, record("Theft", "Kitsilano", 2003, 4, 0), records[7])

	err := c.FillGaps(models.YearMonth{Year: 2003, Month: 4}, models.YearMonth{Year: 2003, Month: 1})
	assert.True(t, errors.Is(err, models.ErrRange))
}

func TestCollection_Span(t *testing.T) {
	c := NewCollection()
	_, _, ok := c.Span()
	assert.False(t, ok)

	require.NoError(t, c.Add(
		record("Theft", "Kitsilano", 2005, 6, 1),
		record("Theft", "West End", 2003, 2, 4),
		record("Mischief", "Fairview", 2021, 11, 2),
	))

	first, last, ok := c.Span()
	require.True(t, ok)
	assert.Equal(t, models.YearMonth{Year: 2003, Month: 2}, first)
	assert.Equal(t, models.YearMonth{Year: 2021, Month: 11}, last)
}
