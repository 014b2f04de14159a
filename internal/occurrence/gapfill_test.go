package occurrence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/models"
)

func ym(year, month int) models.YearMonth {
	return models.YearMonth{Year: year, Month: month}
}

func TestFill_ZeroFillsAbsentMonths(t *testing.T) {
	s := NewSeries("Theft", "Kitsilano")
	require.NoError(t, s.Set(2003, 1, 10))
	require.NoError(t, s.Set(2003, 2, 5))

	require.NoError(t, Fill(s, ym(2003, 1), ym(2003, 4)))

	want := map[int]int{1: 10, 2: 5, 3: 0, 4: 0}
	for month, count := range want {
		got, ok := s.Get(2003, month)
		assert.True(t, ok, "month %d", month)
		assert.Equal(t, count, got, "month %d", month)
	}
	assert.Equal(t, 4, s.Len())
}

func TestFill_CrossesYearBoundary(t *testing.T) {
	s := NewSeries("Theft", "Kitsilano")
	require.NoError(t, Fill(s, ym(2019, 11), ym(2020, 2)))

	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Has(2019, 12))
	assert.True(t, s.Has(2020, 1))
	assert.False(t, s.Has(2020, 3))
}

func TestFill_Idempotent(t *testing.T) {
	s := NewSeries("Theft", "Kitsilano")
	require.NoError(t, s.Set(2020, 6, 7))

	require.NoError(t, Fill(s, ym(2020, 1), ym(2020, 12)))
	first := s.Cells()
	require.NoError(t, Fill(s, ym(2020, 1), ym(2020, 12)))

	assert.Equal(t, first, s.Cells())
	count, _ := s.Get(2020, 6)
	assert.Equal(t, 7, count)
}

func TestFill_SingleMonthAndInvalidRanges(t *testing.T) {
	s := NewSeries("Theft", "Kitsilano")
	require.NoError(t, Fill(s, ym(2020, 5), ym(2020, 5)))
	assert.Equal(t, 1, s.Len())

	assert.True(t, errors.Is(Fill(s, ym(2020, 5), ym(2020, 4)), models.ErrRange))
	assert.True(t, errors.Is(Fill(s, ym(2020, 0), ym(2020, 4)), models.ErrRange))
	assert.True(t, errors.Is(Fill(s, ym(2020, 1), ym(2020, 13)), models.ErrRange))
}
