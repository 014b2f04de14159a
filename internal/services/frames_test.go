package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/pindex"
)

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		year, month int
		want        string
	}{
		{2020, 1, "Jan 2020"},
		{2020, 12, "Dec 2020"},
		{2003, 5, "May 2003"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthLabel(tt.year, tt.month))
	}
}

func TestBuildFrames_OrderedByMonthThenRegion(t *testing.T) {
	c, err := pindex.FromRecords([]models.IndexRecord{
		{CrimeType: "Theft", Neighbourhood: "Kitsilano", Year: 2020, Month: 2, Index: 10},
		{CrimeType: "Theft", Neighbourhood: "Fairview", Year: 2020, Month: 2, Index: -5},
		{CrimeType: "Theft", Neighbourhood: "Kitsilano", Year: 2020, Month: 1, Index: 99},
		{CrimeType: "Theft", Neighbourhood: "Fairview", Year: 2021, Month: 1, Index: 0},
		{CrimeType: "Mischief", Neighbourhood: "Fairview", Year: 2020, Month: 1, Index: 1},
	})
	require.NoError(t, err)

	frames, err := BuildFrames(c, "Theft")
	require.NoError(t, err)
	require.Len(t, frames, 4)

	var labels []string
	for _, f := range frames {
		labels = append(labels, f.Date+"/"+f.Region)
	}
	assert.Equal(t, []string{
		"Jan 2020/Kitsilano",
		"Feb 2020/Fairview",
		"Feb 2020/Kitsilano",
		"Jan 2021/Fairview",
	}, labels)
	assert.Equal(t, 99.0, frames[0].Index)
}

func TestBuildFrames_UnknownCrime(t *testing.T) {
	_, err := BuildFrames(pindex.NewCollection(), "Arson")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
