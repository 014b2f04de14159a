package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearSeries(t *testing.T) {
	ys := YearSeries{{Year: 2014, Value: 2}, {Year: 2015, Value: 4}, {Year: 2016, Value: 9}}

	assert.Equal(t, []float64{2014, 2015, 2016}, ys.Years())
	assert.Equal(t, []float64{2, 4, 9}, ys.Values())
	assert.Equal(t, 3, ys.Len())
}
