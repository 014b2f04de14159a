package trend

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/analytics"
	"github.com/soltixdb/pindex/internal/models"
)

func line(slope, intercept float64, years ...int) analytics.YearSeries {
	var ys analytics.YearSeries
	for _, y := range years {
		ys = append(ys, analytics.YearPoint{Year: y, Value: intercept + slope*float64(y)})
	}
	return ys
}

func TestFit_PerfectLine(t *testing.T) {
	points := line(2, 1, 2014, 2015, 2016, 2017, 2018, 2019)

	model, err := Fit(points)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, model.Slope, 1e-9)
	assert.InDelta(t, 1.0, model.Intercept, 1e-6)
	assert.Equal(t, 6, model.Points)
	assert.InDelta(t, 4041.0, model.Predict(2020), 1e-9)

	rmsd, err := RMSD(points, model)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, rmsd, 1e-9)
}

func TestFit_FlatLine(t *testing.T) {
	points := analytics.YearSeries{{Year: 2014, Value: 7}, {Year: 2015, Value: 7}, {Year: 2016, Value: 7}}

	model, err := Fit(points)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, model.Slope, 1e-12)
	assert.InDelta(t, 7.0, model.Predict(2030), 1e-9)
}

func TestFit_KnownResiduals(t *testing.T) {
	points := analytics.YearSeries{{Year: 1, Value: 1}, {Year: 2, Value: 3}, {Year: 3, Value: 2}}

	model, err := Fit(points)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, model.Slope, 1e-12)
	assert.InDelta(t, 1.0, model.Intercept, 1e-12)
	assert.InDelta(t, 2.0, model.Level, 1e-12)

	rmsd, err := RMSD(points, model)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), rmsd, 1e-12)
}

func TestFit_InsufficientData(t *testing.T) {
	_, err := Fit(nil)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = Fit(analytics.YearSeries{{Year: 2019, Value: 3}})
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = Fit(analytics.YearSeries{{Year: 2019, Value: 3}, {Year: 2019, Value: 5}})
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = RMSD(nil, Model{})
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

type stubQuerier map[int]analytics.YearSeries

func (s stubQuerier) Query(month int, years models.YearRange) (analytics.YearSeries, error) {
	if err := models.ValidateMonth(month); err != nil {
		return nil, err
	}
	var out analytics.YearSeries
	for _, p := range s[month] {
		if years.Contains(p.Year) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestFitMonth(t *testing.T) {
	q := stubQuerier{
		1: line(3, 0, 2012, 2014, 2015, 2016, 2020),
		2: line(1, 0, 2016),
	}
	fit := models.YearRange{Start: 2014, End: 2019}

	baseline, err := FitMonth(q, 1, fit)
	require.NoError(t, err)
	assert.Equal(t, 1, baseline.Month)
	assert.Equal(t, 3, baseline.Model.Points, "points outside the fit range are ignored")
	assert.InDelta(t, 3.0, baseline.Model.Slope, 1e-9)
	assert.InDelta(t, 0.0, baseline.RMSD, 1e-9)

	_, err = FitMonth(q, 2, fit)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = FitMonth(q, 3, fit)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = FitMonth(q, 13, fit)
	assert.True(t, errors.Is(err, models.ErrRange))
}
