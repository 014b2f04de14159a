// Package aggregation reduces a P-Index collection into signed averages.
package aggregation

import (
	"fmt"

	"github.com/soltixdb/pindex/internal/models"
)

// Accumulator is a running reduction over index values
type Accumulator struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Add folds one value into the accumulator
func (a *Accumulator) Add(value float64) {
	if a.Count == 0 {
		a.Min = value
		a.Max = value
	} else {
		if value < a.Min {
			a.Min = value
		}
		if value > a.Max {
			a.Max = value
		}
	}
	a.Count++
	a.Sum += value
}

// AddAll folds every value into the accumulator
func (a *Accumulator) AddAll(values []float64) {
	for _, v := range values {
		a.Add(v)
	}
}

// Merge folds another accumulator into this one
func (a *Accumulator) Merge(other Accumulator) {
	if other.Count == 0 {
		return
	}
	if a.Count == 0 {
		*a = other
		return
	}
	if other.Min < a.Min {
		a.Min = other.Min
	}
	if other.Max > a.Max {
		a.Max = other.Max
	}
	a.Count += other.Count
	a.Sum += other.Sum
}

// Mean returns the arithmetic mean, or ErrEmptyDataset when nothing was added
func (a Accumulator) Mean() (float64, error) {
	if a.Count == 0 {
		return 0, fmt.Errorf("%w: no index values to average", models.ErrEmptyDataset)
	}
	return a.Sum / float64(a.Count), nil
}
