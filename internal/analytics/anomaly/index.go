package anomaly

import "math"

// PValue returns the two-tailed Gaussian tail probability of a deviation at
// least z standard units from the mean: 1 - erf(z / sqrt(2)).
// PValue(0) = 1 and it decreases monotonically towards 0.
func PValue(z float64) float64 {
	return 1 - math.Erf(math.Abs(z)/math.Sqrt2)
}

// MaxIndex is the largest index magnitude. A p-value that underflows to zero
// would give exactly 100, so magnitudes are capped just below it.
var MaxIndex = math.Nextafter(100, 0)

// Index maps a p-value to a signed index in (-100, 100). The magnitude is the
// confidence that the deviation is not chance; the sign is negative when the
// trend overestimated the observation.
func Index(p float64, overestimated bool) float64 {
	idx := math.Min((1-p)*100, MaxIndex)
	if overestimated {
		return -idx
	}
	return idx
}

// PIndex scores an observation against its prediction and returns the signed index
func PIndex(observed, predicted, rmsd float64) float64 {
	d := Score(observed, predicted, rmsd)
	return Index(PValue(d.Z), d.Overestimated)
}
