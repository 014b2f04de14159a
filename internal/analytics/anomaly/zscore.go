package anomaly

import (
	"math"
)

// Score measures how far observed lies from predicted in units of the
// baseline RMSD. A zero RMSD (perfect historical fit) yields z = 0 since there
// is no historical variance to compare against. Equality is not flagged as
// overestimated.
func Score(observed, predicted, rmsd float64) Deviation {
	deviation := observed - predicted

	z := 0.0
	if rmsd > 0 {
		z = math.Abs(deviation) / rmsd
	}

	return Deviation{
		Z:             z,
		Overestimated: observed < predicted,
	}
}
