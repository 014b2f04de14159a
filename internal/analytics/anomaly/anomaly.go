// Package anomaly turns the deviation of an observed count from its trend
// prediction into a signed P-Index.
package anomaly

// Class describes how a P-Index value is read
type Class string

const (
	ClassExpected  Class = "expected"  // within the significance threshold
	ClassExcess    Class = "excess"    // significantly above the trend
	ClassShortfall Class = "shortfall" // significantly below the trend
)

// DefaultSignificance is the index magnitude (95% confidence) above which a
// deviation is classified as significant
const DefaultSignificance = 95.0

// Deviation is the scored distance of an observation from its prediction
type Deviation struct {
	Z             float64 `json:"z"`             // |observed - predicted| in RMSD units
	Overestimated bool    `json:"overestimated"` // prediction was above the observation
}

// Classify labels an index value using threshold as the significance cutoff
// on its magnitude. A non-positive threshold falls back to DefaultSignificance.
func Classify(index, threshold float64) Class {
	if threshold <= 0 {
		threshold = DefaultSignificance
	}
	switch {
	case index >= threshold:
		return ClassExcess
	case index <= -threshold:
		return ClassShortfall
	default:
		return ClassExpected
	}
}
