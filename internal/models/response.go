package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Values    int    `json:"values"` // index values currently served
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CrimeListResponse lists the crime types that have index values
type CrimeListResponse struct {
	Crimes []string `json:"crimes"`
}

// NeighbourhoodListResponse lists the neighbourhoods of one crime type
type NeighbourhoodListResponse struct {
	CrimeType      string   `json:"crime_type"`
	Neighbourhoods []string `json:"neighbourhoods"`
}

// IndexPointView is one (year, month, index) entry of a series
type IndexPointView struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Index float64 `json:"index"`
	Class string  `json:"class"` // expected, excess or shortfall
}

// SeriesResponse is the chronological index series of one pair
type SeriesResponse struct {
	CrimeType     string           `json:"crime_type"`
	Neighbourhood string           `json:"neighbourhood"`
	Points        []IndexPointView `json:"points"`
	Count         int              `json:"count"`
}

// AverageView is the signed mean of one group of index values
type AverageView struct {
	CrimeType     string  `json:"crime_type,omitempty"`
	Neighbourhood string  `json:"neighbourhood,omitempty"`
	Average       float64 `json:"average"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Count         int64   `json:"count"`
}

// AveragesResponse carries the overall mean and one entry per group
type AveragesResponse struct {
	CrimeType string        `json:"crime_type,omitempty"`
	Overall   AverageView   `json:"overall"`
	Groups    []AverageView `json:"groups"`
}

// FrameView is one heatmap cell: a month label, a region and its index
type FrameView struct {
	Date   string  `json:"date"`
	Region string  `json:"region"`
	Index  float64 `json:"index"`
}

// FramesResponse carries the heatmap frames of one crime type
type FramesResponse struct {
	CrimeType string      `json:"crime_type"`
	Frames    []FrameView `json:"frames"`
	Count     int         `json:"count"`
}

// RebuildRequest overrides the configured ranges for one rebuild
type RebuildRequest struct {
	FitRange     *YearRange `json:"fit_range,omitempty"`
	PredictRange *YearRange `json:"predict_range,omitempty"`
}

// RebuildResponse reports the outcome of a rebuild
type RebuildResponse struct {
	RunID         string    `json:"run_id"`
	FitRange      YearRange `json:"fit_range"`
	PredictRange  YearRange `json:"predict_range"`
	Pairs         int       `json:"pairs"`
	Values        int       `json:"values"`
	SkippedMonths int       `json:"skipped_months"`
	DurationMs    int64     `json:"duration_ms"`
}
