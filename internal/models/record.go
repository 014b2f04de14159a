package models

import "fmt"

// OccurrenceRecord is one ingestion row: count crimes of a type observed in a
// neighbourhood during a calendar month
type OccurrenceRecord struct {
	CrimeType     string `json:"crime_type" db:"crime_type"`
	Neighbourhood string `json:"neighbourhood" db:"neighbourhood"`
	Year          int    `json:"year" db:"year"`
	Month         int    `json:"month" db:"month"`
	Count         int    `json:"count" db:"count"`
}

// Validate enforces the ingestion contract (month 1-12, year >= 0, count >= 1)
func (r OccurrenceRecord) Validate() error {
	if r.CrimeType == "" || r.Neighbourhood == "" {
		return fmt.Errorf("%w: crime type and neighbourhood are required", ErrRange)
	}
	if err := (YearMonth{Year: r.Year, Month: r.Month}).Validate(); err != nil {
		return err
	}
	if r.Count < 1 {
		return fmt.Errorf("%w: count %d must be at least 1", ErrRange, r.Count)
	}
	return nil
}

// IndexRecord is the flat form of one computed P-Index value
type IndexRecord struct {
	CrimeType     string  `json:"crime_type" db:"crime_type"`
	Neighbourhood string  `json:"neighbourhood" db:"neighbourhood"`
	Year          int     `json:"year" db:"year"`
	Month         int     `json:"month" db:"month"`
	Index         float64 `json:"index" db:"p_index"`
}
