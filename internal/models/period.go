package models

import "fmt"

// MonthsPerYear is the number of calendar months modelled per year
const MonthsPerYear = 12

// YearMonth identifies one calendar month cell of a series
type YearMonth struct {
	Year  int `json:"year" mapstructure:"year"`
	Month int `json:"month" mapstructure:"month"`
}

// Validate checks that the year is non-negative and the month is in 1-12
func (ym YearMonth) Validate() error {
	if ym.Year < 0 {
		return fmt.Errorf("%w: year %d is negative", ErrRange, ym.Year)
	}
	return ValidateMonth(ym.Month)
}

// Before reports whether ym is chronologically before other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following calendar month
func (ym YearMonth) Next() YearMonth {
	if ym.Month >= MonthsPerYear {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// String formats as YYYY-MM
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// ValidateMonth returns ErrRange unless month is in 1-12
func ValidateMonth(month int) error {
	if month < 1 || month > MonthsPerYear {
		return fmt.Errorf("%w: month %d not in [1,12]", ErrRange, month)
	}
	return nil
}

// YearRange is an inclusive span of years
type YearRange struct {
	Start int `json:"start" mapstructure:"start"`
	End   int `json:"end" mapstructure:"end"`
}

// Validate checks the range is non-negative and not inverted
func (r YearRange) Validate() error {
	if r.Start < 0 || r.End < 0 {
		return fmt.Errorf("%w: year range %s has a negative bound", ErrRange, r)
	}
	if r.End < r.Start {
		return fmt.Errorf("%w: year range %s is inverted", ErrRange, r)
	}
	return nil
}

// Contains reports whether year is inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Years returns every year of the range in ascending order
func (r YearRange) Years() []int {
	if r.End < r.Start {
		return nil
	}
	years := make([]int, 0, r.End-r.Start+1)
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
