package models

import "errors"

// Error kinds raised by the analysis pipeline. Callers wrap them with context
// and match them with errors.Is.
var (
	// ErrRange is returned for a month outside 1-12 or a negative year or count
	ErrRange = errors.New("value out of range")

	// ErrInsufficientData is returned when a regression has fewer than 2 baseline points
	ErrInsufficientData = errors.New("insufficient data")

	// ErrConfiguration is returned when the prediction range does not strictly follow the fit range
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmptyDataset is returned when an aggregation runs over zero index values
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrNotFound is returned when a crime type or neighbourhood has no series
	ErrNotFound = errors.New("not found")
)
