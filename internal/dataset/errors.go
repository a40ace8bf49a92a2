package dataset

import "errors"

var (
	// ErrDataUnavailable means a source table could not be read or lacks the
	// required columns. Fatal at start-up.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidYear means a year cell could not be coerced to an integer.
	// The whole table is rejected.
	ErrInvalidYear = errors.New("invalid year")

	// ErrEmptyRange means the year coverage of the tables does not overlap.
	ErrEmptyRange = errors.New("no common data available")

	// ErrInvalidSelection means a requested country or year range is not
	// acceptable; the caller keeps its prior selection.
	ErrInvalidSelection = errors.New("invalid selection")
)
