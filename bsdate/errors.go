/*
errors.go - Error types for date conversion

ERROR CATEGORIES:
  1. Out of range - the year lies outside the compiled-in table span
  2. Invalid date - month or day is structurally impossible

USAGE:

    bs, err := bsdate.ADToBS(2034, 1, 1)
    if bsdate.IsOutOfRange(err) {
        // show "date conversion unsupported for this year"
    }

Neither kind is recovered internally. A conversion either succeeds or fails
as a whole; there is no clamped fallback value.
*/
package bsdate

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOutOfRange is returned when a year is outside the supported span.
	ErrOutOfRange = errors.New("year out of supported range")

	// ErrInvalidDate is returned when a month or day does not exist.
	ErrInvalidDate = errors.New("invalid date")
)

// Calendar names the calendar system a date belongs to.
type Calendar string

const (
	CalendarBS Calendar = "BS"
	CalendarAD Calendar = "AD"
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OutOfRangeError reports a year outside [Min, Max] (both inclusive).
type OutOfRangeError struct {
	Calendar Calendar
	Year     int
	Min      int
	Max      int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s year %d is not supported (supported range %d-%d)",
		e.Calendar, e.Year, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// InvalidDateError reports a month or day that does not exist in the
// given calendar.
type InvalidDateError struct {
	Calendar Calendar
	Year     int
	Month    int
	Day      int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s date: %04d-%02d-%02d", e.Calendar, e.Year, e.Month, e.Day)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

func bsOutOfRange(year int) error {
	return &OutOfRangeError{Calendar: CalendarBS, Year: year, Min: StartBSYear, Max: EndBSYear}
}

func adOutOfRange(year int) error {
	return &OutOfRangeError{Calendar: CalendarAD, Year: year, Min: StartADYear, Max: EndADYear - 1}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsOutOfRange returns true if err is, or wraps, an OutOfRangeError.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsInvalidDate returns true if err is, or wraps, an InvalidDateError.
func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

// IsClientError returns true if the error is due to caller input rather
// than an internal failure.
func IsClientError(err error) bool {
	return IsOutOfRange(err) || IsInvalidDate(err)
}
