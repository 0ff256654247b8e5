package bsdate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE VALUES - Comparable, never mutated
// =============================================================================

// NepaliDate is a Bikram Sambat calendar date.
type NepaliDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// GregorianDate is a Gregorian calendar date.
type GregorianDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Kathmandu is Nepal Standard Time, UTC+05:45.
var Kathmandu = time.FixedZone("Asia/Kathmandu", 5*60*60+45*60)

// Today returns the BS date in Nepal at the given instant.
func Today(now time.Time) (NepaliDate, error) {
	t := now.In(Kathmandu)
	return ADToBS(t.Year(), int(t.Month()), t.Day())
}

// FromTime returns the calendar date of t in its own location.
func FromTime(t time.Time) GregorianDate {
	y, m, d := t.Date()
	return GregorianDate{Year: y, Month: int(m), Day: d}
}

// Time returns midnight UTC on the date.
func (g GregorianDate) Time() time.Time {
	return time.Date(g.Year, time.Month(g.Month), g.Day, 0, 0, 0, 0, time.UTC)
}

// ToBS converts the date with ADToBS.
func (g GregorianDate) ToBS() (NepaliDate, error) {
	return ADToBS(g.Year, g.Month, g.Day)
}

func (g GregorianDate) Compare(other GregorianDate) int {
	return compare(g.Year, g.Month, g.Day, other.Year, other.Month, other.Day)
}

func (g GregorianDate) Before(other GregorianDate) bool { return g.Compare(other) < 0 }
func (g GregorianDate) After(other GregorianDate) bool  { return g.Compare(other) > 0 }

func (g GregorianDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", g.Year, g.Month, g.Day)
}

// ToAD converts the date with BSToAD.
func (d NepaliDate) ToAD() (GregorianDate, error) {
	return BSToAD(d.Year, d.Month, d.Day)
}

// Validate reports whether the date exists in the table.
func (d NepaliDate) Validate() error {
	_, err := d.ToAD()
	return err
}

// AddDays returns the BS date n days after d (n may be negative).
func (d NepaliDate) AddDays(n int) (NepaliDate, error) {
	ad, err := d.ToAD()
	if err != nil {
		return NepaliDate{}, err
	}
	return FromTime(ad.Time().AddDate(0, 0, n)).ToBS()
}

// Weekday returns the day of the week the date falls on.
func (d NepaliDate) Weekday() (time.Weekday, error) {
	ad, err := d.ToAD()
	if err != nil {
		return 0, err
	}
	return ad.Time().Weekday(), nil
}

// Compare orders by year, then month, then day.
func (d NepaliDate) Compare(other NepaliDate) int {
	return compare(d.Year, d.Month, d.Day, other.Year, other.Month, other.Day)
}

func (d NepaliDate) Before(other NepaliDate) bool { return d.Compare(other) < 0 }
func (d NepaliDate) After(other NepaliDate) bool  { return d.Compare(other) > 0 }

func (d NepaliDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func compare(y1, m1, d1, y2, m2, d2 int) int {
	switch {
	case y1 != y2:
		return sign(y1 - y2)
	case m1 != m2:
		return sign(m1 - m2)
	default:
		return sign(d1 - d2)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// =============================================================================
// PARSING
// =============================================================================

// ParseNepaliDate parses YYYY-MM-DD (or YYYY/MM/DD) and checks the result
// against the table.
func ParseNepaliDate(s string) (NepaliDate, error) {
	y, m, d, err := splitDate(s)
	if err != nil {
		return NepaliDate{}, err
	}
	date := NepaliDate{Year: y, Month: m, Day: d}
	if err := date.Validate(); err != nil {
		return NepaliDate{}, err
	}
	return date, nil
}

// ParseGregorianDate parses YYYY-MM-DD (or YYYY/MM/DD). Range checks are
// left to ADToBS.
func ParseGregorianDate(s string) (GregorianDate, error) {
	y, m, d, err := splitDate(s)
	if err != nil {
		return GregorianDate{}, err
	}
	if m < 1 || m > 12 || d < 1 || d > gregorianDaysInMonth(y, m) {
		return GregorianDate{}, &InvalidDateError{Calendar: CalendarAD, Year: y, Month: m, Day: d}
	}
	return GregorianDate{Year: y, Month: m, Day: d}, nil
}

// splitDate accepts exactly three digit groups joined by one kind of
// separator, '-' or '/'.
func splitDate(s string) (year, month, day int, err error) {
	s = strings.TrimSpace(s)
	sep := "-"
	if !strings.Contains(s, sep) {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	var vals [3]int
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return 0, 0, 0, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
		}
		vals[i] = n
	}
	return vals[0], vals[1], vals[2], nil
}
