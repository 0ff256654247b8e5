/*
convert.go - BS <-> AD conversion

PURPOSE:
  Deterministic, lossless conversion between Bikram Sambat and Gregorian
  dates over the span covered by calendarTable.

ALGORITHM:
  Both directions reduce a date to a whole-day offset from the epoch
  (AD 1943-04-14 == BS 2000-01-01) and rebuild the date in the other
  calendar from that offset.

  AD -> BS:
    1. Provisional BS year = AD year + 57.
    2. If the date falls before that year's 1 Baisakh, step back one year.
    3. Walk the 12 month lengths of the BS year to find month and day.

  BS -> AD:
    Sum the full years and months before the date, add (day - 1), and add
    that many days to the epoch with ordinary Gregorian carrying.

CONCURRENCY:
  Pure functions over read-only tables. Safe for any number of callers.

SEE ALSO:
  - table.go: month lengths and constants
  - date.go: NepaliDate and GregorianDate value types
*/
package bsdate

import "time"

var epoch = time.Date(StartADYear, time.Month(StartADMonth), StartADDay, 0, 0, 0, 0, time.UTC)

// epochOrdinal is the Gregorian ordinal of the epoch date.
var epochOrdinal = gregorianOrdinal(StartADYear, StartADMonth, StartADDay)

// ADToBS converts a Gregorian date to its Bikram Sambat equivalent.
// year must satisfy StartADYear <= year < EndADYear.
func ADToBS(year, month, day int) (NepaliDate, error) {
	if year < StartADYear || year >= EndADYear {
		return NepaliDate{}, adOutOfRange(year)
	}
	if month < 1 || month > 12 || day < 1 || day > gregorianDaysInMonth(year, month) {
		return NepaliDate{}, &InvalidDateError{Calendar: CalendarAD, Year: year, Month: month, Day: day}
	}

	offset := gregorianOrdinal(year, month, day) - epochOrdinal

	// BS New Year falls in mid April, so Jan..early April still belongs to
	// the previous BS year.
	bsYear := year + 57
	if offset < yearStart[bsYear-StartBSYear] {
		bsYear--
	}
	if bsYear < StartBSYear || bsYear > EndBSYear {
		return NepaliDate{}, bsOutOfRange(bsYear)
	}

	idx := bsYear - StartBSYear
	remaining := offset - yearStart[idx]
	for m, n := range calendarTable[idx] {
		if remaining < n {
			return NepaliDate{Year: bsYear, Month: m + 1, Day: remaining + 1}, nil
		}
		remaining -= n
	}
	return NepaliDate{}, bsOutOfRange(bsYear + 1)
}

// BSToAD converts a Bikram Sambat date to its Gregorian equivalent.
// year must satisfy StartBSYear <= year <= EndBSYear.
func BSToAD(year, month, day int) (GregorianDate, error) {
	if year < StartBSYear || year > EndBSYear {
		return GregorianDate{}, bsOutOfRange(year)
	}
	idx := year - StartBSYear
	if month < 1 || month > 12 || day < 1 || day > calendarTable[idx][month-1] {
		return GregorianDate{}, &InvalidDateError{Calendar: CalendarBS, Year: year, Month: month, Day: day}
	}

	offset := yearStart[idx]
	for _, n := range calendarTable[idx][:month-1] {
		offset += n
	}
	offset += day - 1

	return FromTime(epoch.AddDate(0, 0, offset)), nil
}

// DaysInMonth returns the length of a BS month. Out of range years or
// months yield 30 rather than an error so grid layouts never fail.
func DaysInMonth(year, month int) int {
	if year < StartBSYear || year > EndBSYear || month < 1 || month > 12 {
		return 30
	}
	return calendarTable[year-StartBSYear][month-1]
}

// DaysInYear returns the total length of a BS year.
func DaysInYear(year int) (int, error) {
	if year < StartBSYear || year > EndBSYear {
		return 0, bsOutOfRange(year)
	}
	idx := year - StartBSYear
	return yearStart[idx+1] - yearStart[idx], nil
}

// =============================================================================
// GREGORIAN HELPERS
// =============================================================================

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func gregorianDaysInMonth(year, month int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return gregorianMonthDays[month-1]
}

// dayOfYear counts days from 1 January through the given day, inclusive.
func dayOfYear(year, month, day int) int {
	total := day
	for _, n := range gregorianMonthDays[:month-1] {
		total += n
	}
	if month > 2 && isLeapYear(year) {
		total++
	}
	return total
}

// gregorianOrdinal is the proleptic Gregorian day number, 0001-01-01 == 1.
func gregorianOrdinal(year, month, day int) int {
	y := year - 1
	return 365*y + y/4 - y/100 + y/400 + dayOfYear(year, month, day)
}
