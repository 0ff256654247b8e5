/*
Package calendar builds BS month views and holds holiday data on top of the
bsdate conversion core.

PURPOSE:
  bsdate answers "which day is this in the other calendar". This package
  answers the questions a calendar page asks: what does Kartik 2081 look
  like as a grid, which days are holidays, how is a date written in Nepali.

SEE ALSO:
  - month.go: MonthView construction
  - ics.go: iCalendar import/export of holidays
  - format.go: month names and Devanagari digits
  - store/sqlite: persistent HolidayCalendar
*/
package calendar

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/patro/calendar-engine/bsdate"
)

// ErrHolidayNameRequired is returned when a holiday has an empty name.
var ErrHolidayNameRequired = errors.New("holiday name is required")

// Holiday is a named day, imported from a feed or entered by hand.
type Holiday struct {
	ID     string
	Source string // feed name, "manual" for API-created holidays
	Date   bsdate.GregorianDate
	BSDate bsdate.NepaliDate
	Name   string
	Public bool // public holiday: offices closed
}

// HolidayCalendar provides holiday lookup over an AD date range.
type HolidayCalendar interface {
	// HolidaysBetween returns holidays with from <= Date <= to, ordered by date.
	HolidaysBetween(ctx context.Context, from, to bsdate.GregorianDate) ([]Holiday, error)
}

// NoHolidays is a HolidayCalendar with no entries.
type NoHolidays struct{}

func (NoHolidays) HolidaysBetween(context.Context, bsdate.GregorianDate, bsdate.GregorianDate) ([]Holiday, error) {
	return nil, nil
}

// NewHoliday creates a holiday with a fresh ID and its BS date filled in.
func NewHoliday(source string, date bsdate.GregorianDate, name string, public bool) (Holiday, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Holiday{}, ErrHolidayNameRequired
	}
	bs, err := date.ToBS()
	if err != nil {
		return Holiday{}, err
	}
	return Holiday{
		ID:     uuid.NewString(),
		Source: source,
		Date:   date,
		BSDate: bs,
		Name:   name,
		Public: public,
	}, nil
}

// holidayID derives a stable ID so re-importing a feed updates rather than
// duplicates.
func holidayID(source, uid string, date bsdate.GregorianDate) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"/"+uid+"/"+date.String())).String()
}
