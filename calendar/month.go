package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/patro/calendar-engine/bsdate"
)

// Day is a single cell of a BS month grid.
type Day struct {
	BS       bsdate.NepaliDate
	AD       bsdate.GregorianDate
	Weekday  time.Weekday
	Holidays []Holiday
}

// IsHoliday reports whether offices are closed: every Saturday plus any
// public holiday.
func (d Day) IsHoliday() bool {
	if d.Weekday == time.Saturday {
		return true
	}
	for _, h := range d.Holidays {
		if h.Public {
			return true
		}
	}
	return false
}

// MonthView is a BS month laid out for a 7-column, Sunday-first grid.
type MonthView struct {
	Year    int
	Month   int
	Leading int // empty cells before day 1
	Days    []Day
}

// First and Last return the AD dates spanned by the month.
func (m MonthView) First() bsdate.GregorianDate { return m.Days[0].AD }
func (m MonthView) Last() bsdate.GregorianDate  { return m.Days[len(m.Days)-1].AD }

// Month builds the grid for a BS month. Holidays may be nil.
func Month(ctx context.Context, year, month int, holidays HolidayCalendar) (MonthView, error) {
	first, err := bsdate.BSToAD(year, month, 1)
	if err != nil {
		return MonthView{}, err
	}
	if holidays == nil {
		holidays = NoHolidays{}
	}

	n := bsdate.DaysInMonth(year, month)
	start := first.Time()
	last := bsdate.FromTime(start.AddDate(0, 0, n-1))

	found, err := holidays.HolidaysBetween(ctx, first, last)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	byDate := make(map[bsdate.GregorianDate][]Holiday, len(found))
	for _, h := range found {
		byDate[h.Date] = append(byDate[h.Date], h)
	}

	view := MonthView{
		Year:    year,
		Month:   month,
		Leading: int(start.Weekday()),
		Days:    make([]Day, n),
	}
	for i := range view.Days {
		t := start.AddDate(0, 0, i)
		ad := bsdate.FromTime(t)
		view.Days[i] = Day{
			BS:       bsdate.NepaliDate{Year: year, Month: month, Day: i + 1},
			AD:       ad,
			Weekday:  t.Weekday(),
			Holidays: byDate[ad],
		}
	}
	return view, nil
}
