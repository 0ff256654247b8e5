package calendar

import (
	"github.com/patro/calendar-engine/bsdate"
)

// NationalSource is the Source of holidays created by NationalHolidays.
const NationalSource = "national"

// nationalHoliday is a public holiday observed on the same BS day every year.
type nationalHoliday struct {
	Month int
	Day   int
	Name  string
}

// Lunar festivals (Dashain, Tihar, Holi, ...) move every year and come from
// imported feeds instead.
var nationalHolidays = []nationalHoliday{
	{1, 1, "Nepali New Year"},
	{1, 11, "Loktantra Diwas"},
	{2, 15, "Ganatantra Diwas"},
	{6, 3, "Constitution Day"},
	{9, 27, "Prithvi Jayanti"},
	{10, 16, "Martyrs' Day"},
	{11, 7, "Prajatantra Diwas"},
}

// NationalHolidays returns the fixed-date public holidays of a BS year.
// IDs are derived from the date, so seeding the same year twice is an
// update rather than a duplicate.
func NationalHolidays(year int) ([]Holiday, error) {
	holidays := make([]Holiday, 0, len(nationalHolidays))
	for _, nh := range nationalHolidays {
		bs := bsdate.NepaliDate{Year: year, Month: nh.Month, Day: nh.Day}
		ad, err := bs.ToAD()
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, Holiday{
			ID:     holidayID(NationalSource, nh.Name, ad),
			Source: NationalSource,
			Date:   ad,
			BSDate: bs,
			Name:   nh.Name,
			Public: true,
		})
	}
	return holidays, nil
}
