package bsdate_test

import (
	"testing"
	"time"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var lastADDate = time.Date(bsdate.EndADYear-1, time.December, 31, 0, 0, 0, 0, time.UTC)

func epochTime() time.Time {
	return time.Date(bsdate.StartADYear, time.Month(bsdate.StartADMonth), bsdate.StartADDay, 0, 0, 0, 0, time.UTC)
}

// eachADDay calls fn for every convertible AD day, epoch through the last
// day of the AD range.
func eachADDay(fn func(t time.Time)) {
	for t := epochTime(); !t.After(lastADDate); t = t.AddDate(0, 0, 1) {
		fn(t)
	}
}

// =============================================================================
// KNOWN DATES
// =============================================================================

func TestConvert_KnownDates(t *testing.T) {
	cases := []struct {
		bs bsdate.NepaliDate
		ad bsdate.GregorianDate
	}{
		{bsdate.NepaliDate{Year: 2000, Month: 1, Day: 1}, bsdate.GregorianDate{Year: 1943, Month: 4, Day: 14}},
		{bsdate.NepaliDate{Year: 2000, Month: 12, Day: 31}, bsdate.GregorianDate{Year: 1944, Month: 4, Day: 12}},
		{bsdate.NepaliDate{Year: 2050, Month: 12, Day: 30}, bsdate.GregorianDate{Year: 1994, Month: 4, Day: 12}},
		{bsdate.NepaliDate{Year: 2062, Month: 5, Day: 31}, bsdate.GregorianDate{Year: 2005, Month: 9, Day: 16}},
		{bsdate.NepaliDate{Year: 2080, Month: 9, Day: 1}, bsdate.GregorianDate{Year: 2023, Month: 12, Day: 17}},
		{bsdate.NepaliDate{Year: 2080, Month: 9, Day: 16}, bsdate.GregorianDate{Year: 2024, Month: 1, Day: 1}},
		{bsdate.NepaliDate{Year: 2081, Month: 1, Day: 1}, bsdate.GregorianDate{Year: 2024, Month: 4, Day: 13}},
		{bsdate.NepaliDate{Year: 2081, Month: 6, Day: 15}, bsdate.GregorianDate{Year: 2024, Month: 10, Day: 1}},
		{bsdate.NepaliDate{Year: 2082, Month: 1, Day: 1}, bsdate.GregorianDate{Year: 2025, Month: 4, Day: 14}},
		{bsdate.NepaliDate{Year: 2090, Month: 9, Day: 16}, bsdate.GregorianDate{Year: 2033, Month: 12, Day: 31}},
	}

	for _, tc := range cases {
		t.Run(tc.bs.String(), func(t *testing.T) {
			ad, err := bsdate.BSToAD(tc.bs.Year, tc.bs.Month, tc.bs.Day)
			require.NoError(t, err)
			assert.Equal(t, tc.ad, ad)

			bs, err := bsdate.ADToBS(tc.ad.Year, tc.ad.Month, tc.ad.Day)
			require.NoError(t, err)
			assert.Equal(t, tc.bs, bs)
		})
	}
}

func TestBSToAD_EpochAnchor(t *testing.T) {
	ad, err := bsdate.BSToAD(bsdate.StartBSYear, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, bsdate.GregorianDate{Year: bsdate.StartADYear, Month: bsdate.StartADMonth, Day: bsdate.StartADDay}, ad)
}

func TestBSToAD_LastTableDay(t *testing.T) {
	// EndBSYear is accepted even though its tail lies past the AD range.
	ad, err := bsdate.BSToAD(bsdate.EndBSYear, 12, bsdate.DaysInMonth(bsdate.EndBSYear, 12))
	require.NoError(t, err)
	assert.Equal(t, bsdate.GregorianDate{Year: 2034, Month: 4, Day: 13}, ad)
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestRoundTrip_ADToBSToAD(t *testing.T) {
	eachADDay(func(day time.Time) {
		g := bsdate.FromTime(day)
		bs, err := bsdate.ADToBS(g.Year, g.Month, g.Day)
		if !assert.NoError(t, err, "ADToBS(%s)", g) {
			return
		}
		back, err := bsdate.BSToAD(bs.Year, bs.Month, bs.Day)
		if assert.NoError(t, err, "BSToAD(%s)", bs) {
			assert.Equal(t, g, back)
		}
	})
}

func TestRoundTrip_BSToADToBS(t *testing.T) {
	checked := 0
	for year := bsdate.StartBSYear; year <= bsdate.EndBSYear; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= bsdate.DaysInMonth(year, month); day++ {
				ad, err := bsdate.BSToAD(year, month, day)
				require.NoError(t, err)
				if ad.Year >= bsdate.EndADYear {
					// Past the AD side of the supported span.
					_, err := bsdate.ADToBS(ad.Year, ad.Month, ad.Day)
					assert.True(t, bsdate.IsOutOfRange(err))
					continue
				}
				bs, err := bsdate.ADToBS(ad.Year, ad.Month, ad.Day)
				require.NoError(t, err)
				assert.Equal(t, bsdate.NepaliDate{Year: year, Month: month, Day: day}, bs)
				checked++
			}
		}
	}
	assert.Greater(t, checked, 33000)
}

// =============================================================================
// ORDERING AND MONTH LENGTHS
// =============================================================================

func TestADToBS_Monotonic(t *testing.T) {
	var prev bsdate.NepaliDate
	first := true
	eachADDay(func(day time.Time) {
		bs, err := bsdate.ADToBS(day.Year(), int(day.Month()), day.Day())
		require.NoError(t, err)
		if !first {
			assert.True(t, prev.Before(bs), "%s should precede %s", prev, bs)
		}
		prev, first = bs, false
	})
}

func TestDaysInMonth_Conformance(t *testing.T) {
	for year := bsdate.StartBSYear; year <= bsdate.EndBSYear; year++ {
		for month := 1; month <= 12; month++ {
			n := bsdate.DaysInMonth(year, month)
			assert.GreaterOrEqual(t, n, 29)
			assert.LessOrEqual(t, n, 32)

			nextYear, nextMonth := year, month+1
			if nextMonth > 12 {
				nextYear, nextMonth = year+1, 1
			}
			if nextYear > bsdate.EndBSYear {
				continue
			}

			last, err := bsdate.BSToAD(year, month, n)
			require.NoError(t, err)
			first, err := bsdate.BSToAD(nextYear, nextMonth, 1)
			require.NoError(t, err)
			assert.Equal(t, first, bsdate.FromTime(last.Time().AddDate(0, 0, 1)), "%d-%02d", year, month)
		}
	}
}

func TestDaysInMonth_LenientFallback(t *testing.T) {
	assert.Equal(t, 30, bsdate.DaysInMonth(1800, 5))
	assert.Equal(t, 30, bsdate.DaysInMonth(2091, 1))
	assert.Equal(t, 30, bsdate.DaysInMonth(2081, 0))
	assert.Equal(t, 30, bsdate.DaysInMonth(2081, 13))
	assert.Equal(t, 31, bsdate.DaysInMonth(2081, 1))
}

func TestDaysInYear(t *testing.T) {
	n, err := bsdate.DaysInYear(2081)
	require.NoError(t, err)
	assert.Equal(t, 366, n)

	_, err = bsdate.DaysInYear(1999)
	assert.True(t, bsdate.IsOutOfRange(err))
}

// =============================================================================
// BOUNDARIES AND ERRORS
// =============================================================================

func TestADToBS_Boundaries(t *testing.T) {
	bs, err := bsdate.ADToBS(bsdate.StartADYear, bsdate.StartADMonth, bsdate.StartADDay)
	require.NoError(t, err)
	assert.Equal(t, bsdate.NepaliDate{Year: bsdate.StartBSYear, Month: 1, Day: 1}, bs)

	_, err = bsdate.ADToBS(bsdate.EndADYear, 1, 1)
	var rangeErr *bsdate.OutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, bsdate.CalendarAD, rangeErr.Calendar)
	assert.Equal(t, bsdate.EndADYear-1, rangeErr.Max)
	assert.Contains(t, err.Error(), "1943-2033")

	_, err = bsdate.ADToBS(bsdate.StartADYear-1, 12, 31)
	assert.True(t, bsdate.IsOutOfRange(err))
}

func TestADToBS_BeforeEpochInFirstYear(t *testing.T) {
	// GIVEN: an AD date inside the AD range but before 1 Baisakh 2000
	// THEN: it maps to BS 1999, which has no table row
	_, err := bsdate.ADToBS(1943, 4, 13)
	var rangeErr *bsdate.OutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, bsdate.CalendarBS, rangeErr.Calendar)
	assert.Equal(t, 1999, rangeErr.Year)
	assert.Contains(t, err.Error(), "BS year 1999 is not supported")
}

func TestADToBS_NewYearBoundary(t *testing.T) {
	bs, err := bsdate.ADToBS(2024, 4, 12)
	require.NoError(t, err)
	assert.Equal(t, bsdate.NepaliDate{Year: 2080, Month: 12, Day: 30}, bs)

	bs, err = bsdate.ADToBS(2024, 4, 13)
	require.NoError(t, err)
	assert.Equal(t, bsdate.NepaliDate{Year: 2081, Month: 1, Day: 1}, bs)
}

func TestADToBS_InvalidDate(t *testing.T) {
	for _, tc := range [][3]int{{2023, 2, 29}, {2024, 13, 1}, {2024, 0, 1}, {2024, 4, 31}, {2024, 1, 0}} {
		_, err := bsdate.ADToBS(tc[0], tc[1], tc[2])
		assert.True(t, bsdate.IsInvalidDate(err), "%v", tc)
	}

	_, err := bsdate.ADToBS(2024, 2, 29)
	assert.NoError(t, err, "leap day is valid")
}

func TestBSToAD_Errors(t *testing.T) {
	_, err := bsdate.BSToAD(1999, 12, 30)
	assert.True(t, bsdate.IsOutOfRange(err))

	_, err = bsdate.BSToAD(2091, 1, 1)
	assert.True(t, bsdate.IsOutOfRange(err))

	_, err = bsdate.BSToAD(2081, 13, 1)
	assert.True(t, bsdate.IsInvalidDate(err))

	// Baisakh 2082 has 30 days.
	_, err = bsdate.BSToAD(2082, 1, 31)
	var invalid *bsdate.InvalidDateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, bsdate.CalendarBS, invalid.Calendar)
	assert.True(t, bsdate.IsClientError(err))
}
