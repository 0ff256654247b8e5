package bsdate_test

import (
	"testing"
	"time"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNepaliDate(t *testing.T) {
	d, err := bsdate.ParseNepaliDate("2081-06-15")
	require.NoError(t, err)
	assert.Equal(t, bsdate.NepaliDate{Year: 2081, Month: 6, Day: 15}, d)

	d, err = bsdate.ParseNepaliDate("2081/6/15")
	require.NoError(t, err)
	assert.Equal(t, "2081-06-15", d.String())

	_, err = bsdate.ParseNepaliDate("2081-06")
	assert.True(t, bsdate.IsInvalidDate(err))

	_, err = bsdate.ParseNepaliDate("2081-xx-01")
	assert.True(t, bsdate.IsInvalidDate(err))

	_, err = bsdate.ParseNepaliDate("2082-01-31")
	assert.True(t, bsdate.IsInvalidDate(err))

	_, err = bsdate.ParseNepaliDate("2100-01-01")
	assert.True(t, bsdate.IsOutOfRange(err))
}

func TestParseGregorianDate(t *testing.T) {
	g, err := bsdate.ParseGregorianDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, bsdate.GregorianDate{Year: 2024, Month: 2, Day: 29}, g)

	_, err = bsdate.ParseGregorianDate("2023-02-29")
	assert.True(t, bsdate.IsInvalidDate(err))

	// Range is not checked at parse time.
	g, err = bsdate.ParseGregorianDate("2100-01-01")
	require.NoError(t, err)
	_, err = g.ToBS()
	assert.True(t, bsdate.IsOutOfRange(err))
}

func TestParseDate_RejectsMalformedInput(t *testing.T) {
	for _, s := range []string{
		"2024--04--13--",
		"2024-04-13-",
		"-2024-04-13",
		"2024//04/13",
		"2024-04/13",
		"2024-+4-13",
		"2024- 4-13",
		"",
	} {
		_, err := bsdate.ParseGregorianDate(s)
		assert.True(t, bsdate.IsInvalidDate(err), "AD %q", s)

		_, err = bsdate.ParseNepaliDate(s)
		assert.True(t, bsdate.IsInvalidDate(err), "BS %q", s)
	}
}

func TestNepaliDate_AddDays(t *testing.T) {
	start := bsdate.NepaliDate{Year: 2080, Month: 12, Day: 30}

	next, err := start.AddDays(1)
	require.NoError(t, err)
	assert.Equal(t, bsdate.NepaliDate{Year: 2081, Month: 1, Day: 1}, next)

	back, err := next.AddDays(-1)
	require.NoError(t, err)
	assert.Equal(t, start, back)

	_, err = bsdate.NepaliDate{Year: 2000, Month: 1, Day: 1}.AddDays(-1)
	assert.True(t, bsdate.IsOutOfRange(err))
}

func TestNepaliDate_Weekday(t *testing.T) {
	wd, err := bsdate.NepaliDate{Year: 2081, Month: 1, Day: 1}.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, wd)
}

func TestNepaliDate_Compare(t *testing.T) {
	a := bsdate.NepaliDate{Year: 2081, Month: 1, Day: 31}
	b := bsdate.NepaliDate{Year: 2081, Month: 2, Day: 1}
	c := bsdate.NepaliDate{Year: 2082, Month: 1, Day: 1}

	assert.True(t, a.Before(b))
	assert.True(t, c.After(b))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
}

func TestToday_UsesKathmanduTime(t *testing.T) {
	// 2024-04-12 18:30 UTC is already 2024-04-13 00:15 in Kathmandu.
	now := time.Date(2024, 4, 12, 18, 30, 0, 0, time.UTC)
	d, err := bsdate.Today(now)
	require.NoError(t, err)
	assert.Equal(t, bsdate.NepaliDate{Year: 2081, Month: 1, Day: 1}, d)
}
