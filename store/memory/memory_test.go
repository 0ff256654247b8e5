package memory_test

import (
	"context"
	"testing"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
	"github.com/patro/calendar-engine/store"
	"github.com/patro/calendar-engine/store/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ad(y, m, d int) bsdate.GregorianDate {
	return bsdate.GregorianDate{Year: y, Month: m, Day: d}
}

func TestMemory_Holidays(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	tihar, err := calendar.NewHoliday("manual", ad(2024, 11, 1), "Laxmi Puja", true)
	require.NoError(t, err)
	dashain, err := calendar.NewHoliday("feed", ad(2024, 10, 12), "Vijaya Dashami", true)
	require.NoError(t, err)
	require.NoError(t, m.SaveHolidays(ctx, []calendar.Holiday{tihar, dashain}))

	between, err := m.HolidaysBetween(ctx, ad(2024, 10, 12), ad(2024, 10, 31))
	require.NoError(t, err)
	require.Len(t, between, 1, "range is inclusive at both ends")
	assert.Equal(t, dashain.ID, between[0].ID)

	all, err := m.ListHolidays(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Vijaya Dashami", all[0].Name)

	manual, err := m.ListHolidays(ctx, "manual")
	require.NoError(t, err)
	assert.Len(t, manual, 1)

	require.NoError(t, m.DeleteHoliday(ctx, tihar.ID))
	assert.ErrorIs(t, m.DeleteHoliday(ctx, tihar.ID), store.ErrNotFound)
}

func TestMemory_LatestRates(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	for _, day := range []int{29, 30} {
		r, err := forex.NewRate("USD", 1, decimal.NewFromInt(int64(100+day)), decimal.NewFromInt(int64(101+day)), ad(2024, 9, day))
		require.NoError(t, err)
		require.NoError(t, m.SaveRate(ctx, r))
	}

	latest, err := m.LatestRates(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, ad(2024, 9, 30), latest[0].Date)

	on, err := m.RatesOn(ctx, ad(2024, 9, 29))
	require.NoError(t, err)
	require.Len(t, on, 1)
	assert.True(t, decimal.NewFromInt(129).Equal(on[0].Buy))
}
