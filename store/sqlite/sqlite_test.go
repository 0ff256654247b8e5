package sqlite_test

import (
	"context"
	"testing"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
	"github.com/patro/calendar-engine/store"
	"github.com/patro/calendar-engine/store/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ad(y, m, d int) bsdate.GregorianDate {
	return bsdate.GregorianDate{Year: y, Month: m, Day: d}
}

func holiday(t *testing.T, date bsdate.GregorianDate, name string) calendar.Holiday {
	h, err := calendar.NewHoliday("manual", date, name, true)
	require.NoError(t, err)
	return h
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestStore_SaveAndQueryHolidays(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dashain := holiday(t, ad(2024, 10, 12), "Vijaya Dashami")
	tihar := holiday(t, ad(2024, 11, 1), "Laxmi Puja")
	require.NoError(t, s.SaveHolidays(ctx, []calendar.Holiday{tihar, dashain}))

	got, err := s.HolidaysBetween(ctx, ad(2024, 10, 1), ad(2024, 10, 31))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dashain, got[0])
	assert.Equal(t, bsdate.NepaliDate{Year: 2081, Month: 6, Day: 26}, got[0].BSDate)

	all, err := s.ListHolidays(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Vijaya Dashami", all[0].Name, "ordered by date")

	none, err := s.ListHolidays(ctx, "other-feed")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_SaveHoliday_UpsertsByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h := holiday(t, ad(2024, 10, 12), "Dashami")
	require.NoError(t, s.SaveHoliday(ctx, h))

	h.Name = "Vijaya Dashami"
	h.Public = false
	require.NoError(t, s.SaveHoliday(ctx, h))

	all, err := s.ListHolidays(ctx, "manual")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Vijaya Dashami", all[0].Name)
	assert.False(t, all[0].Public)
}

func TestStore_DeleteHoliday(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h := holiday(t, ad(2024, 10, 12), "Vijaya Dashami")
	require.NoError(t, s.SaveHoliday(ctx, h))

	require.NoError(t, s.DeleteHoliday(ctx, h.ID))
	assert.ErrorIs(t, s.DeleteHoliday(ctx, h.ID), store.ErrNotFound)
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveHoliday(ctx, holiday(t, ad(2024, 10, 12), "Vijaya Dashami")))
	require.NoError(t, s.Reset(ctx))

	all, err := s.ListHolidays(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

// =============================================================================
// FOREX RATES
// =============================================================================

func rate(t *testing.T, currency string, date bsdate.GregorianDate, buy, sell string) forex.Rate {
	r, err := forex.NewRate(currency, 1, decimal.RequireFromString(buy), decimal.RequireFromString(sell), date)
	require.NoError(t, err)
	return r
}

func TestStore_Rates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRate(ctx, rate(t, "USD", ad(2024, 9, 30), "133.40", "134.00")))
	require.NoError(t, s.SaveRate(ctx, rate(t, "USD", ad(2024, 10, 1), "133.50", "134.10")))
	require.NoError(t, s.SaveRate(ctx, rate(t, "EUR", ad(2024, 9, 30), "148.70", "149.36")))

	on, err := s.RatesOn(ctx, ad(2024, 9, 30))
	require.NoError(t, err)
	require.Len(t, on, 2)
	assert.Equal(t, "EUR", on[0].Currency)
	assert.True(t, decimal.RequireFromString("149.36").Equal(on[0].Sell))

	latest, err := s.LatestRates(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "EUR", latest[0].Currency)
	assert.Equal(t, ad(2024, 10, 1), latest[1].Date)
	assert.Equal(t, bsdate.NepaliDate{Year: 2081, Month: 6, Day: 15}, latest[1].BSDate)
}

func TestStore_SaveRate_Replaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRate(ctx, rate(t, "USD", ad(2024, 10, 1), "133.50", "134.10")))
	require.NoError(t, s.SaveRate(ctx, rate(t, "USD", ad(2024, 10, 1), "133.60", "134.20")))

	on, err := s.RatesOn(ctx, ad(2024, 10, 1))
	require.NoError(t, err)
	require.Len(t, on, 1)
	assert.True(t, decimal.RequireFromString("133.60").Equal(on[0].Buy))
}
