package api

import (
	"context"
	"testing"
	"time"

	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/internal/logger"
	"github.com/patro/calendar-engine/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayScheduler_SeedsCurrentYearOnce(t *testing.T) {
	// GIVEN: an empty store in Kartik 2081
	s := memory.New()
	sched := NewHolidayScheduler(s, logger.Nop())
	sched.now = func() time.Time { return testNow }
	ctx := context.Background()

	// WHEN: the check runs twice
	first := sched.RunNow(ctx)
	second := sched.RunNow(ctx)

	// THEN: 2081 is seeded on the first run only
	assert.Equal(t, []int{2081}, first)
	assert.Empty(t, second)

	stored, err := s.ListHolidays(ctx, calendar.NationalSource)
	require.NoError(t, err)
	expected, err := calendar.NationalHolidays(2081)
	require.NoError(t, err)
	assert.Len(t, stored, len(expected))
}

func TestHolidayScheduler_SeedsNextYearInChaitra(t *testing.T) {
	// GIVEN: 2024-04-01 is Chaitra 19, 2080
	s := memory.New()
	sched := NewHolidayScheduler(s, logger.Nop())
	sched.now = func() time.Time { return time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC) }

	// WHEN: the check runs
	seeded := sched.RunNow(context.Background())

	// THEN: both 2080 and 2081 are seeded
	assert.Equal(t, []int{2080, 2081}, seeded)
}

func TestHolidayScheduler_OutsideTable(t *testing.T) {
	sched := NewHolidayScheduler(memory.New(), nil)
	sched.now = func() time.Time { return time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC) }

	assert.Empty(t, sched.RunNow(context.Background()))
}

func TestHolidayScheduler_StartStop(t *testing.T) {
	s := memory.New()
	sched := NewHolidayScheduler(s, logger.Nop())
	sched.now = func() time.Time { return testNow }
	sched.CheckInterval = time.Hour

	sched.Start()
	sched.Stop()

	// The immediate check on start has completed by the time Stop returns.
	stored, err := s.ListHolidays(context.Background(), calendar.NationalSource)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	// Stopping twice is harmless
	sched.Stop()
}

func TestHolidayScheduler_Disabled(t *testing.T) {
	s := memory.New()
	sched := NewHolidayScheduler(s, logger.Nop())
	sched.Enabled = false

	sched.Start()
	sched.Stop()

	stored, err := s.ListHolidays(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
