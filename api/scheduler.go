/*
scheduler.go - Automated national holiday seeding

PURPOSE:
  Periodically makes sure the fixed-date national holidays of the current
  BS year are stored, and during Chaitra also those of the coming year, so
  month views around Nepali New Year are never empty.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Detects BS years with no "national" holidays stored
  - Skips years already seeded
  - Seeding is idempotent: holiday IDs are derived from the date

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewHolidayScheduler(store, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: AddDefaultHolidays endpoint (manual seeding)
  - calendar/national.go: NationalHolidays
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/internal/logger"
	"github.com/patro/calendar-engine/store"
)

// lastMonth is Chaitra; the next year is seeded ahead during it.
const lastMonth = 12

// HolidayScheduler seeds national holidays as BS years roll over.
type HolidayScheduler struct {
	Store         store.HolidayStore
	Logger        *logger.Logger
	CheckInterval time.Duration
	Enabled       bool

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewHolidayScheduler creates a new scheduler.
func NewHolidayScheduler(s store.HolidayStore, log *logger.Logger) *HolidayScheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &HolidayScheduler{
		Store:         s,
		Logger:        log.WithComponent("scheduler"),
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		now:           time.Now,
	}
}

// Start begins the scheduler.
func (hs *HolidayScheduler) Start() {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if !hs.Enabled {
		hs.Logger.Info("Scheduler disabled, not starting")
		return
	}
	if hs.ticker != nil {
		return
	}

	hs.ticker = time.NewTicker(hs.CheckInterval)
	hs.stop = make(chan struct{})
	hs.wg.Add(1)

	go hs.run()

	hs.Logger.Infow("Scheduler started", "check_interval", hs.CheckInterval.String())
}

// Stop stops the scheduler and waits for a running check to finish.
func (hs *HolidayScheduler) Stop() {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if hs.ticker != nil {
		hs.ticker.Stop()
		close(hs.stop)
		hs.wg.Wait()
		hs.ticker = nil
		hs.Logger.Info("Scheduler stopped")
	}
}

func (hs *HolidayScheduler) run() {
	defer hs.wg.Done()

	// Run immediately on start
	hs.RunNow(context.Background())

	for {
		select {
		case <-hs.ticker.C:
			hs.RunNow(context.Background())
		case <-hs.stop:
			return
		}
	}
}

// RunNow performs one check and returns the BS years it seeded.
func (hs *HolidayScheduler) RunNow(ctx context.Context) []int {
	today, err := bsdate.Today(hs.now())
	if err != nil {
		hs.Logger.Warnw("Cannot place today in the BS calendar", "error", err)
		return nil
	}

	years := []int{today.Year}
	if today.Month == lastMonth && today.Year < bsdate.EndBSYear {
		years = append(years, today.Year+1)
	}

	existing, err := hs.Store.ListHolidays(ctx, calendar.NationalSource)
	if err != nil {
		hs.Logger.Errorw("Failed to list national holidays", "error", err)
		return nil
	}
	seeded := make(map[int]bool)
	for _, h := range existing {
		seeded[h.BSDate.Year] = true
	}

	var done []int
	for _, year := range years {
		if seeded[year] {
			continue
		}
		holidays, err := calendar.NationalHolidays(year)
		if err != nil {
			hs.Logger.Errorw("Failed to build national holidays", "year", year, "error", err)
			continue
		}
		if err := hs.Store.SaveHolidays(ctx, holidays); err != nil {
			hs.Logger.Errorw("Failed to save national holidays", "year", year, "error", err)
			continue
		}
		hs.Logger.Infow("Seeded national holidays", "year", year, "count", len(holidays))
		done = append(done, year)
	}
	return done
}
