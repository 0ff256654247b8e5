/*
store.go - Persistence interfaces for holidays and forex rates

PURPOSE:
  Defines the boundary between the HTTP/CLI layers and the database.
  The converter core never touches storage; only its collaborators do.

KEY INTERFACES:
  HolidayStore: holiday CRUD plus calendar.HolidayCalendar lookups
  RateStore:    forex rates keyed by (currency, AD date)
  Store:        both of the above

UPSERT CONTRACT:
  Holidays are keyed by ID; saving an existing ID replaces it. Feed imports
  derive stable IDs, so re-importing the same feed is idempotent.
  Rates are keyed by (currency, AD date); the latest save wins.

IMPLEMENTATIONS:
  - store/sqlite: SQLite (production)
  - store/memory: in-memory (tests, dev)
*/
package store

import (
	"context"
	"errors"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// HolidayStore persists holidays.
type HolidayStore interface {
	calendar.HolidayCalendar

	// SaveHoliday inserts or replaces a holiday by ID.
	SaveHoliday(ctx context.Context, h calendar.Holiday) error

	// SaveHolidays saves all holidays atomically.
	SaveHolidays(ctx context.Context, hs []calendar.Holiday) error

	// DeleteHoliday removes a holiday. Returns ErrNotFound if absent.
	DeleteHoliday(ctx context.Context, id string) error

	// ListHolidays returns every holiday, optionally restricted to one source.
	ListHolidays(ctx context.Context, source string) ([]calendar.Holiday, error)
}

// RateStore persists forex rates.
type RateStore interface {
	// SaveRate inserts or replaces the rate for (currency, date).
	SaveRate(ctx context.Context, r forex.Rate) error

	// RatesOn returns all rates published on date, ordered by currency.
	RatesOn(ctx context.Context, date bsdate.GregorianDate) ([]forex.Rate, error)

	// LatestRates returns the most recent rate for each currency.
	LatestRates(ctx context.Context) ([]forex.Rate, error)
}

// Store is everything the API needs.
type Store interface {
	HolidayStore
	RateStore
}
