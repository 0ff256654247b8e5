/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements store.Store (holidays and forex rates) using SQLite.

KEY TABLES:
  holidays:    one row per holiday day, keyed by ID
  forex_rates: one row per (currency, AD date)

DATES:
  AD and BS dates are stored as TEXT "YYYY-MM-DD" so they sort and compare
  lexically. The BS column is derived with bsdate on save and never parsed
  back through the converter.

DECIMALS:
  Buy/sell prices are stored as TEXT and parsed with decimal.NewFromString
  to avoid float rounding.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, with WAL journaling so readers do not
  block on the single writer.

USAGE:
  store, err := sqlite.New("./data/patro.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
	"github.com/patro/calendar-engine/store"
	"github.com/shopspring/decimal"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Holidays (one row per day)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL DEFAULT '',
		ad_date TEXT NOT NULL,
		bs_date TEXT NOT NULL,
		name TEXT NOT NULL,
		public BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_ad_date
		ON holidays(ad_date);
	CREATE INDEX IF NOT EXISTS idx_holidays_source
		ON holidays(source);

	-- Forex rates against NPR
	CREATE TABLE IF NOT EXISTS forex_rates (
		currency TEXT NOT NULL,
		ad_date TEXT NOT NULL,
		bs_date TEXT NOT NULL,
		unit INTEGER NOT NULL,
		buy TEXT NOT NULL,
		sell TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (currency, ad_date)
	);

	CREATE INDEX IF NOT EXISTS idx_forex_rates_date
		ON forex_rates(ad_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes every holiday and rate. The schema is kept.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"holidays", "forex_rates"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

const upsertHoliday = `
	INSERT INTO holidays (id, source, ad_date, bs_date, name, public, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		source = excluded.source,
		ad_date = excluded.ad_date,
		bs_date = excluded.bs_date,
		name = excluded.name,
		public = excluded.public
`

const selectHolidays = `SELECT id, source, ad_date, bs_date, name, public FROM holidays`

// SaveHoliday inserts or replaces a holiday.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return execHoliday(ctx, s.db, h)
}

// SaveHolidays saves holidays in a single transaction.
func (s *Store) SaveHolidays(ctx context.Context, hs []calendar.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, h := range hs {
		if err := execHoliday(ctx, tx, h); err != nil {
			return fmt.Errorf("failed to save holiday %s: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

func execHoliday(ctx context.Context, db interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, h calendar.Holiday) error {
	_, err := db.ExecContext(ctx, upsertHoliday,
		h.ID,
		h.Source,
		h.Date.String(),
		h.BSDate.String(),
		h.Name,
		h.Public,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListHolidays returns all holidays, optionally for one source.
func (s *Store) ListHolidays(ctx context.Context, source string) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if source == "" {
		return s.queryHolidays(ctx, selectHolidays+` ORDER BY ad_date ASC, name ASC`)
	}
	return s.queryHolidays(ctx, selectHolidays+` WHERE source = ? ORDER BY ad_date ASC, name ASC`, source)
}

// HolidaysBetween returns holidays with from <= date <= to.
func (s *Store) HolidaysBetween(ctx context.Context, from, to bsdate.GregorianDate) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryHolidays(ctx,
		selectHolidays+` WHERE ad_date BETWEEN ? AND ? ORDER BY ad_date ASC, name ASC`,
		from.String(), to.String())
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]calendar.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		var adStr, bsStr string
		if err := rows.Scan(&h.ID, &h.Source, &adStr, &bsStr, &h.Name, &h.Public); err != nil {
			return nil, err
		}
		if h.Date, err = parseADDate(adStr); err != nil {
			return nil, err
		}
		if h.BSDate, err = parseBSDate(bsStr); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// =============================================================================
// FOREX RATES
// =============================================================================

const selectRates = `SELECT currency, ad_date, bs_date, unit, buy, sell FROM forex_rates`

// SaveRate inserts or replaces the rate for (currency, date).
func (s *Store) SaveRate(ctx context.Context, r forex.Rate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO forex_rates (currency, ad_date, bs_date, unit, buy, sell, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(currency, ad_date) DO UPDATE SET
			bs_date = excluded.bs_date,
			unit = excluded.unit,
			buy = excluded.buy,
			sell = excluded.sell
	`

	_, err := s.db.ExecContext(ctx, query,
		r.Currency,
		r.Date.String(),
		r.BSDate.String(),
		r.Unit,
		r.Buy.String(),
		r.Sell.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// RatesOn returns all rates for an AD date.
func (s *Store) RatesOn(ctx context.Context, date bsdate.GregorianDate) ([]forex.Rate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRates(ctx, selectRates+` WHERE ad_date = ? ORDER BY currency ASC`, date.String())
}

// LatestRates returns the newest rate per currency.
func (s *Store) LatestRates(ctx context.Context) ([]forex.Rate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectRates + ` r
		WHERE ad_date = (SELECT MAX(ad_date) FROM forex_rates WHERE currency = r.currency)
		ORDER BY currency ASC`
	return s.queryRates(ctx, query)
}

func (s *Store) queryRates(ctx context.Context, query string, args ...any) ([]forex.Rate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []forex.Rate
	for rows.Next() {
		var r forex.Rate
		var adStr, bsStr, buy, sell string
		if err := rows.Scan(&r.Currency, &adStr, &bsStr, &r.Unit, &buy, &sell); err != nil {
			return nil, err
		}
		if r.Date, err = parseADDate(adStr); err != nil {
			return nil, err
		}
		if r.BSDate, err = parseBSDate(bsStr); err != nil {
			return nil, err
		}
		if r.Buy, err = decimal.NewFromString(buy); err != nil {
			return nil, fmt.Errorf("bad buy rate for %s: %w", r.Currency, err)
		}
		if r.Sell, err = decimal.NewFromString(sell); err != nil {
			return nil, fmt.Errorf("bad sell rate for %s: %w", r.Currency, err)
		}
		rates = append(rates, r)
	}

	return rates, rows.Err()
}

// Helper functions

// parseADDate and parseBSDate read back "YYYY-MM-DD" columns. Only the
// layout is checked; values were validated when they were written.
func parseADDate(s string) (bsdate.GregorianDate, error) {
	y, m, d, err := scanDate(s)
	return bsdate.GregorianDate{Year: y, Month: m, Day: d}, err
}

func parseBSDate(s string) (bsdate.NepaliDate, error) {
	y, m, d, err := scanDate(s)
	return bsdate.NepaliDate{Year: y, Month: m, Day: d}, err
}

func scanDate(s string) (y, m, d int, err error) {
	if _, err = fmt.Sscanf(strings.TrimSpace(s), "%d-%d-%d", &y, &m, &d); err != nil {
		return 0, 0, 0, fmt.Errorf("bad stored date %q: %w", s, err)
	}
	return y, m, d, nil
}
