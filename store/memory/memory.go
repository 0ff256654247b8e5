// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/patro/calendar-engine/bsdate"
	"github.com/patro/calendar-engine/calendar"
	"github.com/patro/calendar-engine/forex"
	"github.com/patro/calendar-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	holidays map[string]calendar.Holiday
	rates    map[rateKey]forex.Rate
}

type rateKey struct {
	Currency string
	Date     bsdate.GregorianDate
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		holidays: make(map[string]calendar.Holiday),
		rates:    make(map[rateKey]forex.Rate),
	}
}

func (m *Memory) SaveHoliday(_ context.Context, h calendar.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) SaveHolidays(_ context.Context, hs []calendar.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range hs {
		m.holidays[h.ID] = h
	}
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, source string) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []calendar.Holiday
	for _, h := range m.holidays {
		if source == "" || h.Source == source {
			out = append(out, h)
		}
	}
	sortHolidays(out)
	return out, nil
}

func (m *Memory) HolidaysBetween(_ context.Context, from, to bsdate.GregorianDate) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []calendar.Holiday
	for _, h := range m.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	sortHolidays(out)
	return out, nil
}

func (m *Memory) SaveRate(_ context.Context, r forex.Rate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[rateKey{r.Currency, r.Date}] = r
	return nil
}

func (m *Memory) RatesOn(_ context.Context, date bsdate.GregorianDate) ([]forex.Rate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []forex.Rate
	for k, r := range m.rates {
		if k.Date == date {
			out = append(out, r)
		}
	}
	sortRates(out)
	return out, nil
}

func (m *Memory) LatestRates(_ context.Context) ([]forex.Rate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[string]forex.Rate)
	for _, r := range m.rates {
		if cur, ok := latest[r.Currency]; !ok || r.Date.After(cur.Date) {
			latest[r.Currency] = r
		}
	}
	out := make([]forex.Rate, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sortRates(out)
	return out, nil
}

func sortHolidays(hs []calendar.Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		if c := hs[i].Date.Compare(hs[j].Date); c != 0 {
			return c < 0
		}
		return hs[i].Name < hs[j].Name
	})
}

func sortRates(rs []forex.Rate) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Currency < rs[j].Currency })
}
