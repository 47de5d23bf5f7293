// Package rates maintains the exchange rate used to display USD-quoted
// prices in a secondary currency. One scalar rate per currency, refreshed
// opportunistically, never blocking or failing a read.
package rates

import (
	"context"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// Currency enumerates the display currencies.
type Currency string

const (
	// USD is the reference currency; source prices are natively quoted in it.
	USD Currency = "USD"
	EUR Currency = "EUR"
)

const (
	defaultEURRate = 0.92
	defaultMaxAge  = 5 * time.Minute
)

// Source quotes units of vs per one USD.
type Source interface {
	USDRate(ctx context.Context, vs string) (float64, error)
}

// Manager holds the last-known exchange rates. Rate refreshes at most every
// maxAge; a failed refresh silently keeps the previous value, so displayed
// conversions may lag the true rate by up to maxAge. That staleness bound is
// accepted, not an error state.
type Manager struct {
	mu         sync.RWMutex
	source     Source
	rates      map[Currency]float64
	lastUpdate time.Time
	maxAge     time.Duration
	now        func() time.Time
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithMaxAge overrides the staleness bound.
func WithMaxAge(maxAge time.Duration) ManagerOption {
	return func(m *Manager) {
		if maxAge > 0 {
			m.maxAge = maxAge
		}
	}
}

// WithClock injects a clock, used by tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a Manager. A nil source is allowed: the manager then
// serves the default rates forever.
func NewManager(source Source, opts ...ManagerOption) *Manager {
	m := &Manager{
		source: source,
		rates:  map[Currency]float64{EUR: defaultEURRate},
		maxAge: defaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rate returns the last-known rate for currency, refreshing it first when
// stale. USD always returns exactly 1. Refresh failures are logged and
// swallowed; the caller always gets a usable rate.
func (m *Manager) Rate(ctx context.Context, currency Currency) float64 {
	if currency == USD {
		return 1
	}

	m.mu.RLock()
	stale := m.now().Sub(m.lastUpdate) > m.maxAge
	m.mu.RUnlock()
	if stale {
		m.refresh(ctx, currency)
	}

	return m.current(currency)
}

// Convert translates amount between currencies using the last-known rate,
// pivoting through USD. It never refreshes: synchronous callers accept the
// staleness bound.
func (m *Manager) Convert(amount float64, from, to Currency) float64 {
	if from == to {
		return amount
	}

	usd := amount
	if from != USD {
		usd = amount / m.current(from)
	}
	if to == USD {
		return usd
	}
	return usd * m.current(to)
}

// LastUpdated reports when a refresh last succeeded. Zero until the first
// successful refresh.
func (m *Manager) LastUpdated() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUpdate
}

// Snapshot returns a copy of the current rate table.
func (m *Manager) Snapshot() map[Currency]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[Currency]float64, len(m.rates))
	for currency, rate := range m.rates {
		out[currency] = rate
	}
	return out
}

func (m *Manager) current(currency Currency) float64 {
	m.mu.RLock()
	rate := m.rates[currency]
	m.mu.RUnlock()
	if rate <= 0 {
		return defaultEURRate
	}
	return rate
}

func (m *Manager) refresh(ctx context.Context, currency Currency) {
	if m.source == nil {
		return
	}
	rate, err := m.source.USDRate(ctx, string(currency))
	if err != nil || rate <= 0 {
		logx.WithContext(ctx).Errorf("rates: refresh %s failed, keeping previous rate: %v", currency, err)
		return
	}
	m.mu.Lock()
	m.rates[currency] = rate
	m.lastUpdate = m.now()
	m.mu.Unlock()
}
