// Package portfolio tracks simulated holdings with cost-basis weighted
// average accounting. It does not model lots, fees, or a realized versus
// unrealized split.
package portfolio

import (
	"errors"
	"sync"
	"time"

	"coindeck/pkg/market"
	"coindeck/pkg/rates"
)

var (
	// ErrInvalidAmount rejects non-positive amounts at creation.
	ErrInvalidAmount = errors.New("portfolio: amount must be positive")
	// ErrInvalidPrice rejects non-positive acquisition prices at creation.
	ErrInvalidPrice = errors.New("portfolio: price must be positive")
)

// Holding is a user-recorded position in one instrument. Derived fields are
// recomputed from the latest snapshot; the rest is owned by the user.
type Holding struct {
	InstrumentID  string         `json:"instrument_id"`
	Symbol        string         `json:"symbol"`
	Name          string         `json:"name"`
	Amount        float64        `json:"amount"`
	AveragePrice  float64        `json:"average_price"`
	CurrentValue  float64        `json:"current_value"`
	ProfitLoss    float64        `json:"profit_loss"`
	ProfitLossPct float64        `json:"profit_loss_pct"`
	Currency      rates.Currency `json:"currency"`
	AddedAt       time.Time      `json:"added_at"`
	Image         string         `json:"image"`
}

// Lookup resolves an instrument id against the latest snapshot.
type Lookup func(id string) (market.Instrument, bool)

// Book owns the holdings collection. At most one holding exists per
// instrument id; adding more of a held instrument merges into the existing
// row via a weighted-average cost update.
type Book struct {
	mu       sync.Mutex
	holdings []Holding
	now      func() time.Time
}

// NewBook constructs an empty holdings book.
func NewBook() *Book {
	return &Book{now: time.Now}
}

// SetClock injects a clock, used by tests.
func (b *Book) SetClock(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

// Restore replaces the book's contents, used when loading persisted state.
func (b *Book) Restore(holdings []Holding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.holdings = append([]Holding(nil), holdings...)
}

// Add records an acquisition of amount units at price for the given
// instrument. A fresh row is created for an unheld instrument; otherwise the
// existing row's average price becomes the amount-weighted mean of all
// contributed (amount, price) pairs. Derived fields are computed against the
// instrument's current price.
func (b *Book) Add(inst market.Instrument, amount, price float64, currency rates.Currency) (Holding, error) {
	if amount <= 0 {
		return Holding{}, ErrInvalidAmount
	}
	if price <= 0 {
		return Holding{}, ErrInvalidPrice
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.holdings {
		if b.holdings[i].InstrumentID != inst.ID {
			continue
		}
		existing := &b.holdings[i]
		totalAmount := existing.Amount + amount
		totalCost := existing.Amount*existing.AveragePrice + amount*price
		existing.Amount = totalAmount
		existing.AveragePrice = totalCost / totalAmount
		existing.derive(inst.CurrentPrice)
		return *existing, nil
	}

	holding := Holding{
		InstrumentID: inst.ID,
		Symbol:       inst.Symbol,
		Name:         inst.Name,
		Amount:       amount,
		AveragePrice: price,
		Currency:     currency,
		AddedAt:      b.now(),
		Image:        inst.Image,
	}
	holding.derive(inst.CurrentPrice)
	b.holdings = append(b.holdings, holding)
	return holding, nil
}

// Remove deletes the entire row for the instrument. Partial disposal is not
// supported. Reports whether a row was removed.
func (b *Book) Remove(instrumentID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.holdings {
		if b.holdings[i].InstrumentID == instrumentID {
			b.holdings = append(b.holdings[:i], b.holdings[i+1:]...)
			return true
		}
	}
	return false
}

// Revalue recomputes every holding's derived fields from the latest
// snapshot. A holding whose instrument is absent from the snapshot keeps its
// derived fields unchanged (stale but present, not an error). Calling twice
// against an unchanged snapshot yields identical results.
func (b *Book) Revalue(lookup Lookup) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.holdings {
		inst, ok := lookup(b.holdings[i].InstrumentID)
		if !ok {
			continue
		}
		b.holdings[i].derive(inst.CurrentPrice)
	}
}

// Holdings returns a copy of the current rows.
func (b *Book) Holdings() []Holding {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Holding(nil), b.holdings...)
}

// Totals aggregates the book's current value and absolute profit/loss.
func (b *Book) Totals() (value, profitLoss float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.holdings {
		value += b.holdings[i].CurrentValue
		profitLoss += b.holdings[i].ProfitLoss
	}
	return value, profitLoss
}

func (h *Holding) derive(currentPrice float64) {
	h.CurrentValue = h.Amount * currentPrice
	h.ProfitLoss = (currentPrice - h.AveragePrice) * h.Amount
	h.ProfitLossPct = (currentPrice - h.AveragePrice) / h.AveragePrice * 100
}
