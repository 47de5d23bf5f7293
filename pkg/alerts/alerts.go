// Package alerts owns user-defined price alerts and their evaluation
// against the latest market snapshot.
package alerts

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"coindeck/pkg/market"
	"coindeck/pkg/rates"
)

// Condition is the kind of trigger an alert watches for.
type Condition string

const (
	// Above fires when the current price reaches or exceeds the target.
	Above Condition = "above"
	// Below fires when the current price reaches or falls under the target.
	Below Condition = "below"
	// PercentageChange fires when the absolute 24h change percentage reaches
	// the target. The target field is interpreted as a percentage threshold
	// here, not a price — a deliberate dual use inherited from the source
	// behavior.
	PercentageChange Condition = "percentage_change"
)

var (
	// ErrInvalidTarget rejects non-positive targets at creation.
	ErrInvalidTarget = errors.New("alerts: target must be positive")
	// ErrUnknownCondition rejects unrecognized condition kinds.
	ErrUnknownCondition = errors.New("alerts: unknown condition")
)

// Alert is a user-defined condition on one instrument. It fires at most
// once: the evaluation pass that observes the condition true deactivates it
// in the same step, and deactivated alerts are skipped forever after.
type Alert struct {
	ID           string         `json:"id"`
	InstrumentID string         `json:"instrument_id"`
	Name         string         `json:"name"`
	Symbol       string         `json:"symbol"`
	TargetPrice  float64        `json:"target_price"`
	Condition    Condition      `json:"condition"`
	Active       bool           `json:"active"`
	Currency     rates.Currency `json:"currency"`
	CreatedAt    time.Time      `json:"created_at"`
	TriggeredAt  *time.Time     `json:"triggered_at,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// Notifier delivers a user-visible notification when an alert fires.
type Notifier interface {
	Notify(title, body, icon string)
}

// Lookup resolves an instrument id against the latest snapshot.
type Lookup func(id string) (market.Instrument, bool)

// Book owns the alerts collection.
type Book struct {
	mu     sync.Mutex
	alerts []Alert
	now    func() time.Time
	newID  func() string
}

// NewBook constructs an empty alerts book.
func NewBook() *Book {
	return &Book{now: time.Now, newID: uuid.NewString}
}

// SetClock injects a clock, used by tests.
func (b *Book) SetClock(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

// Restore replaces the book's contents, used when loading persisted state.
func (b *Book) Restore(alerts []Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append([]Alert(nil), alerts...)
}

// Add validates and records a new alert for the instrument. The alert
// starts active with a generated id.
func (b *Book) Add(inst market.Instrument, target float64, condition Condition, currency rates.Currency) (Alert, error) {
	if target <= 0 {
		return Alert{}, ErrInvalidTarget
	}
	switch condition {
	case Above, Below, PercentageChange:
	default:
		return Alert{}, ErrUnknownCondition
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	alert := Alert{
		ID:           b.newID(),
		InstrumentID: inst.ID,
		Name:         inst.Name,
		Symbol:       inst.Symbol,
		TargetPrice:  target,
		Condition:    condition,
		Active:       true,
		Currency:     currency,
		CreatedAt:    b.now(),
	}
	b.alerts = append(b.alerts, alert)
	return alert, nil
}

// Remove deletes an alert by id. Reports whether one was removed.
func (b *Book) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.alerts {
		if b.alerts[i].ID == id {
			b.alerts = append(b.alerts[:i], b.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Evaluate runs one evaluation pass over all active alerts. Alerts whose
// instrument is absent from the snapshot are skipped. A fired alert is
// deactivated in the same step that observes its condition, so firing is
// at-most-once; notify (when non-nil) is called once per fired alert.
// Returns the alerts fired by this pass.
func (b *Book) Evaluate(lookup Lookup, notify Notifier) []Alert {
	b.mu.Lock()
	defer b.mu.Unlock()

	var fired []Alert
	for i := range b.alerts {
		alert := &b.alerts[i]
		if !alert.Active {
			continue
		}
		inst, ok := lookup(alert.InstrumentID)
		if !ok {
			continue
		}

		triggered, message := evaluate(alert, inst)
		if !triggered {
			continue
		}

		now := b.now()
		alert.Active = false
		alert.TriggeredAt = &now
		alert.Message = message
		fired = append(fired, *alert)

		if notify != nil {
			notify.Notify(fmt.Sprintf("Price alert: %s", inst.Name), message, inst.Image)
		}
	}
	return fired
}

// Alerts returns a copy of the current rows.
func (b *Book) Alerts() []Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Alert(nil), b.alerts...)
}

func evaluate(alert *Alert, inst market.Instrument) (bool, string) {
	switch alert.Condition {
	case Above:
		if inst.CurrentPrice >= alert.TargetPrice {
			return true, fmt.Sprintf("%s is above %.2f", inst.Name, alert.TargetPrice)
		}
	case Below:
		if inst.CurrentPrice <= alert.TargetPrice {
			return true, fmt.Sprintf("%s is below %.2f", inst.Name, alert.TargetPrice)
		}
	case PercentageChange:
		if math.Abs(inst.Change24h) >= alert.TargetPrice {
			return true, fmt.Sprintf("%s moved %.2f%% in 24h", inst.Name, inst.Change24h)
		}
	}
	return false, ""
}
