// Package state owns the dashboard's shared application state: the latest
// market snapshot, the holdings and alerts collections, preferences and the
// chart selection. All mutation goes through Store methods, applied in
// arrival order under one mutex; consumers read through accessors or
// register an observer callback.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"

	"coindeck/pkg/alerts"
	"coindeck/pkg/market"
	"coindeck/pkg/portfolio"
	"coindeck/pkg/rates"
)

// ErrUnknownInstrument rejects operations that reference an instrument the
// latest snapshot does not carry.
var ErrUnknownInstrument = errors.New("state: instrument not in snapshot")

// SnapshotRecorder is an optional hook persisting refreshed market data to
// external stores.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, instruments []market.Instrument) error
	RecordGlobalStats(ctx context.Context, stats *market.GlobalStats) error
}

// Config enumerates Store dependencies.
type Config struct {
	Gateway  *market.Gateway
	Rates    *rates.Manager
	Notifier alerts.Notifier
	File     *FileStore
	Recorder SnapshotRecorder
	TopLimit int
	// ChartDays is the initial lookback window when no persisted state
	// overrides it.
	ChartDays int
}

// Store is the state-owning service.
type Store struct {
	gateway  *market.Gateway
	rates    *rates.Manager
	notifier alerts.Notifier
	file     *FileStore
	recorder SnapshotRecorder
	topLimit int

	mu          sync.Mutex
	instruments []market.Instrument
	byID        map[string]market.Instrument
	stats       *market.GlobalStats
	selectedID  string
	chartDays   int
	chart       []market.HistoricalPoint
	holdings    *portfolio.Book
	alertBook   *alerts.Book
	settings    Settings
	subscribers []func()
}

// NewStore wires a Store from its dependencies.
func NewStore(cfg Config) *Store {
	topLimit := cfg.TopLimit
	if topLimit <= 0 {
		topLimit = 50
	}
	chartDays := cfg.ChartDays
	if chartDays <= 0 {
		chartDays = 7
	}
	return &Store{
		gateway:   cfg.Gateway,
		rates:     cfg.Rates,
		notifier:  cfg.Notifier,
		file:      cfg.File,
		recorder:  cfg.Recorder,
		topLimit:  topLimit,
		byID:      make(map[string]market.Instrument),
		chartDays: chartDays,
		holdings:  portfolio.NewBook(),
		alertBook: alerts.NewBook(),
		settings:  DefaultSettings(),
	}
}

// Load restores the persisted state subset. Called once at startup, before
// the first refresh.
func (s *Store) Load() error {
	persisted, err := s.file.Load()
	if err != nil {
		return err
	}
	if persisted == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = persisted.Settings
	if s.settings.Currency == "" {
		s.settings = DefaultSettings()
	}
	s.holdings.Restore(persisted.Holdings)
	s.alertBook.Restore(persisted.Alerts)
	s.selectedID = persisted.SelectedID
	if persisted.ChartDays > 0 {
		s.chartDays = persisted.ChartDays
	}
	return nil
}

// SeedSnapshot installs a previously mirrored snapshot so the first render
// has data before the initial upstream refresh completes. Holdings are
// revalued against the seeded prices; alerts are not evaluated, the cached
// data may predate the current tick.
func (s *Store) SeedSnapshot(instruments []market.Instrument) {
	if len(instruments) == 0 {
		return
	}

	s.mu.Lock()
	s.instruments = instruments
	s.byID = make(map[string]market.Instrument, len(instruments))
	for _, inst := range instruments {
		s.byID[inst.ID] = inst
	}
	s.holdings.Revalue(portfolio.Lookup(s.lookupLocked()))
	s.mu.Unlock()

	s.publish()
}

// Refresh runs one tick of the dashboard pipeline: snapshot fetch, global
// stats fetch, portfolio revaluation and alert evaluation. The snapshot is
// replaced wholesale; a global-stats failure is logged and the previous
// value kept.
func (s *Store) Refresh(ctx context.Context) {
	instruments := s.gateway.TopInstruments(ctx, s.topLimit)

	stats, err := s.gateway.GlobalStats(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("state: global stats refresh failed: %v", err)
	}

	s.mu.Lock()
	s.instruments = instruments
	s.byID = make(map[string]market.Instrument, len(instruments))
	for _, inst := range instruments {
		s.byID[inst.ID] = inst
	}
	if stats != nil {
		s.stats = stats
	}

	lookup := s.lookupLocked()
	s.holdings.Revalue(portfolio.Lookup(lookup))

	var notify alerts.Notifier
	if s.settings.Notifications {
		notify = s.notifier
	}
	fired := s.alertBook.Evaluate(alerts.Lookup(lookup), notify)
	s.mu.Unlock()

	for _, alert := range fired {
		logx.WithContext(ctx).Infof("state: alert %s fired: %s", alert.ID, alert.Message)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordSnapshot(ctx, instruments); err != nil {
			logx.WithContext(ctx).Errorf("state: record snapshot: %v", err)
		}
		if stats != nil {
			if err := s.recorder.RecordGlobalStats(ctx, stats); err != nil {
				logx.WithContext(ctx).Errorf("state: record global stats: %v", err)
			}
		}
	}

	s.save()
	s.publish()
}

// SelectInstrument marks an instrument as selected and loads its chart
// series for the current window.
func (s *Store) SelectInstrument(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.byID[id]
	days := s.chartDays
	s.mu.Unlock()
	if !ok {
		return ErrUnknownInstrument
	}

	chart := s.gateway.History(ctx, id, days)

	s.mu.Lock()
	s.selectedID = id
	s.chart = chart
	s.mu.Unlock()

	s.save()
	s.publish()
	return nil
}

// SetChartWindow changes the lookback window and reloads the selected
// instrument's series, if any.
func (s *Store) SetChartWindow(ctx context.Context, days int) error {
	if days <= 0 {
		return errors.New("state: chart window must be positive")
	}

	s.mu.Lock()
	s.chartDays = days
	selected := s.selectedID
	s.mu.Unlock()

	if selected != "" {
		chart := s.gateway.History(ctx, selected, days)
		s.mu.Lock()
		s.chart = chart
		s.mu.Unlock()
	}

	s.save()
	s.publish()
	return nil
}

// AddHolding records an acquisition. Non-positive amounts or prices are
// rejected with no state change; an instrument absent from the snapshot
// makes the call a no-op.
func (s *Store) AddHolding(instrumentID string, amount, price float64) error {
	if amount <= 0 {
		return portfolio.ErrInvalidAmount
	}
	if price <= 0 {
		return portfolio.ErrInvalidPrice
	}

	s.mu.Lock()
	inst, ok := s.byID[instrumentID]
	currency := s.settings.Currency
	s.mu.Unlock()
	if !ok {
		logx.Debugf("state: add holding for unknown instrument %s skipped", instrumentID)
		return nil
	}

	if _, err := s.holdings.Add(inst, amount, price, currency); err != nil {
		return err
	}
	s.save()
	s.publish()
	return nil
}

// RemoveHolding deletes the entire position for an instrument.
func (s *Store) RemoveHolding(instrumentID string) {
	if s.holdings.Remove(instrumentID) {
		s.save()
		s.publish()
	}
}

// AddAlert validates and records a new alert for an instrument in the
// latest snapshot.
func (s *Store) AddAlert(instrumentID string, target float64, condition alerts.Condition) (alerts.Alert, error) {
	s.mu.Lock()
	inst, ok := s.byID[instrumentID]
	currency := s.settings.Currency
	s.mu.Unlock()
	if !ok {
		return alerts.Alert{}, ErrUnknownInstrument
	}

	alert, err := s.alertBook.Add(inst, target, condition, currency)
	if err != nil {
		return alerts.Alert{}, err
	}
	s.save()
	s.publish()
	return alert, nil
}

// RemoveAlert deletes an alert by id.
func (s *Store) RemoveAlert(id string) {
	if s.alertBook.Remove(id) {
		s.save()
		s.publish()
	}
}

// UpdateSettings applies a partial preferences update.
func (s *Store) UpdateSettings(patch SettingsPatch) error {
	if err := patch.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = s.settings.merge(patch)
	s.mu.Unlock()

	s.save()
	s.publish()
	return nil
}

// Subscribe registers an observer invoked after every applied mutation.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Instruments returns the latest snapshot.
func (s *Store) Instruments() []market.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]market.Instrument(nil), s.instruments...)
}

// Instrument resolves one row of the latest snapshot.
func (s *Store) Instrument(id string) (market.Instrument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.byID[id]
	return inst, ok
}

// GlobalStats returns the latest aggregate market figures, if any.
func (s *Store) GlobalStats() *market.GlobalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		return nil
	}
	stats := *s.stats
	return &stats
}

// SelectedInstrument returns the selected snapshot row, if one is selected
// and still present.
func (s *Store) SelectedInstrument() (market.Instrument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return market.Instrument{}, false
	}
	inst, ok := s.byID[s.selectedID]
	return inst, ok
}

// ChartData returns the loaded history series.
func (s *Store) ChartData() []market.HistoricalPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]market.HistoricalPoint(nil), s.chart...)
}

// ChartDays returns the active lookback window.
func (s *Store) ChartDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chartDays
}

// Holdings returns the current portfolio rows.
func (s *Store) Holdings() []portfolio.Holding {
	return s.holdings.Holdings()
}

// PortfolioTotals aggregates portfolio value and profit/loss.
func (s *Store) PortfolioTotals() (value, profitLoss float64) {
	return s.holdings.Totals()
}

// Alerts returns the current alert rows.
func (s *Store) Alerts() []alerts.Alert {
	return s.alertBook.Alerts()
}

// Settings returns the current preferences.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Rates exposes the conversion manager for display formatting.
func (s *Store) Rates() *rates.Manager {
	return s.rates
}

func (s *Store) lookupLocked() func(id string) (market.Instrument, bool) {
	byID := s.byID
	return func(id string) (market.Instrument, bool) {
		inst, ok := byID[id]
		return inst, ok
	}
}

func (s *Store) save() {
	st := PersistedState{}
	s.mu.Lock()
	st.Settings = s.settings
	st.SelectedID = s.selectedID
	st.ChartDays = s.chartDays
	s.mu.Unlock()
	st.Alerts = s.alertBook.Alerts()
	st.Holdings = s.holdings.Holdings()

	if err := s.file.Save(st); err != nil {
		logx.Errorf("state: persist failed: %v", err)
	}
}

func (s *Store) publish() {
	s.mu.Lock()
	subs := append(([]func())(nil), s.subscribers...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
