package market

import "context"

// Provider exposes a raw, source-specific market data feed. Implementations
// map their upstream wire format into the normalized types of this package
// and propagate transport failures to the caller; degraded-mode policies
// (fallback datasets, memoization) live in the Gateway wrapper.
type Provider interface {
	// TopInstruments returns up to limit instruments ranked by market
	// capitalization descending.
	TopInstruments(ctx context.Context, limit int) ([]Instrument, error)
	// Instrument returns a single instrument by its source identifier.
	Instrument(ctx context.Context, id string) (*Instrument, error)
	// History returns the price series for an instrument over the lookback
	// window, ordered by time ascending.
	History(ctx context.Context, id string, days int) ([]HistoricalPoint, error)
	// Search resolves a free-text query into matching instruments.
	Search(ctx context.Context, query string) ([]Instrument, error)
	// GlobalStats returns aggregate market figures.
	GlobalStats(ctx context.Context) (*GlobalStats, error)
}

// RateSource is an optional interface for providers that can also quote a
// reference exchange rate (units of vs per USD).
type RateSource interface {
	USDRate(ctx context.Context, vs string) (float64, error)
}
