package market

// Instrument is one row of a ranked market snapshot. Rows are immutable once
// received; a refresh replaces the whole snapshot rather than patching rows.
type Instrument struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"` // USD, the reference currency
	Change24h    float64 `json:"price_change_percentage_24h"`
	Change7d     float64 `json:"price_change_percentage_7d"`
	MarketCap    float64 `json:"market_cap"`
	Rank         int     `json:"market_cap_rank"`
	Volume24h    float64 `json:"total_volume"`
	Image        string  `json:"image"`
	LastUpdated  string  `json:"last_updated"`

	High24h           *float64 `json:"high_24h,omitempty"`
	Low24h            *float64 `json:"low_24h,omitempty"`
	CirculatingSupply *float64 `json:"circulating_supply,omitempty"`
	TotalSupply       *float64 `json:"total_supply,omitempty"`
}

// HistoricalPoint is a single (timestamp, price) sample of an instrument's
// price series. Timestamps are Unix milliseconds, series are ordered oldest
// to newest.
type HistoricalPoint struct {
	TimestampMs int64   `json:"timestamp"`
	Price       float64 `json:"price"`
}

// GlobalStats aggregates market-wide figures.
type GlobalStats struct {
	TotalMarketCap  float64 `json:"total_market_cap"`
	TotalVolume24h  float64 `json:"total_24h_volume"`
	BTCDominance    float64 `json:"btc_dominance"`
	ActiveInstCount int     `json:"active_instruments"`
}
