package coingecko

// marketRow mirrors one entry of the /coins/markets response.
type marketRow struct {
	ID               string   `json:"id"`
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	CurrentPrice     float64  `json:"current_price"`
	Change24h        *float64 `json:"price_change_percentage_24h"`
	Change7dCurrency *float64 `json:"price_change_percentage_7d_in_currency"`
	MarketCap        float64  `json:"market_cap"`
	MarketCapRank    int      `json:"market_cap_rank"`
	TotalVolume      *float64 `json:"total_volume"`
	Image            string   `json:"image"`
	LastUpdated      string   `json:"last_updated"`

	High24h           *float64 `json:"high_24h"`
	Low24h            *float64 `json:"low_24h"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"`
}

// coinDetail mirrors the subset of /coins/{id} consumed here.
type coinDetail struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
	LastUpdated   string `json:"last_updated"`
	Image         struct {
		Large string `json:"large"`
	} `json:"image"`
	MarketData struct {
		CurrentPrice      map[string]float64 `json:"current_price"`
		Change24h         *float64           `json:"price_change_percentage_24h"`
		Change7d          *float64           `json:"price_change_percentage_7d"`
		MarketCap         map[string]float64 `json:"market_cap"`
		TotalVolume       map[string]float64 `json:"total_volume"`
		High24h           map[string]float64 `json:"high_24h"`
		Low24h            map[string]float64 `json:"low_24h"`
		CirculatingSupply *float64           `json:"circulating_supply"`
		TotalSupply       *float64           `json:"total_supply"`
	} `json:"market_data"`
}

// marketChart mirrors /coins/{id}/market_chart. Each entry is a
// [timestamp_ms, value] pair.
type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// searchResult mirrors the /search response.
type searchResult struct {
	Coins []struct {
		ID string `json:"id"`
	} `json:"coins"`
}

// globalStats mirrors the /global response envelope.
type globalStats struct {
	Data struct {
		TotalMarketCap       map[string]float64 `json:"total_market_cap"`
		TotalVolume          map[string]float64 `json:"total_volume"`
		MarketCapPercentage  map[string]float64 `json:"market_cap_percentage"`
		ActiveCryptoCurrency int                `json:"active_cryptocurrencies"`
	} `json:"data"`
}
