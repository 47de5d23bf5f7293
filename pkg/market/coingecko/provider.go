package coingecko

import (
	"net/http"

	"coindeck/pkg/market"
)

// The Client maps CoinGecko responses straight into the normalized market
// types, so it satisfies market.Provider (and market.RateSource) directly.
var (
	_ market.Provider   = (*Client)(nil)
	_ market.RateSource = (*Client)(nil)
)

func init() {
	market.RegisterProvider("coingecko", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.MaxRetries > 0 {
			opts = append(opts, WithMaxRetries(cfg.MaxRetries))
		}
		return NewClient(opts...), nil
	})
}
