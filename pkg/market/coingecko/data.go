package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"coindeck/pkg/market"
)

// ErrInstrumentNotFound indicates the requested id is not listed upstream.
var ErrInstrumentNotFound = errors.New("coingecko: instrument not found")

const (
	searchDetailLimit = 10
	vsCurrency        = "usd"
)

// TopInstruments fetches the ranked market snapshot.
func (c *Client) TopInstruments(ctx context.Context, limit int) ([]market.Instrument, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("coingecko: limit must be positive")
	}
	query := url.Values{
		"vs_currency":             {vsCurrency},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(limit)},
		"page":                    {"1"},
		"sparkline":               {"false"},
		"price_change_percentage": {"24h,7d"},
	}
	var rows []marketRow
	if err := c.doGet(ctx, "/coins/markets", query, &rows); err != nil {
		return nil, err
	}
	instruments := make([]market.Instrument, 0, len(rows))
	for _, row := range rows {
		instruments = append(instruments, row.toInstrument())
	}
	return instruments, nil
}

// Instrument fetches a single instrument's detail row.
func (c *Client) Instrument(ctx context.Context, id string) (*market.Instrument, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInstrumentNotFound
	}
	query := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"true"},
		"community_data": {"false"},
		"developer_data": {"false"},
		"sparkline":      {"false"},
	}
	var detail coinDetail
	if err := c.doGet(ctx, "/coins/"+url.PathEscape(id), query, &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" {
		return nil, ErrInstrumentNotFound
	}
	inst := detail.toInstrument()
	return &inst, nil
}

// History fetches the daily price series over the lookback window, ordered
// by time ascending.
func (c *Client) History(ctx context.Context, id string, days int) ([]market.HistoricalPoint, error) {
	if days <= 0 {
		return nil, fmt.Errorf("coingecko: days must be positive")
	}
	query := url.Values{
		"vs_currency": {vsCurrency},
		"days":        {strconv.Itoa(days)},
		"interval":    {"daily"},
	}
	var chart marketChart
	if err := c.doGet(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", query, &chart); err != nil {
		return nil, err
	}
	points := make([]market.HistoricalPoint, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		points = append(points, market.HistoricalPoint{
			TimestampMs: int64(pair[0]),
			Price:       pair[1],
		})
	}
	return points, nil
}

// Search resolves a free-text query into instrument rows. The search
// endpoint only returns ids, so matches are hydrated through /coins/markets.
func (c *Client) Search(ctx context.Context, query string) ([]market.Instrument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	var result searchResult
	if err := c.doGet(ctx, "/search", url.Values{"query": {query}}, &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, searchDetailLimit)
	for _, coin := range result.Coins {
		if len(ids) == searchDetailLimit {
			break
		}
		ids = append(ids, coin.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	detailQuery := url.Values{
		"vs_currency": {vsCurrency},
		"ids":         {strings.Join(ids, ",")},
		"order":       {"market_cap_desc"},
		"per_page":    {strconv.Itoa(searchDetailLimit)},
		"page":        {"1"},
		"sparkline":   {"false"},
	}
	var rows []marketRow
	if err := c.doGet(ctx, "/coins/markets", detailQuery, &rows); err != nil {
		return nil, err
	}
	instruments := make([]market.Instrument, 0, len(rows))
	for _, row := range rows {
		instruments = append(instruments, row.toInstrument())
	}
	return instruments, nil
}

// GlobalStats fetches market-wide aggregates.
func (c *Client) GlobalStats(ctx context.Context) (*market.GlobalStats, error) {
	var payload globalStats
	if err := c.doGet(ctx, "/global", nil, &payload); err != nil {
		return nil, err
	}
	return &market.GlobalStats{
		TotalMarketCap:  payload.Data.TotalMarketCap[vsCurrency],
		TotalVolume24h:  payload.Data.TotalVolume[vsCurrency],
		BTCDominance:    payload.Data.MarketCapPercentage["btc"],
		ActiveInstCount: payload.Data.ActiveCryptoCurrency,
	}, nil
}

// USDRate quotes the reference exchange rate: units of vs per one USD.
func (c *Client) USDRate(ctx context.Context, vs string) (float64, error) {
	vs = strings.ToLower(strings.TrimSpace(vs))
	if vs == "" {
		return 0, fmt.Errorf("coingecko: vs currency is required")
	}
	query := url.Values{
		"ids":           {"usd"},
		"vs_currencies": {vs},
	}
	var payload map[string]map[string]float64
	if err := c.doGet(ctx, "/simple/price", query, &payload); err != nil {
		return 0, err
	}
	rate, ok := payload["usd"][vs]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("coingecko: no %s rate in response", vs)
	}
	return rate, nil
}

func (r marketRow) toInstrument() market.Instrument {
	inst := market.Instrument{
		ID:                r.ID,
		Symbol:            r.Symbol,
		Name:              r.Name,
		CurrentPrice:      r.CurrentPrice,
		MarketCap:         r.MarketCap,
		Rank:              r.MarketCapRank,
		Image:             r.Image,
		LastUpdated:       r.LastUpdated,
		High24h:           r.High24h,
		Low24h:            r.Low24h,
		CirculatingSupply: r.CirculatingSupply,
		TotalSupply:       r.TotalSupply,
	}
	if r.Change24h != nil {
		inst.Change24h = *r.Change24h
	}
	if r.Change7dCurrency != nil {
		inst.Change7d = *r.Change7dCurrency
	}
	if r.TotalVolume != nil {
		inst.Volume24h = *r.TotalVolume
	}
	return inst
}

func (d coinDetail) toInstrument() market.Instrument {
	inst := market.Instrument{
		ID:                d.ID,
		Symbol:            d.Symbol,
		Name:              d.Name,
		CurrentPrice:      d.MarketData.CurrentPrice[vsCurrency],
		MarketCap:         d.MarketData.MarketCap[vsCurrency],
		Rank:              d.MarketCapRank,
		Volume24h:         d.MarketData.TotalVolume[vsCurrency],
		Image:             d.Image.Large,
		LastUpdated:       d.LastUpdated,
		CirculatingSupply: d.MarketData.CirculatingSupply,
		TotalSupply:       d.MarketData.TotalSupply,
	}
	if d.MarketData.Change24h != nil {
		inst.Change24h = *d.MarketData.Change24h
	}
	if d.MarketData.Change7d != nil {
		inst.Change7d = *d.MarketData.Change7d
	}
	if high, ok := d.MarketData.High24h[vsCurrency]; ok {
		inst.High24h = &high
	}
	if low, ok := d.MarketData.Low24h[vsCurrency]; ok {
		inst.Low24h = &low
	}
	return inst
}
