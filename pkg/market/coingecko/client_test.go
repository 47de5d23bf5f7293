package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithMaxRetries(0))
}

func TestTopInstruments(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/markets", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "usd", q.Get("vs_currency"))
		require.Equal(t, "market_cap_desc", q.Get("order"))
		require.Equal(t, "2", q.Get("per_page"))
		require.Equal(t, "24h,7d", q.Get("price_change_percentage"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":67500.12,
			 "price_change_percentage_24h":2.5,"price_change_percentage_7d_in_currency":-1.2,
			 "market_cap":1330000000000,"market_cap_rank":1,"total_volume":31000000000,
			 "image":"https://img/btc.png","last_updated":"2024-06-01T12:00:00Z",
			 "high_24h":68000,"low_24h":66000,"circulating_supply":19700000,"total_supply":21000000},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3200,
			 "price_change_percentage_24h":null,"market_cap":385000000000,"market_cap_rank":2,
			 "total_volume":null,"image":"https://img/eth.png","last_updated":"2024-06-01T12:00:00Z"}
		]`))
	})

	instruments, err := client.TopInstruments(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, instruments, 2)

	btc := instruments[0]
	require.Equal(t, "bitcoin", btc.ID)
	require.Equal(t, 67500.12, btc.CurrentPrice)
	require.Equal(t, 2.5, btc.Change24h)
	require.Equal(t, -1.2, btc.Change7d)
	require.Equal(t, 1, btc.Rank)
	require.NotNil(t, btc.High24h)
	require.Equal(t, 68000.0, *btc.High24h)

	// Null wire fields map to zero values, not errors.
	eth := instruments[1]
	require.Zero(t, eth.Change24h)
	require.Zero(t, eth.Volume24h)
	require.Nil(t, eth.High24h)
}

func TestTopInstrumentsInvalidLimit(t *testing.T) {
	client := NewClient()
	_, err := client.TopInstruments(context.Background(), 0)
	require.Error(t, err)
}

func TestInstrumentDetail(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("market_data"))
		_, _ = w.Write([]byte(`{
			"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1,
			"last_updated":"2024-06-01T12:00:00Z",
			"image":{"large":"https://img/btc.png"},
			"market_data":{
				"current_price":{"usd":67500.12},
				"price_change_percentage_24h":2.5,
				"price_change_percentage_7d":-1.2,
				"market_cap":{"usd":1330000000000},
				"total_volume":{"usd":31000000000},
				"high_24h":{"usd":68000},
				"low_24h":{"usd":66000},
				"circulating_supply":19700000,
				"total_supply":21000000
			}
		}`))
	})

	inst, err := client.Instrument(context.Background(), "bitcoin")
	require.NoError(t, err)
	require.Equal(t, "bitcoin", inst.ID)
	require.Equal(t, 67500.12, inst.CurrentPrice)
	require.Equal(t, "https://img/btc.png", inst.Image)
	require.NotNil(t, inst.Low24h)
	require.Equal(t, 66000.0, *inst.Low24h)
}

func TestInstrumentNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Instrument(context.Background(), "no-such-coin")
	require.ErrorIs(t, err, ErrInstrumentNotFound)
}

func TestHistory(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("days"))
		require.Equal(t, "daily", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(`{"prices":[[1717200000000,67000.5],[1717286400000,67500.2]]}`))
	})

	points, err := client.History(context.Background(), "bitcoin", 7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, int64(1717200000000), points[0].TimestampMs)
	require.Equal(t, 67000.5, points[0].Price)
}

func TestSearchHydratesMatches(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			require.Equal(t, "bit", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{"coins":[{"id":"bitcoin"},{"id":"bitcoin-cash"}]}`))
		case "/coins/markets":
			require.Equal(t, "bitcoin,bitcoin-cash", r.URL.Query().Get("ids"))
			_, _ = w.Write([]byte(`[
				{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":67500,"market_cap_rank":1},
				{"id":"bitcoin-cash","symbol":"bch","name":"Bitcoin Cash","current_price":450,"market_cap_rank":18}
			]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	instruments, err := client.Search(context.Background(), "bit")
	require.NoError(t, err)
	require.Len(t, instruments, 2)
	require.Equal(t, "bitcoin-cash", instruments[1].ID)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient()
	instruments, err := client.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Nil(t, instruments)
}

func TestGlobalStats(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/global", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{
			"total_market_cap":{"usd":2500000000000},
			"total_volume":{"usd":95000000000},
			"market_cap_percentage":{"btc":53.2,"eth":17.1},
			"active_cryptocurrencies":10234
		}}`))
	})

	stats, err := client.GlobalStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2.5e12, stats.TotalMarketCap)
	require.Equal(t, 53.2, stats.BTCDominance)
	require.Equal(t, 10234, stats.ActiveInstCount)
}

func TestUSDRate(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "usd", r.URL.Query().Get("ids"))
		require.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"usd":{"eur":0.93}}`))
	})

	rate, err := client.USDRate(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, 0.93, rate)
}

func TestDoGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"total_market_cap":{"usd":1},"total_volume":{"usd":1},"market_cap_percentage":{"btc":50},"active_cryptocurrencies":1}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(3))
	stats, err := client.GlobalStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Equal(t, int32(3), calls.Load())
}

func TestDoGetExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(1))
	_, err := client.GlobalStats(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(2), calls.Load())
}
