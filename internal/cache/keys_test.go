package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coindeck/internal/config"
)

func TestKeyShapes(t *testing.T) {
	require.Equal(t, "coindeck:price:latest:bitcoin", PriceLatestKey("bitcoin"))
	require.Equal(t, "coindeck:snapshot", SnapshotKey())
	require.Equal(t, "coindeck:global_stats", GlobalStatsKey())
	require.Equal(t, "coindeck:rate:eur", ExchangeRateKey("EUR"))
	require.Equal(t, "coindeck:price:latest", PriceLatestKey("  "), "blank parts are dropped")
}

func TestNewTTLSet(t *testing.T) {
	ttl := NewTTLSet(config.CacheTTL{Short: 5, Medium: 30, Long: 120})
	require.Equal(t, 5*time.Second, ttl.Short)
	require.Equal(t, 30*time.Second, ttl.Medium)
	require.Equal(t, 2*time.Minute, ttl.Long)

	t.Run("zero falls back to defaults", func(t *testing.T) {
		ttl := NewTTLSet(config.CacheTTL{})
		require.Equal(t, 10*time.Second, ttl.Short)
		require.Equal(t, time.Minute, ttl.Medium)
		require.Equal(t, 5*time.Minute, ttl.Long)
	})

	t.Run("negative disables", func(t *testing.T) {
		ttl := NewTTLSet(config.CacheTTL{Short: -1})
		require.Equal(t, time.Duration(0), ttl.Short)
	})
}

func TestTTLHelpers(t *testing.T) {
	ttl := NewTTLSet(config.CacheTTL{Short: 5, Medium: 30, Long: 120})
	require.Equal(t, ttl.Short, PriceTTL(ttl))
	require.Equal(t, ttl.Short, SnapshotTTL(ttl))
	require.Equal(t, ttl.Medium, GlobalStatsTTL(ttl))
	require.Equal(t, ttl.Long, ExchangeRateTTL(ttl))
	require.Equal(t, time.Duration(0), ttl.Duration(TTLClass("bogus")))
}
