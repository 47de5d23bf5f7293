package market

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSyntheticHistorySampling(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rng := rand.New(rand.NewSource(1))

	t.Run("short windows sample hourly", func(t *testing.T) {
		points := syntheticHistory(100, 7, now, rng)
		require.Len(t, points, 7*24+1)
		require.Equal(t, time.Hour.Milliseconds(), points[1].TimestampMs-points[0].TimestampMs)
		require.Equal(t, now.UnixMilli(), points[len(points)-1].TimestampMs)
	})

	t.Run("long windows sample daily", func(t *testing.T) {
		points := syntheticHistory(100, 30, now, rng)
		require.Len(t, points, 30+1)
		require.Equal(t, (24 * time.Hour).Milliseconds(), points[1].TimestampMs-points[0].TimestampMs)
	})

	t.Run("non-positive window defaults to one day", func(t *testing.T) {
		points := syntheticHistory(100, 0, now, rng)
		require.Len(t, points, 24+1)
	})
}

func TestSyntheticHistoryBounds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rng := rand.New(rand.NewSource(7))

	base := 3200.0
	points := syntheticHistory(base, 30, now, rng)
	for _, p := range points {
		require.GreaterOrEqual(t, p.Price, base*0.8)
		// trend and noise are each bounded at 5%
		require.LessOrEqual(t, p.Price, base*1.11)
	}
}

func TestSyntheticHistoryDefaultBase(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rng := rand.New(rand.NewSource(3))

	points := syntheticHistory(0, 1, now, rng)
	for _, p := range points {
		require.GreaterOrEqual(t, p.Price, defaultHistoryBase*0.8)
	}
}

func TestFallbackBasePrice(t *testing.T) {
	require.Equal(t, 67500.0, FallbackBasePrice("bitcoin"))
	require.Equal(t, defaultHistoryBase, FallbackBasePrice("no-such-id"))
}
