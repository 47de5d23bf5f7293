package market

import (
	"math"
	"math/rand"
	"time"
)

const defaultHistoryBase = 100.0

// syntheticHistory builds a plausible price series anchored at base: a smooth
// sinusoidal trend of ±5% plus ±5% random noise, clamped so no point falls
// below 80% of the base. Windows of up to 7 days use hourly samples, longer
// windows daily ones. Points are ordered by time ascending.
func syntheticHistory(base float64, days int, now time.Time, rng *rand.Rand) []HistoricalPoint {
	if days <= 0 {
		days = 1
	}
	if base <= 0 {
		base = defaultHistoryBase
	}

	step := 24 * time.Hour
	samples := days
	if days <= 7 {
		step = time.Hour
		samples = days * 24
	}

	points := make([]HistoricalPoint, 0, samples+1)
	for i := samples; i >= 0; i-- {
		ts := now.Add(-time.Duration(i) * step)
		noise := (rng.Float64() - 0.5) * 0.1
		trend := math.Sin(float64(i)/float64(days*5)*math.Pi) * 0.05
		price := base * (1 + noise + trend)
		points = append(points, HistoricalPoint{
			TimestampMs: ts.UnixMilli(),
			Price:       math.Max(price, base*0.8),
		})
	}
	return points
}
