// Package market persists refreshed market data to Postgres and mirrors the
// hot payloads into Redis. Both stores are optional; an unconfigured Service
// degrades to a no-op so the dashboard keeps working from memory alone.
package market

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "coindeck/internal/cache"
	"coindeck/internal/state"
	marketpkg "coindeck/pkg/market"
)

var _ state.SnapshotRecorder = (*Service)(nil)

// Service wires the Postgres + Redis collaborators behind the refresh hooks.
type Service struct {
	sqlConn sqlx.SqlConn
	cache   gocache.Cache
	ttl     cachekeys.TTLSet
}

// Config enumerates dependencies needed to persist market refreshes.
type Config struct {
	SQLConn sqlx.SqlConn
	Cache   gocache.Cache
	TTL     cachekeys.TTLSet
}

// NewService returns a concrete persistence service when a database is
// configured, nil otherwise.
func NewService(cfg Config) *Service {
	if cfg.SQLConn == nil && cfg.Cache == nil {
		return nil
	}
	return &Service{
		sqlConn: cfg.SQLConn,
		cache:   cfg.Cache,
		ttl:     cfg.TTL,
	}
}

// RecordSnapshot upserts instrument metadata and latest prices, then mirrors
// the full ranked payload to Redis.
func (s *Service) RecordSnapshot(ctx context.Context, instruments []marketpkg.Instrument) error {
	if s == nil || len(instruments) == 0 {
		return nil
	}
	if s.sqlConn != nil {
		for _, inst := range instruments {
			if err := s.upsertInstrument(ctx, inst); err != nil {
				return err
			}
			if err := s.upsertLatestPrice(ctx, inst); err != nil {
				return err
			}
		}
	}
	s.cacheSnapshot(ctx, instruments)
	return nil
}

// RecordGlobalStats appends one aggregate-market row and refreshes its cache.
func (s *Service) RecordGlobalStats(ctx context.Context, stats *marketpkg.GlobalStats) error {
	if s == nil || stats == nil {
		return nil
	}
	if s.sqlConn != nil {
		statement := `
INSERT INTO public.global_stats (total_market_cap, total_volume_24h, btc_dominance, active_instruments, recorded_at)
VALUES ($1, $2, $3, $4, NOW())`
		if _, err := s.sqlConn.ExecCtx(
			ctx,
			statement,
			stats.TotalMarketCap,
			stats.TotalVolume24h,
			stats.BTCDominance,
			stats.ActiveInstCount,
		); err != nil {
			return err
		}
	}
	s.cacheGlobalStats(ctx, stats)
	return nil
}

func (s *Service) upsertInstrument(ctx context.Context, inst marketpkg.Instrument) error {
	statement := `
INSERT INTO public.instruments (id, symbol, name, image, rank, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
ON CONFLICT (id) DO UPDATE SET
    symbol = EXCLUDED.symbol,
    name = EXCLUDED.name,
    image = EXCLUDED.image,
    rank = EXCLUDED.rank,
    updated_at = NOW();
`
	_, err := s.sqlConn.ExecCtx(ctx, statement, inst.ID, inst.Symbol, inst.Name, inst.Image, inst.Rank)
	return err
}

func (s *Service) upsertLatestPrice(ctx context.Context, inst marketpkg.Instrument) error {
	statement := `
INSERT INTO public.price_latest (
    instrument_id, price_usd, change_24h_pct, change_7d_pct,
    market_cap, volume_24h, observed_at, updated_at
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, NOW()
)
ON CONFLICT (instrument_id) DO UPDATE SET
    price_usd = EXCLUDED.price_usd,
    change_24h_pct = EXCLUDED.change_24h_pct,
    change_7d_pct = EXCLUDED.change_7d_pct,
    market_cap = EXCLUDED.market_cap,
    volume_24h = EXCLUDED.volume_24h,
    observed_at = EXCLUDED.observed_at,
    updated_at = NOW();
`
	observedAt, err := time.Parse(time.RFC3339, inst.LastUpdated)
	if err != nil {
		observedAt = time.Now()
	}
	_, err = s.sqlConn.ExecCtx(
		ctx,
		statement,
		inst.ID,
		inst.CurrentPrice,
		inst.Change24h,
		inst.Change7d,
		inst.MarketCap,
		inst.Volume24h,
		observedAt.UTC(),
	)
	if err == nil {
		s.cacheLatestPrice(ctx, inst)
	}
	return err
}

type priceCacheEntry struct {
	InstrumentID string  `json:"instrument_id"`
	PriceUSD     float64 `json:"price_usd"`
	Change24hPct float64 `json:"change_24h_pct"`
	UpdatedAtMs  int64   `json:"updated_at_ms"`
}

func (s *Service) cacheLatestPrice(ctx context.Context, inst marketpkg.Instrument) {
	if s.cache == nil {
		return
	}
	key := cachekeys.PriceLatestKey(inst.ID)
	entry := priceCacheEntry{
		InstrumentID: inst.ID,
		PriceUSD:     inst.CurrentPrice,
		Change24hPct: inst.Change24h,
		UpdatedAtMs:  time.Now().UTC().UnixMilli(),
	}
	ttl := cachekeys.PriceTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, entry, ttl); err != nil {
		logx.WithContext(ctx).Errorf("marketpersist: set price cache key=%s err=%v", key, err)
	}
}

func (s *Service) cacheSnapshot(ctx context.Context, instruments []marketpkg.Instrument) {
	if s.cache == nil {
		return
	}
	key := cachekeys.SnapshotKey()
	ttl := cachekeys.SnapshotTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, instruments, ttl); err != nil {
		logx.WithContext(ctx).Errorf("marketpersist: set snapshot cache key=%s err=%v", key, err)
	}
}

func (s *Service) cacheGlobalStats(ctx context.Context, stats *marketpkg.GlobalStats) {
	if s.cache == nil {
		return
	}
	key := cachekeys.GlobalStatsKey()
	ttl := cachekeys.GlobalStatsTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, stats, ttl); err != nil {
		logx.WithContext(ctx).Errorf("marketpersist: set global stats cache key=%s err=%v", key, err)
	}
}

// CachedSnapshot loads the mirrored ranked payload, if present. Used to
// pre-warm the first render before the initial upstream refresh completes.
func (s *Service) CachedSnapshot(ctx context.Context) ([]marketpkg.Instrument, bool) {
	if s == nil || s.cache == nil {
		return nil, false
	}
	var payload []marketpkg.Instrument
	if err := s.cache.GetCtx(ctx, cachekeys.SnapshotKey(), &payload); err != nil {
		if !s.cache.IsNotFound(err) {
			logx.WithContext(ctx).Errorf("marketpersist: load snapshot cache err=%v", err)
		}
		return nil, false
	}
	return payload, len(payload) > 0
}

// RecordExchangeRate caches the latest reference rate for a currency.
func (s *Service) RecordExchangeRate(ctx context.Context, currency string, rate float64) {
	if s == nil || s.cache == nil || rate <= 0 {
		return
	}
	key := cachekeys.ExchangeRateKey(currency)
	ttl := cachekeys.ExchangeRateTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	payload := map[string]any{
		"currency":   currency,
		"rate":       rate,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, payload, ttl); err != nil {
		logx.WithContext(ctx).Errorf("marketpersist: set rate cache key=%s err=%v", key, err)
	}
}
