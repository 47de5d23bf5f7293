package market

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

const defaultMemoTTL = 30 * time.Second

// Gateway wraps a raw Provider with the dashboard's degraded-mode policies:
// successful snapshot and global-stats responses are memoized per request
// shape for a short window, a failed snapshot fetch is answered from the
// built-in static dataset, and a failed history fetch is answered with a
// synthesized series. Instrument detail, search and global stats propagate
// errors unchanged.
type Gateway struct {
	source  Provider
	memoTTL time.Duration
	now     func() time.Time
	rng     *rand.Rand

	mu   sync.RWMutex
	memo map[string]memoEntry
}

type memoEntry struct {
	instruments []Instrument
	stats       *GlobalStats
	expires     time.Time
}

// GatewayOption customises a Gateway.
type GatewayOption func(*Gateway)

// WithMemoTTL overrides the memoization window.
func WithMemoTTL(ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		if ttl > 0 {
			g.memoTTL = ttl
		}
	}
}

// WithClock injects a clock, used by tests.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRand injects the random source used for synthesized history.
func WithRand(rng *rand.Rand) GatewayOption {
	return func(g *Gateway) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// NewGateway constructs a Gateway over the given source.
func NewGateway(source Provider, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		source:  source,
		memoTTL: defaultMemoTTL,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		memo:    make(map[string]memoEntry),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TopInstruments returns the ranked snapshot, serving the memoized response
// when still fresh. It never fails: any source error is answered with the
// static fallback dataset so consumers always have renderable data.
func (g *Gateway) TopInstruments(ctx context.Context, limit int) []Instrument {
	key := fmt.Sprintf("top:%d", limit)
	if entry, ok := g.memoized(key); ok {
		return entry.instruments
	}

	instruments, err := g.source.TopInstruments(ctx, limit)
	if err != nil || len(instruments) == 0 {
		logx.WithContext(ctx).Errorf("market: snapshot fetch failed, serving fallback dataset: %v", err)
		return FallbackInstruments(g.now())
	}

	g.memoize(key, memoEntry{instruments: instruments})
	return instruments
}

// GlobalStats returns aggregate market figures, memoized per window. Unlike
// the snapshot there is no fallback; failures propagate.
func (g *Gateway) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	const key = "global"
	if entry, ok := g.memoized(key); ok {
		return entry.stats, nil
	}

	stats, err := g.source.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	g.memoize(key, memoEntry{stats: stats})
	return stats, nil
}

// History returns the price series for an instrument. It never fails: on
// source error a synthesized series anchored at the instrument's known base
// price is returned instead.
func (g *Gateway) History(ctx context.Context, id string, days int) []HistoricalPoint {
	points, err := g.source.History(ctx, id, days)
	if err != nil || len(points) == 0 {
		logx.WithContext(ctx).Errorf("market: history fetch for %s failed, synthesizing series: %v", id, err)
		g.mu.Lock()
		defer g.mu.Unlock()
		return syntheticHistory(FallbackBasePrice(id), days, g.now(), g.rng)
	}
	return points
}

// Instrument returns a single instrument by id. Failures propagate.
func (g *Gateway) Instrument(ctx context.Context, id string) (*Instrument, error) {
	return g.source.Instrument(ctx, id)
}

// Search resolves a free-text query. Failures propagate.
func (g *Gateway) Search(ctx context.Context, query string) ([]Instrument, error) {
	return g.source.Search(ctx, query)
}

// ClearCache drops all memoized responses. Called at startup to force the
// first refresh to hit the source.
func (g *Gateway) ClearCache() {
	g.mu.Lock()
	g.memo = make(map[string]memoEntry)
	g.mu.Unlock()
}

func (g *Gateway) memoized(key string) (memoEntry, bool) {
	g.mu.RLock()
	entry, ok := g.memo[key]
	g.mu.RUnlock()
	if !ok || g.now().After(entry.expires) {
		return memoEntry{}, false
	}
	return entry, true
}

func (g *Gateway) memoize(key string, entry memoEntry) {
	entry.expires = g.now().Add(g.memoTTL)
	g.mu.Lock()
	g.memo[key] = entry
	g.mu.Unlock()
}
