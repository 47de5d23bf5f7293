package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coindeck/internal/cli"
	"coindeck/internal/config"
	"coindeck/internal/svc"
	"coindeck/pkg/format"

	// Import for side-effects: registers the coingecko provider
	_ "coindeck/pkg/market/coingecko"
)

const (
	refreshTimeout  = 15 * time.Second // Timeout for one full refresh pass
	shutdownTimeout = 10 * time.Second // Grace period for shutdown
)

var configFile = flag.String("f", "etc/coindeck.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cfg.MustSetUp()
	defer logx.Close()

	cli.LogConfigSummary(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcCtx := svc.NewServiceContext(*cfg)

	if err := svcCtx.Store.Load(); err != nil {
		logx.Errorf("restore persisted state failed, starting fresh: %v", err)
	}

	// Drop any memoized responses so the first refresh hits the source.
	svcCtx.Gateway.ClearCache()

	// Pre-warm the first render from the Redis mirror while the initial
	// upstream refresh is still in flight.
	if cached, ok := svcCtx.Persist.CachedSnapshot(ctx); ok {
		svcCtx.Store.SeedSnapshot(cached)
		logx.Infof("pre-warmed snapshot from cache: %d instruments", len(cached))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runRefreshLoop(ctx, svcCtx)
	}()

	logx.Info("coindeck started, press Ctrl+C to stop")

	<-ctx.Done()
	logx.Info("shutdown signal received, stopping refresh loop")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logx.Info("refresh loop stopped cleanly")
	case <-shutdownCtx.Done():
		logx.Error("shutdown timeout exceeded, forcing exit")
	}
}

// runRefreshLoop drives the periodic market refresh. The interval follows
// the user preference and falls back to the configured default; preference
// changes take effect on the next tick.
func runRefreshLoop(ctx context.Context, svcCtx *svc.ServiceContext) {
	interval := refreshInterval(svcCtx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run once immediately on startup
	refreshOnce(ctx, svcCtx)

	for {
		select {
		case <-ctx.Done():
			logx.Info("stopping refresh loop")
			return
		case <-ticker.C:
			refreshOnce(ctx, svcCtx)
			if next := refreshInterval(svcCtx); next != interval {
				interval = next
				ticker.Reset(interval)
				logx.Infof("refresh interval changed to %s", interval)
			}
		}
	}
}

func refreshInterval(svcCtx *svc.ServiceContext) time.Duration {
	if sec := svcCtx.Store.Settings().RefreshIntervalSec; sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return svcCtx.Config.Dashboard.Interval()
}

func refreshOnce(parentCtx context.Context, svcCtx *svc.ServiceContext) {
	if parentCtx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parentCtx, refreshTimeout)
	defer cancel()

	start := time.Now()
	svcCtx.Store.Refresh(ctx)

	// Keep the display rate warm alongside market data.
	currency := svcCtx.Store.Settings().Currency
	rate := svcCtx.Rates.Rate(ctx, currency)
	if svcCtx.Persist != nil {
		svcCtx.Persist.RecordExchangeRate(ctx, string(currency), rate)
	}

	instruments := svcCtx.Store.Instruments()
	if len(instruments) > 0 {
		top := instruments[0]
		logx.Infof("refresh complete: %d instruments, %s at %s, took %dms",
			len(instruments), top.Symbol, format.Price(top.CurrentPrice, currency, svcCtx.Rates),
			time.Since(start).Milliseconds())
		return
	}
	logx.Infof("refresh complete: 0 instruments, took %dms", time.Since(start).Milliseconds())
}
