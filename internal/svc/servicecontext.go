package svc

import (
	"errors"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cachekeys "coindeck/internal/cache"
	"coindeck/internal/config"
	persistmarket "coindeck/internal/persistence/market"
	"coindeck/internal/state"
	"coindeck/pkg/alerts"
	marketpkg "coindeck/pkg/market"
	_ "coindeck/pkg/market/coingecko"
	"coindeck/pkg/rates"
)

var errCacheMiss = errors.New("cache miss")

// ServiceContext assembles the dashboard's collaborators from configuration.
type ServiceContext struct {
	Config config.Config

	MarketConfig    *marketpkg.Config
	MarketProviders map[string]marketpkg.Provider
	DefaultMarket   marketpkg.Provider
	Gateway         *marketpkg.Gateway
	Rates           *rates.Manager
	Store           *state.Store

	// Optional Postgres/Redis collaborators; nil when not configured.
	DBConn  sqlx.SqlConn
	Cache   cache.Cache
	Persist *persistmarket.Service
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{Config: c}

	marketCfg := c.Market.Value
	if marketCfg == nil {
		marketCfg = marketpkg.MustLoad()
	}
	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("failed to build market providers: %v", err)
	}
	svc.MarketConfig = marketCfg
	svc.MarketProviders = providers

	defaultName := marketCfg.Default
	provider, ok := providers[defaultName]
	if !ok {
		log.Fatalf("default market provider %q not found", defaultName)
	}
	svc.DefaultMarket = provider
	svc.Gateway = marketpkg.NewGateway(provider)

	// The rate manager rides on the market provider when it can also quote
	// exchange rates; otherwise it serves the built-in defaults.
	var rateSource rates.Source
	if src, ok := provider.(rates.Source); ok {
		rateSource = src
	}
	svc.Rates = rates.NewManager(rateSource)

	if c.Postgres.DSN != "" {
		svc.DBConn = sqlx.NewSqlConn("pgx", c.Postgres.DSN)
	}
	if strings.TrimSpace(c.Redis.Host) != "" {
		rds := redis.MustNewRedis(c.Redis)
		svc.Cache = cache.NewNode(rds, syncx.NewSingleFlight(), cache.NewStat(cachekeys.Namespace), errCacheMiss)
	}
	svc.Persist = persistmarket.NewService(persistmarket.Config{
		SQLConn: svc.DBConn,
		Cache:   svc.Cache,
		TTL:     cachekeys.NewTTLSet(c.TTL),
	})

	var recorder state.SnapshotRecorder
	if svc.Persist != nil {
		recorder = svc.Persist
	}
	svc.Store = state.NewStore(state.Config{
		Gateway:   svc.Gateway,
		Rates:     svc.Rates,
		Notifier:  alerts.LogNotifier{},
		File:      state.NewFileStore(c.Dashboard.StateFile),
		Recorder:  recorder,
		TopLimit:  c.Dashboard.TopLimit,
		ChartDays: c.Dashboard.ChartDays,
	})
	return svc
}
