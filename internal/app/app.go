package app

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/api"
	"github.com/andresuchdata/stockcash/internal/cache"
	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/andresuchdata/stockcash/internal/lock"
	"github.com/andresuchdata/stockcash/internal/repository"
	"github.com/andresuchdata/stockcash/internal/repository/memory"
	"github.com/andresuchdata/stockcash/internal/repository/postgres"
	"github.com/andresuchdata/stockcash/internal/seed"
	"github.com/andresuchdata/stockcash/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// App holds the wired services of one process.
type App struct {
	Store     repository.Store
	Redis     *redis.Client
	Policy    *analytics.SafetyStockPolicy
	Refresher *analytics.ThresholdRefresher
	Services  *api.Services

	closers []func() error
}

// Options override pieces of the wiring, mainly for tests and the memory driver.
type Options struct {
	// Memory is used instead of opening a store when the driver is "memory".
	Memory *memory.Store
	// SeedDir loads a CSV dataset into the memory store.
	SeedDir string
	Now     analytics.Clock
}

// New opens the configured store and cache and wires every service on top of them.
// Redis is optional: without it caches are no-ops and locks are process-local.
func New(cfg *config.Config, opts Options) (*App, error) {
	a := &App{}

	store, err := a.openStore(cfg, opts)
	if err != nil {
		return nil, err
	}
	a.Store = store

	if cfg.Cache.Enabled {
		client, err := cache.NewRedisClient(cfg.Cache)
		if err != nil {
			log.Warn().Err(err).Msg("app: redis unavailable, continuing without cache")
		} else {
			a.Redis = client
			a.closers = append(a.closers, client.Close)
		}
	}

	a.wire(cfg, opts.Now)
	return a, nil
}

func (a *App) openStore(cfg *config.Config, opts Options) (repository.Store, error) {
	switch cfg.Database.Driver {
	case DriverMemory:
		store := opts.Memory
		if store == nil {
			store = memory.NewStore()
		}
		if opts.SeedDir != "" {
			ds, err := seed.ReadDataset(opts.SeedDir)
			if err != nil {
				return nil, fmt.Errorf("read seed dataset: %w", err)
			}
			seed.LoadMemory(store, ds)
		}
		log.Info().Str("driver", DriverMemory).Msg("app: using in-memory store")
		return store, nil
	case DriverPostgres, "":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func (a *App) wire(cfg *config.Config, now analytics.Clock) {
	velocity := analytics.NewVelocityEstimator(a.Store, cfg.Analytics.VelocityWindowDays, now)
	a.Policy = analytics.NewSafetyStockPolicy(
		velocity,
		cache.NewThresholdStore(a.Redis),
		time.Duration(cfg.Analytics.ThresholdTTLSeconds)*time.Second,
	)
	a.Refresher = analytics.NewThresholdRefresher(a.Policy, time.Duration(cfg.Analytics.ThresholdRefreshSeconds)*time.Second)

	enricher := analytics.NewInventoryEnricher(a.Store, velocity, a.Policy)
	engine := analytics.NewCashForecastEngine(a.Store, a.Store, a.Store, analytics.ForecastOptions{
		DefaultPeriods:   cfg.Forecast.Periods,
		DedupePOOutflows: cfg.Forecast.DedupePOOutflows,
	}, now)

	forecastCache := cache.NewNoopForecastCache()
	if a.Redis != nil {
		forecastCache = cache.NewForecastCache(a.Redis, cache.ForecastTTL(cfg.Cache), now)
	}

	forecasts := service.NewForecastService(engine, forecastCache)
	inventory := service.NewInventoryService(enricher, a.Policy, a.Store)
	a.Services = &api.Services{
		Inventory: inventory,
		Forecasts: forecasts,
		POs:       service.NewPOService(a.Store, engine, enricher, velocity, lock.New(a.Redis, cfg.Lock), forecasts, now),
		Dashboard: service.NewDashboardService(inventory, forecasts, a.Store, now),
	}
}

// RunBackground starts the threshold refresher; it stops when ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	go a.Refresher.Run(ctx)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
