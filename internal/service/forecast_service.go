package service

import (
	"context"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/cache"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/rs/zerolog/log"
)

type ForecastService struct {
	engine *analytics.CashForecastEngine
	cache  cache.ForecastCache
}

func NewForecastService(engine *analytics.CashForecastEngine, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{engine: engine, cache: cacheImpl}
}

func (s *ForecastService) GetForecast(ctx context.Context, periods []int) (*domain.Forecast, error) {
	if forecast, ok, err := s.cache.GetForecast(ctx, periods); err == nil && ok {
		return forecast, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("cash forecast: cache get failed")
	}

	forecast, err := s.engine.Forecast(ctx, periods)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetForecast(ctx, periods, &forecast); err != nil {
		log.Warn().Err(err).Msg("cash forecast: cache set failed")
	}

	return &forecast, nil
}

// Invalidate drops every cached forecast; called after writes that move cash.
func (s *ForecastService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("cash forecast: cache invalidate failed")
	}
}
