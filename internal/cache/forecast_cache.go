package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/redis/go-redis/v9"
)

const forecastKeyPrefix = "cash_forecast"

type ForecastCache interface {
	GetForecast(ctx context.Context, periods []int) (*domain.Forecast, bool, error)
	SetForecast(ctx context.Context, periods []int, forecast *domain.Forecast) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

type noopForecastCache struct{}

// NewForecastCache keys entries by the date of now, which must be the clock the forecast engine runs on.
func NewForecastCache(client *redis.Client, ttl time.Duration, now func() time.Time) ForecastCache {
	if client == nil {
		return &noopForecastCache{}
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &redisForecastCache{client: client, ttl: ttl, now: now}
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecast(ctx context.Context, periods []int) (*domain.Forecast, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(c.now(), periods)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var forecast domain.Forecast
	if err := json.Unmarshal(payload, &forecast); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}
	return &forecast, true, nil
}

func (c *redisForecastCache) SetForecast(ctx context.Context, periods []int, forecast *domain.Forecast) error {
	payload, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(c.now(), periods), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, scanBatchSize)
}

func (n *noopForecastCache) GetForecast(ctx context.Context, periods []int) (*domain.Forecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetForecast(ctx context.Context, periods []int, forecast *domain.Forecast) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildForecastKey includes the calendar date of now in its own location, the day projections are anchored on.
func buildForecastKey(now time.Time, periods []int) string {
	return fmt.Sprintf("%s:%s:%s", forecastKeyPrefix, now.Format("2006-01-02"), periodsHash(periods))
}

func periodsHash(periods []int) string {
	if len(periods) == 0 {
		return "default"
	}

	c := append([]int(nil), periods...)
	sort.Ints(c)

	sum := sha1.Sum([]byte("periods=" + joinInts(c)))
	return hex.EncodeToString(sum[:])
}
