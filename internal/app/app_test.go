package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Database:  config.DatabaseConfig{Driver: DriverMemory},
		Analytics: config.AnalyticsConfig{VelocityWindowDays: 30},
		Forecast:  config.ForecastConfig{Periods: []int{15, 45}},
	}
}

func TestNewWithMemoryDriver(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"locations.csv":     "id,name,code\n1,Downtown,DT\n",
		"suppliers.csv":     "id,name,code,lead_time_days\n2,Acme,ACME,7\n",
		"products.csv":      "id,sku,name,category,supplier_id,unit_cost,unit_price\n3,SKU-1,Widget,Tools,2,4,10\n",
		"inventory.csv":     "product_id,location_id,on_hand\n3,1,12\n",
		"cash_settings.csv": "starting_cash\n2500\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	now := func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	a, err := New(memoryConfig(), Options{SeedDir: dir, Now: now})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)
	require.NotNil(t, a.Services)

	ctx := context.Background()
	items, err := a.Services.Inventory.GetEnrichedInventory(ctx, domain.InventoryQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-1", items[0].SKU)

	forecast, err := a.Services.Forecasts.GetForecast(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, forecast.CurrentCash)
	assert.Contains(t, forecast.Projections, 15)
	assert.Contains(t, forecast.Projections, 45)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "sqlite"
	_, err := New(cfg, Options{})
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestRunBackgroundStopsWithContext(t *testing.T) {
	cfg := memoryConfig()
	cfg.Analytics.ThresholdRefreshSeconds = 1
	a, err := New(cfg, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a.RunBackground(ctx)
	require.Eventually(t, func() bool {
		_, ok := a.Policy.Snapshot()
		return ok
	}, time.Second, 10*time.Millisecond)
	cancel()
}
