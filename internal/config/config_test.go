package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseIntList(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{raw: "30,60,90", want: []int{30, 60, 90}},
		{raw: " 7 , 14 ", want: []int{7, 14}},
		{raw: "30,abc,-5,0,45", want: []int{30, 45}},
		{raw: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntList(tt.raw))
		})
	}
}

func TestBuildUsesDefaultsAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("FORECAST_PERIODS", "15,45")
	t.Setenv("FORECAST_DEDUPE_PO_OUTFLOWS", "true")

	setDefaults()
	viper.AutomaticEnv()
	cfg := build()

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []int{15, 45}, cfg.Forecast.Periods)
	assert.True(t, cfg.Forecast.DedupePOOutflows)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Analytics.VelocityWindowDays)
	assert.Equal(t, 900, cfg.Analytics.ThresholdRefreshSeconds)
	assert.Equal(t, int64(10), cfg.Database.MaxConcurrentTx)
	assert.False(t, cfg.Cache.Enabled)
}
