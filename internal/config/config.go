package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
	Forecast  ForecastConfig
	Lock      LockConfig
	Storage   StorageConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConcurrentTx int64
}

type AppConfig struct {
	ReportDir string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

type AnalyticsConfig struct {
	VelocityWindowDays      int
	ThresholdRefreshSeconds int
	ThresholdTTLSeconds     int
}

type ForecastConfig struct {
	Periods          []int
	DedupePOOutflows bool
}

type LockConfig struct {
	TTLSeconds         int
	RetryCount         int
	RetryBackoffMillis int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type LogConfig struct {
	Level string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_REPORT_DIR"))

		instance = build()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "stockcash")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_MAX_CONCURRENT_TX", 10)
	viper.SetDefault("APP_REPORT_DIR", "./data/reports")
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 60)
	viper.SetDefault("ANALYTICS_VELOCITY_WINDOW_DAYS", 30)
	viper.SetDefault("ANALYTICS_THRESHOLD_REFRESH_SECONDS", 900)
	viper.SetDefault("ANALYTICS_THRESHOLD_TTL_SECONDS", 3600)
	viper.SetDefault("FORECAST_PERIODS", "30,60,90")
	viper.SetDefault("FORECAST_DEDUPE_PO_OUTFLOWS", false)
	viper.SetDefault("LOCK_TTL_SECONDS", 30)
	viper.SetDefault("LOCK_RETRY_COUNT", 10)
	viper.SetDefault("LOCK_RETRY_BACKOFF_MS", 100)
	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "stockcash-reports")
	viper.SetDefault("STORAGE_REGION", "")
	viper.SetDefault("STORAGE_USE_SSL", false)
	viper.SetDefault("LOG_LEVEL", "")
}

func build() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetString("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxConcurrentTx: viper.GetInt64("DB_MAX_CONCURRENT_TX"),
		},
		App: AppConfig{
			ReportDir: viper.GetString("APP_REPORT_DIR"),
		},
		Cache: CacheConfig{
			Enabled:            viper.GetBool("CACHE_ENABLED"),
			RedisURL:           viper.GetString("REDIS_URL"),
			RedisHost:          viper.GetString("REDIS_HOST"),
			RedisPort:          viper.GetString("REDIS_PORT"),
			RedisPassword:      viper.GetString("REDIS_PASSWORD"),
			RedisDB:            viper.GetInt("REDIS_DB"),
			ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
		},
		Analytics: AnalyticsConfig{
			VelocityWindowDays:      viper.GetInt("ANALYTICS_VELOCITY_WINDOW_DAYS"),
			ThresholdRefreshSeconds: viper.GetInt("ANALYTICS_THRESHOLD_REFRESH_SECONDS"),
			ThresholdTTLSeconds:     viper.GetInt("ANALYTICS_THRESHOLD_TTL_SECONDS"),
		},
		Forecast: ForecastConfig{
			Periods:          ParseIntList(viper.GetString("FORECAST_PERIODS")),
			DedupePOOutflows: viper.GetBool("FORECAST_DEDUPE_PO_OUTFLOWS"),
		},
		Lock: LockConfig{
			TTLSeconds:         viper.GetInt("LOCK_TTL_SECONDS"),
			RetryCount:         viper.GetInt("LOCK_RETRY_COUNT"),
			RetryBackoffMillis: viper.GetInt("LOCK_RETRY_BACKOFF_MS"),
		},
		Storage: StorageConfig{
			Enabled:   viper.GetBool("STORAGE_ENABLED"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}
}

// ParseIntList parses "30,60,90" into positive integers, skipping blanks and invalid entries.
func ParseIntList(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create directory")
		}
	}
}
