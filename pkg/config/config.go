package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Data source identifiers
const (
	DataSourceCSV      = "csv"
	DataSourcePostgres = "postgres"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Price data
	DataSource  string // csv, postgres
	DataCSVPath string

	// Headline sample (symbol,headline CSV)
	SentimentCSVPath string

	// Database (DataSource=postgres)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	News NewsConfig

	// Forecast engine
	Forecast ForecastConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NewsConfig holds the news API (newsdata.io) configuration
type NewsConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Country  string
	Timeout  time.Duration

	MaxRetries int // 0 = 재시도 없음
	RetryDelay time.Duration
}

// ForecastConfig holds forecast engine settings
type ForecastConfig struct {
	DefaultSteps      int
	Seed              int64 // 0 = time based
	FitTimeout        time.Duration
	MaxConcurrentFits int
	ModelConfigPath   string // optional YAML override

	WarmupEnabled  bool
	WarmupSchedule string // cron expression with seconds
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		// Price data
		DataSource:  getEnv("DATA_SOURCE", DataSourceCSV),
		DataCSVPath: getEnv("DATA_CSV_PATH", filepath.Join("data", "market_data.csv")),

		SentimentCSVPath: getEnv("SENTIMENT_CSV_PATH", filepath.Join("data", "sentiment_sample.csv")),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		News: NewsConfig{
			APIKey:   getEnv("NEWSCATCHER_API_KEY", ""),
			BaseURL:  getEnv("NEWS_BASE_URL", "https://newsdata.io/api/1"),
			Language: getEnv("NEWS_LANGUAGE", "en"),
			Country:  getEnv("NEWS_COUNTRY", "in"),
			Timeout:  getEnvAsDuration("NEWS_TIMEOUT", "10s"),

			MaxRetries: getEnvAsInt("NEWS_MAX_RETRIES", 3),
			RetryDelay: getEnvAsDuration("NEWS_RETRY_DELAY", "1s"),
		},

		// Forecast engine
		Forecast: ForecastConfig{
			DefaultSteps:      getEnvAsInt("FORECAST_STEPS", 30),
			Seed:              int64(getEnvAsInt("FORECAST_SEED", 0)),
			FitTimeout:        getEnvAsDuration("FORECAST_FIT_TIMEOUT", "60s"),
			MaxConcurrentFits: getEnvAsInt("FORECAST_MAX_CONCURRENT_FITS", 4),
			ModelConfigPath:   getEnv("MODEL_CONFIG_PATH", ""),
			WarmupEnabled:     getEnvAsBool("WARMUP_ENABLED", false),
			WarmupSchedule:    getEnv("WARMUP_SCHEDULE", "0 30 18 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.DataSource {
	case DataSourceCSV:
		if c.DataCSVPath == "" {
			return fmt.Errorf("DATA_CSV_PATH is required when DATA_SOURCE=csv")
		}
	case DataSourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: csv, postgres")
	}

	if c.Forecast.DefaultSteps <= 0 {
		return fmt.Errorf("FORECAST_STEPS must be positive")
	}
	if c.Forecast.MaxConcurrentFits <= 0 {
		return fmt.Errorf("FORECAST_MAX_CONCURRENT_FITS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
