package commands

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/analytics"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/decision"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/engineconfig"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/forecast"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/marketdata"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/sentiment"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/config"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/database"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/httputil"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/redis"
)

// app holds the wired components shared by every command
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg     *config.Config
	models  *engineconfig.Config
	log     *logger.Logger
	metrics *metrics.Recorder

	db    *database.DB // nil for the CSV source
	redis *redis.Client

	prices    contracts.PriceProvider
	engine    *forecast.Engine
	sentiment *sentiment.Provider
	headlines *sentiment.HeadlineAnalyzer
	decider   *decision.Service
	analytics *analytics.Service
}

// newApp loads configuration and wires the pipeline.
// seed overrides FORECAST_SEED when non-zero.
func newApp(ctx context.Context, seed int64) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataPath != "" {
		cfg.DataSource = config.DataSourceCSV
		cfg.DataCSVPath = dataPath
	}
	if modelConfig != "" {
		cfg.Forecast.ModelConfigPath = modelConfig
	}
	if seed != 0 {
		cfg.Forecast.Seed = seed
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	a := &app{cfg: cfg, log: logger.New(cfg), metrics: metrics.New()}

	a.models, err = engineconfig.Load(cfg.Forecast.ModelConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load model config: %w", err)
	}
	hash, _ := engineconfig.Hash(a.models)
	a.log.WithFields(map[string]interface{}{
		"data_source":  cfg.DataSource,
		"model_config": cfg.Forecast.ModelConfigPath,
		"config_hash":  hash,
	}).Debug("Configuration loaded")

	if err := a.initPrices(ctx); err != nil {
		a.close()
		return nil, err
	}

	// Redis는 선택: 실패하면 캐시 없이 동작
	a.redis, err = redis.New(cfg)
	if err != nil {
		a.log.WithError(err).Warn("Redis unavailable, continuing without sentiment cache")
		a.redis = redis.Disabled()
	}

	if err := a.initEngine(); err != nil {
		a.close()
		return nil, err
	}
	a.initSentiment()

	a.decider = decision.NewService(a.engine, a.sentiment, a.prices, a.models.Decision.HistoryDays, a.metrics, a.log.Zerolog())
	a.analytics = analytics.NewService(a.prices, a.log.Zerolog())
	return a, nil
}

func (a *app) initPrices(ctx context.Context) error {
	switch a.cfg.DataSource {
	case config.DataSourcePostgres:
		db, err := database.New(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.prices = marketdata.NewPostgresStore(db.Pool, a.log.Zerolog())
	default:
		a.prices = marketdata.NewCSVStore(a.cfg.DataCSVPath, a.log.Zerolog())
	}
	return nil
}

func (a *app) initEngine() error {
	zl := a.log.Zerolog()
	models, err := forecast.NewModels(a.models.ModelSettings(), forecast.NewNormalSource(a.cfg.Forecast.Seed), zl)
	if err != nil {
		return fmt.Errorf("build models: %w", err)
	}
	a.engine = forecast.NewEngine(
		a.prices,
		models,
		forecast.NewCache(a.metrics, zl),
		forecast.EngineConfig{
			DefaultSteps:      a.cfg.Forecast.DefaultSteps,
			MaxConcurrentFits: a.cfg.Forecast.MaxConcurrentFits,
			FitTimeout:        a.cfg.Forecast.FitTimeout,
		},
		a.metrics,
		zl,
	)
	return nil
}

// initSentiment 뉴스 API 호출 제한: Redis 공유 한도, 없으면 프로세스 내 한도
func (a *app) initSentiment() {
	scorer := sentiment.NewScorer()
	opts := a.models.SentimentOptions()
	httpClient := httputil.New(a.cfg, a.log).WithRetry(a.cfg.News.MaxRetries, a.cfg.News.RetryDelay)
	var local *rate.Limiter
	if a.redis.Enabled() {
		httpClient.WithRateLimiter(redis.NewRateLimiter(a.redis, "dsfm"), redis.NewsRateLimit)
	} else {
		local = rate.NewLimiter(rate.Every(redis.NewsRateLimit.Every()), redis.NewsRateLimit.Limit)
	}

	cache := redis.NewCache(a.redis, "dsfm")
	news := sentiment.NewNewsClient(httpClient, a.cfg.News, local, a.log.Zerolog()).WithCache(cache)
	a.sentiment = sentiment.NewProvider(
		news,
		scorer,
		cache,
		opts,
		a.metrics,
		a.log.Zerolog(),
	)
	a.headlines = sentiment.NewHeadlineAnalyzer(a.cfg.SentimentCSVPath, scorer, opts.Thresholds, a.log.Zerolog())
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
