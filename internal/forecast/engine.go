package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
)

// Model 번들마다 실행되는 세 예측기 중 하나
type Model interface {
	Name() string
	Forecast(ctx context.Context, lastDate time.Time, lastPrice float64, returns contracts.ReturnSeries, steps int) (*ModelForecast, error)
}

// Models 엔진에 연결되는 예측기 묶음
type Models struct {
	Trend      Model
	Seasonal   Model
	Volatility Model

	// Analyzer backs the volatility analysis report; may be nil
	Analyzer *VolatilityForecaster
}

// EngineConfig 엔진 한도
type EngineConfig struct {
	DefaultSteps      int
	MaxConcurrentFits int           // worker slots shared by all symbols
	FitTimeout        time.Duration // per model; order search falls back when it expires
}

// Engine 종목별 캐시 뒤에서 예측 파이프라인 실행
// ⭐ SSOT: 가격 → 수익률 → 3개 모델 → 캐시 파이프라인
type Engine struct {
	prices  contracts.PriceProvider
	models  Models
	cache   *Cache
	slots   *semaphore.Weighted
	cfg     EngineConfig
	metrics *metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time
}

// NewEngine 엔진 생성
func NewEngine(
	prices contracts.PriceProvider,
	models Models,
	cache *Cache,
	cfg EngineConfig,
	rec *metrics.Recorder,
	log zerolog.Logger,
) *Engine {
	if cfg.MaxConcurrentFits <= 0 {
		cfg.MaxConcurrentFits = 1
	}
	if cfg.DefaultSteps <= 0 {
		cfg.DefaultSteps = contracts.DefaultSteps
	}
	return &Engine{
		prices:  prices,
		models:  models,
		cache:   cache,
		slots:   semaphore.NewWeighted(int64(cfg.MaxConcurrentFits)),
		cfg:     cfg,
		metrics: rec,
		log:     log.With().Str("component", "forecast.engine").Logger(),
		now:     time.Now,
	}
}

// Forecast symbol 의 캐시된 번들 반환, 첫 요청 시 계산.
// ErrSymbolNotFound 는 그대로 전달, 쓸 수 없는 시리즈나 전체 모델 실패는
// ErrNoForecast. 둘 다 캐시하지 않음.
func (e *Engine) Forecast(ctx context.Context, symbol string, steps int) (*contracts.ForecastBundle, error) {
	if steps <= 0 {
		steps = e.cfg.DefaultSteps
	}
	return e.cache.GetOrCompute(ctx, symbol, steps, func(cctx context.Context) (*contracts.ForecastBundle, error) {
		return e.Compute(cctx, symbol, steps)
	})
}

// Compute 캐시 없이 파이프라인 실행
func (e *Engine) Compute(ctx context.Context, symbol string, steps int) (*contracts.ForecastBundle, error) {
	raw, err := e.prices.Series(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := e.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s: waiting for fit slot: %w", symbol, err)
	}
	defer e.slots.Release(1)
	e.metrics.FitStarted()
	defer e.metrics.FitFinished()

	start := time.Now()

	s, err := series.Normalize(symbol, raw.Points)
	if err != nil {
		return nil, noForecast(err)
	}
	returns, err := series.LogReturns(s)
	if err != nil {
		return nil, noForecast(err)
	}
	last, _ := s.Last()

	bundle := &contracts.ForecastBundle{
		Symbol:      symbol,
		Steps:       steps,
		LastDate:    last.Date,
		LastPrice:   last.Price,
		Failures:    make(map[string]string),
		GeneratedAt: e.now().UTC(),
	}

	// 3개 모델은 서로 독립: 하나가 실패해도 나머지는 계속
	if mf := e.run(ctx, e.models.Trend, bundle, returns); mf != nil {
		bundle.Trend = mf.Path
		bundle.TrendModel = mf.Model
		if dir, ok := series.DirectionOf(last.Price, mf.Path); ok {
			bundle.Direction = &dir
		}
	}
	if mf := e.run(ctx, e.models.Seasonal, bundle, returns); mf != nil {
		bundle.Seasonal = mf.Path
		bundle.SeasonalModel = mf.Model
	}
	if mf := e.run(ctx, e.models.Volatility, bundle, returns); mf != nil {
		bundle.Volatility = mf.Path
		bundle.VolatilityModel = mf.Model
	}

	if bundle.Empty() {
		return nil, fmt.Errorf("%w: %s: every model failed", contracts.ErrNoForecast, symbol)
	}
	if len(bundle.Failures) == 0 {
		bundle.Failures = nil
	}

	ev := e.log.Info().
		Str("symbol", symbol).
		Int("steps", steps).
		Int("observations", s.Len()).
		Dur("duration", time.Since(start))
	if bundle.Direction != nil {
		ev = ev.Str("direction", string(*bundle.Direction))
	}
	ev.Int("failures", len(bundle.Failures)).Msg("forecast computed")

	return bundle, nil
}

// run executes one model under its own timeout, recording failures in the bundle
func (e *Engine) run(ctx context.Context, m Model, bundle *contracts.ForecastBundle, returns contracts.ReturnSeries) (mf *ModelForecast) {
	if m == nil {
		return nil
	}
	name := m.Name()

	mctx := ctx
	if e.cfg.FitTimeout > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, e.cfg.FitTimeout)
		defer cancel()
	}

	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			mf = nil
			err = fmt.Errorf("%s: panic: %v: %w", name, r, contracts.ErrModelFit)
		}
		e.metrics.ObserveFit(name, time.Since(start), err)
		if err != nil {
			bundle.Failures[name] = err.Error()
			e.log.Warn().Err(err).Str("symbol", bundle.Symbol).Str("model", name).Msg("model failed")
		}
	}()

	mf, err = m.Forecast(mctx, bundle.LastDate, bundle.LastPrice, returns, bundle.Steps)
	if err == nil && (mf == nil || len(mf.Path) != bundle.Steps) {
		err = fmt.Errorf("%s: incomplete projection: %w", name, contracts.ErrModelFit)
		mf = nil
	}
	return mf
}

// Analyze symbol 의 변동성 모델 적합 리포트
func (e *Engine) Analyze(ctx context.Context, symbol string) (*contracts.VolatilityAnalysis, error) {
	if e.models.Analyzer == nil {
		return nil, fmt.Errorf("volatility analysis not configured: %w", contracts.ErrModelFit)
	}
	raw, err := e.prices.Series(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := e.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s: waiting for fit slot: %w", symbol, err)
	}
	defer e.slots.Release(1)

	start := time.Now()
	a, err := e.models.Analyzer.Analyze(ctx, symbol, raw.Prices())
	e.metrics.ObserveFit("volatility_analysis", time.Since(start), err)
	return a, err
}

// Cached symbol 번들이 이미 있는지 여부
func (e *Engine) Cached(symbol string) bool {
	_, ok := e.cache.Get(symbol)
	return ok
}

// CacheStats 캐시 카운터 노출
func (e *Engine) CacheStats() CacheStats {
	return e.cache.Stats()
}

func noForecast(err error) error {
	return fmt.Errorf("%w: %w", contracts.ErrNoForecast, err)
}
