package forecast

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
)

// 변동성 분석 리포트의 최소 표본 수
const (
	AnalysisMinPrices  = 100
	AnalysisMinReturns = 50
	AnalysisHorizon    = 30
)

// GarchModelType 분석 리포트의 model_type
const GarchModelType = "GARCH(1,1)"

// NormalSource 표준정규 난수 생성
type NormalSource interface {
	NormFloat64() float64
}

// lockedSource makes a *rand.Rand safe for concurrent fits
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}

// NewNormalSource 고루틴 안전 난수원 (seed 0 이면 현재 시각)
func NewNormalSource(seed int64) NormalSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

// VolatilityForecaster GARCH(1,1) 적합 후 가상 수익률 경로 하나 생성.
// 기대 경로가 아닌 가능한 경로: 호출마다 주입된 난수원에서
// 새 정규 난수를 뽑는다.
type VolatilityForecaster struct {
	src NormalSource
	fit FitOptions
	log zerolog.Logger
}

// NewVolatilityForecaster 예측기 생성
func NewVolatilityForecaster(src NormalSource, fit FitOptions, log zerolog.Logger) *VolatilityForecaster {
	return &VolatilityForecaster{
		src: src,
		fit: fit,
		log: log.With().Str("component", "forecast.volatility").Logger(),
	}
}

// Name 번들과 메트릭에 쓰는 모델 이름
func (f *VolatilityForecaster) Name() string {
	return contracts.ModelVolatility
}

// Forecast 모델 적합 후 각 step 마다 r_i ~ N(0, sqrt(var_i)) 추출
func (f *VolatilityForecaster) Forecast(
	ctx context.Context,
	lastDate time.Time,
	lastPrice float64,
	returns contracts.ReturnSeries,
	steps int,
) (*ModelForecast, error) {
	if len(returns) == 0 {
		return nil, fmt.Errorf("%s: empty return series: %w", contracts.ModelVolatility, contracts.ErrDataInsufficient)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", contracts.ModelVolatility, err)
	}

	g, err := FitGARCH(ctx, returns, f.fit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", contracts.ModelVolatility, err)
	}

	variance := g.ForecastVariance(steps)
	draws := make([]float64, steps)
	for i, v := range variance {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%s: non-finite variance forecast: %w", contracts.ModelVolatility, contracts.ErrModelFit)
		}
		draws[i] = f.src.NormFloat64() * math.Sqrt(v)
	}

	f.log.Debug().
		Float64("omega", g.Omega).
		Float64("alpha", g.Alpha).
		Float64("beta", g.Beta).
		Int("steps", steps).
		Msg("model fitted")

	return &ModelForecast{
		Model:   GarchModelType + " zero-mean",
		Returns: draws,
		Path:    series.Path(lastDate, lastPrice, draws),
	}, nil
}

// Analyze 가격 이력의 GARCH(1,1) 적합 리포트.
// 유한 가격 AnalysisMinPrices 개와 수익률 AnalysisMinReturns 개가 필요하고
// 상수 수익률은 거부.
func (f *VolatilityForecaster) Analyze(ctx context.Context, symbol string, prices []float64) (*contracts.VolatilityAnalysis, error) {
	clean := make([]float64, 0, len(prices))
	for _, p := range prices {
		if !math.IsNaN(p) && !math.IsInf(p, 0) {
			clean = append(clean, p)
		}
	}
	if len(clean) < AnalysisMinPrices {
		return nil, fmt.Errorf("need at least %d valid prices, got %d: %w", AnalysisMinPrices, len(clean), contracts.ErrDataInsufficient)
	}

	returns := make([]float64, 0, len(clean)-1)
	for i := 1; i < len(clean); i++ {
		r := math.Log(clean[i]) - math.Log(clean[i-1])
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			returns = append(returns, r)
		}
	}
	if len(returns) < AnalysisMinReturns {
		return nil, fmt.Errorf("need at least %d returns, got %d: %w", AnalysisMinReturns, len(returns), contracts.ErrDataInsufficient)
	}
	if isConstant(returns) {
		return nil, fmt.Errorf("constant returns, cannot fit volatility model: %w", contracts.ErrModelFit)
	}

	g, err := FitGARCH(ctx, returns, f.fit)
	if err != nil {
		return nil, err
	}

	mean := stat.Mean(returns, nil)
	std := stat.PopStdDev(returns, nil)

	return &contracts.VolatilityAnalysis{
		Symbol:             symbol,
		ActualSymbol:       symbol,
		ModelType:          GarchModelType,
		Omega:              g.Omega,
		Alpha:              g.Alpha,
		Beta:               g.Beta,
		Persistence:        g.Persistence(),
		LogLikelihood:      g.LogLik,
		AIC:                g.AIC,
		BIC:                g.BIC,
		CurrentVolatility:  std,
		VolatilityForecast: g.ForecastVolatility(AnalysisHorizon),
		DataPoints:         len(clean),
		ReturnsCount:       len(returns),
		MeanReturn:         mean,
		StdReturn:          std,
	}, nil
}
