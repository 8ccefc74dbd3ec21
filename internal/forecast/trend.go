package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
)

// ModelForecast 한 모델의 예측 결과
type ModelForecast struct {
	Model   string                    // human readable model description
	Returns []float64                 // projected log-returns
	Path    []contracts.ForecastPoint // reconstructed prices
}

// TrendForecaster 자동 차수 ARIMA 로 수익률 예측.
// 계절 변형은 계절 탐색 공간으로 만든 같은 타입.
type TrendForecaster struct {
	name     string
	searcher OrderSearcher
	fit      FitOptions
	log      zerolog.Logger
}

// NewTrendForecaster 비계절 추세 예측기 생성
func NewTrendForecaster(searcher OrderSearcher, fit FitOptions, log zerolog.Logger) *TrendForecaster {
	return &TrendForecaster{
		name:     contracts.ModelTrend,
		searcher: searcher,
		fit:      fit,
		log:      log.With().Str("component", "forecast.trend").Logger(),
	}
}

// NewSeasonalForecaster 계절 추세 예측기 생성.
// 비계절 예측기와 적합 상태를 공유하지 않음.
func NewSeasonalForecaster(searcher OrderSearcher, fit FitOptions, log zerolog.Logger) *TrendForecaster {
	return &TrendForecaster{
		name:     contracts.ModelSeasonal,
		searcher: searcher,
		fit:      fit,
		log:      log.With().Str("component", "forecast.seasonal").Logger(),
	}
}

// Name 번들과 메트릭에 쓰는 모델 이름
func (f *TrendForecaster) Name() string {
	return f.name
}

// Forecast 차수 탐색 후 전체 이력으로 재적합하여 steps 개 수익률 예측
func (f *TrendForecaster) Forecast(
	ctx context.Context,
	lastDate time.Time,
	lastPrice float64,
	returns contracts.ReturnSeries,
	steps int,
) (*ModelForecast, error) {
	if len(returns) == 0 {
		return nil, fmt.Errorf("%s: empty return series: %w", f.name, contracts.ErrDataInsufficient)
	}

	order, err := f.searcher.Search(ctx, returns)
	if err != nil {
		if errors.Is(err, contracts.ErrDataInsufficient) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: order search: %v: %w", f.name, err, contracts.ErrModelFit)
	}

	fit, err := FitARIMA(returns, order, f.fit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}

	projected := fit.Forecast(steps)
	for _, r := range projected {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%s: %s projected non-finite return: %w", f.name, order, contracts.ErrModelFit)
		}
	}

	f.log.Debug().
		Str("order", order.String()).
		Float64("aic", fit.AIC).
		Bool("degenerate", fit.Degenerate).
		Int("steps", steps).
		Msg("model fitted")

	return &ModelForecast{
		Model:   order.String(),
		Returns: projected,
		Path:    series.Path(lastDate, lastPrice, projected),
	}, nil
}
