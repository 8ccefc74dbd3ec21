package forecast

import (
	"fmt"

	"github.com/rs/zerolog"
)

// 탐색 전략
const (
	StrategyStepwise = "stepwise"
	StrategyGrid     = "grid"
)

// NewSearcher strategy 에 맞는 차수 탐색기 생성
func NewSearcher(strategy string, cfg SearchConfig, log zerolog.Logger) (OrderSearcher, error) {
	switch strategy {
	case "", StrategyStepwise:
		return NewStepwiseSearch(cfg, log), nil
	case StrategyGrid:
		return NewGridSearch(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown order search strategy %q", strategy)
	}
}

// ModelSettings 세 예측기 생성에 필요한 설정
type ModelSettings struct {
	Strategy   string
	Trend      SearchConfig
	Seasonal   SearchConfig
	Volatility FitOptions
}

// DefaultModelSettings stepwise 탐색, 주기 12 계절 모델
func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		Strategy:   StrategyStepwise,
		Trend:      DefaultSearchConfig(),
		Seasonal:   DefaultSeasonalSearchConfig(),
		Volatility: FitOptions{MaxEvaluations: 5000, Tolerance: 1e-9},
	}
}

// NewModels 추세, 계절, 변동성 예측기 생성
func NewModels(s ModelSettings, src NormalSource, log zerolog.Logger) (Models, error) {
	trendSearch, err := NewSearcher(s.Strategy, s.Trend, log)
	if err != nil {
		return Models{}, err
	}
	seasonalSearch, err := NewSearcher(s.Strategy, s.Seasonal, log)
	if err != nil {
		return Models{}, err
	}

	vol := NewVolatilityForecaster(src, s.Volatility, log)
	return Models{
		Trend:      NewTrendForecaster(trendSearch, s.Trend.Fit, log),
		Seasonal:   NewSeasonalForecaster(seasonalSearch, s.Seasonal.Fit, log),
		Volatility: vol,
		Analyzer:   vol,
	}, nil
}
