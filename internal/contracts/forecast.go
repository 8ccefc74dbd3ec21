package contracts

import (
	"encoding/json"
	"time"
)

// 번들, 실패, 메트릭에 쓰는 모델 이름
const (
	ModelTrend      = "trend"
	ModelSeasonal   = "seasonal"
	ModelVolatility = "volatility"
)

// DefaultSteps 기본 예측 기간 (일)
const DefaultSteps = 30

// Direction 예측 기간 끝의 추세 방향
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// ForecastPoint 미래 가상 거래일 하나
type ForecastPoint struct {
	Date  time.Time
	Price float64
}

// MarshalJSON 날짜를 YYYY-MM-DD 로 직렬화
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(datedPrice{Date: p.Date.Format(DateLayout), Price: p.Price})
}

// UnmarshalJSON YYYY-MM-DD 형식 파싱
func (p *ForecastPoint) UnmarshalJSON(b []byte) error {
	var pp PricePoint
	if err := pp.UnmarshalJSON(b); err != nil {
		return err
	}
	p.Date, p.Price = pp.Date, pp.Price
	return nil
}

// ForecastBundle 3개 모델 예측 묶음
// Symbol 의 캐시 항목이 소유하며 저장 후 변경하지 않음.
// Direction 이 nil 이면 추세 모델 실패, 경로가 nil 이면 해당 모델 실패 (Failures 참고).
type ForecastBundle struct {
	Symbol    string    `json:"symbol"`
	Steps     int       `json:"steps"`
	LastDate  time.Time `json:"last_date"`
	LastPrice float64   `json:"last_price"`

	Trend      []ForecastPoint `json:"trend"`
	Seasonal   []ForecastPoint `json:"seasonal"`
	Volatility []ForecastPoint `json:"volatility"` // one simulated path, not an expected path

	Direction *Direction `json:"direction"`

	TrendModel      string `json:"trend_model,omitempty"`
	SeasonalModel   string `json:"seasonal_model,omitempty"`
	VolatilityModel string `json:"volatility_model,omitempty"`

	Failures    map[string]string `json:"failures,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// HasDirection 추세 모델이 방향을 냈는지 여부
func (b *ForecastBundle) HasDirection() bool {
	return b != nil && b.Direction != nil
}

// Empty 경로를 낸 모델이 하나도 없는지 여부
func (b *ForecastBundle) Empty() bool {
	return len(b.Trend) == 0 && len(b.Seasonal) == 0 && len(b.Volatility) == 0
}

// VolatilityAnalysis GARCH(1,1) 적합 결과 리포트
type VolatilityAnalysis struct {
	Symbol             string    `json:"symbol"`        // 요청한 심볼
	ActualSymbol       string    `json:"actual_symbol"` // 해석된 가격 컬럼
	ModelType          string    `json:"model_type"`
	Omega              float64   `json:"omega"`
	Alpha              float64   `json:"alpha[1]"`
	Beta               float64   `json:"beta[1]"`
	Persistence        float64   `json:"persistence"`
	LogLikelihood      float64   `json:"log_likelihood"`
	AIC                float64   `json:"aic"`
	BIC                float64   `json:"bic"`
	CurrentVolatility  float64   `json:"current_volatility"`
	VolatilityForecast []float64 `json:"volatility_forecast"`
	DataPoints         int       `json:"data_points"`
	ReturnsCount       int       `json:"returns_count"`
	MeanReturn         float64   `json:"mean_return"`
	StdReturn          float64   `json:"std_return"`
}
