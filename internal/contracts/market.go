package contracts

import (
	"encoding/json"
	"math"
	"time"
)

// DateLayout 모든 달력 날짜의 전송 형식
const DateLayout = "2006-01-02"

// PricePoint 일별 가격 (date, price)
type PricePoint struct {
	Date  time.Time
	Price float64
}

// MarshalJSON 날짜를 YYYY-MM-DD 로 직렬화
func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(datedPrice{Date: p.Date.Format(DateLayout), Price: p.Price})
}

// UnmarshalJSON YYYY-MM-DD 형식 파싱
func (p *PricePoint) UnmarshalJSON(b []byte) error {
	var dp datedPrice
	if err := json.Unmarshal(b, &dp); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, dp.Date)
	if err != nil {
		return err
	}
	p.Date, p.Price = d, dp.Price
	return nil
}

type datedPrice struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PriceSeries 한 종목의 순서 있는 가격 이력.
// 정규화 후: 날짜 엄격 증가, 가격은 모두 유한값.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len 포인트 수
func (s PriceSeries) Len() int {
	return len(s.Points)
}

// Last 가장 최근 포인트 (빈 시리즈면 ok=false)
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Prices 가격 컬럼
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// Tail 마지막 n개 포인트 (n >= Len 이면 전체)
func (s PriceSeries) Tail(n int) []PricePoint {
	if n <= 0 {
		return nil
	}
	if n >= len(s.Points) {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

// ReturnSeries 로그수익률 시계열 (가격보다 1개 짧음, 유한값만)
type ReturnSeries []float64

// IsConstant 모든 값이 첫 값과 같은지 (빈 시리즈도 상수로 취급)
func (r ReturnSeries) IsConstant() bool {
	for _, v := range r {
		if v != r[0] {
			return false
		}
	}
	return true
}

// AllFinite NaN/Inf 값이 없는지 여부
func (r ReturnSeries) AllFinite() bool {
	for _, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// PriceTable 날짜 x 종목 가격 테이블
// ⭐ SSOT: 모든 분석/예측 입력은 이 테이블에서 나옴
type PriceTable struct {
	Dates   []time.Time
	Symbols []string             // column order as loaded
	Columns map[string][]float64 // len(column) == len(Dates)
}

// Len 행 수
func (t *PriceTable) Len() int {
	return len(t.Dates)
}

// Has symbol 컬럼 존재 여부
func (t *PriceTable) Has(symbol string) bool {
	_, ok := t.Columns[symbol]
	return ok
}

// Series 한 컬럼을 PriceSeries 로 추출 (NaN 셀 제외)
func (t *PriceTable) Series(symbol string) (PriceSeries, bool) {
	col, ok := t.Columns[symbol]
	if !ok {
		return PriceSeries{}, false
	}
	points := make([]PricePoint, 0, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		points = append(points, PricePoint{Date: t.Dates[i], Price: v})
	}
	return PriceSeries{Symbol: symbol, Points: points}, true
}
