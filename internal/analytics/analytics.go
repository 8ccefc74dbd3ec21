// Package analytics computes the descriptive market views over the price table:
// composite index, movers, breadth, risk ranking and a synthetic portfolio.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// DisplayDateLayout 시장 화면용 dd-mm-yyyy 날짜 형식
const DisplayDateLayout = "02-01-2006"

// Service 제공자의 현재 테이블로 모든 화면 지표 계산
// ⭐ SSOT: 시장 분석 지표는 여기서만 계산
type Service struct {
	prices contracts.PriceProvider
	log    zerolog.Logger
}

// NewService 분석 서비스 생성
func NewService(prices contracts.PriceProvider, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		log:    log.With().Str("component", "analytics.service").Logger(),
	}
}

// table loads the table; an empty one is ErrDataInsufficient
func (s *Service) table(ctx context.Context) (*contracts.PriceTable, error) {
	t, err := s.prices.Table(ctx)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("no price data: %w", contracts.ErrDataInsufficient)
	}
	return t, nil
}

// lastTwo returns the last and previous row values of col
func lastTwo(col []float64) (last, prev float64) {
	n := len(col)
	last = col[n-1]
	prev = last
	if n >= 2 {
		prev = col[n-2]
	}
	return last, prev
}

// prices is the column's finite values in date order
func prices(t *contracts.PriceTable, symbol string) []float64 {
	s, _ := t.Series(symbol)
	return s.Prices()
}

func lastDate(t *contracts.PriceTable) string {
	return t.Dates[t.Len()-1].Format(DisplayDateLayout)
}

func pctChange(last, prev float64) float64 {
	return (last - prev) / prev * 100
}

// round2 rounds half away from zero to cents
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Date YYYY-MM-DD 로 직렬화되는 달력 날짜
type Date time.Time

// MarshalJSON json.Marshaler 구현
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(contracts.DateLayout) + `"`), nil
}
