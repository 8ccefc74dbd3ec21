package analytics

import (
	"context"
	"fmt"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// IndexHistoryRows 지수 차트 이력 길이
const IndexHistoryRows = 200

// IndexSnapshot 전체 컬럼 동일가중 합성 지수
type IndexSnapshot struct {
	Value     float64 `json:"nifty_value"`
	ChangePct float64 `json:"change_pct"`
	Date      string  `json:"date"`
}

// IndexPoint 합성 지수 이력의 한 행
type IndexPoint struct {
	Date  Date    `json:"Date"`
	Value float64 `json:"NIFTY"`
}

// composite is the per-row mean of every finite cell
func composite(t *contracts.PriceTable) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		sum, n := 0.0, 0
		for _, sym := range t.Symbols {
			if v := t.Columns[sym][i]; finite(v) {
				sum += v
				n++
			}
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// Index 최신 합성 지수 값과 직전 행 대비 변화
func (s *Service) Index(ctx context.Context) (*IndexSnapshot, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	if t.Len() < 2 {
		return nil, fmt.Errorf("index needs two rows, have %d: %w", t.Len(), contracts.ErrDataInsufficient)
	}

	idx := composite(t)
	last, prev := lastTwo(idx)
	return &IndexSnapshot{
		Value:     round2(last),
		ChangePct: round2(pctChange(last, prev)),
		Date:      lastDate(t),
	}, nil
}

// IndexHistory 마지막 IndexHistoryRows 개 합성 지수 값
func (s *Service) IndexHistory(ctx context.Context) ([]IndexPoint, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	idx := composite(t)
	from := max(0, len(idx)-IndexHistoryRows)
	out := make([]IndexPoint, 0, len(idx)-from)
	for i := from; i < len(idx); i++ {
		out = append(out, IndexPoint{Date: Date(t.Dates[i]), Value: idx[i]})
	}
	return out, nil
}

// StockSnapshot 한 컬럼의 최신 값과 직전 행 대비 변화
type StockSnapshot struct {
	Symbol    string  `json:"symbol"`
	Latest    float64 `json:"latest_value"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Date      string  `json:"date"`
}

// Stock symbol 스냅샷 (컬럼명 정확히 일치)
func (s *Service) Stock(ctx context.Context, symbol string) (*StockSnapshot, error) {
	t, err := s.prices.Table(ctx)
	if err != nil {
		return nil, err
	}
	col, ok := t.Columns[symbol]
	if !ok || t.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
	}

	// rows where the symbol has a value
	var vals []float64
	var lastIdx int
	for i, v := range col {
		if finite(v) {
			vals = append(vals, v)
			lastIdx = i
		}
	}
	if len(vals) < 2 {
		return nil, fmt.Errorf("%s: %d prices: %w", symbol, len(vals), contracts.ErrDataInsufficient)
	}

	last, prev := lastTwo(vals)
	return &StockSnapshot{
		Symbol:    symbol,
		Latest:    round2(last),
		Change:    round2(last - prev),
		ChangePct: round2(pctChange(last, prev)),
		Date:      t.Dates[lastIdx].Format(DisplayDateLayout),
	}, nil
}
