package analytics

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/marketdata"
)

// Holding 가상 포지션 하나: 첫 가격에 1주 매수
type Holding struct {
	Symbol        string  `json:"symbol"`
	Quantity      int     `json:"quantity"`
	AvgCost       float64 `json:"avg_cost"`
	LTP           float64 `json:"ltp"`
	Invested      float64 `json:"invested"`
	CurrentValue  float64 `json:"current_value"`
	ProfitLoss    float64 `json:"profit_loss"`
	ProfitLossPct float64 `json:"profit_loss_pct"`
	TodayPL       float64 `json:"today_pl"`
}

// PortfolioTotals 반올림된 보유 가치 합계
type PortfolioTotals struct {
	TotalInvested     float64 `json:"total_invested"`
	TotalCurrentValue float64 `json:"total_current_value"`
	TotalProfitLoss   float64 `json:"total_profit_loss"`
	TotalTodayPL      float64 `json:"total_today_pl"`
	Date              string  `json:"date"`
}

// Portfolio 가상 보유 리포트
type Portfolio struct {
	Holdings []Holding       `json:"holdings"`
	Totals   PortfolioTotals `json:"totals"`
}

// Portfolio 가상 리포트 생성 (빈 테이블은 보유 없음)
func (s *Service) Portfolio(ctx context.Context) (*Portfolio, error) {
	t, err := s.table(ctx)
	if errors.Is(err, contracts.ErrDataInsufficient) {
		return &Portfolio{Holdings: []Holding{}}, nil
	}
	if err != nil {
		return nil, err
	}

	out := &Portfolio{Holdings: make([]Holding, 0, len(t.Symbols))}
	var invested, current, pl, today decimal.Decimal

	for _, sym := range t.Symbols {
		h, ok := holdingOf(sym, t)
		if !ok {
			continue
		}
		out.Holdings = append(out.Holdings, h)

		invested = invested.Add(decimal.NewFromFloat(h.Invested))
		current = current.Add(decimal.NewFromFloat(h.CurrentValue))
		pl = pl.Add(decimal.NewFromFloat(h.ProfitLoss))
		today = today.Add(decimal.NewFromFloat(h.TodayPL))
	}

	out.Totals = PortfolioTotals{
		TotalInvested:     invested.InexactFloat64(),
		TotalCurrentValue: current.InexactFloat64(),
		TotalProfitLoss:   pl.InexactFloat64(),
		TotalTodayPL:      today.InexactFloat64(),
		Date:              lastDate(t),
	}
	return out, nil
}

func holdingOf(sym string, t *contracts.PriceTable) (Holding, bool) {
	filled := prices(t, sym)
	if len(filled) == 0 {
		return Holding{}, false
	}
	last, prev := lastTwo(t.Columns[sym])
	if !finite(last) {
		return Holding{}, false
	}

	cost := decimal.NewFromFloat(filled[0])
	ltp := decimal.NewFromFloat(last)
	profit := ltp.Sub(cost)

	profitPct := decimal.Zero
	if !cost.IsZero() {
		profitPct = profit.Div(cost).Mul(decimal.NewFromInt(100))
	}
	todayPL := decimal.Zero
	if finite(prev) {
		todayPL = ltp.Sub(decimal.NewFromFloat(prev))
	}

	return Holding{
		Symbol:        sym,
		Quantity:      1,
		AvgCost:       cost.Round(2).InexactFloat64(),
		LTP:           last,
		Invested:      cost.Round(2).InexactFloat64(),
		CurrentValue:  ltp.Round(2).InexactFloat64(),
		ProfitLoss:    profit.Round(2).InexactFloat64(),
		ProfitLossPct: profitPct.Round(2).InexactFloat64(),
		TodayPL:       todayPL.Round(2).InexactFloat64(),
	}, true
}

// SymbolInfo 선택 가능한 종목 하나
type SymbolInfo struct {
	Value   string `json:"value"`
	Display string `json:"display"`
	Full    string `json:"full"`
}

// AvailableSymbols 가격이 하나라도 있는 모든 컬럼
func (s *Service) AvailableSymbols(ctx context.Context) ([]SymbolInfo, error) {
	t, err := s.prices.Table(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SymbolInfo, 0, len(t.Symbols))
	for _, sym := range t.Symbols {
		if len(prices(t, sym)) == 0 {
			continue
		}
		out = append(out, SymbolInfo{Value: sym, Display: marketdata.DisplayName(sym), Full: sym})
	}
	return out, nil
}
