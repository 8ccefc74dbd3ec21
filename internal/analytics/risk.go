package analytics

import (
	"context"
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
)

// 위험 순위 상수
const (
	TradingDays         = 252
	MinRiskObservations = 300
	VaRConfidence       = 0.95
)

// RiskMetrics 한 종목의 연율화 위험 지표 (퍼센트)
type RiskMetrics struct {
	Symbol       string  `json:"symbol"`
	AnnualReturn float64 `json:"annual_return"`
	Volatility   float64 `json:"volatility"`
	Sharpe       float64 `json:"sharpe"`
	VaR95        float64 `json:"var_95"`
	CVaR95       float64 `json:"cvar_95"`
}

// TopStocks 세 가지로 자른 순위
type TopStocks struct {
	Top10     []RiskMetrics `json:"top_10"`
	Top5      []RiskMetrics `json:"top_5"`
	AllRanked []RiskMetrics `json:"all_ranked"`
}

// RiskRanking 이력이 충분한 종목을 Sharpe 비율 내림차순으로 정렬
func (s *Service) RiskRanking(ctx context.Context) ([]RiskMetrics, error) {
	t, err := s.table(ctx)
	if errors.Is(err, contracts.ErrDataInsufficient) {
		return []RiskMetrics{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]RiskMetrics, 0, len(t.Symbols))
	for _, sym := range t.Symbols {
		m, ok := riskOf(sym, prices(t, sym))
		if ok {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sharpe > out[j].Sharpe })

	s.log.Debug().Int("ranked", len(out)).Int("symbols", len(t.Symbols)).Msg("risk ranking computed")
	return out, nil
}

// TopStocks 전체 순위와 상위 10개, 상위 5개
func (s *Service) TopStocks(ctx context.Context) (*TopStocks, error) {
	ranked, err := s.RiskRanking(ctx)
	if err != nil {
		return nil, err
	}
	return &TopStocks{
		Top10:     head(ranked, 10),
		Top5:      head(ranked, 5),
		AllRanked: ranked,
	}, nil
}

func riskOf(symbol string, prices []float64) (RiskMetrics, bool) {
	if len(prices) < MinRiskObservations {
		return RiskMetrics{}, false
	}
	daily := series.SimpleReturns(prices)
	if len(daily) < 2 {
		return RiskMetrics{}, false
	}

	mean, vol := stat.MeanStdDev(daily, nil)
	annualReturn := math.Pow(1+mean, TradingDays) - 1
	annualVol := vol * math.Sqrt(TradingDays)
	sharpe := 0.0
	if annualVol != 0 {
		sharpe = annualReturn / annualVol
	}
	v := historicalVaR(daily, VaRConfidence)

	return RiskMetrics{
		Symbol:       symbol,
		AnnualReturn: round2(annualReturn * 100),
		Volatility:   round2(annualVol * 100),
		Sharpe:       round2(sharpe),
		VaR95:        round2(v.VaR * 100),
		CVaR95:       round2(v.CVaR * 100),
	}, true
}

// VaRResult 손실은 양수로 표현 (0.05 = 5% 손실)
type VaRResult struct {
	Confidence float64
	VaR        float64
	CVaR       float64
}

// historicalVaR Historical Simulation VaR/CVaR
func historicalVaR(returns []float64, confidence float64) VaRResult {
	if len(returns) == 0 {
		return VaRResult{Confidence: confidence}
	}

	// 오름차순: 손실이 앞에
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return VaRResult{
		Confidence: confidence,
		VaR:        loss(sorted[idx]),
		CVaR:       loss(stat.Mean(sorted[:idx+1], nil)),
	}
}

func loss(r float64) float64 {
	if r < 0 {
		return -r
	}
	return 0
}
