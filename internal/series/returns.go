package series

import (
	"fmt"
	"math"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// LogReturns s 의 양수 가격에 대한 ln(p[t]) - ln(p[t-1]).
// 결과는 양수 가격보다 하나 짧다. 양수 가격이 둘 미만이면
// 빈 시리즈와 ErrDataInsufficient.
func LogReturns(s contracts.PriceSeries) (contracts.ReturnSeries, error) {
	logs := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Price > 0 && isFinite(p.Price) {
			logs = append(logs, math.Log(p.Price))
		}
	}

	if len(logs) < MinPoints {
		return contracts.ReturnSeries{}, fmt.Errorf("%s: %d positive prices: %w", s.Symbol, len(logs), contracts.ErrDataInsufficient)
	}

	out := make(contracts.ReturnSeries, len(logs)-1)
	for i := 1; i < len(logs); i++ {
		out[i-1] = logs[i] - logs[i-1]
	}
	return out, nil
}

// SimpleReturns p[t]/p[t-1] - 1 (기준가가 양수가 아닌 쌍은 건너뜀)
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 {
			continue
		}
		out = append(out, prices[i]/prices[i-1]-1)
	}
	return out
}
