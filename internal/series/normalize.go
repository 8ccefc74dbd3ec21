// Package series turns raw price columns into clean price series and log-returns,
// and maps forecast returns back to price paths.
package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// MinPoints 예측에 필요한 최소 가격 수
const MinPoints = 2

// Normalize 원시 날짜별 가격 컬럼 정리:
//   - 날짜는 UTC 달력일로 자르고 정렬
//   - 중복 날짜는 하나로 합침 (나중 입력 우선)
//   - 결측 (NaN/Inf) 가격은 앞으로 채운 뒤 뒤로 채움
//
// 쓸 수 있는 포인트가 MinPoints 미만이면 ErrDataInsufficient.
func Normalize(symbol string, raw []contracts.PricePoint) (contracts.PriceSeries, error) {
	points := make([]contracts.PricePoint, len(raw))
	for i, p := range raw {
		points[i] = contracts.PricePoint{Date: CalendarDay(p.Date), Price: p.Price}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	// Collapse duplicates, last wins
	dedup := points[:0]
	for _, p := range points {
		if n := len(dedup); n > 0 && dedup[n-1].Date.Equal(p.Date) {
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}

	fill(dedup)

	out := make([]contracts.PricePoint, 0, len(dedup))
	for _, p := range dedup {
		if isFinite(p.Price) {
			out = append(out, p)
		}
	}

	s := contracts.PriceSeries{Symbol: symbol, Points: out}
	if len(out) < MinPoints {
		return s, fmt.Errorf("%s: %d valid prices: %w", symbol, len(out), contracts.ErrDataInsufficient)
	}
	return s, nil
}

// FillColumn 결측값을 제자리에서 앞으로 채운 뒤 뒤로 채움
func FillColumn(col []float64) {
	last := math.NaN()
	for i, v := range col {
		if isFinite(v) {
			last = v
		} else {
			col[i] = last
		}
	}
	next := math.NaN()
	for i := len(col) - 1; i >= 0; i-- {
		if isFinite(col[i]) {
			next = col[i]
		} else {
			col[i] = next
		}
	}
}

func fill(points []contracts.PricePoint) {
	col := make([]float64, len(points))
	for i, p := range points {
		col[i] = p.Price
	}
	FillColumn(col)
	for i := range points {
		points[i].Price = col[i]
	}
}

// CalendarDay t 를 해당 달력일 UTC 자정으로 자름
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
