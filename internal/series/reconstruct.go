package series

import (
	"math"
	"time"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// Reconstruct 로그수익률을 가격으로 변환: last * exp(cumsum(returns))
func Reconstruct(lastPrice float64, returns []float64) []float64 {
	out := make([]float64, len(returns))
	cum := 0.0
	for i, r := range returns {
		cum += r
		out[i] = lastPrice * math.Exp(cum)
	}
	return out
}

// FutureDates lastDate 이후 연속 달력일 steps 개.
// 주말과 휴일을 건너뛰지 않음.
func FutureDates(lastDate time.Time, steps int) []time.Time {
	if steps <= 0 {
		return nil
	}
	base := CalendarDay(lastDate)
	out := make([]time.Time, steps)
	for i := range out {
		out[i] = base.AddDate(0, 0, i+1)
	}
	return out
}

// Path 복원 가격과 미래 날짜를 짝지음
func Path(lastDate time.Time, lastPrice float64, returns []float64) []contracts.ForecastPoint {
	prices := Reconstruct(lastPrice, returns)
	dates := FutureDates(lastDate, len(prices))
	out := make([]contracts.ForecastPoint, len(prices))
	for i := range prices {
		out[i] = contracts.ForecastPoint{Date: dates[i], Price: prices[i]}
	}
	return out
}

// DirectionOf 마지막 경로 가격이 lastPrice 보다 엄격히 크면 UP.
// 같으면 DOWN. 빈 경로는 ok=false.
func DirectionOf(lastPrice float64, path []contracts.ForecastPoint) (contracts.Direction, bool) {
	if len(path) == 0 {
		return "", false
	}
	if path[len(path)-1].Price > lastPrice {
		return contracts.DirectionUp, true
	}
	return contracts.DirectionDown, true
}
