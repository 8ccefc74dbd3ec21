package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// kpssCritical5 is the 5% critical value of the KPSS level-stationarity statistic
const kpssCritical5 = 0.463

// KPSS 수준 정상성 통계량. Bartlett 장기분산, trunc(3*sqrt(n)/13) 시차.
// 값이 크면 정상성 기각.
func KPSS(x []float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}

	mean := stat.Mean(x, nil)
	e := make([]float64, n)
	for i, v := range x {
		e[i] = v - mean
	}

	var eta, s float64
	for _, v := range e {
		s += v
		eta += s * s
	}
	eta /= float64(n) * float64(n)

	lags := int(3 * math.Sqrt(float64(n)) / 13)
	lrv := 0.0
	for _, v := range e {
		lrv += v * v
	}
	for l := 1; l <= lags; l++ {
		cov := 0.0
		for t := l; t < n; t++ {
			cov += e[t] * e[t-l]
		}
		lrv += 2 * (1 - float64(l)/float64(lags+1)) * cov
	}
	lrv /= float64(n)

	if lrv <= 0 {
		return 0
	}
	return eta / lrv
}

// NDiffs 차분 차수 선택: 5% 수준에서 KPSS 가 기각하는 동안 maxD 까지 차분.
// 상수 시계열은 차분 불필요.
func NDiffs(x []float64, maxD int) int {
	d := 0
	for d < maxD {
		if len(x) < 3 || isConstant(x) {
			return d
		}
		if KPSS(x) <= kpssCritical5 {
			return d
		}
		x = diff(x, 1)
		d++
	}
	return d
}

func isConstant(x []float64) bool {
	if len(x) < 2 {
		return true
	}
	_, v := stat.MeanVariance(x, nil)
	return math.IsNaN(v) || v <= zeroVariance
}
