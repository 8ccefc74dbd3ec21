package forecast

import (
	"fmt"
	"strings"
)

// Order (계절) ARIMA 사양: ARIMA(p,d,q)(P,D,Q)[m]
type Order struct {
	P, D, Q    int
	SP, SD, SQ int // seasonal P, D, Q
	Period     int // seasonal period m; <= 1 means non-seasonal
	Constant   bool
}

// Seasonal 계절 항이 있는지 여부
func (o Order) Seasonal() bool {
	return o.Period > 1 && (o.SP > 0 || o.SD > 0 || o.SQ > 0)
}

// NumCoef 추정되는 평균식 계수 수 (혁신 분산 제외)
func (o Order) NumCoef() int {
	k := o.P + o.Q
	if o.Seasonal() {
		k += o.SP + o.SQ
	}
	if o.Constant {
		k++
	}
	return k
}

// arLags / maLags are the highest lags after expanding the seasonal polynomials
func (o Order) arLags() int {
	if o.Seasonal() {
		return o.P + o.SP*o.Period
	}
	return o.P
}

func (o Order) maLags() int {
	if o.Seasonal() {
		return o.Q + o.SQ*o.Period
	}
	return o.Q
}

// String ARIMA(p,d,q) 또는 ARIMA(p,d,q)(P,D,Q)[m] 와 상수항 표시
func (o Order) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
	if o.Seasonal() {
		fmt.Fprintf(&b, "(%d,%d,%d)[%d]", o.SP, o.SD, o.SQ, o.Period)
	}
	if o.Constant {
		if o.D+o.SD > 0 {
			b.WriteString(" with drift")
		} else {
			b.WriteString(" with constant")
		}
	}
	return b.String()
}
