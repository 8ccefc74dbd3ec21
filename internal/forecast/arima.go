package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// zeroVariance below this a (differenced) series is treated as constant
const zeroVariance = 1e-20

// stationarityPenalty is returned for parameters outside the admissible region
const stationarityPenalty = 1e10

// FitOptions 한 번의 최대우도 / CSS 최적화 한도
type FitOptions struct {
	MaxEvaluations int // per fit; 0 = 1000 * (k+1)
	Tolerance      float64
}

// DefaultFitOptions 설정이 없을 때 사용
func DefaultFitOptions() FitOptions {
	return FitOptions{Tolerance: 1e-9}
}

// Criterion 차수 탐색이 최소화하는 정보 기준
type Criterion string

const (
	CriterionAIC  Criterion = "aic"
	CriterionAICc Criterion = "aicc"
	CriterionBIC  Criterion = "bic"
)

// ARIMAFit 예측 가능한 적합 모델
type ARIMAFit struct {
	Order Order

	AR   []float64 // non-seasonal phi
	MA   []float64 // non-seasonal theta
	SAR  []float64 // seasonal Phi
	SMA  []float64 // seasonal Theta
	Mean float64   // mean of the differenced series (constant or drift)

	Sigma2 float64
	LogLik float64
	AIC    float64
	AICc   float64
	BIC    float64
	NObs   int // residuals that entered the likelihood

	// Degenerate is set for a zero-variance differenced series:
	// a white-noise model that projects its mean.
	Degenerate bool

	levels    [][]float64 // series before each differencing step
	lags      []int       // lag of each differencing step
	w         []float64   // fully differenced series
	resid     []float64
	arPoly    []float64 // expanded AR lag coefficients
	maPoly    []float64 // expanded MA lag coefficients
	residFrom int
}

// Criterion 요청한 정보 기준 값
func (f *ARIMAFit) Criterion(c Criterion) float64 {
	switch c {
	case CriterionAICc:
		return f.AICc
	case CriterionBIC:
		return f.BIC
	default:
		return f.AIC
	}
}

// FitARIMA Nelder-Mead 조건부 제곱합으로 y 에 order 적합.
// 미수렴 또는 수치 실패는 ErrModelFit.
func FitARIMA(y []float64, order Order, opts FitOptions) (*ARIMAFit, error) {
	if len(y) == 0 {
		return nil, fmt.Errorf("%s: empty series: %w", order, contracts.ErrDataInsufficient)
	}

	levels, lags, w := difference(y, order)
	if len(w) == 0 {
		return nil, fmt.Errorf("%s: nothing left after differencing: %w", order, contracts.ErrModelFit)
	}

	fit := &ARIMAFit{Order: order, levels: levels, lags: lags, w: w}

	mean, variance := stat.MeanVariance(w, nil)
	if len(w) == 1 || math.IsNaN(variance) {
		variance = 0
	}
	if variance <= zeroVariance {
		fit.Degenerate = true
		fit.Mean = mean
		fit.resid = make([]float64, len(w))
		fit.NObs = len(w)
		return fit, nil
	}

	start := order.arLags()
	nEff := len(w) - start
	k := order.NumCoef()
	if nEff <= k+1 {
		return nil, fmt.Errorf("%s: %d observations for %d coefficients: %w", order, nEff, k, contracts.ErrModelFit)
	}

	sd := math.Sqrt(variance)
	unpack := func(x []float64) (ar, ma, sar, sma []float64, mu float64) {
		i := 0
		take := func(n int) []float64 {
			s := x[i : i+n]
			i += n
			return s
		}
		ar = take(order.P)
		ma = take(order.Q)
		if order.Seasonal() {
			sar = take(order.SP)
			sma = take(order.SQ)
		}
		if order.Constant {
			// 평균은 표준편차 단위로 재모수화
			mu = mean + x[i]*sd
		}
		return
	}

	objective := func(x []float64) float64 {
		ar, ma, sar, sma, mu := unpack(x)
		if !stationary(ar) || !invertible(ma) || !stationary(sar) || !invertible(sma) {
			return stationarityPenalty
		}
		arPoly, maPoly := expand(order, ar, ma, sar, sma)
		css := conditionalSS(w, mu, arPoly, maPoly, start, nil)
		v := css / (float64(nEff) * variance)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return stationarityPenalty
		}
		return v
	}

	x := make([]float64, k)
	if k > 0 {
		maxEval := opts.MaxEvaluations
		if maxEval <= 0 {
			maxEval = 1000 * (k + 1)
		}
		tol := opts.Tolerance
		if tol <= 0 {
			tol = 1e-9
		}
		res, err := optimize.Minimize(
			optimize.Problem{Func: objective},
			x,
			&optimize.Settings{
				FuncEvaluations: maxEval,
				Converger: &optimize.FunctionConverge{
					Absolute:   tol,
					Relative:   tol,
					Iterations: 100,
				},
			},
			&optimize.NelderMead{SimplexSize: 0.1},
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", order, err, contracts.ErrModelFit)
		}
		if !converged(res.Status) {
			return nil, fmt.Errorf("%s: optimizer stopped with %s: %w", order, res.Status, contracts.ErrModelFit)
		}
		if res.F >= stationarityPenalty {
			return nil, fmt.Errorf("%s: no admissible parameters: %w", order, contracts.ErrModelFit)
		}
		copy(x, res.X)
	}

	ar, ma, sar, sma, mu := unpack(x)
	fit.AR = append([]float64(nil), ar...)
	fit.MA = append([]float64(nil), ma...)
	fit.SAR = append([]float64(nil), sar...)
	fit.SMA = append([]float64(nil), sma...)
	fit.Mean = mu
	if !order.Constant {
		fit.Mean = 0
	}
	fit.arPoly, fit.maPoly = expand(order, fit.AR, fit.MA, fit.SAR, fit.SMA)
	fit.residFrom = start
	fit.resid = make([]float64, len(w))
	css := conditionalSS(w, fit.Mean, fit.arPoly, fit.maPoly, start, fit.resid)

	fit.NObs = nEff
	fit.Sigma2 = math.Max(css/float64(nEff), math.SmallestNonzeroFloat64)
	n := float64(nEff)
	fit.LogLik = -0.5 * n * (math.Log(2*math.Pi*fit.Sigma2) + 1)

	params := float64(k + 1) // + sigma2
	fit.AIC = -2*fit.LogLik + 2*params
	fit.BIC = -2*fit.LogLik + params*math.Log(n)
	if n-params-1 > 0 {
		fit.AICc = fit.AIC + 2*params*(params+1)/(n-params-1)
	} else {
		fit.AICc = math.Inf(1)
	}

	if math.IsNaN(fit.LogLik) || math.IsInf(fit.LogLik, 0) {
		return nil, fmt.Errorf("%s: non-finite likelihood: %w", order, contracts.ErrModelFit)
	}
	return fit, nil
}

// Forecast 원 시계열(차분 전) 기준 steps 개 값 예측
func (f *ARIMAFit) Forecast(steps int) []float64 {
	if steps <= 0 {
		return nil
	}

	n := len(f.w)
	ext := make([]float64, n, n+steps)
	copy(ext, f.w)

	for h := 0; h < steps; h++ {
		t := n + h
		v := f.Mean
		if !f.Degenerate {
			for k, a := range f.arPoly {
				if t-k-1 >= 0 {
					v += a * (ext[t-k-1] - f.Mean)
				}
			}
			for k, m := range f.maPoly {
				j := t - k - 1
				if j >= f.residFrom && j < n {
					v += m * f.resid[j]
				}
			}
		}
		ext = append(ext, v)
	}

	future := ext[n:]
	// Undo differencing, innermost first
	for i := len(f.lags) - 1; i >= 0; i-- {
		future = integrate(f.levels[i], f.lags[i], future)
	}
	return future
}

// Residuals 차분 시계열의 조건부 잔차
func (f *ARIMAFit) Residuals() []float64 {
	return f.resid
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit, optimize.Failure:
		return false
	}
	return true
}

// stationary 1 - Σφ_i z^i 의 모든 근이 단위원 밖에 있는지 확인 (Schur-Cohn).
// Levinson 재귀를 역으로 돌려 반사계수 k_p..k_1 을 구하고, 모두 |k| < 1 이면 정상.
func stationary(phi []float64) bool {
	a := append([]float64(nil), phi...)
	for p := len(a); p > 0; p-- {
		k := a[p-1]
		if math.IsNaN(k) || math.Abs(k) >= 1 {
			return false
		}
		den := 1 - k*k
		next := make([]float64, p-1)
		for j := 0; j < p-1; j++ {
			next[j] = (a[j] + k*a[p-2-j]) / den
		}
		a = next
	}
	return true
}

// invertible 1 + Σθ_i z^i 가역성: φ = -θ 의 정상성과 동일
func invertible(theta []float64) bool {
	neg := make([]float64, len(theta))
	for i, t := range theta {
		neg[i] = -t
	}
	return stationary(neg)
}

// expand multiplies the non-seasonal and seasonal lag polynomials.
// AR: (1 - Σφ B^i)(1 - ΣΦ B^{mj}); MA: (1 + Σθ B^i)(1 + ΣΘ B^{mj}).
// Returned slices hold the lag-1..L coefficients in "x_t = Σ a_k x_{t-k} + e_t + Σ m_k e_{t-k}" form.
func expand(o Order, ar, ma, sar, sma []float64) (arPoly, maPoly []float64) {
	m := o.Period
	if !o.Seasonal() {
		m = 1
		sar, sma = nil, nil
	}

	a := polyMul(lagPoly(ar, 1, -1), lagPoly(sar, m, -1))
	arPoly = make([]float64, len(a)-1)
	for i := range arPoly {
		arPoly[i] = -a[i+1]
	}

	b := polyMul(lagPoly(ma, 1, 1), lagPoly(sma, m, 1))
	maPoly = make([]float64, len(b)-1)
	copy(maPoly, b[1:])
	return arPoly, maPoly
}

// lagPoly builds 1 + sign*Σ c_i B^{step*i}
func lagPoly(c []float64, step int, sign float64) []float64 {
	p := make([]float64, len(c)*step+1)
	p[0] = 1
	for i, v := range c {
		p[(i+1)*step] = sign * v
	}
	return p
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// conditionalSS returns Σe² with pre-sample residuals set to zero.
// When resid is non-nil the residuals are written into it.
func conditionalSS(w []float64, mu float64, arPoly, maPoly []float64, start int, resid []float64) float64 {
	e := resid
	if e == nil {
		e = make([]float64, len(w))
	}
	css := 0.0
	for t := start; t < len(w); t++ {
		v := w[t] - mu
		for k, a := range arPoly {
			v -= a * (w[t-k-1] - mu)
		}
		for k, m := range maPoly {
			j := t - k - 1
			if j >= start {
				v -= m * e[j]
			}
		}
		e[t] = v
		css += v * v
	}
	return css
}

// difference applies d lag-1 then D lag-m differences.
// levels[i] is the series before step i.
func difference(y []float64, o Order) (levels [][]float64, lags []int, w []float64) {
	w = y
	for i := 0; i < o.D; i++ {
		lags = append(lags, 1)
	}
	if o.Period > 1 {
		for i := 0; i < o.SD; i++ {
			lags = append(lags, o.Period)
		}
	}
	for _, lag := range lags {
		levels = append(levels, w)
		w = diff(w, lag)
	}
	return levels, lags, w
}

func diff(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for i := range out {
		out[i] = x[i+lag] - x[i]
	}
	return out
}

// integrate inverts one lag-`lag` difference given the history before it
func integrate(history []float64, lag int, future []float64) []float64 {
	ext := make([]float64, len(history), len(history)+len(future))
	copy(ext, history)
	for _, v := range future {
		ext = append(ext, ext[len(ext)-lag]+v)
	}
	return ext[len(history):]
}
