package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

const (
	// garchScale returns are fitted in percent for numerical stability
	garchScale = 100.0

	// backcast: exponentially weighted mean of the first squared returns
	backcastLambda = 0.94
	backcastWindow = 75

	minGarchObs = 3
)

// GarchFit 평균 0 GARCH(1,1) 적합 결과.
// Omega 와 분산은 percent² 단위, ForecastVariance 가 단위를 되돌림.
type GarchFit struct {
	Omega  float64
	Alpha  float64
	Beta   float64
	LogLik float64
	AIC    float64
	BIC    float64
	NObs   int

	lastSq     float64 // x_T²
	lastSigma2 float64 // σ²_T
}

// Persistence 지속성 α+β
func (g *GarchFit) Persistence() float64 {
	return g.Alpha + g.Beta
}

// FitGARCH σ²_t = ω + α x²_{t-1} + β σ²_{t-1} 가우시안 최대우도 적합.
// 분산 0 또는 비유한 입력, 최적화 실패는 ErrModelFit.
// ctx 가 취소되거나 마감되면 최적화를 중단하고 ctx.Err() 를 감싸 반환
func FitGARCH(ctx context.Context, returns []float64, opts FitOptions) (*GarchFit, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("garch: %w", err)
	}

	n := len(returns)
	if n < minGarchObs {
		return nil, fmt.Errorf("garch: %d returns: %w", n, contracts.ErrDataInsufficient)
	}

	x := make([]float64, n)
	for i, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("garch: non-finite return at %d: %w", i, contracts.ErrModelFit)
		}
		x[i] = r * garchScale
	}

	variance := stat.Variance(x, nil)
	if math.IsNaN(variance) || math.IsInf(variance, 0) || variance <= zeroVariance {
		return nil, fmt.Errorf("garch: zero variance returns: %w", contracts.ErrModelFit)
	}

	bc := backcast(x)

	// ω = exp(x0); α = u/(1+u+v), β = v/(1+u+v) with u = exp(x1), v = exp(x2)
	unpack := func(p []float64) (omega, alpha, beta float64) {
		u, v := math.Exp(p[1]), math.Exp(p[2])
		den := 1 + u + v
		return math.Exp(p[0]), u / den, v / den
	}

	nll := func(p []float64) float64 {
		omega, alpha, beta := unpack(p)
		ll, _ := garchLogLik(x, omega, alpha, beta, bc)
		if math.IsNaN(ll) || math.IsInf(ll, 0) {
			return stationarityPenalty
		}
		return -ll / float64(n)
	}

	// α=0.1, β=0.8 → u=1, v=8; ω matches the sample variance
	x0 := []float64{math.Log(variance * 0.1), 0, math.Log(8)}

	maxEval := opts.MaxEvaluations
	if maxEval <= 0 {
		maxEval = 5000
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = 1e-9
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEval,
		Converger: &ctxConverger{ctx: ctx, next: &optimize.FunctionConverge{
			Absolute:   tol,
			Relative:   tol,
			Iterations: 100,
		}},
	}
	if deadline, ok := ctx.Deadline(); ok {
		settings.Runtime = time.Until(deadline)
		if settings.Runtime <= 0 {
			return nil, fmt.Errorf("garch: %w", context.DeadlineExceeded)
		}
	}

	res, err := optimize.Minimize(optimize.Problem{Func: nll}, x0, settings, &optimize.NelderMead{SimplexSize: 0.5})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("garch: %w", ctxErr)
	}
	if err != nil {
		return nil, fmt.Errorf("garch: %v: %w", err, contracts.ErrModelFit)
	}
	if !converged(res.Status) {
		return nil, fmt.Errorf("garch: optimizer stopped with %s: %w", res.Status, contracts.ErrModelFit)
	}

	omega, alpha, beta := unpack(res.X)
	ll, lastSigma2 := garchLogLik(x, omega, alpha, beta, bc)
	if math.IsNaN(ll) || math.IsInf(ll, 0) || math.IsNaN(lastSigma2) || lastSigma2 <= 0 {
		return nil, fmt.Errorf("garch: non-finite likelihood: %w", contracts.ErrModelFit)
	}

	const k = 3.0
	return &GarchFit{
		Omega:      omega,
		Alpha:      alpha,
		Beta:       beta,
		LogLik:     ll,
		AIC:        2*k - 2*ll,
		BIC:        k*math.Log(float64(n)) - 2*ll,
		NObs:       n,
		lastSq:     x[n-1] * x[n-1],
		lastSigma2: lastSigma2,
	}, nil
}

// ForecastVariance 향후 h 기간 조건부 분산 (퍼센트가 아닌 수익률 제곱 단위)
func (g *GarchFit) ForecastVariance(h int) []float64 {
	if h <= 0 {
		return nil
	}
	out := make([]float64, h)
	v := g.Omega + g.Alpha*g.lastSq + g.Beta*g.lastSigma2
	for i := range out {
		if i > 0 {
			v = g.Omega + (g.Alpha+g.Beta)*v
		}
		out[i] = v / (garchScale * garchScale)
	}
	return out
}

// ForecastVolatility ForecastVariance 의 제곱근
func (g *GarchFit) ForecastVolatility(h int) []float64 {
	out := g.ForecastVariance(h)
	for i, v := range out {
		out[i] = math.Sqrt(v)
	}
	return out
}

// garchLogLik returns the Gaussian log-likelihood and the last conditional variance
func garchLogLik(x []float64, omega, alpha, beta, backcast float64) (float64, float64) {
	sigma2 := omega + alpha*backcast + beta*backcast
	ll := 0.0
	for t, v := range x {
		if t > 0 {
			sigma2 = omega + alpha*x[t-1]*x[t-1] + beta*sigma2
		}
		if sigma2 <= 0 {
			return math.NaN(), math.NaN()
		}
		ll += -0.5 * (math.Log(2*math.Pi) + math.Log(sigma2) + v*v/sigma2)
	}
	return ll, sigma2
}

func backcast(x []float64) float64 {
	m := min(backcastWindow, len(x))
	var num, den float64
	w := 1.0
	for i := 0; i < m; i++ {
		num += w * x[i] * x[i]
		den += w
		w *= backcastLambda
	}
	return num / den
}

// ctxConverger 매 반복마다 ctx 를 확인하고, 취소되면 RuntimeLimit 으로 최적화를 멈춤
type ctxConverger struct {
	ctx  context.Context
	next optimize.Converger
}

func (c *ctxConverger) Init(dim int) {
	c.next.Init(dim)
}

func (c *ctxConverger) Converged(loc *optimize.Location) optimize.Status {
	if c.ctx.Err() != nil {
		return optimize.RuntimeLimit
	}
	return c.next.Converged(loc)
}
