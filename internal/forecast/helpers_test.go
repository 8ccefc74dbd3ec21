package forecast

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
)

func simulateAR1(seed int64, n int, phi, sigma float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	prev := 0.0
	for i := range out {
		prev = phi*prev + sigma*rng.NormFloat64()
		out[i] = prev
	}
	return out
}

func simulateAR2(seed int64, n int, phi1, phi2 float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	var p1, p2 float64
	for i := range out {
		v := phi1*p1 + phi2*p2 + rng.NormFloat64()
		p2, p1 = p1, v
		out[i] = v
	}
	return out
}

func simulateMA1(seed int64, n int, theta, sigma float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	prevE := 0.0
	for i := range out {
		e := sigma * rng.NormFloat64()
		out[i] = e + theta*prevE
		prevE = e
	}
	return out
}

func simulateGARCH(seed int64, n int, omega, alpha, beta float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	sigma2 := omega / (1 - alpha - beta)
	prev := 0.0
	for i := range out {
		sigma2 = omega + alpha*prev*prev + beta*sigma2
		prev = math.Sqrt(sigma2) * rng.NormFloat64()
		out[i] = prev
	}
	return out
}

func startDate() time.Time {
	return time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
}

// increasingSeries is strictly increasing with noisy positive daily moves
func increasingSeries(symbol string, n int, seed int64) contracts.PriceSeries {
	rng := rand.New(rand.NewSource(seed))
	points := make([]contracts.PricePoint, n)
	p := 100.0
	for i := range points {
		points[i] = contracts.PricePoint{Date: startDate().AddDate(0, 0, i), Price: p}
		p *= math.Exp(0.0005 + math.Abs(rng.NormFloat64())*0.01)
	}
	return contracts.PriceSeries{Symbol: symbol, Points: points}
}

func flatSeries(symbol string, n int, price float64) contracts.PriceSeries {
	points := make([]contracts.PricePoint, n)
	for i := range points {
		points[i] = contracts.PricePoint{Date: startDate().AddDate(0, 0, i), Price: price}
	}
	return contracts.PriceSeries{Symbol: symbol, Points: points}
}

// stubPrices is an in-memory PriceProvider
type stubPrices struct {
	mu     sync.Mutex
	series map[string]contracts.PriceSeries
	calls  int
}

func newStubPrices(ss ...contracts.PriceSeries) *stubPrices {
	m := make(map[string]contracts.PriceSeries, len(ss))
	for _, s := range ss {
		m[s.Symbol] = s
	}
	return &stubPrices{series: m}
}

func (p *stubPrices) Series(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	s, ok := p.series[symbol]
	if !ok {
		return contracts.PriceSeries{}, contracts.ErrSymbolNotFound
	}
	return s, nil
}

func (p *stubPrices) Table(ctx context.Context) (*contracts.PriceTable, error) {
	return nil, errors.New("not implemented")
}

// countingModel projects a constant return and counts fits
type countingModel struct {
	name  string
	ret   float64
	err   error
	panic bool
	calls atomic.Int64
	delay time.Duration
}

func (m *countingModel) Name() string { return m.name }

func (m *countingModel) Forecast(ctx context.Context, lastDate time.Time, lastPrice float64, returns contracts.ReturnSeries, steps int) (*ModelForecast, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panic {
		panic("numerical blow-up")
	}
	if m.err != nil {
		return nil, m.err
	}
	r := make([]float64, steps)
	for i := range r {
		r[i] = m.ret
	}
	return &ModelForecast{Model: m.name + "-stub", Returns: r, Path: series.Path(lastDate, lastPrice, r)}, nil
}
