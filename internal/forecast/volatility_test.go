package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

func garchPrices(seed int64, n int) []float64 {
	r := simulateGARCH(seed, n-1, 2e-6, 0.1, 0.85)
	prices := make([]float64, n)
	prices[0] = 100
	for i, v := range r {
		prices[i+1] = prices[i] * math.Exp(v)
	}
	return prices
}

func TestVolatilityForecaster_SeededPathsRepeat(t *testing.T) {
	returns := contracts.ReturnSeries(simulateGARCH(5, 500, 2e-6, 0.1, 0.85))
	ctx := context.Background()

	a := NewVolatilityForecaster(NewNormalSource(99), FitOptions{}, zerolog.Nop())
	b := NewVolatilityForecaster(NewNormalSource(99), FitOptions{}, zerolog.Nop())

	fa, err := a.Forecast(ctx, startDate(), 50, returns, 30)
	require.NoError(t, err)
	fb, err := b.Forecast(ctx, startDate(), 50, returns, 30)
	require.NoError(t, err)

	require.Len(t, fa.Path, 30)
	assert.Equal(t, fa.Returns, fb.Returns)
	assert.Equal(t, fa.Path, fb.Path)
	assert.Equal(t, startDate().AddDate(0, 0, 1), fa.Path[0].Date)
	assert.Equal(t, startDate().AddDate(0, 0, 30), fa.Path[29].Date)
	assert.Equal(t, contracts.ModelVolatility, a.Name())

	// the source advances: a second draw differs
	fc, err := a.Forecast(ctx, startDate(), 50, returns, 30)
	require.NoError(t, err)
	assert.NotEqual(t, fa.Returns, fc.Returns)
}

func TestVolatilityForecaster_Errors(t *testing.T) {
	f := NewVolatilityForecaster(NewNormalSource(1), FitOptions{}, zerolog.Nop())

	_, err := f.Forecast(context.Background(), startDate(), 10, nil, 5)
	assert.ErrorIs(t, err, contracts.ErrDataInsufficient)

	_, err = f.Forecast(context.Background(), startDate(), 10, contracts.ReturnSeries{0, 0, 0, 0}, 5)
	assert.ErrorIs(t, err, contracts.ErrModelFit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Forecast(ctx, startDate(), 10, contracts.ReturnSeries{0.01, -0.02, 0.03}, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVolatilityForecaster_Analyze(t *testing.T) {
	f := NewVolatilityForecaster(NewNormalSource(1), FitOptions{}, zerolog.Nop())
	prices := garchPrices(12, 600)
	prices[10] = math.NaN()

	a, err := f.Analyze(context.Background(), "AAPL", prices)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", a.Symbol)
	assert.Equal(t, "AAPL", a.ActualSymbol)
	assert.Equal(t, "GARCH(1,1)", a.ModelType)
	assert.Equal(t, 599, a.DataPoints)
	assert.Equal(t, 598, a.ReturnsCount)
	assert.Len(t, a.VolatilityForecast, AnalysisHorizon)
	assert.InDelta(t, a.Alpha+a.Beta, a.Persistence, 1e-12)
	assert.Equal(t, a.StdReturn, a.CurrentVolatility)
	assert.Greater(t, a.StdReturn, 0.0)
}

func TestVolatilityForecaster_AnalyzeRejects(t *testing.T) {
	f := NewVolatilityForecaster(NewNormalSource(1), FitOptions{}, zerolog.Nop())

	_, err := f.Analyze(context.Background(), "X", garchPrices(1, 99))
	assert.ErrorIs(t, err, contracts.ErrDataInsufficient)

	flat := make([]float64, 150)
	for i := range flat {
		flat[i] = 42
	}
	_, err = f.Analyze(context.Background(), "X", flat)
	assert.ErrorIs(t, err, contracts.ErrModelFit)
}

func TestVolatilityForecaster_AnalyzeHonorsDeadline(t *testing.T) {
	f := NewVolatilityForecaster(NewNormalSource(1), FitOptions{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := f.Analyze(ctx, "AAPL", garchPrices(12, 600))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
