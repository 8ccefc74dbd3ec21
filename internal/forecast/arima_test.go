package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

func TestExpand_SeasonalPolynomials(t *testing.T) {
	o := Order{P: 1, Q: 1, SP: 1, SQ: 1, Period: 4}
	arPoly, maPoly := expand(o, []float64{0.5}, []float64{0.4}, []float64{0.3}, []float64{0.2})

	// (1-0.5B)(1-0.3B^4) = 1 - 0.5B - 0.3B^4 + 0.15B^5
	assert.InDeltaSlice(t, []float64{0.5, 0, 0, 0.3, -0.15}, arPoly, 1e-12)
	// (1+0.4B)(1+0.2B^4) = 1 + 0.4B + 0.2B^4 + 0.08B^5
	assert.InDeltaSlice(t, []float64{0.4, 0, 0, 0.2, 0.08}, maPoly, 1e-12)
}

func TestExpand_NonSeasonalIgnoresSeasonalCoefficients(t *testing.T) {
	arPoly, maPoly := expand(Order{P: 2}, []float64{0.3, 0.2}, nil, []float64{0.9}, []float64{0.9})
	assert.InDeltaSlice(t, []float64{0.3, 0.2}, arPoly, 1e-12)
	assert.Empty(t, maPoly)
}

func TestDifferenceIntegrate_RoundTrip(t *testing.T) {
	y := []float64{1, 4, 9, 16, 25, 36, 49}
	levels, lags, w := difference(y, Order{D: 2})
	require.Len(t, lags, 2)
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, w)

	// constant second difference continues the squares
	future := []float64{2, 2}
	for i := len(lags) - 1; i >= 0; i-- {
		future = integrate(levels[i], lags[i], future)
	}
	assert.InDeltaSlice(t, []float64{64, 81}, future, 1e-9)
}

func TestStationary(t *testing.T) {
	assert.True(t, stationary(nil))
	assert.True(t, stationary([]float64{0.5, -0.4}))
	assert.True(t, stationary([]float64{0.6, -0.4}))

	// complex roots with modulus sqrt(2): stationary although Σ|φ| = 1.7
	assert.True(t, stationary([]float64{1.2, -0.5}))
	assert.True(t, stationary([]float64{-1.5, -0.7}))

	assert.False(t, stationary([]float64{1.0}))
	assert.False(t, stationary([]float64{1.1}))
	assert.False(t, stationary([]float64{0.5, 0.6}))
	assert.False(t, stationary([]float64{0.2, 0.3, 0.6}))
	assert.False(t, stationary([]float64{math.NaN()}))
}

func TestInvertible(t *testing.T) {
	assert.True(t, invertible([]float64{0.9}))
	assert.True(t, invertible([]float64{-1.2, 0.5}))
	assert.False(t, invertible([]float64{-1.0}))
	assert.False(t, invertible([]float64{1.5}))
}

func TestFitARIMA_RecoversAR2OutsideAbsSumRegion(t *testing.T) {
	y := simulateAR2(3, 1500, 1.2, -0.5)

	fit, err := FitARIMA(y, Order{P: 2}, DefaultFitOptions())
	require.NoError(t, err)

	require.Len(t, fit.AR, 2)
	assert.InDelta(t, 1.2, fit.AR[0], 0.1)
	assert.InDelta(t, -0.5, fit.AR[1], 0.1)
}

func TestFitARIMA_RecoversAR1(t *testing.T) {
	y := simulateAR1(42, 600, 0.6, 1)

	fit, err := FitARIMA(y, Order{P: 1}, DefaultFitOptions())
	require.NoError(t, err)
	require.Len(t, fit.AR, 1)

	assert.InDelta(t, 0.6, fit.AR[0], 0.1)
	assert.InDelta(t, 1.0, fit.Sigma2, 0.2)
	assert.Equal(t, 599, fit.NObs)
	assert.False(t, fit.Degenerate)
	assert.Less(t, fit.AIC, fit.BIC)
}

func TestFitARIMA_RecoversMA1(t *testing.T) {
	y := simulateMA1(7, 600, 0.5, 1)

	fit, err := FitARIMA(y, Order{Q: 1}, DefaultFitOptions())
	require.NoError(t, err)
	require.Len(t, fit.MA, 1)
	assert.InDelta(t, 0.5, fit.MA[0], 0.12)
}

func TestFitARIMA_CriterionPrefersTrueOrder(t *testing.T) {
	y := simulateAR1(11, 500, 0.7, 1)

	ar1, err := FitARIMA(y, Order{P: 1}, DefaultFitOptions())
	require.NoError(t, err)
	wn, err := FitARIMA(y, Order{}, DefaultFitOptions())
	require.NoError(t, err)

	for _, c := range []Criterion{CriterionAIC, CriterionAICc, CriterionBIC} {
		assert.Less(t, ar1.Criterion(c), wn.Criterion(c), c)
	}
}

func TestFitARIMA_ForecastDecaysToMean(t *testing.T) {
	y := simulateAR1(3, 400, 0.5, 1)
	for i := range y {
		y[i] += 2
	}

	fit, err := FitARIMA(y, Order{P: 1, Constant: true}, DefaultFitOptions())
	require.NoError(t, err)

	f := fit.Forecast(60)
	require.Len(t, f, 60)
	assert.InDelta(t, fit.Mean, f[59], 1e-6)
	assert.InDelta(t, 2.0, fit.Mean, 0.3)
}

func TestFitARIMA_DegenerateContinuesLine(t *testing.T) {
	y := make([]float64, 20)
	for i := range y {
		y[i] = 3 + 0.5*float64(i)
	}

	fit, err := FitARIMA(y, Order{D: 1, Constant: true}, DefaultFitOptions())
	require.NoError(t, err)
	assert.True(t, fit.Degenerate)
	assert.InDelta(t, 0.5, fit.Mean, 1e-12)

	f := fit.Forecast(3)
	assert.InDeltaSlice(t, []float64{13, 13.5, 14}, f, 1e-9)
}

func TestFitARIMA_ConstantSeriesIsDegenerate(t *testing.T) {
	y := []float64{0, 0, 0, 0, 0}
	fit, err := FitARIMA(y, Order{Constant: true}, DefaultFitOptions())
	require.NoError(t, err)
	assert.True(t, fit.Degenerate)
	assert.Equal(t, []float64{0, 0, 0}, fit.Forecast(3))
}

func TestFitARIMA_Errors(t *testing.T) {
	_, err := FitARIMA(nil, Order{}, DefaultFitOptions())
	assert.ErrorIs(t, err, contracts.ErrDataInsufficient)

	_, err = FitARIMA([]float64{1}, Order{D: 1}, DefaultFitOptions())
	assert.ErrorIs(t, err, contracts.ErrModelFit)

	// too few observations for the coefficients
	_, err = FitARIMA([]float64{0.1, -0.2, 0.3, 0.05}, Order{P: 2, Q: 2, Constant: true}, DefaultFitOptions())
	assert.ErrorIs(t, err, contracts.ErrModelFit)
}

func TestFitARIMA_ForecastNonPositiveSteps(t *testing.T) {
	fit, err := FitARIMA(simulateAR1(1, 100, 0.3, 1), Order{P: 1}, DefaultFitOptions())
	require.NoError(t, err)
	assert.Nil(t, fit.Forecast(0))
	assert.Nil(t, fit.Forecast(-2))
}

func TestFitARIMA_SeasonalFitIsFinite(t *testing.T) {
	y := simulateAR1(5, 240, 0.3, 1)
	for i := range y {
		y[i] += math.Sin(2 * math.Pi * float64(i) / 12)
	}

	fit, err := FitARIMA(y, Order{P: 1, SP: 1, Period: 12, Constant: true}, DefaultFitOptions())
	require.NoError(t, err)
	require.Len(t, fit.SAR, 1)
	assert.Greater(t, fit.SAR[0], 0.0)

	for _, v := range fit.Forecast(24) {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}
