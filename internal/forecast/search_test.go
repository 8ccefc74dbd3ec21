package forecast

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

func smallSearchConfig() SearchConfig {
	cfg := DefaultSearchConfig()
	cfg.MaxP, cfg.MaxQ = 2, 2
	cfg.MaxOrder = 4
	return cfg
}

func TestStepwiseSearch_ConstantReturns(t *testing.T) {
	s := NewStepwiseSearch(DefaultSearchConfig(), zerolog.Nop())

	order, err := s.Search(context.Background(), contracts.ReturnSeries{0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, Order{Constant: true}, order)
}

func TestStepwiseSearch_FindsDynamics(t *testing.T) {
	y := simulateAR1(21, 400, 0.7, 0.01)
	s := NewStepwiseSearch(smallSearchConfig(), zerolog.Nop())

	order, err := s.Search(context.Background(), y)
	require.NoError(t, err)
	assert.Greater(t, order.P+order.Q, 0, order.String())
	assert.LessOrEqual(t, order.P, 2)
	assert.LessOrEqual(t, order.Q, 2)
}

func TestGridSearch_NoWorseThanStepwise(t *testing.T) {
	y := simulateMA1(8, 300, 0.4, 0.02)
	cfg := smallSearchConfig()
	ctx := context.Background()

	stepwise, err := NewStepwiseSearch(cfg, zerolog.Nop()).Search(ctx, y)
	require.NoError(t, err)
	grid, err := NewGridSearch(cfg, zerolog.Nop()).Search(ctx, y)
	require.NoError(t, err)
	assert.Equal(t, stepwise.D, grid.D)

	sf, err := FitARIMA(y, stepwise, cfg.Fit)
	require.NoError(t, err)
	gf, err := FitARIMA(y, grid, cfg.Fit)
	require.NoError(t, err)
	assert.LessOrEqual(t, gf.AIC, sf.AIC+1e-9)
}

func TestSearch_CancelledContextFallsBack(t *testing.T) {
	y := simulateAR1(4, 200, 0.5, 0.01)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range []OrderSearcher{
		NewStepwiseSearch(smallSearchConfig(), zerolog.Nop()),
		NewGridSearch(smallSearchConfig(), zerolog.Nop()),
	} {
		order, err := s.Search(ctx, y)
		require.NoError(t, err)
		assert.Equal(t, 0, order.P)
		assert.Equal(t, 0, order.Q)
		assert.False(t, order.Constant)
	}
}

func TestSearch_SeasonalNeedsThreePeriods(t *testing.T) {
	cfg := DefaultSeasonalSearchConfig()
	cfg.MaxP, cfg.MaxQ, cfg.MaxSP, cfg.MaxSQ = 1, 1, 1, 1

	short := simulateAR1(6, 30, 0.4, 0.01)
	order, err := NewGridSearch(cfg, zerolog.Nop()).Search(context.Background(), short)
	require.NoError(t, err)
	assert.False(t, order.Seasonal())
	assert.Equal(t, 0, order.Period)

	st := newSearchState(cfg, simulateAR1(6, 36, 0.4, 0.01), zerolog.Nop())
	assert.True(t, st.seasonal)
}

func TestSearch_EmptyReturns(t *testing.T) {
	_, err := NewStepwiseSearch(DefaultSearchConfig(), zerolog.Nop()).Search(context.Background(), nil)
	assert.ErrorIs(t, err, contracts.ErrDataInsufficient)
	_, err = NewGridSearch(DefaultSearchConfig(), zerolog.Nop()).Search(context.Background(), nil)
	assert.ErrorIs(t, err, contracts.ErrDataInsufficient)
}

func TestNeighbours_RespectConstantRule(t *testing.T) {
	st := newSearchState(smallSearchConfig(), simulateAR1(2, 100, 0.2, 1), zerolog.Nop())
	st.d = 2
	st.constOK = false

	for _, o := range neighbours(st, Order{P: 1, Q: 1, D: 2}) {
		assert.False(t, o.Constant)
		assert.Equal(t, 2, o.D)
	}
}

func TestSearchState_InBounds(t *testing.T) {
	st := newSearchState(smallSearchConfig(), simulateAR1(2, 100, 0.2, 1), zerolog.Nop())

	assert.True(t, st.inBounds(Order{P: 2, Q: 2}))
	assert.False(t, st.inBounds(Order{P: 3}))
	assert.False(t, st.inBounds(Order{P: -1}))

	st.cfg.MaxOrder = 3
	assert.False(t, st.inBounds(Order{P: 2, Q: 2}))
}

func TestNewSearcher(t *testing.T) {
	s, err := NewSearcher("", DefaultSearchConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &StepwiseSearch{}, s)

	s, err = NewSearcher(StrategyGrid, DefaultSearchConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &GridSearch{}, s)

	_, err = NewSearcher("annealing", DefaultSearchConfig(), zerolog.Nop())
	assert.Error(t, err)
}
