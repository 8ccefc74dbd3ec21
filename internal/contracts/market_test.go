package contracts

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceSeries_Accessors(t *testing.T) {
	s := PriceSeries{
		Symbol: "CDUR_NTPC",
		Points: []PricePoint{{day(1), 100}, {day(2), 101}, {day(3), 99.5}},
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{100, 101, 99.5}, s.Prices())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, day(3), last.Date)

	assert.Len(t, s.Tail(2), 2)
	assert.Len(t, s.Tail(10), 3)
	assert.Nil(t, s.Tail(0))

	_, ok = PriceSeries{}.Last()
	assert.False(t, ok)
}

func TestReturnSeries_Checks(t *testing.T) {
	tests := []struct {
		name     string
		r        ReturnSeries
		constant bool
		finite   bool
	}{
		{"empty", ReturnSeries{}, true, true},
		{"zeros", ReturnSeries{0, 0, 0}, true, true},
		{"varying", ReturnSeries{0.01, -0.02}, false, true},
		{"nan", ReturnSeries{0.01, math.NaN()}, false, false},
		{"inf", ReturnSeries{math.Inf(1)}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.constant, tt.r.IsConstant())
			assert.Equal(t, tt.finite, tt.r.AllFinite())
		})
	}
}

func TestPriceTable_Series(t *testing.T) {
	table := &PriceTable{
		Dates:   []time.Time{day(1), day(2), day(3)},
		Symbols: []string{"A", "B"},
		Columns: map[string][]float64{
			"A": {1, math.NaN(), 3},
			"B": {5, 6, 7},
		},
	}

	assert.Equal(t, 3, table.Len())
	assert.True(t, table.Has("A"))
	assert.False(t, table.Has("C"))

	s, ok := table.Series("A")
	require.True(t, ok)
	assert.Equal(t, "A", s.Symbol)
	assert.Equal(t, []float64{1, 3}, s.Prices())

	_, ok = table.Series("C")
	assert.False(t, ok)
}

func TestPricePoint_JSON(t *testing.T) {
	p := PricePoint{Date: day(15), Price: 123.45}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-15","price":123.45}`, string(b))

	var back PricePoint
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Date.Equal(p.Date))
	assert.Equal(t, p.Price, back.Price)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"15/01/2024","price":1}`), &back))
}
