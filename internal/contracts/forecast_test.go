package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastBundle_HasDirection(t *testing.T) {
	up := DirectionUp

	var nilBundle *ForecastBundle
	assert.False(t, nilBundle.HasDirection())
	assert.False(t, (&ForecastBundle{}).HasDirection())
	assert.True(t, (&ForecastBundle{Direction: &up}).HasDirection())
}

func TestForecastBundle_Empty(t *testing.T) {
	assert.True(t, (&ForecastBundle{}).Empty())
	assert.False(t, (&ForecastBundle{Seasonal: []ForecastPoint{{day(2), 1}}}).Empty())
}

func TestForecastBundle_JSON(t *testing.T) {
	down := DirectionDown
	b := ForecastBundle{
		Symbol:    "WIPRO",
		Steps:     1,
		LastDate:  day(1),
		LastPrice: 400,
		Trend:     []ForecastPoint{{day(2), 399}},
		Direction: &down,
		Failures:  map[string]string{ModelVolatility: "model fit failed"},
	}

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.Equal(t, "DOWN", m["direction"])
	trend := m["trend"].([]interface{})
	assert.Equal(t, "2024-01-02", trend[0].(map[string]interface{})["date"])
	assert.Nil(t, m["seasonal"])
	assert.Contains(t, m["failures"], ModelVolatility)

	var back ForecastBundle
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 399.0, back.Trend[0].Price)
}

func TestForecastBundle_NullDirection(t *testing.T) {
	raw, err := json.Marshal(ForecastBundle{Symbol: "X"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"direction":null`)
}
