package engineconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/forecast"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, forecast.StrategyStepwise, cfg.SearchStrategy)
	assert.Equal(t, 800, cfg.Decision.HistoryDays)
	assert.Equal(t, 15*time.Minute, cfg.Sentiment.CacheTTL)
	assert.Equal(t, "Asian Paints", cfg.Symbols["ASIANPAINT"])
	assert.Len(t, cfg.Symbols, 14)

	ms := cfg.ModelSettings()
	assert.Equal(t, forecast.DefaultSeasonalSearchConfig(), ms.Seasonal)
	assert.Equal(t, forecast.DefaultModelSettings().Volatility, ms.Volatility)
	assert.Zero(t, ms.Trend.Period)
	assert.Equal(t, forecast.CriterionAIC, ms.Trend.Criterion)

	opts := cfg.SentimentOptions()
	assert.Equal(t, 0.1, opts.Thresholds.Positive)
	assert.Equal(t, -0.1, opts.Thresholds.Negative)
	assert.Equal(t, "HDFC Bank", opts.Keywords["HDFCBANK"])
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "models.yaml")
	custom := strings.Replace(string(defaultYAML), "search_strategy: stepwise", "search_strategy: grid", 1)
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, forecast.StrategyGrid, cfg.SearchStrategy)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_UnknownField(t *testing.T) {
	data := string(defaultYAML) + "\nextra_section: true\n"

	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra_section")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"strategy", func(c *Config) { c.SearchStrategy = "random" }, "search_strategy"},
		{"seasonal in trend", func(c *Config) { c.Trend.Period = 12 }, "trend"},
		{"seasonal period", func(c *Config) { c.Seasonal.Period = 1 }, "seasonal.period"},
		{"max_d", func(c *Config) { c.Trend.MaxD = 3 }, "trend.max_d"},
		{"max_steps", func(c *Config) { c.Seasonal.MaxSteps = 0 }, "seasonal.max_steps"},
		{"criterion", func(c *Config) { c.Trend.Criterion = "hqic" }, "trend.criterion"},
		{"tolerance", func(c *Config) { c.Volatility.Tolerance = 0 }, "volatility.tolerance"},
		{"positive threshold", func(c *Config) { c.Sentiment.PositiveThreshold = -0.2 }, "sentiment.positive_threshold"},
		{"negative threshold", func(c *Config) { c.Sentiment.NegativeThreshold = 0.2 }, "sentiment.negative_threshold"},
		{"cache ttl", func(c *Config) { c.Sentiment.CacheTTL = 0 }, "sentiment.cache_ttl"},
		{"history days", func(c *Config) { c.Decision.HistoryDays = 0 }, "decision.history_days"},
		{"lower case symbol", func(c *Config) { c.Symbols = map[string]string{"infy": "Infosys"} }, "symbols.infy"},
		{"empty company", func(c *Config) { c.Symbols = map[string]string{"INFY": " "} }, "symbols.INFY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestHash(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b, "hash not deterministic")

	changed := Default()
	changed.Decision.HistoryDays = 100
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
