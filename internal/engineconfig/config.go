// Package engineconfig loads the model, sentiment and decision settings from YAML.
package engineconfig

import (
	"time"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/forecast"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/sentiment"
)

// Config 예측 엔진의 전체 모델 설정
type Config struct {
	SearchStrategy string            `yaml:"search_strategy" json:"search_strategy"`
	Trend          Search            `yaml:"trend" json:"trend"`
	Seasonal       Search            `yaml:"seasonal" json:"seasonal"`
	Volatility     Fit               `yaml:"volatility" json:"volatility"`
	Sentiment      Sentiment         `yaml:"sentiment" json:"sentiment"`
	Decision       Decision          `yaml:"decision" json:"decision"`
	Symbols        map[string]string `yaml:"symbols" json:"symbols"`
}

// Search ARIMA 차수 탐색 범위
type Search struct {
	Period         int     `yaml:"period,omitempty" json:"period,omitempty"`
	MaxP           int     `yaml:"max_p" json:"max_p"`
	MaxQ           int     `yaml:"max_q" json:"max_q"`
	MaxSP          int     `yaml:"max_sp,omitempty" json:"max_sp,omitempty"`
	MaxSQ          int     `yaml:"max_sq,omitempty" json:"max_sq,omitempty"`
	MaxD           int     `yaml:"max_d" json:"max_d"`
	MaxOrder       int     `yaml:"max_order" json:"max_order"`
	MaxSteps       int     `yaml:"max_steps" json:"max_steps"`
	Criterion      string  `yaml:"criterion" json:"criterion"`
	MaxEvaluations int     `yaml:"max_evaluations" json:"max_evaluations"`
	Tolerance      float64 `yaml:"tolerance" json:"tolerance"`
}

// Fit 적합 최적화 한도
type Fit struct {
	MaxEvaluations int     `yaml:"max_evaluations" json:"max_evaluations"`
	Tolerance      float64 `yaml:"tolerance" json:"tolerance"`
}

// Sentiment 감성 라벨 임계값 + 캐시
type Sentiment struct {
	PositiveThreshold float64       `yaml:"positive_threshold" json:"positive_threshold"`
	NegativeThreshold float64       `yaml:"negative_threshold" json:"negative_threshold"`
	CacheTTL          time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// Decision 최종 판단 설정
type Decision struct {
	HistoryDays int `yaml:"history_days" json:"history_days"`
}

// ModelSettings 모델 섹션을 forecast.NewModels 입력으로 변환
func (c *Config) ModelSettings() forecast.ModelSettings {
	return forecast.ModelSettings{
		Strategy:   c.SearchStrategy,
		Trend:      c.Trend.searchConfig(),
		Seasonal:   c.Seasonal.searchConfig(),
		Volatility: c.Volatility.options(),
	}
}

// SentimentOptions 감성 섹션과 종목명 맵 변환
func (c *Config) SentimentOptions() sentiment.Options {
	return sentiment.Options{
		Thresholds: sentiment.Thresholds{
			Positive: c.Sentiment.PositiveThreshold,
			Negative: c.Sentiment.NegativeThreshold,
		},
		Keywords: c.Symbols,
		CacheTTL: c.Sentiment.CacheTTL,
	}
}

func (s Search) searchConfig() forecast.SearchConfig {
	return forecast.SearchConfig{
		MaxP:      s.MaxP,
		MaxQ:      s.MaxQ,
		MaxSP:     s.MaxSP,
		MaxSQ:     s.MaxSQ,
		MaxOrder:  s.MaxOrder,
		MaxD:      s.MaxD,
		MaxSteps:  s.MaxSteps,
		Period:    s.Period,
		Criterion: forecast.Criterion(s.Criterion),
		Fit:       forecast.FitOptions{MaxEvaluations: s.MaxEvaluations, Tolerance: s.Tolerance},
	}
}

func (f Fit) options() forecast.FitOptions {
	return forecast.FitOptions{MaxEvaluations: f.MaxEvaluations, Tolerance: f.Tolerance}
}
