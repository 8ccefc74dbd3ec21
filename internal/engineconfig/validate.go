package engineconfig

import (
	"fmt"
	"strings"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/forecast"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate 모든 섹션 검증
func Validate(cfg *Config) error {
	switch cfg.SearchStrategy {
	case forecast.StrategyStepwise, forecast.StrategyGrid:
	default:
		return ValidationError{"search_strategy", "must be stepwise or grid"}
	}

	// === Trend ===
	if cfg.Trend.Period > 1 || cfg.Trend.MaxSP != 0 || cfg.Trend.MaxSQ != 0 {
		return ValidationError{"trend", "seasonal terms belong in the seasonal section"}
	}
	if err := validateSearch("trend", cfg.Trend); err != nil {
		return err
	}

	// === Seasonal ===
	if cfg.Seasonal.Period < 2 {
		return ValidationError{"seasonal.period", "must be >= 2"}
	}
	if cfg.Seasonal.MaxSP < 0 || cfg.Seasonal.MaxSQ < 0 {
		return ValidationError{"seasonal", "max_sp and max_sq must be >= 0"}
	}
	if err := validateSearch("seasonal", cfg.Seasonal); err != nil {
		return err
	}

	// === Volatility ===
	if err := validateFit("volatility", cfg.Volatility.MaxEvaluations, cfg.Volatility.Tolerance); err != nil {
		return err
	}

	// === Sentiment ===
	if cfg.Sentiment.PositiveThreshold < 0 || cfg.Sentiment.PositiveThreshold >= 1 {
		return ValidationError{"sentiment.positive_threshold", "must be in [0, 1)"}
	}
	if cfg.Sentiment.NegativeThreshold > 0 || cfg.Sentiment.NegativeThreshold <= -1 {
		return ValidationError{"sentiment.negative_threshold", "must be in (-1, 0]"}
	}
	if cfg.Sentiment.CacheTTL <= 0 {
		return ValidationError{"sentiment.cache_ttl", "must be > 0"}
	}

	// === Decision ===
	if cfg.Decision.HistoryDays <= 0 {
		return ValidationError{"decision.history_days", "must be > 0"}
	}

	// === Symbols ===
	for sym, name := range cfg.Symbols {
		if sym != strings.ToUpper(sym) {
			return ValidationError{"symbols." + sym, "keys must be upper case"}
		}
		if strings.TrimSpace(name) == "" {
			return ValidationError{"symbols." + sym, "company name required"}
		}
	}

	return nil
}

func validateSearch(section string, s Search) error {
	if s.MaxP < 0 || s.MaxQ < 0 {
		return ValidationError{section, "max_p and max_q must be >= 0"}
	}
	if s.MaxD < 0 || s.MaxD > 2 {
		return ValidationError{section + ".max_d", "must be in [0, 2]"}
	}
	if s.MaxOrder < 0 {
		return ValidationError{section + ".max_order", "must be >= 0 (0 = unbounded)"}
	}
	if s.MaxSteps <= 0 {
		return ValidationError{section + ".max_steps", "must be > 0"}
	}
	switch forecast.Criterion(s.Criterion) {
	case forecast.CriterionAIC, forecast.CriterionAICc, forecast.CriterionBIC:
	default:
		return ValidationError{section + ".criterion", "must be aic, aicc or bic"}
	}
	return validateFit(section, s.MaxEvaluations, s.Tolerance)
}

func validateFit(section string, maxEval int, tol float64) error {
	if maxEval < 0 {
		return ValidationError{section + ".max_evaluations", "must be >= 0"}
	}
	if tol <= 0 || tol >= 1 {
		return ValidationError{section + ".tolerance", "must be in (0, 1)"}
	}
	return nil
}
