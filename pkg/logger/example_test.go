package logger_test

import (
	"errors"

	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/config"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	// Create logger (SSOT)
	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Application started")
	log.WithField("steps", 30).Info("Forecast horizon set")
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"symbol":    "CDUR_HDFCBANK",
		"direction": "UP",
		"signal":    "BUY",
	}).Info("Decision emitted")

	log.WithError(errors.New("constant returns")).Warn("Volatility model skipped")

	// Domain packages take a component-tagged zerolog.Logger
	zl := log.Component("forecast.engine")
	zl.Info().Str("symbol", "CDUR_HDFCBANK").Msg("cache miss")
}
