package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
)

// WarmupJobName is the scheduler key of the warm-up job
const WarmupJobName = "forecast_warmup"

// Warmer is the engine surface the warm-up needs
type Warmer interface {
	contracts.Forecaster
	Cached(symbol string) bool
}

// WarmupReport summarizes one run
type WarmupReport struct {
	Symbols  int
	Skipped  int // already cached
	Computed int
	Failed   int
	Duration time.Duration
}

// WarmupJob computes forecast bundles for every symbol not cached yet.
// Cached bundles are never refreshed.
type WarmupJob struct {
	engine      Warmer
	prices      contracts.PriceProvider
	steps       int
	concurrency int
	schedule    string
	metrics     *metrics.Recorder
	logger      *logger.Logger
}

// NewWarmupJob creates a new warm-up job. concurrency <= 0 means 1.
func NewWarmupJob(
	engine Warmer,
	prices contracts.PriceProvider,
	steps, concurrency int,
	schedule string,
	rec *metrics.Recorder,
	log *logger.Logger,
) *WarmupJob {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &WarmupJob{
		engine:      engine,
		prices:      prices,
		steps:       steps,
		concurrency: concurrency,
		schedule:    schedule,
		metrics:     rec,
		logger:      log.WithField("job", WarmupJobName),
	}
}

// Name returns the job name
func (j *WarmupJob) Name() string {
	return WarmupJobName
}

// Schedule returns the cron schedule (default weekdays 6:30 PM, after the close)
func (j *WarmupJob) Schedule() string {
	return j.schedule
}

// Run executes the warm-up
func (j *WarmupJob) Run(ctx context.Context) error {
	_, err := j.Warm(ctx)
	return err
}

// Warm forecasts every uncached symbol. A symbol that cannot be forecast is
// counted, not returned: only a table failure or cancellation is an error.
func (j *WarmupJob) Warm(ctx context.Context) (WarmupReport, error) {
	start := time.Now()

	table, err := j.prices.Table(ctx)
	if err != nil {
		return WarmupReport{}, fmt.Errorf("load price table: %w", err)
	}

	report := WarmupReport{Symbols: len(table.Symbols)}
	var computed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)

	for _, symbol := range table.Symbols {
		if j.engine.Cached(symbol) {
			report.Skipped++
			continue
		}
		if gctx.Err() != nil {
			break
		}

		symbol := symbol
		g.Go(func() error {
			if _, err := j.engine.Forecast(gctx, symbol, j.steps); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				j.metrics.WarmupSymbol(false)
				j.logger.WithError(err).WithField("symbol", symbol).Debug("Warm-up forecast failed")
				return nil
			}
			computed.Add(1)
			j.metrics.WarmupSymbol(true)
			return nil
		})
	}

	err = g.Wait()
	report.Computed = int(computed.Load())
	report.Failed = int(failed.Load())
	report.Duration = time.Since(start)

	j.logger.WithFields(map[string]interface{}{
		"symbols":  report.Symbols,
		"skipped":  report.Skipped,
		"computed": report.Computed,
		"failed":   report.Failed,
		"duration": report.Duration,
	}).Info("Forecast warm-up finished")

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return report, fmt.Errorf("warm-up interrupted: %w", err)
	}
	return report, nil
}
