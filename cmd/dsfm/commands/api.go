package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/api"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/api/handlers"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/scheduler"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET /health
  GET /api/nifty, /api/nifty/history, /api/stock/{symbol}
  GET /api/market-movers, /api/most-bought, /api/market-insights, /api/portfolio
  GET /api/dsfm/top-stocks, /api/dsfm/available-symbols
  GET /api/dsfm/forecast/{symbol}?steps=30
  GET /api/dsfm/decision/{symbol}, /api/dsfm/sentiment/{symbol}
  GET /api/dsfm/garch-analysis/{symbol}, /api/dsfm/cache/stats
  GET /api/dsfm/finbert-analysis, /api/dsfm/combined-analysis/{symbol}

Example:
  go run ./cmd/dsfm api
  go run ./cmd/dsfm api --port 8080 --warmup`,
	RunE: runAPIServer,
}

var (
	apiPort   string
	apiWarmup bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT)")
	apiCmd.Flags().BoolVar(&apiWarmup, "warmup", false, "예측 워밍업 작업 활성화 (WARMUP_ENABLED)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== DSFM API Server ===")

	a, err := newApp(cmd.Context(), 0)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, log := a.cfg, a.log
	if apiPort != "" {
		cfg.Port = apiPort
	}

	router := api.NewRouter(api.Handlers{
		Market: handlers.NewMarketHandler(a.analytics, log),
		DSFM:   handlers.NewDSFMHandler(a.engine, a.decider, a.sentiment, a.headlines, a.prices, log),
	}, a.metrics, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	var metricsServer *api.Server
	if cfg.MetricsEnabled {
		metricsServer = api.NewMetricsServer(cfg, log, a.metrics.Handler())
		go func() {
			if err := metricsServer.Start(); err != nil {
				log.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	var sched *scheduler.Scheduler
	if apiWarmup || cfg.Forecast.WarmupEnabled {
		sched = scheduler.New(scheduler.DefaultOptions(), log)
		job := jobs.NewWarmupJob(a.engine, a.prices, cfg.Forecast.DefaultSteps, cfg.Forecast.MaxConcurrentFits,
			cfg.Forecast.WarmupSchedule, a.metrics, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule warm-up: %w", err)
		}
		sched.Start()
		// 시작 직후 1회 실행
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	if metricsServer != nil {
		fmt.Printf("📈 Metrics on http://localhost:%s/metrics\n", cfg.MetricsPort)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
