package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dsfm"

// Recorder holds every Prometheus collector of the service on its own registry.
// ⭐ SSOT: 메트릭 정의는 여기서만
// A nil *Recorder is valid; all methods become no-ops.
type Recorder struct {
	registry *prometheus.Registry

	fitDuration   *prometheus.HistogramVec
	fitResults    *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	cacheEntries  prometheus.Gauge
	inflightFits  prometheus.Gauge
	decisions     *prometheus.CounterVec
	sentiment     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	warmupSymbols *prometheus.CounterVec
}

// New creates a Recorder with Go runtime and process collectors registered
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,

		fitDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_fit_duration_seconds",
			Help:      "Duration of a single model fit and projection",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"model"}),

		fitResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_fits_total",
			Help:      "Model fits by model and result (ok, failed)",
		}, []string{"model", "result"}),

		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_cache_lookups_total",
			Help:      "Forecast cache lookups by result (hit, miss)",
		}, []string{"result"}),

		cacheEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_cache_entries",
			Help:      "Number of symbols with a cached forecast bundle",
		}),

		inflightFits: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_inflight_computations",
			Help:      "Forecast bundle computations currently holding a worker slot",
		}),

		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Emitted trading signals",
		}, []string{"signal"}),

		sentiment: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_verdicts_total",
			Help:      "Sentiment verdicts by source (api, cache, fallback)",
		}, []string{"source"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		warmupSymbols: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warmup_symbols_total",
			Help:      "Symbols processed by the forecast warm-up job",
		}, []string{"result"}),
	}
}

// Registry exposes the underlying registry (tests, custom collectors)
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveFit records one model fit
func (r *Recorder) ObserveFit(model string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.fitDuration.WithLabelValues(model).Observe(d.Seconds())
	result := "ok"
	if err != nil {
		result = "failed"
	}
	r.fitResults.WithLabelValues(model, result).Inc()
}

// CacheHit records a forecast cache hit
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a forecast cache miss
func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// SetCacheEntries sets the current number of cached bundles
func (r *Recorder) SetCacheEntries(n int) {
	if r == nil {
		return
	}
	r.cacheEntries.Set(float64(n))
}

// FitStarted / FitFinished track computations holding a worker slot
func (r *Recorder) FitStarted() {
	if r == nil {
		return
	}
	r.inflightFits.Inc()
}

func (r *Recorder) FitFinished() {
	if r == nil {
		return
	}
	r.inflightFits.Dec()
}

// Decision records an emitted signal
func (r *Recorder) Decision(signal string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(signal).Inc()
}

// SentimentVerdict records where a sentiment verdict came from
func (r *Recorder) SentimentVerdict(source string) {
	if r == nil {
		return
	}
	r.sentiment.WithLabelValues(source).Inc()
}

// ObserveHTTP records one served HTTP request
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// WarmupSymbol records one symbol processed by the warm-up job
func (r *Recorder) WarmupSymbol(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.warmupSymbols.WithLabelValues(result).Inc()
}
