package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveFit(t *testing.T) {
	r := New()

	r.ObserveFit("trend", 120*time.Millisecond, nil)
	r.ObserveFit("volatility", 10*time.Millisecond, errors.New("constant returns"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.fitResults.WithLabelValues("trend", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fitResults.WithLabelValues("volatility", "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.fitResults.WithLabelValues("trend", "failed")))
}

func TestRecorder_CacheCounters(t *testing.T) {
	r := New()

	r.CacheMiss()
	r.CacheHit()
	r.CacheHit()
	r.SetCacheEntries(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.cacheEntries))
}

func TestRecorder_InflightGauge(t *testing.T) {
	r := New()

	r.FitStarted()
	r.FitStarted()
	r.FitFinished()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.inflightFits))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.Decision("BUY")
	r.ObserveHTTP("/api/dsfm/decision/{symbol}", http.MethodGet, 200, 5*time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `dsfm_decisions_total{signal="BUY"} 1`), text)
	assert.Contains(t, text, "dsfm_http_requests_total")
	assert.Contains(t, text, "go_goroutines")
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	// Two recorders must not collide on registration
	a := New()
	b := New()
	a.CacheHit()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cacheLookups.WithLabelValues("hit")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveFit("trend", time.Second, nil)
		r.CacheHit()
		r.CacheMiss()
		r.SetCacheEntries(1)
		r.FitStarted()
		r.FitFinished()
		r.Decision("HOLD")
		r.SentimentVerdict("fallback")
		r.ObserveHTTP("/health", "GET", 200, time.Millisecond)
		r.WarmupSymbol(true)
	})
	assert.Nil(t, r.Registry())
}
