package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/api/handlers"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
)

// Handlers groups the route handlers
type Handlers struct {
	Market *handlers.MarketHandler
	DSFM   *handlers.DSFMHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, rec *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET", "OPTIONS")

	api := r.PathPrefix("/api").Subrouter()

	// Market views
	api.HandleFunc("/nifty", h.Market.GetIndex).Methods("GET", "OPTIONS")
	api.HandleFunc("/nifty/history", h.Market.GetIndexHistory).Methods("GET", "OPTIONS")
	api.HandleFunc("/stock/{symbol}", h.Market.GetStock).Methods("GET", "OPTIONS")
	api.HandleFunc("/market-movers", h.Market.GetMovers).Methods("GET", "OPTIONS")
	api.HandleFunc("/most-bought", h.Market.GetMostBought).Methods("GET", "OPTIONS")
	api.HandleFunc("/market-insights", h.Market.GetInsights).Methods("GET", "OPTIONS")
	api.HandleFunc("/portfolio", h.Market.GetPortfolio).Methods("GET", "OPTIONS")

	// Forecast + decision
	dsfm := api.PathPrefix("/dsfm").Subrouter()
	dsfm.HandleFunc("/top-stocks", h.Market.GetTopStocks).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/available-symbols", h.Market.GetAvailableSymbols).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/forecast/{symbol}", h.DSFM.GetForecast).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/decision/{symbol}", h.DSFM.GetDecision).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/sentiment/{symbol}", h.DSFM.GetSentiment).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/garch-analysis/{symbol}", h.DSFM.GetVolatilityAnalysis).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/finbert-analysis", h.DSFM.GetHeadlineAnalysis).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/combined-analysis/{symbol}", h.DSFM.GetCombinedAnalysis).Methods("GET", "OPTIONS")
	dsfm.HandleFunc("/cache/stats", h.DSFM.GetCacheStats).Methods("GET", "OPTIONS")

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// Apply middleware (바깥쪽부터)
	r.Use(requestIDMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(metricsMiddleware(rec))
	r.Use(recoveryMiddleware(log))
	r.Use(corsMiddleware)

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "dsfm-api",
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
}
