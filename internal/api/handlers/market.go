package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/analytics"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
)

// MarketHandler serves the descriptive market views
// ⭐ SSOT: 시장 API 핸들러는 이 구조체에서만
type MarketHandler struct {
	analytics *analytics.Service
	logger    *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(svc *analytics.Service, log *logger.Logger) *MarketHandler {
	return &MarketHandler{analytics: svc, logger: log}
}

// GetIndex GET /api/nifty
func (h *MarketHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	idx, err := h.analytics.Index(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, idx)
}

// GetIndexHistory GET /api/nifty/history
func (h *MarketHandler) GetIndexHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := h.analytics.IndexHistory(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, hist)
}

// GetStock GET /api/stock/{symbol}
func (h *MarketHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	s, err := h.analytics.Stock(r.Context(), mux.Vars(r)["symbol"])
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// GetMovers GET /api/market-movers
func (h *MarketHandler) GetMovers(w http.ResponseWriter, r *http.Request) {
	m, err := h.analytics.Movers(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// GetMostBought GET /api/most-bought
func (h *MarketHandler) GetMostBought(w http.ResponseWriter, r *http.Request) {
	mb, err := h.analytics.MostBought(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	if mb == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"most_bought": nil})
		return
	}
	respondJSON(w, http.StatusOK, mb)
}

// GetInsights GET /api/market-insights
func (h *MarketHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	in, err := h.analytics.Insights(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, in)
}

// GetPortfolio GET /api/portfolio
func (h *MarketHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.analytics.Portfolio(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GetTopStocks GET /api/dsfm/top-stocks
func (h *MarketHandler) GetTopStocks(w http.ResponseWriter, r *http.Request) {
	top, err := h.analytics.TopStocks(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, top)
}

// GetAvailableSymbols GET /api/dsfm/available-symbols
func (h *MarketHandler) GetAvailableSymbols(w http.ResponseWriter, r *http.Request) {
	syms, err := h.analytics.AvailableSymbols(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": syms,
		"total":   len(syms),
	})
}
