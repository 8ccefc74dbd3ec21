package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/forecast"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/marketdata"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
)

// ForecastService is the engine surface the handlers need
type ForecastService interface {
	contracts.Forecaster
	Analyze(ctx context.Context, symbol string) (*contracts.VolatilityAnalysis, error)
	CacheStats() forecast.CacheStats
}

// Decider produces the fused trading signal
type Decider interface {
	Decide(ctx context.Context, symbol string) (*contracts.Decision, error)
}

// HeadlineAnalyzer scores the symbol,headline CSV sample
type HeadlineAnalyzer interface {
	Analyze(ctx context.Context) (*contracts.HeadlineReport, error)
	ForSymbol(ctx context.Context, symbol string, variants ...string) (*contracts.HeadlineSentiment, error)
}

// timestampLayout combined-analysis 응답 시각 (서버 로컬)
const timestampLayout = "2006-01-02 15:04:05"

// combinedAnalysis 섹션별로 실패를 담는 종합 분석 응답
type combinedAnalysis struct {
	Symbol       string                 `json:"symbol"`
	ActualSymbol string                 `json:"actual_symbol"`
	Analyses     map[string]interface{} `json:"analyses"`
	Timestamp    string                 `json:"timestamp"`
}

// forecastQuery ?steps=
type forecastQuery struct {
	Steps int `validate:"min=0,max=365"`
}

// DSFMHandler serves forecasts, sentiment and decisions
// ⭐ SSOT: DSFM API 핸들러는 이 구조체에서만
type DSFMHandler struct {
	engine    ForecastService
	decider   Decider
	sentiment contracts.SentimentProvider
	headlines HeadlineAnalyzer
	prices    contracts.PriceProvider
	validate  *validator.Validate
	logger    *logger.Logger
	now       func() time.Time
}

// NewDSFMHandler creates a new DSFM handler
func NewDSFMHandler(
	engine ForecastService,
	decider Decider,
	sentiment contracts.SentimentProvider,
	headlines HeadlineAnalyzer,
	prices contracts.PriceProvider,
	log *logger.Logger,
) *DSFMHandler {
	return &DSFMHandler{
		engine:    engine,
		decider:   decider,
		sentiment: sentiment,
		headlines: headlines,
		prices:    prices,
		validate:  validator.New(),
		logger:    log,
		now:       time.Now,
	}
}

// GetForecast GET /api/dsfm/forecast/{symbol}?steps=30
// steps 생략 시 엔진 기본값; 캐시 적중 시 steps는 무시됨
func (h *DSFMHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	q := forecastQuery{}
	if s := r.URL.Query().Get("steps"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "steps must be an integer")
			return
		}
		q.Steps = n
	}
	if err := h.validate.Struct(q); err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}

	bundle, err := h.engine.Forecast(r.Context(), mux.Vars(r)["symbol"], q.Steps)
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

// GetDecision GET /api/dsfm/decision/{symbol}
func (h *DSFMHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	d, err := h.decider.Decide(r.Context(), mux.Vars(r)["symbol"])
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// GetSentiment GET /api/dsfm/sentiment/{symbol}
// 실패해도 NEUTRAL 판정으로 200 응답
func (h *DSFMHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sentiment.Verdict(r.Context(), mux.Vars(r)["symbol"]))
}

// GetVolatilityAnalysis GET /api/dsfm/garch-analysis/{symbol}
// symbol은 대소문자/접두어가 달라도 컬럼으로 해석됨 (actual_symbol)
func (h *DSFMHandler) GetVolatilityAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested := mux.Vars(r)["symbol"]
	actual, err := marketdata.ResolveSymbol(ctx, h.prices, requested)
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}

	a, err := h.engine.Analyze(ctx, actual)
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	a.Symbol, a.ActualSymbol = requested, actual
	respondJSON(w, http.StatusOK, a)
}

// GetHeadlineAnalysis GET /api/dsfm/finbert-analysis
// 헤드라인 CSV 전체를 종목별로 점수화
func (h *DSFMHandler) GetHeadlineAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, err := h.headlines.Analyze(r.Context())
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// GetCombinedAnalysis GET /api/dsfm/combined-analysis/{symbol}
// 알 수 없는 심볼만 404; 각 섹션의 실패는 {"error": ...} 로 담아 200 응답
func (h *DSFMHandler) GetCombinedAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested := mux.Vars(r)["symbol"]
	actual, err := marketdata.ResolveSymbol(ctx, h.prices, requested)
	if err != nil {
		respondFailure(w, h.logger, r, err)
		return
	}

	analyses := make(map[string]interface{}, 2)

	if a, err := h.engine.Analyze(ctx, actual); err != nil {
		analyses["garch"] = h.sectionError(r, "garch", err)
	} else {
		a.Symbol, a.ActualSymbol = requested, actual
		analyses["garch"] = a
	}

	if s, err := h.headlines.ForSymbol(ctx, requested, marketdata.DisplayName(actual)); err != nil {
		analyses["sentiment"] = h.sectionError(r, "sentiment", err)
	} else {
		analyses["sentiment"] = s
	}

	respondJSON(w, http.StatusOK, combinedAnalysis{
		Symbol:       requested,
		ActualSymbol: actual,
		Analyses:     analyses,
		Timestamp:    h.now().Format(timestampLayout),
	})
}

// sectionError 섹션 실패를 respondFailure 와 같은 메시지로 기록
func (h *DSFMHandler) sectionError(r *http.Request, section string, err error) map[string]string {
	status, message := classify(err)
	logger.FromContext(r.Context(), h.logger).WithError(err).WithFields(map[string]interface{}{
		"section": section,
		"status":  status,
	}).Debug("Combined analysis section failed")
	return map[string]string{"error": message}
}

// GetCacheStats GET /api/dsfm/cache/stats
func (h *DSFMHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.CacheStats())
}
