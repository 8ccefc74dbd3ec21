package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondFailure maps a domain error onto status + message
// ⭐ SSOT: 에러 → HTTP 상태 매핑은 여기서만
func respondFailure(w http.ResponseWriter, log *logger.Logger, r *http.Request, err error) {
	status, message := classify(err)
	entry := logger.FromContext(r.Context(), log).WithError(err).WithFields(map[string]interface{}{
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	var ferr *contracts.HeadlineFormatError
	if errors.As(err, &ferr) {
		respondJSON(w, status, map[string]interface{}{
			"error":             message,
			"message":           "The sentiment CSV must have 'symbol' and 'headline' columns",
			"available_columns": ferr.Columns,
		})
		return
	}
	respondError(w, status, message)
}

func classify(err error) (int, string) {
	var verr validator.ValidationErrors
	var ferr *contracts.HeadlineFormatError
	switch {
	case errors.Is(err, contracts.ErrSymbolNotFound):
		return http.StatusNotFound, "Symbol not found"
	case errors.Is(err, contracts.ErrNoForecast):
		return http.StatusNotFound, "No forecast"
	case errors.Is(err, contracts.ErrDataInsufficient):
		return http.StatusNotFound, "No data"
	case errors.Is(err, contracts.ErrModelFit):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.As(err, &ferr):
		return http.StatusBadRequest, "Invalid CSV format"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, contracts.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
