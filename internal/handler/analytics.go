package handler

import (
	"net/http"
	"strconv"

	"github.com/xela07ax/playtrace/internal/infra"
	"github.com/xela07ax/playtrace/internal/service"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	cfg       infra.AnalyticsConfig
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, cfg infra.AnalyticsConfig, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, cfg: cfg, logger: logger.Named("analytics-handler")}
}

// GetHeatmap отдает позиционные данные уровня для тепловой карты.
func (h *AnalyticsHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	levelID := r.URL.Query().Get("level_id")
	sessionID := r.URL.Query().Get("session_id") // опционально
	if levelID == "" {
		respondError(w, http.StatusBadRequest, "Missing required parameter: level_id")
		return
	}

	data, err := h.analytics.Heatmap(r.Context(), levelID, sessionID)
	if err != nil {
		h.logger.Error("heatmap failed",
			zap.String("level_id", levelID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve heatmap data")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// GetZones запускает кластеризацию и рекомендации для уровня.
// Параметры DBSCAN можно перекрыть через query string.
func (h *AnalyticsHandler) GetZones(w http.ResponseWriter, r *http.Request) {
	levelID := r.URL.Query().Get("level_id")
	sessionID := r.URL.Query().Get("session_id")
	if levelID == "" {
		respondError(w, http.StatusBadRequest, "Missing required parameter: level_id")
		return
	}

	eps := h.cfg.DefaultEps
	minSamples := h.cfg.DefaultMinSamples
	var err error
	if raw := r.URL.Query().Get("eps"); raw != "" {
		if eps, err = strconv.ParseFloat(raw, 64); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid format for eps or min_samples parameters.")
			return
		}
	}
	if raw := r.URL.Query().Get("min_samples"); raw != "" {
		if minSamples, err = strconv.Atoi(raw); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid format for eps or min_samples parameters.")
			return
		}
	}

	result, err := h.analytics.AnalyzeZones(r.Context(), levelID, sessionID, eps, minSamples)
	if err != nil {
		h.logger.Error("zone analysis failed",
			zap.String("level_id", levelID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed processing zones/recommendations")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
