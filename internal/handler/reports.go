package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/playtrace/internal/service"
	"go.uber.org/zap"
)

type ReportsHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

func NewReportsHandler(reports *service.ReportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{reports: reports, logger: logger.Named("reports-handler")}
}

func (h *ReportsHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.reports.Levels(r.Context())
	if err != nil {
		h.logger.Error("level listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Could not load available levels")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"levels": levels})
}

func (h *ReportsHandler) LevelReport(w http.ResponseWriter, r *http.Request) {
	levelID := chi.URLParam(r, "levelID")

	report, err := h.reports.LevelReport(r.Context(), levelID)
	if err != nil {
		if errors.Is(err, service.ErrLevelNotFound) {
			respondError(w, http.StatusNotFound, "Level '"+levelID+"' not found or has no associated event data")
			return
		}
		h.logger.Error("level report failed", zap.String("level_id", levelID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to build level report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *ReportsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	levelID := r.URL.Query().Get("level_id") // опциональный фильтр

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	sessions, err := h.reports.Sessions(r.Context(), levelID, limit)
	if err != nil {
		h.logger.Error("session listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error loading session list")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
