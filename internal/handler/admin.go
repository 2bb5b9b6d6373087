package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/playtrace/internal/service"
	"go.uber.org/zap"
)

// AdminHandler — административные удаления событий. Авторизация живет
// во внешнем периметре, сюда запросы приходят уже проверенными.
type AdminHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

func NewAdminHandler(reports *service.ReportService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{reports: reports, logger: logger.Named("admin-handler")}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Delete("/events/{eventID}", h.DeleteEvent)
	r.Delete("/sessions/{sessionID}/events", h.DeleteSessionEvents)
	r.Delete("/levels/{levelID}/events", h.DeleteLevelEvents)
	return r
}

func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	ok, err := h.reports.DeleteEvent(r.Context(), eventID)
	if err != nil {
		h.logger.Error("event delete failed", zap.String("event_id", eventID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error deleting event")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Event with ID %s not found", eventID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteSessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	deleted, err := h.reports.DeleteSessionEvents(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("session bulk delete failed", zap.String("session_id", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error deleting events for session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"deleted":    deleted,
	})
}

func (h *AdminHandler) DeleteLevelEvents(w http.ResponseWriter, r *http.Request) {
	levelID := chi.URLParam(r, "levelID")

	deleted, err := h.reports.DeleteLevelEvents(r.Context(), levelID)
	if err != nil {
		h.logger.Error("level bulk delete failed", zap.String("level_id", levelID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error deleting events for level")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"level_id": levelID,
		"deleted":  deleted,
	})
}
