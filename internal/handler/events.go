package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/playtrace/internal/domain"
	"github.com/xela07ax/playtrace/internal/service"
	"go.uber.org/zap"
)

type EventsHandler struct {
	ingest *service.IngestService
	logger *zap.Logger
}

func NewEventsHandler(ingest *service.IngestService, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{ingest: ingest, logger: logger.Named("events-handler")}
}

// Routes — маршруты ингеста для Chi
func (h *EventsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ReceiveBatch) // POST /api/events
	return r
}

// ReceiveBatch принимает батч событий от игрового клиента (Unity).
func (h *EventsHandler) ReceiveBatch(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		respondError(w, http.StatusBadRequest, "Request must be JSON")
		return
	}

	var batch domain.EventBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		// Сюда же попадают positionUpdates/playerActions не-списком
		respondError(w, http.StatusBadRequest, "Invalid batch format: "+err.Error())
		return
	}
	if batch.SessionID == "" {
		respondError(w, http.StatusBadRequest, "Missing sessionId")
		return
	}

	result, err := h.ingest.Ingest(r.Context(), batch)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to process event batch due to server error")
		return
	}

	switch {
	case result.Stored > 0:
		respondJSON(w, http.StatusCreated, map[string]string{
			"message": fmt.Sprintf("%d events received and processed", result.Stored),
		})
	case result.Candidates > 0:
		// Кандидаты были, но все отброшены валидацией — это не ошибка клиента в целом
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "No valid events processed from the batch",
		})
	default:
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Empty batch submitted",
		})
	}
}
