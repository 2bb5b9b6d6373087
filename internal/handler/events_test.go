package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/playtrace/internal/domain"
	"github.com/xela07ax/playtrace/internal/infra"
	"github.com/xela07ax/playtrace/internal/service"
)

// memStore — путь записи в памяти для хендлерных тестов.
type memStore struct {
	events    []domain.CanonicalEvent
	insertErr error
}

func (m *memStore) InsertBatch(_ context.Context, events []domain.CanonicalEvent) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.events = append(m.events, events...)
	return nil
}

func newEventsHandler(store service.EventStore) *EventsHandler {
	metrics := infra.NewMetrics(nil)
	cache := service.NewZoneCache(nil, 0, metrics, zap.NewNop())
	ingest := service.NewIngestService(store, cache, metrics, zap.NewNop())
	return NewEventsHandler(ingest, zap.NewNop())
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReceiveBatch_Created(t *testing.T) {
	store := &memStore{}
	h := newEventsHandler(store)

	body := `{
		"sessionId": "sess-1",
		"levelId": "level-1",
		"positionUpdates": [
			{"timeStamp": "2026-08-29T10:00:00Z", "position": {"x": 1, "y": 2, "z": 3}}
		],
		"playerActions": [
			{"timeStamp": "2026-08-29T10:00:01Z", "eventType": "death", "position": {"x": 1, "y": 2, "z": 3}, "actionDetails": {"cause": "spikes"}}
		]
	}`
	rec := postJSON(h.Routes(), body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 events received and processed")
	require.Len(t, store.events, 2)
	assert.Equal(t, "sess-1", store.events[0].SessionID)
	assert.Equal(t, "level-1", store.events[0].LevelID)
}

func TestReceiveBatch_RequiresJSONContentType(t *testing.T) {
	h := newEventsHandler(&memStore{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request must be JSON")
}

func TestReceiveBatch_MalformedBody(t *testing.T) {
	h := newEventsHandler(&memStore{})

	rec := postJSON(h.Routes(), `{"sessionId": "sess-1", "positionUpdates": "not-a-list"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid batch format")
}

func TestReceiveBatch_MissingSessionID(t *testing.T) {
	h := newEventsHandler(&memStore{})

	rec := postJSON(h.Routes(), `{"levelId": "level-1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing sessionId")
}

func TestReceiveBatch_EmptyBatch(t *testing.T) {
	h := newEventsHandler(&memStore{})

	rec := postJSON(h.Routes(), `{"sessionId": "sess-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Empty batch submitted")
}

func TestReceiveBatch_AllEntriesDropped(t *testing.T) {
	h := newEventsHandler(&memStore{})

	body := `{
		"sessionId": "sess-1",
		"positionUpdates": [{"timeStamp": "garbage", "position": {"x": 1, "y": 2, "z": 3}}]
	}`
	rec := postJSON(h.Routes(), body)

	// Кандидаты были, но ни один не прошел валидацию
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No valid events processed from the batch")
}

func TestReceiveBatch_StoreFailure(t *testing.T) {
	h := newEventsHandler(&memStore{insertErr: errors.New("pg down")})

	body := `{
		"sessionId": "sess-1",
		"positionUpdates": [{"timeStamp": "2026-08-29T10:00:00Z", "position": {"x": 1, "y": 2, "z": 3}}]
	}`
	rec := postJSON(h.Routes(), body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to process event batch due to server error")
}
