package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adminRouter(store *memReportStore) http.Handler {
	h := NewAdminHandler(newReportService(store, &memSource{}), zap.NewNop())
	return h.Routes()
}

func doDelete(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDeleteEvent_NoContent(t *testing.T) {
	r := adminRouter(&memReportStore{deleteOK: true})

	rec := doDelete(r, "/events/ev-123")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteEvent_NotFound(t *testing.T) {
	r := adminRouter(&memReportStore{deleteOK: false})

	rec := doDelete(r, "/events/ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event with ID ghost not found")
}

func TestDeleteSessionEvents(t *testing.T) {
	r := adminRouter(&memReportStore{deletedCount: 17})

	rec := doDelete(r, "/sessions/sess-1/events")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":17`)
	assert.Contains(t, rec.Body.String(), `"session_id":"sess-1"`)
}

func TestDeleteLevelEvents(t *testing.T) {
	r := adminRouter(&memReportStore{deletedCount: 0})

	rec := doDelete(r, "/levels/level-1/events")

	// Ноль удаленных — все равно успех
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":0`)
	assert.Contains(t, rec.Body.String(), `"level_id":"level-1"`)
}
